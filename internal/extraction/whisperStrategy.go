package extraction

import (
	"context"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/internal/whisperOCR"
)

// whisperStrategy adapts the async OCR client to the Strategy interface so
// the orchestrator can treat remote OCR like any other technique.
type whisperStrategy struct {
	client *whisperOCR.Client
}

// NewWhisperStrategy returns nil for a nil client so DefaultStrategies can
// skip the OCR slot cleanly.
func NewWhisperStrategy(client *whisperOCR.Client) Strategy {
	if client == nil {
		return nil
	}
	return &whisperStrategy{client: client}
}

func (s *whisperStrategy) Name() string { return "whisper-ocr" }

func (s *whisperStrategy) Extract(ctx context.Context, data []byte) (*docModel.ExtractionResult, error) {
	result, err := s.client.ProcessDocument(ctx, data)
	if err != nil {
		return nil, err
	}
	return &docModel.ExtractionResult{
		Text:   result.Text,
		Method: "whisper-ocr",
		Pages:  result.Pages,
		Metadata: map[string]any{
			"whisperHash": result.Hash,
			"ocrUsed":     true,
		},
	}, nil
}
