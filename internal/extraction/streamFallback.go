package extraction

import (
	"context"
	"errors"
	"strings"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

// streamFallback scans indiscriminately for any stream object and attempts
// decompression regardless of the declared filter. It exists for files whose
// object structure is damaged enough that the native parser's dictionary
// bookkeeping gives up.
type streamFallback struct{}

func (p *streamFallback) Name() string { return "stream-fallback" }

func (p *streamFallback) Extract(_ context.Context, data []byte) (*docModel.ExtractionResult, error) {
	var parts []string

	for _, body := range streamBodies(data) {
		content := body.data
		if inflated, err := inflateStream(body.data); err == nil {
			content = inflated
		}
		if text := extractTextOperators(string(content)); text != "" {
			parts = append(parts, text)
		}
	}

	combined := strings.TrimSpace(strings.Join(parts, "\n"))
	if combined == "" {
		return nil, errors.New("no recognizable text operators in any stream")
	}
	return &docModel.ExtractionResult{
		Text:   combined,
		Method: "stream-fallback",
		Pages:  pageCount(data),
	}, nil
}
