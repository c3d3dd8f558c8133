package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lu4p/cat"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/internal/quality"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

// Strategy is one technique for turning raw file bytes into text. Strategies
// are pure with respect to the input buffer; whatever goes wrong inside one
// stays inside it and the orchestrator just moves on to the next.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, data []byte) (*docModel.ExtractionResult, error)
}

var pdfHeader = []byte("%PDF-")

type Orchestrator struct {
	strategies []Strategy
	accept     float64
	floor      float64
	logger     *logger_i.Logger
}

// DefaultStrategies returns the fixed fallback chain. ocr may be nil when no
// remote OCR endpoint is configured; when WHISPER_FIRST is set OCR becomes
// the primary path instead of the terminal fallback.
func DefaultStrategies(ocr Strategy) []Strategy {
	ordered := []Strategy{
		&nativeParser{},
		&libraryParser{},
		&streamFallback{},
		&heuristicExtractor{},
		&rawTextScanner{},
	}
	if ocr == nil {
		return ordered
	}
	if config.WhisperFirst() {
		return append([]Strategy{ocr}, ordered...)
	}
	return append(ordered, ocr)
}

func NewOrchestrator(strategies []Strategy, accept float64, floor float64) *Orchestrator {
	return &Orchestrator{
		strategies: strategies,
		accept:     accept,
		floor:      floor,
		logger:     logger_i.NewLogger("Extraction"),
	}
}

// ExtractDocument turns raw bytes into normalized text. Plain text and
// markdown pass straight through the normalizer; PDFs walk the strategy
// chain in order, short-circuiting on the first candidate at or above the
// accept threshold and otherwise keeping the best seen.
func (o *Orchestrator) ExtractDocument(ctx context.Context, data []byte, docType docModel.DocType) (*docModel.ExtractionResult, error) {
	switch docType {
	case docModel.TXT, docModel.MD:
		return o.passThrough(data)
	case docModel.DOCX:
		return o.catDocument(data)
	case docModel.PDF:
		return o.runStrategies(ctx, data)
	default:
		return nil, docModel.NewProcessingError(docModel.CategoryValidation,
			fmt.Sprintf("unsupported document type %q", docType), nil)
	}
}

func (o *Orchestrator) runStrategies(ctx context.Context, data []byte) (*docModel.ExtractionResult, error) {
	if !bytes.HasPrefix(data, pdfHeader) {
		return nil, docModel.NewProcessingError(docModel.CategoryCorruption,
			"file does not carry a PDF signature", nil)
	}

	var best *docModel.ExtractionResult
	var lastErr error

	for _, s := range o.strategies {
		if err := ctx.Err(); err != nil {
			return nil, docModel.NewProcessingError(docModel.CategoryTimeout, "extraction cancelled", err)
		}

		res, err := s.Extract(ctx, data)
		if err != nil || res == nil || res.Text == "" {
			o.logger.Debug("strategy produced nothing usable", "strategy", s.Name(), "error", err)
			if err != nil {
				lastErr = err
			}
			continue
		}

		normalized, err := quality.Normalize(res.Text)
		if err != nil {
			o.logger.Debug("strategy output rejected by normalizer", "strategy", s.Name(), "error", err)
			lastErr = err
			continue
		}

		res.Text = normalized
		res.Quality = quality.Score(normalized)
		o.logger.Debug("strategy scored", "strategy", s.Name(), "quality", res.Quality, "chars", len(normalized))

		if res.Quality >= o.accept {
			return res, nil
		}
		if best == nil || res.Quality > best.Quality {
			best = res
		}
	}

	if best != nil && best.Quality >= o.floor {
		o.logger.Info("accepting best-effort extraction", "method", best.Method, "quality", best.Quality)
		return best, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no strategy produced usable text")
	}
	return nil, docModel.NewProcessingError(docModel.CategoryExtraction,
		"all extraction strategies exhausted", lastErr)
}

func (o *Orchestrator) passThrough(data []byte) (*docModel.ExtractionResult, error) {
	normalized, err := quality.Normalize(string(data))
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryExtraction, "document text too short", err)
	}
	return &docModel.ExtractionResult{
		Text:    normalized,
		Method:  "plain-text",
		Quality: quality.Score(normalized),
		Pages:   1,
	}, nil
}

// catDocument handles docx/odt/rtf through lu4p/cat, which only reads from
// disk, so the buffer takes a detour through a temp file.
func (o *Orchestrator) catDocument(data []byte) (*docModel.ExtractionResult, error) {
	tmp, err := os.CreateTemp("", "ingest-*.docx")
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryPersistence, "could not stage document", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, docModel.NewProcessingError(docModel.CategoryPersistence, "could not stage document", err)
	}
	tmp.Close()

	text, err := cat.File(tmp.Name())
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryExtraction, "document extraction failed", err)
	}

	normalized, err := quality.Normalize(text)
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryExtraction, "document text too short", err)
	}
	return &docModel.ExtractionResult{
		Text:    normalized,
		Method:  "cat-document",
		Quality: quality.Score(normalized),
		Pages:   1,
	}, nil
}
