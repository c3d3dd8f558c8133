package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

// libraryParser delegates to dslipak/pdf, the general-purpose extraction
// library. GetPlainText with a nil font map keeps whitespace normalization
// on and font substitution off.
type libraryParser struct{}

func (p *libraryParser) Name() string { return "pdf-library" }

func (p *libraryParser) Extract(ctx context.Context, data []byte) (*docModel.ExtractionResult, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	extracted := 0

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectedPageText(page)
		if err != nil {
			//a broken page should not sink the rest of the document
			continue
		}
		if content != "" {
			sb.WriteString(content)
			sb.WriteString("\n\n")
			extracted++
		}
	}

	if extracted == 0 {
		return nil, errors.New("library parser extracted no pages")
	}
	return &docModel.ExtractionResult{
		Text:   sb.String(),
		Method: "pdf-library",
		Pages:  numPages,
	}, nil
}

// protectedPageText isolates the library call: dslipak/pdf is known to hang
// or panic on malformed pages, so the call runs in its own goroutine behind
// a recover and a hard timeout.
func protectedPageText(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(10 * time.Second):
		return "", errors.New("page extraction timeout")
	}
}
