package extraction

import (
	"context"
	"errors"
	"strings"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

// nativeParser walks the PDF object structure directly: it locates
// stream/endstream boundaries, inflates Flate-coded content streams and
// pattern-matches the text-showing operators inside them. Uncompressed
// regions of the file (including content outside any stream) are scanned
// as-is.
type nativeParser struct{}

func (p *nativeParser) Name() string { return "native-pdf" }

func (p *nativeParser) Extract(_ context.Context, data []byte) (*docModel.ExtractionResult, error) {
	var parts []string
	var lastErr error

	bodies := streamBodies(data)
	for _, body := range bodies {
		content := body.data
		if body.flate {
			inflated, err := inflateStream(body.data)
			if err != nil {
				lastErr = err
				continue
			}
			content = inflated
		}
		if text := extractTextOperators(string(content)); text != "" {
			parts = append(parts, text)
		}
	}

	// operators sitting outside any stream (tiny or hand-built PDFs)
	if text := extractTextOperators(stripStreams(data, bodies)); text != "" {
		parts = append(parts, text)
	}

	combined := strings.TrimSpace(strings.Join(parts, "\n"))
	if combined == "" {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errors.New("no text operators found")
	}

	return &docModel.ExtractionResult{
		Text:   combined,
		Method: "native-pdf",
		Pages:  pageCount(data),
	}, nil
}

// stripStreams blanks out stream bodies so their binary content cannot fake
// text operators in the outside-stream scan.
func stripStreams(data []byte, bodies []streamBody) string {
	if len(bodies) == 0 {
		return string(data)
	}
	out := make([]byte, len(data))
	copy(out, data)
	for _, body := range bodies {
		for i := body.start; i < body.end && i < len(out); i++ {
			out[i] = ' '
		}
	}
	return string(out)
}

func pageCount(data []byte) int {
	count := strings.Count(string(data), "/Type /Page")
	count += strings.Count(string(data), "/Type/Page")
	count -= strings.Count(string(data), "/Type /Pages")
	count -= strings.Count(string(data), "/Type/Pages")
	if count < 1 {
		return 1
	}
	return count
}
