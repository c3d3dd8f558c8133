package extraction

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

// heuristicExtractor regex-scans for BT...ET text blocks and for bare
// (...)Tj occurrences outside any block, filtering out strings that are
// really PDF metadata noise (font names, object references) rather than
// page text.
type heuristicExtractor struct{}

var (
	btBlockPattern = regexp.MustCompile(`(?s)BT(.*?)ET`)
	objRefPattern  = regexp.MustCompile(`^\d+\s+\d+\s+R$`)
)

var metadataKeywords = []string{
	"/Font", "/Type", "/Subtype", "/BaseFont", "/Encoding", "/Filter",
	"/Length", "/Width", "/Height", "FontDescriptor", "TrueType", "Type1",
	"Identity-H", "WinAnsiEncoding",
}

func (p *heuristicExtractor) Name() string { return "heuristic-regex" }

func (p *heuristicExtractor) Extract(_ context.Context, data []byte) (*docModel.ExtractionResult, error) {
	raw := string(data)
	var parts []string

	blocks := btBlockPattern.FindAllStringSubmatch(raw, -1)
	for _, block := range blocks {
		for _, lit := range literalString.FindAllStringSubmatch(block[1], -1) {
			if s := unescapePDFString(lit[1]); usableString(s) {
				parts = append(parts, s)
			}
		}
	}

	// bare Tj operators outside any BT/ET block
	stripped := btBlockPattern.ReplaceAllString(raw, " ")
	for _, m := range tjPattern.FindAllStringSubmatch(stripped, -1) {
		if s := unescapePDFString(m[1]); usableString(s) {
			parts = append(parts, s)
		}
	}

	combined := strings.TrimSpace(strings.Join(parts, " "))
	if combined == "" {
		return nil, errors.New("no text blocks matched")
	}
	return &docModel.ExtractionResult{
		Text:   combined,
		Method: "heuristic-regex",
		Pages:  pageCount(data),
	}, nil
}

func usableString(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return false
	}
	if strings.HasPrefix(s, "/") || objRefPattern.MatchString(s) {
		return false
	}
	for _, kw := range metadataKeywords {
		if strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
