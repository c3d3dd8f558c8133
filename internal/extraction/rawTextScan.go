package extraction

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

// rawTextScanner is the last resort before OCR: it decodes the buffer under
// several character encodings and keeps the longest contiguous run of
// readable characters from whichever decoding yields the most text.
type rawTextScanner struct{}

func (p *rawTextScanner) Name() string { return "raw-text-scan" }

func (p *rawTextScanner) Extract(_ context.Context, data []byte) (*docModel.ExtractionResult, error) {
	candidates := map[string]string{
		"utf-8":    decodeUTF8(data),
		"latin-1":  decodeLatin1(data),
		"ascii":    decodeASCII(data),
		"utf-16le": decodeUTF16(data, false),
		"utf-16be": decodeUTF16(data, true),
	}

	// compare in runes, not bytes: utf-16 misdecodes of ascii text come out
	// as multi-byte CJK runes and would otherwise win on length
	bestEncoding := ""
	bestRun := ""
	bestCount := 0
	for encoding, decoded := range candidates {
		run := longestReadableRun(decoded)
		if count := utf8.RuneCountInString(run); count > bestCount {
			bestRun = run
			bestCount = count
			bestEncoding = encoding
		}
	}

	bestRun = strings.TrimSpace(bestRun)
	if bestRun == "" {
		return nil, errors.New("no readable character runs under any encoding")
	}
	return &docModel.ExtractionResult{
		Text:     bestRun,
		Method:   "raw-text-scan",
		Pages:    1,
		Metadata: map[string]any{"encoding": bestEncoding},
	}, nil
}

func longestReadableRun(text string) string {
	best := ""
	runStart := -1
	for i, r := range text {
		if readableRune(r) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 && i-runStart > len(best) {
			best = text[runStart:i]
		}
		runStart = -1
	}
	if runStart >= 0 && len(text)-runStart > len(best) {
		best = text[runStart:]
	}
	return best
}

func readableRune(r rune) bool {
	return r == '\n' || r == '\t' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.IsPunct(r) || r == ' '
}

func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "\x00")
}

func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

func decodeASCII(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		if b < 0x80 {
			runes[i] = rune(b)
		} else {
			runes[i] = 0 //unreadable, breaks the run
		}
	}
	return string(runes)
}

func decodeUTF16(data []byte, bigEndian bool) string {
	if len(data) < 2 {
		return ""
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		if bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
		}
	}
	return string(utf16.Decode(units))
}
