package extraction

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

// text-showing operator patterns shared by the byte-level strategies
var (
	tjPattern      = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)
	tjArrayPattern = regexp.MustCompile(`\[((?:[^\[\]\\]|\\.)*)\]\s*TJ`)
	literalString  = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)
	hexTjPattern   = regexp.MustCompile(`<([0-9A-Fa-f][0-9A-Fa-f\s]*)>\s*Tj`)
	octalEscape    = regexp.MustCompile(`\\([0-7]{1,3})`)
)

// extractTextOperators pulls the arguments of Tj/TJ text-showing operators
// (literal and hex strings) out of a content stream in document order.
func extractTextOperators(content string) string {
	var parts []string

	for _, m := range tjPattern.FindAllStringSubmatch(content, -1) {
		if s := unescapePDFString(m[1]); s != "" {
			parts = append(parts, s)
		}
	}

	for _, m := range tjArrayPattern.FindAllStringSubmatch(content, -1) {
		var fragment strings.Builder
		for _, lit := range literalString.FindAllStringSubmatch(m[1], -1) {
			fragment.WriteString(unescapePDFString(lit[1]))
		}
		if fragment.Len() > 0 {
			parts = append(parts, fragment.String())
		}
	}

	for _, m := range hexTjPattern.FindAllStringSubmatch(content, -1) {
		if s := decodeHexString(m[1]); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, " ")
}

func unescapePDFString(s string) string {
	s = octalEscape.ReplaceAllStringFunc(s, func(esc string) string {
		code, err := strconv.ParseInt(esc[1:], 8, 32)
		if err != nil || code < 32 || code > 255 {
			return " "
		}
		return string(rune(code))
	})
	replacer := strings.NewReplacer(
		`\n`, "\n",
		`\r`, "",
		`\t`, " ",
		`\b`, "",
		`\f`, "",
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
	)
	return replacer.Replace(s)
}

// decodeHexString turns a <...> hex string into text. A leading FEFF byte
// order mark means UTF-16BE, anything else is treated as single-byte latin-1.
func decodeHexString(hexs string) string {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, hexs)
	if len(compact)%2 == 1 {
		compact += "0" //odd-length hex strings get an implicit trailing zero
	}

	raw := make([]byte, 0, len(compact)/2)
	for i := 0; i+1 < len(compact); i += 2 {
		v, err := strconv.ParseUint(compact[i:i+2], 16, 8)
		if err != nil {
			return ""
		}
		raw = append(raw, byte(v))
	}

	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}

	var b strings.Builder
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// inflateStream decompresses a Flate-coded stream body. PDF FlateDecode is
// zlib-wrapped DEFLATE, but some producers emit headerless streams, so raw
// DEFLATE is attempted second.
func inflateStream(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err == nil {
			return out, nil
		}
	}

	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	out, ferr := io.ReadAll(fr)
	if ferr != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryCompression,
			"stream decompression failed", fmt.Errorf("zlib: %v, flate: %v", err, ferr))
	}
	return out, nil
}

// streamBodies returns the raw bytes between stream/endstream keyword pairs,
// together with whether the preceding dictionary declared FlateDecode.
type streamBody struct {
	data       []byte
	flate      bool
	start, end int //absolute offsets into the scanned buffer
}

func streamBodies(data []byte) []streamBody {
	var bodies []streamBody
	rest := data
	offset := 0
	for {
		idx := bytes.Index(rest, []byte("stream"))
		if idx < 0 {
			break
		}
		dictStart := offset
		if d := bytes.LastIndex(data[:offset+idx], []byte("<<")); d >= 0 {
			dictStart = d
		}
		declared := bytes.Contains(data[dictStart:offset+idx], []byte("/FlateDecode"))

		bodyStart := idx + len("stream")
		for bodyStart < len(rest) && (rest[bodyStart] == '\r' || rest[bodyStart] == '\n') {
			bodyStart++
		}
		end := bytes.Index(rest[bodyStart:], []byte("endstream"))
		if end < 0 {
			break
		}
		bodies = append(bodies, streamBody{
			data:  rest[bodyStart : bodyStart+end],
			flate: declared,
			start: offset + bodyStart,
			end:   offset + bodyStart + end,
		})
		advance := bodyStart + end + len("endstream")
		offset += advance
		rest = rest[advance:]
	}
	return bodies
}
