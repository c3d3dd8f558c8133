package extraction

import (
	"bytes"
	"compress/zlib"
	"context"
	"strings"
	"testing"
)

func TestNativeParserReadsBareOperators(t *testing.T) {
	data := []byte("%PDF-1.4\n" +
		"1 0 obj\n<< /Type /Pages /Count 1 >>\nendobj\n" +
		"2 0 obj\n<< /Type /Page >>\nendobj\n" +
		"BT (Hello World) Tj ET\n")

	p := &nativeParser{}
	res, err := p.Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Text != "Hello World" {
		t.Errorf("text = %q, want %q", res.Text, "Hello World")
	}
	if res.Pages != 1 {
		t.Errorf("pages = %d, want 1", res.Pages)
	}
}

func TestNativeParserInflatesFlateStreams(t *testing.T) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write([]byte("BT (Compressed page text) Tj ET")); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	var data bytes.Buffer
	data.WriteString("%PDF-1.4\n4 0 obj\n<< /Length 123 /Filter /FlateDecode >>\nstream\n")
	data.Write(compressed.Bytes())
	data.WriteString("\nendstream\nendobj\n")

	p := &nativeParser{}
	res, err := p.Extract(context.Background(), data.Bytes())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !strings.Contains(res.Text, "Compressed page text") {
		t.Errorf("text = %q, want the inflated stream content", res.Text)
	}
}

func TestNativeParserDecodesHexStrings(t *testing.T) {
	data := []byte("%PDF-1.4\nBT <48656C6C6F> Tj ET\n")

	p := &nativeParser{}
	res, err := p.Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Text != "Hello" {
		t.Errorf("text = %q, want %q", res.Text, "Hello")
	}
}

func TestNativeParserErrorsOnEmptyFile(t *testing.T) {
	p := &nativeParser{}
	if _, err := p.Extract(context.Background(), []byte("%PDF-1.4\nnothing textual here")); err == nil {
		t.Fatal("expected an error for a file without text operators")
	}
}

func TestExtractTextOperatorsHandlesEscapesAndArrays(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"escaped parens", `(balanced \(for once\)) Tj`, "balanced (for once)"},
		{"octal escape", `(caf\351) Tj`, "café"},
		{"tj array", `[(Hel)(lo )(world)] TJ`, "Hello world"},
		{"newline escape", `(line one\nline two) Tj`, "line one\nline two"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractTextOperators(tc.content); got != tc.want {
				t.Errorf("extractTextOperators(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestDecodeHexStringUTF16(t *testing.T) {
	// FEFF BOM, then "Hi" as UTF-16BE code units
	if got := decodeHexString("FEFF00480069"); got != "Hi" {
		t.Errorf("utf-16 hex decode = %q, want %q", got, "Hi")
	}
	if got := decodeHexString("4869"); got != "Hi" {
		t.Errorf("latin-1 hex decode = %q, want %q", got, "Hi")
	}
}

func TestHeuristicExtractorFiltersMetadata(t *testing.T) {
	data := []byte("%PDF-1.4\n" +
		"BT /F1 12 Tf (Real content from the page) Tj ET\n" +
		"(/Font noise Type1) Tj\n" +
		"(3 0 R) Tj\n")

	p := &heuristicExtractor{}
	res, err := p.Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Text != "Real content from the page" {
		t.Errorf("text = %q, metadata strings should be filtered out", res.Text)
	}
}

func TestRawTextScannerFindsReadableRun(t *testing.T) {
	junk := []byte{0x00, 0x03, 0x91, 0x00, 0xfe}
	sentence := "A perfectly readable fragment buried inside binary junk, long enough to win."
	data := append(append(append([]byte{}, junk...), []byte(sentence)...), junk...)

	p := &rawTextScanner{}
	res, err := p.Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Text != sentence {
		t.Errorf("text = %q, want the embedded sentence", res.Text)
	}
	if res.Metadata["encoding"] == "" {
		t.Error("expected the winning encoding in metadata")
	}
}

func TestRawTextScannerErrorsOnPureBinary(t *testing.T) {
	p := &rawTextScanner{}
	if _, err := p.Extract(context.Background(), []byte{0x00, 0x00, 0x00, 0x00, 0x00}); err == nil {
		t.Fatal("expected an error for unreadable input")
	}
}

func TestStreamBodiesRecordsOffsetsAndFilter(t *testing.T) {
	data := []byte("<< /Filter /FlateDecode >>\nstream\nAAAA\nendstream\n<< >>\nstream\nBBBB\nendstream\n")

	bodies := streamBodies(data)
	if len(bodies) != 2 {
		t.Fatalf("found %d stream bodies, want 2", len(bodies))
	}
	if !bodies[0].flate || bodies[1].flate {
		t.Errorf("filter detection wrong: %v, %v", bodies[0].flate, bodies[1].flate)
	}
	for i, body := range bodies {
		if got := string(data[body.start:body.end]); got != string(body.data) {
			t.Errorf("body %d offsets do not match data: %q vs %q", i, got, body.data)
		}
	}
}
