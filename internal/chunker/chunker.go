package chunker

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

type Options struct {
	ChunkSize int
	Overlap   int
	MinLength int
	MaxChunks int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize: config.DefaultChunkSize,
		Overlap:   config.DefaultChunkOverlap,
		MinLength: config.MinChunkLength,
		MaxChunks: config.MaxChunksPerDocument,
	}
}

func (o Options) sanitized() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = config.DefaultChunkSize
	}
	if o.Overlap < 0 || o.Overlap >= o.ChunkSize {
		o.Overlap = o.ChunkSize / 5
	}
	if o.MinLength <= 0 {
		o.MinLength = config.MinChunkLength
	}
	if o.MaxChunks <= 0 {
		o.MaxChunks = config.MaxChunksPerDocument
	}
	return o
}

// Split slices normalized text into overlapping windows. Each window prefers
// to end at a paragraph break in its trailing half, then a sentence end in
// the trailing 30%, then a word boundary in the trailing 20%, and only hard
// cuts when nothing natural is in range. The next window starts overlap
// characters before the previous end, clamped to strictly advance so the
// loop always terminates. Windows below MinLength are discarded.
func Split(documentId string, text string, opts Options) []docModel.Chunk {
	opts = opts.sanitized()
	now := time.Now()

	var chunks []docModel.Chunk
	start := 0
	for start < len(text) && len(chunks) < opts.MaxChunks {
		end := start + opts.ChunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			//hard cuts come from byte math and can land mid-rune
			end = alignToRune(text, naturalBreak(text, start, end))
		}

		content := strings.TrimSpace(text[start:end])
		if len(content) >= opts.MinLength {
			chunks = append(chunks, docModel.Chunk{
				DocumentId:  documentId,
				Index:       len(chunks),
				Content:     content,
				Start:       start,
				End:         end,
				Size:        len(content),
				CreatedTime: now,
			})
		}

		if end >= len(text) {
			break
		}
		next := alignToRune(text, end-opts.Overlap)
		if next <= start {
			next = start + 1
			for next < len(text) && !utf8.RuneStart(text[next]) {
				next++
			}
		}
		start = next
	}

	return chunks
}

// alignToRune steps a byte offset back off utf-8 continuation bytes so a
// window cut never splits a rune.
func alignToRune(text string, offset int) int {
	for offset > 0 && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}

// naturalBreak picks the best cut point at or before end, never at or before
// start.
func naturalBreak(text string, start, end int) int {
	window := text[start:end]
	size := len(window)

	// paragraph break anywhere in the trailing 50%
	if idx := strings.LastIndex(window, "\n\n"); idx >= size/2 {
		return start + idx + 2
	}

	// sentence end in the trailing 30%
	if idx := lastSentenceEnd(window); idx >= size*7/10 {
		return start + idx
	}

	// word boundary in the trailing 20%
	if idx := strings.LastIndexAny(window, " \n\t"); idx >= size*8/10 {
		return start + idx + 1
	}

	return end
}

func lastSentenceEnd(window string) int {
	best := -1
	for _, sep := range []string{". ", ".\n", "! ", "!\n", "? ", "?\n"} {
		if idx := strings.LastIndex(window, sep); idx > best {
			best = idx
		}
	}
	if best < 0 {
		return -1
	}
	return best + 2
}
