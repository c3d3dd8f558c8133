package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

var (
	escapedArtifacts = strings.NewReplacer(
		`\n`, "\n",
		`\t`, " ",
		`\r`, "",
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
	)
	spaceRuns        = regexp.MustCompile(`[ \t]+`)
	newlineRuns      = regexp.MustCompile(`\n{3,}`)
	spacedNewlines   = regexp.MustCompile(` *\n *`)
	spaceBeforePunct = regexp.MustCompile(` +([.,;:!?)])`)
)

// Normalize cleans raw extracted text into the form the chunker consumes:
// escape artifacts repaired, control characters stripped, characters
// restricted to an allow list, whitespace collapsed (at most two consecutive
// newlines) and spacing around punctuation fixed. Fails with ErrTextTooShort
// when the cleaned result drops below the absolute minimum length.
func Normalize(text string) (string, error) {
	text = escapedArtifacts.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case unicode.IsControl(r):
			//dropped - extraction debris
		case isValidChar(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	cleaned := spaceRuns.ReplaceAllString(b.String(), " ")
	cleaned = spacedNewlines.ReplaceAllString(cleaned, "\n")
	cleaned = newlineRuns.ReplaceAllString(cleaned, "\n\n")
	cleaned = spaceBeforePunct.ReplaceAllString(cleaned, "$1")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) < config.MinTextLength {
		return "", fmt.Errorf("%w: %d chars after normalization", docModel.ErrTextTooShort, len(cleaned))
	}
	return cleaned, nil
}
