package quality

import (
	"strings"
	"unicode"
)

// Score estimates how readable a piece of extracted text is, in [0,1].
// Weighted blend: 50% valid-character ratio, 30% valid-word-shape ratio,
// then small bonuses for plausible word density, character diversity and
// substantial length, minus penalties for very short or very sparse text.
// The thresholds the orchestrator compares against live in config.
func Score(text string) float64 {
	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return 0
	}

	validChars := 0
	unique := make(map[rune]struct{}, 64)
	for _, r := range runes {
		if isValidChar(r) {
			validChars++
		}
		unique[r] = struct{}{}
	}
	charRatio := float64(validChars) / float64(total)

	tokens := strings.Fields(text)
	validWords := 0
	for _, tok := range tokens {
		if looksLikeWord(tok) {
			validWords++
		}
	}
	wordRatio := 0.0
	if len(tokens) > 0 {
		wordRatio = float64(validWords) / float64(len(tokens))
	}

	score := 0.5*charRatio + 0.3*wordRatio

	// words per 100 characters; prose sits roughly between 8 and 25
	density := float64(len(tokens)) / float64(total) * 100
	if density >= 8 && density <= 25 {
		score += 0.1
	}

	if len(unique) >= 20 {
		score += 0.05
	}
	if total >= 200 {
		score += 0.05
	}

	if total < 10 {
		score -= 0.2
	}
	if density > 0 && density < 3 {
		score -= 0.1
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func isValidChar(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return true
	}
	return strings.ContainsRune(`.,;:!?'"()-–%/&@#$€£`, r)
}

// looksLikeWord accepts tokens shaped like natural-language words: mostly
// letters, possibly with inner apostrophes/hyphens and trailing punctuation.
func looksLikeWord(tok string) bool {
	trimmed := strings.TrimRight(tok, `.,;:!?'")`)
	trimmed = strings.TrimLeft(trimmed, `('"`)
	if trimmed == "" || len([]rune(trimmed)) > 40 {
		return false
	}
	letters := 0
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r), r == '\'', r == '-':
		default:
			return false
		}
	}
	return letters > 0
}
