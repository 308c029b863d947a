package tokens

import (
	"strings"
	"unicode/utf8"
)

// EstimateTokens counts tokens exactly when the encoding is available and
// falls back to ceil(chars/4) otherwise.
func EstimateTokens(text string) int {
	if tok, err := Default(); err == nil {
		return tok.Count(text)
	}
	return (utf8.RuneCountInString(text) + charsPerToken - 1) / charsPerToken
}

// EstimateTokensAll sums EstimateTokens over texts.
func EstimateTokensAll(texts []string) int {
	total := 0
	for _, t := range texts {
		total += EstimateTokens(t)
	}
	return total
}

// WouldExceedBudget reports whether adding text to current tokens goes over maxTokens.
func WouldExceedBudget(current int, text string, maxTokens int) bool {
	return current+EstimateTokens(text) > maxTokens
}

// TruncateToBudget cuts text to fit maxTokens, preferring to end on a newline
// or space in the last fifth of the kept text. Reports whether it cut anything.
func TruncateToBudget(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		return text, false
	}

	var cut string
	if tok, err := Default(); err == nil {
		cut, _ = tok.Truncate(text, maxTokens)
	} else {
		cut = truncateRunes(text, maxTokens*charsPerToken)
	}

	floor := len(cut) * 4 / 5
	if i := strings.LastIndexByte(cut, '\n'); i > floor {
		return cut[:i], true
	}
	if i := strings.LastIndexByte(cut, ' '); i > floor {
		return cut[:i], true
	}
	return cut, true
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
