package game

import "strings"

// Normalize lowercases, trims surrounding whitespace and folds ё to е so
// that common spelling variants of the same word compare equal.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	return strings.ReplaceAll(text, "ё", "е")
}

// Score returns the point value of the first keyed answer whose normalized
// form equals the normalized input, or zero when nothing matches. Matching
// is exact after normalization; there is no fuzzy distance.
func Score(q Question, text string) int {
	norm := Normalize(text)
	for _, a := range q.Answers {
		if Normalize(a.Text) == norm {
			return a.Points
		}
	}
	return 0
}
