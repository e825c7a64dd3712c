package scoring

import (
	"strings"
	"unicode"
)

// nonAnswers are stock ways of saying "I have no question". Matched after
// lowercasing and trimming punctuation.
var nonAnswers = map[string]bool{
	"no":           true,
	"nope":         true,
	"none":         true,
	"nothing":      true,
	"na":           true,
	"n a":          true,
	"no questions": true,
	"no question":  true,
	"not really":   true,
	"idk":          true,
	"i don t know": true,
	"dont know":    true,
	"don t know":   true,
}

// interrogativeMarkers suggest a genuine question even in a short response.
var interrogativeMarkers = map[string]bool{
	"what": true, "why": true, "how": true, "when": true, "where": true,
	"who": true, "which": true, "can": true, "could": true, "would": true,
	"will": true, "does": true, "do": true, "is": true, "are": true,
	"should": true,
}

// IsSubstantiveQuestion reports whether a question-prompt response is worth
// scoring at all. Stock non-answers and bare punctuation are rejected;
// anything carrying an interrogative marker, a question mark, or enough
// text to be a real sentence passes.
func IsSubstantiveQuestion(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if len(trimmed) > 20 {
		return true
	}
	if strings.Contains(trimmed, "?") {
		return true
	}

	normalized := normalizeAnswer(trimmed)
	if normalized == "" || nonAnswers[normalized] {
		return false
	}
	for _, word := range strings.Fields(normalized) {
		if interrogativeMarkers[word] {
			return true
		}
	}
	return meaningfulChars(trimmed) >= 5
}

// normalizeAnswer lowercases and strips everything but letters and digits,
// collapsing runs into single spaces, so "N/A!" and "n.a." compare equal.
func normalizeAnswer(text string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func meaningfulChars(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
