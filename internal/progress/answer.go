package progress

import "strings"

// MatchAnswer compares a submitted answer with the expected text. Both sides
// are trimmed; case is folded unless caseSensitive is set.
func MatchAnswer(submitted, expected string, caseSensitive bool) bool {
	submitted = strings.TrimSpace(submitted)
	expected = strings.TrimSpace(expected)
	if caseSensitive {
		return submitted == expected
	}
	return strings.EqualFold(submitted, expected)
}

// ExpectedAnswer returns what phase asks for: the meaning in phase 1, the
// word itself afterwards.
func ExpectedAnswer(phase int, word, meaning string) string {
	if phase == 1 {
		return meaning
	}
	return word
}
