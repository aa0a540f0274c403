package service

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\w+`)

// WordCount counts the pieces of a transcript split on single space
// characters. Consecutive spaces produce empty pieces and newlines do not
// split; records processed by earlier runs carry counts with exactly these
// quirks, so the behavior is kept as is.
// Parameters:
//   - transcript: transcript text.
// Returns:
//   - int: number of split pieces.
func WordCount(transcript string) int {
	return len(strings.Split(transcript, " "))
}

// TokenCountEstimate approximates a language-model token count as the number
// of maximal runs of word characters (letters, digits, underscore). It is a
// coarse estimate, not a tokenizer.
// Parameters:
//   - transcript: transcript text.
// Returns:
//   - int: number of word-character runs.
func TokenCountEstimate(transcript string) int {
	return len(tokenPattern.FindAllStringIndex(transcript, -1))
}
