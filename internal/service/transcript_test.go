package service

import "testing"

// The word counter intentionally splits on single spaces only; these cases
// pin the quirks (empty pieces on double spaces, no split on newlines) so
// counts stay comparable with already-processed records.
func TestWordCount(t *testing.T) {
	testCases := []struct {
		name       string
		transcript string
		want       int
	}{
		{name: "single spaces", transcript: "a b c", want: 3},
		{name: "double space yields empty piece", transcript: "a b  c", want: 4},
		{name: "newline does not split", transcript: "a\nb", want: 1},
		{name: "empty transcript is one empty piece", transcript: "", want: 1},
		{name: "single word", transcript: "hello", want: 1},
		{name: "trailing space", transcript: "a b ", want: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WordCount(tc.transcript); got != tc.want {
				t.Errorf("WordCount(%q) = %d, want %d", tc.transcript, got, tc.want)
			}
		})
	}
}

func TestTokenCountEstimate(t *testing.T) {
	testCases := []struct {
		name       string
		transcript string
		want       int
	}{
		{name: "punctuation excluded", transcript: "Hello, world! 123", want: 3},
		{name: "empty", transcript: "", want: 0},
		{name: "underscore joins a run", transcript: "foo_bar", want: 1},
		{name: "punctuation only", transcript: "!?.,;", want: 0},
		{name: "runs across newlines", transcript: "a\nb\nc", want: 3},
		{name: "digits count", transcript: "4 score and 7 years", want: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenCountEstimate(tc.transcript); got != tc.want {
				t.Errorf("TokenCountEstimate(%q) = %d, want %d", tc.transcript, got, tc.want)
			}
		})
	}
}
