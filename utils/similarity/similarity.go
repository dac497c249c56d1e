// Package similarity scores how close two media titles are, tolerant of
// case, punctuation and separator differences. Used to spot duplicates
// when merging search results from different catalogs.
package similarity

import (
	"strings"
	"unicode"
)

// Score returns a value between 0.0 (completely different) and 1.0
// (identical) based on normalized Levenshtein distance over runes.
func Score(a, b string) float64 {
	ra := normalize(a)
	rb := normalize(b)

	if string(ra) == string(rb) {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	distance := levenshtein(ra, rb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// normalize lowercases the title, keeps letters and digits, turns common
// separators into spaces and collapses runs of them.
func normalize(s string) []rune {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '.' || r == '-' || r == '_' || r == ':':
			b.WriteRune(' ')
		}
	}

	return []rune(strings.Join(strings.Fields(b.String()), " "))
}

// levenshtein computes the edit distance with a two-row table.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func minOf(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
