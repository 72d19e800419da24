// Package fuzzy finds near matches for mistyped flag names.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
)

// Matcher ranks candidates by edit distance to an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher accepting candidates within maxDistance edits.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // single characters match everything
	}
}

// Match is one candidate within range.
type Match struct {
	Value    string
	Distance int
	Prefix   int // length of the common prefix with the input
}

// FindBest returns the closest candidate, or "" if none is close enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every candidate within range, best first: smaller
// distance, then longer common prefix, then candidate order.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len(input) < m.minLength {
		return nil
	}
	input = strings.ToLower(input)

	var matches []Match
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if lower == input {
			continue // not a typo
		}
		d := m.distance(input, lower)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{Value: candidate, Distance: d, Prefix: commonPrefix(input, lower)})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(b.Prefix, a.Prefix)
	})
	return matches
}

// distance is the Levenshtein distance of a and b, cut off at maxDistance+1.
func (m *Matcher) distance(a, b string) int {
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBestFlag finds the best matching flag name
func FindBestFlag(input string, flags []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, flags)
}

// FindSuggestions returns up to limit candidates, best first.
func FindSuggestions(input string, candidates []string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)
	out := make([]string, 0, min(len(matches), limit))
	for _, m := range matches[:min(len(matches), limit)] {
		out = append(out, m.Value)
	}
	return out
}
