// Package canon canonicalizes free-text state and district names.
//
// Source exports spell the same place many ways: case differences, word
// reordering, run-together words, typos, or garbage values. The resolver
// maps every distinct raw spelling either to an official state name, to a
// canonical district spelling, or to an explicit sentinel. Every decision
// is memoized in a NameMap so the mapping can be audited, persisted and
// exported.
package canon

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// Sentinel canonical values for inputs that cannot be resolved.
const (
	// InvalidEntry marks numeric-only or single-character inputs that
	// are garbage rather than misspelled names.
	InvalidEntry = "INVALID_ENTRY"

	// UnknownState marks inputs no official name matched above the
	// threshold.
	UnknownState = "UNKNOWN_STATE"

	// UnmatchedBucket is the state bucket unresolved rows are kept
	// under when the pipeline runs with include_unmatched.
	UnmatchedBucket = "Unmatched"
)

// MatchType classifies how a raw value resolved.
type MatchType string

const (
	Exact   MatchType = "exact"
	Fuzzy   MatchType = "fuzzy"
	Invalid MatchType = "invalid"
	Unknown MatchType = "unknown"
)

// Resolution is the canonical outcome for one raw value.
type Resolution struct {
	Canonical string    `json:"canonical"`
	Score     float64   `json:"score"`
	Match     MatchType `json:"match"`
}

var levParams = levenshtein.NewParams()

// Normalize trims surrounding whitespace and collapses internal runs of
// whitespace to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Score returns the similarity of two names on a 0-100 scale. It is the
// larger of a direct comparison and a token-sorted comparison of the
// lowercased names, so neither word order nor missing separators alone
// depress the score.
func Score(a, b string) float64 {
	la := strings.ToLower(Normalize(a))
	lb := strings.ToLower(Normalize(b))

	direct := levenshtein.Similarity(la, lb, levParams)
	sorted := levenshtein.Similarity(tokenSort(la), tokenSort(lb), levParams)

	return math.Max(direct, sorted) * 100
}

// tokenSort splits on non-alphanumeric runs, sorts the tokens and joins
// them with single spaces.
func tokenSort(s string) string {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// isGarbage reports inputs that must never be fuzzy-matched: empty,
// single-character, or numeric-only values.
func isGarbage(s string) bool {
	if s == "" {
		return true
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return true
	}
	for _, r := range runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
