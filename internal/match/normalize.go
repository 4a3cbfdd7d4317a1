package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tier names the comparison level at which two titles agreed.
type Tier string

const (
	TierNone     Tier = ""
	TierExact    Tier = "exact match"
	TierContains Tier = "containment"
	TierOverlap  Tier = "partial match"
)

var folder = cases.Fold()

// honorifics carry no identity signal and are dropped before name comparison.
var honorifics = map[string]struct{}{
	"mr": {}, "ms": {}, "mrs": {}, "dr": {}, "prof": {}, "sir": {},
}

// Normalize prepares a string for comparison: NFKC form, case folded, all
// whitespace runs collapsed to single spaces.
func Normalize(value string) string {
	folded := folder.String(norm.NFKC.String(value))
	return strings.Join(strings.Fields(folded), " ")
}

func wordSet(value string) map[string]struct{} {
	set := map[string]struct{}{}
	fields := strings.FieldsFunc(Normalize(value), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}

// TitlesMatch compares an expected course title against an extracted one.
// Comparison proceeds from strict to loose: equality after normalization,
// then containment in either direction, then the fraction of expected words
// present in the extracted title against the overlap threshold.
func TitlesMatch(expected, found string, overlap float64) Tier {
	expectedNorm := Normalize(expected)
	foundNorm := Normalize(found)
	if expectedNorm == "" || foundNorm == "" {
		return TierNone
	}
	if expectedNorm == foundNorm {
		return TierExact
	}
	if strings.Contains(foundNorm, expectedNorm) || strings.Contains(expectedNorm, foundNorm) {
		return TierContains
	}

	expectedWords := wordSet(expected)
	foundWords := wordSet(found)
	if len(expectedWords) == 0 {
		return TierNone
	}
	shared := 0
	for word := range expectedWords {
		if _, ok := foundWords[word]; ok {
			shared++
		}
	}
	if float64(shared)/float64(len(expectedWords)) >= overlap {
		return TierOverlap
	}
	return TierNone
}

// NamesMatch compares two person names with honorifics removed. A match is
// either sixty percent Jaccard similarity or at least two shared significant
// words on multi-word names. The similarity score comes back for reporting.
func NamesMatch(expected, found string) (bool, float64) {
	expectedWords := wordSet(expected)
	foundWords := wordSet(found)
	for word := range honorifics {
		delete(expectedWords, word)
		delete(foundWords, word)
	}
	if len(expectedWords) == 0 || len(foundWords) == 0 {
		return false, 0
	}

	shared := 0
	for word := range expectedWords {
		if _, ok := foundWords[word]; ok {
			shared++
		}
	}
	union := len(expectedWords) + len(foundWords) - shared
	similarity := float64(shared) / float64(union)

	if similarity >= 0.6 {
		return true, similarity
	}
	if shared >= 2 && len(expectedWords) >= 2 {
		return true, similarity
	}
	return false, similarity
}
