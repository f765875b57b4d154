// Package textutil provides the text normalization and similarity
// primitives the allocator and validator share. Both use the same measure
// so their thresholds stay comparable.
package textutil

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

var caseFolder = cases.Fold()

// Normalize collapses all whitespace runs (including line breaks) and case
// folds the result for comparison. Punctuation is preserved: caption text
// is never rewritten, so the comparison form stays close to the source.
func Normalize(text string) string {
	fields := strings.FieldsFunc(text, unicode.IsSpace)
	return caseFolder.String(strings.Join(fields, " "))
}

// Similarity returns an edit-distance ratio in [0, 1] between the
// normalized forms of a and b: 1 is identical, 0 shares nothing.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" && nb == "" {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(longest)
}
