// Package levenshtein provides normalized string similarity backed by
// github.com/agnivade/levenshtein.
package levenshtein

import "github.com/agnivade/levenshtein"

// Similarity returns 1 - distance/max(len(a), len(b)) measured in runes.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
