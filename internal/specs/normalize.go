// Package specs holds the text heuristics that turn raw datasheet text into
// product characteristics and canonical gram weights.
package specs

import (
	"regexp"
	"strconv"
	"strings"
)

// weightValuePattern matches a decimal or integer immediately followed by a
// grams or kilograms unit token. The trailing \b keeps "kg" inside a longer
// word from matching.
var weightValuePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|g)\b`)

// NormalizeToGrams finds the first number+unit occurrence in s and returns
// the value converted to grams. ok is false when s carries no weight value;
// absence is the common case, not an error.
func NormalizeToGrams(s string) (grams float64, ok bool) {
	m := weightValuePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	// The pattern only admits well-formed decimal literals.
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	if strings.EqualFold(m[2], "kg") {
		return value * 1000, true
	}
	return value, true
}
