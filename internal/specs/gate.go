package specs

import "regexp"

// weightSpecPattern is the pre-scan gate: a weight/mass keyword, optional
// colon or dash, optional comparison symbol, a number, then a unit, all
// within one contiguous span. Layouts where the value sits far from the
// keyword are missed; a false negative only costs a missed match, a false
// positive a wasted extraction call.
var weightSpecPattern = regexp.MustCompile(`(?i)(weight|mass)\s*[:\-]?\s*[<>]?\s*[\d.]+\s*(kg|g)\b`)

// HasWeightSpec reports whether the text plausibly contains a weight or mass
// specification. Used to skip expensive extraction calls, never as a source
// of truth.
func HasWeightSpec(text string) bool {
	return weightSpecPattern.MatchString(text)
}
