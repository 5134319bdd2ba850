package specs

import (
	"regexp"
	"strings"

	"github.com/sells-group/specscout/internal/model"
)

// DefaultLookahead is the number of characters inspected after a weight
// keyword during the raw-text fallback scan. The value is a tunable, not a
// measured optimum.
const DefaultLookahead = 100

// weightKeywords in priority order: every occurrence of an earlier keyword is
// tried before the first occurrence of a later one.
var weightKeywords = []string{"weight", "mass"}

// keywordPatterns are case-insensitive literal matchers for weightKeywords,
// compiled once. Matching on the original text keeps byte offsets valid.
var keywordPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(weightKeywords))
	for i, kw := range weightKeywords {
		patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
	}
	return patterns
}()

// ResolveWeight scans characteristics in discovery order and returns the
// grams of the first weight/mass-labeled one that normalizes. Later
// candidates never overwrite an earlier success.
func ResolveWeight(chars []model.Characteristic) (grams float64, ok bool) {
	for _, c := range chars {
		if !hasWeightKeyword(c.Name) {
			continue
		}
		if g, found := NormalizeToGrams(c.Value); found {
			return g, true
		}
	}
	return 0, false
}

// FallbackWeight scans raw text for weight keywords when no structured
// characteristic yielded a weight. At each occurrence the next lookahead
// characters are normalized; the first success wins. The synthetic
// characteristic records the find: capitalized keyword as label, first line
// of the window as value.
func FallbackWeight(text string, lookahead int) (grams float64, synthetic model.Characteristic, ok bool) {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	for i, pattern := range keywordPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			end := loc[1] + lookahead
			if end > len(text) {
				end = len(text)
			}
			window := text[loc[1]:end]
			g, found := NormalizeToGrams(window)
			if !found {
				continue
			}
			kw := weightKeywords[i]
			synthetic = model.Characteristic{
				Name:  strings.ToUpper(kw[:1]) + kw[1:],
				Value: strings.TrimSpace(firstLine(window)),
			}
			return g, synthetic, true
		}
	}
	return 0, model.Characteristic{}, false
}

func hasWeightKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range weightKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
