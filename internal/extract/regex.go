package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sells-group/specscout/internal/model"
	"github.com/sells-group/specscout/internal/specs"
)

// Regex extracts one product per document with line-oriented pattern
// matching. No external calls, no errors beyond what the caller already
// handled to obtain the text.
type Regex struct {
	lookahead int
}

// NewRegex creates a regex extractor. lookaheadChars sizes the raw-text
// fallback window; non-positive uses the default.
func NewRegex(lookaheadChars int) *Regex {
	if lookaheadChars <= 0 {
		lookaheadChars = specs.DefaultLookahead
	}
	return &Regex{lookahead: lookaheadChars}
}

// Extract parses characteristics and resolves the weight. Priority: a
// weight/mass-labeled characteristic wins over the raw-text fallback scan;
// when only the fallback hits, a synthetic characteristic records the find.
// A document with no non-blank lines is a non-match, not an error.
func (r *Regex) Extract(_ context.Context, text, filename string) ([]Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	chars := specs.ParseCharacteristics(text)

	var weight *float64
	if g, ok := specs.ResolveWeight(chars); ok {
		weight = &g
	} else if g, synthetic, ok := specs.FallbackWeight(text, r.lookahead); ok {
		weight = &g
		chars = append(chars, synthetic)
	}

	return []Result{{
		Product: model.Product{
			Name:            specs.ProductName(text),
			File:            filepath.Base(filename),
			Characteristics: chars,
		},
		WeightGrams: weight,
	}}, nil
}
