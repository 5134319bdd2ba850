// Package extract turns raw document text into product specifications. The
// pipeline is parameterized by the Extractor interface so the regex parser
// and the LLM providers are interchangeable implementations selected at
// startup.
package extract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/specscout/internal/model"
	"github.com/sells-group/specscout/internal/report"
)

// Extractor mode names, as accepted on the command line.
const (
	ModeRegex     = "regex"
	ModeAnthropic = "anthropic"
	ModeGemini    = "gemini"
)

// DefaultMaxChars bounds the text submitted to an LLM provider. A cost and
// latency trade-off carried over as a tunable: weight specs that only appear
// beyond the cut are missed.
const DefaultMaxChars = 8000

// Result pairs an extracted product with its resolved weight. The weight is
// used for threshold filtering only and is never persisted; each extractor
// applies its own resolution-priority rules before handing results back, so
// a lower-priority source can never overwrite an earlier match.
type Result struct {
	Product     model.Product
	WeightGrams *float64
}

// Extractor produces the product specifications inferred from one document's
// text. The filename is authoritative: implementations stamp its basename on
// every product regardless of what any external service claims.
type Extractor interface {
	Extract(ctx context.Context, text, filename string) ([]Result, error)
}

// Truncate bounds text to max bytes. Non-positive max disables truncation.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	return text[:max]
}

func retryLogger(rep report.Reporter, provider, file string) func(int, time.Duration, error) {
	return func(attempt int, wait time.Duration, err error) {
		rep.Warn("extraction retry",
			zap.String("provider", provider),
			zap.String("file", file),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
}
