package extract

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/specscout/internal/report"
	"github.com/sells-group/specscout/internal/resilience"
	"github.com/sells-group/specscout/pkg/anthropic"
)

// Anthropic delegates extraction to the Claude Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	maxChars  int
	retry     resilience.RetryConfig
	reporter  report.Reporter
}

// NewAnthropic creates an Anthropic-backed extractor.
func NewAnthropic(client anthropic.Client, model string, maxTokens int64, maxChars int, retry resilience.RetryConfig, rep report.Reporter) *Anthropic {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if rep == nil {
		rep = report.Nop()
	}
	return &Anthropic{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		maxChars:  maxChars,
		retry:     retry,
		reporter:  rep,
	}
}

// Extract submits truncated document text and validates the response against
// the product-list schema. Rate-limit and overload failures are retried per
// the configured policy; anything else fails this document only.
func (a *Anthropic) Extract(ctx context.Context, text, filename string) ([]Result, error) {
	base := filepath.Base(filename)
	prompt := buildPrompt(text, base, a.maxChars)

	cfg := a.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = retryLogger(a.reporter, ModeAnthropic, base)
	}

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		a.reporter.Info("requesting extraction",
			zap.String("provider", ModeAnthropic),
			zap.String("file", base),
		)
		return a.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     a.model,
			MaxTokens: a.maxTokens,
			System:    extractionSystem,
			Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		})
	})
	if err != nil {
		return nil, eris.Wrapf(err, "extract: anthropic extraction failed for %s", base)
	}

	a.reporter.Info("extraction response received",
		zap.String("provider", ModeAnthropic),
		zap.String("file", base),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return parseProducts(stripFences(resp.Text), base)
}
