package extract

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/specscout/internal/report"
	"github.com/sells-group/specscout/internal/resilience"
	"github.com/sells-group/specscout/pkg/gemini"
)

// Gemini delegates extraction to the Google AI Studio generateContent API
// with a JSON response MIME type.
type Gemini struct {
	client   gemini.Client
	model    string
	maxChars int
	retry    resilience.RetryConfig
	reporter report.Reporter
}

// NewGemini creates a Gemini-backed extractor.
func NewGemini(client gemini.Client, model string, maxChars int, retry resilience.RetryConfig, rep report.Reporter) *Gemini {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if rep == nil {
		rep = report.Nop()
	}
	return &Gemini{
		client:   client,
		model:    model,
		maxChars: maxChars,
		retry:    retry,
		reporter: rep,
	}
}

// Extract submits truncated document text and validates the response against
// the product-list schema. Rate-limit and overload failures are retried per
// the configured policy; anything else fails this document only.
func (g *Gemini) Extract(ctx context.Context, text, filename string) ([]Result, error) {
	base := filepath.Base(filename)
	prompt := buildPrompt(text, base, g.maxChars)

	cfg := g.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = retryLogger(g.reporter, ModeGemini, base)
	}

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*gemini.GenerateResponse, error) {
		g.reporter.Info("requesting extraction",
			zap.String("provider", ModeGemini),
			zap.String("file", base),
		)
		return g.client.GenerateContent(ctx, gemini.GenerateRequest{
			Model:        g.model,
			Prompt:       prompt,
			System:       extractionSystem,
			JSONResponse: true,
		})
	})
	if err != nil {
		return nil, eris.Wrapf(err, "extract: gemini extraction failed for %s", base)
	}

	g.reporter.Info("extraction response received",
		zap.String("provider", ModeGemini),
		zap.String("file", base),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("candidate_tokens", resp.Usage.CandidateTokens),
	)

	return parseProducts(stripFences(resp.Text), base)
}
