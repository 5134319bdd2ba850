package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/specscout/internal/config"
	"github.com/sells-group/specscout/internal/extract"
	"github.com/sells-group/specscout/internal/pdftext"
	"github.com/sells-group/specscout/internal/pipeline"
	"github.com/sells-group/specscout/internal/report"
	"github.com/sells-group/specscout/internal/resilience"
	"github.com/sells-group/specscout/internal/specs"
	anthropicpkg "github.com/sells-group/specscout/pkg/anthropic"
	geminipkg "github.com/sells-group/specscout/pkg/gemini"
)

var (
	scanWeightLimit float64
	scanTestMode    bool
	scanExtractor   string
	scanOutput      string
)

var scanCmd = &cobra.Command{
	Use:   "scan DIR",
	Short: "Scan a directory of PDF datasheets and filter products by weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir := args[0]

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return eris.Errorf("%s is not a valid directory", dir)
		}

		pdfExtractor, err := pdftext.NewExtractor(cfg.PDF)
		if err != nil {
			return err
		}

		rep := report.New(zap.L())

		p := &pipeline.Pipeline{
			PDF:        pdfExtractor,
			Reporter:   rep,
			OutputPath: cfg.Output.RegexPath,
		}

		// LLM-backed extractors require a credential before any file is
		// touched, and get the pre-scan gate plus call pacing the external
		// services expect.
		switch scanExtractor {
		case extract.ModeRegex:
			p.Extractor = extract.NewRegex(cfg.Extract.LookaheadChars)

		case extract.ModeAnthropic:
			key, err := config.APIKey(cfg.Anthropic.Key, "anthropic")
			if err != nil {
				return err
			}
			client := anthropicpkg.NewClient(key)
			p.Extractor = extract.NewAnthropic(client, cfg.Anthropic.Model,
				int64(cfg.Anthropic.MaxTokens), cfg.Extract.MaxChars, retryPolicy(), rep)
			gateAndPace(p)

		case extract.ModeGemini:
			key, err := config.APIKey(cfg.Gemini.Key, "gemini")
			if err != nil {
				return err
			}
			client := geminipkg.NewClient(key,
				geminipkg.WithBaseURL(cfg.Gemini.BaseURL),
				geminipkg.WithModel(cfg.Gemini.Model),
			)
			p.Extractor = extract.NewGemini(client, cfg.Gemini.Model,
				cfg.Extract.MaxChars, retryPolicy(), rep)
			gateAndPace(p)

		default:
			return eris.Errorf("unknown extractor %q (want regex, anthropic or gemini)", scanExtractor)
		}

		if scanOutput != "" {
			p.OutputPath = scanOutput
		}

		res, err := p.Run(ctx, dir, scanWeightLimit, scanTestMode)
		if err != nil {
			return eris.Wrap(err, "scan run")
		}

		zap.L().Info("scan complete",
			zap.Int("candidates", res.Scanned),
			zap.Int("unique", res.Unique),
			zap.Int("skipped", res.Skipped),
			zap.Int("matches", res.Matches),
		)

		// Print the filtered products to stdout even when persisting them
		// failed; the in-memory result is the run's source of truth.
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "    ")
		return enc.Encode(res.Products)
	},
}

// gateAndPace arms the weight pre-scan gate, switches to the LLM output path
// and paces extraction calls.
func gateAndPace(p *pipeline.Pipeline) {
	p.Gate = specs.HasWeightSpec
	p.OutputPath = cfg.Output.LLMPath
	if delay := time.Duration(cfg.Extract.PolitenessDelaySecs) * time.Second; delay > 0 {
		p.Limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
}

func retryPolicy() resilience.RetryConfig {
	return resilience.FromRetryConfig(
		cfg.Retry.MaxAttempts,
		cfg.Retry.CooldownSecs,
		cfg.Retry.InitialBackoffSecs,
		cfg.Retry.MaxBackoffSecs,
		cfg.Retry.Multiplier,
		cfg.Retry.JitterFraction,
	)
}

func init() {
	scanCmd.Flags().Float64VarP(&scanWeightLimit, "weight-limit", "w", 0, "exclusive upper bound in grams (required)")
	scanCmd.Flags().BoolVarP(&scanTestMode, "test", "t", false, "process a single document for fast iteration")
	scanCmd.Flags().StringVarP(&scanExtractor, "extractor", "e", extract.ModeRegex, "extractor implementation: regex, anthropic or gemini")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "output path (defaults per extractor)")
	_ = scanCmd.MarkFlagRequired("weight-limit")
	rootCmd.AddCommand(scanCmd)
}
