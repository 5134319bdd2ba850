package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PlaceholderKey is the value .env templates ship with; it is rejected the
// same as a missing key.
const PlaceholderKey = "your-api-key-here"

// Config holds the full application configuration.
type Config struct {
	PDF       PDFConfig       `yaml:"pdf" mapstructure:"pdf"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// PDFConfig configures PDF text extraction.
type PDFConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeminiConfig holds Google AI Studio API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ExtractConfig holds the extraction tunables. The defaults mirror values
// carried over from earlier runs of the tool, not measured optimums.
type ExtractConfig struct {
	// MaxChars truncates the text submitted to an LLM provider.
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`
	// LookaheadChars is the window inspected after a weight keyword during
	// the regex-mode raw-text fallback.
	LookaheadChars int `yaml:"lookahead_chars" mapstructure:"lookahead_chars"`
	// PolitenessDelaySecs paces LLM extraction calls.
	PolitenessDelaySecs int `yaml:"politeness_delay_secs" mapstructure:"politeness_delay_secs"`
}

// RetryConfig configures the external-call retry policy. MaxAttempts 0 keeps
// the historical unbounded behavior; whether to eventually give up is the
// operator's call, so it is exposed rather than hard-coded.
type RetryConfig struct {
	MaxAttempts        int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	CooldownSecs       int     `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
	InitialBackoffSecs int     `yaml:"initial_backoff_secs" mapstructure:"initial_backoff_secs"`
	MaxBackoffSecs     int     `yaml:"max_backoff_secs" mapstructure:"max_backoff_secs"`
	Multiplier         float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction     float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
}

// OutputConfig holds the per-mode default output paths. They differ so a
// regex run never clobbers an LLM run's results.
type OutputConfig struct {
	RegexPath string `yaml:"regex_path" mapstructure:"regex_path"`
	LLMPath   string `yaml:"llm_path" mapstructure:"llm_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// A local .env is a convenience for API keys; absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SPECSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("pdf.provider", "local")
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("extract.max_chars", 8000)
	v.SetDefault("extract.lookahead_chars", 100)
	v.SetDefault("extract.politeness_delay_secs", 2)
	v.SetDefault("retry.max_attempts", 0)
	v.SetDefault("retry.cooldown_secs", 60)
	v.SetDefault("retry.initial_backoff_secs", 2)
	v.SetDefault("retry.max_backoff_secs", 0)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_fraction", 0.0)
	v.SetDefault("output.regex_path", "filtered_products.json")
	v.SetDefault("output.llm_path", "filtered_products_llm.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Conventional provider env vars win over nothing.
	if cfg.Anthropic.Key == "" {
		cfg.Anthropic.Key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Gemini.Key == "" {
		cfg.Gemini.Key = os.Getenv("GEMINI_API_KEY")
	}

	return &cfg, nil
}

// APIKey validates a provider credential at startup, before any file is
// touched. Missing or placeholder keys are a configuration error.
func APIKey(key, provider string) (string, error) {
	if key == "" || key == PlaceholderKey {
		return "", eris.Errorf("config: %s API key missing or placeholder; set it in .env or the environment", provider)
	}
	return key, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
