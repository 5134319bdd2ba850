package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.PDF.Provider)
	assert.Equal(t, "pdftotext", cfg.PDF.PdfToTextPath)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 4096, cfg.Anthropic.MaxTokens)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 8000, cfg.Extract.MaxChars)
	assert.Equal(t, 100, cfg.Extract.LookaheadChars)
	assert.Equal(t, 2, cfg.Extract.PolitenessDelaySecs)
	assert.Equal(t, 0, cfg.Retry.MaxAttempts)
	assert.Equal(t, 60, cfg.Retry.CooldownSecs)
	assert.Equal(t, 2, cfg.Retry.InitialBackoffSecs)
	assert.Equal(t, 2.0, cfg.Retry.Multiplier)
	assert.Equal(t, "filtered_products.json", cfg.Output.RegexPath)
	assert.Equal(t, "filtered_products_llm.json", cfg.Output.LLMPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SPECSCOUT_PDF_PROVIDER", "pdftotext")
	t.Setenv("SPECSCOUT_EXTRACT_MAX_CHARS", "4000")
	t.Setenv("SPECSCOUT_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("SPECSCOUT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", cfg.PDF.Provider)
	assert.Equal(t, 4000, cfg.Extract.MaxChars)
	assert.Equal(t, 7, cfg.Retry.MaxAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
extract:
    lookahead_chars: 250
output:
    regex_path: custom.json
`), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Extract.LookaheadChars)
	assert.Equal(t, "custom.json", cfg.Output.RegexPath)
	// Untouched keys keep their defaults.
	assert.Equal(t, "filtered_products_llm.json", cfg.Output.LLMPath)
}

func TestLoadProviderKeyFallbacks(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("GEMINI_API_KEY", "ai-studio-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
	assert.Equal(t, "ai-studio-test", cfg.Gemini.Key)
}

func TestLoadPrefixedKeyWinsOverFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SPECSCOUT_ANTHROPIC_KEY", "sk-ant-prefixed")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-fallback")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-prefixed", cfg.Anthropic.Key)
}

func TestAPIKey(t *testing.T) {
	got, err := APIKey("sk-ant-real", "anthropic")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-real", got)

	_, err = APIKey("", "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic API key missing")

	_, err = APIKey(PlaceholderKey, "gemini")
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "chatty", Format: "console"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
