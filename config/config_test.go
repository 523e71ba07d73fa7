package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"LLM_MODELS", "LLM_RETRY_POLICY", "PORT", "INSTANT_TEST_PREFS_DSN",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "immediate", cfg.LLM.RetryPolicy)
	assert.Equal(t, 120, cfg.Server.RequestTimeoutSec)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Server.AllowServerCredential)
	assert.NotEmpty(t, cfg.Prefs.DSN)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", `
server_addr: ":9090"
llm:
  provider: gemini
  models: [gemini-2.0-flash, gemini-2.5-pro]
  retry_policy: backoff
server:
  allow_server_credential: true
  request_timeout_sec: 30
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-2.5-pro"}, cfg.LLM.Models)
	assert.Equal(t, "backoff", cfg.LLM.RetryPolicy)
	assert.True(t, cfg.Server.AllowServerCredential)
	assert.Equal(t, 30, cfg.Server.RequestTimeoutSec)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.json", `{
		"server_addr": ":8081",
		"llm": {"provider": "deepseek", "base_url": "https://api.deepseek.com/v1", "models": ["deepseek-chat"]}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderDeepSeek, cfg.LLM.Provider)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "immediate", cfg.LLM.RetryPolicy)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	t.Run("malformed file", func(t *testing.T) {
		_, err := Load(writeConfig(t, "config.json", `{not json`))
		assert.Error(t, err)
	})

	t.Run("collects every problem", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", `
llm:
  provider: llama
  retry_policy: forever
log:
  level: loud
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `llm provider "llama" not supported`)
		assert.Contains(t, err.Error(), `retry_policy "forever"`)
		assert.Contains(t, err.Error(), `log.level "loud"`)
	})

	t.Run("deepseek needs base url and models", func(t *testing.T) {
		_, err := Load(writeConfig(t, "config.yaml", "llm:\n  provider: deepseek\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires base_url")
		assert.Contains(t, err.Error(), "llm provider deepseek requires models")
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY fills the gemini key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "g-key", cfg.LLM.APIKey)
	})

	t.Run("OPENAI_API_KEY only applies to openai providers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Empty(t, cfg.LLM.APIKey)

		path := writeConfig(t, "config.yaml", "llm:\n  provider: openai\n  models: [gpt-4o-mini]\n")
		cfg, err = Load(path)
		require.NoError(t, err)
		assert.Equal(t, "oa-key", cfg.LLM.APIKey)
	})

	t.Run("models, port and dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_MODELS", " a , ,b ")
		t.Setenv("PORT", "4000")
		t.Setenv("INSTANT_TEST_PREFS_DSN", "postgres://localhost/prefs")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cfg.LLM.Models)
		assert.Equal(t, ":4000", cfg.ServerAddr)
		assert.Equal(t, "postgres://localhost/prefs", cfg.Prefs.DSN)
	})
}
