package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"instant_test/config"
	"instant_test/generator"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"null=HIGH", " save = critical "})
	require.NoError(t, err)
	assert.Equal(t, []assignment{{"null", "high"}, {"save", "critical"}}, got)

	for _, bad := range []string{"null", "=high", "null="} {
		_, err := parseAssignments([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestMergeEdgeCases(t *testing.T) {
	base := generator.DefaultEdgeCases()
	got := mergeEdgeCases(base, []assignment{{"concurrent", "high"}, {"timezone", "low"}})

	require.Len(t, got, 6)
	assert.Equal(t, generator.EdgeHigh, got[4].Level)
	assert.Equal(t, generator.EdgeCasePriority{ID: "timezone", Level: generator.EdgeLow}, got[5])
	assert.Equal(t, generator.EdgeOff, base[4].Level, "base must not be modified")
}

func TestMergeUnits(t *testing.T) {
	base := []generator.UnitPriority{{Name: "save", Level: generator.UnitNormal}}
	got := mergeUnits(base, []assignment{{"save", "skip"}, {"find", "critical"}})
	assert.Equal(t, []generator.UnitPriority{
		{Name: "save", Level: generator.UnitSkip},
		{Name: "find", Level: generator.UnitCritical},
	}, got)
}

func TestBuildSubmitter(t *testing.T) {
	cases := []struct {
		name    string
		llm     config.LLMConfig
		want    any
		wantErr bool
	}{
		{"gemini", config.LLMConfig{Provider: config.ProviderGemini}, &generator.GeminiSubmitter{}, false},
		{"openai", config.LLMConfig{Provider: config.ProviderOpenAI}, &generator.OpenAISubmitter{}, false},
		{"deepseek", config.LLMConfig{Provider: config.ProviderDeepSeek, BaseURL: "https://api.deepseek.com/v1"}, &generator.OpenAISubmitter{}, false},
		{"deepseek without url", config.LLMConfig{Provider: config.ProviderDeepSeek}, nil, true},
		{"mock", config.LLMConfig{Provider: config.ProviderMock}, generator.MockSubmitter{}, false},
		{"unknown", config.LLMConfig{Provider: "llama"}, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub, err := buildSubmitter(&config.Config{LLM: tc.llm})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, sub)
		})
	}
}

func TestBuildLogger(t *testing.T) {
	l, err := buildLogger(config.LogConfig{Level: "warn"}, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = buildLogger(config.LogConfig{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = buildLogger(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestCliCredential(t *testing.T) {
	_, err := cliCredential(&config.Config{LLM: config.LLMConfig{Provider: config.ProviderGemini}})
	assert.Error(t, err)

	key, err := cliCredential(&config.Config{LLM: config.LLMConfig{Provider: config.ProviderGemini, APIKey: "k"}})
	require.NoError(t, err)
	assert.Equal(t, "k", key)

	_, err = cliCredential(&config.Config{LLM: config.LLMConfig{Provider: config.ProviderMock}})
	assert.NoError(t, err)
}

func TestDescribeFailure(t *testing.T) {
	err := describeFailure(&generator.Failure{Kind: generator.KindAllModelsExhausted, Message: "busy", RetryAfterSeconds: 30})
	assert.EqualError(t, err, "busy (retry after 30s)")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateAndPrefsEndToEnd(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "LLM_MODELS", "LLM_RETRY_POLICY", "INSTANT_TEST_PREFS_DSN", "PORT"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"llm:\n  provider: mock\n  models: [mock-1]\nprefs:\n  dsn: "+filepath.Join(dir, "prefs.db")+"\nlog:\n  level: error\n"), 0o644))
	srcPath := filepath.Join(dir, "Cart.java")
	require.NoError(t, os.WriteFile(srcPath, []byte("@Service\npublic class Cart {\n    public void add(Item i) {}\n}\n"), 0o644))
	outPath := filepath.Join(dir, "CartTest.java")

	_, err := execute(t, "--config", cfgPath, "generate", srcPath,
		"--profile", "cart", "--save", "--notes", "@add rejects null",
		"--edge", "concurrent=high", "--unit", "add=critical", "--out", outPath)
	require.NoError(t, err)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "class CartTest {")
	assert.NotContains(t, string(written), "```")

	out, err := execute(t, "--config", cfgPath, "prefs", "show", "cart")
	require.NoError(t, err)
	var p struct {
		Notes     string                       `json:"notes"`
		EdgeCases []generator.EdgeCasePriority `json:"edgeCases"`
		Units     []generator.UnitPriority     `json:"units"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "@add rejects null", p.Notes)
	assert.Contains(t, p.EdgeCases, generator.EdgeCasePriority{ID: "concurrent", Level: generator.EdgeHigh})
	assert.Equal(t, []generator.UnitPriority{{Name: "add", Level: generator.UnitCritical}}, p.Units)

	_, err = execute(t, "--config", cfgPath, "prefs", "clear", "cart")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfgPath, "prefs", "show", "cart")
	assert.Error(t, err)
}
