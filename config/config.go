package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds server, model and local-cache settings.
type Config struct {
	ServerAddr string       `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	LLM        LLMConfig    `json:"llm" yaml:"llm"`
	Server     ServerConfig `json:"server" yaml:"server"`
	Prefs      PrefsConfig  `json:"prefs" yaml:"prefs"`
	Log        LogConfig    `json:"log" yaml:"log"`
}

// LLMConfig selects the provider and the ordered candidate models.
type LLMConfig struct {
	Provider    string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Models      []string `json:"models,omitempty" yaml:"models,omitempty"`
	APIKey      string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	RetryPolicy string   `json:"retry_policy,omitempty" yaml:"retry_policy,omitempty"`
}

type ServerConfig struct {
	// AllowServerCredential lets requests without a credential use llm.api_key.
	AllowServerCredential bool     `json:"allow_server_credential" yaml:"allow_server_credential"`
	RequestTimeoutSec     int      `json:"request_timeout_sec,omitempty" yaml:"request_timeout_sec,omitempty"`
	MaxBodyBytes          int64    `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty"`
	AllowedOrigins        []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

type PrefsConfig struct {
	// DSN is a sqlite file path or a postgres:// URL.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

type LogConfig struct {
	Level       string `json:"level,omitempty" yaml:"level,omitempty"`
	Development bool   `json:"development" yaml:"development"`
}

const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"
)

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: ":3000",
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			RetryPolicy: "immediate",
		},
		Server: ServerConfig{
			RequestTimeoutSec: 120,
			MaxBodyBytes:      10 << 20,
			AllowedOrigins:    []string{"*"},
		},
		Prefs: PrefsConfig{DSN: defaultPrefsPath()},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads a YAML or JSON config file. A missing file yields the defaults.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func (c *Config) applyEnvOverrides() {
	switch c.LLM.Provider {
	case "", ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.LLM.APIKey = key
		}
	case ProviderOpenAI, ProviderDeepSeek:
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			c.LLM.APIKey = key
		}
		if u := os.Getenv("OPENAI_BASE_URL"); u != "" {
			c.LLM.BaseURL = u
		}
	}
	if v := os.Getenv("LLM_MODELS"); v != "" {
		var models []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		c.LLM.Models = models
	}
	if v := os.Getenv("LLM_RETRY_POLICY"); v != "" {
		c.LLM.RetryPolicy = v
	}
	if port := os.Getenv("PORT"); port != "" {
		c.ServerAddr = ":" + port
	}
	if dsn := os.Getenv("INSTANT_TEST_PREFS_DSN"); dsn != "" {
		c.Prefs.DSN = dsn
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.RetryPolicy == "" {
		c.LLM.RetryPolicy = "immediate"
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":3000"
	}
	if c.Server.RequestTimeoutSec == 0 {
		c.Server.RequestTimeoutSec = 120
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 10 << 20
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Prefs.DSN == "" {
		c.Prefs.DSN = defaultPrefsPath()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	var problems []string

	switch c.LLM.Provider {
	case ProviderGemini, ProviderMock:
	case ProviderOpenAI, ProviderDeepSeek:
		// DeepSeek is reached through its OpenAI-compatible endpoint.
		if c.LLM.Provider == ProviderDeepSeek && c.LLM.BaseURL == "" {
			problems = append(problems, "llm provider deepseek requires base_url")
		}
		// the built-in candidate list only names Gemini models
		if len(c.LLM.Models) == 0 {
			problems = append(problems, fmt.Sprintf("llm provider %s requires models", c.LLM.Provider))
		}
	default:
		problems = append(problems, fmt.Sprintf("llm provider %q not supported", c.LLM.Provider))
	}
	switch c.LLM.RetryPolicy {
	case "immediate", "backoff":
	default:
		problems = append(problems, fmt.Sprintf("llm retry_policy %q must be immediate or backoff", c.LLM.RetryPolicy))
	}
	if c.Server.RequestTimeoutSec < 0 {
		problems = append(problems, "server.request_timeout_sec must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		problems = append(problems, "server.max_body_bytes must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not a known level", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".instant_test", "prefs.db")
	}
	return filepath.Join(dir, "instant_test", "prefs.db")
}
