package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"instant_test/config"
	"instant_test/generator"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "instant_test",
	Short: "Generate unit tests for Java classes with generative models",
	Long: `instant_test turns a Java class plus your testing preferences into one
instruction document and asks a list of models, cheapest first, to write the
test class. It runs as an HTTP API (serve) or straight from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = buildLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config file (yaml or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(serveCmd, generateCmd, analyzeCmd, prefsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func buildSubmitter(c *config.Config) (generator.Submitter, error) {
	settings := &generator.LLMSettings{Provider: c.LLM.Provider, BaseURL: c.LLM.BaseURL}
	switch c.LLM.Provider {
	case config.ProviderGemini:
		return generator.NewGeminiSubmitter(settings), nil
	case config.ProviderOpenAI:
		return generator.NewOpenAISubmitterFromConfig(settings)
	case config.ProviderDeepSeek:
		// OpenAI-compatible endpoint
		if c.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAISubmitterFromConfig(settings)
	case config.ProviderMock:
		return generator.MockSubmitter{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
}

func buildClient(c *config.Config, log *zap.Logger) (*generator.Client, error) {
	sub, err := buildSubmitter(c)
	if err != nil {
		return nil, err
	}
	return generator.NewClient(sub,
		generator.WithModels(c.LLM.Models),
		generator.WithRetryPolicy(generator.RetryPolicy(c.LLM.RetryPolicy)),
		generator.WithLogger(log),
	)
}
