package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"instant_test/config"
	"instant_test/detect"
	"instant_test/generator"
	"instant_test/prefs"
)

var genOpts struct {
	pom        string
	notes      string
	edges      []string
	units      []string
	category   string
	profile    string
	save       bool
	out        string
	render     bool
	promptOnly bool
}

var generateCmd = &cobra.Command{
	Use:   "generate <file.java>",
	Short: "Generate a test class for a Java source file",
	Long: `Detects the class category and annotations, merges your saved and
command-line preferences, and asks the configured models for a test class.

Examples:
  instant_test generate OrderService.java --pom pom.xml
  instant_test generate OrderService.java --edge concurrent=high --unit save=critical
  instant_test generate OrderService.java --profile orders --notes "@save rejects null totals" --save`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.pom, "pom", "", "pom.xml of the project, used to detect test libraries")
	f.StringVar(&genOpts.notes, "notes", "", "business rules; tag methods with @name")
	f.StringArrayVar(&genOpts.edges, "edge", nil, "edge-case priority id=off|low|medium|high (repeatable)")
	f.StringArrayVar(&genOpts.units, "unit", nil, "method priority name=skip|normal|important|critical (repeatable)")
	f.StringVar(&genOpts.category, "category", "", "override the detected class category")
	f.StringVar(&genOpts.profile, "profile", "", "load saved preferences from this profile")
	f.BoolVar(&genOpts.save, "save", false, "store the effective preferences back into --profile")
	f.StringVarP(&genOpts.out, "out", "o", "", "write the generated test class to this file")
	f.BoolVar(&genOpts.render, "render", false, "pretty-print the result in the terminal")
	f.BoolVar(&genOpts.promptOnly, "prompt-only", false, "print the instruction document and exit without calling a model")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if genOpts.save && genOpts.profile == "" {
		return errors.New("--save requires --profile")
	}

	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	edgeOverrides, err := parseAssignments(genOpts.edges)
	if err != nil {
		return fmt.Errorf("--edge: %w", err)
	}
	unitOverrides, err := parseAssignments(genOpts.units)
	if err != nil {
		return fmt.Errorf("--unit: %w", err)
	}

	var (
		store *prefs.Store
		saved prefs.Preferences
	)
	if genOpts.profile != "" {
		store, err = prefs.Open(ctx, cfg.Prefs.DSN)
		if err != nil {
			return err
		}
		defer store.Close()
		saved, err = store.Get(ctx, genOpts.profile)
		switch {
		case errors.Is(err, prefs.ErrNotFound):
			logger.Debug("profile not saved yet", zap.String("profile", genOpts.profile))
		case err != nil:
			return err
		}
	}

	effective := prefs.Preferences{
		Notes:     saved.Notes,
		EdgeCases: mergeEdgeCases(orDefault(saved.EdgeCases), edgeOverrides),
		Units:     mergeUnits(saved.Units, unitOverrides),
	}
	if cmd.Flags().Changed("notes") {
		effective.Notes = genOpts.notes
	}

	req := generator.GenerationRequest{
		SourceText:  src,
		Notes:       effective.Notes,
		EdgeCases:   effective.EdgeCases,
		Units:       effective.Units,
		Category:    detect.Category(src),
		Annotations: detect.Annotations(src),
	}
	if genOpts.category != "" {
		req.Category = generator.ParseCategory(genOpts.category)
	}
	if genOpts.pom != "" {
		env, suggestions, err := analyzePom(genOpts.pom, req.Category)
		if err != nil {
			return err
		}
		req.Dependencies = env
		for _, s := range suggestions {
			logger.Warn("dependency suggestion",
				zap.String("level", s.Level), zap.String("message", s.Message), zap.String("hint", s.Suggestion))
		}
	}
	logger.Debug("request assembled",
		zap.String("category", string(req.Category)),
		zap.Int("annotations", len(req.Annotations)),
		zap.Strings("tags", generator.ExtractTags(req.Notes)))

	prompt := generator.BuildPrompt(req)
	if genOpts.promptOnly {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return err
	}

	if store != nil && genOpts.save {
		if _, err := store.Put(ctx, genOpts.profile, effective); err != nil {
			return err
		}
		logger.Info("preferences saved", zap.String("profile", genOpts.profile))
	}

	credential, err := cliCredential(cfg)
	if err != nil {
		return err
	}
	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := client.Generate(ctx, prompt, credential)
	if err != nil {
		return describeFailure(generator.AsFailure(err))
	}
	logger.Info("tests generated", zap.String("model", res.Model))
	return writeResult(cmd, res)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	src := string(data)
	if strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("%s is empty", path)
	}
	if n := utf8.RuneCountInString(src); n > generator.MaxSourceChars {
		return "", fmt.Errorf("%s is too large (%d characters, max %d)", path, n, generator.MaxSourceChars)
	}
	return src, nil
}

func analyzePom(path string, category generator.Category) (*generator.DependencyEnv, []detect.Suggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read pom: %w", err)
	}
	pom, err := detect.ParsePom(string(data))
	if err != nil {
		return nil, nil, err
	}
	env, suggestions := detect.Analyze(pom, category)
	return env, suggestions, nil
}

func cliCredential(c *config.Config) (string, error) {
	if c.LLM.Provider == config.ProviderMock {
		return "", nil
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return "", errors.New("no API key configured: set GEMINI_API_KEY (or OPENAI_API_KEY) or llm.api_key")
	}
	return c.LLM.APIKey, nil
}

func describeFailure(f *generator.Failure) error {
	switch f.Kind {
	case generator.KindInvalidCredential:
		return fmt.Errorf("%s: check the configured API key", f.Message)
	case generator.KindRateLimited, generator.KindAllModelsExhausted:
		return fmt.Errorf("%s (retry after %ds)", f.Message, f.RetryAfterSeconds)
	}
	return fmt.Errorf("generation failed: %s", f.Message)
}

func writeResult(cmd *cobra.Command, res generator.Result) error {
	if genOpts.out != "" {
		if err := os.WriteFile(genOpts.out, []byte(res.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("test class written", zap.String("path", genOpts.out))
		return nil
	}
	out := cmd.OutOrStdout()
	if !genOpts.render {
		_, err := fmt.Fprintln(out, res.Text)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	rendered, err := r.Render("```java\n" + res.Text + "\n```\n")
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

type assignment struct {
	key   string
	value string
}

// parseAssignments reads key=value flags, keeping their order.
func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, r := range raw {
		k, v, ok := strings.Cut(r, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("expected key=value, got %q", r)
		}
		out = append(out, assignment{key: k, value: strings.ToLower(v)})
	}
	return out, nil
}

func orDefault(edges []generator.EdgeCasePriority) []generator.EdgeCasePriority {
	if len(edges) == 0 {
		return generator.DefaultEdgeCases()
	}
	return edges
}

// mergeEdgeCases overrides levels in place and appends unseen ids.
func mergeEdgeCases(base []generator.EdgeCasePriority, overrides []assignment) []generator.EdgeCasePriority {
	out := append([]generator.EdgeCasePriority(nil), base...)
	for _, o := range overrides {
		found := false
		for i := range out {
			if out[i].ID == o.key {
				out[i].Level = generator.EdgeLevel(o.value)
				found = true
				break
			}
		}
		if !found {
			out = append(out, generator.EdgeCasePriority{ID: o.key, Level: generator.EdgeLevel(o.value)})
		}
	}
	return out
}

func mergeUnits(base []generator.UnitPriority, overrides []assignment) []generator.UnitPriority {
	out := append([]generator.UnitPriority(nil), base...)
	for _, o := range overrides {
		found := false
		for i := range out {
			if out[i].Name == o.key {
				out[i].Level = generator.UnitLevel(o.value)
				found = true
				break
			}
		}
		if !found {
			out = append(out, generator.UnitPriority{Name: o.key, Level: generator.UnitLevel(o.value)})
		}
	}
	return out
}
