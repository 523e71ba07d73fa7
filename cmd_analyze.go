package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"instant_test/detect"
	"instant_test/generator"
)

var analyzeOpts struct {
	pom      string
	jsonMode bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.java>",
	Short: "Show what would be detected for a Java source file",
	Long:  "Runs the category, annotation, method and pom.xml detectors without calling any model.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOpts.pom, "pom", "", "pom.xml of the project")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.jsonMode, "json", false, "print the analysis as JSON")
}

type analysis struct {
	ClassName             string                   `json:"className"`
	Category              generator.Category       `json:"category"`
	Annotations           []generator.Annotation   `json:"annotations"`
	Units                 []detect.Unit            `json:"units"`
	DependencyEnvironment *generator.DependencyEnv `json:"dependencyEnvironment,omitempty"`
	Suggestions           []detect.Suggestion      `json:"suggestions,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	a := analysis{
		ClassName:   detect.ClassName(src),
		Category:    detect.Category(src),
		Annotations: detect.Annotations(src),
		Units:       detect.Units(src),
	}
	if analyzeOpts.pom != "" {
		a.DependencyEnvironment, a.Suggestions, err = analyzePom(analyzeOpts.pom, a.Category)
		if err != nil {
			return err
		}
	}

	if analyzeOpts.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), renderAnalysis(a))
	return err
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	levelStyles  = map[string]lipgloss.Style{
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
)

func renderAnalysis(a analysis) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(a.ClassName) + "\n")
	sb.WriteString(labelStyle.Render("category") + string(a.Category) + "\n")

	if len(a.Units) > 0 {
		sb.WriteString(sectionStyle.Render("Methods") + "\n")
		for _, u := range a.Units {
			sb.WriteString("  " + u.Signature + "\n")
		}
	}
	if len(a.Annotations) > 0 {
		sb.WriteString(sectionStyle.Render("Annotations") + "\n")
		for _, an := range a.Annotations {
			fmt.Fprintf(&sb, "  @%s %s\n", an.Name, labelStyle.Render("("+an.Category+")"))
		}
	}
	if env := a.DependencyEnvironment; env != nil {
		sb.WriteString(sectionStyle.Render("Dependencies") + "\n")
		row := func(k, v string) {
			if v == "" {
				v = "-"
			}
			sb.WriteString("  " + labelStyle.Render(k) + v + "\n")
		}
		row("java", env.JavaVersion)
		row("framework", env.TestFramework)
		row("mocking", env.MockingLib)
		row("assertions", env.AssertionLib)
		row("spring boot", fmt.Sprint(env.SpringBoot))
	}
	if len(a.Suggestions) > 0 {
		sb.WriteString(sectionStyle.Render("Suggestions") + "\n")
		for _, s := range a.Suggestions {
			style, ok := levelStyles[s.Level]
			if !ok {
				style = lipgloss.NewStyle()
			}
			fmt.Fprintf(&sb, "  %s %s\n    %s\n", style.Render("["+s.Level+"]"), s.Message, s.Suggestion)
		}
	}
	return sb.String()
}
