package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/reportscope/internal/api"
	"github.com/nao1215/reportscope/internal/generate"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the plan command.
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a personalized learning plan",
		Long: `Plan sends a learner profile to the learning-plan generator and prints
the plan, one line per step.

Name, age, subject and learning style are required; strengths and
weaknesses are optional.

Examples:
  reportscope plan --name Ada --age 17 --subject algebra --style visual

  # Ask OpenAI directly instead of the plan service
  OPENAI_API_KEY=... reportscope plan --provider openai --name Ada --age 17 \
    --subject algebra --style visual --weaknesses "word problems"`,
		Args: cobra.NoArgs,
		RunE: runPlanCmd,
	}

	cmd.Flags().String("name", "", "Learner name (required)")
	cmd.Flags().String("age", "", "Learner age (required)")
	cmd.Flags().String("subject", "", "Subject to learn (required)")
	cmd.Flags().String("style", "", "Learning style, e.g. visual or hands-on (required)")
	cmd.Flags().String("strengths", "", "Learner strengths")
	cmd.Flags().String("weaknesses", "", "Learner weaknesses")
	addProviderFlag(cmd)

	return cmd
}

// NewSuggestCmd creates the suggest command.
func NewSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <course-name>",
		Short: "Generate pedagogy suggestions for a course",
		Long: `Suggest sends a course name to the pedagogy generator and prints the
suggestions, one per line.

Examples:
  reportscope suggest "Introduction to Databases"`,
		Args: cobra.ExactArgs(1),
		RunE: runSuggestCmd,
	}
	addProviderFlag(cmd)
	return cmd
}

func addProviderFlag(cmd *cobra.Command) {
	cmd.Flags().String("provider", "",
		"Generator: "+generate.ProviderRemote+" or "+generate.ProviderOpenAI+" (default from config)")
}

// runPlanCmd executes the plan command.
func runPlanCmd(cmd *cobra.Command, _ []string) error {
	var learner api.LearningPlanRequest
	for flag, dst := range map[string]*string{
		"name":       &learner.Name,
		"age":        &learner.Age,
		"subject":    &learner.Subject,
		"style":      &learner.LearningStyle,
		"strengths":  &learner.Strengths,
		"weaknesses": &learner.Weaknesses,
	} {
		v, err := cmd.Flags().GetString(flag)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(v)
	}

	gen, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	plan, err := gen.LearningPlan(ctx, learner)
	if err != nil {
		return fmt.Errorf("failed to generate learning plan: %w", err)
	}
	writeGenerated(cmd.OutOrStdout(), "Learning plan for "+learner.Name, plan)
	return nil
}

// runSuggestCmd executes the suggest command.
func runSuggestCmd(cmd *cobra.Command, args []string) error {
	gen, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	text, err := gen.Suggestions(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to generate suggestions: %w", err)
	}
	writeGenerated(cmd.OutOrStdout(), "Suggestions for "+args[0], text)
	return nil
}

// newGenerator builds the configured generator, honoring --provider.
func newGenerator(cmd *cobra.Command) (generate.Generator, error) {
	provider, err := cmd.Flags().GetString("provider")
	if err != nil {
		return nil, err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if provider != "" {
		cfg.Provider = provider
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	a := newAppFromConfig(cmd, cfg)
	return generate.New(cfg.Provider, a.client, cfg.PlanURL, cfg.SuggestionURL, generate.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
}

// writeGenerated prints generated text as a titled list of non-blank lines.
func writeGenerated(w io.Writer, title, text string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	for _, line := range generate.SplitLines(text) {
		fmt.Fprintln(w, "  "+line)
	}
}
