package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/reportscope/internal/api"
)

// Provider names.
const (
	ProviderRemote = "remote"
	ProviderOpenAI = "openai"
)

var (
	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown generator provider")

	// ErrEmptyResponse is returned when the provider answered without text.
	ErrEmptyResponse = errors.New("generator returned no text")

	// ErrMissingField is returned when a learner profile field is empty.
	ErrMissingField = errors.New("required field is empty")
)

// Generator produces learning material.
type Generator interface {
	// LearningPlan returns a personalized learning plan for the learner.
	LearningPlan(ctx context.Context, learner api.LearningPlanRequest) (string, error)

	// Suggestions returns pedagogy suggestions for a course.
	Suggestions(ctx context.Context, courseName string) (string, error)
}

// SplitLines splits generated text into trimmed, non-blank lines.
func SplitLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Remote forwards requests to the generator services.
type Remote struct {
	client        *api.Client
	planURL       string
	suggestionURL string
}

// NewRemote returns a provider posting to planURL and suggestionURL.
// Empty URLs fall back to the local defaults.
func NewRemote(client *api.Client, planURL, suggestionURL string) *Remote {
	if planURL == "" {
		planURL = api.DefaultLearningPlanURL
	}
	if suggestionURL == "" {
		suggestionURL = api.DefaultSuggestionURL
	}
	return &Remote{client: client, planURL: planURL, suggestionURL: suggestionURL}
}

// LearningPlan implements Generator.
func (r *Remote) LearningPlan(ctx context.Context, learner api.LearningPlanRequest) (string, error) {
	if err := validateLearner(learner); err != nil {
		return "", err
	}
	plan, err := r.client.GenerateLearningPlan(ctx, r.planURL, learner)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(plan) == "" {
		return "", ErrEmptyResponse
	}
	return plan, nil
}

// Suggestions implements Generator.
func (r *Remote) Suggestions(ctx context.Context, courseName string) (string, error) {
	courseName = strings.TrimSpace(courseName)
	if courseName == "" {
		return "", api.ErrEmptyCourseName
	}
	text, err := r.client.GenerateSuggestions(ctx, r.suggestionURL, courseName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// validateLearner rejects a learner profile with an empty required field.
// Strengths and weaknesses are optional.
func validateLearner(learner api.LearningPlanRequest) error {
	fields := []struct{ name, value string }{
		{"name", learner.Name},
		{"age", learner.Age},
		{"subject", learner.Subject},
		{"learning style", learner.LearningStyle},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}
