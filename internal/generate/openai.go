package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/nao1215/reportscope/internal/api"
)

const (
	// DefaultOpenAIModel is used when no model is configured.
	DefaultOpenAIModel = "gpt-4o-mini"

	maxTokens = 2048
)

const (
	planSystemPrompt = "You are an experienced adult-education coach. " +
		"Write a personalized, week-by-week learning plan. " +
		"Put every step on its own line and do not use markdown."
	suggestionSystemPrompt = "You are an experienced teacher trainer. " +
		"Suggest effective pedagogy for the given course. " +
		"Put every suggestion on its own line and do not use markdown."
)

// OpenAI asks a chat-completion model for learning material.
type OpenAI struct {
	client *openai.Client
	model  string
}

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint, e.g. for a compatible gateway.
	BaseURL string
}

// NewOpenAI returns an OpenAI provider.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientConfig), model: model}
}

// LearningPlan implements Generator.
func (o *OpenAI) LearningPlan(ctx context.Context, learner api.LearningPlanRequest) (string, error) {
	if err := validateLearner(learner); err != nil {
		return "", err
	}
	return o.complete(ctx, planSystemPrompt, learnerPrompt(learner))
}

// Suggestions implements Generator.
func (o *OpenAI) Suggestions(ctx context.Context, courseName string) (string, error) {
	courseName = strings.TrimSpace(courseName)
	if courseName == "" {
		return "", api.ErrEmptyCourseName
	}
	return o.complete(ctx, suggestionSystemPrompt, "Course: "+courseName)
}

func (o *OpenAI) complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	// Reasoning models reject MaxTokens.
	if isReasoningModel(o.model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

func learnerPrompt(l api.LearningPlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", l.Name)
	fmt.Fprintf(&b, "Age: %s\n", l.Age)
	fmt.Fprintf(&b, "Subject: %s\n", l.Subject)
	fmt.Fprintf(&b, "Learning style: %s\n", l.LearningStyle)
	if l.Strengths != "" {
		fmt.Fprintf(&b, "Strengths: %s\n", l.Strengths)
	}
	if l.Weaknesses != "" {
		fmt.Fprintf(&b, "Weaknesses: %s\n", l.Weaknesses)
	}
	return b.String()
}

// New returns the generator named by provider.
func New(provider string, client *api.Client, planURL, suggestionURL string, openaiConfig OpenAIConfig) (Generator, error) {
	switch provider {
	case "", ProviderRemote:
		return NewRemote(client, planURL, suggestionURL), nil
	case ProviderOpenAI:
		return NewOpenAI(openaiConfig), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}
