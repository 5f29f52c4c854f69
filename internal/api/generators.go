package api

import (
	"context"
	"errors"
)

const (
	// DefaultLearningPlanURL is the learning-plan service endpoint in a local setup.
	DefaultLearningPlanURL = "http://localhost:4000/api/generate-learning-plan"

	// DefaultSuggestionURL is the pedagogy-suggestion service endpoint in a local setup.
	DefaultSuggestionURL = "http://localhost:5000/generate-suggestion"
)

// ErrEmptyCourseName is returned when a suggestion is requested without a course.
var ErrEmptyCourseName = errors.New("course name is required")

// LearningPlanRequest is the learner profile sent to the learning-plan service.
// Every field is free text, age included.
type LearningPlanRequest struct {
	Name          string `json:"name"`
	Age           string `json:"age"`
	Subject       string `json:"subject"`
	LearningStyle string `json:"learningStyle"`
	Strengths     string `json:"strengths"`
	Weaknesses    string `json:"weaknesses"`
}

type learningPlanResponse struct {
	LearningPlan string `json:"learningPlan"`
}

type suggestionRequest struct {
	CourseName string `json:"course_name"`
}

type suggestionResponse struct {
	Suggestions string `json:"suggestions"`
}

// GenerateLearningPlan posts the learner profile to endpoint and returns the plan text.
func (c *Client) GenerateLearningPlan(ctx context.Context, endpoint string, in LearningPlanRequest) (string, error) {
	var out learningPlanResponse
	if err := c.post(ctx, "generate learning plan", endpoint, in, &out); err != nil {
		return "", err
	}
	return out.LearningPlan, nil
}

// GenerateSuggestions posts the course name to endpoint and returns the suggestion text.
func (c *Client) GenerateSuggestions(ctx context.Context, endpoint, courseName string) (string, error) {
	if courseName == "" {
		return "", ErrEmptyCourseName
	}
	var out suggestionResponse
	if err := c.post(ctx, "generate suggestions", endpoint, suggestionRequest{CourseName: courseName}, &out); err != nil {
		return "", err
	}
	return out.Suggestions, nil
}
