// Package recommender asks an OpenAI-compatible chat model to pick clubs for a
// student profile from a fixed list.
package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/internal/domain/entity"
)

const MaxRecommendations = 3

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrNoValidClubs  = errors.New("model recommended no known clubs")
)

type Client struct {
	api    *openai.Client
	model  string
	logger *logrus.Logger
}

func New(apiKey, baseURL, model string, logger *logrus.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, logger: logger}
}

// Recommend returns up to three clubs drawn from clubs, in the model's order.
func (c *Client) Recommend(ctx context.Context, p entity.Profile, clubs []entity.Club) ([]entity.ClubRecommendation, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful student advisor for Lehigh University. Reply with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(p, clubs),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	recs, err := Parse(resp.Choices[0].Message.Content, clubs)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"model": c.model, "count": len(recs)}).Debug("club recommendations received")
	}
	return recs, nil
}

// BuildPrompt renders the advisor prompt for a profile and the club list.
func BuildPrompt(p entity.Profile, clubs []entity.Club) string {
	minor := p.Minor
	if strings.TrimSpace(minor) == "" {
		minor = "N/A"
	}

	var b strings.Builder
	b.WriteString("Based on the following student profile and a list of available clubs, recommend the top 3 clubs ")
	b.WriteString("that would be a great fit for the student. Provide a brief, one-sentence explanation for each recommendation.\n\n")
	b.WriteString("Student Profile:\n")
	fmt.Fprintf(&b, "- Hobbies: %s\n", p.Hobbies)
	fmt.Fprintf(&b, "- Enjoys: %s\n", p.Enjoys)
	fmt.Fprintf(&b, "- Major: %s\n", p.Major)
	fmt.Fprintf(&b, "- Minor: %s\n", minor)
	fmt.Fprintf(&b, "- Semester Goals: %s\n\n", p.Goals)
	b.WriteString("Available Clubs:\n")
	for _, club := range clubs {
		fmt.Fprintf(&b, "- %s: %s\n", club.Name, club.Description)
	}
	b.WriteString("\nOnly recommend clubs from the provided list.\n")
	b.WriteString(`Respond with a JSON object of the form {"recommendations":[{"clubName":"...","reason":"..."}]}.`)
	return b.String()
}

// Parse decodes the model output, accepting either the wrapped object or a bare array.
// Unknown club names are dropped and at most MaxRecommendations are kept.
func Parse(content string, clubs []entity.Club) ([]entity.ClubRecommendation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var recs []entity.ClubRecommendation
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &recs); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
	} else {
		var wrapped struct {
			Recommendations []entity.ClubRecommendation `json:"recommendations"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
		recs = wrapped.Recommendations
	}

	known := make(map[string]bool, len(clubs))
	for _, club := range clubs {
		known[club.Name] = true
	}
	out := make([]entity.ClubRecommendation, 0, MaxRecommendations)
	for _, r := range recs {
		if !known[r.ClubName] {
			continue
		}
		out = append(out, r)
		if len(out) == MaxRecommendations {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoValidClubs
	}
	return out, nil
}
