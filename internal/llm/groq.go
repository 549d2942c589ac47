package llm

import (
	"context"
	"errors"
	"fmt"

	"weekly-menu/internal/shared"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GroqBaseURL is Groq's OpenAI compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient talks to Groq through the OpenAI compatible API.
type GroqClient struct {
	client *openai.LLM
	model  string
}

// NewGroqClient creates a new Groq API client. An empty baseURL selects GroqBaseURL.
func NewGroqClient(apiKey, model, baseURL string) (*GroqClient, error) {
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Groq client: %w", err)
	}
	return &GroqClient{client: client, model: model}, nil
}

// GenerateContent sends a prompt to the Groq model and returns the generated text.
func (c *GroqClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.client.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	},
		llms.WithTemperature(0.1),
		llms.WithJSONMode(),
	)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return ContentResponse{}, errors.New("no content generated")
	}

	choice := resp.Choices[0]
	usage := shared.TokenUsage{
		Model:            c.model,
		PromptTokens:     infoInt(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: infoInt(choice.GenerationInfo, "CompletionTokens"),
		TotalTokens:      infoInt(choice.GenerationInfo, "TotalTokens"),
	}
	return ContentResponse{Content: choice.Content, Usage: usage}, nil
}

func infoInt(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
