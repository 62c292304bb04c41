package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModelName = "gemini-1.5-flash-latest"

// GeminiCompleter is the production text-completion backend. It satisfies
// services.TextCompleter.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(ctx context.Context, apiKey string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiCompleter{
		client: client,
		model:  defaultModelName,
	}, nil
}

func (c *GeminiCompleter) Complete(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned a non-text response")
	}

	return strings.TrimSpace(text.String()), nil
}

func (c *GeminiCompleter) Close() error {
	return c.client.Close()
}
