package summarizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiStrategy calls Google Gemini through the genai SDK.
type GeminiStrategy struct {
	apiKey string
	model  string
}

func NewGeminiStrategy(apiKey, model string) *GeminiStrategy {
	return &GeminiStrategy{apiKey: apiKey, model: model}
}

func (s *GeminiStrategy) Name() string {
	return "google-gemini"
}

func (s *GeminiStrategy) Generate(ctx context.Context, content string, maxLength int) (string, []string, error) {
	if s.apiKey == "" {
		return "", nil, fmt.Errorf("gemini client misconfigured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.apiKey,
	})
	if err != nil {
		return "", nil, err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		s.model,
		genai.Text(buildPrompt(content, maxLength)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
		},
	)
	if err != nil {
		return "", nil, err
	}

	summary, keyPoints := parseResponse(result.Text())
	return summary, keyPoints, nil
}
