package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIStrategy calls the OpenAI chat-completions API (or any compatible
// endpoint).
type OpenAIStrategy struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIStrategy(apiKey string) *OpenAIStrategy {
	return &OpenAIStrategy{
		endpoint: "https://api.openai.com/v1/chat/completions",
		model:    "gpt-4o-mini",
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (s *OpenAIStrategy) Name() string {
	return "openai-" + s.model
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *OpenAIStrategy) Generate(ctx context.Context, content string, maxLength int) (string, []string, error) {
	if s.apiKey == "" {
		return "", nil, fmt.Errorf("openai client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": SYSTEM_INSTRUCTION},
			{"role": "user", "content": buildPrompt(content, maxLength)},
		},
		"temperature": 0.7,
		"max_tokens":  1000,
	})
	if err != nil {
		return "", nil, fmt.Errorf("marshal openai payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", nil, fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil, fmt.Errorf("openai returned no choices")
	}

	summary, keyPoints := parseResponse(out.Choices[0].Message.Content)
	return summary, keyPoints, nil
}
