package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"ai-pipeline/config"
	"ai-pipeline/events"
)

// ErrInsufficientContent means the combined cleaned content is too short to
// summarize. Fails the job so the queue retry policy applies.
var ErrInsufficientContent = errors.New("insufficient content to generate summary")

// Strategy is one way of producing a summary plus key points. Strategies are
// tried in order; the first success wins and its name is recorded in the
// result's AIModel field.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, content string, maxLength int) (string, []string, error)
}

// Summarizer combines cleaned sources into one prompt and runs the configured
// strategy chain over it. The extractive fallback is always last, so a run
// can only fail on insufficient input.
type Summarizer struct {
	maxLength        int
	minContentLength int
	strategies       []Strategy
}

// New builds the strategy chain from configuration: OpenAI when a key is
// set, Gemini when a key is set, extractive always.
func New(cfg config.AppConfig) *Summarizer {
	var strategies []Strategy
	if cfg.OpenAIApiKey != "" {
		strategies = append(strategies, NewOpenAIStrategy(cfg.OpenAIApiKey))
	}
	if cfg.GeminiApiKey != "" {
		strategies = append(strategies, NewGeminiStrategy(cfg.GeminiApiKey, cfg.GeminiModel))
	}
	strategies = append(strategies, &ExtractiveStrategy{})

	return &Summarizer{
		maxLength:        cfg.Content.MaxSummaryLength,
		minContentLength: cfg.Content.MinContentLength,
		strategies:       strategies,
	}
}

// NewWithStrategies builds a summarizer with an explicit chain. Used by tests
// and by callers that need a custom provider order.
func NewWithStrategies(maxLength, minContentLength int, strategies ...Strategy) *Summarizer {
	return &Summarizer{
		maxLength:        maxLength,
		minContentLength: minContentLength,
		strategies:       strategies,
	}
}

// Execute produces one SummaryResult covering all retained sources.
func (s *Summarizer) Execute(ctx context.Context, job events.SummaryJob) (events.SummaryResult, error) {
	maxLength := job.MaxLength
	if maxLength <= 0 {
		maxLength = s.maxLength
	}

	combined := combineContents(job.CleaningResult.CleanedContent)
	if len(combined) < s.minContentLength {
		return events.SummaryResult{}, ErrInsufficientContent
	}

	sources := extractSources(job.CleaningResult.CleanedContent)

	var summary string
	var keyPoints []string
	var aiModel string
	for _, strategy := range s.strategies {
		var err error
		summary, keyPoints, err = strategy.Generate(ctx, combined, maxLength)
		if err != nil {
			config.Logger.Warnf("summary strategy %s failed: %v", strategy.Name(), err)
			continue
		}
		aiModel = strategy.Name()
		break
	}
	if aiModel == "" {
		// The extractive strategy never fails, so this is unreachable
		// with the default chain.
		return events.SummaryResult{}, fmt.Errorf("all summary strategies failed")
	}

	summary = truncateWithEllipsis(summary, maxLength)

	return events.SummaryResult{
		JobID:       job.JobID,
		Summary:     summary,
		KeyPoints:   keyPoints,
		Sources:     sources,
		AIModel:     aiModel,
		GeneratedAt: time.Now(),
	}, nil
}

// combineContents concatenates cleaned items into one prompt body, each
// prefixed with a source marker.
func combineContents(items []events.CleanedItem) string {
	var combined string
	for i, item := range items {
		combined += fmt.Sprintf("=== Fonte %d: %s ===\n%s\n\n", i+1, item.Title, item.CleanText)
	}
	return combined
}

// extractSources derives the attribution list, preserving input order.
func extractSources(items []events.CleanedItem) []string {
	sources := make([]string, len(items))
	for i, item := range items {
		sources[i] = fmt.Sprintf("%s - %s", item.Title, item.URL)
	}
	return sources
}

// truncateWithEllipsis cuts text to maxLength bytes, backing off to a rune
// boundary so accented characters are never split.
func truncateWithEllipsis(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	cut := maxLength - 3
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
