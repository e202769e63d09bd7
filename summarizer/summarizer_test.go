package summarizer_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-pipeline/events"
	"ai-pipeline/summarizer"
)

type stubStrategy struct {
	name    string
	summary string
	points  []string
	err     error
	calls   int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Generate(_ context.Context, _ string, _ int) (string, []string, error) {
	s.calls++
	return s.summary, s.points, s.err
}

func summaryJob(text string) events.SummaryJob {
	return events.SummaryJob{
		JobID: "job-1",
		CleaningResult: events.CleaningResult{
			JobID: "job-1",
			CleanedContent: []events.CleanedItem{
				{URL: "https://exemplo.com/a", Title: "Fonte A", CleanText: text},
			},
		},
	}
}

func longText() string {
	return strings.Repeat("A civilização minoica floresceu em Creta durante a idade do bronze. ", 5)
}

func TestExecuteUsesFirstWorkingStrategy(t *testing.T) {
	primary := &stubStrategy{name: "openai-gpt-4o-mini", summary: "resumo gerado", points: []string{"ponto um"}}
	fallback := &stubStrategy{name: "google-gemini"}

	s := summarizer.NewWithStrategies(500, 100, primary, fallback)

	result, err := s.Execute(context.Background(), summaryJob(longText()))

	require.NoError(t, err)
	assert.Equal(t, "openai-gpt-4o-mini", result.AIModel)
	assert.Equal(t, "resumo gerado", result.Summary)
	assert.Equal(t, []string{"ponto um"}, result.KeyPoints)
	assert.Zero(t, fallback.calls)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestExecuteFallsBackToExtractive(t *testing.T) {
	failing := &stubStrategy{name: "openai-gpt-4o-mini", err: fmt.Errorf("quota exceeded")}

	s := summarizer.NewWithStrategies(500, 100, failing, &summarizer.ExtractiveStrategy{})

	result, err := s.Execute(context.Background(), summaryJob(longText()))

	require.NoError(t, err)
	assert.Equal(t, "fallback-extractive", result.AIModel)
	assert.NotEmpty(t, result.Summary)
	assert.Equal(t, 1, failing.calls)
}

func TestExecuteRejectsThinContent(t *testing.T) {
	s := summarizer.NewWithStrategies(500, 1000, &summarizer.ExtractiveStrategy{})

	_, err := s.Execute(context.Background(), summaryJob("pouco texto"))

	assert.ErrorIs(t, err, summarizer.ErrInsufficientContent)
}

func TestExecuteTruncatesSummary(t *testing.T) {
	verbose := &stubStrategy{name: "google-gemini", summary: strings.Repeat("x", 600)}

	s := summarizer.NewWithStrategies(500, 100, verbose)

	result, err := s.Execute(context.Background(), summaryJob(longText()))

	require.NoError(t, err)
	assert.Len(t, result.Summary, 500)
	assert.True(t, strings.HasSuffix(result.Summary, "..."))
}

func TestExecuteTruncationKeepsValidUTF8(t *testing.T) {
	verbose := &stubStrategy{name: "google-gemini", summary: strings.Repeat("ã", 400)}

	s := summarizer.NewWithStrategies(100, 100, verbose)

	result, err := s.Execute(context.Background(), summaryJob(longText()))

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(result.Summary))
	assert.LessOrEqual(t, len(result.Summary), 100)
	assert.True(t, strings.HasSuffix(result.Summary, "..."))
}

func TestExecuteCollectsSources(t *testing.T) {
	job := summaryJob(longText())
	job.CleaningResult.CleanedContent = append(job.CleaningResult.CleanedContent, events.CleanedItem{
		URL: "https://exemplo.com/b", Title: "Fonte B", CleanText: longText(),
	})

	s := summarizer.NewWithStrategies(500, 100, &summarizer.ExtractiveStrategy{})

	result, err := s.Execute(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Fonte A - https://exemplo.com/a",
		"Fonte B - https://exemplo.com/b",
	}, result.Sources)
}
