package summarizer

import (
	"context"
	"strings"
)

// ExtractiveStrategy builds a summary out of existing paragraphs, no LLM
// involved. It terminates the strategy chain: Generate never fails.
type ExtractiveStrategy struct{}

func (s *ExtractiveStrategy) Name() string {
	return "fallback-extractive"
}

func (s *ExtractiveStrategy) Generate(_ context.Context, content string, maxLength int) (string, []string, error) {
	return extractiveSummary(content, maxLength), extractiveKeyPoints(content), nil
}

// extractiveSummary greedily concatenates whole paragraphs until the next
// one would exceed maxLength.
func extractiveSummary(content string, maxLength int) string {
	paragraphs := nonEmptyParagraphs(content)

	var summary string
	for _, para := range paragraphs {
		if len(summary)+len(para) < maxLength {
			summary += para + "\n\n"
		} else {
			break
		}
	}

	if summary == "" && len(content) > 0 {
		summary = truncateWithEllipsis(content, maxLength)
	}

	return strings.TrimSpace(summary)
}

// extractiveKeyPoints takes the first sentence of each of the first five
// paragraphs, keeping only points of plausible length.
func extractiveKeyPoints(content string) []string {
	paragraphs := nonEmptyParagraphs(content)
	if len(paragraphs) > 5 {
		paragraphs = paragraphs[:5]
	}

	var keyPoints []string
	for _, para := range paragraphs {
		firstSentence := strings.TrimSpace(splitFirstSentence(para))
		if len(firstSentence) > 10 && len(firstSentence) < 200 {
			keyPoints = append(keyPoints, firstSentence)
		}
	}

	if len(keyPoints) > 5 {
		keyPoints = keyPoints[:5]
	}
	return keyPoints
}

func nonEmptyParagraphs(content string) []string {
	var paragraphs []string
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func splitFirstSentence(text string) string {
	end := strings.IndexAny(text, ".!?")
	if end == -1 {
		return text
	}
	return text[:end]
}
