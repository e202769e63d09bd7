package cleaner

import (
	"context"
	"strings"
	"time"

	"ai-pipeline/events"
)

// Minimum words an item must keep to survive filtering.
const MIN_WORD_COUNT = 20

// Minimum characters for a paragraph to count as meaningful.
const MIN_PARAGRAPH_LENGTH = 50

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&quot;", `"`,
	"&apos;", "'",
	"&lt;", "",
	"&gt;", "",
	"&amp;", "&",
)

// Cleaner strips markup and boilerplate from scraped content. The cleaning
// steps run in a fixed order; each step feeds the next.
type Cleaner struct{}

func New() *Cleaner {
	return &Cleaner{}
}

// CleanText runs the full cleaning pipeline over one text.
func (c *Cleaner) CleanText(text string) string {
	cleaned := text

	// 1. markup and entities
	cleaned = removeHTMLTags(cleaned)

	// 2. advertisement phrases
	cleaned = removeAdsPatterns(cleaned)

	// 3. short navigation/UI lines
	cleaned = removeNavigationLines(cleaned)

	// 4. URLs and emails
	cleaned = urlPattern.ReplaceAllString(cleaned, "")
	cleaned = emailPattern.ReplaceAllString(cleaned, "")

	// 5. special characters
	cleaned = specialCharPattern.ReplaceAllString(cleaned, "")

	// 6. whitespace
	cleaned = normalizeWhitespace(cleaned)

	// 7. meaningful paragraphs only
	cleaned = extractMeaningfulParagraphs(cleaned)

	return cleaned
}

// Execute cleans every scraped page and drops items at or below the word
// threshold.
func (c *Cleaner) Execute(_ context.Context, job events.CleanJob) (events.CleaningResult, error) {
	var cleanedContent []events.CleanedItem
	for _, item := range job.ScrapeResult.Results {
		cleanText := c.CleanText(item.Content)
		wordCount := countWords(cleanText)

		if wordCount <= MIN_WORD_COUNT {
			continue
		}

		cleanedContent = append(cleanedContent, events.CleanedItem{
			URL:       item.URL,
			Title:     item.Title,
			CleanText: cleanText,
			WordCount: wordCount,
		})
	}

	return events.CleaningResult{
		JobID:          job.JobID,
		CleanedContent: cleanedContent,
		ProcessedAt:    time.Now(),
	}, nil
}

// removeHTMLTags strips complete tags first, then any leftover angle
// brackets from broken markup, then decodes the common entities. The output
// is only ever fed to text processing, never rendered.
func removeHTMLTags(text string) string {
	cleaned := htmlTagPattern.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "<", "")
	cleaned = strings.ReplaceAll(cleaned, ">", "")
	return entityReplacer.Replace(cleaned)
}

func removeAdsPatterns(text string) string {
	for _, pattern := range adsPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return text
}

// removeNavigationLines drops lines under 50 characters that match a
// navigation phrase.
func removeNavigationLines(text string) string {
	for _, pattern := range navPatterns {
		lines := strings.Split(text, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if len(line) < 50 && pattern.MatchString(line) {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.Join(kept, "\n")
	}
	return text
}

// normalizeWhitespace collapses space runs and blank-line runs while keeping
// paragraph breaks intact.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = newlinePadPattern.ReplaceAllString(text, "\n")
	text = blankLineRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func extractMeaningfulParagraphs(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	var meaningful []string
	for _, p := range paragraphs {
		trimmed := strings.TrimSpace(p)
		if len(trimmed) >= MIN_PARAGRAPH_LENGTH && wordRunPattern.MatchString(trimmed) {
			meaningful = append(meaningful, trimmed)
		}
	}
	return strings.Join(meaningful, "\n\n")
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
