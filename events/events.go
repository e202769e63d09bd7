package events

import (
	"time"
)

// Job payloads and results for each pipeline stage. One jobId correlates all
// stages of a single run; each result is produced by exactly one stage and is
// carried forward by value in the next stage's job payload.

// ScrapeJob starts a pipeline run.
type ScrapeJob struct {
	JobID    string `json:"job_id"`
	Query    string `json:"query"`
	UserID   string `json:"user_id"`
	MaxPages int    `json:"max_pages,omitempty"`
}

// ScrapedPage is one successfully extracted source page.
type ScrapedPage struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceDate string `json:"source_date,omitempty"`
}

// ScrapeResult is the scraping stage output. Results keep discovery order;
// Sources is the flat URL projection for traceability.
type ScrapeResult struct {
	JobID     string        `json:"job_id"`
	Query     string        `json:"query"`
	Results   []ScrapedPage `json:"results"`
	Sources   []string      `json:"sources"`
	ScrapedAt time.Time     `json:"scraped_at"`
}

// CleanJob feeds the cleaning stage.
type CleanJob struct {
	JobID        string       `json:"job_id"`
	ScrapeResult ScrapeResult `json:"scrape_result"`
}

// CleanedItem is one content-bearing source after boilerplate removal.
type CleanedItem struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	CleanText string `json:"clean_text"`
	WordCount int    `json:"word_count"`
}

// CleaningResult is the cleaning stage output. Items below the word-count
// threshold are dropped, never nulled.
type CleaningResult struct {
	JobID          string        `json:"job_id"`
	CleanedContent []CleanedItem `json:"cleaned_content"`
	ProcessedAt    time.Time     `json:"processed_at"`
}

// SummaryJob feeds the summarization stage.
type SummaryJob struct {
	JobID          string         `json:"job_id"`
	CleaningResult CleaningResult `json:"cleaning_result"`
	MaxLength      int            `json:"max_length,omitempty"`
}

// SummaryResult is the summarization stage output. AIModel records which
// strategy produced the summary so degraded output can be audited downstream.
type SummaryResult struct {
	JobID       string    `json:"job_id"`
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"key_points"`
	Sources     []string  `json:"sources"`
	AIModel     string    `json:"ai_model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// VideoJob feeds the video synthesis stage.
type VideoJob struct {
	JobID         string        `json:"job_id"`
	SummaryResult SummaryResult `json:"summary_result"`
	VideoTemplate string        `json:"video_template,omitempty"`
}

// VideoResult is the video stage output. A placeholder URL with zero duration
// marks a run where no provider was available.
type VideoResult struct {
	JobID        string    `json:"job_id"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Duration     int       `json:"duration,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// ContentData is the payload the scheduling stage sends to the content API.
type ContentData struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Sources  []string `json:"sources"`
	MediaURL string   `json:"media_url,omitempty"`
}

// ScheduleJob feeds the scheduling stage. ScheduleAt in the future means
// scheduled publication; absent or past means publish immediately.
type ScheduleJob struct {
	JobID       string      `json:"job_id"`
	ContentData ContentData `json:"content_data"`
	ScheduleAt  *time.Time  `json:"schedule_at,omitempty"`
}

// Scheduling statuses.
const (
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// SchedulingResult is the terminal pipeline output. ContentID is owned by the
// external content API.
type SchedulingResult struct {
	JobID       string     `json:"job_id"`
	ContentID   string     `json:"content_id"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
