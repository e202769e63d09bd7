package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-pipeline/config"
	"ai-pipeline/contentclient"
	"ai-pipeline/events"
)

// Scheduler registers generated content with the content platform and either
// schedules or publishes it. Any platform failure fails the job so the queue
// retry policy applies.
type Scheduler struct {
	client *contentclient.Client
}

func New(client *contentclient.Client) *Scheduler {
	return &Scheduler{client: client}
}

// Execute creates the content as a draft, then moves it to scheduled or
// published depending on whether ScheduleAt lies in the future.
func (s *Scheduler) Execute(ctx context.Context, job events.ScheduleJob) (events.SchedulingResult, error) {
	created, err := s.client.CreateContent(ctx, contentclient.CreateContentParams{
		Type:     job.ContentData.Type,
		Title:    job.ContentData.Title,
		Body:     job.ContentData.Body,
		Source:   strings.Join(job.ContentData.Sources, ", "),
		MediaURL: job.ContentData.MediaURL,
		Tags:     extractTags(job.ContentData),
	})
	if err != nil {
		return events.SchedulingResult{}, fmt.Errorf("create content: %w", err)
	}

	now := time.Now()
	if job.ScheduleAt != nil && job.ScheduleAt.After(now) {
		err := s.client.UpdateContent(ctx, created.ID, contentclient.UpdateContentParams{
			Status:    events.StatusScheduled,
			PublishAt: job.ScheduleAt,
		})
		if err != nil {
			return events.SchedulingResult{}, fmt.Errorf("schedule content %s: %w", created.ID, err)
		}

		config.Logger.Infof("content %s scheduled for %s (job %s)", created.ID, job.ScheduleAt.Format(time.RFC3339), job.JobID)
		return events.SchedulingResult{
			JobID:       job.JobID,
			ContentID:   created.ID,
			Status:      events.StatusScheduled,
			ScheduledAt: job.ScheduleAt,
		}, nil
	}

	err = s.client.UpdateContent(ctx, created.ID, contentclient.UpdateContentParams{
		Status:    events.StatusPublished,
		PublishAt: &now,
	})
	if err != nil {
		return events.SchedulingResult{}, fmt.Errorf("publish content %s: %w", created.ID, err)
	}

	config.Logger.Infof("content %s published immediately (job %s)", created.ID, job.JobID)
	return events.SchedulingResult{
		JobID:       job.JobID,
		ContentID:   created.ID,
		Status:      events.StatusPublished,
		PublishedAt: &now,
	}, nil
}

// UpdateContentStatus changes a record's lifecycle status outside the
// pipeline flow, for manual moderation.
func (s *Scheduler) UpdateContentStatus(ctx context.Context, contentID, status string) error {
	switch status {
	case "draft", events.StatusScheduled, events.StatusPublished, "hidden":
	default:
		return fmt.Errorf("invalid content status %q", status)
	}
	return s.client.UpdateStatus(ctx, contentID, status)
}

// DeleteContent removes a record from the content platform.
func (s *Scheduler) DeleteContent(ctx context.Context, contentID string) error {
	return s.client.DeleteContent(ctx, contentID)
}

// extractTags derives tags from the content itself: the lowercased type,
// up to three significant title words, and a marker identifying generated
// content.
func extractTags(data events.ContentData) []string {
	var tags []string
	if data.Type != "" {
		tags = append(tags, strings.ToLower(data.Type))
	}

	count := 0
	for _, word := range strings.Fields(data.Title) {
		word = strings.ToLower(strings.Trim(word, ".,!?;:\"'"))
		if len(word) > 4 {
			tags = append(tags, word)
			count++
			if count == 3 {
				break
			}
		}
	}

	return append(tags, "ia-gerado")
}
