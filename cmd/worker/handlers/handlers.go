package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-pipeline/cleaner"
	"ai-pipeline/config"
	"ai-pipeline/eventbus"
	"ai-pipeline/events"
	"ai-pipeline/models"
	"ai-pipeline/repositories"
	"ai-pipeline/scheduler"
	"ai-pipeline/scraper"
	"ai-pipeline/summarizer"
	"ai-pipeline/video"
)

// Stage names recorded with each job outcome.
const (
	StageScraping   = "scraping"
	StageCleaning   = "cleaning"
	StageSummary    = "summary"
	StageVideo      = "video"
	StageScheduling = "scheduling"
)

// StageHandlers wires the pipeline stages to the event bus. Each handler runs
// one stage, records the outcome and publishes the next stage's job. A
// returned error sends the event to the retry ladder.
type StageHandlers struct {
	bus        eventbus.EventBus
	scraper    *scraper.Scraper
	cleaner    *cleaner.Cleaner
	summarizer *summarizer.Summarizer
	video      *video.Synthesizer
	scheduler  *scheduler.Scheduler
	records    *repositories.JobRecordRepository
}

func NewStageHandlers(
	bus eventbus.EventBus,
	s *scraper.Scraper,
	c *cleaner.Cleaner,
	sum *summarizer.Summarizer,
	v *video.Synthesizer,
	sched *scheduler.Scheduler,
	records *repositories.JobRecordRepository,
) *StageHandlers {
	return &StageHandlers{
		bus:        bus,
		scraper:    s,
		cleaner:    c,
		summarizer: sum,
		video:      v,
		scheduler:  sched,
		records:    records,
	}
}

// HandleScrapeJob runs the scraping stage and hands results to cleaning.
// A run with zero retained pages ends here instead of feeding an empty
// cleaning job.
func (h *StageHandlers) HandleScrapeJob(ctx context.Context, job events.ScrapeJob, meta eventbus.Event) error {
	config.Logger.Infof("scraping job %s query=%q", job.JobID, job.Query)

	result, err := h.scraper.Execute(ctx, job)
	if err != nil {
		return err
	}

	h.recordCompleted(ctx, job.JobID, StageScraping, result)

	if len(result.Results) == 0 {
		config.Logger.Warnf("job %s scraped no usable pages, ending pipeline", job.JobID)
		return nil
	}

	return h.publishNext(ctx, eventbus.TopicCleaning, job.JobID, events.CleanJob{
		JobID:        job.JobID,
		ScrapeResult: result,
	}, meta)
}

// HandleCleanJob runs the cleaning stage and hands retained items to
// summarization.
func (h *StageHandlers) HandleCleanJob(ctx context.Context, job events.CleanJob, meta eventbus.Event) error {
	config.Logger.Infof("cleaning job %s sources=%d", job.JobID, len(job.ScrapeResult.Results))

	result, err := h.cleaner.Execute(ctx, job)
	if err != nil {
		return err
	}

	h.recordCompleted(ctx, job.JobID, StageCleaning, result)

	if len(result.CleanedContent) == 0 {
		config.Logger.Warnf("job %s retained no content after cleaning, ending pipeline", job.JobID)
		return nil
	}

	return h.publishNext(ctx, eventbus.TopicSummary, job.JobID, events.SummaryJob{
		JobID:          job.JobID,
		CleaningResult: result,
	}, meta)
}

// HandleSummaryJob runs summarization and hands the summary to video
// synthesis.
func (h *StageHandlers) HandleSummaryJob(ctx context.Context, job events.SummaryJob, meta eventbus.Event) error {
	config.Logger.Infof("summarizing job %s items=%d", job.JobID, len(job.CleaningResult.CleanedContent))

	result, err := h.summarizer.Execute(ctx, job)
	if err != nil {
		return err
	}

	config.Logger.Infof("job %s summarized via %s (%d chars, %d key points)",
		job.JobID, result.AIModel, len(result.Summary), len(result.KeyPoints))
	h.recordCompleted(ctx, job.JobID, StageSummary, result)

	return h.publishNext(ctx, eventbus.TopicVideo, job.JobID, events.VideoJob{
		JobID:         job.JobID,
		SummaryResult: result,
	}, meta)
}

// HandleVideoJob runs video synthesis and hands the assembled content to
// scheduling.
func (h *StageHandlers) HandleVideoJob(ctx context.Context, job events.VideoJob, meta eventbus.Event) error {
	config.Logger.Infof("synthesizing video for job %s", job.JobID)

	result, err := h.video.Execute(ctx, job)
	if err != nil {
		return err
	}

	h.recordCompleted(ctx, job.JobID, StageVideo, result)

	content := events.ContentData{
		Type:     "Vídeo",
		Title:    fmt.Sprintf("Conteúdo gerado por IA - %s", time.Now().Format("02/01/2006")),
		Body:     job.SummaryResult.Summary,
		Sources:  job.SummaryResult.Sources,
		MediaURL: result.VideoURL,
	}

	return h.publishNext(ctx, eventbus.TopicScheduling, job.JobID, events.ScheduleJob{
		JobID:       job.JobID,
		ContentData: content,
	}, meta)
}

// HandleScheduleJob runs the terminal scheduling stage.
func (h *StageHandlers) HandleScheduleJob(ctx context.Context, job events.ScheduleJob, meta eventbus.Event) error {
	config.Logger.Infof("scheduling content for job %s", job.JobID)

	result, err := h.scheduler.Execute(ctx, job)
	if err != nil {
		return err
	}

	h.recordCompleted(ctx, job.JobID, StageScheduling, result)
	config.Logger.Infof("job %s finished: content %s %s", job.JobID, result.ContentID, result.Status)
	return nil
}

// RecordFailure persists a dead-lettered event so failed jobs stay queryable
// for the retention window.
func (h *StageHandlers) RecordFailure(ctx context.Context, stage string, evt eventbus.Event) {
	if h.records == nil {
		return
	}
	record := models.JobRecord{
		JobID:     evt.JobID,
		Stage:     stage,
		Status:    models.JobStatusFailed,
		LastError: evt.LastError,
		Payload:   string(evt.Payload),
	}
	if _, err := h.records.Insert(ctx, record); err != nil {
		config.Logger.Errorf("failed to record job failure for %s: %v", evt.JobID, err)
	}
}

func (h *StageHandlers) recordCompleted(ctx context.Context, jobID, stage string, result any) {
	if h.records == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		config.Logger.Warnf("failed to marshal %s result for job %s: %v", stage, jobID, err)
	}
	record := models.JobRecord{
		JobID:   jobID,
		Stage:   stage,
		Status:  models.JobStatusCompleted,
		Payload: string(payload),
	}
	if _, err := h.records.Insert(ctx, record); err != nil {
		config.Logger.Errorf("failed to record job completion for %s: %v", jobID, err)
	}
}

// publishNext forwards the job to the next stage with a fresh retry budget.
func (h *StageHandlers) publishNext(ctx context.Context, topic eventbus.Topic, jobID string, payload any, meta eventbus.Event) error {
	evt, err := eventbus.NewJSONEvent(jobID, payload, meta.MaxRetry)
	if err != nil {
		return err
	}
	if err := h.bus.Publish(ctx, topic.Base(), evt); err != nil {
		return fmt.Errorf("publish to %s: %w", topic.Base(), err)
	}
	return nil
}
