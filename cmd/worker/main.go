package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ai-pipeline/cleaner"
	"ai-pipeline/cmd/worker/handlers"
	"ai-pipeline/config"
	"ai-pipeline/contentclient"
	"ai-pipeline/db"
	"ai-pipeline/eventbus"
	"ai-pipeline/events"
	"ai-pipeline/repositories"
	"ai-pipeline/scheduler"
	"ai-pipeline/scraper"
	"ai-pipeline/summarizer"
	"ai-pipeline/video"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Init(ctx); err != nil {
		config.Logger.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}

	brokers := eventbus.GetBrokers()
	for _, topic := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(brokers, topic, 3); err != nil {
			config.Logger.Errorf("failed to ensure topics for %s: %v", topic.Base(), err)
		}
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		config.Logger.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	records := repositories.NewJobRecordRepository(db.Database())

	searchProvider := newSearchProvider(cfg)
	webScraper := scraper.New(cfg, searchProvider)
	defer webScraper.Shutdown()

	stageHandlers := handlers.NewStageHandlers(
		bus,
		webScraper,
		cleaner.New(),
		summarizer.New(cfg),
		video.New(cfg),
		scheduler.New(contentclient.New(cfg)),
		records,
	)

	groupID := eventbus.GetGroupID()

	var wg sync.WaitGroup
	runSubscriber := func(name string, run func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(); err != nil && err != context.Canceled {
				config.Logger.Errorf("%s subscriber stopped: %v", name, err)
			}
		}()
	}

	// One consumer pool per stage. Concurrency sets the number of consumer
	// goroutines inside the shared consumer group.
	stages := []struct {
		topic eventbus.Topic
		name  string
		run   func() error
	}{
		{eventbus.TopicScraping, handlers.StageScraping, func() error {
			return eventbus.SubscribeJSON[events.ScrapeJob](ctx, bus, groupID, eventbus.TopicScraping, stageHandlers.HandleScrapeJob)
		}},
		{eventbus.TopicCleaning, handlers.StageCleaning, func() error {
			return eventbus.SubscribeJSON[events.CleanJob](ctx, bus, groupID, eventbus.TopicCleaning, stageHandlers.HandleCleanJob)
		}},
		{eventbus.TopicSummary, handlers.StageSummary, func() error {
			return eventbus.SubscribeJSON[events.SummaryJob](ctx, bus, groupID, eventbus.TopicSummary, stageHandlers.HandleSummaryJob)
		}},
		{eventbus.TopicVideo, handlers.StageVideo, func() error {
			return eventbus.SubscribeJSON[events.VideoJob](ctx, bus, groupID, eventbus.TopicVideo, stageHandlers.HandleVideoJob)
		}},
		{eventbus.TopicScheduling, handlers.StageScheduling, func() error {
			return eventbus.SubscribeJSON[events.ScheduleJob](ctx, bus, groupID, eventbus.TopicScheduling, stageHandlers.HandleScheduleJob)
		}},
	}

	for _, stage := range stages {
		for i := 0; i < cfg.Queue.Concurrency; i++ {
			runSubscriber(stage.name, stage.run)
		}

		topic := stage.topic
		runSubscriber(stage.name+"-reinjector", func() error {
			return bus.StartRetryReinjector(ctx, groupID+"-retry", topic)
		})

		// DLQ consumer records exhausted jobs as failed. It always commits;
		// a recording error must not re-enter the retry ladder.
		stageName := stage.name
		dlqTopic := eventbus.NewTopic(topic.DLQ())
		runSubscriber(stage.name+"-dlq", func() error {
			return bus.Subscribe(ctx, groupID+"-dlq", dlqTopic, func(ctx context.Context, evt eventbus.Event) error {
				config.Logger.Errorf("job %s dead-lettered at %s stage: %s", evt.JobID, stageName, evt.LastError)
				stageHandlers.RecordFailure(ctx, stageName, evt)
				return nil
			})
		})
	}

	config.Logger.Infof("worker started: %d stages, concurrency %d", len(stages), cfg.Queue.Concurrency)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down worker...")

	cancel()
	wg.Wait()

	config.Logger.Info("worker stopped")
}

// newSearchProvider picks the search backend. SEARCH_PROVIDER=news switches
// to the news feed; anything else uses web search.
func newSearchProvider(cfg config.AppConfig) scraper.SearchProvider {
	timeout := time.Duration(cfg.Scraping.TimeoutSeconds) * time.Second
	if os.Getenv("SEARCH_PROVIDER") == "news" {
		return scraper.NewNewsFeedProvider(cfg.Scraping.UserAgent)
	}
	return scraper.NewDuckDuckGoProvider(cfg.Scraping.UserAgent, timeout)
}
