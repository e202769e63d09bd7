package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"ai-pipeline/cmd/api/router"
	"ai-pipeline/config"
	"ai-pipeline/db"
	"ai-pipeline/eventbus"
	"ai-pipeline/repositories"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	if err := db.Init(context.Background()); err != nil {
		log.Fatal(err)
	}

	brokers := eventbus.GetBrokers()
	if err := eventbus.EnsureTopics(brokers, eventbus.TopicScraping, 3); err != nil {
		config.Logger.Errorf("failed to ensure scraping topics: %v", err)
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	records := repositories.NewJobRecordRepository(db.Database())
	r := router.New(bus, records)

	handler := cors.Default().Handler(r)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	config.Logger.Infof("api listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
