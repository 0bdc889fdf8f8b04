package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"concert-tracker/internal/config"
	"concert-tracker/internal/database"
	"concert-tracker/internal/jobs"
	"concert-tracker/internal/models"
	"concert-tracker/internal/store"
	"concert-tracker/internal/ticketmaster"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	client := ticketmaster.NewClient(
		cfg.Ticketmaster.APIKey,
		cfg.Ticketmaster.BaseURL,
		cfg.Ticketmaster.Timeout,
	)

	job := jobs.NewSyncJob(client, store.New(db), cfg.Sync)

	// One run per invocation; SIGINT/SIGTERM cancels in-flight work.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := job.Run(ctx)
	if result.Outcome != models.RunOutcomeSuccess {
		os.Exit(1)
	}
}
