package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/database"
	"github.com/Zachkp/portfolio/internal/github"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/preference"
	"github.com/Zachkp/portfolio/internal/telemetry"
	"github.com/Zachkp/portfolio/internal/view"
)

const defaultConfigPath = "config.yml"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.Path(defaultConfigPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Server.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenMigrated(ctx, cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", logger.String("path", cfg.Database.Path), logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	analytics.Cleanup(ctx, db, cfg.Analytics.Retention, log)

	lib, err := content.LoadEmbedded()
	if err != nil {
		log.Error("Failed to load content", logger.Error(err))
		return 1
	}

	tel := telemetry.Default()

	salt := cfg.Analytics.HashSalt
	if salt == "" {
		if salt, err = randomSalt(); err != nil {
			log.Error("Failed to generate hashing salt", logger.Error(err))
			return 1
		}
		log.Warn("ANALYTICS_HASH_SALT not set, visitor hashes will change on restart")
	}

	buffer := analytics.NewBuffer(cfg.Analytics.BufferSize)
	store := analytics.NewStore(db, buffer, log, tel, cfg.Analytics.FlushInterval, cfg.Analytics.FlushThreshold)
	store.Start()
	defer store.Stop()

	sink := analytics.NewSink(buffer, log, tel)
	reporter := analytics.NewReporter(db)

	actor := cfg.GitHub.Actor
	if actor == "" {
		actor = lib.Actor()
	}
	if actor == "" {
		log.Warn("No GitHub account configured, commit activity will not load")
	}

	aggregator := metrics.New(
		github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, cfg.GitHub.Timeout),
		reporter,
		log,
		metrics.Options{
			Actor:           actor,
			Interval:        cfg.Metrics.Interval,
			FetchTimeout:    cfg.Metrics.FetchTimeout,
			EventLimit:      cfg.GitHub.PerPage,
			ActiveDayWindow: cfg.Metrics.ActiveDayWindow,
			CommitWindow:    cfg.Metrics.CommitWindow,
			Metrics:         tel,
		},
	)
	aggregator.Start(ctx)
	defer aggregator.Stop()

	srv, err := api.NewServer(cfg.Server, cfg.Admin, cfg.Analytics.Retention, api.Dependencies{
		Sessions:    view.NewSessions(sink, cfg.Server.SessionTTL, log, tel),
		Content:     lib,
		Metrics:     aggregator,
		Preferences: preference.NewSQLiteStore(db),
		Events:      sink,
		Contact:     contact.NewService(cfg.Contact.Delay, log),
		Stats:       reporter,
		Visits:      analytics.NewVisits(db, salt, log),
		DB:          db,
		Log:         log,
	})
	if err != nil {
		log.Error("Failed to create server", logger.Error(err))
		return 1
	}

	if err := srv.Run(ctx); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}
	return 0
}

func randomSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
