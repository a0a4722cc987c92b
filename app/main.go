package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/api"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/cfg"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/collector"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/database"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/pipeline"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/snapshot"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting AI news pipeline", "version", appCfg.Version)

	rules, err := config.LoadRules(appCfg.RulesPath)
	if err != nil {
		slog.Error("Failed to load category rules", "path", appCfg.RulesPath, "error", err)
		os.Exit(1)
	}

	sources, err := config.LoadSources(appCfg.SourcesPath)
	if err != nil {
		slog.Error("Failed to load sources", "path", appCfg.SourcesPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Configuration loaded", "categories", len(rules.Categories), "sources", len(sources.Sources))

	store := snapshot.NewStore(appCfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appCfg.Collect {
		fetcher := collector.NewFetcher(time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.UserAgent)
		coll := collector.New(sources, fetcher, appCfg.ItemsPerSource, appCfg.FetchConcurrency, appCfg.EnrichPages)

		raw := coll.Run(ctx)
		if err := store.WriteJSON(snapshot.RawItems, raw); err != nil {
			slog.Error("Failed to write raw items", "error", err)
			os.Exit(1)
		}
		appCfg.InputPath = store.Path(snapshot.RawItems)
	}

	raw, err := pipeline.LoadRawItems(appCfg.InputPath)
	if err != nil {
		slog.Error("Failed to load raw items", "error", err)
		os.Exit(1)
	}

	runner := pipeline.NewRunner(rules, sources, appCfg.SummaryMaxChars, store)

	startedAt := time.Now().UTC()
	result, err := runner.Run(raw, startedAt)
	if err != nil {
		slog.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}

	var runRepo *database.RunRepository
	if appCfg.DBPath != "" {
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			slog.Error("Failed to open run archive", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Run archive ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

		runRepo = database.NewRunRepository(db)
		if err := archiveRun(runRepo, result, startedAt); err != nil {
			slog.Error("Failed to archive run", "error", err)
			os.Exit(1)
		}
	}

	if !appCfg.Serve {
		return
	}

	handler := api.NewHandler(store, runRepo)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

// archiveRun records the completed run and its digest items.
func archiveRun(runRepo *database.RunRepository, result *pipeline.Result, startedAt time.Time) error {
	run := database.Run{
		ID:             uuid.NewString(),
		StartedAt:      startedAt,
		FinishedAt:     time.Now().UTC(),
		InputCount:     result.InputCount,
		DroppedCount:   len(result.Dropped),
		DuplicateCount: result.DuplicateCount,
		DigestCount:    result.Digest.TotalItems,
	}

	items := make([]database.RunItem, 0, len(result.Digest.Items))
	for i, item := range result.Digest.Items {
		summary := ""
		if item.Summary != nil {
			summary = *item.Summary
		}
		items = append(items, database.RunItem{
			RunID:       run.ID,
			Position:    i,
			URL:         item.URL,
			Title:       item.Title,
			Source:      item.Source,
			Category:    item.Category,
			PublishedAt: item.PublishedAt,
			Summary:     summary,
		})
	}

	if err := runRepo.StoreRun(run, items); err != nil {
		return err
	}

	slog.Info("Run archived", "run_id", run.ID, "items", len(items))
	return nil
}
