package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contable/internal/amqp"
	"contable/internal/config"
	apphttp "contable/internal/http"
	"contable/internal/ledger"
	"contable/internal/ledger/memory"
	applog "contable/internal/log"
	"contable/internal/services"
	gsheet "contable/internal/sheets/google"
	"contable/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, "contable")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var repo ledger.Repository
	switch cfg.DataBackend {
	case "sqlite":
		sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	case "sheets":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		repo = cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		repo = memory.New()
		logger.Info("Initialized memory backend")
	}

	// The publisher is optional: without AMQP the import path still
	// works, the worker just never hears about new batches.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" && cfg.DataBackend == "sqlite" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, sync notifications disabled", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	importer := services.NewImportService(repo, publisher, cfg.DefaultCategory)
	budget := services.NewBudgetService(repo)
	srv := apphttp.NewServer(":"+cfg.Port, importer, budget)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting contable server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
