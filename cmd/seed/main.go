package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ThiagoRGoveia/haiti-debt/internal/config"
	"github.com/ThiagoRGoveia/haiti-debt/internal/database"
	"github.com/ThiagoRGoveia/haiti-debt/internal/ingestion"
	"github.com/ThiagoRGoveia/haiti-debt/internal/logger"
)

func setup(ctx context.Context) (string, *ingestion.IngestionService, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.New(cfg.LogLevel, cfg.LogFormat)

	sourcePath := cfg.DataFile
	if len(os.Args) > 1 {
		sourcePath = os.Args[1]
	}
	if sourcePath == "" {
		return "", nil, nil, fmt.Errorf("please provide the CSV path as a command-line argument or set DATA_FILE")
	}

	dbManager, err := database.Open(ctx, cfg)
	if err != nil {
		return "", nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	handler := ingestion.NewIngestionService(
		dbManager,
		ingestion.NewFileProcessor(dbManager),
		*cfg,
	)

	return sourcePath, handler, dbManager.Close, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()
	ctx := context.Background()

	sourcePath, handler, cleanup, err := setup(ctx)
	if err != nil {
		log.Fatal(err)
	}

	report, err := handler.Execute(ctx, sourcePath)
	cleanup()
	if err != nil {
		slog.Error("import failed", "source", sourcePath, "error", err)
		os.Exit(1)
	}

	slog.Info("import process finished",
		"status", report.Run.Status,
		"records", report.Run.RecordCount,
		"rows", report.Run.RowCount,
		"execution_time", time.Since(startTime).String(),
	)
}
