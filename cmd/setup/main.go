package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/ThiagoRGoveia/haiti-debt/internal/config"
	"github.com/ThiagoRGoveia/haiti-debt/internal/database"
	"github.com/ThiagoRGoveia/haiti-debt/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	dbManager, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer dbManager.Close()

	if err := dbManager.CreateDebtTable(ctx); err != nil {
		log.Fatalf("Failed to create debt table: %v", err)
	}
	if err := dbManager.CreateImportRunsTable(ctx); err != nil {
		log.Fatalf("Failed to create import runs table: %v", err)
	}

	slog.Info("database schema ready", "database_type", cfg.DatabaseType)
}
