package main

import (
	"flag"
	"log"

	"prepdeck/internal/config"
	"prepdeck/internal/database"
	"prepdeck/internal/logger"

	"go.uber.org/zap"
)

func main() {
	sourceURL := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	if err := database.RunMigrations(*sourceURL, cfg.GetDSN()); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("source", *sourceURL))
}
