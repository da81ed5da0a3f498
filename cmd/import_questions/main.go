// Command import_questions loads a CSV of questions into a content node
// from the command line, using the same validation and batch insert path
// as the admin import endpoint.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"prepdeck/internal/config"
	"prepdeck/internal/database"
	"prepdeck/internal/logger"
	"prepdeck/internal/repository"
	"prepdeck/internal/service"

	"go.uber.org/zap"
)

func main() {
	nodeID := flag.String("node", "", "content node ID to import into (required)")
	filePath := flag.String("file", "", "path to the CSV file (required)")
	flag.Parse()

	if *nodeID == "" || *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	questionRepository := repository.NewSQLXQuestionRepository(db)
	nodeRepository := repository.NewSQLXContentNodeRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)
	importService := service.NewImportService(questionRepository, nodeRepository, txManager)

	file, err := os.Open(*filePath)
	if err != nil {
		l.Fatal("Failed to open CSV file", zap.String("file", *filePath), zap.Error(err))
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := importService.ImportCSV(ctx, *nodeID, file)
	if err != nil {
		l.Fatal("Import failed", zap.Error(err))
	}

	for _, rowErr := range result.Errors {
		l.Warn("Rejected row", zap.String("reason", rowErr))
	}
	l.Info("Import finished",
		zap.String("nodeID", *nodeID),
		zap.Int("imported", result.Imported),
		zap.Int("rejected", result.Rejected))
}
