package main

import (
	"context"
	"fmt"
	"log"
	"os"

	apiconfig "tradetracker/internal/api/config"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/importer"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/postgres"

	"github.com/spf13/cobra"
)

var configPath string

var importCmd = &cobra.Command{
	Use:   "run <user_id> <csv_file>",
	Short: "Import trades from a P&L tracker CSV export",
	Args:  cobra.ExactArgs(2),
	Run:   runImport,
}

func runImport(cmd *cobra.Command, args []string) {
	userID, csvPath := args[0], args[1]

	cfg, err := apiconfig.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	file, err := os.Open(csvPath)
	if err != nil {
		appLogger.Fatal("Failed to open CSV file", logger.ErrorField(err), logger.Field("path", csvPath))
	}
	defer file.Close()

	im := importer.New(repository.NewTradeRepository(db.DB), appLogger)
	result, err := im.Import(context.Background(), file, userID)
	if err != nil {
		appLogger.Fatal("Import failed", logger.ErrorField(err))
	}

	appLogger.Info("Import complete",
		logger.IntField("imported", result.Imported),
		logger.IntField("skipped", result.Skipped),
		logger.Field("user_id", userID))
}

func main() {
	rootCmd := &cobra.Command{Use: "import-trades"}

	importCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(importCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing import-trades CLI: %s\n", err)
		os.Exit(1)
	}
}
