package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jobbook/backend/internal/infrastructure/config"
	"github.com/jobbook/backend/internal/infrastructure/logger"
	"github.com/jobbook/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Store.Backend != "gorm" {
		log.Warn("Store backend is not gorm, the database is unused by the server",
			zap.String("backend", cfg.Store.Backend))
	}

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{Logger: log, LogLevel: logLevel})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		missing := db.MissingTables()
		if err := db.Migrate(); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Migration complete", zap.Strings("created", missing))
	case "status":
		missing := db.MissingTables()
		if len(missing) == 0 {
			fmt.Println("Schema is up to date")
			return
		}
		fmt.Println("Missing tables:")
		for _, table := range missing {
			fmt.Printf("  %s\n", table)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [options] <command>

Commands:
  up        Create or update the billing tables
  status    List billing tables that do not exist yet

Options:
`)
	flag.PrintDefaults()
}
