package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"docindex/ocr"
)

// Global Variables and Constants
var (

	// Logger
	log = logrus.New()

	// Environment Variables
	logLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
)

func main() {
	// Initialize logrus logger
	initLogger()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: docindex <index|search|serve> [word]")
		os.Exit(2)
	}

	cfg := loadRunConfig()

	switch os.Args[1] {
	case "index":
		runIndexCommand(cfg)
	case "search":
		query := ""
		if len(os.Args) > 2 {
			query = os.Args[2]
		}
		runSearchCommand(cfg, query)
	case "serve":
		runServeCommand(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: docindex <index|search|serve> [word]\n", os.Args[1])
		os.Exit(2)
	}
}

// runIndexCommand executes a full pipeline run over the configured corpus.
func runIndexCommand(cfg RunConfig) {
	validateIndexConfig(cfg)

	provider, err := ocr.NewProvider(cfg.OCR)
	if err != nil {
		log.Fatalf("Failed to create OCR provider: %v", err)
	}

	database := InitializeDB(cfg.HistoryDir)

	app := &App{
		Config:   cfg,
		Provider: provider,
		Database: database,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.OCRRateLimit), 1),
	}

	summary, err := app.RunIndex(context.Background())
	if err != nil {
		log.Fatalf("Pipeline run failed: %v", err)
	}

	fmt.Printf("Processed %d words across %d documents (%d skipped).\n",
		summary.Records, summary.Processed(), summary.SkippedCount())
	fmt.Printf("Word index saved to %s\n", summary.IndexPath)
	fmt.Printf("Annotated images saved to %s\n", cfg.OutputDir)
}

// runSearchCommand resolves an exact-word lookup against the saved index.
// Interactive prompting happens here at the CLI boundary, not in the engine.
func runSearchCommand(cfg RunConfig, query string) {
	if err := runSearch(cfg, os.Stdin, os.Stdout, query); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runServeCommand loads the index snapshot once and serves it read-only.
func runServeCommand(cfg RunConfig) {
	records, err := LoadIndex(cfg.IndexPath)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}

	app := &App{
		Config:   cfg,
		Database: InitializeDB(cfg.HistoryDir),
	}

	if err := app.runServer(records); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func initLogger() {
	switch logLevel {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
		if logLevel != "" {
			log.Fatalf("Invalid log level: '%s'.", logLevel)
		}
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	ocr.SetLogLevel(log.GetLevel())
}
