package main

import (
	"os"
	"strconv"

	"docindex/internal/constants"
	"docindex/ocr"
)

// RunConfig carries everything a command needs, collected once from the
// environment at the boundary so the pipeline itself stays free of ambient
// state and interactive I/O.
type RunConfig struct {
	// DocumentsDir is the input corpus folder.
	DocumentsDir string

	// IndexPath is where the word index snapshot is written and read.
	IndexPath string

	// ResultsPath is where search results are written.
	ResultsPath string

	// OutputDir is the root for per-document page rasters and annotated
	// images.
	OutputDir string

	// HistoryDir holds the sqlite run-history database.
	HistoryDir string

	// SofficePath is the LibreOffice binary used for DOCX conversion.
	SofficePath string

	// ListenAddr is the inspection server's bind address.
	ListenAddr string

	// OCRRateLimit caps OCR collaborator calls per second.
	OCRRateLimit float64

	// OCR selects and configures the OCR collaborator.
	OCR ocr.Config
}

// loadRunConfig reads the configuration from environment variables, applying
// defaults for everything that has one. Required values are checked by the
// command that needs them.
func loadRunConfig() RunConfig {
	cfg := RunConfig{
		DocumentsDir: os.Getenv("DOCUMENTS_DIR"),
		IndexPath:    envOrDefault("INDEX_PATH", constants.DefaultIndexFile),
		ResultsPath:  envOrDefault("RESULTS_PATH", constants.DefaultResultsFile),
		OutputDir:    envOrDefault("OUTPUT_DIR", constants.DefaultOutputDir),
		HistoryDir:   envOrDefault("HISTORY_DIR", constants.DefaultHistoryDir),
		SofficePath:  envOrDefault("SOFFICE_PATH", constants.DefaultSoffice),
		ListenAddr:   envOrDefault("LISTEN_ADDR", constants.DefaultListenAddr),
		OCRRateLimit: 1,
		OCR: ocr.Config{
			Provider:          os.Getenv("OCR_PROVIDER"),
			GoogleProjectID:   os.Getenv("GOOGLE_PROJECT_ID"),
			GoogleLocation:    os.Getenv("GOOGLE_LOCATION"),
			GoogleProcessorID: os.Getenv("GOOGLE_PROCESSOR_ID"),
			DoctrURL:          os.Getenv("DOCTR_URL"),
		},
	}

	if v := os.Getenv("OCR_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit <= 0 {
			log.Fatalf("Invalid OCR_RATE_LIMIT: '%s'.", v)
		}
		cfg.OCRRateLimit = limit
	}

	if v := os.Getenv("DOCTR_TIMEOUT"); v != "" {
		timeout, err := strconv.Atoi(v)
		if err != nil || timeout <= 0 {
			log.Fatalf("Invalid DOCTR_TIMEOUT: '%s'.", v)
		}
		cfg.OCR.DoctrTimeout = timeout
	}

	return cfg
}

// validateIndexConfig ensures everything the index command needs is set.
func validateIndexConfig(cfg RunConfig) {
	if cfg.DocumentsDir == "" {
		log.Fatal("Please set the DOCUMENTS_DIR environment variable.")
	}
	if cfg.OCR.Provider == "" {
		log.Fatal("Please set the OCR_PROVIDER environment variable to 'google_docai' or 'doctr'.")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
