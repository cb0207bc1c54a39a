package ocr

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Word is one recognized word with its normalized geometry.
// Geometry holds corner points in [0,1] page-relative coordinates. Providers
// are configured to export straight (axis-aligned) boxes, so the first point
// is the top-left corner and the opposite corner is bottom-right.
type Word struct {
	Text       string
	Geometry   [][2]float64
	Confidence float64
}

// Line is a line of text in reading order.
type Line struct {
	Words []Word
}

// Block is a layout block (paragraph or column region).
type Block struct {
	Lines []Line
}

// Page is one page of a recognized document.
type Page struct {
	Number int // 1-based
	Blocks []Block
}

// Result holds the output of recognizing a full document.
type Result struct {
	Pages []Page

	// Additional provider-specific metadata
	Metadata map[string]string
}

// Provider defines the interface for OCR processing. The input is the raw
// document content (a PDF byte stream or an encoded image); the result is
// page-ordered with a block -> line -> word hierarchy.
type Provider interface {
	ProcessDocument(ctx context.Context, content []byte) (*Result, error)
}

// Config holds the OCR provider configuration
type Config struct {
	// Provider type (e.g., "google_docai", "doctr")
	Provider string

	// Google Document AI settings
	GoogleProjectID   string
	GoogleLocation    string
	GoogleProcessorID string

	// docTR serving endpoint settings
	DoctrURL     string
	DoctrTimeout int // Optional, defaults to 120 seconds
}

// NewProvider creates a new OCR provider based on configuration
func NewProvider(config Config) (Provider, error) {
	log.Info("Initializing OCR provider: ", config.Provider)

	switch config.Provider {
	case "google_docai":
		if config.GoogleProjectID == "" || config.GoogleLocation == "" || config.GoogleProcessorID == "" {
			return nil, fmt.Errorf("missing required Google Document AI configuration")
		}
		log.WithFields(logrus.Fields{
			"location":     config.GoogleLocation,
			"processor_id": config.GoogleProcessorID,
		}).Info("Using Google Document AI provider")
		return newGoogleDocAIProvider(config)

	case "doctr":
		if config.DoctrURL == "" {
			return nil, fmt.Errorf("missing required docTR configuration (DOCTR_URL)")
		}
		log.WithField("url", config.DoctrURL).Info("Using docTR provider")
		return newDoctrProvider(config)

	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", config.Provider)
	}
}

// SetLogLevel sets the logging level for the OCR package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
