package main

import "fmt"

// ConfigurationError reports an invalid or missing input directory or other
// boundary misconfiguration. It is fatal to the invoking command.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ConversionError reports a failed format conversion or page rasterization
// for a single document. The document (or page) is skipped, the run continues.
type ConversionError struct {
	Document string
	Page     int // 0 when the whole document failed
	Err      error
}

func (e *ConversionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("conversion failed for %s page %d: %v", e.Document, e.Page, e.Err)
	}
	return fmt.Sprintf("conversion failed for %s: %v", e.Document, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// RecognitionError reports a failed OCR invocation. The document is skipped
// entirely, the run continues.
type RecognitionError struct {
	Document string
	Err      error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognition failed for %s: %v", e.Document, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// RenderError reports a failed annotation drawing or save for one page.
// Indexing for the page proceeds unaffected.
type RenderError struct {
	Document string
	Page     int
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("annotation failed for %s page %d: %v", e.Document, e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// DataError reports a missing or unparsable index file at load time. It is
// terminal for the operation that needed the index, not for the process.
type DataError struct {
	Path string
	Err  error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("index data at %s: %v", e.Path, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }
