package main

import (
	"path/filepath"
	"strings"
	"time"
)

// BoundingBox is a word's normalized geometry in reading order:
// x_min, y_min, x_max, y_max, each in [0,1] relative to page dimensions.
// It marshals as a JSON array of 4 floats.
type BoundingBox [4]float64

func (b BoundingBox) XMin() float64 { return b[0] }
func (b BoundingBox) YMin() float64 { return b[1] }
func (b BoundingBox) XMax() float64 { return b[2] }
func (b BoundingBox) YMax() float64 { return b[3] }

// Valid reports whether the box satisfies 0 <= min <= max <= 1 on both axes.
func (b BoundingBox) Valid() bool {
	return b[0] >= 0 && b[0] <= b[2] && b[2] <= 1 &&
		b[1] >= 0 && b[1] <= b[3] && b[3] <= 1
}

// WordRecord is one OCR-detected word instance in the index.
type WordRecord struct {
	Document    string      `json:"document"`
	Page        int         `json:"page"` // 1-based
	Word        string      `json:"word"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// DocumentSource is a handle to one input document resolvable to page images.
type DocumentSource struct {
	// Name identifies the document in the index: the original file's
	// basename with its extension retained.
	Name string

	// Path is the file fed to the OCR collaborator, either the original
	// file or the PDF a word-processor document was converted to.
	Path string

	// Converted is true when Path is a converted artifact in the run's
	// working directory rather than the original file.
	Converted bool
}

// IsImage reports whether the source is a single-page image input.
func (s DocumentSource) IsImage() bool {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// DirName returns the per-document artifact directory name, the document
// name with dots replaced so it is safe as a folder name.
func (s DocumentSource) DirName() string {
	return strings.ReplaceAll(s.Name, ".", "_")
}

// DocumentOutcome is the per-document result of a pipeline run. A non-nil
// Err means the document was skipped and contributed no records.
type DocumentOutcome struct {
	Document string
	Pages    int
	Words    int
	Err      error
}

// Skipped reports whether the document was dropped from the run.
func (o DocumentOutcome) Skipped() bool { return o.Err != nil }

// RunSummary describes one full pipeline run.
type RunSummary struct {
	Started   time.Time
	Finished  time.Time
	Outcomes  []DocumentOutcome
	Records   int
	IndexPath string
}

// Processed returns the number of documents that produced records.
func (s *RunSummary) Processed() int {
	count := 0
	for _, o := range s.Outcomes {
		if !o.Skipped() {
			count++
		}
	}
	return count
}

// SkippedCount returns the number of documents dropped from the run.
func (s *RunSummary) SkippedCount() int {
	return len(s.Outcomes) - s.Processed()
}

// Pages returns the total number of pages indexed.
func (s *RunSummary) Pages() int {
	pages := 0
	for _, o := range s.Outcomes {
		pages += o.Pages
	}
	return pages
}
