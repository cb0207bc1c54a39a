package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"docindex/ocr"
)

// App holds the dependencies of one invocation.
type App struct {
	Config   RunConfig
	Provider ocr.Provider
	Database *gorm.DB
	Limiter  *rate.Limiter
}

// RunIndex executes one full pipeline run: normalize every input document,
// OCR it, record word geometry, render annotations and flush the index
// snapshot exactly once at the end. Per-document failures are contained in
// outcomes; only a bad corpus folder or a failed snapshot write are errors.
func (app *App) RunIndex(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{Started: time.Now()}

	workDir := filepath.Join(os.TempDir(), "docindex-"+uuid.New().String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("creating working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.WithError(err).WithField("dir", workDir).Warn("Failed to remove working directory")
		}
	}()

	sources, skipped, err := scanDocuments(app.Config, workDir)
	if err != nil {
		return nil, err
	}
	summary.Outcomes = append(summary.Outcomes, skipped...)

	if err := os.MkdirAll(app.Config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var records []WordRecord
	for i, source := range sources {
		log.WithFields(logrus.Fields{
			"document": source.Name,
			"progress": fmt.Sprintf("%d/%d", i+1, len(sources)),
		}).Info("Processing document")

		docRecords, outcome := app.processDocument(ctx, source)
		records = append(records, docRecords...)
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	if err := SaveIndex(app.Config.IndexPath, records); err != nil {
		return nil, fmt.Errorf("writing index snapshot: %w", err)
	}

	summary.Records = len(records)
	summary.IndexPath = app.Config.IndexPath
	summary.Finished = time.Now()

	if app.Database != nil {
		if err := InsertRunRecord(app.Database, NewRunRecord(summary)); err != nil {
			log.WithError(err).Error("Failed to record run history")
		}
	}

	log.WithFields(logrus.Fields{
		"documents": summary.Processed(),
		"skipped":   summary.SkippedCount(),
		"pages":     summary.Pages(),
		"words":     summary.Records,
		"index":     summary.IndexPath,
		"images":    app.Config.OutputDir,
	}).Info("Pipeline run complete")

	return summary, nil
}

// processDocument runs OCR for one document and flattens, annotates and
// counts its pages. A failure before recognition completes skips the whole
// document; annotation failures only cost the annotated copy.
func (app *App) processDocument(ctx context.Context, source DocumentSource) ([]WordRecord, DocumentOutcome) {
	docLogger := log.WithField("document", source.Name)

	content, err := os.ReadFile(source.Path)
	if err != nil {
		recErr := &RecognitionError{Document: source.Name, Err: err}
		docLogger.WithError(err).Error("Failed to read document, skipping")
		return nil, DocumentOutcome{Document: source.Name, Err: recErr}
	}

	if app.Limiter != nil {
		if err := app.Limiter.Wait(ctx); err != nil {
			recErr := &RecognitionError{Document: source.Name, Err: err}
			docLogger.WithError(err).Error("Rate limiter interrupted, skipping document")
			return nil, DocumentOutcome{Document: source.Name, Err: recErr}
		}
	}

	result, err := app.Provider.ProcessDocument(ctx, content)
	if err != nil {
		recErr := &RecognitionError{Document: source.Name, Err: err}
		docLogger.WithError(err).Error("OCR failed, skipping document")
		return nil, DocumentOutcome{Document: source.Name, Err: recErr}
	}
	docLogger.WithField("pages", len(result.Pages)).Info("OCR completed")

	// Annotation is a debugging aid: a rasterizer that will not open costs
	// the annotated copies, never the records.
	rasterizer, err := openRasterizer(source, app.Config.OutputDir)
	if err != nil {
		docLogger.WithError(err).Error("Page rasterization unavailable, indexing without annotations")
		rasterizer = nil
	} else {
		defer rasterizer.Close()
	}

	var records []WordRecord
	for i, page := range result.Pages {
		pageLogger := docLogger.WithFields(logrus.Fields{
			"page":     page.Number,
			"progress": fmt.Sprintf("%d/%d", i+1, len(result.Pages)),
		})

		pageRecords := flattenPage(source.Name, page)
		records = append(records, pageRecords...)
		pageLogger.WithField("words", len(pageRecords)).Info("Recorded page")

		if rasterizer == nil {
			continue
		}
		imagePath, err := rasterizer.PageImage(page.Number)
		if err != nil {
			pageLogger.WithError(err).Error("Page rasterization failed, skipping annotation")
			continue
		}
		annotatedPath, err := annotatePage(imagePath, rasterizer.Dir(), source.DirName(), page.Number, pageRecords)
		if err != nil {
			renderErr := &RenderError{Document: source.Name, Page: page.Number, Err: err}
			pageLogger.WithError(renderErr).Error("Annotation failed")
			continue
		}
		pageLogger.WithField("annotated", annotatedPath).Debug("Saved annotated image")
	}

	return records, DocumentOutcome{
		Document: source.Name,
		Pages:    len(result.Pages),
		Words:    len(records),
	}
}
