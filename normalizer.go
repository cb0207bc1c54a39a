package main

import (
	"fmt"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
)

// scanDocuments enumerates the corpus folder and returns document handles:
// PDFs and images discovered directly, in name order, followed by
// word-processor documents converted to PDF, in conversion order. Converted
// PDFs land in workDir. Per-document conversion failures come back as skipped
// outcomes; only a missing corpus folder is an error.
func scanDocuments(cfg RunConfig, workDir string) ([]DocumentSource, []DocumentOutcome, error) {
	info, err := os.Stat(cfg.DocumentsDir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		return nil, nil, &ConfigurationError{Path: cfg.DocumentsDir, Err: err}
	}

	entries, err := os.ReadDir(cfg.DocumentsDir)
	if err != nil {
		return nil, nil, &ConfigurationError{Path: cfg.DocumentsDir, Err: err}
	}

	var sources []DocumentSource
	var skipped []DocumentOutcome
	var pending []string // word-processor documents awaiting conversion

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(cfg.DocumentsDir, entry.Name())

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".jpg", ".jpeg", ".png":
			if err := verifyContentType(path); err != nil {
				log.WithField("document", entry.Name()).WithError(err).Warn("Skipping file with mismatched content")
				skipped = append(skipped, DocumentOutcome{
					Document: entry.Name(),
					Err:      &ConversionError{Document: entry.Name(), Err: err},
				})
				continue
			}
			sources = append(sources, DocumentSource{Name: entry.Name(), Path: path})
		case ".docx":
			pending = append(pending, path)
		}
	}

	for _, docPath := range pending {
		name := filepath.Base(docPath)
		pdfPath, err := convertDocument(cfg.SofficePath, docPath, workDir)
		if err != nil {
			convErr := &ConversionError{Document: name, Err: err}
			log.WithField("document", name).WithError(err).Error("Conversion failed, skipping document")
			skipped = append(skipped, DocumentOutcome{Document: name, Err: convErr})
			continue
		}
		log.WithFields(logrus.Fields{
			"document": name,
			"pdf":      pdfPath,
		}).Info("Converted document to PDF")
		sources = append(sources, DocumentSource{Name: name, Path: pdfPath, Converted: true})
	}

	return sources, skipped, nil
}

// verifyContentType sniffs a direct input and rejects files whose content
// does not match a supported format.
func verifyContentType(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detecting content type: %w", err)
	}
	if mtype.Is("application/pdf") || strings.HasPrefix(mtype.String(), "image/") {
		return nil
	}
	return fmt.Errorf("unsupported content type %s", mtype.String())
}

// convertDocument invokes the external converter to produce a same-named PDF
// in outDir and validates the result before handing it on.
func convertDocument(sofficePath, docPath, outDir string) (string, error) {
	cmd := exec.Command(sofficePath, "--headless", "--convert-to", "pdf", docPath, "--outdir", outDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("converter invocation failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	base := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("converter produced no output: %w", err)
	}

	if err := api.ValidateFile(pdfPath, nil); err != nil {
		return "", fmt.Errorf("converted PDF failed validation: %w", err)
	}

	return pdfPath, nil
}

// pageRasterizer resolves a document source to page image artifacts, one page
// at a time. PDF pages render lazily into the per-document artifact
// directory; an image source is its own single page.
type pageRasterizer struct {
	source DocumentSource
	dir    string
	doc    *fitz.Document
}

// openRasterizer prepares the per-document artifact directory and, for PDF
// sources, opens the document for rendering.
func openRasterizer(source DocumentSource, outputDir string) (*pageRasterizer, error) {
	dir := filepath.Join(outputDir, source.DirName())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}

	r := &pageRasterizer{source: source, dir: dir}
	if !source.IsImage() {
		doc, err := fitz.New(source.Path)
		if err != nil {
			return nil, &ConversionError{Document: source.Name, Err: err}
		}
		r.doc = doc
	}
	return r, nil
}

// Dir returns the per-document artifact directory.
func (r *pageRasterizer) Dir() string { return r.dir }

// PageCount returns the number of renderable pages, 1 for image sources.
func (r *pageRasterizer) PageCount() int {
	if r.doc == nil {
		return 1
	}
	return r.doc.NumPage()
}

// PageImage returns the raster artifact for the given 1-based page, rendering
// it on first use for PDF sources.
func (r *pageRasterizer) PageImage(page int) (string, error) {
	if r.doc == nil {
		if page != 1 {
			return "", &ConversionError{Document: r.source.Name, Page: page, Err: fmt.Errorf("image source has a single page")}
		}
		return r.source.Path, nil
	}

	imagePath := filepath.Join(r.dir, fmt.Sprintf("%s_page_%d.jpg", r.source.DirName(), page))
	if _, err := os.Stat(imagePath); err == nil {
		return imagePath, nil
	}

	img, err := r.doc.Image(page - 1)
	if err != nil {
		return "", &ConversionError{Document: r.source.Name, Page: page, Err: err}
	}

	f, err := os.Create(imagePath)
	if err != nil {
		return "", &ConversionError{Document: r.source.Name, Page: page, Err: err}
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
		f.Close()
		return "", &ConversionError{Document: r.source.Name, Page: page, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &ConversionError{Document: r.source.Name, Page: page, Err: err}
	}

	return imagePath, nil
}

// Close releases the underlying PDF document, if any.
func (r *pageRasterizer) Close() error {
	if r.doc != nil {
		return r.doc.Close()
	}
	return nil
}
