package main

import (
	"github.com/sirupsen/logrus"

	"docindex/ocr"
)

// flattenResult turns one document's OCR result into WordRecords, iterating
// pages, blocks, lines and words in the order the OCR collaborator supplied
// them. Words with degenerate geometry are dropped with a warning.
func flattenResult(document string, result *ocr.Result) []WordRecord {
	var records []WordRecord
	for _, page := range result.Pages {
		records = append(records, flattenPage(document, page)...)
	}
	return records
}

// flattenPage flattens a single OCR page into WordRecords.
func flattenPage(document string, page ocr.Page) []WordRecord {
	var records []WordRecord
	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			for _, word := range line.Words {
				box, ok := reduceGeometry(word.Geometry)
				if !ok {
					log.WithFields(logrus.Fields{
						"document": document,
						"page":     page.Number,
						"word":     word.Text,
					}).Warn("Dropping word with degenerate geometry")
					continue
				}
				records = append(records, WordRecord{
					Document:    document,
					Page:        page.Number,
					Word:        word.Text,
					BoundingBox: box,
				})
			}
		}
	}
	return records
}

// reduceGeometry reduces a word's corner points to (x_min, y_min) and
// (x_max, y_max), clamped into [0,1]. Only the top-left and bottom-right
// corners of the reported geometry are used; the OCR collaborator is
// configured to export straight boxes, and this does not re-derive rotation.
func reduceGeometry(geometry [][2]float64) (BoundingBox, bool) {
	if len(geometry) < 2 {
		return BoundingBox{}, false
	}

	topLeft := geometry[0]
	bottomRight := geometry[1]
	if len(geometry) >= 4 {
		// Four-corner polygons list corners clockwise from top-left.
		bottomRight = geometry[2]
	}

	return BoundingBox{
		clamp01(topLeft[0]),
		clamp01(topLeft[1]),
		clamp01(bottomRight[0]),
		clamp01(bottomRight[1]),
	}, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
