package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

var annotationColor = color.NRGBA{B: 255, A: 255}

const annotationWidth = 2

// annotatePage draws one rectangle per word onto a copy of the page image and
// saves it next to the page raster. Records hold normalized coordinates, so
// each box is scaled by the image's pixel dimensions before drawing.
func annotatePage(imagePath, outDir, dirName string, page int, records []WordRecord) (string, error) {
	src, err := imaging.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("opening page image %s: %w", imagePath, err)
	}

	img := imaging.Clone(src)
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	for _, record := range records {
		box := record.BoundingBox
		xMin := int(box.XMin() * float64(width))
		yMin := int(box.YMin() * float64(height))
		xMax := int(box.XMax() * float64(width))
		yMax := int(box.YMax() * float64(height))
		drawRectOutline(img, xMin, yMin, xMax, yMax)

		log.WithFields(logrus.Fields{
			"word": record.Word,
			"box":  record.BoundingBox,
			"page": page,
		}).Debug("Drew bounding box")
	}

	outPath := filepath.Join(outDir, fmt.Sprintf("annotated_%s_page_%d.jpg", dirName, page))
	if err := imaging.Save(img, outPath); err != nil {
		return "", fmt.Errorf("saving annotated image %s: %w", outPath, err)
	}
	return outPath, nil
}

// drawRectOutline draws an axis-aligned rectangle outline clipped to the
// image bounds.
func drawRectOutline(img *image.NRGBA, x0, y0, x1, y1 int) {
	for t := 0; t < annotationWidth; t++ {
		drawHLine(img, x0, x1, y0+t)
		drawHLine(img, x0, x1, y1-t)
		drawVLine(img, x0+t, y0, y1)
		drawVLine(img, x1-t, y0, y1)
	}
}

func drawHLine(img *image.NRGBA, x0, x1, y int) {
	if y < img.Bounds().Min.Y || y >= img.Bounds().Max.Y {
		return
	}
	for x := max(x0, img.Bounds().Min.X); x <= min(x1, img.Bounds().Max.X-1); x++ {
		img.SetNRGBA(x, y, annotationColor)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int) {
	if x < img.Bounds().Min.X || x >= img.Bounds().Max.X {
		return
	}
	for y := max(y0, img.Bounds().Min.Y); y <= min(y1, img.Bounds().Max.Y-1); y++ {
		img.SetNRGBA(x, y, annotationColor)
	}
}
