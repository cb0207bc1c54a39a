package ocr

import (
	"context"
	"fmt"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GoogleDocAIProvider implements OCR using Google Document AI
type GoogleDocAIProvider struct {
	projectID   string
	location    string
	processorID string
	client      *documentai.DocumentProcessorClient
}

func newGoogleDocAIProvider(config Config) (*GoogleDocAIProvider, error) {
	logger := log.WithFields(logrus.Fields{
		"location":     config.GoogleLocation,
		"processor_id": config.GoogleProcessorID,
	})
	logger.Info("Creating new Google Document AI provider")

	ctx := context.Background()
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.GoogleLocation)

	client, err := documentai.NewDocumentProcessorClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		logger.WithError(err).Error("Failed to create Document AI client")
		return nil, fmt.Errorf("error creating Document AI client: %w", err)
	}

	provider := &GoogleDocAIProvider{
		projectID:   config.GoogleProjectID,
		location:    config.GoogleLocation,
		processorID: config.GoogleProcessorID,
		client:      client,
	}

	logger.Info("Successfully initialized Google Document AI provider")
	return provider, nil
}

func (p *GoogleDocAIProvider) ProcessDocument(ctx context.Context, content []byte) (*Result, error) {
	logger := log.WithFields(logrus.Fields{
		"project_id":   p.projectID,
		"location":     p.location,
		"processor_id": p.processorID,
	})
	logger.Debug("Starting Document AI processing")

	mtype := mimetype.Detect(content)
	logger.WithField("mime_type", mtype.String()).Debug("Detected file type")

	if !isSupportedMIMEType(mtype.String()) {
		logger.WithField("mime_type", mtype.String()).Error("Unsupported file type")
		return nil, fmt.Errorf("unsupported file type: %s", mtype.String())
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", p.projectID, p.location, p.processorID)

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mtype.String(),
			},
		},
	}

	logger.Debug("Sending request to Document AI")
	resp, err := p.client.ProcessDocument(ctx, req)
	if err != nil {
		logger.WithError(err).Error("Failed to process document")
		return nil, fmt.Errorf("error processing document: %w", err)
	}

	if resp == nil || resp.Document == nil {
		logger.Error("Received nil response or document from Document AI")
		return nil, fmt.Errorf("received nil response or document from Document AI")
	}

	if resp.Document.Error != nil {
		logger.WithField("error", resp.Document.Error.Message).Error("Document processing error")
		return nil, fmt.Errorf("document processing error: %s", resp.Document.Error.Message)
	}

	result := docaiToResult(resp.Document)
	result.Metadata = map[string]string{
		"provider":     "google_docai",
		"mime_type":    mtype.String(),
		"page_count":   fmt.Sprintf("%d", len(result.Pages)),
		"processor_id": p.processorID,
	}

	if pages := resp.Document.GetPages(); len(pages) > 0 {
		if langs := pages[0].GetDetectedLanguages(); len(langs) > 0 {
			result.Metadata["lang_code"] = langs[0].GetLanguageCode()
		}
	}

	logger.WithField("page_count", len(result.Pages)).Info("Successfully processed document")
	return result, nil
}

// isSupportedMIMEType checks if the given MIME type can be sent to Document AI
func isSupportedMIMEType(mimeType string) bool {
	supportedTypes := map[string]bool{
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
		"image/tiff":      true,
		"image/bmp":       true,
		"application/pdf": true,
	}
	return supportedTypes[mimeType]
}

// docaiToResult flattens a Document AI response into the page/block/line/word
// hierarchy. Tokens are assigned to lines (and lines to blocks) by text anchor
// containment, which preserves the reading order Document AI reports.
func docaiToResult(doc *documentaipb.Document) *Result {
	result := &Result{}

	for pageIdx, page := range doc.GetPages() {
		outPage := Page{Number: pageIdx + 1}

		lines := page.GetLines()
		tokens := page.GetTokens()

		buildLine := func(line *documentaipb.Document_Page_Line) Line {
			outLine := Line{}
			for _, token := range tokens {
				if !anchorWithin(token.GetLayout(), line.GetLayout()) {
					continue
				}
				text := strings.TrimSpace(anchorText(doc.GetText(), token.GetLayout()))
				geom := normalizedGeometry(token.GetLayout())
				if text == "" || len(geom) < 2 {
					continue
				}
				outLine.Words = append(outLine.Words, Word{
					Text:       text,
					Geometry:   geom,
					Confidence: float64(token.GetLayout().GetConfidence()),
				})
			}
			return outLine
		}

		blocks := page.GetBlocks()
		if len(blocks) == 0 {
			// Some processors omit blocks; treat the page as one block.
			outBlock := Block{}
			for _, line := range lines {
				if l := buildLine(line); len(l.Words) > 0 {
					outBlock.Lines = append(outBlock.Lines, l)
				}
			}
			if len(outBlock.Lines) > 0 {
				outPage.Blocks = append(outPage.Blocks, outBlock)
			}
		} else {
			for _, block := range blocks {
				outBlock := Block{}
				for _, line := range lines {
					if !anchorWithin(line.GetLayout(), block.GetLayout()) {
						continue
					}
					if l := buildLine(line); len(l.Words) > 0 {
						outBlock.Lines = append(outBlock.Lines, l)
					}
				}
				if len(outBlock.Lines) > 0 {
					outPage.Blocks = append(outPage.Blocks, outBlock)
				}
			}
		}

		result.Pages = append(result.Pages, outPage)
	}

	return result
}

// anchorSpan returns the text segment range covered by a layout.
func anchorSpan(layout *documentaipb.Document_Page_Layout) (int64, int64, bool) {
	if layout == nil || layout.GetTextAnchor() == nil || len(layout.GetTextAnchor().GetTextSegments()) == 0 {
		return 0, 0, false
	}
	segments := layout.GetTextAnchor().GetTextSegments()
	return segments[0].GetStartIndex(), segments[len(segments)-1].GetEndIndex(), true
}

// anchorWithin reports whether the inner layout's text range is contained in
// the outer layout's text range.
func anchorWithin(inner, outer *documentaipb.Document_Page_Layout) bool {
	innerStart, innerEnd, ok := anchorSpan(inner)
	if !ok {
		return false
	}
	outerStart, outerEnd, ok := anchorSpan(outer)
	if !ok {
		return false
	}
	return innerStart >= outerStart && innerEnd <= outerEnd
}

// anchorText extracts the document text covered by a layout's text anchor.
func anchorText(fullText string, layout *documentaipb.Document_Page_Layout) string {
	if layout == nil || layout.GetTextAnchor() == nil {
		return ""
	}
	var sb strings.Builder
	for _, segment := range layout.GetTextAnchor().GetTextSegments() {
		start, end := segment.GetStartIndex(), segment.GetEndIndex()
		if start < 0 || end > int64(len(fullText)) || start > end {
			continue
		}
		sb.WriteString(fullText[start:end])
	}
	return sb.String()
}

// normalizedGeometry converts a layout's normalized vertices to corner points.
func normalizedGeometry(layout *documentaipb.Document_Page_Layout) [][2]float64 {
	if layout == nil || layout.GetBoundingPoly() == nil {
		return nil
	}
	vertices := layout.GetBoundingPoly().GetNormalizedVertices()
	geometry := make([][2]float64, 0, len(vertices))
	for _, v := range vertices {
		geometry = append(geometry, [2]float64{float64(v.GetX()), float64(v.GetY())})
	}
	return geometry
}

// Close releases resources used by the provider
func (p *GoogleDocAIProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
