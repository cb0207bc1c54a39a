package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// DoctrProvider implements OCR against a docTR serving endpoint. The server
// must run its predictor with straight-box export enabled so that word
// geometries come back as axis-aligned corner points.
type DoctrProvider struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// newDoctrProvider creates a new docTR OCR provider
func newDoctrProvider(config Config) (*DoctrProvider, error) {
	logger := log.WithFields(logrus.Fields{
		"url": config.DoctrURL,
	})
	logger.Info("Creating new docTR provider")

	timeout := config.DoctrTimeout
	if timeout <= 0 {
		timeout = 120
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	client.Logger = logger

	provider := &DoctrProvider{
		baseURL:    config.DoctrURL,
		httpClient: client,
	}

	logger.Info("Successfully initialized docTR provider")
	return provider, nil
}

// ProcessDocument sends the document content to the docTR server for OCR
func (p *DoctrProvider) ProcessDocument(ctx context.Context, content []byte) (*Result, error) {
	logger := log.WithFields(logrus.Fields{
		"provider": "doctr",
		"url":      p.baseURL,
	})
	logger.Debug("Starting docTR processing")

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	part, err := writer.CreateFormFile("files", "document.bin")
	if err != nil {
		logger.WithError(err).Error("Failed to create form file")
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		logger.WithError(err).Error("Failed to copy document content to form")
		return nil, fmt.Errorf("failed to copy document content to form: %w", err)
	}

	// docTR expects boolean fields as strings "true"/"false"
	_ = writer.WriteField("assume_straight_pages", "false")
	_ = writer.WriteField("export_as_straight_boxes", "true")

	if err := writer.Close(); err != nil {
		logger.WithError(err).Error("Failed to close multipart writer")
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	requestURL := p.baseURL + "/ocr"
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", requestURL, &requestBody)
	if err != nil {
		logger.WithError(err).Error("Failed to create HTTP request")
		return nil, fmt.Errorf("error creating docTR request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	logger.Debug("Sending request to docTR server")
	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("Failed to send request to docTR server")
		return nil, fmt.Errorf("error sending request to docTR: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(err).Error("Failed to read docTR response body")
		return nil, fmt.Errorf("error reading docTR response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(respBodyBytes),
		}).Error("Received non-OK status from docTR")
		return nil, fmt.Errorf("docTR API returned status %d: %s", resp.StatusCode, string(respBodyBytes))
	}

	var doctrResp doctrDocumentResponse
	if err := json.Unmarshal(respBodyBytes, &doctrResp); err != nil {
		logger.WithError(err).WithField("response", string(respBodyBytes)).Error("Failed to parse docTR JSON response")
		return nil, fmt.Errorf("error parsing docTR JSON response: %w", err)
	}

	result := doctrResp.toResult()
	result.Metadata = map[string]string{
		"provider":   "doctr",
		"page_count": fmt.Sprintf("%d", len(result.Pages)),
	}

	logger.WithField("page_count", len(result.Pages)).Info("Successfully processed document with docTR")
	return result, nil
}

// doctrDocumentResponse mirrors the JSON export structure of a docTR
// ocr_predictor result: pages -> blocks -> lines -> words.
type doctrDocumentResponse struct {
	Name  string              `json:"name"`
	Pages []doctrPageResponse `json:"pages"`
}

type doctrPageResponse struct {
	PageIdx int                  `json:"page_idx"`
	Blocks  []doctrBlockResponse `json:"blocks"`
}

type doctrBlockResponse struct {
	Lines []doctrLineResponse `json:"lines"`
}

type doctrLineResponse struct {
	Words []doctrWordResponse `json:"words"`
}

type doctrWordResponse struct {
	Value      string       `json:"value"`
	Confidence float64      `json:"confidence"`
	Geometry   [][2]float64 `json:"geometry"`
}

func (r *doctrDocumentResponse) toResult() *Result {
	result := &Result{}
	for i, page := range r.Pages {
		outPage := Page{Number: i + 1}
		for _, block := range page.Blocks {
			outBlock := Block{}
			for _, line := range block.Lines {
				outLine := Line{}
				for _, word := range line.Words {
					if word.Value == "" || len(word.Geometry) < 2 {
						continue
					}
					outLine.Words = append(outLine.Words, Word{
						Text:       word.Value,
						Geometry:   word.Geometry,
						Confidence: word.Confidence,
					})
				}
				if len(outLine.Words) > 0 {
					outBlock.Lines = append(outBlock.Lines, outLine)
				}
			}
			if len(outBlock.Lines) > 0 {
				outPage.Blocks = append(outPage.Blocks, outBlock)
			}
		}
		result.Pages = append(result.Pages, outPage)
	}
	return result
}
