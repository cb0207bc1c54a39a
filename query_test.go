package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchIndex(t *testing.T) {
	records := []WordRecord{
		{Document: "invoice.pdf", Page: 1, Word: "Invoice", BoundingBox: BoundingBox{0.1, 0.1, 0.3, 0.15}},
		{Document: "invoice.pdf", Page: 1, Word: "Total", BoundingBox: BoundingBox{0.4, 0.1, 0.5, 0.15}},
		{Document: "invoice.pdf", Page: 3, Word: "Invoice", BoundingBox: BoundingBox{0.2, 0.2, 0.4, 0.25}},
	}

	t.Run("word present twice returns both with correct pages", func(t *testing.T) {
		matches := SearchIndex(records, "Invoice")
		require.Len(t, matches, 2)
		assert.Equal(t, 1, matches[0].Page)
		assert.Equal(t, 3, matches[1].Page)
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		assert.Empty(t, SearchIndex(records, "invoice"))
	})

	t.Run("absent token returns empty, not nil error", func(t *testing.T) {
		matches := SearchIndex(records, "Receipt")
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})

	t.Run("ordering follows the index", func(t *testing.T) {
		all := append(records, WordRecord{Document: "scan.png", Page: 1, Word: "Invoice"})
		matches := SearchIndex(all, "Invoice")
		require.Len(t, matches, 3)
		assert.Equal(t, "scan.png", matches[2].Document)
	})
}

func searchConfig(t *testing.T, records []WordRecord) RunConfig {
	t.Helper()
	dir := t.TempDir()

	docsDir := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0755))

	indexPath := filepath.Join(dir, "word_index.json")
	require.NoError(t, SaveIndex(indexPath, records))

	return RunConfig{
		DocumentsDir: docsDir,
		IndexPath:    indexPath,
		ResultsPath:  filepath.Join(dir, "search_results.json"),
	}
}

func TestRunSearchWritesMatches(t *testing.T) {
	cfg := searchConfig(t, []WordRecord{
		{Document: "invoice.pdf", Page: 1, Word: "Invoice", BoundingBox: BoundingBox{0.1, 0.1, 0.3, 0.15}},
		{Document: "invoice.pdf", Page: 2, Word: "Invoice", BoundingBox: BoundingBox{0.2, 0.3, 0.4, 0.35}},
	})

	var out bytes.Buffer
	err := runSearch(cfg, strings.NewReader(""), &out, "Invoice")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Found 2 occurrence(s) of the word 'Invoice'")

	results, err := LoadIndex(cfg.ResultsPath)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Page)
	assert.Equal(t, 2, results[1].Page)
}

func TestRunSearchNoMatchesWritesEmptyArray(t *testing.T) {
	cfg := searchConfig(t, sampleRecords())

	var out bytes.Buffer
	err := runSearch(cfg, strings.NewReader(""), &out, "Receipt")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "No matches found for the word 'Receipt'")
	assert.Contains(t, out.String(), "Empty results saved to")

	data, err := os.ReadFile(cfg.ResultsPath)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRunSearchPromptsForWord(t *testing.T) {
	cfg := searchConfig(t, sampleRecords())

	var out bytes.Buffer
	err := runSearch(cfg, strings.NewReader("Total\n"), &out, "")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Enter the word to search")
	assert.Contains(t, out.String(), "Found 1 occurrence(s) of the word 'Total'")
}

func TestRunSearchRepromptsForDocumentsDir(t *testing.T) {
	cfg := searchConfig(t, sampleRecords())
	goodDir := cfg.DocumentsDir
	cfg.DocumentsDir = filepath.Join(goodDir, "missing")

	input := strings.NewReader(goodDir + "\nTotal\n")
	var out bytes.Buffer
	err := runSearch(cfg, input, &out, "")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "does not exist")
	assert.Contains(t, out.String(), "Found 1 occurrence(s) of the word 'Total'")
}

func TestRunSearchAbandonedPromptWritesNothing(t *testing.T) {
	cfg := searchConfig(t, sampleRecords())
	cfg.DocumentsDir = filepath.Join(cfg.DocumentsDir, "missing")

	var out bytes.Buffer
	err := runSearch(cfg, strings.NewReader("\n"), &out, "Invoice")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "No path provided. Exiting.")
	_, statErr := os.Stat(cfg.ResultsPath)
	assert.True(t, os.IsNotExist(statErr), "no result file may be written on abandonment")
}

func TestRunSearchMissingIndexFails(t *testing.T) {
	cfg := searchConfig(t, sampleRecords())
	cfg.IndexPath = filepath.Join(filepath.Dir(cfg.IndexPath), "nope.json")

	var out bytes.Buffer
	err := runSearch(cfg, strings.NewReader(""), &out, "Invoice")
	require.Error(t, err)

	var dataErr *DataError
	assert.ErrorAs(t, err, &dataErr)
	_, statErr := os.Stat(cfg.ResultsPath)
	assert.True(t, os.IsNotExist(statErr))
}
