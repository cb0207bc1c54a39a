package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServerSearchEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := &App{Config: RunConfig{OutputDir: t.TempDir(), IndexPath: "word_index.json"}}
	router := app.buildRouter(sampleRecords())

	t.Run("finds exact matches", func(t *testing.T) {
		w := serveRequest(t, router, "/api/search?word=Invoice")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Word    string       `json:"word"`
			Count   int          `json:"count"`
			Matches []WordRecord `json:"matches"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invoice", resp.Word)
		assert.Equal(t, 2, resp.Count)
		require.Len(t, resp.Matches, 2)
		assert.Equal(t, 1, resp.Matches[0].Page)
		assert.Equal(t, 2, resp.Matches[1].Page)
	})

	t.Run("is case sensitive", func(t *testing.T) {
		w := serveRequest(t, router, "/api/search?word=invoice")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count   int          `json:"count"`
			Matches []WordRecord `json:"matches"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
		assert.Empty(t, resp.Matches)
	})

	t.Run("rejects missing word parameter", func(t *testing.T) {
		w := serveRequest(t, router, "/api/search")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServerRecordsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := &App{Config: RunConfig{OutputDir: t.TempDir()}}
	router := app.buildRouter(sampleRecords())

	t.Run("lists all records", func(t *testing.T) {
		w := serveRequest(t, router, "/api/records")
		require.Equal(t, http.StatusOK, w.Code)

		var records []WordRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		assert.Len(t, records, 3)
	})

	t.Run("filters by document", func(t *testing.T) {
		w := serveRequest(t, router, "/api/records?document=scan.png")
		require.Equal(t, http.StatusOK, w.Code)

		var records []WordRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "scan.png", records[0].Document)
	})
}

func TestServerStatsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := &App{Config: RunConfig{OutputDir: t.TempDir(), IndexPath: "word_index.json"}}
	router := app.buildRouter(sampleRecords())

	w := serveRequest(t, router, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Words     int    `json:"words"`
		Documents int    `json:"documents"`
		Pages     int    `json:"pages"`
		Index     string `json:"index"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Words)
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, "word_index.json", stats.Index)
}

func TestServerRunsEndpointWithoutDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := &App{Config: RunConfig{OutputDir: t.TempDir()}}
	router := app.buildRouter(nil)

	w := serveRequest(t, router, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
