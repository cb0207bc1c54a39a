package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// runServer serves a loaded index snapshot for inspection: exact-match
// search, record listing, run history and the annotated image tree. The
// snapshot is immutable for the lifetime of the server; there are no write
// endpoints.
func (app *App) runServer(records []WordRecord) error {
	router := app.buildRouter(records)
	log.Infof("Server started on %s", app.Config.ListenAddr)
	return router.Run(app.Config.ListenAddr)
}

func (app *App) buildRouter(records []WordRecord) *gin.Engine {
	// Create a Gin router with default middleware (logger and recovery)
	router := gin.Default()

	api := router.Group("/api")
	{
		// http://localhost:8080/api/search?word=Invoice
		api.GET("/search", func(c *gin.Context) {
			word := c.Query("word")
			if word == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'word' query parameter"})
				return
			}
			matches := SearchIndex(records, word)
			c.JSON(http.StatusOK, gin.H{
				"word":    word,
				"count":   len(matches),
				"matches": matches,
			})
		})

		api.GET("/records", func(c *gin.Context) {
			document := c.Query("document")
			if document == "" {
				c.JSON(http.StatusOK, records)
				return
			}
			filtered := []WordRecord{}
			for _, record := range records {
				if record.Document == document {
					filtered = append(filtered, record)
				}
			}
			c.JSON(http.StatusOK, filtered)
		})

		api.GET("/stats", func(c *gin.Context) {
			type pageKey struct {
				document string
				page     int
			}
			documents := map[string]bool{}
			pages := map[pageKey]bool{}
			for _, record := range records {
				documents[record.Document] = true
				pages[pageKey{record.Document, record.Page}] = true
			}
			c.JSON(http.StatusOK, gin.H{
				"words":     len(records),
				"documents": len(documents),
				"pages":     len(pages),
				"index":     app.Config.IndexPath,
			})
		})

		api.GET("/runs", func(c *gin.Context) {
			if app.Database == nil {
				c.JSON(http.StatusOK, []RunRecord{})
				return
			}
			runs, err := GetAllRunRecords(app.Database)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, runs)
		})
	}

	// Serve annotated images and page rasters under /images
	router.StaticFS("/images", gin.Dir(app.Config.OutputDir, true))

	return router
}
