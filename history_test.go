package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHistoryRoundTrip(t *testing.T) {
	db := InitializeDB(t.TempDir())

	started := time.Now().Add(-time.Minute)
	summary := &RunSummary{
		Started:  started,
		Finished: time.Now(),
		Outcomes: []DocumentOutcome{
			{Document: "a.pdf", Pages: 3, Words: 120},
			{Document: "b.docx", Err: assert.AnError},
		},
		Records:   120,
		IndexPath: "word_index.json",
	}

	require.NoError(t, InsertRunRecord(db, NewRunRecord(summary)))

	records, err := GetAllRunRecords(db)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, started.Unix(), record.StartedAt)
	assert.Equal(t, 1, record.DocumentsIndexed)
	assert.Equal(t, 1, record.DocumentsSkipped)
	assert.Equal(t, 3, record.Pages)
	assert.Equal(t, 120, record.Words)
	assert.Equal(t, "word_index.json", record.IndexPath)
}

func TestRunHistoryNewestFirst(t *testing.T) {
	db := InitializeDB(t.TempDir())

	older := &RunSummary{Started: time.Now().Add(-time.Hour), Finished: time.Now().Add(-time.Hour), IndexPath: "old.json"}
	newer := &RunSummary{Started: time.Now(), Finished: time.Now(), IndexPath: "new.json"}

	require.NoError(t, InsertRunRecord(db, NewRunRecord(older)))
	require.NoError(t, InsertRunRecord(db, NewRunRecord(newer)))

	records, err := GetAllRunRecords(db)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new.json", records[0].IndexPath)
	assert.Equal(t, "old.json", records[1].IndexPath)
}
