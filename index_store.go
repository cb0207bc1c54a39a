package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveIndex writes the full record sequence as a JSON snapshot, replacing any
// prior file. The write goes to a temp file in the target directory first and
// is renamed into place, so readers never observe a torn snapshot.
func SaveIndex(path string, records []WordRecord) error {
	if records == nil {
		records = []WordRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling index: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating index directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing index to %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp index file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing index at %s: %w", path, err)
	}
	return nil
}

// LoadIndex parses a snapshot back into the ordered record sequence. Missing
// or malformed files surface as a DataError so callers can stop the dependent
// operation without taking the process down.
func LoadIndex(path string) ([]WordRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}

	var records []WordRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &DataError{Path: path, Err: fmt.Errorf("malformed index: %w", err)}
	}
	return records, nil
}
