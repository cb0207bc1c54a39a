package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// SearchIndex returns the records whose word equals query exactly, byte for
// byte, preserving the index's original ordering. No case folding, no
// tokenization, no deduplication.
func SearchIndex(records []WordRecord, query string) []WordRecord {
	matches := []WordRecord{}
	for _, record := range records {
		if record.Word == query {
			matches = append(matches, record)
		}
	}
	return matches
}

// SaveResults persists matches with the same schema and write discipline as
// the index snapshot. An empty match set is a valid, empty-array file.
func SaveResults(path string, matches []WordRecord) error {
	return SaveIndex(path, matches)
}

// runSearch is the interactive CLI adapter around the query engine. It keeps
// prompting for a corrected documents directory until one exists; an empty
// answer abandons the search with nothing written.
func runSearch(cfg RunConfig, in io.Reader, out io.Writer, query string) error {
	scanner := bufio.NewScanner(in)

	documentsDir := cfg.DocumentsDir
	for !isDir(documentsDir) {
		fmt.Fprintf(out, "Error: the documents directory %s does not exist.\n", documentsDir)
		answer, ok := promptLine(scanner, out, "Please enter a valid documents directory path: ")
		if !ok || answer == "" {
			fmt.Fprintln(out, "No path provided. Exiting.")
			return nil
		}
		documentsDir = answer
	}

	records, err := LoadIndex(cfg.IndexPath)
	if err != nil {
		return err
	}

	if query == "" {
		answer, _ := promptLine(scanner, out, "Enter the word to search: ")
		query = answer
	}

	matches := SearchIndex(records, query)

	if err := SaveResults(cfg.ResultsPath, matches); err != nil {
		fmt.Fprintf(out, "Error saving results to %s: %v\n", cfg.ResultsPath, err)
		return nil
	}

	if len(matches) > 0 {
		color.New(color.FgGreen).Fprintf(out, "Found %d occurrence(s) of the word '%s'.\n", len(matches), query)
		fmt.Fprintf(out, "Results saved to %s.\n", cfg.ResultsPath)
	} else {
		color.New(color.FgYellow).Fprintf(out, "No matches found for the word '%s'.\n", query)
		fmt.Fprintf(out, "Empty results saved to %s.\n", cfg.ResultsPath)
	}

	return nil
}

func promptLine(scanner *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
