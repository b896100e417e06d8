package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ScrapedRecord is one row of a scraper dump stored as Parquet
type ScrapedRecord struct {
	Text string `parquet:"text" json:"text"`
	URL  string `parquet:"url,optional" json:"url,omitempty"`
}

// Loader reads raw records from a .json, .jsonl or .parquet file
type Loader struct {
	path string
}

// NewLoader creates a new file loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Describe() string {
	return l.path
}

// Records loads every record in the file. Read and parse failures are
// reported as ErrInvalidInput.
func (l *Loader) Records() ([]json.RawMessage, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".json":
		return l.loadJSON()
	case ".jsonl", ".ndjson":
		return l.loadJSONL()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("%w: unsupported file format: %s (supported: .json, .jsonl, .parquet)", ErrInvalidInput, ext)
	}
}

func (l *Loader) loadJSON() ([]json.RawMessage, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read input file: %v", ErrInvalidInput, err)
	}
	return ParseInput(string(data))
}

func (l *Loader) loadJSONL() ([]json.RawMessage, error) {
	slog.Debug("Opening JSONL file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open input file: %v", ErrInvalidInput, err)
	}
	defer file.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(file)

	// Scraped pages can produce very long lines
	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !json.Valid([]byte(line)) {
			return nil, fmt.Errorf("%w: invalid JSON at line %d", ErrInvalidInput, lineNum)
		}
		records = append(records, json.RawMessage(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: error reading input: %v", ErrInvalidInput, err)
	}

	slog.Debug("Finished reading JSONL file", "records", len(records), "lines", lineNum)
	return records, nil
}

func (l *Loader) loadParquet() ([]json.RawMessage, error) {
	slog.Debug("Opening Parquet file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open parquet file: %v", ErrInvalidInput, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat file: %v", ErrInvalidInput, err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open parquet: %v", ErrInvalidInput, err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[ScrapedRecord](pf)
	defer reader.Close()

	var records []json.RawMessage
	rows := make([]ScrapedRecord, 128)

	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			raw, mErr := json.Marshal(row)
			if mErr != nil {
				return nil, fmt.Errorf("%w: failed to encode parquet row: %v", ErrInvalidInput, mErr)
			}
			records = append(records, raw)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read parquet rows: %v", ErrInvalidInput, err)
		}
	}

	slog.Debug("Finished reading Parquet file", "records", len(records))
	return records, nil
}
