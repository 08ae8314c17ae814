// Package export writes batch results to files, snapshots, and S3.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pithecene-io/cdxq/iox"
	"github.com/pithecene-io/cdxq/types"
)

// csvHeader is the fixed column set for CSV exports. Capture fields are
// flattened alongside the per-URL outcome columns.
var csvHeader = []string{
	"query_url", "result_type", "error", "capture_count", "matched_url",
	"urlkey", "timestamp", "url", "mime", "status", "digest", "length",
}

// WriteCSV writes records to w as CSV with a header row. Records without a
// capture leave the capture columns empty.
func WriteCSV(w io.Writer, records []types.OutcomeRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.QueryURL,
			string(rec.Type),
			rec.ErrorMessage,
			fmt.Sprintf("%d", rec.CaptureCount),
			rec.MatchedURL,
			"", "", "", "", "", "", "",
		}
		if rec.Capture != nil {
			row[5] = rec.Capture.URLKey
			row[6] = rec.Capture.Timestamp
			row[7] = rec.Capture.URL
			row[8] = rec.Capture.Mime
			row[9] = rec.Capture.Status
			row[10] = rec.Capture.Digest
			row[11] = rec.Capture.Length
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %q: %w", rec.QueryURL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteJSON writes records to w as an indented JSON array.
func WriteJSON(w io.Writer, records []types.OutcomeRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []types.OutcomeRecord{}
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("writing json export: %w", err)
	}
	return nil
}

// WriteCSVFile writes records to a CSV file at path.
func WriteCSVFile(path string, records []types.OutcomeRecord) error {
	return writeToFile(path, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
}

// WriteJSONFile writes records to a JSON file at path.
func WriteJSONFile(path string, records []types.OutcomeRecord) error {
	return writeToFile(path, func(w io.Writer) error {
		return WriteJSON(w, records)
	})
}

// writeToFile opens path for writing, runs fn, and closes the file.
func writeToFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create export file %q: %w", path, err)
	}
	defer iox.DiscardClose(f)

	if err := fn(f); err != nil {
		return err
	}
	return f.Close()
}
