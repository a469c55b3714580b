package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRetrievalResult outputs a retrieve result, dispatching based on the output format configured.
func WriteRetrievalResult(result schema.RetrievalResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteRetrievalJSON(w, result, cfg.CacheKey)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRetrievalCSV(w, result, cfg.CacheKey)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRetrievalTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// retrievalJSON is the JSON shape of a retrieve result.
type retrievalJSON struct {
	Key       string                   `json:"key"`
	Result    string                   `json:"result"`
	Timestamp *time.Time               `json:"timestamp,omitempty"`
	Images    []schema.FeedImageRecord `json:"images"`
	Error     string                   `json:"error,omitempty"`
}

// WriteRetrievalJSON writes the result as a single JSON document.
// It is shared by the CLI and the MCP tools.
func WriteRetrievalJSON(w io.Writer, result schema.RetrievalResult, key string) error {
	output := retrievalJSON{
		Key:    key,
		Result: string(result.Kind),
		Images: []schema.FeedImageRecord{},
		Error:  errorText(result.Err),
	}
	if record, ok := result.Record(); ok {
		ts := record.Timestamp
		output.Timestamp = &ts
		output.Images = schema.FlattenRecord(record)
	}
	return writeJSON(w, output)
}

// writeRetrievalCSV writes one row per image. Empty and failed results produce only the header.
func writeRetrievalCSV(w io.Writer, result schema.RetrievalResult, key string) error {
	header := []string{
		"key",
		"position",
		"id",
		"description",
		"location",
		"url",
		"timestamp",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		record, ok := result.Record()
		if !ok {
			return nil
		}
		for _, row := range schema.FlattenRecord(record) {
			rec := []string{
				key,
				strconv.Itoa(row.Position),
				row.ID,
				optional(row.Description, ""),
				optional(row.Location, ""),
				row.URL,
				row.Timestamp.Format(contract.DateTimeFormat),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRetrievalTable generates and writes the human-readable table.
func writeRetrievalTable(w io.Writer, result schema.RetrievalResult, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Result: %s (key: %s)\n", contract.GetColorLabel(result.Kind), cfg.CacheKey); err != nil {
		return err
	}

	record, ok := result.Record()
	if !ok {
		if result.IsFailure() {
			if _, err := fmt.Fprintf(w, "Error: %v\n", result.Err); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "Retrieved in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Pos", "ID", "URL", "Description", "Location"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	urlWidth := getMaxTableURLWidth(cfg)
	var data [][]string
	for _, row := range schema.FlattenRecord(record) {
		data = append(data, []string{
			strconv.Itoa(row.Position),
			row.ID,
			contract.TruncateText(row.URL, urlWidth),
			contract.TruncateText(optional(row.Description, "-"), maxOptionalWidth),
			contract.TruncateText(optional(row.Location, "-"), maxOptionalWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d images stored at %s\n", len(record.Images), record.Timestamp.Format(contract.DateTimeFormat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Retrieved in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}
