package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/iocache"
	"github.com/huangsam/feedstore/schema"
)

// WriteCacheStatus outputs the cache status, dispatching based on the output format configured.
func WriteCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusCSV(w, status)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			iocache.WriteCacheStatus(w, status)
			return nil
		}, "Wrote status")
	}
}

func writeStatusCSV(w io.Writer, status schema.CacheStatus) error {
	header := []string{
		"backend",
		"connected",
		"key",
		"has_record",
		"format_version",
		"last_write_time",
		"stored_bytes",
		"table_size_bytes",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		lastWrite := ""
		if !status.LastWriteTime.IsZero() {
			lastWrite = status.LastWriteTime.Format(contract.DateTimeFormat)
		}
		return cw.Write([]string{
			status.Backend,
			strconv.FormatBool(status.Connected),
			status.Key,
			strconv.FormatBool(status.HasRecord),
			strconv.Itoa(status.FormatVersion),
			lastWrite,
			strconv.FormatInt(status.StoredBytes, 10),
			strconv.FormatInt(status.TableSizeBytes, 10),
		})
	})
}

// ackJSON is the JSON shape of an insert or delete outcome.
type ackJSON struct {
	Op       string `json:"op"`
	Key      string `json:"key"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// WriteAckResult outputs the outcome of an insert or delete.
func WriteAckResult(op string, opErr error, cfg *contract.Config, duration time.Duration) error {
	ack := ackJSON{
		Op:       op,
		Key:      cfg.CacheKey,
		OK:       opErr == nil,
		Error:    errorText(opErr),
		Duration: duration.String(),
	}
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ack)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"op", "key", "ok", "error", "duration"}, func(cw *csv.Writer) error {
				return cw.Write([]string{ack.Op, ack.Key, strconv.FormatBool(ack.OK), ack.Error, ack.Duration})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if opErr != nil {
				_, err := fmt.Fprintf(w, "%s %s failed for key %s: %v\n", contract.FailureColor.Sprint("✗"), op, cfg.CacheKey, opErr)
				return err
			}
			_, err := fmt.Fprintf(w, "%s %s completed for key %s in %v\n", contract.FoundColor.Sprint("✓"), op, cfg.CacheKey, duration)
			return err
		}, "Wrote result")
	}
}
