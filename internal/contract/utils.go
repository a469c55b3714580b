package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/feedstore/schema"
)

// Retrieval label constants.
const (
	FoundValue   = "Found"   // Found value
	EmptyValue   = "Empty"   // Empty value
	FailureValue = "Failure" // Failure value
)

// Color variables for console output.
var (
	FoundColor   = color.New(color.FgGreen, color.Bold) // FoundColor marks a usable record.
	EmptyColor   = color.New(color.FgYellow)            // EmptyColor marks an empty slot.
	FailureColor = color.New(color.FgRed, color.Bold)   // FailureColor marks an unreadable slot.
)

// GetPlainLabel returns a plain text label for a retrieval outcome.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(kind schema.RetrievalKind) string {
	switch kind {
	case schema.FoundRetrieval:
		return FoundValue
	case schema.EmptyRetrieval:
		return EmptyValue
	default:
		return FailureValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(kind schema.RetrievalKind) string {
	text := GetPlainLabel(kind)

	switch text {
	case FoundValue:
		return FoundColor.Sprint(text)
	case EmptyValue:
		return EmptyColor.Sprint(text)
	default:
		return FailureColor.Sprint(text)
	}
}

// SelectOutputFile returns the file to write to, falling back to stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot create output file %s: %w", filePath, err)
	}
	return file, nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for feed storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".feedstore_cache.db"
	}
	return filepath.Join(homeDir, ".feedstore_cache.db")
}

// TruncateText truncates s to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
