package iocache

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/feedstore/schema"
)

// PrintCacheStatus prints slot status information to stdout.
func PrintCacheStatus(status schema.CacheStatus) {
	WriteCacheStatus(os.Stdout, status)
}

// WriteCacheStatus writes slot status information to w.
func WriteCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Key: %s\n", status.Key)
	_, _ = fmt.Fprintf(w, "Has Record: %t\n", status.HasRecord)
	if status.HasRecord {
		if !status.LastWriteTime.IsZero() {
			_, _ = fmt.Fprintf(w, "Last Write: %s\n", status.LastWriteTime.Format("2006-01-02 15:04:05"))
		}
		if status.FormatVersion > 0 {
			_, _ = fmt.Fprintf(w, "Format Version: %d\n", status.FormatVersion)
		}
		_, _ = fmt.Fprintf(w, "Stored Size: %d bytes\n", status.StoredBytes)
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}
