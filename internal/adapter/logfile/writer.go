package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

// timestampLayout is YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// Writer stores one text file per announced alert.
// It implements pipeline.AlertLogger.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir. The directory is created on
// first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteAlert writes <dir>/<event>_<YYYYMMDD_HHMMSS>.txt holding the alert
// header and description, and returns the file path. A second alert of the
// same event within the same second overwrites the first file.
func (w *Writer) WriteAlert(a domain.NotifiedAlert) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(a))
	body := fmt.Sprintf("Alert Header: %s\nAlert Description: %s\n", a.Headline, a.Description)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write alert log: %w", err)
	}
	return path, nil
}

// FileName returns the log file name for an alert.
func FileName(a domain.NotifiedAlert) string {
	return sanitize(a.Event) + "_" + a.NotifiedAt.Format(timestampLayout) + ".txt"
}

// sanitize keeps event names like "Tornado Warning" intact but strips path
// separators so an event name cannot escape the log directory.
func sanitize(event string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, event)
}
