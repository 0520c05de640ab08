// Package capture reads files into pending attachments for the current
// report. Payloads live only for the process; after a restart they must be
// captured again.
package capture

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/scribe/internal/core/report"
)

// ErrIgnored is returned when a file matches a configured ignore pattern.
var ErrIgnored = errors.New("file matches an ignore pattern")

// Capturer turns files into pending attachments, filtering by glob
// patterns from configuration.
type Capturer struct {
	ignore []string
}

// New creates a Capturer with the given ignore patterns.
func New(ignore []string) *Capturer {
	return &Capturer{ignore: ignore}
}

// FromFile reads path into a pending attachment. The mime type is derived
// from the file extension; unknown extensions get application/octet-stream.
func (c *Capturer) FromFile(path string) (report.Attachment, error) {
	name := filepath.Base(path)

	for _, pattern := range c.ignore {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return report.Attachment{}, fmt.Errorf("capture %q: ignore pattern %q: %w", name, pattern, err)
		}
		if matched {
			return report.Attachment{}, fmt.Errorf("capture %q: %w", name, ErrIgnored)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return report.Attachment{}, fmt.Errorf("capture %q: %w", name, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return report.NewPendingAttachment(name, mimeType, data), nil
}
