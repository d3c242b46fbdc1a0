// Package domain defines core document types, constants, and validation for
// the candidate pipeline. It acts as the validation gate at pipeline entry
// points.
package domain

import "time"

// Document is a flattened candidate document ready for extraction. Format
// decoding (PDF pages, paragraphs) happens upstream; the pipeline only ever
// sees plain text.
type Document struct {
	Source     string    `json:"source"`
	SourceID   string    `json:"source_id"`
	Title      string    `json:"title,omitempty"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at,omitempty"`
}

// DocID returns the stable identifier used for deduplication.
func (d Document) DocID() string {
	return d.Source + ":" + d.SourceID
}

// ValidSources enumerates accepted document sources. Prefixed variants such
// as "file:resumes" are accepted too.
var ValidSources = map[string]bool{
	"file":  true,
	"queue": true,
	"api":   true,
}
