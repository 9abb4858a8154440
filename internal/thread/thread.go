// Package thread parses, derives state from, and rewrites Watercooler
// thread documents: a plain-text header of key/value fields followed by
// an ordered sequence of entries separated by "---" delimiter lines.
package thread

import (
	"os"
	"path/filepath"
	"strings"
)

// DuplicatePolicy controls which value wins when the same header key
// appears more than once in a document.
type DuplicatePolicy int

const (
	// LastWins keeps the value of the last occurrence (default).
	LastWins DuplicatePolicy = iota
	// FirstWins keeps the value of the first occurrence.
	FirstWins
)

// Document is a fully parsed thread file. It is rebuilt from scratch on
// every read; nothing is cached between calls.
type Document struct {
	Title      string            `json:"title"`
	Metadata   map[string]string `json:"metadata"`
	FieldOrder []string          `json:"field_order,omitempty"`
	Entries    []Entry           `json:"entries"`
	SourcePath string            `json:"path,omitempty"`

	EntryCount int    `json:"entry_count"`
	LastUpdate string `json:"last_update,omitempty"`
	LastTitle  string `json:"last_title,omitempty"`
	HasNew     bool   `json:"has_new"`
}

// Entry is one timestamped contribution within a thread body.
type Entry struct {
	Metadata  map[string]string `json:"metadata,omitempty"`
	Body      string            `json:"body"`
	Author    string            `json:"author,omitempty"`
	Actor     string            `json:"actor,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Role      string            `json:"role,omitempty"`
	Type      string            `json:"type,omitempty"`
	IsNew     bool              `json:"is_new"`
}

// Parser carries parse options. The zero value is ready to use.
type Parser struct {
	Duplicates DuplicatePolicy
}

// Parse builds a Document from raw bytes. Grammar mismatches are never
// fatal: unmatched lines are skipped and a document without entries is
// still a valid document.
func (p Parser) Parse(data []byte, defaultTitle string) *Document {
	headerLines, body := splitDocument(string(data))
	title, meta, order := parseHeader(headerLines, defaultTitle, p.Duplicates)

	d := &Document{
		Title:      title,
		Metadata:   meta,
		FieldOrder: order,
		Entries:    splitEntries(body),
	}
	computeDerived(d)
	return d
}

// Parse parses raw bytes with the default last-occurrence-wins policy.
func Parse(data []byte, defaultTitle string) *Document {
	return Parser{}.Parse(data, defaultTitle)
}

// ParseFile reads and parses the thread file at path. The default title
// is derived from the file name stem.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := Parse(data, Topic(path))
	d.SourcePath = path
	return d, nil
}

// Topic returns the thread topic for a file path: the base name without
// the .md extension.
func Topic(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
