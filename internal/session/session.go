// Package session persists window layouts as JSON documents. Loading
// validates the whole document before returning it, so callers can
// treat a returned document as safe to replay.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// NoFocus marks a document with no focused window.
const NoFocus = -1

// WindowRecord is one saved window. State is stored as its ordinal so
// files stay compact and order-comparable.
type WindowRecord struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	State  int    `json:"state"`
}

// Document is a complete saved session.
type Document struct {
	Windows       []WindowRecord `json:"windows"`
	FocusedWindow int            `json:"focused_window"`
}

// stateOrdinalMax is the highest valid state ordinal (hidden).
const stateOrdinalMax = 4

// Validate checks the document's internal consistency: unique
// positive IDs, named windows with positive sizes, states in range,
// and a focus pointer that names a saved window or NoFocus.
func (d Document) Validate() error {
	seen := make(map[int]bool, len(d.Windows))
	for i, rec := range d.Windows {
		if rec.ID < 1 {
			return fmt.Errorf("window record %d: invalid id %d", i, rec.ID)
		}
		if seen[rec.ID] {
			return fmt.Errorf("window record %d: duplicate id %d", i, rec.ID)
		}
		seen[rec.ID] = true
		if rec.Title == "" {
			return fmt.Errorf("window record %d: missing title", i)
		}
		if rec.Width < 1 || rec.Height < 1 {
			return fmt.Errorf("window record %d: invalid size %dx%d", i, rec.Width, rec.Height)
		}
		if rec.State < 0 || rec.State > stateOrdinalMax {
			return fmt.Errorf("window record %d: invalid state %d", i, rec.State)
		}
	}
	if d.FocusedWindow != NoFocus && !seen[d.FocusedWindow] {
		return fmt.Errorf("focused window %d not present in session", d.FocusedWindow)
	}
	return nil
}

// Save writes the document to path, creating parent directories as
// needed. The file is written with indented JSON so it stays
// hand-editable.
func Save(path string, doc Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid session: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Load reads and validates a session document. Any defect in the file
// is an error; no partial document is ever returned.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading session file: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing session file: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("invalid session file: %w", err)
	}
	return doc, nil
}
