// Package model defines the core memory data types.
package model

import (
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the layout used for newly generated entry timestamps.
const TimestampLayout = time.RFC3339

// Entry is one key/value/timestamp record. The key lives outside the JSON
// object because the structured encoding keys entries by it.
type Entry struct {
	Key       string `json:"-"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

// Line renders the entry the way it appears in prompts and the txt encoding.
func (e Entry) Line() string {
	return e.Key + ": " + e.Value
}

// Time parses Timestamp, accepting RFC 3339 as well as zone-less ISO-8601
// with optional fractional seconds.
func (e Entry) Time() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", e.Timestamp, time.Local)
}

// Format names one on-disk encoding.
type Format string

const (
	FormatJSON Format = "json" // structured object
	FormatCSV  Format = "csv"  // tabular
	FormatText Format = "txt"  // line-delimited
)

// Formats lists every encoding in default load priority.
var Formats = []Format{FormatJSON, FormatCSV, FormatText}

// Valid reports whether f is a known encoding.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatText:
		return true
	}
	return false
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// FormatFromPath derives the encoding from a file extension.
func FormatFromPath(path string) (Format, bool) {
	f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	return f, f.Valid()
}

// Op names a journaled store mutation.
type Op string

const (
	OpRemember Op = "remember"
	OpForget   Op = "forget"
	OpImport   Op = "import"
)

// Event is one journaled mutation.
type Event struct {
	ID     string    `json:"id"`
	Op     Op        `json:"op"`
	Key    string    `json:"key"`
	Value  string    `json:"value,omitempty"`
	Source string    `json:"source,omitempty"`
	At     time.Time `json:"at"`
}
