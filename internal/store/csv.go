package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rcliao/chat-memory/internal/model"
)

var csvHeader = []string{"key", "value", "timestamp"}

// csvCodec encodes the store as a key,value,timestamp table. Columns are
// located by header name, so files with reordered or extra columns load.
type csvCodec struct {
	stamp func() string
	log   *slog.Logger
}

func (csvCodec) Format() model.Format { return model.FormatCSV }

func (c csvCodec) Decode(r io.Reader) (*Entries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	entries := NewEntries()
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %w", ErrParse, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[strings.ToLower(name)] = i
	}
	keyCol, hasKey := cols["key"]
	valCol, hasVal := cols["value"]
	if !hasKey || !hasVal {
		return nil, fmt.Errorf("%w: csv header %q lacks key or value column", ErrParse, header)
	}
	tsCol, hasTS := cols["timestamp"]

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %w", ErrParse, err)
		}

		if len(rec) <= keyCol || len(rec) <= valCol {
			line, _ := cr.FieldPos(0)
			c.log.Warn("Skipping csv row without value column", "line", line, "fields", len(rec))
			continue
		}

		e := model.Entry{Key: rec[keyCol], Value: rec[valCol]}
		if hasTS && tsCol < len(rec) {
			e.Timestamp = strings.TrimSpace(rec[tsCol])
		}
		if e.Timestamp == "" {
			e.Timestamp = c.stamp()
		}
		entries.Set(e.Key, e)
	}

	return entries, nil
}

func (csvCodec) Encode(w io.Writer, entries *Entries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for p := entries.Oldest(); p != nil; p = p.Next() {
		if err := cw.Write([]string{p.Key, p.Value.Value, p.Value.Timestamp}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
