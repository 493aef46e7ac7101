package store

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/rcliao/chat-memory/internal/model"
)

// Codec reads and writes one on-disk encoding.
type Codec interface {
	Format() model.Format
	Decode(r io.Reader) (*Entries, error)
	Encode(w io.Writer, entries *Entries) error
}

// NewCodec returns the codec for f. stamp supplies timestamps for entries
// whose encoding carries none; log receives warnings about skipped rows.
func NewCodec(f model.Format, stamp func() string, log *slog.Logger) (Codec, error) {
	if log == nil {
		log = discardLogger()
	}
	switch f {
	case model.FormatJSON:
		return jsonCodec{stamp: stamp}, nil
	case model.FormatCSV:
		return csvCodec{stamp: stamp, log: log}, nil
	case model.FormatText:
		return textCodec{stamp: stamp, log: log}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// jsonCodec encodes the store as one object keyed by entry key, each value
// holding {"value", "timestamp"}. Object order follows store order.
type jsonCodec struct {
	stamp func() string
}

func (jsonCodec) Format() model.Format { return model.FormatJSON }

func (c jsonCodec) Decode(r io.Reader) (*Entries, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	entries := NewEntries()
	if err := json.Unmarshal(data, entries); err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrParse, err)
	}
	for p := entries.Oldest(); p != nil; p = p.Next() {
		p.Value.Key = p.Key
		if p.Value.Timestamp == "" {
			p.Value.Timestamp = c.stamp()
		}
	}
	return entries, nil
}

func (jsonCodec) Encode(w io.Writer, entries *Entries) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
