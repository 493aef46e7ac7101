package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rcliao/chat-memory/internal/model"
)

const maxTextLine = 1 << 20

var flattenNewlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// textCodec encodes the store as "key: value" lines. The encoding has no
// timestamp column, so every decoded entry is stamped at load time.
type textCodec struct {
	stamp func() string
	log   *slog.Logger
}

func (textCodec) Format() model.Format { return model.FormatText }

func (c textCodec) Decode(r io.Reader) (*Entries, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxTextLine)

	entries := NewEntries()
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// The first colon separates key from value; values may contain more.
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			c.log.Warn("Skipping txt line without separator", "line", lineNum)
			continue
		}
		key = strings.TrimSpace(key)
		entries.Set(key, model.Entry{
			Key:       key,
			Value:     strings.TrimSpace(value),
			Timestamp: c.stamp(),
		})
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: txt line %d: %w", ErrParse, lineNum+1, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return entries, nil
}

// Encode fails with ErrParse before writing anything if a key holds a colon,
// since the line could not be split back into the same key.
func (textCodec) Encode(w io.Writer, entries *Entries) error {
	for p := entries.Oldest(); p != nil; p = p.Next() {
		if strings.Contains(p.Key, ":") {
			return fmt.Errorf("%w: txt key %q contains ':'", ErrParse, p.Key)
		}
	}

	bw := bufio.NewWriter(w)
	for p := entries.Oldest(); p != nil; p = p.Next() {
		e := model.Entry{
			Key:   flattenNewlines.Replace(p.Key),
			Value: flattenNewlines.Replace(p.Value.Value),
		}
		if _, err := bw.WriteString(e.Line() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
