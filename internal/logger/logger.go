// Package logger builds the slog logger shared by the CLI and the store.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

type config struct {
	debug  bool
	format string
	writer io.Writer
	quiet  bool
}

// Option configures New.
type Option func(*config)

// WithDebug lowers the level to debug and adds source locations.
func WithDebug() Option {
	return func(c *config) {
		c.debug = true
	}
}

// WithFormat selects the "text" or "json" handler.
func WithFormat(format string) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithWriter adds w as a second destination, e.g. a log file.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.writer = w
	}
}

// WithQuiet suppresses output to stderr.
func WithQuiet() Option {
	return func(c *config) {
		c.quiet = true
	}
}

// New returns a logger writing to stderr and, optionally, a second writer.
func New(opts ...Option) *slog.Logger {
	cfg := &config{format: "text"}
	for _, opt := range opts {
		opt(cfg)
	}

	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.debug,
	}

	var handlers []slog.Handler
	if !cfg.quiet {
		handlers = append(handlers, newHandler(os.Stderr, cfg.format, handlerOpts))
	}
	if cfg.writer != nil {
		handlers = append(handlers, newHandler(&lockedWriter{w: cfg.writer}, cfg.format, handlerOpts))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// lockedWriter serializes writes so loggers derived with With do not
// interleave lines in a shared file.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
