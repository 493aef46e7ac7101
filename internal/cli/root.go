// Package cli implements the chat-memory CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rcliao/chat-memory/internal/config"
	"github.com/rcliao/chat-memory/internal/journal"
	"github.com/rcliao/chat-memory/internal/logger"
	"github.com/rcliao/chat-memory/internal/model"
	"github.com/rcliao/chat-memory/internal/store"
)

var (
	dataDir    string
	cfgFile    string
	formatFlag string
	verbose    bool
)

var (
	// current is the app opened by the running command; exitErr closes it
	// because os.Exit skips deferred calls.
	current *app
	osExit  = os.Exit
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "chat-memory",
	Short: "Persistent key/value memory for a chat assistant",
	Long: `A small CLI over the chat assistant's memory store. Every change is written
to memory.json, memory.csv and memory.txt in the data directory.`,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "Data directory (default: $CHAT_MEMORY_DATA_DIR or ~/.chat-memory)")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./chat-memory.yaml or ~/.chat-memory/chat-memory.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// app bundles what a command needs: resolved config, logger, store and the
// optional journal.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *store.FileStore
	journal *journal.Journal
	logFile io.Closer
}

func openApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	a := &app{cfg: cfg}

	logOpts := []logger.Option{logger.WithFormat(cfg.Log.Format)}
	if verbose || cfg.Log.Level == "debug" {
		logOpts = append(logOpts, logger.WithDebug())
	}
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		logOpts = append(logOpts, logger.WithWriter(f))
	}
	a.log = logger.New(logOpts...)

	storeOpts := []store.Option{
		store.WithPreferredFormat(cfg.Format()),
		store.WithBaseName(cfg.BaseName),
		store.WithLogger(a.log),
	}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.JournalPath())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		a.journal = j
		storeOpts = append(storeOpts, store.WithJournal(j))
	}

	s, err := store.New(cfg.DataDir, storeOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = s
	current = a
	return a, nil
}

// Close releases the journal and log file. It is safe to call twice.
func (a *app) Close() error {
	var errs []error
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
		a.journal = nil
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
		a.logFile = nil
	}
	if current == a {
		current = nil
	}
	return errors.Join(errs...)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	if current != nil {
		current.Close()
	}
	osExit(1)
}

func textOutput() bool {
	return formatFlag == "text"
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func printEntries(w io.Writer, entries []model.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Value", "Timestamp"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Key, e.Value, e.Timestamp})
	}
	t.Render()
}

// entryJSON is the CLI's JSON view of an entry; model.Entry hides its key.
type entryJSON struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

func toJSON(entries []model.Entry) []entryJSON {
	return lo.Map(entries, func(e model.Entry, _ int) entryJSON {
		return entryJSON{Key: e.Key, Value: e.Value, Timestamp: e.Timestamp}
	})
}

func printEntryList(w io.Writer, entries []model.Entry) {
	if textOutput() {
		printEntries(w, entries)
		return
	}
	printJSON(w, toJSON(entries))
}
