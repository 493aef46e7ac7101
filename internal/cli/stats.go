package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	stats := a.store.Stats()
	if !textOutput() {
		printJSON(cmd.OutOrStdout(), stats)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	source := string(stats.Source)
	if source == "" {
		source = "no file"
	}
	t.SetTitle("%d memories in %s (loaded from %s)", stats.Entries, stats.Dir, source)
	t.AppendHeader(table.Row{"Format", "Path", "Exists", "Bytes", "In sync"})
	for _, f := range stats.Files {
		t.AppendRow(table.Row{f.Format, f.Path, f.Exists, f.SizeBytes, f.InSync})
	}
	t.Render()
}
