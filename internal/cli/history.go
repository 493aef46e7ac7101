package cli

import (
	"errors"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rcliao/chat-memory/internal/journal"
	"github.com/rcliao/chat-memory/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled changes, newest first",
		Run:   runHistory,
	}

	cmd.Flags().StringP("key", "k", "", "Filter by key")
	cmd.Flags().String("op", "", "Filter by op: remember, forget, import")
	cmd.Flags().IntP("limit", "l", 50, "Max results")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	op, _ := cmd.Flags().GetString("op")
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if a.journal == nil {
		exitErr("history", errors.New("journal is disabled (journal.enabled: false)"))
	}

	events, err := a.journal.List(cmd.Context(), journal.ListParams{
		Key:   key,
		Op:    model.Op(op),
		Limit: limit,
	})
	if err != nil {
		exitErr("history", err)
	}

	if !textOutput() {
		if events == nil {
			events = []model.Event{}
		}
		printJSON(cmd.OutOrStdout(), events)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"At", "Op", "Key", "Value", "Source"})
	for _, ev := range events {
		t.AppendRow(table.Row{ev.At.Local().Format(time.DateTime), ev.Op, ev.Key, ev.Value, ev.Source})
	}
	t.Render()
}
