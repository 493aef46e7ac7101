package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chat-memory/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [message]",
		Short: "Assemble relevant memories for a prompt",
		Long:  "Collect memories relevant to a chat message and pack them into a character budget.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runContext,
	}

	cmd.Flags().IntP("budget", "b", 0, "Max characters in output (default: context.budget from config)")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	budget, _ := cmd.Flags().GetInt("budget")
	query := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if budget <= 0 {
		budget = a.cfg.Context.Budget
	}

	result := a.store.Context(store.ContextParams{Query: query, Budget: budget})
	if textOutput() {
		fmt.Fprint(cmd.OutOrStdout(), result.Prompt())
		return
	}
	printJSON(cmd.OutOrStdout(), result)
}
