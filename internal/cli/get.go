package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/chat-memory/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Recall the value stored under a key",
		Run:   runGet,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	e, ok := a.store.Get(key)
	if !ok {
		exitErr("get", fmt.Errorf("memory not found: %s", key))
	}

	if textOutput() {
		fmt.Fprintln(cmd.OutOrStdout(), e.Value)
		return
	}
	printJSON(cmd.OutOrStdout(), toJSON([]model.Entry{e})[0])
}
