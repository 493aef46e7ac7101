package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memories in store order",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("keys-only", false, "Only output keys")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	entries := a.store.Entries()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	if keysOnly {
		for _, e := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), e.Key)
		}
		return
	}

	printEntryList(cmd.OutOrStdout(), entries)
}
