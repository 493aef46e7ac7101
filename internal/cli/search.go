package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find memories relevant to a message",
		Long:  "List memories whose key appears in the query, or contains it, ignoring case.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if textOutput() {
		for line := range a.store.Relevant(query) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return
	}

	results := slices.Collect(a.store.Relevant(query))
	if results == nil {
		results = []string{}
	}
	printJSON(cmd.OutOrStdout(), results)
}
