package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rewrite all three memory files from the loaded one",
		Long:  "Rewrite memory.json, memory.csv and memory.txt. Use after a failed write left them out of step.",
		Run:   runSync,
	}

	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if err := a.store.SaveAll(); err != nil {
		exitErr("sync", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"source":%q,"count":%d}`+"\n", a.store.Source(), a.store.Len())
}
