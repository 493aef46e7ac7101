package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge memories from a .json, .csv or .txt file",
		Long:  "Merge memories from a file. Imported values replace existing ones with the same key.",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	imported, err := a.store.Import(cmd.Context(), args[0])
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d,"total":%d}`+"\n", imported, a.store.Len())
}
