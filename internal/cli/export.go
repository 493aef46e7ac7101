package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/chat-memory/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memories as json, csv or txt",
		Long:  "Rewrite the store's file for one encoding, or print that encoding to stdout with --stdout.",
		Run:   runExport,
	}

	cmd.Flags().StringP("as", "a", "json", "Encoding: json, csv or txt")
	cmd.Flags().Bool("stdout", false, "Write to stdout instead of the data directory")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	as, _ := cmd.Flags().GetString("as")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	f := model.Format(as)

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if toStdout {
		if err := a.store.ExportTo(cmd.OutOrStdout(), f); err != nil {
			exitErr("export", err)
		}
		return
	}

	if err := a.store.Export(f); err != nil {
		exitErr("export", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q,"count":%d}`+"\n", a.store.Path(f), a.store.Len())
}
