package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Forget a memory",
		Run:   runRm,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	found, err := a.store.Forget(cmd.Context(), key)
	if err != nil {
		exitErr("rm", err)
	}
	if !found {
		exitErr("rm", fmt.Errorf("memory not found: %s", key))
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"key":%q}`+"\n", key)
}
