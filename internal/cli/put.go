package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chat-memory/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [value]",
		Short: "Remember a value under a key",
		Long:  "Remember a value. The value can be positional args or piped via stdin. All three memory files are rewritten.",
		Run:   runPut,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")

	// Get value: positional args first, then check stdin
	var value string
	if len(args) > 0 {
		value = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			value = string(b)
		}
	}

	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" || value == "" {
		exitErr("put", fmt.Errorf("key and value are required"))
	}

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if err := a.store.Remember(cmd.Context(), key, value); err != nil {
		exitErr("put", err)
	}

	e, _ := a.store.Get(key)
	printJSON(cmd.OutOrStdout(), toJSON([]model.Entry{e})[0])
}
