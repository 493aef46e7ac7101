package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chat-memory/internal/extract"
)

func init() {
	cmd := &cobra.Command{
		Use:   "learn [message]",
		Short: "Extract a fact from a chat message and remember it",
		Long:  `Run the fact extractor over a message such as "我的生日是1月1日" and store the result.`,
		Args:  cobra.MinimumNArgs(1),
		Run:   runLearn,
	}

	RootCmd.AddCommand(cmd)
}

func runLearn(cmd *cobra.Command, args []string) {
	text := strings.Join(args, " ")

	key, value, ok := extract.Default().Extract(text)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), `{"ok":false}`)
		return
	}

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if err := a.store.Remember(cmd.Context(), key, value); err != nil {
		exitErr("learn", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"key":%q,"value":%q}`+"\n", key, value)
}
