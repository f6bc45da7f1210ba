package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChristianNyamekye/folioassist/internal/chat"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [message]",
	Short: "Run a message through the input sanitizer",
	Long: `Apply the chat input sanitizer to a message and print the result.

Reads the message from the arguments, or from stdin when none are given.
Useful for checking how a given input will reach the provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.Join(args, " ")
		if raw == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			raw = string(data)
		}
		fmt.Println(chat.Sanitize(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}
