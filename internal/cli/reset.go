package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the conversation and start a new session",
	Long: `Clear the stored conversation history and mint a fresh session id.
Streaks, XP, badges, and weekly goals are kept.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	id, err := d.Chat.Reset()
	if err != nil {
		return err
	}

	fmt.Printf("Conversation cleared. New session: %s\n", id)
	return nil
}
