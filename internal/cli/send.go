package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
)

func init() {
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send MESSAGE...",
	Short: "Send a single message to your coach",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return fmt.Errorf("initialize daemon: %w", err)
	}
	defer d.Close()

	result, err := d.Chat.Send(cmd.Context(), strings.Join(args, " "), time.Now())
	if err != nil {
		return fmt.Errorf("%s", sendErrMessage(err))
	}

	fmt.Println(result.Reply.Content)
	printRewards(result)
	return nil
}
