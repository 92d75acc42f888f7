package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
	historyCmd.Flags().BoolVar(&historyXP, "xp", false, "Show XP grants instead of messages")
	rootCmd.AddCommand(historyCmd)
}

var (
	historyLimit int
	historyXP    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversation or XP history",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if historyXP {
		return printXPHistory(d)
	}
	return printMessages(d)
}

func printXPHistory(d *daemon.Daemon) error {
	entries, err := d.Ledger.History(historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No XP earned yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSOURCE\tXP\tBALANCE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t+%d\t%d\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.Source, e.Amount, e.Balance)
	}
	return w.Flush()
}

func printMessages(d *daemon.Daemon) error {
	msgs, err := d.Chat.Messages()
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("No messages yet. Run 'fitcoach chat' to get started.")
		return nil
	}

	if historyLimit > 0 && len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}

	for _, m := range msgs {
		prefix := "you"
		if m.Role == domain.RoleAssistant {
			prefix = "coach"
		}
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04"), prefix, m.Content)
	}
	return nil
}
