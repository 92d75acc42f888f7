package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/app/ledger"
	"github.com/fitcoach-app/fitcoach/internal/daemon"
)

func init() {
	badgesCmd.Flags().BoolVar(&badgesAll, "all", false, "Include badges not yet unlocked")
	rootCmd.AddCommand(badgesCmd)
}

var badgesAll bool

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List your unlocked badges",
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Ledger.Current()
	if err != nil {
		return err
	}

	unlocked := make(map[string]bool, len(state.Badges))
	for _, b := range state.Badges {
		unlocked[b.ID] = true
	}

	if !badgesAll && len(state.Badges) == 0 {
		fmt.Println("No badges yet. Chat with your coach to earn your first one!")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BADGE\tNAME\tDESCRIPTION\tSTATUS")
	for _, def := range ledger.Catalog() {
		status := "locked"
		if unlocked[def.ID] {
			status = "unlocked"
		} else if !badgesAll {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Icon, def.Name, def.Description, status)
	}
	return w.Flush()
}
