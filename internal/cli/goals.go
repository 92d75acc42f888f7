package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
)

func init() {
	rootCmd.AddCommand(goalsCmd)
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show weekly goal progress",
	RunE:  runGoals,
}

func runGoals(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Ledger.Current()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GOAL\tPROGRESS")
	for _, g := range state.WeeklyGoals {
		done := ""
		if g.Current >= g.Target {
			done = "  ✓"
		}
		fmt.Fprintf(w, "%s\t%d/%d%s\n", g.Name, g.Current, g.Target, done)
	}
	return w.Flush()
}
