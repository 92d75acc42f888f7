package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your streak, level, and XP",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Ledger.Current()
	if err != nil {
		return err
	}

	fmt.Printf("Level %d  (%d/%d XP to next)\n",
		state.Level, domain.CurrentLevelXP(state.TotalXP), domain.XPPerLevel)
	fmt.Printf("Total XP:       %d\n", state.TotalXP)
	fmt.Printf("Current streak: %d day(s)\n", state.CurrentStreak)
	fmt.Printf("Longest streak: %d day(s)\n", state.LongestStreak)
	fmt.Printf("Sessions:       %d\n", state.TotalSessions)
	fmt.Printf("Messages:       %d\n", state.TotalMessages)
	fmt.Printf("Badges:         %d\n", len(state.Badges))
	return nil
}
