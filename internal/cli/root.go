// Package cli implements the FitCoach command-line interface using Cobra.
// Each subcommand maps to one capability (chat, send, stats, serve, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fitcoach",
	Short: "FitCoach — Your AI fitness coach",
	Long: `FitCoach is a chat front-end for an AI fitness coach.
Messages are validated and rate-limited locally, relayed to the coach
webhook, and every exchange earns XP, streaks, and badges.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
