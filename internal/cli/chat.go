package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/app/chat"
	"github.com/fitcoach-app/fitcoach/internal/daemon"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat with your coach",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return fmt.Errorf("initialize daemon: %w", err)
	}
	defer d.Close()

	fmt.Println(">>> Chatting with your coach (type /bye to exit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()

		if input == "/bye" || input == "/exit" || input == "/quit" {
			fmt.Println("Keep moving!")
			return nil
		}

		if input == "" {
			continue
		}

		result, err := d.Chat.Send(cmd.Context(), input, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", sendErrMessage(err))
			continue
		}

		fmt.Println(result.Reply.Content)
		printRewards(result)
		fmt.Println()
	}

	return nil
}

// printRewards announces level-ups and fresh badges after an exchange.
func printRewards(result chat.Result) {
	if result.LeveledUp {
		fmt.Printf("⭐ Level up! You are now level %d\n", result.State.Level)
	}
	for _, b := range result.NewBadges {
		fmt.Printf("%s Badge unlocked: %s — %s\n", b.Icon, b.Name, b.Description)
	}
}

// sendErrMessage turns pipeline errors into something a person can act on.
func sendErrMessage(err error) string {
	var limited *domain.RateLimitedError
	if errors.As(err, &limited) {
		return fmt.Sprintf("slow down — try again in %d seconds", limited.RetryAfter)
	}
	if errors.Is(err, domain.ErrWebhookNotConfigured) {
		return "no coach configured — set coach.webhook_url in config.toml"
	}
	return err.Error()
}
