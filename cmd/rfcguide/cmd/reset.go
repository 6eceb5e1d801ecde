package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/corey/rfcguide/internal/app"
	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear stored lookup statistics",
	Long:  "Deletes the usage statistics for the current catalog. The catalog itself is never touched.",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	paths := app.NewPaths(settings.Storage.Dir)

	if !resetForce {
		fmt.Printf("This will clear all lookup statistics in %s. Continue? [y/N] ", paths.Root)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	// A running server holds the database lock, so reset through it.
	if client := discoverServer(paths); client != nil {
		if err := client.ResetStats(); err != nil {
			return fmt.Errorf("reset via server failed: %w", err)
		}
		fmt.Println("usage statistics reset (server)")
		return nil
	}

	if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
		fmt.Println("no data to reset")
		return nil
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ResetUsage(); err != nil {
		return err
	}
	fmt.Println("usage statistics reset")
	return nil
}
