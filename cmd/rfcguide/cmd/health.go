package cmd

import (
	"fmt"

	"github.com/corey/rfcguide/internal/app"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether a server is running",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := discoverServer(app.NewPaths(settings.Storage.Dir))
	if client == nil {
		fmt.Println("rfcguide server is not running")
		return nil
	}

	health, err := client.Health()
	if err != nil {
		return err
	}

	fmt.Print(formatHealth(health, client.base, palette(useColor())))
	return nil
}
