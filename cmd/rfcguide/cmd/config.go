package cmd

import (
	"fmt"

	"github.com/corey/rfcguide/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long:  "Shows the configuration after defaults, config file, environment and flags are applied, plus state paths and server status.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := app.NewPaths(settings.Storage.Dir)
	p := palette(useColor())

	status := p.paint(colorYellow, "✗ not running")
	if client := discoverServer(paths); client != nil {
		status = p.paint(colorGreen, "✓ running at "+client.base)
	}

	fmt.Printf("%s\n", p.paint(colorBold, "rfcguide config"))
	fmt.Printf("  Config file: %s\n", configPath)
	fmt.Printf("  State dir:   %s\n", paths.Root)
	fmt.Printf("  DB:          %s\n", paths.DB)
	fmt.Printf("  Port file:   %s\n", paths.PortFile)
	fmt.Printf("  Server:      %s\n\n", status)

	data, err := settings.Encode()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
