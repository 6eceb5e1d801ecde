package cmd

import (
	"fmt"
	"os"

	"github.com/corey/rfcguide/internal/adapters/web"
	"github.com/corey/rfcguide/internal/app"
	"github.com/spf13/cobra"
)

var (
	statsTop  int
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lookup statistics",
	Long:  "Shows lookup hits and misses from the running server, or from the usage database when no server runs.",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "Number of top hits and misses to show (0 = all)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsTop < 0 {
		return usageError("--top must not be negative")
	}

	paths := app.NewPaths(settings.Storage.Dir)
	var (
		result *web.StatsResult
		origin string
	)

	if client := discoverServer(paths); client != nil {
		s, err := client.Stats(statsTop)
		if err != nil {
			return err
		}
		result, origin = s, "live server"
	} else {
		if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
			fmt.Println("no usage recorded yet (usage is recorded by 'rfcguide serve')")
			return nil
		}
		a, err := openApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		s := web.BuildStats(a.UsageSnapshot(), statsTop)
		result, origin = &s, paths.DB
	}

	if statsJSON {
		return writeJSON(os.Stdout, result)
	}
	fmt.Print(formatStats(result, origin, palette(useColor())))
	return nil
}
