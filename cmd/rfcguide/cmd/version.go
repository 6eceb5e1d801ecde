package cmd

import (
	"fmt"

	"github.com/corey/rfcguide/internal/common"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rfcguide " + common.GetFullVersion())
	},
}
