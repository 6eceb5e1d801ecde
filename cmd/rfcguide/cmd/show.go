package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an entry by exact id",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.Catalog()
	e, ok := c.EntryByID(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "no entry with id %q (try: rfcguide lookup %s)\n", args[0], args[0])
		return notFound()
	}

	if showJSON {
		return writeJSON(os.Stdout, map[string]any{"entry": e, "related": c.Related(e.ID)})
	}
	fmt.Print(formatEntry(e, c.Related(e.ID), palette(useColor())))
	return nil
}
