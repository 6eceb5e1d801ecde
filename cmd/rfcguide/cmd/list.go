package cmd

import (
	"fmt"
	"os"

	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	listSearch   string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, optionally filtered by category and search text",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "all", "Category: protocol, network, security, web, email, general or all")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive substring of term or definition")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := glossary.ParseFilter(listCategory)
	if err != nil {
		return usageError(err.Error())
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.Catalog().Search(listSearch, cat)
	if listJSON {
		return writeJSON(os.Stdout, entries)
	}
	fmt.Print(formatEntryList(entries, palette(useColor())))
	return nil
}
