package cmd

import (
	"fmt"
	"os"

	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/spf13/cobra"
)

var categoriesJSON bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with entry counts",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "Output as JSON")
}

func runCategories(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.Catalog()
	if categoriesJSON {
		counts := c.CategoryCounts()
		type row struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}
		var rows []row
		for _, cat := range c.Categories() {
			n := counts[cat]
			if cat == glossary.CategoryAll {
				n = c.Len()
			}
			rows = append(rows, row{Name: cat.String(), Count: n})
		}
		return writeJSON(os.Stdout, rows)
	}
	fmt.Print(formatCategories(c, palette(useColor())))
	return nil
}
