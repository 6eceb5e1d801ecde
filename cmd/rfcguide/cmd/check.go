package cmd

import (
	"fmt"
	"os"

	"github.com/corey/rfcguide/internal/app"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/spf13/cobra"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the catalog",
	Long: "Loads the catalog (embedded, or --catalog-dir) and reports integrity issues:\n" +
		"duplicate ids or terms, dangling or self references, empty fields, malformed ids,\n" +
		"and ids that do not resolve to their own entry. Exits 1 when issues exist.",
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output issues as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	c, source, err := app.LoadCatalog(settings.Catalog)
	if err != nil {
		return err
	}
	issues := c.Validate()
	if issues == nil {
		issues = []glossary.Issue{}
	}

	if checkJSON {
		if err := writeJSON(os.Stdout, map[string]any{
			"catalog": source,
			"entries": c.Len(),
			"issues":  issues,
		}); err != nil {
			return err
		}
	} else {
		p := palette(useColor())
		if len(issues) == 0 {
			fmt.Printf("%s %s: %d entries, %d categories, no issues\n",
				p.paint(colorGreen, "✓"), source, c.Len(), len(c.Categories())-1)
		} else {
			fmt.Printf("%s %s: %d issues in %d entries\n",
				p.paint(colorRed, "✗"), source, len(issues), c.Len())
			fmt.Print(formatIssues(issues, p))
		}
	}

	if len(issues) > 0 {
		return exitError{code: 1}
	}
	return nil
}
