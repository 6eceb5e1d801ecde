package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/spf13/cobra"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <keyword...>",
	Short: "Resolve a term by free-text keyword",
	Long: "Resolves a keyword the way the glossary links do: case, spaces and punctuation are\n" +
		"ignored, display terms are tried first, then entry ids. Exits 1 when nothing matches.",
	Example: "  rfcguide lookup three way handshake\n  rfcguide lookup MTU --json",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Output as JSON")
}

type lookupResult struct {
	Query   string           `json:"query"`
	Key     string           `json:"key"`
	Found   bool             `json:"found"`
	Match   string           `json:"match"`
	Entry   *glossary.Entry  `json:"entry,omitempty"`
	Related []glossary.Entry `json:"related,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	e, kind := a.Lookup(query)
	found := kind != glossary.MatchNone

	if lookupJSON {
		res := lookupResult{Query: query, Key: glossary.Normalize(query), Found: found, Match: kind.String()}
		if found {
			res.Entry = &e
			res.Related = a.Catalog().Related(e.ID)
		}
		if err := writeJSON(os.Stdout, res); err != nil {
			return err
		}
	} else if found {
		fmt.Print(formatEntry(e, a.Catalog().Related(e.ID), palette(useColor())))
	} else {
		fmt.Fprintf(os.Stderr, "no glossary entry for %q\n", query)
	}

	if !found {
		return notFound()
	}
	return nil
}
