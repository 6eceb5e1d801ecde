package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	annotateJSON     bool
	annotateMarkdown bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [file|-]",
	Short: "Find glossary terms mentioned in a text",
	Long: "Scans a text file (or stdin) for glossary terms and lists every mention with its\n" +
		"byte offsets. --markdown rewrites the text with each mention linked to its entry.",
	Example: "  rfcguide annotate rfc793.txt\n  echo 'TCP over IPv6' | rfcguide annotate --json",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runAnnotate,
}

func init() {
	annotateCmd.Flags().BoolVar(&annotateJSON, "json", false, "Output mentions as JSON")
	annotateCmd.Flags().BoolVar(&annotateMarkdown, "markdown", false, "Print the text with mentions as Markdown links")
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		if len(args) == 0 && !isStdinPipe() {
			return nil, usageError("no input: pass a file or pipe text on stdin")
		}
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	text := string(data)
	mentions := a.Annotate(text)

	switch {
	case annotateJSON:
		return writeJSON(os.Stdout, mentions)
	case annotateMarkdown:
		fmt.Print(formatMarkdown(text, mentions))
	default:
		fmt.Print(formatMentions(mentions, palette(useColor())))
	}
	return nil
}
