package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/corey/rfcguide/internal/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve glossary tools over MCP on stdio",
	Long: "Runs a Model Context Protocol server on stdin/stdout with the tools resolve_term,\n" +
		"get_entry, list_entries, list_categories and annotate_text. Logs go to stderr.",
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.NewServer(a, logger).Run(ctx)
}
