package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/rfcguide/internal/app"
	"github.com/corey/rfcguide/internal/common"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveHost    string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API until interrupted",
	Long: "Serves the glossary over HTTP, hot-reloads --catalog-dir when its files change,\n" +
		"and persists usage statistics. Stops on SIGINT or SIGTERM.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", -1, "Listen port (0 picks a free port; default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not hot-reload the catalog directory")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort >= 0 {
		settings.Server.Port = servePort
	}
	if serveHost != "" {
		settings.Server.Host = serveHost
	}
	if serveNoWatch {
		settings.Catalog.Watch = false
	}
	if err := settings.Validate(); err != nil {
		return usageError(err.Error())
	}

	paths := app.NewPaths(settings.Storage.Dir)
	if discoverServer(paths) != nil {
		return fmt.Errorf("a server is already running for %s (see: rfcguide health)", paths.Root)
	}

	if settings.Logging.FilePath == "" {
		settings.Logging.FilePath = paths.ServerLog
	}
	log, closer, err := common.NewLoggerFromConfig(settings.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = log

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	common.PrintBanner(os.Stderr, settings, common.StartupInfo{
		ServiceURL:    "http://" + settings.ListenAddr(),
		CatalogSource: a.CatalogSource(),
		Entries:       a.Catalog().Len(),
		StateDir:      paths.Root,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.Run(ctx)
	common.PrintShutdownBanner(os.Stderr, logger)
	return err
}
