package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/rfcguide/internal/app"
	"github.com/corey/rfcguide/internal/common"
	"github.com/spf13/cobra"
)

var (
	configPath string
	catalogDir string
	logLevel   string
	noColor    bool

	settings *common.Config
	logger   *common.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rfcguide",
	Short: "rfcguide: networking glossary for RFC readers",
	Long: "Resolve networking terms as they appear in RFCs, annotate prose with glossary\n" +
		"links, and serve the glossary as a JSON API or as MCP tools.",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "rfcguide.toml", "Config file (TOML); missing file uses defaults")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "Load the catalog from this directory instead of the embedded one")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(err.Error())
	})
	for _, c := range rootCmd.Commands() {
		wrapArgs(c)
	}
}

// wrapArgs makes positional-argument errors usage errors (exit 2).
func wrapArgs(c *cobra.Command) {
	validate := c.Args
	if validate == nil {
		return
	}
	c.Args = func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err.Error())
		}
		return nil
	}
}

// loadSettings resolves configuration: defaults, config file, RFCGUIDE_*
// environment, then flags. One-shot commands log at warn unless asked.
func loadSettings(cmd *cobra.Command, args []string) error {
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return usageError(err.Error())
	}
	if catalogDir != "" {
		cfg.Catalog.Dir = catalogDir
	}
	switch {
	case logLevel != "":
		cfg.Logging.Level = logLevel
	case cmd.Name() != "serve" && os.Getenv("RFCGUIDE_LOG_LEVEL") == "":
		cfg.Logging.Level = "warn"
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err.Error())
	}

	settings = cfg
	logger = common.NewLogger(cfg.Logging.Level)
	return nil
}

// openApp builds the application. withStore opens the usage database, which
// fails with a diagnosis when a running server holds its lock.
func openApp(withStore bool) (*app.App, error) {
	a, err := app.New(app.Config{
		Settings:  settings,
		Logger:    logger,
		WithStore: withStore,
	})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(app.NewPaths(settings.Storage.Dir)))
		}
		return nil, err
	}
	return a, nil
}

// useColor reports whether stdout output should carry ANSI colors.
func useColor() bool {
	return !noColor && os.Getenv("NO_COLOR") == "" && isStdoutTTY()
}
