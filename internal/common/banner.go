package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

// StartupInfo is what the banner reports about the running service.
type StartupInfo struct {
	ServiceURL    string
	CatalogSource string
	Entries       int
	StateDir      string
}

// PrintBanner writes the startup banner to w and logs the same facts.
func PrintBanner(w io.Writer, config *Config, info StartupInfo, logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 56) + banner.ColorReset

	fmt.Fprintf(w, "\n%s\n\n", hr)
	fmt.Fprintf(w, "%s  rfcguide  ·  networking glossary%s\n\n", textColor, banner.ColorReset)

	kvLines := [][2]string{
		{"Version", Version},
		{"Commit", GitCommit},
		{"Environment", config.Environment},
		{"Service URL", info.ServiceURL},
		{"Catalog", fmt.Sprintf("%s (%d entries)", info.CatalogSource, info.Entries)},
		{"State", info.StateDir},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)

	logger.Info().
		Str("version", Version).
		Str("environment", config.Environment).
		Str("service_url", info.ServiceURL).
		Str("catalog", info.CatalogSource).
		Int("entries", info.Entries).
		Msg("Service started")
}

// PrintShutdownBanner writes the shutdown banner to w.
func PrintShutdownBanner(w io.Writer, logger *Logger) {
	hr := banner.ColorCyan + strings.Repeat("═", 32) + banner.ColorReset
	fmt.Fprintf(w, "\n%s\n%s  rfcguide shutting down%s\n%s\n\n",
		hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)
	logger.Info().Msg("Service shutting down")
}
