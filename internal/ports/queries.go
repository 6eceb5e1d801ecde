package ports

import "github.com/corey/rfcguide/internal/domain/glossary"

// Mention is one glossary term found in a piece of prose.
// Start and End are byte offsets into the scanned text (End exclusive).
type Mention struct {
	ID    string `json:"id"`
	Term  string `json:"term"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// GlossaryQueries is what the outer surfaces (HTTP API, MCP tools, CLI) need
// from the running application. Catalog returns the live catalog, which may
// be swapped by a reload between calls; callers should fetch it once per
// request.
type GlossaryQueries interface {
	Catalog() *glossary.Catalog

	// CatalogSource describes where the live catalog was loaded from
	// ("embedded:v1" or a directory path).
	CatalogSource() string

	// Lookup resolves a keyword and records the outcome in usage statistics.
	Lookup(keyword string) (glossary.Entry, glossary.MatchKind)

	// Annotate finds glossary mentions in prose using the live catalog.
	Annotate(text string) []Mention

	// LookupsPerMinute is the rolling lookup rate of this process.
	LookupsPerMinute() float64

	// UsageSnapshot returns a copy of the current usage statistics.
	UsageSnapshot() *UsageStats

	// ResetUsage clears usage statistics, including any persisted copy.
	ResetUsage() error
}
