// Package catalog embeds the shipped glossary for compile-time inclusion.
// The catalog is a set of JSON files, one per subject area, each holding an
// ordered array of entries. File names carry a numeric prefix so that sorted
// load order is the display order of the glossary.
//
// Usage:
//
//	glossary.LoadCatalog(catalog.FS, catalog.Version)
package catalog

import "embed"

// Version is the directory of the current catalog inside FS.
const Version = "v1"

//go:embed v1/*.json
var FS embed.FS
