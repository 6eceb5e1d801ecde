// Package glossary is the term catalog behind the RFC guide. The catalog is
// loaded once from embedded JSON files and never mutated; every lookup is a
// pure function over it, so a *Catalog is safe for concurrent use without
// locking.
//
// Resolution is normalization-based: display terms like "Three-way Handshake"
// and loosely formatted keywords like "three way handshake!" both reduce to
// the same alphanumeric key. There is no fuzzy or edit-distance matching.
package glossary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Entry is one glossary term. The JSON field names are the catalog file format.
// Entries handed out by a Catalog share its RelatedTerms backing array and
// must be treated as read-only.
type Entry struct {
	ID           string   `json:"id"`
	Term         string   `json:"term"`
	Definition   string   `json:"definition"`
	Category     Category `json:"category"`
	RelatedTerms []string `json:"relatedTerms,omitempty"`
}

// Catalog is the ordered entry list plus the indexes derived from it.
type Catalog struct {
	entries []Entry

	byID   map[string]int // id -> position; duplicate ids: last write wins
	byTerm map[string]int // normalized term -> position; first write wins

	// Category posting lists over entry positions. Iteration is ascending,
	// which is catalog order.
	byCategory map[Category]*roaring.Bitmap
	all        *roaring.Bitmap
}

// NewCatalog builds a catalog and its indexes from entries in catalog order.
// The input is copied. Construction never fails; integrity problems such as
// duplicate ids are reported by Validate, not here.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{
		entries:    make([]Entry, len(entries)),
		byID:       make(map[string]int, len(entries)),
		byTerm:     make(map[string]int, len(entries)),
		byCategory: make(map[Category]*roaring.Bitmap),
		all:        roaring.New(),
	}

	for i, e := range entries {
		if e.RelatedTerms != nil {
			e.RelatedTerms = append([]string(nil), e.RelatedTerms...)
		}
		c.entries[i] = e

		c.byID[e.ID] = i
		if key := Normalize(e.Term); key != "" {
			if _, taken := c.byTerm[key]; !taken {
				c.byTerm[key] = i
			}
		}

		bm, ok := c.byCategory[e.Category]
		if !ok {
			bm = roaring.New()
			c.byCategory[e.Category] = bm
		}
		bm.Add(uint32(i))
		c.all.Add(uint32(i))
	}

	for _, bm := range c.byCategory {
		bm.RunOptimize()
	}
	c.all.RunOptimize()

	return c
}

// LoadCatalog reads all JSON files from an fs.FS directory and builds the catalog.
// Files are loaded in sorted name order and their entries concatenated, which
// defines catalog order. Returns an error if any file fails to parse, if an
// entry has an unknown category or field, or if the catalog is empty.
func LoadCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	dirEntries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir %q: %w", dir, err)
	}

	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	var all []Entry

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}

		path := de.Name()
		if dir != "." && dir != "" {
			path = dir + "/" + de.Name()
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", de.Name(), err)
		}

		var entries []Entry
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", de.Name(), err)
		}

		all = append(all, entries...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("catalog is empty: no entries found in %q", dir)
	}

	return NewCatalog(all), nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns every entry in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// CategoryCounts returns the number of entries per category present.
func (c *Catalog) CategoryCounts() map[Category]int {
	counts := make(map[Category]int, len(c.byCategory))
	for cat, bm := range c.byCategory {
		counts[cat] = int(bm.GetCardinality())
	}
	return counts
}

// collect materializes the entries at the positions in bm, in ascending order.
func (c *Catalog) collect(bm *roaring.Bitmap, keep func(Entry) bool) []Entry {
	out := make([]Entry, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		e := c.entries[it.Next()]
		if keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	return out
}
