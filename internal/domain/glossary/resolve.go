package glossary

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// MatchKind records which stage of resolution produced a result.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchTerm           // normalized keyword equals an entry's normalized term
	MatchID             // normalized keyword equals an entry id
)

func (k MatchKind) String() string {
	switch k {
	case MatchTerm:
		return "term"
	case MatchID:
		return "id"
	default:
		return "none"
	}
}

// Match resolves keyword and reports how it matched.
//
// The keyword is normalized, then compared against normalized display terms;
// the first entry in catalog order wins. If no term matches, the normalized
// keyword is tried as an entry id. A keyword that normalizes to "" never
// matches.
func (c *Catalog) Match(keyword string) (Entry, MatchKind) {
	key := Normalize(keyword)
	if key == "" {
		return Entry{}, MatchNone
	}
	if i, ok := c.byTerm[key]; ok {
		return c.entries[i], MatchTerm
	}
	if i, ok := c.byID[key]; ok {
		return c.entries[i], MatchID
	}
	return Entry{}, MatchNone
}

// Resolve finds the best entry for a free-text keyword.
// A miss is reported as false, never as an error: prose mentions words that
// are not glossary terms all the time.
func (c *Catalog) Resolve(keyword string) (Entry, bool) {
	e, kind := c.Match(keyword)
	return e, kind != MatchNone
}

// EntryByID returns the entry with exactly this id.
func (c *Catalog) EntryByID(id string) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// FilterByCategory returns every entry in category cat, in catalog order.
// CategoryAll returns the whole catalog. A category with no entries, or a
// value outside the closed set, yields an empty slice.
func (c *Catalog) FilterByCategory(cat Category) []Entry {
	bm := c.rows(cat)
	if bm == nil {
		return []Entry{}
	}
	return c.collect(bm, nil)
}

// Categories returns the CategoryAll sentinel followed by every category
// that has at least one entry, in canonical order.
func (c *Catalog) Categories() []Category {
	out := []Category{CategoryAll}
	for _, cat := range categoryOrder {
		if bm, ok := c.byCategory[cat]; ok && !bm.IsEmpty() {
			out = append(out, cat)
		}
	}
	return out
}

// Search is the glossary page filter: entries in cat (or all of them for
// CategoryAll) whose term or definition contains query, ignoring case.
// An empty or blank query matches every entry. Catalog order is preserved.
func (c *Catalog) Search(query string, cat Category) []Entry {
	bm := c.rows(cat)
	if bm == nil {
		return []Entry{}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.collect(bm, nil)
	}
	return c.collect(bm, func(e Entry) bool {
		return strings.Contains(strings.ToLower(e.Term), q) ||
			strings.Contains(strings.ToLower(e.Definition), q)
	})
}

// Related returns the entries referenced by id's relatedTerms, in order.
// Dangling references are skipped.
func (c *Catalog) Related(id string) []Entry {
	e, ok := c.EntryByID(id)
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(e.RelatedTerms))
	for _, rel := range e.RelatedTerms {
		if r, ok := c.EntryByID(rel); ok {
			out = append(out, r)
		}
	}
	return out
}

func (c *Catalog) rows(cat Category) *roaring.Bitmap {
	if cat == CategoryAll {
		return c.all
	}
	return c.byCategory[cat]
}
