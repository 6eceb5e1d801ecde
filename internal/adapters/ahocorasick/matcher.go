// Package ahocorasick finds glossary mentions in prose using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching, so
// annotating a page costs one pass over the text regardless of catalog size.
package ahocorasick

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/corey/rfcguide/internal/ports"
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Linker maps surface forms of glossary terms back to their entries.
// Each entry contributes its display term, the term without a trailing
// parenthetical ("Maximum Transmission Unit (MTU)" -> "Maximum Transmission Unit"),
// and its id with hyphens as spaces. Surface forms are deduplicated
// case-insensitively; the first entry in catalog order owns a shared form.
type Linker struct {
	mu        sync.Mutex // FindAll is not documented as safe for concurrent use
	automaton aho.AhoCorasick
	patterns  []string
	owners    []glossary.Entry // pattern index -> owning entry
}

// NewLinker compiles the automaton for every entry in c.
func NewLinker(c *glossary.Catalog) *Linker {
	l := &Linker{}
	seen := make(map[string]bool)

	add := func(form string, e glossary.Entry) {
		form = strings.TrimSpace(form)
		key := strings.ToLower(form)
		if glossary.Normalize(form) == "" || seen[key] {
			return
		}
		seen[key] = true
		l.patterns = append(l.patterns, form)
		l.owners = append(l.owners, e)
	}

	for _, e := range c.Entries() {
		add(e.Term, e)
		if i := strings.Index(e.Term, " ("); i > 0 && strings.HasSuffix(e.Term, ")") {
			add(e.Term[:i], e)
		}
		add(strings.ReplaceAll(e.ID, "-", " "), e)
	}

	if len(l.patterns) > 0 {
		// Overlapping scan: every candidate is reported and Annotate applies
		// word boundaries before choosing, so a longer form that ends mid-word
		// ("HTTP Method" in "HTTP methods") cannot hide a shorter whole word.
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			AsciiCaseInsensitive: true,
			MatchKind:            aho.StandardMatch,
			DFA:                  true,
		})
		l.automaton = builder.Build(l.patterns)
	}
	return l
}

// Annotate returns the non-overlapping glossary mentions in text, in text order.
// Only whole-word occurrences count. Among them the leftmost wins, and at the
// same start the longest, so "Three-way Handshake" is one mention rather than
// a shorter fragment.
func (l *Linker) Annotate(text string) []ports.Mention {
	if len(l.patterns) == 0 || text == "" {
		return []ports.Mention{}
	}

	type candidate struct{ start, end, pattern int }
	var cands []candidate

	l.mu.Lock()
	iter := l.automaton.IterOverlapping(text)
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		if isWholeWord(text, m.Start(), m.End()) {
			cands = append(cands, candidate{m.Start(), m.End(), m.Pattern()})
		}
	}
	l.mu.Unlock()

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].end > cands[j].end
	})

	out := make([]ports.Mention, 0, len(cands))
	last := 0
	for _, c := range cands {
		if c.start < last {
			continue
		}
		e := l.owners[c.pattern]
		out = append(out, ports.Mention{
			ID:    e.ID,
			Term:  e.Term,
			Start: c.start,
			End:   c.end,
			Text:  text[c.start:c.end],
		})
		last = c.end
	}
	return out
}

// isWholeWord reports whether text[start:end] is not glued to a letter or
// digit on either side.
func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// MentionedIDs returns the distinct entry ids mentioned in text, in order of
// first mention.
func (l *Linker) MentionedIDs(text string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range l.Annotate(text) {
		if !seen[m.ID] {
			seen[m.ID] = true
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// PatternCount returns the number of surface forms in the automaton.
func (l *Linker) PatternCount() int {
	return len(l.patterns)
}

// Pattern returns the surface form at the given index.
func (l *Linker) Pattern(idx int) string {
	if idx < 0 || idx >= len(l.patterns) {
		return ""
	}
	return l.patterns[idx]
}
