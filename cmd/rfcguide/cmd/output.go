package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/corey/rfcguide/internal/adapters/web"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/corey/rfcguide/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

const wrapWidth = 76

// palette applies colors only when enabled, so formatters stay testable.
type palette bool

func (p palette) paint(code, s string) string {
	if !p {
		return s
	}
	return code + s + colorReset
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// wrap breaks s into lines of at most width columns, each prefixed by indent.
func wrap(s string, width int, indent string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var sb strings.Builder
	line := indent
	for _, w := range words {
		if len(line) > len(indent) && len(line)+1+len(w) > width {
			sb.WriteString(line)
			sb.WriteString("\n")
			line = indent
		}
		if len(line) > len(indent) {
			line += " "
		}
		line += w
	}
	sb.WriteString(line)
	sb.WriteString("\n")
	return sb.String()
}

// formatEntry renders one entry with its definition and related terms.
//
//	TCP  protocol  (tcp)
//	  Transmission Control Protocol ...
//	  related: IP · UDP · Three-way Handshake
func formatEntry(e glossary.Entry, related []glossary.Entry, p palette) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s  %s\n",
		p.paint(colorBold, e.Term),
		p.paint(colorCyan, e.Category.String()),
		p.paint(colorGray, "("+e.ID+")"))
	sb.WriteString(wrap(e.Definition, wrapWidth, "  "))
	if len(related) > 0 {
		terms := make([]string, len(related))
		for i, r := range related {
			terms[i] = r.Term
		}
		fmt.Fprintf(&sb, "  %s %s\n", p.paint(colorGray, "related:"), strings.Join(terms, " · "))
	}
	return sb.String()
}

// formatEntryList renders one line per entry: id, term and category.
func formatEntryList(entries []glossary.Entry, p palette) string {
	if len(entries) == 0 {
		return "no entries\n"
	}
	idWidth := 0
	for _, e := range entries {
		if len(e.ID) > idWidth {
			idWidth = len(e.ID)
		}
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "  %s  %s  %s\n",
			p.paint(colorGray, fmt.Sprintf("%-*s", idWidth, e.ID)),
			e.Term,
			p.paint(colorCyan, e.Category.String()))
	}
	fmt.Fprintf(&sb, "%d entries\n", len(entries))
	return sb.String()
}

// formatCategories renders the category filter list with counts.
func formatCategories(c *glossary.Catalog, p palette) string {
	counts := c.CategoryCounts()
	var sb strings.Builder
	for _, cat := range c.Categories() {
		n := counts[cat]
		if cat == glossary.CategoryAll {
			n = c.Len()
		}
		fmt.Fprintf(&sb, "  %-10s %s\n", cat, p.paint(colorGray, fmt.Sprintf("%3d", n)))
	}
	return sb.String()
}

// formatMentions lists mentions one per line with byte offsets.
func formatMentions(mentions []ports.Mention, p palette) string {
	if len(mentions) == 0 {
		return "no glossary terms found\n"
	}
	var sb strings.Builder
	for _, m := range mentions {
		fmt.Fprintf(&sb, "  %s  %s → %s\n",
			p.paint(colorGray, fmt.Sprintf("%5d-%-5d", m.Start, m.End)),
			p.paint(colorBold, m.Text),
			p.paint(colorCyan, m.ID))
	}
	fmt.Fprintf(&sb, "%d mentions\n", len(mentions))
	return sb.String()
}

// formatMarkdown rewrites text with each mention turned into a Markdown
// link to its glossary anchor: "TCP" becomes "[TCP](#tcp)".
func formatMarkdown(text string, mentions []ports.Mention) string {
	var sb strings.Builder
	last := 0
	for _, m := range mentions {
		sb.WriteString(text[last:m.Start])
		fmt.Fprintf(&sb, "[%s](#%s)", m.Text, m.ID)
		last = m.End
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// formatIssues renders catalog validation findings.
func formatIssues(issues []glossary.Issue, p palette) string {
	var sb strings.Builder
	for _, is := range issues {
		fmt.Fprintf(&sb, "  %s %s %s\n",
			p.paint(colorRed, string(is.Kind)),
			p.paint(colorBold, "["+is.EntryID+"]"),
			is.Detail)
	}
	return sb.String()
}

// formatStats renders usage statistics.
func formatStats(s *web.StatsResult, origin string, p palette) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", p.paint(colorBold, "rfcguide usage"), p.paint(colorGray, "("+origin+")"))
	fmt.Fprintf(&sb, "  Lookups:   %d\n", s.Lookups)
	fmt.Fprintf(&sb, "  Hits:      %d distinct entries\n", s.DistinctHits)
	fmt.Fprintf(&sb, "  Misses:    %d distinct keywords\n", s.DistinctMisses)

	if len(s.TopHits) > 0 {
		sb.WriteString("\n  Top entries\n")
		for _, c := range s.TopHits {
			fmt.Fprintf(&sb, "    %6d  %s\n", c.Count, p.paint(colorGreen, c.Key))
		}
	}
	if len(s.TopMisses) > 0 {
		sb.WriteString("\n  Top misses (not in the glossary)\n")
		for _, c := range s.TopMisses {
			fmt.Fprintf(&sb, "    %6d  %s\n", c.Count, p.paint(colorYellow, c.Key))
		}
	}
	return sb.String()
}

// formatHealth renders the running server's health.
func formatHealth(h *web.HealthResult, url string, p palette) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s rfcguide server %s\n", p.paint(colorGreen, "✓"), h.Status)
	fmt.Fprintf(&sb, "  URL:       %s\n", url)
	fmt.Fprintf(&sb, "  Version:   %s\n", h.Version)
	fmt.Fprintf(&sb, "  Catalog:   %s (%d entries)\n", h.Catalog, h.Entries)
	fmt.Fprintf(&sb, "  Uptime:    %s\n", h.Uptime)
	fmt.Fprintf(&sb, "  Lookups:   %.1f/min\n", h.LookupsPerMin)
	return sb.String()
}
