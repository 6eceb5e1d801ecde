package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/corey/rfcguide/internal/adapters/web"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/corey/rfcguide/internal/domain/usage"
	"github.com/corey/rfcguide/internal/ports"
	"github.com/stretchr/testify/assert"
)

func TestPalette_Plain(t *testing.T) {
	assert.Equal(t, "tcp", palette(false).paint(colorBold, "tcp"))
	assert.Equal(t, colorBold+"tcp"+colorReset, palette(true).paint(colorBold, "tcp"))
}

func TestWrap(t *testing.T) {
	out := wrap("one two three four five", 10, "  ")
	assert.Equal(t, "  one two\n  three\n  four\n  five\n", out)
	assert.Equal(t, "", wrap("   ", 10, "  "))
}

func TestWrap_LongWordKeepsLine(t *testing.T) {
	out := wrap("supercalifragilistic", 5, "")
	assert.Equal(t, "supercalifragilistic\n", out)
}

func TestFormatEntry(t *testing.T) {
	e := glossary.Entry{ID: "tcp", Term: "TCP", Definition: "Transmission Control Protocol.", Category: glossary.CategoryProtocol}
	related := []glossary.Entry{{ID: "ip", Term: "IP"}, {ID: "udp", Term: "UDP"}}

	out := formatEntry(e, related, false)
	assert.Contains(t, out, "TCP  protocol  (tcp)\n")
	assert.Contains(t, out, "  Transmission Control Protocol.\n")
	assert.Contains(t, out, "related: IP · UDP")

	out = formatEntry(e, nil, false)
	assert.NotContains(t, out, "related:")
}

func TestFormatEntryList(t *testing.T) {
	assert.Equal(t, "no entries\n", formatEntryList(nil, false))

	out := formatEntryList([]glossary.Entry{
		{ID: "tcp", Term: "TCP", Category: glossary.CategoryProtocol},
		{ID: "three-way-handshake", Term: "Three-way Handshake", Category: glossary.CategoryProtocol},
	}, false)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "  tcp"+strings.Repeat(" ", 18)+"TCP  protocol", lines[0])
	assert.Equal(t, "2 entries", lines[2])
}

func TestFormatMentions(t *testing.T) {
	assert.Equal(t, "no glossary terms found\n", formatMentions(nil, false))

	out := formatMentions([]ports.Mention{{ID: "tcp", Term: "TCP", Start: 4, End: 7, Text: "TCP"}}, false)
	assert.Contains(t, out, "TCP → tcp")
	assert.Contains(t, out, "1 mentions")
}

func TestFormatMarkdown(t *testing.T) {
	text := "Use TCP over IP."
	mentions := []ports.Mention{
		{ID: "tcp", Start: 4, End: 7, Text: "TCP"},
		{ID: "ip", Start: 13, End: 15, Text: "IP"},
	}
	assert.Equal(t, "Use [TCP](#tcp) over [IP](#ip).", formatMarkdown(text, mentions))
	assert.Equal(t, text, formatMarkdown(text, nil))
}

func TestFormatIssues(t *testing.T) {
	out := formatIssues([]glossary.Issue{
		{Kind: glossary.IssueDanglingRef, EntryID: "tcp", Detail: `related term "ipx" does not exist`},
	}, false)
	assert.Equal(t, "  dangling-related [tcp] related term \"ipx\" does not exist\n", out)
}

func TestFormatStats(t *testing.T) {
	s := &web.StatsResult{
		Lookups:        12,
		DistinctHits:   2,
		DistinctMisses: 1,
		TopHits:        []usage.Count{{Key: "tcp", Count: 9}},
		TopMisses:      []usage.Count{{Key: "ipx", Count: 3}},
	}
	out := formatStats(s, "live server", false)
	assert.Contains(t, out, "rfcguide usage (live server)")
	assert.Contains(t, out, "Lookups:   12")
	assert.Contains(t, out, "Top entries")
	assert.Contains(t, out, "     9  tcp")
	assert.Contains(t, out, "     3  ipx")

	out = formatStats(&web.StatsResult{}, "store", false)
	assert.NotContains(t, out, "Top entries")
	assert.NotContains(t, out, "Top misses")
}

func TestExitStatus(t *testing.T) {
	code, msg := ExitStatus(notFound())
	assert.Equal(t, 1, code)
	assert.Empty(t, msg)

	code, msg = ExitStatus(usageError("unknown category \"bogus\""))
	assert.Equal(t, 2, code)
	assert.Equal(t, "unknown category \"bogus\"", msg)

	code, msg = ExitStatus(errors.New("boom"))
	assert.Equal(t, 1, code)
	assert.Equal(t, "boom", msg)
}
