package ahocorasick

import (
	"testing"

	"github.com/corey/rfcguide/catalog"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Glossary linker: find catalog terms inside prose in a single pass
// =============================================================================

func testCatalog() *glossary.Catalog {
	return glossary.NewCatalog([]glossary.Entry{
		{ID: "tcp", Term: "TCP", Definition: "d", Category: glossary.CategoryProtocol},
		{ID: "ip", Term: "IP", Definition: "d", Category: glossary.CategoryProtocol},
		{ID: "three-way-handshake", Term: "Three-way Handshake", Definition: "d", Category: glossary.CategoryProtocol},
		{ID: "mtu", Term: "Maximum Transmission Unit (MTU)", Definition: "d", Category: glossary.CategoryNetwork},
		{ID: "mx-record", Term: "MX Record", Definition: "d", Category: glossary.CategoryEmail},
	})
}

func ids(l *Linker, text string) []string {
	var out []string
	for _, m := range l.Annotate(text) {
		out = append(out, m.ID)
	}
	return out
}

func TestLinker_Patterns(t *testing.T) {
	l := NewLinker(testCatalog())
	// tcp, ip: term only (id form duplicates it). three-way-handshake: term +
	// "three way handshake". mtu: term + head + "mtu". mx-record: term only.
	assert.Equal(t, 8, l.PatternCount())
	assert.Equal(t, "TCP", l.Pattern(0))
	assert.Equal(t, "", l.Pattern(-1))
	assert.Equal(t, "", l.Pattern(99))
}

func TestLinker_SingleMention(t *testing.T) {
	l := NewLinker(testCatalog())
	text := "Every TCP connection starts somewhere."
	ms := l.Annotate(text)
	require.Len(t, ms, 1)
	assert.Equal(t, "tcp", ms[0].ID)
	assert.Equal(t, "TCP", ms[0].Term)
	assert.Equal(t, "TCP", text[ms[0].Start:ms[0].End])
	assert.Equal(t, "TCP", ms[0].Text)
}

func TestLinker_CaseInsensitive(t *testing.T) {
	l := NewLinker(testCatalog())
	ms := l.Annotate("the tcp three-way handshake")
	require.Len(t, ms, 2)
	assert.Equal(t, "tcp", ms[0].ID)
	assert.Equal(t, "three-way-handshake", ms[1].ID)
	assert.Equal(t, "three-way handshake", ms[1].Text)
}

func TestLinker_WholeWordsOnly(t *testing.T) {
	l := NewLinker(testCatalog())
	assert.Empty(t, l.Annotate("ship tips and tcpdump output"), "ip inside ship/tips, tcp inside tcpdump")
	assert.Equal(t, []string{"tcp", "ip"}, ids(l, "TCP/IP stack"))
}

func TestLinker_ShorterFormWhenLongerEndsMidWord(t *testing.T) {
	l := NewLinker(glossary.NewCatalog([]glossary.Entry{
		{ID: "http", Term: "HTTP", Definition: "d", Category: glossary.CategoryWeb},
		{ID: "http-method", Term: "HTTP Method", Definition: "d", Category: glossary.CategoryWeb},
	}))

	assert.Equal(t, []string{"http"}, ids(l, "HTTP methods are verbs."))
	assert.Equal(t, []string{"http-method"}, ids(l, "HTTP method GET"))
	assert.Equal(t, []string{"http"}, ids(l, "Use HTTP now"))

	ms := l.Annotate("HTTP methods")
	require.Len(t, ms, 1)
	assert.Equal(t, "HTTP", ms[0].Text)
	assert.Equal(t, 0, ms[0].Start)
	assert.Equal(t, 4, ms[0].End)
}

func TestLinker_NonASCIINeighbours(t *testing.T) {
	l := NewLinker(testCatalog())
	assert.Empty(t, l.Annotate("éTCP"), "letter before")
	assert.Equal(t, []string{"tcp", "ip"}, ids(l, "«TCP» «IP»"))
}

func TestLinker_AlternateForms(t *testing.T) {
	l := NewLinker(testCatalog())
	assert.Equal(t, []string{"mtu", "mtu", "mtu"},
		ids(l, "The MTU, or maximum transmission unit, is the Maximum Transmission Unit (MTU) of a link."))
	assert.Equal(t, []string{"three-way-handshake"}, ids(l, "a three way handshake"))
}

func TestLinker_TextOrder(t *testing.T) {
	l := NewLinker(testCatalog())
	assert.Equal(t, []string{"mx-record", "ip", "tcp"}, ids(l, "An MX record points at a host; its IP is reached over TCP."))
}

func TestLinker_NoMatch(t *testing.T) {
	l := NewLinker(testCatalog())
	ms := l.Annotate("hello world")
	assert.NotNil(t, ms)
	assert.Empty(t, ms)
	assert.Empty(t, l.Annotate(""))
}

func TestLinker_MentionedIDs(t *testing.T) {
	l := NewLinker(testCatalog())
	assert.Equal(t, []string{"tcp", "ip"}, l.MentionedIDs("TCP over IP, then TCP again"))
}

func TestLinker_EmptyCatalog(t *testing.T) {
	l := NewLinker(glossary.NewCatalog(nil))
	assert.Equal(t, 0, l.PatternCount())
	assert.Empty(t, l.Annotate("TCP"))
}

func TestLinker_ShippedCatalog(t *testing.T) {
	c, err := glossary.LoadCatalog(catalog.FS, catalog.Version)
	require.NoError(t, err)
	l := NewLinker(c)

	got := l.MentionedIDs("STUN and TURN feed ICE candidates so peers behind NAT can talk; " +
		"the media is protected with ChaCha20-Poly1305 inside a WireGuard tunnel.")
	assert.Equal(t, []string{"stun", "turn", "ice", "nat", "chacha20-poly1305", "wireguard"}, got)
}

func TestLinker_ShippedCatalogPlurals(t *testing.T) {
	c, err := glossary.LoadCatalog(catalog.FS, catalog.Version)
	require.NoError(t, err)
	l := NewLinker(c)

	assert.Equal(t, []string{"http"}, l.MentionedIDs("HTTP methods are verbs."))
	assert.Equal(t, []string{"nat"}, l.MentionedIDs("NAT traversals are hard."))
	assert.Equal(t, []string{"http-method"}, l.MentionedIDs("HTTP method GET"))
	assert.Equal(t, []string{"nat-traversal"}, l.MentionedIDs("NAT traversal is hard."))
}

func BenchmarkAnnotate(b *testing.B) {
	c, err := glossary.LoadCatalog(catalog.FS, catalog.Version)
	require.NoError(b, err)
	l := NewLinker(c)
	text := "TCP uses a three-way handshake; UDP does not. DNS usually runs over UDP, SMTP over TCP."
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Annotate(text)
	}
}
