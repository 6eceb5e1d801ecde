package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/corey/rfcguide/internal/common"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/corey/rfcguide/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ports.Storage.
type memStore struct {
	mu      sync.Mutex
	data    map[string]*ports.UsageStats
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]*ports.UsageStats)}
}

func (m *memStore) SaveUsage(id string, s *ports.UsageStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[id] = s
	return nil
}

func (m *memStore) LoadUsage(id string) (*ports.UsageStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[id], nil
}

func (m *memStore) DeleteUsage(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func testSettings(t *testing.T) *common.Config {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Dir = filepath.Join(t.TempDir(), ".rfcguide")
	cfg.Server.Port = 0
	return cfg
}

const protocolJSON = `[
  {"id": "tcp", "term": "TCP", "definition": "Reliable byte stream.", "category": "protocol", "relatedTerms": ["udp"]},
  {"id": "udp", "term": "UDP", "definition": "Datagrams.", "category": "protocol"}
]`

// writeCatalogDir creates a two-file catalog directory.
func writeCatalogDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-protocol.json"), []byte(protocolJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02-network.json"), []byte(
		`[{"id": "mtu", "term": "Maximum Transmission Unit (MTU)", "definition": "Largest packet.", "category": "network"}]`), 0644))
	return dir
}

// =============================================================================
// Construction and queries
// =============================================================================

func TestNew_EmbeddedCatalog(t *testing.T) {
	a, err := New(Config{Settings: testSettings(t)})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 53, a.Catalog().Len())
	assert.Equal(t, "embedded:v1", a.CatalogSource())
	assert.Nil(t, a.Store, "no store unless asked")

	var _ ports.GlossaryQueries = a
}

func TestNew_UnknownEmbeddedVersion(t *testing.T) {
	cfg := testSettings(t)
	cfg.Catalog.Version = "v9"
	_, err := New(Config{Settings: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedded:v9")
}

func TestNew_CatalogDir(t *testing.T) {
	cfg := testSettings(t)
	cfg.Catalog.Dir = writeCatalogDir(t)

	a, err := New(Config{Settings: cfg})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 3, a.Catalog().Len())
	assert.Equal(t, cfg.Catalog.Dir, a.CatalogSource())
}

func TestLookup_RecordsUsage(t *testing.T) {
	a, err := New(Config{Settings: testSettings(t)})
	require.NoError(t, err)
	defer a.Close()

	e, kind := a.Lookup("three way handshake")
	assert.Equal(t, glossary.MatchTerm, kind)
	assert.Equal(t, "three-way-handshake", e.ID)

	_, kind = a.Lookup("Q.U.I.C")
	assert.Equal(t, glossary.MatchNone, kind)

	snap := a.UsageSnapshot()
	assert.Equal(t, uint64(2), snap.Lookups)
	assert.Equal(t, uint32(1), snap.Hits["three-way-handshake"])
	assert.Equal(t, uint32(1), snap.Misses["quic"])
}

func TestAnnotate_UsesLiveCatalog(t *testing.T) {
	a, err := New(Config{Settings: testSettings(t)})
	require.NoError(t, err)
	defer a.Close()

	mentions := a.Annotate("DNS usually runs over UDP.")
	require.Len(t, mentions, 2)
	assert.Equal(t, "dns", mentions[0].ID)
	assert.Equal(t, "udp", mentions[1].ID)
}

// =============================================================================
// Reload
// =============================================================================

func TestReload_SwapsCatalogAndLinker(t *testing.T) {
	cfg := testSettings(t)
	cfg.Catalog.Dir = writeCatalogDir(t)
	a, err := New(Config{Settings: cfg})
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Annotate("SCTP is message oriented"))

	more := `[{"id": "sctp", "term": "SCTP", "definition": "Message-oriented transport.", "category": "protocol"}]`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Catalog.Dir, "03-extra.json"), []byte(more), 0644))
	require.NoError(t, a.Reload())

	assert.Equal(t, 4, a.Catalog().Len())
	_, ok := a.Catalog().Resolve("sctp")
	assert.True(t, ok)
	require.Len(t, a.Annotate("SCTP is message oriented"), 1)
}

func TestReload_RejectsBrokenCatalog(t *testing.T) {
	cfg := testSettings(t)
	cfg.Catalog.Dir = writeCatalogDir(t)
	a, err := New(Config{Settings: cfg})
	require.NoError(t, err)
	defer a.Close()

	before := a.Catalog()

	// Unparseable file
	path := filepath.Join(cfg.Catalog.Dir, "01-protocol.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "tcp",`), 0644))
	assert.Error(t, a.Reload())
	assert.Same(t, before, a.Catalog(), "old catalog stays live")

	// Parses but fails validation (dangling related term)
	dangling := strings.Replace(protocolJSON, `["udp"]`, `["sctp"]`, 1)
	require.NoError(t, os.WriteFile(path, []byte(dangling), 0644))
	err = a.Reload()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCatalogInvalid))
	assert.Contains(t, err.Error(), "dangling-related")
	assert.Same(t, before, a.Catalog())
}

// =============================================================================
// Usage persistence
// =============================================================================

func TestFlush_SavesOnlyWhenDirty(t *testing.T) {
	store := newMemStore()
	a, err := New(Config{Settings: testSettings(t), Store: store})
	require.NoError(t, err)

	require.NoError(t, a.Flush())
	assert.Equal(t, 0, store.saves, "nothing to save yet")

	a.Lookup("tcp")
	require.NoError(t, a.Flush())
	require.NoError(t, a.Flush())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, uint32(1), store.data["embedded:v1"].Hits["tcp"])
}

func TestFlush_FailureKeepsDirty(t *testing.T) {
	store := newMemStore()
	a, err := New(Config{Settings: testSettings(t), Store: store})
	require.NoError(t, err)

	a.Lookup("tcp")
	store.saveErr = errors.New("disk full")
	assert.Error(t, a.Flush())

	store.saveErr = nil
	require.NoError(t, a.Flush())
	assert.Equal(t, uint32(1), store.data["embedded:v1"].Hits["tcp"])
}

func TestNew_RestoresUsage(t *testing.T) {
	store := newMemStore()
	store.data["embedded:v1"] = &ports.UsageStats{Lookups: 5, Hits: map[string]uint32{"dns": 5}}

	a, err := New(Config{Settings: testSettings(t), Store: store})
	require.NoError(t, err)

	a.Lookup("DNS")
	assert.Equal(t, uint32(6), a.UsageSnapshot().Hits["dns"])
}

func TestResetUsage(t *testing.T) {
	store := newMemStore()
	a, err := New(Config{Settings: testSettings(t), Store: store})
	require.NoError(t, err)

	a.Lookup("tcp")
	require.NoError(t, a.Flush())
	require.NoError(t, a.ResetUsage())

	assert.Zero(t, a.UsageSnapshot().Lookups)
	assert.NotContains(t, store.data, "embedded:v1")
}

func TestBboltStore_SurvivesRestart(t *testing.T) {
	cfg := testSettings(t)

	a, err := New(Config{Settings: cfg, WithStore: true})
	require.NoError(t, err)
	a.Lookup("tcp")
	a.Lookup("nope")
	require.NoError(t, a.Close())

	_, err = os.Stat(filepath.Join(cfg.Storage.Dir, "rfcguide.db"))
	require.NoError(t, err)

	b, err := New(Config{Settings: cfg, WithStore: true})
	require.NoError(t, err)
	defer b.Close()

	snap := b.UsageSnapshot()
	assert.Equal(t, uint64(2), snap.Lookups)
	assert.Equal(t, uint32(1), snap.Hits["tcp"])
	assert.Equal(t, uint32(1), snap.Misses["nope"])
}

// =============================================================================
// Run lifecycle
// =============================================================================

func readPort(t *testing.T, path string) int {
	t.Helper()
	var port int
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		port, err = strconv.Atoi(string(data))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	return port
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	store := newMemStore()
	a, err := New(Config{Settings: testSettings(t), Store: store, FlushInterval: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	port := readPort(t, a.Paths.PortFile)
	resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/api/resolve?q=tcp")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	_, err = os.Stat(a.Paths.PortFile)
	assert.True(t, os.IsNotExist(err), "port file removed")
	require.Contains(t, store.data, "embedded:v1", "final flush on shutdown")
	assert.Equal(t, uint32(1), store.data["embedded:v1"].Hits["tcp"])
}

func TestRun_ListenFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := testSettings(t)
	cfg.Server.Port = busy.Addr().(*net.TCPAddr).Port
	a, err := New(Config{Settings: cfg})
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start http")
}

func TestRun_WatcherReloadsCatalog(t *testing.T) {
	cfg := testSettings(t)
	cfg.Catalog.Dir = writeCatalogDir(t)
	cfg.Catalog.Watch = true
	a, err := New(Config{Settings: cfg})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	readPort(t, a.Paths.PortFile)
	time.Sleep(50 * time.Millisecond)

	more := `[{"id": "sctp", "term": "SCTP", "definition": "Message-oriented transport.", "category": "protocol"}]`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Catalog.Dir, "03-extra.json"), []byte(more), 0644))

	assert.Eventually(t, func() bool {
		_, ok := a.Catalog().EntryByID("sctp")
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	<-done
}

func TestLookup_FeedsRate(t *testing.T) {
	a, err := New(Config{Settings: testSettings(t), Store: newMemStore()})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, float64(0), a.LookupsPerMinute())
	a.Lookup("tcp")
	time.Sleep(10 * time.Millisecond)
	a.Lookup("udp")
	assert.Greater(t, a.LookupsPerMinute(), float64(0))

	require.NoError(t, a.ResetUsage())
	assert.Equal(t, float64(0), a.LookupsPerMinute())
}
