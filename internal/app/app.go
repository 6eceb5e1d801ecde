// Package app wires the glossary catalog, the prose linker, usage statistics
// and the outer surfaces (HTTP API, MCP tools) into one running application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corey/rfcguide/catalog"
	"github.com/corey/rfcguide/internal/adapters/ahocorasick"
	"github.com/corey/rfcguide/internal/adapters/bbolt"
	"github.com/corey/rfcguide/internal/adapters/web"
	"github.com/corey/rfcguide/internal/common"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/corey/rfcguide/internal/domain/usage"
	"github.com/corey/rfcguide/internal/ports"
	"golang.org/x/sync/errgroup"
)

// DefaultFlushInterval is how often dirty usage statistics are persisted while serving.
const DefaultFlushInterval = 30 * time.Second

// ErrCatalogInvalid is returned by Reload when the new catalog fails validation.
var ErrCatalogInvalid = errors.New("catalog failed validation")

// snapshot is the live catalog together with everything derived from it.
// It is swapped as a unit so readers never see a catalog with a stale linker.
type snapshot struct {
	catalog *glossary.Catalog
	linker  *ahocorasick.Linker
}

// App is the top-level container wiring all components together.
type App struct {
	Settings  *common.Config
	Paths     *Paths
	Store     ports.Storage // nil when opened without storage
	Tracker   *usage.Tracker
	Rate      *LookupRate
	WebServer *web.Server

	log    *common.Logger
	source string // catalog source label, also the usage storage key
	live   atomic.Pointer[snapshot]

	reloadMu      sync.Mutex // serializes Reload
	flushMu       sync.Mutex // serializes Flush
	flushInterval time.Duration
	closeStore    func() error
}

// Config holds initialization parameters for the App.
type Config struct {
	Settings *common.Config
	Logger   *common.Logger

	// WithStore opens the bbolt usage store under the state directory.
	// One-shot CLI commands leave it off so they never contend for the
	// database lock held by a running server.
	WithStore bool

	// Store overrides the bbolt store (tests). Implies WithStore.
	Store ports.Storage

	FlushInterval time.Duration // default: DefaultFlushInterval
}

// New creates an App with all dependencies wired. Does not start services.
// An initial catalog with integrity issues is accepted and the issues are
// logged; `rfcguide check` reports them in full.
func New(cfg Config) (*App, error) {
	if cfg.Settings == nil {
		cfg.Settings = common.NewDefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = common.NewSilentLogger()
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	a := &App{
		Settings:      cfg.Settings,
		Paths:         NewPaths(cfg.Settings.Storage.Dir),
		Tracker:       usage.New(),
		Rate:          NewLookupRate(DefaultRateWindow),
		log:           cfg.Logger,
		flushInterval: cfg.FlushInterval,
		closeStore:    func() error { return nil },
	}

	c, source, err := LoadCatalog(cfg.Settings.Catalog)
	if err != nil {
		return nil, err
	}
	a.source = source
	a.swap(c)

	if issues := c.Validate(); len(issues) > 0 {
		a.log.Warn().Int("issues", len(issues)).Str("catalog", source).
			Msg("Catalog has integrity issues; run 'rfcguide check'")
	}

	switch {
	case cfg.Store != nil:
		a.Store = cfg.Store
	case cfg.WithStore:
		if err := a.Paths.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		store, err := bbolt.NewStore(a.Paths.DB)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = store
		a.closeStore = store.Close
	}

	if a.Store != nil {
		stats, err := a.Store.LoadUsage(a.source)
		if err != nil {
			a.closeStore()
			return nil, fmt.Errorf("load usage: %w", err)
		}
		a.Tracker.Restore(stats)
	}

	a.WebServer = web.NewServer(a, a.log, web.Options{
		PortFilePath: a.Paths.PortFile,
		RateLimit:    cfg.Settings.API.RateLimit,
		Burst:        cfg.Settings.API.Burst,
		Gzip:         cfg.Settings.API.Gzip,
	})

	a.log.Debug().Str("catalog", source).Int("entries", c.Len()).Msg("Catalog loaded")
	return a, nil
}

// LoadCatalog loads the catalog selected by cfg: the directory cfg.Dir when
// set, otherwise the embedded catalog cfg.Version. It also returns the source
// label ("embedded:v1" or the absolute directory).
func LoadCatalog(cfg common.CatalogConfig) (*glossary.Catalog, string, error) {
	var (
		fsys   fs.FS
		dir    string
		source string
	)
	if cfg.Dir != "" {
		abs, err := filepath.Abs(cfg.Dir)
		if err != nil {
			return nil, "", err
		}
		fsys, dir, source = os.DirFS(abs), ".", abs
	} else {
		version := cfg.Version
		if version == "" {
			version = catalog.Version
		}
		fsys, dir, source = catalog.FS, version, "embedded:"+version
	}

	c, err := glossary.LoadCatalog(fsys, dir)
	if err != nil {
		return nil, "", fmt.Errorf("load catalog %s: %w", source, err)
	}
	return c, source, nil
}

func (a *App) swap(c *glossary.Catalog) {
	a.live.Store(&snapshot{
		catalog: c,
		linker:  ahocorasick.NewLinker(c),
	})
}

// Catalog returns the live catalog.
func (a *App) Catalog() *glossary.Catalog {
	return a.live.Load().catalog
}

// CatalogSource describes where the live catalog came from.
func (a *App) CatalogSource() string {
	return a.source
}

// Lookup resolves keyword against the live catalog and records the outcome.
func (a *App) Lookup(keyword string) (glossary.Entry, glossary.MatchKind) {
	e, kind := a.Catalog().Match(keyword)
	a.Rate.Record()
	if kind == glossary.MatchNone {
		a.Tracker.RecordMiss(glossary.Normalize(keyword))
	} else {
		a.Tracker.RecordHit(e.ID)
	}
	return e, kind
}

// LookupsPerMinute is the rolling lookup rate since startup or the last reset.
func (a *App) LookupsPerMinute() float64 {
	return a.Rate.PerMinute()
}

// Annotate finds glossary mentions in text using the live linker.
func (a *App) Annotate(text string) []ports.Mention {
	return a.live.Load().linker.Annotate(text)
}

// UsageSnapshot returns a copy of the current usage statistics.
func (a *App) UsageSnapshot() *ports.UsageStats {
	return a.Tracker.Snapshot()
}

// Reload re-reads the catalog from its source, validates it and swaps it in
// with a fresh linker. A catalog that fails to load or has integrity issues
// is rejected and the previous catalog stays live.
func (a *App) Reload() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	c, _, err := LoadCatalog(a.Settings.Catalog)
	if err != nil {
		return err
	}
	if issues := c.Validate(); len(issues) > 0 {
		for _, is := range issues {
			a.log.Warn().Str("kind", string(is.Kind)).Str("entry", is.EntryID).Msg(is.Detail)
		}
		return fmt.Errorf("%w: %d issues, first: %s", ErrCatalogInvalid, len(issues), issues[0])
	}

	a.swap(c)
	a.log.Info().Str("catalog", a.source).Int("entries", c.Len()).Msg("Catalog reloaded")
	return nil
}

// Flush persists usage statistics if they changed since the last flush.
// A failed save leaves them marked dirty for the next attempt.
func (a *App) Flush() error {
	if a.Store == nil {
		return nil
	}
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	stats := a.Tracker.TakeDirty()
	if stats == nil {
		return nil
	}
	if err := a.Store.SaveUsage(a.source, stats); err != nil {
		a.Tracker.MarkDirty()
		return fmt.Errorf("save usage: %w", err)
	}
	return nil
}

// ResetUsage clears usage statistics in memory and in the store.
func (a *App) ResetUsage() error {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	a.Tracker.Restore(nil)
	a.Rate.Reset()
	if a.Store == nil {
		return nil
	}
	return a.Store.DeleteUsage(a.source)
}

// Run serves the HTTP API, watches the catalog directory (when configured)
// and flushes usage periodically until ctx is cancelled. Usage is flushed a
// final time before Run returns. A listen failure is returned immediately.
func (a *App) Run(ctx context.Context) error {
	srv := a.Settings.Server
	if err := a.WebServer.Start(srv.Host, srv.Port); err != nil {
		return fmt.Errorf("start http: %w", err)
	}
	a.log.Info().Str("url", a.WebServer.URL()).Msg("HTTP API listening")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.WebServer.Serve)
	g.Go(func() error {
		<-gctx.Done()
		a.WebServer.Stop()
		return nil
	})

	if a.Settings.Catalog.Watch && a.Settings.Catalog.Dir != "" {
		w, err := newCatalogWatcher()
		if err != nil {
			a.log.Warn().Err(err).Msg("Catalog watcher unavailable")
		} else if err := w.Watch(a.Settings.Catalog.Dir, a.onCatalogChanged); err != nil {
			w.Stop()
			a.log.Warn().Err(err).Msg("Catalog watcher unavailable")
		} else {
			a.log.Info().Str("dir", a.Settings.Catalog.Dir).Msg("Watching catalog for changes")
			g.Go(func() error {
				<-gctx.Done()
				return w.Stop()
			})
		}
	}

	if a.Store != nil {
		g.Go(func() error {
			a.flushLoop(gctx)
			return nil
		})
	}

	err := g.Wait()
	if ferr := a.Flush(); ferr != nil {
		a.log.Error().Err(ferr).Msg("Final usage flush failed")
	}
	return err
}

func (a *App) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(a.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Flush(); err != nil {
				a.log.Error().Err(err).Msg("Usage flush failed")
			}
		}
	}
}

// Close flushes usage and releases the store.
func (a *App) Close() error {
	ferr := a.Flush()
	cerr := a.closeStore()
	return errors.Join(ferr, cerr)
}
