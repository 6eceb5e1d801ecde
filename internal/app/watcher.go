package app

import (
	"path/filepath"

	fsw "github.com/corey/rfcguide/internal/adapters/fsnotify"
	"github.com/corey/rfcguide/internal/ports"
)

func newCatalogWatcher() (ports.Watcher, error) {
	w, err := fsw.NewWatcher()
	if err != nil {
		return nil, err
	}
	return w, nil
}

// onCatalogChanged handles a create/modify/delete of a catalog file reported
// by the watcher. A reload that fails leaves the previous catalog live, so a
// half-saved file never takes the glossary down.
func (a *App) onCatalogChanged(absPath string) {
	a.log.Debug().Str("file", filepath.Base(absPath)).Msg("Catalog file changed")
	if err := a.Reload(); err != nil {
		a.log.Warn().Err(err).Str("file", filepath.Base(absPath)).Msg("Catalog reload rejected; keeping previous catalog")
	}
}
