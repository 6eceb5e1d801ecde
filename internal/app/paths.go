package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths under the state directory
// (.rfcguide/ by default).
type Paths struct {
	Root string // .rfcguide/
	DB   string // .rfcguide/rfcguide.db

	LogDir    string // .rfcguide/log/
	ServerLog string // .rfcguide/log/server.log

	RunDir   string // .rfcguide/run/
	PortFile string // .rfcguide/run/http.port
}

// NewPaths constructs all resolved paths from a state directory.
func NewPaths(stateDir string) *Paths {
	root := filepath.Clean(stateDir)
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "rfcguide.db"),

		LogDir:    filepath.Join(root, "log"),
		ServerLog: filepath.Join(root, "log", "server.log"),

		RunDir:   filepath.Join(root, "run"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories of the state directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
