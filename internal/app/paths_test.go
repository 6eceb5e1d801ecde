package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/srv/.rfcguide/")
	assert.Equal(t, filepath.Join("/srv", ".rfcguide"), p.Root)
	assert.Equal(t, filepath.Join("/srv", ".rfcguide", "rfcguide.db"), p.DB)
	assert.Equal(t, filepath.Join("/srv", ".rfcguide", "log"), p.LogDir)
	assert.Equal(t, filepath.Join("/srv", ".rfcguide", "log", "server.log"), p.ServerLog)
	assert.Equal(t, filepath.Join("/srv", ".rfcguide", "run"), p.RunDir)
	assert.Equal(t, filepath.Join("/srv", ".rfcguide", "run", "http.port"), p.PortFile)
}

func TestEnsureDirs(t *testing.T) {
	p := NewPaths(filepath.Join(t.TempDir(), ".rfcguide"))

	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent
	require.NoError(t, p.EnsureDirs())
}
