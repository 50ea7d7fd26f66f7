package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestConfigCommandWritesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out := execute(t, "config", "--config", path, "--zone", "qeynos", "-w", "220", "-e", "/games/eq")
	assert.Contains(t, out, "Zone set to: qeynos")
	assert.Contains(t, out, "Game directory set to: /games/eq")
	assert.Contains(t, out, "Menu width set to: 220")

	store, err := config.Open(path)
	require.NoError(t, err)
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "qeynos", cfg.Zone)
	assert.Equal(t, 220.0, cfg.Menu.Width)
	assert.Equal(t, "/games/eq", cfg.EQDir)
}

func TestConfigCommandPrintsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out := execute(t, "config", "--config", path)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "contextmenu.width = 160")
	assert.Contains(t, out, "map_dir = ")
	assert.NotContains(t, out, "markers")
}

func TestPruneCommandDryRun(t *testing.T) {
	mapDir := t.TempDir()
	for _, name := range []string{"qeynos.txt", "stale.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(mapDir, name), nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(mapDir, "map_keys.json"), []byte(`{"South Qeynos": "qeynos"}`), 0o644))
	path := filepath.Join(t.TempDir(), "config.toml")
	execute(t, "config", "--config", path, "--map-dir", mapDir)

	out := execute(t, "prune", "--config", path, "-n")
	assert.Contains(t, out, "Would delete: stale.txt")
	assert.Contains(t, out, "Kept 1 files.")
	assert.FileExists(t, filepath.Join(mapDir, "stale.txt"))
}
