package maps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pruneFixture(t *testing.T) (string, *Lookup) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"oot.txt", "OOT_2.txt", "ootbeta.txt", "stale.txt", "map_keys.json"} {
		writeMap(t, dir, name, "")
	}
	lookupPath := filepath.Join(t.TempDir(), "map_keys.json")
	require.NoError(t, os.WriteFile(lookupPath, []byte(`{"Ocean of Tears": "oot"}`), 0o644))
	l, err := LoadLookup(lookupPath)
	require.NoError(t, err)
	return dir, l
}

func TestCovers(t *testing.T) {
	_, l := pruneFixture(t)
	assert.True(t, l.Covers("oot.txt"))
	assert.True(t, l.Covers("OOT_1.TXT"))
	assert.False(t, l.Covers("ootbeta.txt"))
	assert.False(t, (*Lookup)(nil).Covers("oot.txt"))
}

func TestPruneDryRun(t *testing.T) {
	dir, l := pruneFixture(t)

	res, err := Prune(dir, l, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Kept)
	assert.ElementsMatch(t, []string{"ootbeta.txt", "stale.txt"}, res.Removed)
	assert.FileExists(t, filepath.Join(dir, "stale.txt"))
}

func TestPruneDeletes(t *testing.T) {
	dir, l := pruneFixture(t)

	res, err := Prune(dir, l, false)
	require.NoError(t, err)
	assert.Len(t, res.Removed, 2)
	assert.NoFileExists(t, filepath.Join(dir, "stale.txt"))
	assert.FileExists(t, filepath.Join(dir, "OOT_2.txt"))
	assert.FileExists(t, filepath.Join(dir, "map_keys.json"))
}
