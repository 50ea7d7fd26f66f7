package maps

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type PruneResult struct {
	Kept    int
	Removed []string
}

// Prune deletes the .txt map files in dir that no zone in l covers. With
// dryRun set nothing is deleted and Removed lists what would go.
func Prune(dir string, l *Lookup, dryRun bool) (PruneResult, error) {
	var res PruneResult
	entries, err := os.ReadDir(dir)
	if err != nil {
		return res, fmt.Errorf("list map directory: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".txt") {
			continue
		}
		if l.Covers(name) {
			res.Kept++
			continue
		}
		if !dryRun {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				slog.Warn("could not delete map file", "file", name, "error", err)
				continue
			}
		}
		res.Removed = append(res.Removed, name)
	}
	return res, nil
}
