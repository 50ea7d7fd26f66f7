package eqlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietReader(dir string) *Reader {
	r := NewReader(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.PollInterval = 10 * time.Millisecond
	return r
}

func writeLog(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func next(t *testing.T, lines <-chan Line) string {
	t.Helper()
	select {
	case l := <-lines:
		return l.Text
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no log line arrived")
		return ""
	}
}

func TestLatestLog(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeLog(t, filepath.Join(dir, "eqlog_Old_server.txt"), "", now.Add(-time.Hour))
	writeLog(t, filepath.Join(dir, "eqlog_New_server.txt"), "", now)
	writeLog(t, filepath.Join(dir, "notes.txt"), "", now.Add(time.Hour))

	got, err := quietReader(dir).LatestLog()
	require.NoError(t, err)
	assert.Equal(t, "eqlog_New_server.txt", filepath.Base(got))
}

func TestLatestLogFallsBackToLogsDir(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "Logs", "eqlog_Bob_server.txt"), "", time.Now())

	got, err := quietReader(dir).LatestLog()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Logs", "eqlog_Bob_server.txt"), got)
}

func TestLatestLogWithoutLogs(t *testing.T) {
	_, err := quietReader(t.TempDir()).LatestLog()
	assert.ErrorIs(t, err, ErrNoLogs)
}

func TestInitialZoneIsTheLastEntered(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "eqlog_Bob_server.txt"),
		"[Mon] You have entered North Qeynos.\n[Mon] Your Location is 1, 2, 3\n[Mon] You have entered West Freeport.\n",
		time.Now())

	zone, err := quietReader(dir).InitialZone()
	require.NoError(t, err)
	assert.Equal(t, "West Freeport", zone)
}

func TestRunFollowsAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eqlog_Bob_server.txt")
	writeLog(t, path, "first\n\nsecond\nthi", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	lines := make(chan Line, 10)
	done := make(chan error, 1)
	go func() { done <- quietReader(dir).Run(ctx, lines) }()

	assert.Equal(t, "first", next(t, lines))
	assert.Equal(t, "second", next(t, lines))

	appendLog(t, path, "rd\nfourth\n")
	assert.Equal(t, "third", next(t, lines))
	assert.Equal(t, "fourth", next(t, lines))

	cancel()
	assert.NoError(t, <-done)
}

func TestRunSwitchesToNewerLog(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "eqlog_Bob_server.txt"), "from bob\n", time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lines := make(chan Line, 10)
	go quietReader(dir).Run(ctx, lines)
	require.Equal(t, "from bob", next(t, lines))

	writeLog(t, filepath.Join(dir, "eqlog_Ann_server.txt"), "from ann\n", time.Now().Add(time.Hour))
	assert.Equal(t, "from ann", next(t, lines))
}
