package eqlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// zoneScanBytes is how much of the log tail InitialZone looks at.
	zoneScanBytes = 50000
	// backfillBytes is how far before the end a newly followed log is read
	// from, so the zone line printed right at login is not missed.
	backfillBytes = 5000

	defaultPollInterval = 3 * time.Second
)

// ErrNoLogs is returned when neither the game directory nor its Logs
// subdirectory holds an eqlog file.
var ErrNoLogs = errors.New("no eqlog files found")

var zoneRe = regexp.MustCompile(`You have entered (.+)\.`)

type Line struct {
	Text string
	Time time.Time
}

// Reader follows the newest eqlog_*.txt in a game directory, switching
// files when another character logs in.
type Reader struct {
	Dir string

	// PollInterval is how often the newest log is checked for when no file
	// events arrive.
	PollInterval time.Duration

	log *slog.Logger
}

func NewReader(dir string, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	return &Reader{Dir: dir, PollInterval: defaultPollInterval, log: log}
}

func (r *Reader) dirs() []string {
	return []string{r.Dir, filepath.Join(r.Dir, "Logs")}
}

// LatestLog returns the most recently written log, checking the game
// directory before its Logs subdirectory.
func (r *Reader) LatestLog() (string, error) {
	for _, dir := range r.dirs() {
		if path, ok := newestLog(dir); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", r.Dir, ErrNoLogs)
}

func newestLog(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var logs []candidate
	for _, e := range entries {
		if e.IsDir() || !IsLogName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		logs = append(logs, candidate{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	if len(logs) == 0 {
		return "", false
	}
	newest := slices.MaxFunc(logs, func(a, b candidate) int { return a.mod.Compare(b.mod) })
	return newest.path, true
}

// IsLogName reports whether name looks like eqlog_<character>_<server>.txt.
func IsLogName(name string) bool {
	return strings.HasPrefix(name, "eqlog") && strings.HasSuffix(name, ".txt")
}

// InitialZone returns the last zone entered according to the tail of the
// newest log, or "" when it names none.
func (r *Reader) InitialZone() (string, error) {
	path, err := r.LatestLog()
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if err := seekTail(f, zoneScanBytes); err != nil {
		return "", err
	}

	var zone string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if m := zoneRe.FindStringSubmatch(sc.Text()); m != nil {
			zone = m[1]
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("scan log %s: %w", filepath.Base(path), err)
	}
	if zone != "" {
		r.log.Info("detected zone from log history", "zone", zone, "log", filepath.Base(path))
	}
	return zone, nil
}

// seekTail positions f n bytes before its end, or at the start of a
// shorter file.
func seekTail(f *os.File, n int64) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}
	if _, err := f.Seek(max(info.Size()-n, 0), io.SeekStart); err != nil {
		return fmt.Errorf("seek log: %w", err)
	}
	return nil
}

// tail is the log currently being followed.
type tail struct {
	path    string
	f       *os.File
	r       *bufio.Reader
	pending string
}

func (t *tail) close() {
	if t.f != nil {
		t.f.Close()
	}
	*t = tail{}
}

// Run sends every complete line appended to the newest log until ctx is
// done. Blank lines are skipped.
func (r *Reader) Run(ctx context.Context, out chan<- Line) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch logs: %w", err)
	}
	defer watcher.Close()
	for _, dir := range r.dirs() {
		if err := watcher.Add(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("cannot watch log directory", "dir", dir, "error", err)
		}
	}

	var t tail
	defer t.close()
	r.follow(&t)

	ticker := time.NewTicker(r.PollInterval)
	defer ticker.Stop()

	for {
		if err := r.drain(ctx, &t, out); err != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && IsLogName(filepath.Base(ev.Name)) {
				r.follow(&t)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("log watcher failed", "error", err)
		case <-ticker.C:
			r.follow(&t)
		}
	}
}

// follow switches t to the newest log when that is a different file.
func (r *Reader) follow(t *tail) {
	path, err := r.LatestLog()
	if err != nil || path == t.path {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		r.log.Error("cannot open log", "log", path, "error", err)
		return
	}
	if err := seekTail(f, backfillBytes); err != nil {
		f.Close()
		r.log.Error("cannot read log", "log", path, "error", err)
		return
	}

	t.close()
	t.path, t.f, t.r = path, f, bufio.NewReader(f)
	if pos, _ := f.Seek(0, io.SeekCurrent); pos > 0 {
		// the backfill most likely starts mid line
		t.r.ReadString('\n')
	}
	r.log.Info("following log", "log", filepath.Base(path))
}

// drain sends what has been appended to t since the last call. A trailing
// partial line is kept until its newline arrives. The error is ctx's.
func (r *Reader) drain(ctx context.Context, t *tail, out chan<- Line) error {
	if t.r == nil {
		return ctx.Err()
	}
	for {
		s, err := t.r.ReadString('\n')
		if err != nil {
			t.pending += s
			if !errors.Is(err, io.EOF) {
				r.log.Warn("reading log failed", "log", filepath.Base(t.path), "error", err)
			}
			return ctx.Err()
		}
		text := strings.TrimSpace(t.pending + s)
		t.pending = ""
		if text == "" {
			continue
		}
		select {
		case out <- Line{Text: text, Time: time.Now()}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
