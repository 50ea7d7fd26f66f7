package parser

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/devin-hart/nox-contextmenu/internal/eqlog"
)

var (
	locRe  = regexp.MustCompile(`Your Location is ([0-9.-]+), ([0-9.-]+), ([0-9.-]+)`)
	zoneRe = regexp.MustCompile(`You have entered (.+)\.`)
)

// minHeadingStep is how far, in zone units, the player must move before
// the heading is recomputed.
const minHeadingStep = 0.1

// PlayerState is where the log last put the player, in zone coordinates.
type PlayerState struct {
	X, Y, Z     float64
	Heading     float64
	Zone        string
	HasPosition bool

	CorpseX, CorpseY float64
	HasCorpse        bool
}

// Engine turns log lines into player state. It is safe to read State
// while Run feeds it from another goroutine.
type Engine struct {
	mu    sync.RWMutex
	state PlayerState
	log   *slog.Logger
}

func NewEngine(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{log: log}
}

// State returns a copy of the current state.
func (e *Engine) State() PlayerState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetZone sets the zone, for example from the log history at start.
func (e *Engine) SetZone(zone string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Zone = zone
}

// MarkCorpse puts the corpse where the player stands.
func (e *Engine) MarkCorpse() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.CorpseX, e.state.CorpseY = e.state.X, e.state.Y
	e.state.HasCorpse = true
}

func (e *Engine) ClearCorpse() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.HasCorpse = false
}

// Run processes lines until the channel closes or ctx is done.
func (e *Engine) Run(ctx context.Context, lines <-chan eqlog.Line) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			e.Process(l.Text)
		}
	}
}

// Process applies one log line.
func (e *Engine) Process(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.state

	// /loc prints y before x, and map files negate both
	if m := locRe.FindStringSubmatch(line); m != nil {
		eqY, errY := strconv.ParseFloat(m[1], 64)
		eqX, errX := strconv.ParseFloat(m[2], 64)
		eqZ, errZ := strconv.ParseFloat(m[3], 64)
		if errX != nil || errY != nil || errZ != nil {
			e.log.Warn("unreadable location", "line", line)
			return
		}
		x, y := -eqX, -eqY

		if !s.HasPosition {
			e.log.Debug("first position", "x", x, "y", y)
		} else if dx, dy := x-s.X, y-s.Y; math.Abs(dx) > minHeadingStep || math.Abs(dy) > minHeadingStep {
			s.Heading = math.Atan2(dy, dx)
		}
		s.X, s.Y, s.Z = x, y, eqZ
		s.HasPosition = true
		return
	}

	if m := zoneRe.FindStringSubmatch(line); m != nil {
		if m[1] != s.Zone {
			e.log.Info("zone changed", "zone", m[1])
			s.Zone = m[1]
		}
		return
	}

	switch {
	case strings.Contains(line, "You have been slain"):
		s.CorpseX, s.CorpseY = s.X, s.Y
		s.HasCorpse = true
	case strings.Contains(line, "You summon your corpse"):
		s.HasCorpse = false
	}
}
