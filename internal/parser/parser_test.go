package parser

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/devin-hart/nox-contextmenu/internal/eqlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessLocation(t *testing.T) {
	e := quietEngine()
	e.Process("[Mon Jan 01 10:00:00 2024] Your Location is 100.50, -20.00, 3.25")

	s := e.State()
	assert.True(t, s.HasPosition)
	assert.Equal(t, 20.0, s.X)
	assert.Equal(t, -100.5, s.Y)
	assert.Equal(t, 3.25, s.Z)
	assert.Equal(t, 0.0, s.Heading, "no heading before the player moved")
}

func TestHeadingFollowsMovement(t *testing.T) {
	tests := []struct {
		name    string
		next    string
		heading float64
	}{
		{"east", "Your Location is 0, -10, 0", 0},
		{"south", "Your Location is -10, 0, 0", math.Pi / 2},
		{"west", "Your Location is 0, 10, 0", math.Pi},
		{"jitter keeps heading", "Your Location is 0.05, 0, 0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := quietEngine()
			e.Process("Your Location is 0, 0, 0")
			e.Process(tt.next)
			assert.InDelta(t, tt.heading, e.State().Heading, 1e-9)
		})
	}
}

func TestZoneAndCorpse(t *testing.T) {
	e := quietEngine()
	e.Process("You have entered The North Karana.")
	assert.Equal(t, "The North Karana", e.State().Zone)

	e.Process("Your Location is 5, 6, 0")
	e.Process("You have been slain by a griffon!")
	s := e.State()
	require.True(t, s.HasCorpse)
	assert.Equal(t, -6.0, s.CorpseX)
	assert.Equal(t, -5.0, s.CorpseY)

	e.Process("Your Location is 50, 60, 0")
	assert.Equal(t, -6.0, e.State().CorpseX, "the corpse stays where the player died")

	e.Process("You summon your corpse.")
	assert.False(t, e.State().HasCorpse)
}

func TestMarkAndClearCorpse(t *testing.T) {
	e := quietEngine()
	e.Process("Your Location is 1, 2, 0")

	e.MarkCorpse()
	s := e.State()
	assert.True(t, s.HasCorpse)
	assert.Equal(t, -2.0, s.CorpseX)
	assert.Equal(t, -1.0, s.CorpseY)

	e.ClearCorpse()
	assert.False(t, e.State().HasCorpse)
}

func TestRunStopsWhenLinesClose(t *testing.T) {
	e := quietEngine()
	lines := make(chan eqlog.Line, 2)
	lines <- eqlog.Line{Text: "You have entered Qeynos Hills."}
	lines <- eqlog.Line{Text: "Your Location is 1, 1, 1"}
	close(lines)

	require.NoError(t, e.Run(context.Background(), lines))
	assert.Equal(t, "Qeynos Hills", e.State().Zone)
	assert.True(t, e.State().HasPosition)
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, quietEngine().Run(ctx, make(chan eqlog.Line)))
}
