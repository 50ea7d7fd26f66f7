package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlace(t *testing.T) {
	viewport := Pt(800, 600)
	size := Pt(200, 100)

	tests := []struct {
		name   string
		point  Point
		anchor Point
		want   Placement
		origin Point
	}{
		{
			name:   "fits from top left",
			point:  Pt(10, 10),
			want:   Placement{Left: 10, Top: 10},
			origin: Pt(10, 10),
		},
		{
			name:   "overflows bottom right",
			point:  Pt(750, 550),
			want:   Placement{Right: 50, Bottom: 50, FromRight: true, FromBottom: true},
			origin: Pt(550, 450),
		},
		{
			name:   "negative point clamps to zero",
			point:  Pt(-20, -5),
			want:   Placement{Left: 0, Top: 0},
			origin: Pt(0, 0),
		},
		{
			name:   "anchor pushes past the edge",
			point:  Pt(590, 10),
			anchor: Pt(20, 5),
			want:   Placement{Right: 190, Top: 15, FromRight: true},
			origin: Pt(410, 15),
		},
		{
			name:   "pointer beyond viewport clamps to edge",
			point:  Pt(900, 700),
			want:   Placement{Right: 0, Bottom: 0, FromRight: true, FromBottom: true},
			origin: Pt(600, 500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.point, tt.anchor, size, viewport)
			assert.Equal(t, tt.want, got)

			o := got.Origin(size, viewport)
			assert.Equal(t, tt.origin, o)
			assert.GreaterOrEqual(t, o.X, 0.0)
			assert.GreaterOrEqual(t, o.Y, 0.0)
			assert.LessOrEqual(t, o.X+size.X, viewport.X)
			assert.LessOrEqual(t, o.Y+size.Y, viewport.Y)
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 5}

	assert.True(t, r.Contains(Pt(10, 10)))
	assert.True(t, r.Contains(Pt(29.9, 14.9)))
	assert.False(t, r.Contains(Pt(30, 12)))
	assert.False(t, r.Contains(Pt(12, 15)))
	assert.Equal(t, Pt(30, 15), r.Max())
}

func TestSegmentDist(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"above the middle", Pt(5, 3), 3},
		{"on the segment", Pt(7, 0), 0},
		{"past the end", Pt(13, 4), 5},
		{"before the start", Pt(-3, -4), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.p.SegmentDist(a, b), 1e-9)
		})
	}

	assert.InDelta(t, 5, Pt(3, 4).SegmentDist(a, a), 1e-9)
	assert.InDelta(t, 5, Pt(3, 4).Dist(a), 1e-9)
}
