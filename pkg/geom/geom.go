// Package geom holds the small amount of 2D math the context menu needs:
// viewport points, map coordinates, rectangles and menu placement.
package geom

import "math"

// Point is a position or extent in viewport pixels. X grows to the right,
// Y grows downwards.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist is the straight line distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// SegmentDist is the distance from p to the closest point of the segment
// from a to b. A zero length segment is treated as the point a.
func (p Point) SegmentDist(a, b Point) float64 {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / l2
	t = math.Min(math.Max(t, 0), 1)
	return p.Dist(Point{X: a.X + t*d.X, Y: a.Y + t*d.Y})
}

// LatLng is a coordinate in map space.
type LatLng struct {
	Lat, Lng float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so that stacked rows never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W &&
		p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) Max() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Placement is the resolved position of a menu container inside the
// viewport. On each axis the container is anchored either from the leading
// edge (Left/Top) or from the trailing edge (Right/Bottom).
type Placement struct {
	Left, Top     float64
	Right, Bottom float64

	FromRight  bool
	FromBottom bool
}

// Place resolves where a container of the given size opens for pointer p.
// The anchor offset is added to p first. On an axis where the container
// would overflow the viewport it is anchored from the trailing edge, at a
// distance clamped so the container never leaves the viewport on that side.
func Place(p, anchor, size, viewport Point) Placement {
	p = p.Add(anchor)

	var pl Placement
	if p.X+size.X > viewport.X {
		pl.FromRight = true
		pl.Right = math.Min(math.Max(viewport.X-p.X, 0), viewport.X-size.X-1)
	} else {
		pl.Left = math.Max(p.X, 0)
	}

	if p.Y+size.Y > viewport.Y {
		pl.FromBottom = true
		pl.Bottom = math.Min(math.Max(viewport.Y-p.Y, 0), viewport.Y-size.Y-1)
	} else {
		pl.Top = math.Max(p.Y, 0)
	}
	return pl
}

// Origin converts the placement into the container's top-left corner.
func (pl Placement) Origin(size, viewport Point) Point {
	o := Point{X: pl.Left, Y: pl.Top}
	if pl.FromRight {
		o.X = viewport.X - pl.Right - size.X
	}
	if pl.FromBottom {
		o.Y = viewport.Y - pl.Bottom - size.Y
	}
	return o
}
