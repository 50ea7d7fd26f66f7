package ui

import (
	"math"

	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/devin-hart/nox-contextmenu/internal/maps"
	"github.com/devin-hart/nox-contextmenu/internal/parser"
	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
)

const (
	// hitRadius is how close, in pixels, a right click must land to a
	// layer to open its menu.
	hitRadius = 6

	// trailStep is the zone distance between breadcrumbs, and maxTrail how
	// many are kept.
	trailStep = 10
	maxTrail  = 500
)

// Layer is a right-clickable object drawn on the map.
type Layer interface {
	contextmenu.Layer
	binding() *contextmenu.Binding
	// distance is how far screen point p is from the layer as drawn. It is
	// +Inf while the layer draws nothing.
	distance(v *Viewport, p geom.Point) float64
}

func (v *Viewport) screenPoint(x, y float64) geom.Point {
	sx, sy := v.MapToScreen(x, y)
	return geom.Pt(sx, sy)
}

// pathDistance is the distance from p to a polyline of zone points.
func pathDistance(v *Viewport, p geom.Point, path []Breadcrumb) float64 {
	if len(path) == 0 {
		return math.Inf(1)
	}
	prev := v.screenPoint(path[0].X, path[0].Y)
	best := p.Dist(prev)
	for _, b := range path[1:] {
		cur := v.screenPoint(b.X, b.Y)
		best = min(best, p.SegmentDist(prev, cur))
		prev = cur
	}
	return best
}

// MarkerLayer is a user placed marker.
type MarkerLayer struct {
	Marker config.Marker
	bus    event.Bus
	bind   *contextmenu.Binding
}

func newMarkerLayer(m config.Marker) *MarkerLayer {
	l := &MarkerLayer{Marker: m}
	l.bind = contextmenu.NewBinding(l)
	return l
}

func (l *MarkerLayer) Events() *event.Bus { return &l.bus }

func (l *MarkerLayer) LatLng() geom.LatLng {
	return geom.LatLng{Lat: -l.Marker.Y, Lng: l.Marker.X}
}

func (l *MarkerLayer) binding() *contextmenu.Binding { return l.bind }

func (l *MarkerLayer) distance(v *Viewport, p geom.Point) float64 {
	return p.Dist(v.screenPoint(l.Marker.X, l.Marker.Y))
}

// LabelLayer is a label that came with the zone map.
type LabelLayer struct {
	Label maps.MapLabel
	bus   event.Bus
	bind  *contextmenu.Binding
}

func newLabelLayer(lbl maps.MapLabel) *LabelLayer {
	l := &LabelLayer{Label: lbl}
	l.bind = contextmenu.NewBinding(l)
	return l
}

func (l *LabelLayer) Events() *event.Bus { return &l.bus }

func (l *LabelLayer) LatLng() geom.LatLng {
	return geom.LatLng{Lat: -l.Label.Y, Lng: l.Label.X}
}

func (l *LabelLayer) binding() *contextmenu.Binding { return l.bind }

func (l *LabelLayer) distance(v *Viewport, p geom.Point) float64 {
	return p.Dist(v.screenPoint(l.Label.X, l.Label.Y))
}

// PlayerLayer is the player arrow at the last logged location.
type PlayerLayer struct {
	State parser.PlayerState
	bus   event.Bus
	bind  *contextmenu.Binding
}

func newPlayerLayer() *PlayerLayer {
	l := &PlayerLayer{}
	l.bind = contextmenu.NewBinding(l)
	return l
}

func (l *PlayerLayer) Events() *event.Bus { return &l.bus }

func (l *PlayerLayer) LatLng() geom.LatLng {
	return geom.LatLng{Lat: -l.State.Y, Lng: l.State.X}
}

func (l *PlayerLayer) binding() *contextmenu.Binding { return l.bind }

func (l *PlayerLayer) distance(v *Viewport, p geom.Point) float64 {
	if !l.State.HasPosition {
		return math.Inf(1)
	}
	return p.Dist(v.screenPoint(l.State.X, l.State.Y))
}

type Breadcrumb struct {
	X, Y float64
}

// TrailLayer is the path the player walked in the current zone.
type TrailLayer struct {
	Points  []Breadcrumb
	Visible bool
	bus     event.Bus
	bind    *contextmenu.Binding
}

func newTrailLayer() *TrailLayer {
	l := &TrailLayer{Visible: true}
	l.bind = contextmenu.NewBinding(l)
	return l
}

func (l *TrailLayer) Events() *event.Bus { return &l.bus }

func (l *TrailLayer) binding() *contextmenu.Binding { return l.bind }

// add drops a breadcrumb once the player is trailStep away from the last.
func (l *TrailLayer) add(x, y float64) {
	if n := len(l.Points); n > 0 {
		last := l.Points[n-1]
		if math.Hypot(x-last.X, y-last.Y) <= trailStep {
			return
		}
	}
	l.Points = append(l.Points, Breadcrumb{x, y})
	if len(l.Points) > maxTrail {
		l.Points = l.Points[len(l.Points)-maxTrail:]
	}
}

func (l *TrailLayer) clear() {
	l.Points = nil
}

func (l *TrailLayer) distance(v *Viewport, p geom.Point) float64 {
	if !l.Visible {
		return math.Inf(1)
	}
	return pathDistance(v, p, l.Points)
}

// CorpseLayer is the line from the player to their corpse.
type CorpseLayer struct {
	Player, Corpse Breadcrumb
	Active         bool
	bus            event.Bus
	bind           *contextmenu.Binding
}

func newCorpseLayer() *CorpseLayer {
	l := &CorpseLayer{}
	l.bind = contextmenu.NewBinding(l)
	return l
}

func (l *CorpseLayer) Events() *event.Bus { return &l.bus }

func (l *CorpseLayer) binding() *contextmenu.Binding { return l.bind }

func (l *CorpseLayer) set(s parser.PlayerState) {
	l.Active = s.HasCorpse
	l.Player = Breadcrumb{s.X, s.Y}
	l.Corpse = Breadcrumb{s.CorpseX, s.CorpseY}
}

func (l *CorpseLayer) distance(v *Viewport, p geom.Point) float64 {
	if !l.Active {
		return math.Inf(1)
	}
	return pathDistance(v, p, []Breadcrumb{l.Player, l.Corpse})
}

// layerAt returns the layer closest to screen point p within hitRadius.
// Markers win over the player, the player over paths and paths over
// labels.
func (w *Window) layerAt(p geom.Point) Layer {
	groups := [][]Layer{
		asLayers(w.markers),
		{w.player},
		{w.corpse, w.trail},
	}
	if w.ShowLabels {
		groups = append(groups, asLayers(w.labels))
	}

	for _, group := range groups {
		var best Layer
		bestDist := math.Inf(1)
		for _, l := range group {
			if d := l.distance(&w.view, p); d <= hitRadius && d < bestDist {
				best, bestDist = l, d
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

func asLayers[L Layer](layers []L) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[i] = l
	}
	return out
}

// unbindAll drops every layer binding, for example before a zone change.
func unbindAll[L Layer](layers []L) {
	for _, l := range layers {
		l.binding().Unbind()
	}
}
