package ui

import (
	"fmt"

	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
)

const zoomStep = 1.25

// menuItems turns the configured entry names into the map menu. Unknown
// names are logged and skipped.
func (w *Window) menuItems(names []string) []contextmenu.ItemSpec {
	var items []contextmenu.ItemSpec
	for _, name := range names {
		spec, ok := w.namedItem(name)
		if !ok {
			w.log.Warn("unknown context menu entry", "name", name)
			continue
		}
		items = append(items, spec)
	}
	return items
}

func (w *Window) namedItem(name string) (contextmenu.ItemSpec, bool) {
	switch name {
	case config.Separator:
		return contextmenu.Separator(), true
	case "zoom_in":
		return contextmenu.Action("Zoom in", w.zoomIn), true
	case "zoom_out":
		return contextmenu.Action("Zoom out", w.zoomOut), true
	case "center":
		return contextmenu.Action("Center map here", w.centerHere), true
	case "copy_coordinates":
		return contextmenu.Action("Copy coordinates", w.copyCoordinates), true
	case "add_marker":
		return contextmenu.Action("Add marker here", w.addMarkerHere).WithClass("primary"), true
	case "view":
		return contextmenu.SubMenu("View",
			contextmenu.Action("Toggle labels", func(contextmenu.ItemEvent) { w.ShowLabels = !w.ShowLabels }),
			contextmenu.Action("Fit zone", func(contextmenu.ItemEvent) { w.FitZone() }),
		), true
	}
	return contextmenu.ItemSpec{}, false
}

func (w *Window) zoomIn(contextmenu.ItemEvent) {
	w.view.ZoomAt(zoomStep, w.viewCenter())
}

func (w *Window) zoomOut(contextmenu.ItemEvent) {
	w.view.ZoomAt(1/zoomStep, w.viewCenter())
}

func (w *Window) viewCenter() geom.Point {
	return geom.Pt(float64(w.view.Width)/2, float64(w.view.Height)/2)
}

func (w *Window) centerHere(ev contextmenu.ItemEvent) {
	w.view.CenterOn(ZoneOf(ev.LatLng))
}

func (w *Window) copyCoordinates(ev contextmenu.ItemEvent) {
	x, y := ZoneOf(ev.LatLng)
	w.copyText(fmt.Sprintf("%.1f, %.1f", x, y))
}

func (w *Window) copyText(s string) {
	if err := w.clipboard(s); err != nil {
		w.log.Error("copy to clipboard failed", "error", err)
		w.status = "clipboard unavailable"
		return
	}
	w.log.Info("copied to clipboard", "text", s)
	w.status = "copied " + s
}

func (w *Window) addMarkerHere(ev contextmenu.ItemEvent) {
	x, y := ZoneOf(ev.LatLng)
	m := config.Marker{
		ID:    w.newID(),
		X:     x,
		Y:     y,
		Label: fmt.Sprintf("marker %d", len(w.markers)+1),
		Color: "yellow",
		Shape: "circle",
	}
	w.cfg.AddMarker(w.zone, m)
	w.addMarkerLayer(m)
	w.log.Info("marker added", "zone", w.zone, "id", m.ID, "x", x, "y", y)
	w.persist()
}

// defaultMarkerItems are the entries a marker adds on top of the map menu
// unless its config names others.
var defaultMarkerItems = []string{"remove_marker", "copy_label", config.Separator}

// markerItems turns entry names into a marker's own entries, placed on top
// in the given order. Marker names come first, then the map entry names.
func (w *Window) markerItems(names []string) []contextmenu.ItemSpec {
	var items []contextmenu.ItemSpec
	for _, name := range names {
		var spec contextmenu.ItemSpec
		switch name {
		case "remove_marker":
			spec = contextmenu.Action("Remove marker", w.removeMarker).WithClass("danger")
		case "copy_label":
			spec = contextmenu.Action("Copy label", func(ev contextmenu.ItemEvent) {
				if l, ok := ev.RelatedTarget.(*MarkerLayer); ok {
					w.copyText(l.Marker.Label)
				}
			})
		default:
			var ok bool
			if spec, ok = w.namedItem(name); !ok {
				w.log.Warn("unknown marker menu entry", "name", name)
				continue
			}
		}
		items = append(items, spec.At(len(items)))
	}
	return items
}

func (w *Window) removeMarker(ev contextmenu.ItemEvent) {
	l, ok := ev.RelatedTarget.(*MarkerLayer)
	if !ok {
		return
	}
	w.cfg.RemoveMarker(w.zone, l.Marker.ID)
	for i, m := range w.markers {
		if m == l {
			w.markers = append(w.markers[:i], w.markers[i+1:]...)
			break
		}
	}
	l.bind.Unbind()
	w.log.Info("marker removed", "zone", w.zone, "id", l.Marker.ID)
	w.persist()
}

// labelItems replace the map menu for zone labels.
func (w *Window) labelItems() []contextmenu.ItemSpec {
	return []contextmenu.ItemSpec{
		contextmenu.Action("Copy label", func(ev contextmenu.ItemEvent) {
			if l, ok := ev.RelatedTarget.(*LabelLayer); ok {
				w.copyText(l.Label.Text)
			}
		}),
		contextmenu.Action("Center on label", func(ev contextmenu.ItemEvent) {
			if l, ok := ev.RelatedTarget.(*LabelLayer); ok {
				w.view.CenterOn(l.Label.X, l.Label.Y)
			}
		}),
	}
}

func (w *Window) persist() {
	if w.store == nil {
		return
	}
	if err := w.store.Save(w.cfg); err != nil {
		w.log.Error("saving markers failed", "error", err)
		w.status = "could not save markers"
	}
}

func (w *Window) playerItems() []contextmenu.ItemSpec {
	return []contextmenu.ItemSpec{
		contextmenu.Action("Center on player", func(contextmenu.ItemEvent) { w.centerOnPlayer() }).At(0),
		contextmenu.Action("Mark corpse here", func(contextmenu.ItemEvent) {
			if w.source == nil {
				return
			}
			w.source.MarkCorpse()
			w.corpse.set(w.source.State())
			w.log.Info("corpse marked", "x", w.player.State.X, "y", w.player.State.Y)
		}).At(1),
		contextmenu.Separator().At(2),
	}
}

func (w *Window) trailItems() []contextmenu.ItemSpec {
	return []contextmenu.ItemSpec{
		contextmenu.Action("Clear trail", func(contextmenu.ItemEvent) { w.trail.clear() }).At(0),
		contextmenu.Action("Hide trail", func(contextmenu.ItemEvent) { w.trail.Visible = false }).At(1),
		contextmenu.Separator().At(2),
	}
}

func (w *Window) corpseItems() []contextmenu.ItemSpec {
	return []contextmenu.ItemSpec{
		contextmenu.Action("Center on corpse", func(contextmenu.ItemEvent) {
			w.view.CenterOn(w.corpse.Corpse.X, w.corpse.Corpse.Y)
		}).At(0),
		contextmenu.Action("Clear corpse", func(contextmenu.ItemEvent) { w.clearCorpse() }).At(1).WithClass("danger"),
		contextmenu.Separator().At(2),
	}
}

func (w *Window) centerOnPlayer() {
	if w.player.State.HasPosition {
		w.view.CenterOn(w.player.State.X, w.player.State.Y)
	}
}

func (w *Window) clearCorpse() {
	if w.source == nil {
		return
	}
	w.source.ClearCorpse()
	w.corpse.Active = false
	w.log.Info("corpse cleared")
}
