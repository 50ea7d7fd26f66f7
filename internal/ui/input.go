package ui

import (
	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState is one frame of input.
type InputState struct {
	Cursor   geom.Point
	InWindow bool

	LeftPressed  bool
	LeftHeld     bool
	RightPressed bool
	WheelY       float64

	// Touches are the touches that started this frame.
	Touches []geom.Point

	Escape       bool
	ToggleLabels bool
	ToggleMenu   bool
	Fit          bool
	ToggleTrail  bool
	ClearTrail   bool
	ClearCorpse  bool
	CenterPlayer bool
}

func readInput(width, height int) InputState {
	cx, cy := ebiten.CursorPosition()
	_, dy := ebiten.Wheel()

	in := InputState{
		Cursor:       geom.Pt(float64(cx), float64(cy)),
		InWindow:     ebiten.IsFocused() && cx >= 0 && cy >= 0 && cx < width && cy < height,
		LeftPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		LeftHeld:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		RightPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		WheelY:       dy,
		Escape:       inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		ToggleLabels: inpututil.IsKeyJustPressed(ebiten.KeyL),
		ToggleMenu:   inpututil.IsKeyJustPressed(ebiten.KeyM),
		Fit:          inpututil.IsKeyJustPressed(ebiten.KeyF5),
		ToggleTrail:  inpututil.IsKeyJustPressed(ebiten.KeyT),
		ClearTrail:   inpututil.IsKeyJustPressed(ebiten.KeyC),
		ClearCorpse:  inpututil.IsKeyJustPressed(ebiten.KeyK),
		CenterPlayer: inpututil.IsKeyJustPressed(ebiten.KeySpace),
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		in.Touches = append(in.Touches, geom.Pt(float64(x), float64(y)))
	}
	return in
}

// handleInput turns a frame of input into map triggers. Presses that land
// on the open menu go to the menu and never reach the map.
func (w *Window) handleInput(in InputState) {
	if w.cursorInside && !in.InWindow {
		w.fire(contextmenu.TriggerMouseOut, event.Event{})
	}
	w.cursorInside = in.InWindow

	if in.Escape {
		w.fire(contextmenu.TriggerKeyDown, event.Event{Key: contextmenu.KeyEscape})
	}
	if in.ToggleLabels {
		w.ShowLabels = !w.ShowLabels
	}
	if in.ToggleMenu {
		w.SetMenuEnabled(!w.menuEnabled)
	}
	if in.Fit {
		w.FitZone()
	}
	if in.ToggleTrail {
		w.trail.Visible = !w.trail.Visible
	}
	if in.ClearTrail {
		w.trail.clear()
	}
	if in.ClearCorpse {
		w.clearCorpse()
	}
	if in.CenterPlayer {
		w.centerOnPlayer()
	}

	if w.menu.IsVisible() {
		w.menu.PointerMove(in.Cursor)
	}

	for _, p := range in.Touches {
		if w.menu.Click(p) {
			continue
		}
		w.fire(contextmenu.TriggerTouchStart, pointEvent(p))
	}

	if in.RightPressed {
		w.contextMenuAt(in.Cursor)
	}

	if in.LeftPressed {
		if !w.menu.Click(in.Cursor) {
			w.fire(contextmenu.TriggerMouseDown, pointEvent(in.Cursor))
			w.dragging, w.dragMoved = true, false
			w.dragLast = in.Cursor
		}
	}
	if w.dragging {
		if !in.LeftHeld {
			w.dragging = false
		} else if d := in.Cursor.Sub(w.dragLast); d != (geom.Point{}) {
			if !w.dragMoved {
				w.fire(contextmenu.TriggerMoveStart, event.Event{})
				w.dragMoved = true
			}
			w.view.Pan(d.X, d.Y)
			w.dragLast = in.Cursor
		}
	}

	if in.WheelY != 0 {
		w.fire(contextmenu.TriggerZoomStart, event.Event{})
		factor := 1.1
		if in.WheelY < 0 {
			factor = 1 / factor
		}
		w.view.ZoomAt(factor, in.Cursor)
	}
}

// contextMenuAt routes a right click to the layer under p, or to the map
// when there is none. Like any press outside the menu it first ends the
// open session, so one object's entries never carry over to the next.
func (w *Window) contextMenuAt(p geom.Point) {
	if w.menu.Contains(p) {
		return
	}
	w.fire(contextmenu.TriggerMouseDown, pointEvent(p))

	ev := pointEvent(p)
	ev.Type = contextmenu.TriggerContextMenu
	if l := w.layerAt(p); l != nil && l.Events().Listens(contextmenu.TriggerContextMenu) {
		ev.Target = l
		l.Events().Fire(ev)
		return
	}
	ev.Target = w
	w.bus.Fire(ev)
}

func pointEvent(p geom.Point) event.Event {
	return event.Event{ContainerPoint: p, HasPoint: true}
}

func (w *Window) fire(typ string, ev event.Event) {
	ev.Type = typ
	if ev.Target == nil {
		ev.Target = w
	}
	w.bus.Fire(ev)
}
