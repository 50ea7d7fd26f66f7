package ui

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/devin-hart/nox-contextmenu/internal/maps"
	"github.com/devin-hart/nox-contextmenu/internal/parser"
	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Saver persists the config when markers change.
type Saver interface {
	Save(cfg *config.Config) error
}

// PlayerSource reports where the log puts the player. parser.Engine is one.
type PlayerSource interface {
	State() parser.PlayerState
	MarkCorpse()
	ClearCorpse()
}

type Options struct {
	MapDir string
	Lookup *maps.Lookup
	Config *config.Config
	Store  Saver
	Player PlayerSource

	Capabilities contextmenu.Capabilities
	Logger       *slog.Logger

	// Clipboard and NewID default to the system clipboard and random UUIDs.
	Clipboard func(string) error
	NewID     func() string
}

// Window is the map viewer. It is the ebiten game, the map the context
// menu is attached to, and the host layers bind their menus through.
type Window struct {
	CurrentMap *maps.ZoneMap
	ShowLabels bool

	mapDir    string
	lookup    *maps.Lookup
	cfg       *config.Config
	store     Saver
	source    PlayerSource
	log       *slog.Logger
	clipboard func(string) error
	newID     func() string

	view Viewport
	bus  event.Bus
	caps contextmenu.Capabilities

	menu        *contextmenu.Menu
	menuEnabled bool
	theme       *menuTheme

	zone    string
	markers []*MarkerLayer
	labels  []*LabelLayer

	player  *PlayerLayer
	trail   *TrailLayer
	corpse  *CorpseLayer
	logZone string

	cursorInside bool
	dragging     bool
	dragMoved    bool
	dragLast     geom.Point

	status string
}

func NewWindow(opts Options) *Window {
	w := &Window{
		ShowLabels: true,
		mapDir:     opts.MapDir,
		lookup:     opts.Lookup,
		cfg:        opts.Config,
		store:      opts.Store,
		source:     opts.Player,
		log:        opts.Logger,
		clipboard:  opts.Clipboard,
		newID:      opts.NewID,
		caps:       opts.Capabilities,
		view:       Viewport{Zoom: 1, Width: 400, Height: 400},
		theme:      newMenuTheme(),
	}
	if w.cfg == nil {
		w.cfg = &config.Config{Markers: make(map[string][]config.Marker), Menu: config.Menu{Items: config.DefaultMenuItems}}
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	if w.clipboard == nil {
		w.clipboard = clipboard.WriteAll
	}
	if w.newID == nil {
		w.newID = uuid.NewString
	}

	w.menu = contextmenu.New(w, contextmenu.Options{
		Items:    w.menuItems(w.cfg.Menu.Items),
		Width:    w.cfg.Menu.Width,
		Anchor:   geom.Pt(w.cfg.Menu.AnchorX, w.cfg.Menu.AnchorY),
		Measurer: w.theme.measurer,
		Metrics:  &w.theme.metrics,
		Logger:   w.log.With("component", "contextmenu"),
	})
	w.menuEnabled = true

	w.player, w.trail, w.corpse = newPlayerLayer(), newTrailLayer(), newCorpseLayer()
	w.player.bind.Bind(w, contextmenu.BindOptions{Items: w.playerItems()})
	w.trail.bind.Bind(w, contextmenu.BindOptions{Items: w.trailItems()})
	w.corpse.bind.Bind(w, contextmenu.BindOptions{Items: w.corpseItems()})
	return w
}

func (w *Window) ContainerPointToLayerPoint(p geom.Point) geom.Point {
	return w.view.ContainerToLayer(p)
}

func (w *Window) LayerPointToLatLng(p geom.Point) geom.LatLng {
	return w.view.LayerToLatLng(p)
}

func (w *Window) LatLngToContainerPoint(ll geom.LatLng) geom.Point {
	return w.view.LatLngToContainer(ll)
}

func (w *Window) Size() geom.Point {
	return geom.Pt(float64(w.view.Width), float64(w.view.Height))
}

func (w *Window) Events() *event.Bus { return &w.bus }

func (w *Window) Capabilities() contextmenu.Capabilities { return w.caps }

// ContextMenu is nil while the menu is switched off.
func (w *Window) ContextMenu() *contextmenu.Menu {
	if !w.menuEnabled {
		return nil
	}
	return w.menu
}

// SetMenuEnabled switches the context menu on or off. Entries are kept.
func (w *Window) SetMenuEnabled(on bool) {
	if on == w.menuEnabled {
		return
	}
	w.menuEnabled = on
	if on {
		w.menu.Enable()
	} else {
		w.menu.Hide()
		w.menu.Disable()
	}
	w.log.Debug("context menu toggled", "enabled", on)
}

func (w *Window) Viewport() *Viewport { return &w.view }

func (w *Window) Zone() string { return w.zone }

func (w *Window) Markers() []*MarkerLayer { return w.markers }

// LoadZone switches to a zone by long or short name. A zone without map
// files still opens so markers can be placed on it.
func (w *Window) LoadZone(name string) error {
	short := w.lookup.Resolve(name)

	w.menu.Hide()
	unbindAll(w.markers)
	unbindAll(w.labels)
	w.markers, w.labels = nil, nil
	w.zone = short

	zm, err := maps.LoadZone(w.mapDir, short)
	if err != nil {
		zm = &maps.ZoneMap{Name: name}
	} else {
		w.log.Info("loaded zone", "zone", name, "file", short, "lines", len(zm.Lines), "labels", len(zm.Labels))
	}
	zm.Name = name
	w.CurrentMap = zm

	for _, lbl := range zm.Labels {
		l := newLabelLayer(lbl)
		inherit := false
		l.bind.Bind(w, contextmenu.BindOptions{Items: w.labelItems(), InheritItems: &inherit})
		w.labels = append(w.labels, l)
	}
	for _, m := range w.cfg.ZoneMarkers(short) {
		w.addMarkerLayer(m)
	}
	w.FitZone()

	if err != nil {
		return fmt.Errorf("load zone %s: %w", name, err)
	}
	return nil
}

// addMarkerLayer adds a marker and, unless its config switches the menu
// off, binds its own entries.
func (w *Window) addMarkerLayer(m config.Marker) *MarkerLayer {
	l := newMarkerLayer(m)
	if m.MenuEnabled() {
		names := m.MenuItems
		if len(names) == 0 {
			names = defaultMarkerItems
		}
		l.bind.Bind(w, contextmenu.BindOptions{
			Items:        w.markerItems(names),
			InheritItems: m.InheritItems,
		})
	}
	w.markers = append(w.markers, l)
	return l
}

// syncPlayer copies the latest player state into the player layers and
// follows the player into a new zone.
func (w *Window) syncPlayer() {
	if w.source == nil {
		return
	}
	st := w.source.State()
	if st.Zone != "" && st.Zone != w.logZone {
		w.logZone = st.Zone
		w.trail.clear()
		if err := w.LoadZone(st.Zone); err != nil {
			w.log.Warn("zone opened without a map", "zone", st.Zone, "error", err)
		}
		if st.HasPosition {
			w.view.CenterOn(st.X, st.Y)
		}
	}

	w.player.State = st
	if st.HasPosition {
		w.trail.add(st.X, st.Y)
	}
	w.corpse.set(st)
}

// FitZone frames the current zone's lines.
func (w *Window) FitZone() {
	if w.CurrentMap == nil || len(w.CurrentMap.Lines) == 0 {
		w.view.CenterOn(0, 0)
		return
	}
	zm := w.CurrentMap
	w.view.Fit(zm.MinX, zm.MinY, zm.MaxX, zm.MaxY)
}

func (w *Window) Update() error {
	w.syncPlayer()
	w.handleInput(readInput(w.view.Width, w.view.Height))
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})

	if w.CurrentMap == nil {
		msg := "No zone loaded"
		if w.source != nil {
			msg = fmt.Sprintf("Waiting for zone... (last seen: %s)", w.source.State().Zone)
		}
		ebitenutil.DebugPrint(screen, msg)
		return
	}

	for _, l := range w.CurrentMap.Lines {
		x1, y1 := w.view.MapToScreen(l.X1, l.Y1)
		x2, y2 := w.view.MapToScreen(l.X2, l.Y2)
		vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, l.Color, true)
	}

	if w.ShowLabels {
		for _, l := range w.labels {
			px, py := w.view.MapToScreen(l.Label.X, l.Label.Y)
			vector.DrawFilledCircle(screen, float32(px), float32(py), 2, l.Label.Color, true)
			ebitenutil.DebugPrintAt(screen, l.Label.Text, int(px)+4, int(py)-4)
		}
	}

	if w.trail.Visible {
		for _, b := range w.trail.Points {
			bx, by := w.view.MapToScreen(b.X, b.Y)
			vector.DrawFilledCircle(screen, float32(bx), float32(by), 1, color.RGBA{0, 255, 255, 100}, true)
		}
	}

	for _, m := range w.markers {
		px, py := w.view.MapToScreen(m.Marker.X, m.Marker.Y)
		drawMarker(screen, px, py, m.Marker)
	}

	if w.corpse.Active {
		px, py := w.view.MapToScreen(w.corpse.Player.X, w.corpse.Player.Y)
		cx, cy := w.view.MapToScreen(w.corpse.Corpse.X, w.corpse.Corpse.Y)
		drawCorpse(screen, px, py, cx, cy)
	}

	if w.player.State.HasPosition {
		px, py := w.view.MapToScreen(w.player.State.X, w.player.State.Y)
		drawPlayerArrow(screen, px, py, w.player.State.Heading)
	}

	labelStatus := "ON"
	if !w.ShowLabels {
		labelStatus = "OFF"
	}
	menuStatus := "ON"
	if !w.menuEnabled {
		menuStatus = "OFF"
	}
	trailStatus := "ON"
	if !w.trail.Visible {
		trailStatus = "OFF"
	}
	corpseStatus := ""
	if w.corpse.Active {
		corpseStatus = " | [K] Clear corpse"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Zone: %s | Markers: %d\n[L] Labels:%s | [T] Trail:%s | [M] Menu:%s | [F5] Fit%s\n[Space] Center\n%s",
		w.CurrentMap.Name, len(w.markers), labelStatus, trailStatus, menuStatus, corpseStatus, w.status))

	mx, my := ebiten.CursorPosition()
	wx, wy := w.view.ScreenToMap(float64(mx), float64(my))
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Cursor: %.0f, %.0f", wx, wy), w.view.Width-140, 10)

	w.theme.draw(screen, w.menu)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.view.Width = outsideWidth
	w.view.Height = outsideHeight
	return outsideWidth, outsideHeight
}
