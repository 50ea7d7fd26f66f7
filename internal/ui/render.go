package ui

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var markerColors = map[string]color.RGBA{
	"red":    {255, 60, 60, 255},
	"blue":   {80, 140, 255, 255},
	"green":  {60, 220, 90, 255},
	"yellow": {255, 220, 0, 255},
	"purple": {190, 90, 255, 255},
}

type menuTheme struct {
	face     *text.GoXFace
	measurer contextmenu.Measurer
	metrics  contextmenu.Metrics

	background color.RGBA
	border     color.RGBA
	hover      color.RGBA
	fg         color.RGBA
	disabled   color.RGBA
	danger     color.RGBA
	divider    color.RGBA
}

// newMenuTheme measures and draws with the same 7x13 face, so laid out
// rows always fit their labels.
func newMenuTheme() *menuTheme {
	return &menuTheme{
		face:       text.NewGoXFace(basicfont.Face7x13),
		measurer:   contextmenu.NewFaceMeasurer(basicfont.Face7x13),
		metrics:    contextmenu.DefaultMetrics,
		background: color.RGBA{30, 30, 36, 235},
		border:     color.RGBA{90, 90, 100, 255},
		hover:      color.RGBA{60, 90, 160, 255},
		fg:         color.RGBA{230, 230, 230, 255},
		disabled:   color.RGBA{120, 120, 120, 255},
		danger:     color.RGBA{255, 110, 110, 255},
		divider:    color.RGBA{70, 70, 80, 255},
	}
}

// draw paints every laid out frame of the menu, lowest Z first.
func (t *menuTheme) draw(screen *ebiten.Image, menu *contextmenu.Menu) {
	mt := t.metrics
	for _, f := range stacked(menu.Layout()) {
		r := f.Rect
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), t.background, false)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, t.border, false)

		for _, row := range f.Rows {
			rr := row.Rect
			if row.Item.Kind() == contextmenu.KindSeparator {
				y := float32(rr.Y + rr.H/2)
				vector.StrokeLine(screen, float32(rr.X+mt.PaddingX), y, float32(rr.X+rr.W-mt.PaddingX), y, 1, t.divider, false)
				continue
			}

			n := row.Node
			if n.HasClass(contextmenu.ClassOver) || menu.IsSubMenuOpen(row.Item) {
				vector.DrawFilledRect(screen, float32(rr.X+1), float32(rr.Y), float32(rr.W-2), float32(rr.H), t.hover, false)
			}

			fg := t.fg
			switch {
			case n.HasClass(contextmenu.ClassDisabled):
				fg = t.disabled
			case n.HasClass("danger"):
				fg = t.danger
			}

			x := rr.X + mt.PaddingX
			if n.Icon != "" || n.IconClass != "" {
				iy := rr.Y + (rr.H-mt.IconSize)/2
				vector.StrokeRect(screen, float32(x), float32(iy), float32(mt.IconSize), float32(mt.IconSize), 1, fg, false)
				x += mt.IconSize + mt.IconGap
			}
			t.label(screen, n.Text, x, rr.Y+rr.H/2, fg)

			if row.Item.Kind() == contextmenu.KindSubMenu {
				t.label(screen, ">", rr.X+rr.W-mt.PaddingX-7, rr.Y+rr.H/2, fg)
			}
		}
	}
}

func stacked(frames []contextmenu.Frame) []contextmenu.Frame {
	slices.SortStableFunc(frames, func(a, b contextmenu.Frame) int {
		return cmp.Compare(a.Z, b.Z)
	})
	return frames
}

// label draws s with its vertical middle at y.
func (t *menuTheme) label(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LayoutOptions.SecondaryAlign = text.AlignCenter
	text.Draw(screen, s, t.face, op)
}

func drawMarker(screen *ebiten.Image, x, y float64, m config.Marker) {
	clr, ok := markerColors[m.Color]
	if !ok {
		clr = markerColors["yellow"]
	}
	fx, fy := float32(x), float32(y)
	switch m.Shape {
	case "square":
		vector.DrawFilledRect(screen, fx-4, fy-4, 8, 8, clr, true)
	case "diamond", "triangle", "star":
		vector.StrokeLine(screen, fx, fy-5, fx+5, fy, 2, clr, true)
		vector.StrokeLine(screen, fx+5, fy, fx, fy+5, 2, clr, true)
		vector.StrokeLine(screen, fx, fy+5, fx-5, fy, 2, clr, true)
		vector.StrokeLine(screen, fx-5, fy, fx, fy-5, 2, clr, true)
	default:
		vector.DrawFilledCircle(screen, fx, fy, 4, clr, true)
	}
}

var (
	playerColor = color.RGBA{255, 0, 0, 255}
	corpseColor = color.RGBA{255, 0, 0, 255}
)

// drawPlayerArrow draws a triangle at (cx, cy) pointing along heading.
func drawPlayerArrow(screen *ebiten.Image, cx, cy, heading float64) {
	const size = 8.0
	sin, cos := math.Sincos(heading)
	rotate := func(x, y float64) (float32, float32) {
		return float32(cx + x*cos - y*sin), float32(cy + x*sin + y*cos)
	}

	x1, y1 := rotate(size, 0)
	x2, y2 := rotate(-size/2, -size/2)
	x3, y3 := rotate(-size/2, size/2)
	vector.StrokeLine(screen, x2, y2, x1, y1, 2, playerColor, true)
	vector.StrokeLine(screen, x1, y1, x3, y3, 2, playerColor, true)
	vector.StrokeLine(screen, x3, y3, x2, y2, 2, playerColor, true)
}

// drawCorpse draws the corpse run line from the player to an X at the
// corpse.
func drawCorpse(screen *ebiten.Image, px, py, cx, cy float64) {
	fx, fy := float32(cx), float32(cy)
	vector.StrokeLine(screen, float32(px), float32(py), fx, fy, 2, corpseColor, true)
	vector.StrokeLine(screen, fx-5, fy-5, fx+5, fy+5, 2, corpseColor, true)
	vector.StrokeLine(screen, fx-5, fy+5, fx+5, fy-5, 2, corpseColor, true)
	ebitenutil.DebugPrintAt(screen, "CORPSE", int(cx)+5, int(cy))
}
