package contextmenu

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports the rendered width of a label in pixels.
type Measurer interface {
	TextWidth(s string) float64
}

// Metrics are the fixed dimensions of menu rows.
type Metrics struct {
	ItemHeight      float64
	SeparatorHeight float64
	PaddingX        float64
	PaddingY        float64
	IconSize        float64
	IconGap         float64
	ArrowWidth      float64
	MinWidth        float64
}

var DefaultMetrics = Metrics{
	ItemHeight:      22,
	SeparatorHeight: 9,
	PaddingX:        8,
	PaddingY:        4,
	IconSize:        14,
	IconGap:         4,
	ArrowWidth:      14,
	MinWidth:        120,
}

// FaceMeasurer measures with a font face.
type FaceMeasurer struct {
	Face font.Face
}

// NewFaceMeasurer measures with face, or with basicfont's 7x13 face when
// face is nil.
func NewFaceMeasurer(face font.Face) FaceMeasurer {
	if face == nil {
		face = basicfont.Face7x13
	}
	return FaceMeasurer{Face: face}
}

func (m FaceMeasurer) TextWidth(s string) float64 {
	return float64(font.MeasureString(m.Face, s).Ceil())
}
