package ui

import "github.com/devin-hart/nox-contextmenu/pkg/geom"

const (
	minZoom = 0.05
	maxZoom = 20
)

// Viewport maps zone coordinates to window pixels. The zone origin sits at
// the window center shifted by the pan offset.
type Viewport struct {
	Zoom             float64
	OffsetX, OffsetY float64
	Width, Height    int
}

func (v *Viewport) center() (float64, float64) {
	return float64(v.Width) / 2, float64(v.Height) / 2
}

func (v *Viewport) MapToScreen(wx, wy float64) (float64, float64) {
	cx, cy := v.center()
	return wx*v.Zoom + v.OffsetX + cx, wy*v.Zoom + v.OffsetY + cy
}

func (v *Viewport) ScreenToMap(sx, sy float64) (float64, float64) {
	cx, cy := v.center()
	return (sx - cx - v.OffsetX) / v.Zoom, (sy - cy - v.OffsetY) / v.Zoom
}

// Pan moves the map by a pixel delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ZoomAt scales by factor keeping the zone point under screen point p in
// place. The result is clamped to the supported range.
func (v *Viewport) ZoomAt(factor float64, p geom.Point) {
	wx, wy := v.ScreenToMap(p.X, p.Y)
	v.Zoom = min(max(v.Zoom*factor, minZoom), maxZoom)
	sx, sy := v.MapToScreen(wx, wy)
	v.OffsetX += p.X - sx
	v.OffsetY += p.Y - sy
}

// CenterOn pans so that zone point (wx, wy) is in the middle of the window.
func (v *Viewport) CenterOn(wx, wy float64) {
	v.OffsetX = -(wx * v.Zoom)
	v.OffsetY = -(wy * v.Zoom)
}

// Fit zooms and centers on a zone bounding box with a small margin.
func (v *Viewport) Fit(minX, minY, maxX, maxY float64) {
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 || v.Width == 0 || v.Height == 0 {
		v.CenterOn((minX+maxX)/2, (minY+maxY)/2)
		return
	}
	v.Zoom = min(max(min(float64(v.Width)/w, float64(v.Height)/h)*0.9, minZoom), maxZoom)
	v.CenterOn((minX+maxX)/2, (minY+maxY)/2)
}

// Layer points are window points with the pan taken out, so they stay put
// while the map is dragged.
func (v *Viewport) ContainerToLayer(p geom.Point) geom.Point {
	return p.Sub(geom.Pt(v.OffsetX, v.OffsetY))
}

// LayerToLatLng follows the simple CRS convention: lng is zone x and lat
// is zone y flipped.
func (v *Viewport) LayerToLatLng(lp geom.Point) geom.LatLng {
	wx, wy := v.ScreenToMap(lp.X+v.OffsetX, lp.Y+v.OffsetY)
	return geom.LatLng{Lat: -wy, Lng: wx}
}

func (v *Viewport) LatLngToContainer(ll geom.LatLng) geom.Point {
	sx, sy := v.MapToScreen(ll.Lng, -ll.Lat)
	return geom.Pt(sx, sy)
}

// ZoneOf converts a map coordinate back to zone x and y.
func ZoneOf(ll geom.LatLng) (float64, float64) {
	return ll.Lng, -ll.Lat
}
