package contextmenu

import "github.com/devin-hart/nox-contextmenu/pkg/geom"

// Row is one laid out entry.
type Row struct {
	Item *Item
	Node *Node
	Rect geom.Rect
}

// Frame is one laid out container: the top level menu or an open
// sub-menu. Depth is 0 for the top level and Z is ZIndex plus Depth.
type Frame struct {
	Node  *Node
	Rect  geom.Rect
	Rows  []Row
	Depth int
	Z     int
}

// measure returns the size a registry's container needs for its visible
// entries. A positive width overrides the measured one.
func (m *Menu) measure(reg *Registry, width float64) geom.Point {
	mt := m.metrics
	w := mt.MinWidth
	h := mt.PaddingY * 2

	for _, it := range reg.items {
		n := m.tree.Node(it.node)
		if n.Hidden {
			continue
		}
		if it.Kind() == KindSeparator {
			h += mt.SeparatorHeight
			continue
		}
		h += mt.ItemHeight

		rw := mt.PaddingX*2 + m.measurer.TextWidth(n.Text)
		if n.Icon != "" || n.IconClass != "" {
			rw += mt.IconSize + mt.IconGap
		}
		if it.sub != nil {
			rw += mt.ArrowWidth
		}
		w = max(w, rw)
	}

	if width > 0 {
		w = width
	}
	return geom.Pt(w, h)
}

// Layout positions the visible containers in viewport pixels, the top
// level first and open sub-menus after their parent. It is empty while the
// menu is hidden.
func (m *Menu) Layout() []Frame {
	if !m.visible {
		return nil
	}
	size := m.containerSize()
	origin := m.placement.Origin(size, m.m.Size())

	var frames []Frame
	m.layoutFrame(m.root, origin, size, 0, &frames)
	return frames
}

func (m *Menu) layoutFrame(reg *Registry, origin, size geom.Point, depth int, frames *[]Frame) {
	mt := m.metrics
	f := Frame{
		Node:  m.tree.Node(reg.container),
		Rect:  geom.Rect{X: origin.X, Y: origin.Y, W: size.X, H: size.Y},
		Depth: depth,
		Z:     ZIndex + depth,
	}

	type pending struct {
		reg *Registry
		at  geom.Point
	}
	var open []pending

	y := origin.Y + mt.PaddingY
	for _, it := range reg.items {
		n := m.tree.Node(it.node)
		if n.Hidden {
			continue
		}
		h := mt.ItemHeight
		if it.Kind() == KindSeparator {
			h = mt.SeparatorHeight
		}
		f.Rows = append(f.Rows, Row{
			Item: it,
			Node: n,
			Rect: geom.Rect{X: origin.X, Y: y, W: size.X, H: h},
		})
		// a sub-menu opens flush with its parent's right edge, level with
		// the entry that opened it
		if m.IsSubMenuOpen(it) {
			open = append(open, pending{reg: it.sub, at: geom.Pt(origin.X+size.X, y)})
		}
		y += h
	}
	*frames = append(*frames, f)

	for _, p := range open {
		m.layoutFrame(p.reg, p.at, m.measure(p.reg, 0), depth+1, frames)
	}
}

// hit returns the row under p, searching the topmost frame first, and
// whether p is inside the menu at all.
func (m *Menu) hit(p geom.Point) (*Row, bool) {
	frames := m.Layout()
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if !f.Rect.Contains(p) {
			continue
		}
		for j := range f.Rows {
			if f.Rows[j].Rect.Contains(p) {
				return &f.Rows[j], true
			}
		}
		return nil, true
	}
	return nil, false
}

// Contains reports whether p is over the open menu. Hosts use it to keep
// presses on the menu from reaching the map.
func (m *Menu) Contains(p geom.Point) bool {
	_, inside := m.hit(p)
	return inside
}

// ItemAt returns the entry under p, or nil.
func (m *Menu) ItemAt(p geom.Point) *Item {
	row, _ := m.hit(p)
	if row == nil {
		return nil
	}
	return row.Item
}

// PointerMove updates the hover highlight for a pointer at p.
func (m *Menu) PointerMove(p geom.Point) {
	if !m.visible {
		return
	}
	var target *Item
	if row, _ := m.hit(p); row != nil && row.Item.Kind() != KindSeparator {
		target = row.Item
	}
	m.setHovered(target)
}

// Hovered is the entry under the pointer, or nil.
func (m *Menu) Hovered() *Item {
	return m.hovered
}

func (m *Menu) setHovered(it *Item) {
	if it == m.hovered {
		return
	}
	if m.hovered != nil {
		if n := m.tree.Node(m.hovered.node); n != nil {
			n.RemoveClass(ClassOver)
		}
	}
	m.hovered = it
	if it != nil {
		if n := m.tree.Node(it.node); n != nil && !n.HasClass(ClassDisabled) {
			n.AddClass(ClassOver)
		}
	}
}

// Click handles a press at p. A press on an entry activates it. The result
// is true when p is over the menu, in which case the host must not pass the
// press on to the map.
func (m *Menu) Click(p geom.Point) bool {
	if !m.visible {
		return false
	}
	row, inside := m.hit(p)
	if row != nil {
		m.Activate(row.Item)
	}
	return inside
}
