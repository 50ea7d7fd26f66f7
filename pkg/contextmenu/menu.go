// Package contextmenu is a right-click menu for an interactive map.
//
// A Menu is attached to a host Map. It keeps a registry of entries
// (actions, separators and sub-menus) and a retained node tree the host
// draws, opens on the map's contextmenu trigger and closes on the usual
// dismiss triggers: a press outside the menu, pan or zoom start, the
// pointer leaving the map, Escape, and a tap on touch devices without
// hover.
//
// Layers that want their own entries hold a Binding. While a layer's menu
// is open its entries are injected into the shared Menu and they are taken
// out again when the menu hides.
//
// Everything runs on the caller's goroutine. A Menu must only be used from
// the loop that drives its Map.
package contextmenu

import (
	"log/slog"

	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
)

// Options configure a Menu.
type Options struct {
	// Items are the global entries, created in order.
	Items []ItemSpec

	// Width fixes the width of the top level container in pixels.
	Width float64

	// Anchor is added to every show point.
	Anchor geom.Point

	// Measurer sizes labels. Defaults to basicfont's 7x13 face.
	Measurer Measurer

	// Metrics overrides DefaultMetrics.
	Metrics *Metrics

	Logger *slog.Logger
}

// Menu is the context menu of one Map.
type Menu struct {
	m        Map
	opts     Options
	metrics  Metrics
	measurer Measurer
	log      *slog.Logger

	tree *Tree
	root *Registry

	visible   bool
	hooks     []event.Handle
	show      ShowContext
	placement geom.Placement

	// intrinsic size of the top level container, valid until the item set
	// changes
	size      geom.Point
	sizeValid bool

	onHidden []func()
	nextID   ItemID
	hovered  *Item
}

// New creates the menu for m with its global entries and enables it.
func New(m Map, opts Options) *Menu {
	if m == nil {
		panic("contextmenu: New called with a nil Map")
	}

	menu := &Menu{
		m:        m,
		opts:     opts,
		metrics:  DefaultMetrics,
		measurer: opts.Measurer,
		log:      opts.Logger,
		tree:     &Tree{},
	}
	if opts.Metrics != nil {
		menu.metrics = *opts.Metrics
	}
	if menu.measurer == nil {
		menu.measurer = NewFaceMeasurer(nil)
	}
	if menu.log == nil {
		menu.log = slog.Default()
	}

	container := menu.tree.New(NodeContainer, ClassContainer)
	n := menu.tree.Node(container)
	n.Hidden = true
	n.Width = opts.Width
	n.SetAttr("role", "menu")
	menu.root = newRegistry(menu.tree, container)

	for _, spec := range opts.Items {
		menu.createItem(menu.root, spec, -1)
	}

	menu.Enable()
	return menu
}

// Map returns the map the menu belongs to.
func (m *Menu) Map() Map {
	return m.m
}

// Tree is the node tree hosts draw.
func (m *Menu) Tree() *Tree {
	return m.tree
}

// Root is the registry of top level entries.
func (m *Menu) Root() *Registry {
	return m.root
}

// Enable subscribes the menu to its triggers. It is called by New.
func (m *Menu) Enable() {
	if m.hooks != nil {
		return
	}
	bus := m.m.Events()
	hide := func(event.Event) { m.Hide() }

	m.hooks = append(m.hooks,
		bus.On(TriggerContextMenu, m.onContextMenu),
		bus.On(TriggerMouseDown, hide),
		bus.On(TriggerMoveStart, hide),
		bus.On(TriggerZoomStart, hide),
		bus.On(TriggerMouseOut, hide),
		bus.On(TriggerKeyDown, m.onKeyDown),
	)
	if caps := m.m.Capabilities(); caps.Touch && !caps.Hover {
		m.hooks = append(m.hooks, bus.On(TriggerTouchStart, hide))
	}
}

// Disable unsubscribes the menu from its triggers. Entries are kept.
func (m *Menu) Disable() {
	for _, h := range m.hooks {
		h.Remove()
	}
	m.hooks = nil
}

func (m *Menu) Enabled() bool {
	return m.hooks != nil
}

// Close disables the menu, hides it and removes every entry.
func (m *Menu) Close() {
	m.Disable()
	m.Hide()
	m.RemoveAllItems()
}

func (m *Menu) onContextMenu(ev event.Event) {
	if !ev.HasPoint {
		return
	}
	m.ShowAt(ev.ContainerPoint, &ShowData{Payload: ev})
}

func (m *Menu) onKeyDown(ev event.Event) {
	if ev.Key == KeyEscape {
		m.Hide()
	}
}

// ShowAt opens the menu at viewport point p. An empty menu stays closed.
// Showing an open menu moves it. The result reports whether the menu went
// from hidden to visible.
func (m *Menu) ShowAt(p geom.Point, data *ShowData) bool {
	if m.root.Len() == 0 {
		return false
	}

	lp := m.m.ContainerPointToLayerPoint(p)
	m.show = ShowContext{
		ContainerPoint: p,
		LayerPoint:     lp,
		LatLng:         m.m.LayerPointToLatLng(lp),
	}
	var payload any
	if data != nil {
		m.show.RelatedTarget = data.RelatedTarget
		payload = data.Payload
	}

	m.CloseSubMenus()
	m.placement = geom.Place(p, m.opts.Anchor, m.containerSize(), m.m.Size())

	repositioned := m.visible
	if !m.visible {
		m.tree.Node(m.root.container).Hidden = false
		m.visible = true
	}

	m.log.Debug("context menu shown", "x", p.X, "y", p.Y, "items", m.root.Len(), "repositioned", repositioned)
	m.fire(EventShow, Notification{
		Menu:         m,
		Show:         m.show,
		Repositioned: repositioned,
		Payload:      payload,
	})
	return !repositioned
}

// ShowAtLatLng opens the menu at a map coordinate.
func (m *Menu) ShowAtLatLng(ll geom.LatLng, data *ShowData) bool {
	return m.ShowAt(m.m.LatLngToContainerPoint(ll), data)
}

// Hide closes the menu. Hiding a closed menu does nothing. The result
// reports whether the menu went from visible to hidden.
func (m *Menu) Hide() bool {
	if !m.visible {
		return false
	}
	m.visible = false
	m.tree.Node(m.root.container).Hidden = true
	m.setHovered(nil)

	m.log.Debug("context menu hidden")
	m.fire(EventHide, Notification{Menu: m})

	callbacks := m.onHidden
	m.onHidden = nil
	for _, fn := range callbacks {
		fn()
	}
	return true
}

// OnceHidden registers fn to run once, right after the next transition to
// hidden. It never runs for hides of an already closed menu.
func (m *Menu) OnceHidden(fn func()) {
	m.onHidden = append(m.onHidden, fn)
}

func (m *Menu) IsVisible() bool {
	return m.visible
}

// ShowContext returns what was captured by the last show.
func (m *Menu) ShowContext() ShowContext {
	return m.show
}

// Placement returns where the last show put the top level container.
func (m *Menu) Placement() geom.Placement {
	return m.placement
}

func (m *Menu) Len() int {
	return m.root.Len()
}

func (m *Menu) Items() []*Item {
	return m.root.Items()
}

// AddItem appends a top level entry.
func (m *Menu) AddItem(spec ItemSpec) *Item {
	return m.InsertItem(spec, -1)
}

// InsertItem creates a top level entry before the one at index. A negative
// or out of range index appends.
func (m *Menu) InsertItem(spec ItemSpec, index int) *Item {
	it := m.createItem(m.root, spec, index)
	m.fire(EventAddItem, Notification{Menu: m, Item: it, Index: m.root.IndexOf(it)})
	return it
}

func (m *Menu) createItem(reg *Registry, spec ItemSpec, index int) *Item {
	m.nextID++
	it := &Item{ID: m.nextID, Spec: spec}

	if spec.Kind == KindSeparator {
		it.node = m.tree.New(NodeSeparator, ClassSeparator)
	} else {
		retina := m.m.Capabilities().Retina
		it.node = m.tree.New(NodeItem, ClassItem, ClassInner)
		n := m.tree.Node(it.node)
		n.AddClass(spec.Class)
		if spec.Disabled {
			n.AddClass(ClassDisabled)
		}
		n.Text = spec.Text
		n.Icon = spec.icon(retina)
		n.IconClass = spec.iconClass(retina)
		n.SetAttr("role", "button")

		if spec.Kind == KindSubMenu {
			n.AddClass(ClassToggle)
			n.SetAttr("aria-haspopup", "true")
			n.SetAttr("aria-expanded", "false")

			sub := m.tree.New(NodeContainer, ClassContainer)
			m.tree.Node(sub).SetAttr("role", "menu")
			m.tree.InsertAt(it.node, sub, -1)
			it.sub = newRegistry(m.tree, sub)
			for _, child := range spec.Items {
				m.createItem(it.sub, child, -1)
			}
		} else {
			it.onSelect = func() { m.selectItem(it) }
		}
	}
	m.tree.Node(it.node).Item = it

	reg.insert(it, index)
	m.sizeValid = false
	return it
}

// RemoveItem removes an entry, top level or nested. It returns nil when it
// is not part of this menu, including when it was already removed.
func (m *Menu) RemoveItem(it *Item) *Item {
	if it == nil || it.parent == nil || it.parent.tree != m.tree {
		return nil
	}
	reg := it.parent
	if it.sub != nil {
		it.sub.walk(func(child *Item) {
			child.parent = nil
			child.onSelect = nil
		})
	}
	reg.remove(it.ID)
	m.sizeValid = false

	// hovered may be it or any entry of its sub-menu
	if m.hovered != nil && m.hovered.Removed() {
		m.hovered = nil
	}

	m.fire(EventRemoveItem, Notification{Menu: m, Item: it})
	return it
}

// RemoveItemAt removes the top level entry at index.
func (m *Menu) RemoveItemAt(index int) *Item {
	return m.RemoveItem(m.root.At(index))
}

// RemoveItemByID removes the entry with id wherever it is nested.
func (m *Menu) RemoveItemByID(id ItemID) *Item {
	return m.RemoveItem(m.FindItem(id))
}

// FindItem looks an entry up by id, searching sub-menus too.
func (m *Menu) FindItem(id ItemID) *Item {
	var found *Item
	m.root.walk(func(it *Item) {
		if found == nil && it.ID == id {
			found = it
		}
	})
	return found
}

// RemoveAllItems removes every top level entry, one notification each.
func (m *Menu) RemoveAllItems() {
	for m.root.Len() > 0 {
		m.RemoveItem(m.root.At(0))
	}
}

// HideAllItems hides every top level entry without removing it.
func (m *Menu) HideAllItems() {
	m.setItemsHidden(true)
}

// ShowAllItems undoes HideAllItems.
func (m *Menu) ShowAllItems() {
	m.setItemsHidden(false)
}

func (m *Menu) setItemsHidden(hidden bool) {
	for _, it := range m.root.items {
		m.tree.Node(it.node).Hidden = hidden
	}
	m.sizeValid = false
}

// SetDisabled enables or disables an action. Separators and sub-menu
// toggles are left alone. It reports whether it applied.
func (m *Menu) SetDisabled(it *Item, disabled bool) bool {
	if it == nil || it.parent == nil || it.parent.tree != m.tree || it.Kind() != KindAction {
		return false
	}
	n := m.tree.Node(it.node)
	if disabled {
		n.AddClass(ClassDisabled)
		n.RemoveClass(ClassOver)
		m.fire(EventDisableItem, Notification{Menu: m, Item: it})
	} else {
		n.RemoveClass(ClassDisabled)
		m.fire(EventEnableItem, Notification{Menu: m, Item: it})
	}
	return true
}

// SetDisabledAt is SetDisabled for the top level entry at index.
func (m *Menu) SetDisabledAt(index int, disabled bool) bool {
	return m.SetDisabled(m.root.At(index), disabled)
}

// IsDisabled reports whether an action is currently disabled.
func (m *Menu) IsDisabled(it *Item) bool {
	if it == nil {
		return false
	}
	n := m.tree.Node(it.node)
	return n != nil && n.HasClass(ClassDisabled)
}

// Activate does what a click on the entry does: select an action or toggle
// a sub-menu. It reports whether anything happened.
func (m *Menu) Activate(it *Item) bool {
	if it == nil || it.Removed() {
		return false
	}
	switch it.Kind() {
	case KindSubMenu:
		m.toggleSubMenu(it)
		return true
	case KindAction:
		if it.onSelect == nil || m.IsDisabled(it) {
			return false
		}
		it.onSelect()
		return true
	}
	return false
}

func (m *Menu) selectItem(it *Item) {
	n := m.tree.Node(it.node)
	if n == nil || n.HasClass(ClassDisabled) {
		return
	}
	// without hover there is never a pointer-leave to clear the highlight
	if !m.m.Capabilities().Hover {
		n.RemoveClass(ClassOver)
	}

	lp := m.m.ContainerPointToLayerPoint(m.show.ContainerPoint)
	ev := ItemEvent{
		ContainerPoint: m.show.ContainerPoint,
		LayerPoint:     lp,
		LatLng:         m.m.LayerPointToLatLng(lp),
		RelatedTarget:  m.show.RelatedTarget,
		Context:        it.Spec.Context,
		Item:           it,
	}
	if ev.Context == nil {
		ev.Context = m.m
	}

	if it.Spec.hidesOnSelect() {
		m.Hide()
	}
	if it.Spec.Callback != nil {
		it.Spec.Callback(ev)
	}

	m.log.Debug("context menu item selected", "id", it.ID, "text", it.Text())
	m.fire(EventSelect, Notification{Menu: m, Item: it})
}

// IsSubMenuOpen reports whether a sub-menu entry is expanded.
func (m *Menu) IsSubMenuOpen(it *Item) bool {
	if it == nil || it.sub == nil {
		return false
	}
	n := m.tree.Node(it.sub.container)
	return n != nil && n.HasClass(ClassOpen)
}

// toggleSubMenu flips it open or closed. Siblings under the same container
// are closed first, so at most one sub-menu per container is open.
func (m *Menu) toggleSubMenu(it *Item) {
	for _, sib := range it.parent.items {
		if sib != it && sib.sub != nil {
			m.closeSubMenu(sib)
		}
	}
	if m.IsSubMenuOpen(it) {
		m.closeSubMenu(it)
		return
	}
	m.tree.Node(it.sub.container).AddClass(ClassOpen)
	m.tree.Node(it.node).SetAttr("aria-expanded", "true")
}

func (m *Menu) closeSubMenu(it *Item) {
	m.tree.Node(it.sub.container).RemoveClass(ClassOpen)
	m.tree.Node(it.node).SetAttr("aria-expanded", "false")
	m.closeSubMenus(it.sub)
}

func (m *Menu) closeSubMenus(reg *Registry) {
	for _, it := range reg.items {
		if it.sub != nil {
			m.closeSubMenu(it)
		}
	}
}

// CloseSubMenus collapses every open sub-menu.
func (m *Menu) CloseSubMenus() {
	m.closeSubMenus(m.root)
}

func (m *Menu) containerSize() geom.Point {
	if !m.sizeValid {
		m.size = m.measure(m.root, m.opts.Width)
		m.sizeValid = true
	}
	return m.size
}

// Size is the intrinsic size of the top level container.
func (m *Menu) Size() geom.Point {
	return m.containerSize()
}

func (m *Menu) fire(typ string, n Notification) {
	m.m.Events().Fire(event.Event{Type: typ, Target: m, Data: n})
}
