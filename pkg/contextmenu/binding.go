package contextmenu

import (
	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
)

// Layer is anything that fires its own contextmenu trigger: markers,
// paths, or any other map object.
type Layer interface {
	Events() *event.Bus
}

// Locator is implemented by layers with a single map coordinate. A
// trigger without a pointer position opens the menu there.
type Locator interface {
	LatLng() geom.LatLng
}

// Host hands out the map's menu. ContextMenu returns nil when the map has
// no menu enabled.
type Host interface {
	ContextMenu() *Menu
}

// BindOptions configure a Binding.
type BindOptions struct {
	Items []ItemSpec

	// InheritItems keeps the global entries visible next to the layer's
	// own. Nil means true.
	InheritItems *bool
}

// Binding gives a layer its own entries in the map's menu. Embed or hold
// one per layer.
type Binding struct {
	layer   Layer
	host    Host
	items   []ItemSpec
	inherit bool
	handle  event.Handle
	bound   bool

	// entries injected by the open session and whether global entries were
	// hidden for it
	injected  []*Item
	hidGlobal bool
}

// NewBinding returns an unbound binding for layer.
func NewBinding(layer Layer) *Binding {
	return &Binding{layer: layer, inherit: true}
}

// Bind stores opts and starts listening for the layer's contextmenu
// trigger. Binding again replaces the options.
func (b *Binding) Bind(host Host, opts BindOptions) *Binding {
	b.host = host
	b.items = append([]ItemSpec(nil), opts.Items...)
	b.inherit = opts.InheritItems == nil || *opts.InheritItems
	if !b.bound {
		b.handle = b.layer.Events().On(TriggerContextMenu, b.open)
		b.bound = true
	}
	return b
}

// Unbind stops listening. A menu this binding already opened stays as it
// is and is still cleaned up when it hides.
func (b *Binding) Unbind() *Binding {
	b.handle.Remove()
	b.handle = event.Handle{}
	b.bound = false
	return b
}

func (b *Binding) Bound() bool {
	return b.bound
}

// Items returns a copy of the layer's entry specs.
func (b *Binding) Items() []ItemSpec {
	return append([]ItemSpec(nil), b.items...)
}

// InheritItems reports whether global entries stay visible.
func (b *Binding) InheritItems() bool {
	return b.inherit
}

// AddItem adds an entry to the layer's set. It shows up the next time the
// layer's menu opens.
func (b *Binding) AddItem(spec ItemSpec) {
	b.items = append(b.items, spec)
}

// RemoveItemsWithIndex drops every entry requesting display position i.
func (b *Binding) RemoveItemsWithIndex(i int) {
	kept := b.items[:0]
	for _, spec := range b.items {
		if spec.Index != nil && *spec.Index == i {
			continue
		}
		kept = append(kept, spec)
	}
	clear(b.items[len(kept):])
	b.items = kept
}

// ReplaceItem swaps the entries at spec's index for spec. A spec without an
// index is simply added.
func (b *Binding) ReplaceItem(spec ItemSpec) {
	if spec.Index != nil {
		b.RemoveItemsWithIndex(*spec.Index)
	}
	b.AddItem(spec)
}

func (b *Binding) open(ev event.Event) {
	if b.host == nil {
		return
	}
	menu := b.host.ContextMenu()
	if menu == nil {
		return
	}

	// a session from another layer still open would leak its entries into
	// this one
	menu.Hide()

	if !b.inherit {
		menu.HideAllItems()
		b.hidGlobal = true
	}
	for _, spec := range b.items {
		index := -1
		if spec.Index != nil {
			index = *spec.Index
		}
		b.injected = append(b.injected, menu.InsertItem(spec, index))
	}

	data := &ShowData{RelatedTarget: b.layer, Payload: ev}
	var shown bool
	switch {
	case ev.HasPoint:
		shown = menu.ShowAt(ev.ContainerPoint, data)
	case b.locatable():
		shown = menu.ShowAtLatLng(b.layer.(Locator).LatLng(), data)
	default:
		shown = menu.ShowAt(menu.ShowContext().ContainerPoint, data)
	}

	// an empty menu stays closed and never hides, so undo right away
	if !shown {
		b.close(menu)
		return
	}
	menu.OnceHidden(func() { b.close(menu) })
}

func (b *Binding) locatable() bool {
	_, ok := b.layer.(Locator)
	return ok
}

// close reverses the injection of the session that just hid.
func (b *Binding) close(menu *Menu) {
	for _, it := range b.injected {
		menu.RemoveItem(it)
	}
	clear(b.injected)
	b.injected = b.injected[:0]

	if b.hidGlobal {
		menu.ShowAllItems()
		b.hidGlobal = false
	}
}
