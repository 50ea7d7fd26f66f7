package contextmenu

import "github.com/devin-hart/nox-contextmenu/pkg/geom"

// Kind tells the three sorts of menu entry apart.
type Kind int

const (
	KindAction Kind = iota
	KindSeparator
	KindSubMenu
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindSeparator:
		return "separator"
	case KindSubMenu:
		return "submenu"
	}
	return "unknown"
}

// ItemSpec declares one menu entry. Build them with Action, Separator and
// SubMenu rather than by hand.
type ItemSpec struct {
	Kind Kind
	Text string

	// Icon is an image URL or path, IconClass an icon font class. The
	// Retina variants replace them on high density displays.
	Icon            string
	RetinaIcon      string
	IconClass       string
	RetinaIconClass string

	// Class is appended to the entry's class list.
	Class string

	Disabled bool

	// Index is the requested display position. Nil appends.
	Index *int

	// HideOnSelect closes the menu before the callback runs. Nil means true.
	HideOnSelect *bool

	// Callback runs when an enabled action is selected. Context is passed
	// back in ItemEvent.Context; when nil the menu's Map is used.
	Callback func(ItemEvent)
	Context  any

	// Items are the children of a KindSubMenu entry.
	Items []ItemSpec
}

// Action declares a selectable entry.
func Action(text string, callback func(ItemEvent)) ItemSpec {
	return ItemSpec{Kind: KindAction, Text: text, Callback: callback}
}

// Separator declares a divider line.
func Separator() ItemSpec {
	return ItemSpec{Kind: KindSeparator}
}

// SubMenu declares an entry that opens a nested menu.
func SubMenu(text string, items ...ItemSpec) ItemSpec {
	return ItemSpec{Kind: KindSubMenu, Text: text, Items: items}
}

// At returns a copy of s requesting display position i.
func (s ItemSpec) At(i int) ItemSpec {
	s.Index = &i
	return s
}

// KeepOpen returns a copy of s that leaves the menu open on select.
func (s ItemSpec) KeepOpen() ItemSpec {
	f := false
	s.HideOnSelect = &f
	return s
}

func (s ItemSpec) WithIcon(icon, retina string) ItemSpec {
	s.Icon, s.RetinaIcon = icon, retina
	return s
}

func (s ItemSpec) WithIconClass(cls, retina string) ItemSpec {
	s.IconClass, s.RetinaIconClass = cls, retina
	return s
}

func (s ItemSpec) WithClass(cls string) ItemSpec {
	s.Class = cls
	return s
}

func (s ItemSpec) WithContext(ctx any) ItemSpec {
	s.Context = ctx
	return s
}

func (s ItemSpec) AsDisabled() ItemSpec {
	s.Disabled = true
	return s
}

func (s ItemSpec) hidesOnSelect() bool {
	return s.HideOnSelect == nil || *s.HideOnSelect
}

func (s ItemSpec) icon(retina bool) string {
	if retina && s.RetinaIcon != "" {
		return s.RetinaIcon
	}
	return s.Icon
}

func (s ItemSpec) iconClass(retina bool) string {
	if retina && s.RetinaIconClass != "" {
		return s.RetinaIconClass
	}
	return s.IconClass
}

// ItemEvent is passed to an action's callback.
type ItemEvent struct {
	ContainerPoint geom.Point
	LayerPoint     geom.Point
	LatLng         geom.LatLng

	// RelatedTarget is the bound layer that opened the menu, if any.
	RelatedTarget any

	// Context is the spec's Context, or the Map when that is nil.
	Context any

	Item *Item
}

// ShowContext is what the menu remembers about the current show.
type ShowContext struct {
	ContainerPoint geom.Point
	LayerPoint     geom.Point
	LatLng         geom.LatLng
	RelatedTarget  any
}

// ShowData is optional extra information for ShowAt.
type ShowData struct {
	RelatedTarget any

	// Payload is copied into the contextmenu.show notification.
	Payload any
}

// ItemID identifies an entry for as long as it lives. IDs are never reused
// within one Menu.
type ItemID uint64

// Item is a live entry inside a Menu.
type Item struct {
	ID   ItemID
	Spec ItemSpec

	node   NodeID
	parent *Registry
	sub    *Registry

	// select handler, nil once the entry is removed
	onSelect func()
}

func (it *Item) Kind() Kind {
	return it.Spec.Kind
}

func (it *Item) Text() string {
	return it.Spec.Text
}

// Node is the entry's node in the menu's Tree.
func (it *Item) Node() NodeID {
	return it.node
}

// SubMenu returns the nested registry of a KindSubMenu entry, nil otherwise.
func (it *Item) SubMenu() *Registry {
	return it.sub
}

// Removed reports whether the entry has been taken out of its menu.
func (it *Item) Removed() bool {
	return it.parent == nil
}
