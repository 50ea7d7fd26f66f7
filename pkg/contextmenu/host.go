package contextmenu

import (
	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
)

// Trigger events a Map fires on its bus. The menu listens for them while
// enabled. Document level events (keydown, touchstart) go on the same bus.
const (
	TriggerContextMenu = "contextmenu"
	TriggerMouseDown   = "mousedown"
	TriggerMoveStart   = "movestart"
	TriggerZoomStart   = "zoomstart"
	TriggerMouseOut    = "mouseout"
	TriggerKeyDown     = "keydown"
	TriggerTouchStart  = "touchstart"
)

// KeyEscape is the Event.Key value of the Escape key.
const KeyEscape = "Escape"

// Notifications the menu fires on the Map's bus. Event.Data holds a
// Notification.
const (
	EventShow        = "contextmenu.show"
	EventHide        = "contextmenu.hide"
	EventAddItem     = "contextmenu.additem"
	EventRemoveItem  = "contextmenu.removeitem"
	EventEnableItem  = "contextmenu.enableitem"
	EventDisableItem = "contextmenu.disableitem"
	EventSelect      = "contextmenu.select"
)

// Capabilities describes the input device and display.
type Capabilities struct {
	Touch bool
	// Hover is true when a pointer can hover without pressing (a mouse).
	Hover  bool
	Retina bool
}

// Map is the host map the menu is attached to.
type Map interface {
	ContainerPointToLayerPoint(p geom.Point) geom.Point
	LayerPointToLatLng(p geom.Point) geom.LatLng
	LatLngToContainerPoint(ll geom.LatLng) geom.Point

	// Size is the viewport size in pixels.
	Size() geom.Point

	Events() *event.Bus
	Capabilities() Capabilities
}

// Notification is the Data of every contextmenu.* event.
type Notification struct {
	Menu *Menu

	// Item is set for item events.
	Item *Item
	// Index is the display position for additem.
	Index int

	// Show, Repositioned and Payload are set for show events. Repositioned
	// is true when the menu was already open and only moved.
	Show         ShowContext
	Repositioned bool
	Payload      any
}
