package contextmenu

import (
	"testing"

	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLayer struct {
	name string
	bus  *event.Bus
}

func newTestLayer(name string) *testLayer {
	return &testLayer{name: name, bus: event.NewBus()}
}

func (l *testLayer) Events() *event.Bus { return l.bus }

func (l *testLayer) rightClick(p geom.Point) {
	l.bus.Fire(event.Event{Type: TriggerContextMenu, ContainerPoint: p, HasPoint: true, Target: l})
}

type testMarker struct {
	*testLayer
	at geom.LatLng
}

func (m *testMarker) LatLng() geom.LatLng { return m.at }

type testHost struct {
	menu *Menu
}

func (h *testHost) ContextMenu() *Menu { return h.menu }

func TestBindingRoundTripLeavesNoItems(t *testing.T) {
	tm := newTestMap()
	m := newTestMenu(t, tm, Action("Zoom In", nop), Action("Zoom Out", nop))
	layer := newTestLayer("marker")

	NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{
		Items: []ItemSpec{Action("Remove", nop), Separator()},
	})

	before := m.Len()
	layer.rightClick(geom.Pt(50, 50))

	assert.True(t, m.IsVisible())
	assert.Equal(t, []string{"Zoom In", "Zoom Out", "Remove", ""}, texts(m.Items()))
	assert.Equal(t, layer, m.ShowContext().RelatedTarget)

	tm.bus.Fire(event.Event{Type: TriggerZoomStart})
	assert.False(t, m.IsVisible())
	assert.Equal(t, before, m.Len())
	assert.Equal(t, []string{"Zoom In", "Zoom Out"}, texts(m.Items()))
	assert.Equal(t, texts(m.Items()), childTexts(m))
}

func TestBindingInjectsAtRequestedIndex(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("a", nop), Action("b", nop))
	layer := newTestLayer("path")

	NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{
		Items: []ItemSpec{Action("top", nop).At(0), Action("tail", nop)},
	})
	layer.rightClick(geom.Pt(5, 5))

	assert.Equal(t, []string{"top", "a", "b", "tail"}, texts(m.Items()))
}

func TestBindingWithoutInheritHidesGlobalItems(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("global", nop))
	layer := newTestLayer("marker")
	inherit := false

	b := NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{
		Items:        []ItemSpec{Action("own", nop)},
		InheritItems: &inherit,
	})
	assert.False(t, b.InheritItems())

	layer.rightClick(geom.Pt(5, 5))
	global := m.Tree().Node(m.Items()[0].Node())
	assert.True(t, global.Hidden)

	frames := m.Layout()
	require.Len(t, frames, 1)
	require.Len(t, frames[0].Rows, 1)
	assert.Equal(t, "own", frames[0].Rows[0].Item.Text())

	m.Hide()
	assert.False(t, global.Hidden)
	assert.Equal(t, []string{"global"}, texts(m.Items()))
}

func TestBindingCallbackSeesRelatedTarget(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("global", nop))
	layer := newTestLayer("marker")
	var got ItemEvent

	NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{
		Items: []ItemSpec{Action("Remove", func(ev ItemEvent) { got = ev })},
	})
	layer.rightClick(geom.Pt(30, 40))
	require.True(t, m.Activate(m.Items()[1]))

	assert.Same(t, layer, got.RelatedTarget)
	assert.Equal(t, geom.Pt(30, 40), got.ContainerPoint)
	assert.Equal(t, 1, m.Len(), "the injected item is gone once the menu hid")
}

func TestBindingWithoutMenuIsSilent(t *testing.T) {
	layer := newTestLayer("marker")
	b := NewBinding(layer).Bind(&testHost{}, BindOptions{Items: []ItemSpec{Action("a", nop)}})

	assert.NotPanics(t, func() { layer.rightClick(geom.Pt(1, 1)) })
	assert.True(t, b.Bound())

	var unbound Binding
	assert.NotPanics(t, func() { unbound.open(event.Event{}) })
}

func TestUnbindStopsListening(t *testing.T) {
	m := newTestMenu(t, newTestMap())
	layer := newTestLayer("marker")
	b := NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{Items: []ItemSpec{Action("a", nop)}})

	layer.rightClick(geom.Pt(1, 1))
	require.True(t, m.IsVisible())

	b.Unbind()
	assert.False(t, b.Bound())
	assert.False(t, layer.bus.Listens(TriggerContextMenu))
	assert.True(t, m.IsVisible(), "an open menu is left alone")

	m.Hide()
	assert.Equal(t, 0, m.Len())

	layer.rightClick(geom.Pt(1, 1))
	assert.False(t, m.IsVisible())
}

func TestSecondLayerDoesNotInheritFirstLayersItems(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("global", nop))
	host := &testHost{menu: m}
	first, second := newTestLayer("first"), newTestLayer("second")

	NewBinding(first).Bind(host, BindOptions{Items: []ItemSpec{Action("from first", nop)}})
	NewBinding(second).Bind(host, BindOptions{Items: []ItemSpec{Action("from second", nop)}})

	first.rightClick(geom.Pt(1, 1))
	second.rightClick(geom.Pt(2, 2))

	assert.True(t, m.IsVisible())
	assert.Equal(t, []string{"global", "from second"}, texts(m.Items()))
	assert.Same(t, second, m.ShowContext().RelatedTarget)

	m.Hide()
	assert.Equal(t, []string{"global"}, texts(m.Items()))
}

func TestRepeatedOpenOnSameLayerCleansUpOnce(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("global", nop))
	layer := newTestLayer("marker")
	NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{Items: []ItemSpec{Action("own", nop)}})

	for range 3 {
		layer.rightClick(geom.Pt(1, 1))
		assert.Equal(t, 2, m.Len())
	}
	m.Hide()
	assert.Equal(t, 1, m.Len())
}

func TestBindingFallsBackToLayerLocation(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("global", nop))
	marker := &testMarker{testLayer: newTestLayer("marker"), at: geom.LatLng{Lat: -205, Lng: 105}}
	NewBinding(marker).Bind(&testHost{menu: m}, BindOptions{})

	marker.bus.Fire(event.Event{Type: TriggerContextMenu})

	assert.True(t, m.IsVisible())
	assert.Equal(t, geom.Pt(50, 50), m.ShowContext().ContainerPoint)
	assert.Same(t, marker, m.ShowContext().RelatedTarget)
}

func TestBindingItemEditing(t *testing.T) {
	b := NewBinding(newTestLayer("marker"))
	b.AddItem(Action("one", nop).At(1))
	b.AddItem(Action("two", nop).At(2))
	b.AddItem(Action("also one", nop).At(1))
	b.AddItem(Action("none", nop))

	b.RemoveItemsWithIndex(1)
	var got []string
	for _, spec := range b.Items() {
		got = append(got, spec.Text)
	}
	assert.Equal(t, []string{"two", "none"}, got)

	b.ReplaceItem(Action("new two", nop).At(2))
	b.ReplaceItem(Action("unindexed", nop))
	got = got[:0]
	for _, spec := range b.Items() {
		got = append(got, spec.Text)
	}
	assert.Equal(t, []string{"none", "new two", "unindexed"}, got)
}

func TestBindingPicksUpAddedItemsOnNextOpen(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("global", nop))
	layer := newTestLayer("marker")
	b := NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{})

	b.AddItem(Action("late", nop))
	layer.rightClick(geom.Pt(1, 1))

	assert.Equal(t, []string{"global", "late"}, texts(m.Items()))
}

func TestRebindReplacesOptions(t *testing.T) {
	m := newTestMenu(t, newTestMap(), Action("global", nop))
	layer := newTestLayer("marker")
	host := &testHost{menu: m}
	b := NewBinding(layer).Bind(host, BindOptions{Items: []ItemSpec{Action("old", nop)}})

	b.Bind(host, BindOptions{Items: []ItemSpec{Action("new", nop)}})
	layer.rightClick(geom.Pt(1, 1))

	assert.Equal(t, []string{"global", "new"}, texts(m.Items()))
}

func TestBindingOnEmptyMenuLeavesNothingBehind(t *testing.T) {
	m := newTestMenu(t, newTestMap())
	layer := newTestLayer("marker")
	NewBinding(layer).Bind(&testHost{menu: m}, BindOptions{})

	layer.rightClick(geom.Pt(1, 1))

	assert.False(t, m.IsVisible())
	assert.Empty(t, m.onHidden)

	m.AddItem(Action("later", nop))
	m.ShowAt(geom.Pt(1, 1), nil)
	m.Hide()
	assert.Equal(t, []string{"later"}, texts(m.Items()))
}
