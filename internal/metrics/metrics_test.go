package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/devin-hart/nox-contextmenu/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatMap struct{ bus *event.Bus }

func (flatMap) ContainerPointToLayerPoint(p geom.Point) geom.Point { return p }
func (flatMap) LayerPointToLatLng(p geom.Point) geom.LatLng {
	return geom.LatLng{Lat: p.Y, Lng: p.X}
}
func (flatMap) LatLngToContainerPoint(ll geom.LatLng) geom.Point { return geom.Pt(ll.Lng, ll.Lat) }
func (flatMap) Size() geom.Point                                 { return geom.Pt(640, 480) }
func (m flatMap) Events() *event.Bus                             { return m.bus }
func (flatMap) Capabilities() contextmenu.Capabilities {
	return contextmenu.Capabilities{Hover: true}
}

func scrape(t *testing.T, m *Menu) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveCountsMenuActivity(t *testing.T) {
	fm := flatMap{bus: event.NewBus()}
	menu := contextmenu.New(fm, contextmenu.Options{
		Items: []contextmenu.ItemSpec{
			contextmenu.Action("Zoom In", func(contextmenu.ItemEvent) {}),
			contextmenu.Separator(),
		},
	})
	m := NewMenu()
	handles := m.Observe(fm.bus)

	menu.ShowAt(geom.Pt(10, 10), nil)
	menu.ShowAt(geom.Pt(20, 20), nil)
	require.True(t, menu.Activate(menu.Items()[0]))

	body := scrape(t, m)
	assert.Contains(t, body, `nox_contextmenu_shows_total{target="map"} 1`)
	assert.Contains(t, body, `nox_contextmenu_hides_total 1`)
	assert.Contains(t, body, `nox_contextmenu_selects_total{item="Zoom In"} 1`)
	assert.Contains(t, body, `nox_contextmenu_items 2`)

	for _, h := range handles {
		h.Remove()
	}
	menu.ShowAt(geom.Pt(10, 10), nil)
	assert.Contains(t, scrape(t, m), `nox_contextmenu_shows_total{target="map"} 1`)
}

func TestRegistryHoldsMenuCollectors(t *testing.T) {
	fm := flatMap{bus: event.NewBus()}
	menu := contextmenu.New(fm, contextmenu.Options{
		Items: []contextmenu.ItemSpec{contextmenu.Action("Center", func(contextmenu.ItemEvent) {})},
	})
	m := NewMenu()
	m.Observe(fm.bus)
	menu.ShowAt(geom.Pt(1, 1), nil)
	menu.Activate(menu.Items()[0])

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"nox_contextmenu_hides_total",
		"nox_contextmenu_items",
		"nox_contextmenu_selects_total",
		"nox_contextmenu_shows_total",
	}, names)
}

func TestServeStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewMenu().Serve(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}

func TestServeReportsListenErrors(t *testing.T) {
	err := NewMenu().Serve(context.Background(), "256.0.0.1:bad")
	assert.ErrorContains(t, err, "listen on")
}
