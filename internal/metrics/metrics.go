package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/devin-hart/nox-contextmenu/pkg/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Menu counts context menu activity.
type Menu struct {
	reg     *prometheus.Registry
	shows   *prometheus.CounterVec
	hides   prometheus.Counter
	selects *prometheus.CounterVec
	items   prometheus.Gauge
}

// NewMenu registers the menu collectors on a fresh registry.
func NewMenu() *Menu {
	m := &Menu{
		reg: prometheus.NewRegistry(),
		shows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nox_contextmenu_shows_total",
			Help: "Context menu shows, by what was right clicked.",
		}, []string{"target"}),
		hides: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nox_contextmenu_hides_total",
			Help: "Context menu hides.",
		}),
		selects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nox_contextmenu_selects_total",
			Help: "Selected context menu entries, by label.",
		}, []string{"item"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nox_contextmenu_items",
			Help: "Top level entries currently in the menu.",
		}),
	}
	m.reg.MustRegister(m.shows, m.hides, m.selects, m.items)
	return m
}

// Registry is the registry the collectors live on.
func (m *Menu) Registry() *prometheus.Registry {
	return m.reg
}

// Observe counts the notifications fired on bus. Remove the returned
// handles to stop.
func (m *Menu) Observe(bus *event.Bus) []event.Handle {
	return []event.Handle{
		bus.On(contextmenu.EventShow, func(ev event.Event) {
			n, ok := ev.Data.(contextmenu.Notification)
			if !ok || n.Repositioned {
				return
			}
			target := "map"
			if n.Show.RelatedTarget != nil {
				target = fmt.Sprintf("%T", n.Show.RelatedTarget)
			}
			m.shows.WithLabelValues(target).Inc()
			m.items.Set(float64(n.Menu.Len()))
		}),
		bus.On(contextmenu.EventHide, func(ev event.Event) {
			m.hides.Inc()
		}),
		bus.On(contextmenu.EventSelect, func(ev event.Event) {
			if n, ok := ev.Data.(contextmenu.Notification); ok && n.Item != nil {
				m.selects.WithLabelValues(n.Item.Text()).Inc()
			}
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Menu) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Menu) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	slog.Info("serving metrics", "addr", ln.Addr().String())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		slog.Debug("metrics server stopped")
		return nil
	})
	return g.Wait()
}
