package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/devin-hart/nox-contextmenu/internal/eqlog"
	"github.com/devin-hart/nox-contextmenu/internal/logger"
	"github.com/devin-hart/nox-contextmenu/internal/maps"
	"github.com/devin-hart/nox-contextmenu/internal/metrics"
	"github.com/devin-hart/nox-contextmenu/internal/parser"
	"github.com/devin-hart/nox-contextmenu/internal/ui"
	"github.com/devin-hart/nox-contextmenu/pkg/contextmenu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const appName = "nox-maps"

type rootOptions struct {
	configPath  string
	logLevel    string
	lookupPath  string
	metricsAddr string
	touch       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "nox-maps is a zone map viewer with a right-click menu.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts)
			if err != nil {
				slog.Error("nox-maps stopped", "error", err)
			}
			return err
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/nox-maps/config.toml)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default $LOG_LEVEL)")

	cmd.Flags().String("map-dir", "", "directory holding the zone map files")
	cmd.Flags().String("eq-dir", "", "game directory whose eqlog files place the player")
	cmd.Flags().String("zone", "", "zone to open, long or short name")
	f.StringVar(&opts.lookupPath, "lookup", "", "zone name lookup JSON (default <map-dir>/map_keys.json)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9876")
	cmd.Flags().BoolVar(&opts.touch, "touch", false, "touch screen without a hovering pointer")

	cmd.AddCommand(newConfigCmd(opts), newPruneCmd(opts))
	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	log := logger.SetDefault(appName, version, opts.logLevel)

	store, err := config.Open(opts.configPath)
	if err != nil {
		return err
	}
	v := store.Viper()
	if err := v.BindPFlag(config.MapDirKey, cmd.Flags().Lookup("map-dir")); err != nil {
		return fmt.Errorf("bind map-dir: %w", err)
	}
	if err := v.BindPFlag(config.EQDirKey, cmd.Flags().Lookup("eq-dir")); err != nil {
		return fmt.Errorf("bind eq-dir: %w", err)
	}
	if err := v.BindPFlag(config.ZoneKey, cmd.Flags().Lookup("zone")); err != nil {
		return fmt.Errorf("bind zone: %w", err)
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	log.Info("config loaded", "path", store.Path(), "map_dir", cfg.MapDir, "zone", cfg.Zone)

	lookupPath := opts.lookupPath
	if lookupPath == "" {
		lookupPath = filepath.Join(cfg.MapDir, "map_keys.json")
	}
	lookup, err := maps.LoadLookup(lookupPath)
	if err != nil {
		log.Warn("zone lookup unavailable, using names as given", "error", err)
	} else {
		log.Info("zone lookup loaded", "path", lookupPath, "zones", lookup.Len())
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	var player ui.PlayerSource
	if cfg.EQDir != "" {
		player = followLog(gCtx, g, cfg.EQDir, log)
	}

	window := ui.NewWindow(ui.Options{
		MapDir: cfg.MapDir,
		Lookup: lookup,
		Config: cfg,
		Store:  store,
		Player: player,
		Capabilities: contextmenu.Capabilities{
			Touch:  opts.touch,
			Hover:  !opts.touch,
			Retina: ebiten.Monitor().DeviceScaleFactor() >= 2,
		},
		Logger: log,
	})
	if cfg.Zone != "" {
		if err := window.LoadZone(cfg.Zone); err != nil {
			log.Warn("zone opened without a map", "zone", cfg.Zone, "error", err)
		}
	}

	if opts.metricsAddr != "" {
		m := metrics.NewMenu()
		m.Registry().MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m.Observe(window.Events())
		g.Go(func() error { return m.Serve(gCtx, opts.metricsAddr) })
	}

	ebiten.SetWindowSize(1024, 768)
	ebiten.SetWindowTitle("Nox Maps")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(window)
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Join(runErr, err)
	}
	return runErr
}

// followLog starts reading the newest eqlog in eqDir and returns the
// engine tracking the player.
func followLog(ctx context.Context, g *errgroup.Group, eqDir string, log *slog.Logger) *parser.Engine {
	reader := eqlog.NewReader(eqDir, log.With("component", "eqlog"))
	engine := parser.NewEngine(log.With("component", "parser"))

	zone, err := reader.InitialZone()
	switch {
	case err != nil:
		log.Warn("no log history", "dir", eqDir, "error", err)
	case zone != "":
		engine.SetZone(zone)
	}

	lines := make(chan eqlog.Line, 1000)
	g.Go(func() error { return reader.Run(ctx, lines) })
	g.Go(func() error { return engine.Run(ctx, lines) })
	return engine
}
