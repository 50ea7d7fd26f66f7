package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	var (
		mapDir string
		eqDir  string
		zone   string
		width  float64
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(root.configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			changed := false
			if cmd.Flags().Changed("map-dir") {
				store.Set(config.MapDirKey, mapDir)
				fmt.Fprintln(out, "Map directory set to:", mapDir)
				changed = true
			}
			if cmd.Flags().Changed("eq-dir") {
				store.Set(config.EQDirKey, eqDir)
				fmt.Fprintln(out, "Game directory set to:", eqDir)
				changed = true
			}
			if cmd.Flags().Changed("zone") {
				store.Set(config.ZoneKey, zone)
				fmt.Fprintln(out, "Zone set to:", zone)
				changed = true
			}
			if cmd.Flags().Changed("menu-width") {
				store.Set(config.MenuWidthKey, width)
				fmt.Fprintln(out, "Menu width set to:", width)
				changed = true
			}
			if changed {
				return store.Write()
			}

			fmt.Fprintln(out, "#", store.Path())
			settings := store.Viper()
			keys := settings.AllKeys()
			slices.Sort(keys)
			for _, k := range keys {
				if k == config.MarkersKey || strings.HasPrefix(k, config.MarkersKey+".") {
					continue
				}
				fmt.Fprintf(out, "%s = %v\n", k, settings.Get(k))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mapDir, "map-dir", "d", "", "set the map directory")
	cmd.Flags().StringVarP(&eqDir, "eq-dir", "e", "", "set the game directory holding eqlog files")
	cmd.Flags().StringVarP(&zone, "zone", "z", "", "set the zone opened at start")
	cmd.Flags().Float64VarP(&width, "menu-width", "w", 0, "set the context menu width in pixels")
	return cmd
}
