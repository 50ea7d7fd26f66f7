package main

import (
	"fmt"
	"path/filepath"

	"github.com/devin-hart/nox-contextmenu/internal/config"
	"github.com/devin-hart/nox-contextmenu/internal/maps"
	"github.com/spf13/cobra"
)

func newPruneCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete map files for zones missing from the zone lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(root.configPath)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			lookupPath := root.lookupPath
			if lookupPath == "" {
				lookupPath = filepath.Join(cfg.MapDir, "map_keys.json")
			}
			lookup, err := maps.LoadLookup(lookupPath)
			if err != nil {
				return err
			}

			res, err := maps.Prune(cfg.MapDir, lookup, dryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			verb := "Deleted"
			if dryRun {
				verb = "Would delete"
			}
			for _, name := range res.Removed {
				fmt.Fprintf(out, "%s: %s\n", verb, name)
			}
			fmt.Fprintf(out, "Kept %d files. %s %d files.\n", res.Kept, verb, len(res.Removed))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list the files without deleting them")
	return cmd
}
