package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/content"
)

func newPathsCmd(c *cli) *cobra.Command {
	var dir string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "List every route a static build of the site emits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd, c, dir)
			if err != nil {
				return err
			}
			paths := content.AllPaths(snap, snap.Settings.PerPage())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(paths)
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Content directory (overrides content.dir)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

// loadSnapshot reads the content directory named by dir or the config.
func loadSnapshot(cmd *cobra.Command, c *cli, dir string) (*content.Snapshot, error) {
	if dir == "" {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}
		dir = cfg.Content.Dir
	}
	return content.Load(cmd.Context(), content.NewDirSource(dir))
}
