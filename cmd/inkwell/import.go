package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/inkwell"
	"github.com/eringen/inkwell/content"
)

func newImportCmd(c *cli) *cobra.Command {
	var dir, dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the content directory into the SQLite store",
		Long: `Reads every collection from the content directory and replaces the
contents of the SQLite store in one transaction. Serve with
content.driver = "sqlite" to read from the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Content.Dir
			}
			if dbPath == "" {
				dbPath = cfg.Content.DatabasePath
			}

			snap, err := content.Load(cmd.Context(), content.NewDirSource(dir))
			if err != nil {
				return err
			}
			store, err := inkwell.OpenStore(dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			stats, err := store.Import(cmd.Context(), snap)
			if err != nil {
				return err
			}
			c.logger.Info("import complete", zap.String("dir", dir), zap.String("db", dbPath), zap.Any("entries", stats))

			names := make([]string, 0, len(stats))
			for name := range stats {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %d\n", name, stats[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Content directory (overrides content.dir)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (overrides content.database_path)")
	return cmd
}
