package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCheckCmd(c *cli) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the content directory and report dangling references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd, c, dir)
			if err != nil {
				return err
			}
			dangling := snap.Index().DanglingRefs(snap.Posts)
			for _, d := range dangling {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: unknown %s %q\n", d.Post, d.Collection, d.Ref)
			}
			c.logger.Debug("check complete", zap.Int("posts", len(snap.Posts)), zap.Int("dangling", len(dangling)))
			if len(dangling) > 0 {
				return fmt.Errorf("%d dangling reference(s)", len(dangling))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d posts, %d pages, %d products\n",
				len(snap.Posts), len(snap.Pages), len(snap.AffiliateProducts))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Content directory (overrides content.dir)")
	return cmd
}
