package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/scaffold"
)

func newNewCmd(c *cli) *cobra.Command {
	var siteURL string
	cmd := &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a new inkwell site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			data := scaffold.NewData(dir, siteURL)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Creating new inkwell site: %s\n\n", dir)

			created, err := scaffold.Generate(dir, data)
			if err != nil {
				return err
			}
			for _, f := range created {
				fmt.Fprintf(out, "  created %s\n", f)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Done! Next steps:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  cd %s\n", dir)
			fmt.Fprintln(out, "  inkwell check")
			fmt.Fprintln(out, "  inkwell serve")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "The API key is in inkwell.toml. Move it to INKWELL_API_KEY for production.")
			return nil
		},
	}
	cmd.Flags().StringVar(&siteURL, "url", "", "Public site URL (default http://localhost:3000)")
	return cmd
}
