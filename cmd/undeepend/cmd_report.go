package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/undeepend/report"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report [dir]",
		Short: "Write an HTML dependency report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject(args)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create report: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := report.WriteHTML(w, report.Build(p), report.HTMLOptions{}); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}
