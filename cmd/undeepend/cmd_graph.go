package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/undeepend/report"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		svg      bool
		external bool
		out      string
	)

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Draw the dependency graph as DOT or SVG",
		Long: `Draw the dependencies between the modules of a project. With --external
third-party dependencies are drawn too. The graph is printed in Graphviz DOT
syntax unless --svg asks for a rendered image.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject(args)
			if err != nil {
				return err
			}

			dot := report.DOT(report.Build(p), report.GraphOptions{External: external})
			data := []byte(dot)
			if svg {
				data, err = report.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
			}

			if out == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVar(&external, "external", false, "include third-party dependencies")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}
