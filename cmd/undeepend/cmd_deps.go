package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/undeepend/report"
	"github.com/spf13/cobra"
)

func newDepsCmd(a *app) *cobra.Command {
	var (
		format string
		module string
	)

	cmd := &cobra.Command{
		Use:   "deps [dir]",
		Short: "List the resolved dependencies of every module",
		Long: `List the dependencies declared by every module of the project with their
effective versions. Versions come from the dependency itself or from the
nearest dependencyManagement entry along the module's parents, with
properties expanded.

Examples:
  undeepend deps
  undeepend deps ./service --format json
  undeepend deps --module core --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(a, args, format, module)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	cmd.Flags().StringVarP(&module, "module", "m", "", "only show the module with this artifactId")

	return cmd
}

func runDeps(a *app, args []string, format, module string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	p, err := a.loadProject(args)
	if err != nil {
		return err
	}

	r := report.Build(p)
	modules := r.Modules
	if module != "" {
		m, ok := r.Module(module)
		if !ok {
			return fmt.Errorf("no module with artifactId %q", module)
		}
		modules = []report.Module{m}
	}
	return report.Write(os.Stdout, f, modules)
}
