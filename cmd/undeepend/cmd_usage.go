package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/undeepend/report"
	"github.com/dhamidi/undeepend/repository"
	"github.com/dhamidi/undeepend/usage"
	"github.com/spf13/cobra"
)

func newUsageCmd(a *app) *cobra.Command {
	var (
		format     string
		unusedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "usage [dir]",
		Short: "Find dependencies that no source file imports",
		Long: `Fetch the jar of every dependency, read the packages it provides and
match them against the import statements in src/main/java and
src/test/java of each module. Dependencies nothing imports from are
reported as unused. Runtime-only dependencies will show up as unused too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := a.loadProject(args)
			if err != nil {
				return err
			}
			s, err := a.settings()
			if err != nil {
				return err
			}

			modules, err := usage.Analyze(cmd.Context(), p, repository.New(a.cfg, s), a.cfg.Concurrency)
			if err != nil {
				return err
			}
			if unusedOnly {
				for i := range modules {
					modules[i].Dependencies = modules[i].Unused()
				}
			}

			switch f {
			case report.FormatJSON:
				return report.WriteJSON(os.Stdout, modules)
			case report.FormatYAML:
				return report.WriteYAML(os.Stdout, modules)
			}
			printUsage(modules)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	cmd.Flags().BoolVar(&unusedOnly, "unused", false, "only list unused dependencies")

	return cmd
}

func printUsage(modules []usage.Module) {
	for _, m := range modules {
		fmt.Println(m.Coordinates)
		for _, d := range m.Dependencies {
			switch {
			case d.Err != nil:
				fmt.Printf("  ?  %s: %v\n", d.Dependency.Key(), d.Err)
			case d.Unused():
				fmt.Printf("  -  %s unused\n", d.Dependency)
			default:
				fmt.Printf("  +  %s (%d imports)\n", d.Dependency, len(d.Imports))
				for _, imp := range d.Imports {
					fmt.Printf("       %s:%d %s\n", imp.File, imp.Line, imp.Statement)
				}
			}
		}
	}
}
