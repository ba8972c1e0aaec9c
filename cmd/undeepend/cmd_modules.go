package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/undeepend/pom"
	"github.com/spf13/cobra"
)

func newModulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modules [dir]",
		Short: "Show the module tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject(args)
			if err != nil {
				return err
			}

			fmt.Printf("Project: %s\n", p.Root.Coordinates())
			fmt.Printf("Root:    %s\n\n", p.Home)
			return p.Walk(func(m *pom.POM, depth int) error {
				packaging := m.Packaging
				if packaging == "" {
					packaging = "jar"
				}
				fmt.Printf("%s%s:%s:%s (%s) %s\n", strings.Repeat("  ", depth),
					p.GroupID(m), m.ArtifactID, p.Version(m), packaging, m.Dir)
				return nil
			})
		},
	}
}
