package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dhamidi/undeepend/pom"
	"github.com/dhamidi/undeepend/project"
	"github.com/dhamidi/undeepend/repository"
	"github.com/spf13/cobra"
)

func newFetchCmd(a *app) *cobra.Command {
	var coordinates []string

	cmd := &cobra.Command{
		Use:   "fetch [dir]",
		Short: "Download the jars of every resolved dependency",
		Long: `Download the jar of every dependency of the project into the local
repository. Jars already present are kept. Dependencies whose version
cannot be resolved are reported and skipped.

Examples:
  undeepend fetch
  undeepend fetch --artifact junit:junit:4.13.2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps []pom.Dependency
			if len(coordinates) > 0 {
				for _, c := range coordinates {
					dep, err := repository.ParseCoordinate(c)
					if err != nil {
						return err
					}
					deps = append(deps, dep)
				}
			} else {
				p, err := a.loadProject(args)
				if err != nil {
					return err
				}
				deps = externalDependencies(p)
			}

			s, err := a.settings()
			if err != nil {
				return err
			}
			repo := repository.New(a.cfg, s)
			results, err := repo.FetchAll(cmd.Context(), deps)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				switch {
				case r.Err == nil:
					fmt.Printf("ok      %s\n", r.Path)
				case errors.Is(r.Err, repository.ErrUnresolvedVersion):
					fmt.Printf("skipped %s: version unresolved\n", r.Dependency.Key())
				default:
					failed++
					fmt.Printf("failed  %v\n", r.Err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&coordinates, "artifact", "a", nil, "fetch these coordinates instead of a project's dependencies")

	return cmd
}

// externalDependencies returns the distinct dependencies of all modules
// that are not modules of p themselves, in first-seen order.
func externalDependencies(p *project.Project) []pom.Dependency {
	internal := make(map[pom.ArtifactKey]bool)
	for _, m := range p.Modules() {
		internal[pom.ArtifactKey{GroupID: p.GroupID(m), ArtifactID: m.ArtifactID}] = true
	}

	var deps []pom.Dependency
	for _, m := range p.Modules() {
		for _, d := range p.Dependencies(m) {
			if internal[d.Key()] || d.Type == "pom" || d.EffectiveScope() == pom.ScopeImport {
				continue
			}
			if slices.ContainsFunc(deps, func(e pom.Dependency) bool {
				return e.Key() == d.Key() && e.Version == d.Version && e.Classifier == d.Classifier
			}) {
				continue
			}
			deps = append(deps, d)
		}
	}
	return deps
}
