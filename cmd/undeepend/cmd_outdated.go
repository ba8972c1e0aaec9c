package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dhamidi/undeepend/pom"
	"github.com/dhamidi/undeepend/repository"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type outdatedEntry struct {
	Dependency pom.Dependency
	Latest     string
	Err        error
}

func newOutdatedCmd(a *app) *cobra.Command {
	var (
		all    bool
		within string
	)

	cmd := &cobra.Command{
		Use:   "outdated [dir]",
		Short: "Compare resolved versions with the newest release",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req *pom.VersionRequirement
			if within != "" {
				r, err := pom.ParseVersionRequirement(within)
				if err != nil {
					return fmt.Errorf("parse --within: %w", err)
				}
				req = r
			}
			p, err := a.loadProject(args)
			if err != nil {
				return err
			}
			deps := externalDependencies(p)
			searcher := repository.NewSearcher(a.cfg)

			var mu sync.Mutex
			entries := make([]outdatedEntry, 0, len(deps))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Concurrency)
			for _, d := range deps {
				if !d.HasVersion() {
					continue
				}
				g.Go(func() error {
					latest, err := latestVersion(ctx, searcher, d, req)
					if err != nil {
						log.Warningf("%s: %v", d.Key(), err)
					}
					mu.Lock()
					entries = append(entries, outdatedEntry{Dependency: d, Latest: latest, Err: err})
					mu.Unlock()
					return ctx.Err()
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			printOutdated(entries, all)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also list dependencies that are up to date")
	cmd.Flags().StringVar(&within, "within", "", "only consider versions in this range, e.g. \"[1.0,2.0)\"")

	return cmd
}

// latestVersion asks the index for the newest release, or for the newest
// release allowed by req when one is given.
func latestVersion(ctx context.Context, s *repository.Searcher, d pom.Dependency, req *pom.VersionRequirement) (string, error) {
	if req == nil {
		return s.LatestVersion(ctx, d.GroupID, d.ArtifactID)
	}
	versions, err := s.Versions(ctx, d.GroupID, d.ArtifactID)
	if err != nil {
		return "", err
	}
	v := repository.Newest(versions, req)
	if v == nil {
		return "", fmt.Errorf("%s: %w", d.Key(), repository.ErrNoVersions)
	}
	return v.String(), nil
}

func printOutdated(entries []outdatedEntry, all bool) {
	var rows [][]string
	for _, e := range entries {
		status := "current"
		switch {
		case e.Err != nil:
			status = "unknown"
		case pom.CompareVersions(pom.ParseVersion(e.Dependency.Version), pom.ParseVersion(e.Latest)) < 0:
			status = "outdated"
		case !all:
			continue
		}
		rows = append(rows, []string{e.Dependency.Key().String(), e.Dependency.Version, e.Latest, status})
	}
	if len(rows) == 0 {
		fmt.Println("All dependencies are up to date.")
		return
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Artifact", "Current", "Latest", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && rows[row][3] == "outdated" {
				return cellStyle.Foreground(lipgloss.Color("220"))
			}
			return cellStyle
		})
	fmt.Fprintln(os.Stdout, t.Render())
}
