package main

import (
	"fmt"

	"github.com/dhamidi/undeepend/repository"
	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the effective configuration and Maven settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			repo := repository.New(a.cfg, s)

			source := s.Path
			if source == "" {
				source = "(defaults)"
			}
			fmt.Printf("Settings:    %s\n", source)
			fmt.Printf("Local:       %s\n", repo.Local)
			fmt.Printf("Remote:      %s (%s)\n", repo.Remote, repo.RemoteID)
			fmt.Printf("Search:      %s\n", a.cfg.SearchURL)
			fmt.Printf("Offline:     %v\n", s.Offline)
			fmt.Printf("Concurrency: %d\n", a.cfg.Concurrency)

			if len(s.Mirrors) > 0 {
				fmt.Printf("\nMirrors:\n")
				for _, m := range s.Mirrors {
					fmt.Printf("  %s -> %s (mirrorOf %s)\n", m.ID, m.URL, m.MirrorOf)
				}
			}
			if active := s.ActiveProfiles(); len(active) > 0 {
				fmt.Printf("\nActive profiles:\n")
				for _, p := range active {
					fmt.Printf("  %s\n", p.ID)
				}
			}
			if repos := s.Repositories(); len(repos) > 0 {
				fmt.Printf("\nRepositories:\n")
				for _, r := range repos {
					fmt.Printf("  %s %s\n", r.ID, r.URL)
				}
			}
			if repos := s.PluginRepositories(); len(repos) > 0 {
				fmt.Printf("\nPlugin repositories:\n")
				for _, r := range repos {
					fmt.Printf("  %s %s\n", r.ID, r.URL)
				}
			}
			for _, p := range s.Proxies {
				if p.Active {
					fmt.Printf("\nProxy: %s://%s:%d\n", p.Protocol, p.Host, p.Port)
				}
			}
			return nil
		},
	}
}
