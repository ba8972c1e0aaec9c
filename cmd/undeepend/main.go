package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dhamidi/undeepend/config"
	"github.com/dhamidi/undeepend/project"
	"github.com/dhamidi/undeepend/settings"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("undeepend")

// app holds the global flags and what PersistentPreRunE derives from them.
type app struct {
	verbosity  int
	logFile    string
	configPath string
	localRepo  string
	remoteRepo string

	cfg config.Config
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "undeepend",
		Short:         "Inspect the dependencies of Maven projects",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&a.configPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/undeepend/config.toml)")
	flags.StringVar(&a.localRepo, "local-repository", "", "local Maven repository directory")
	flags.StringVar(&a.remoteRepo, "remote-repository", "", "remote Maven repository URL")

	rootCmd.AddCommand(newDepsCmd(a))
	rootCmd.AddCommand(newModulesCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newGraphCmd(a))
	rootCmd.AddCommand(newFetchCmd(a))
	rootCmd.AddCommand(newUsageCmd(a))
	rootCmd.AddCommand(newOutdatedCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newSettingsCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) setup() error {
	var path *string
	if a.logFile != "" {
		path = &a.logFile
	}
	commonlog.Configure(a.verbosity, path)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.localRepo != "" {
		cfg.LocalRepository = a.localRepo
	}
	if a.remoteRepo != "" {
		cfg.RemoteRepository = a.remoteRepo
	}
	a.cfg, err = cfg.Resolve()
	return err
}

func (a *app) loader() project.Loader {
	return project.Loader{Descriptor: a.cfg.DescriptorFile}
}

// loadProject loads the project in the directory named by the first
// argument, or the working directory.
func (a *app) loadProject(args []string) (*project.Project, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	l := a.loader()
	return l.Load(dir)
}

func (a *app) settings() (*settings.Settings, error) {
	return settings.LoadFor(a.cfg)
}
