// Package config collects the settings undeepend needs from outside the
// project: where the local repository lives, which remote to download from
// and how hard to try. Values are layered defaults, then a TOML file, then
// the environment, then command line flags, and validated once by Resolve.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultRemoteRepository = "https://repo1.maven.org/maven2"
	DefaultSearchURL        = "https://search.maven.org/solrsearch/select"
	DefaultDescriptor       = "pom.xml"

	EnvHome         = "HOME"
	EnvMavenHome    = "MAVEN_HOME"
	EnvSettingsPath = "SETTINGS_PATH"
	EnvMavenRepoURL = "MAVEN_REPO_URL"
	EnvXDGConfig    = "XDG_CONFIG_HOME"
)

var ErrNoHome = errors.New("home directory unknown: set HOME or local_repository")

type Config struct {
	Home             string        `toml:"home"`
	MavenHome        string        `toml:"maven_home"`
	SettingsPath     string        `toml:"settings_path"`
	SettingsFile     string        `toml:"settings_file"`
	LocalRepository  string        `toml:"local_repository"`
	RemoteRepository string        `toml:"remote_repository"`
	SearchURL        string        `toml:"search_url"`
	DescriptorFile   string        `toml:"descriptor"`
	Timeout          time.Duration `toml:"timeout"`
	Concurrency      int           `toml:"concurrency"`
	Retries          int           `toml:"retries"`
}

func Default() Config {
	return Config{
		RemoteRepository: DefaultRemoteRepository,
		SearchURL:        DefaultSearchURL,
		DescriptorFile:   DefaultDescriptor,
		Timeout:          30 * time.Second,
		Concurrency:      4,
		Retries:          3,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/undeepend/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset. It is empty when neither
// variable is set.
func DefaultPath(getenv func(string) string) string {
	if dir := getenv(EnvXDGConfig); dir != "" {
		return filepath.Join(dir, "undeepend", "config.toml")
	}
	if home := getenv(EnvHome); home != "" {
		return filepath.Join(home, ".config", "undeepend", "config.toml")
	}
	return ""
}

// Load builds a configuration from the defaults, the TOML file at path and
// the process environment. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (Config, error) {
	return LoadEnv(path, os.Getenv)
}

func LoadEnv(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	required := path != ""
	if path == "" {
		path = DefaultPath(getenv)
	}
	if path != "" {
		if err := cfg.decodeFile(path, required); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv(getenv)
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	_, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// applyEnv lets the environment override file values. HOME only fills in
// a home directory the file did not set.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvHome); v != "" && c.Home == "" {
		c.Home = v
	}
	if v := getenv(EnvMavenHome); v != "" {
		c.MavenHome = v
	}
	if v := getenv(EnvSettingsPath); v != "" {
		c.SettingsPath = v
	}
	if v := getenv(EnvMavenRepoURL); v != "" {
		c.RemoteRepository = v
	}
}

// Resolve validates c and fills in derived values. The local repository
// defaults to ~/.m2/repository, so either it or Home must be known.
func (c Config) Resolve() (Config, error) {
	if c.LocalRepository == "" {
		if c.Home == "" {
			return Config{}, ErrNoHome
		}
		c.LocalRepository = filepath.Join(c.Home, ".m2", "repository")
	}
	if c.RemoteRepository == "" {
		c.RemoteRepository = DefaultRemoteRepository
	}
	c.RemoteRepository = strings.TrimSuffix(c.RemoteRepository, "/")
	if c.SearchURL == "" {
		c.SearchURL = DefaultSearchURL
	}
	if c.DescriptorFile == "" {
		c.DescriptorFile = DefaultDescriptor
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Retries < 1 {
		c.Retries = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = Default().Timeout
	}
	return c, nil
}

// UserSettings is ~/.m2/settings.xml, or empty without a home directory.
func (c Config) UserSettings() string {
	if c.Home == "" {
		return ""
	}
	return filepath.Join(c.Home, ".m2", "settings.xml")
}

// GlobalSettings is $MAVEN_HOME/conf/settings.xml, or empty.
func (c Config) GlobalSettings() string {
	if c.MavenHome == "" {
		return ""
	}
	return filepath.Join(c.MavenHome, "conf", "settings.xml")
}
