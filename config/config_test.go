package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultPath(t *testing.T) {
	tests := []struct {
		env  map[string]string
		want string
	}{
		{map[string]string{EnvXDGConfig: "/xdg", EnvHome: "/home/u"}, filepath.Join("/xdg", "undeepend", "config.toml")},
		{map[string]string{EnvHome: "/home/u"}, filepath.Join("/home/u", ".config", "undeepend", "config.toml")},
		{map[string]string{}, ""},
	}
	for _, tt := range tests {
		if got := DefaultPath(envMap(tt.env)); got != tt.want {
			t.Errorf("DefaultPath(%v) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadEnvLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
remote_repository = "https://file.example/maven2"
local_repository = "/srv/m2"
timeout = "5s"
concurrency = 8
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEnv(path, envMap(map[string]string{
		EnvHome:         "/home/u",
		EnvMavenHome:    "/opt/maven",
		EnvMavenRepoURL: "https://env.example/maven2/",
	}))
	if err != nil {
		t.Fatalf("LoadEnv() error: %v", err)
	}
	if cfg.RemoteRepository != "https://env.example/maven2/" {
		t.Errorf("RemoteRepository = %q, want the environment value", cfg.RemoteRepository)
	}
	if cfg.LocalRepository != "/srv/m2" {
		t.Errorf("LocalRepository = %q, want %q", cfg.LocalRepository, "/srv/m2")
	}
	if cfg.Timeout != 5*time.Second || cfg.Concurrency != 8 {
		t.Errorf("Timeout, Concurrency = %v, %d, want 5s, 8", cfg.Timeout, cfg.Concurrency)
	}
	if cfg.Retries != 3 {
		t.Errorf("Retries = %d, want default 3", cfg.Retries)
	}
	if cfg.Home != "/home/u" || cfg.MavenHome != "/opt/maven" {
		t.Errorf("Home, MavenHome = %q, %q", cfg.Home, cfg.MavenHome)
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.RemoteRepository != "https://env.example/maven2" {
		t.Errorf("Resolve().RemoteRepository = %q, want trailing slash trimmed", resolved.RemoteRepository)
	}
	if got, want := resolved.GlobalSettings(), filepath.Join("/opt/maven", "conf", "settings.xml"); got != want {
		t.Errorf("GlobalSettings() = %q, want %q", got, want)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := LoadEnv(missing, envMap(nil)); err == nil {
		t.Error("LoadEnv(explicit missing file) error = nil, want an error")
	}

	cfg, err := LoadEnv("", envMap(map[string]string{EnvXDGConfig: t.TempDir()}))
	if err != nil {
		t.Fatalf("LoadEnv(default path) error = %v, want nil for an absent default file", err)
	}
	if cfg.RemoteRepository != DefaultRemoteRepository {
		t.Errorf("RemoteRepository = %q, want %q", cfg.RemoteRepository, DefaultRemoteRepository)
	}
}

func TestLoadEnvBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("concurrency = \"many\""), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEnv(path, envMap(nil)); err == nil {
		t.Error("LoadEnv() error = nil, want a decode error")
	}
}

func TestResolve(t *testing.T) {
	t.Run("no home", func(t *testing.T) {
		_, err := Default().Resolve()
		if !errors.Is(err, ErrNoHome) {
			t.Errorf("Resolve() error = %v, want %v", err, ErrNoHome)
		}
	})

	t.Run("local repository from home", func(t *testing.T) {
		cfg := Default()
		cfg.Home = "/home/u"
		cfg.Concurrency = 0
		got, err := cfg.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if want := filepath.Join("/home/u", ".m2", "repository"); got.LocalRepository != want {
			t.Errorf("LocalRepository = %q, want %q", got.LocalRepository, want)
		}
		if got.Concurrency != 1 {
			t.Errorf("Concurrency = %d, want 1", got.Concurrency)
		}
		if want := filepath.Join("/home/u", ".m2", "settings.xml"); got.UserSettings() != want {
			t.Errorf("UserSettings() = %q, want %q", got.UserSettings(), want)
		}
	})

	t.Run("explicit local repository without home", func(t *testing.T) {
		cfg := Default()
		cfg.LocalRepository = "/srv/m2"
		if _, err := cfg.Resolve(); err != nil {
			t.Errorf("Resolve() error = %v, want nil", err)
		}
	})
}
