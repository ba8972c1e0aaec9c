package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dhamidi/undeepend/config"
	"github.com/dhamidi/undeepend/markup"
)

const sample = markup.Prolog + `
<settings xmlns="http://maven.apache.org/SETTINGS/1.0.0">
  <localRepository>/srv/m2</localRepository>
  <interactiveMode>false</interactiveMode>
  <offline>true</offline>
  <proxies>
    <proxy>
      <id>corp</id>
      <active>true</active>
      <host>proxy.example.org</host>
      <nonProxyHosts>*.example.org</nonProxyHosts>
    </proxy>
  </proxies>
  <servers>
    <server>
      <id>internal</id>
      <username>deploy</username>
      <password>secret</password>
      <configuration><timeout>10</timeout></configuration>
    </server>
  </servers>
  <mirrors>
    <mirror>
      <id>nexus</id>
      <mirrorOf>*,!snapshots</mirrorOf>
      <url>https://nexus.example.org/maven2</url>
    </mirror>
    <mirror>
      <id>central-proxy</id>
      <mirrorOf>central</mirrorOf>
      <url>https://central.example.org/maven2</url>
    </mirror>
  </mirrors>
  <profiles>
    <profile>
      <id>default</id>
      <activation><activeByDefault>true</activeByDefault></activation>
      <repositories>
        <repository><id>one</id><url>https://one.example.org</url></repository>
      </repositories>
    </profile>
    <profile>
      <id>listed</id>
      <properties><env>ci</env></properties>
      <pluginRepositories>
        <pluginRepository><id>plugins</id><url>https://plugins.example.org</url></pluginRepository>
      </pluginRepositories>
    </profile>
    <profile>
      <id>inactive</id>
      <activation><jdk>1.8</jdk></activation>
      <repositories>
        <repository><id>never</id><url>https://never.example.org</url></repository>
      </repositories>
    </profile>
  </profiles>
  <activeProfiles>
    <activeProfile>listed</activeProfile>
  </activeProfiles>
  <pluginGroups>
    <pluginGroup>org.example.plugins</pluginGroup>
  </pluginGroups>
</settings>
`

func TestParse(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if s.LocalRepository != "/srv/m2" || s.InteractiveMode || !s.Offline || s.UsePluginRegistry {
		t.Errorf("flags = %q %v %v %v", s.LocalRepository, s.InteractiveMode, s.Offline, s.UsePluginRegistry)
	}

	wantProxy := Proxy{ID: "corp", Active: true, Protocol: "http", Host: "proxy.example.org", Port: 8080, NonProxyHosts: "*.example.org"}
	if len(s.Proxies) != 1 || s.Proxies[0] != wantProxy {
		t.Errorf("Proxies = %+v, want [%+v]", s.Proxies, wantProxy)
	}
	srv, ok := s.Server("internal")
	if !ok || srv.Username != "deploy" || srv.Configuration == nil {
		t.Errorf("Server(internal) = %+v, %v", srv, ok)
	}
	if want := []string{"org.example.plugins"}; !reflect.DeepEqual(s.PluginGroups, want) {
		t.Errorf("PluginGroups = %v, want %v", s.PluginGroups, want)
	}
	if len(s.Profiles) != 3 {
		t.Fatalf("len(Profiles) = %d, want 3", len(s.Profiles))
	}
	if got := s.Profiles[1].Properties["env"]; got != "ci" {
		t.Errorf("Profiles[1].Properties[env] = %q, want %q", got, "ci")
	}
}

func TestActiveProfilesAndRepositories(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, p := range s.ActiveProfiles() {
		ids = append(ids, p.ID)
	}
	if want := []string{"default", "listed"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ActiveProfiles() = %v, want %v", ids, want)
	}

	repos := s.Repositories()
	if len(repos) != 1 || repos[0].ID != "one" {
		t.Errorf("Repositories() = %+v, want [one]", repos)
	}
	plugins := s.PluginRepositories()
	if len(plugins) != 1 || plugins[0].ID != "plugins" {
		t.Errorf("PluginRepositories() = %+v, want [plugins]", plugins)
	}
}

func TestMirrorFor(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		repo   string
		want   string
		wantOK bool
	}{
		{"central", "central-proxy", true},
		{"other", "nexus", true},
		{"snapshots", "", false},
	}
	for _, tt := range tests {
		m, ok := s.MirrorFor(tt.repo)
		if ok != tt.wantOK || m.ID != tt.want {
			t.Errorf("MirrorFor(%q) = %q, %v, want %q, %v", tt.repo, m.ID, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatchesMirrorOf(t *testing.T) {
	tests := []struct {
		pattern, repo string
		want          bool
	}{
		{"*", "central", true},
		{"central", "central", true},
		{"central", "other", false},
		{"a, b", "b", true},
		{"*,!b", "b", false},
		{"external:*", "central", true},
		{"", "central", false},
	}
	for _, tt := range tests {
		if got := matchesMirrorOf(tt.pattern, tt.repo); got != tt.want {
			t.Errorf("matchesMirrorOf(%q, %q) = %v, want %v", tt.pattern, tt.repo, got, tt.want)
		}
	}
}

func TestParseBadPort(t *testing.T) {
	_, err := Parse(markup.Prolog + "<settings><proxies><proxy><port>eighty</port></proxy></proxies></settings>")
	if err == nil {
		t.Error("Parse() error = nil, want an illegal port error")
	}
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse(markup.Prolog + "<settings/>")
	if err != nil {
		t.Fatal(err)
	}
	if !s.InteractiveMode || s.Offline || s.LocalRepository != "" {
		t.Errorf("Parse(empty) = %+v, want defaults", s)
	}
}

func TestLocate(t *testing.T) {
	home := t.TempDir()
	mavenHome := t.TempDir()
	custom := t.TempDir()

	cfg := config.Config{Home: home, MavenHome: mavenHome, SettingsPath: custom}
	if got := Locate(cfg); got != "" {
		t.Errorf("Locate() with no files = %q, want empty", got)
	}

	customFile := filepath.Join(custom, FileName)
	writeFile(t, customFile)
	if got := Locate(cfg); got != customFile {
		t.Errorf("Locate() = %q, want SETTINGS_PATH directory file %q", got, customFile)
	}

	global := filepath.Join(mavenHome, "conf", FileName)
	writeFile(t, global)
	if got := Locate(cfg); got != global {
		t.Errorf("Locate() = %q, want global %q", got, global)
	}

	user := filepath.Join(home, ".m2", FileName)
	writeFile(t, user)
	if got := Locate(cfg); got != user {
		t.Errorf("Locate() = %q, want user %q", got, user)
	}

	cfg.SettingsFile = "/explicit/settings.xml"
	if got := Locate(cfg); got != "/explicit/settings.xml" {
		t.Errorf("Locate() = %q, want the explicit file", got)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFor(t *testing.T) {
	s, err := LoadFor(config.Config{Home: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadFor() error: %v", err)
	}
	if s.Path != "" || !s.InteractiveMode {
		t.Errorf("LoadFor() without a file = %+v, want defaults", s)
	}

	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".m2", FileName))
	s, err = LoadFor(config.Config{Home: home})
	if err != nil {
		t.Fatalf("LoadFor() error: %v", err)
	}
	if s.LocalRepository != "/srv/m2" {
		t.Errorf("LocalRepository = %q, want %q", s.LocalRepository, "/srv/m2")
	}

	missing := config.Config{SettingsFile: filepath.Join(t.TempDir(), "gone.xml")}
	if _, err := LoadFor(missing); err != nil {
		t.Errorf("LoadFor(missing explicit file) error = %v, want defaults", err)
	}
	if _, err := Load(missing.SettingsFile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}
