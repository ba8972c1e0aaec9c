// Package settings reads Maven settings.xml files: the local repository
// location, mirrors, proxies, servers and repository profiles.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dhamidi/undeepend/config"
	"github.com/dhamidi/undeepend/markup"
	"github.com/dhamidi/undeepend/pom"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("undeepend.settings")

const FileName = "settings.xml"

type Settings struct {
	LocalRepository   string
	InteractiveMode   bool
	UsePluginRegistry bool
	Offline           bool
	Proxies           []Proxy
	Servers           []Server
	Mirrors           []Mirror
	Profiles          []Profile
	ActiveProfileIDs  []string
	PluginGroups      []string

	// Path is the file the settings were read from, empty for defaults.
	Path string
}

type Proxy struct {
	ID            string
	Active        bool
	Protocol      string
	Host          string
	Port          int
	Username      string
	Password      string
	NonProxyHosts string
}

type Server struct {
	ID                   string
	Username             string
	Password             string
	PrivateKey           string
	Passphrase           string
	FilePermissions      string
	DirectoryPermissions string
	Configuration        *markup.Node
}

type Mirror struct {
	ID       string
	Name     string
	URL      string
	MirrorOf string
}

type Profile struct {
	ID                 string
	Activation         *Activation
	Properties         map[string]string
	Repositories       []pom.Repository
	PluginRepositories []pom.Repository
}

type Activation struct {
	ActiveByDefault bool
	JDK             string
	OS              *ActivationOS
	Property        *ActivationProperty
	File            *ActivationFile
}

type ActivationOS struct {
	Name    string
	Family  string
	Arch    string
	Version string
}

type ActivationProperty struct {
	Name  string
	Value string
}

type ActivationFile struct {
	Missing string
	Exists  string
}

// Default returns the settings Maven assumes without a settings file.
func Default() *Settings {
	return &Settings{InteractiveMode: true}
}

// Load reads the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Locate returns the settings file to use: ~/.m2/settings.xml, then
// $MAVEN_HOME/conf/settings.xml, then SETTINGS_PATH, which may name a file
// or a directory holding settings.xml. An explicit SettingsFile wins over
// all of them. The result is empty when no candidate exists.
func Locate(cfg config.Config) string {
	if cfg.SettingsFile != "" {
		return cfg.SettingsFile
	}
	for _, candidate := range []string{cfg.UserSettings(), cfg.GlobalSettings()} {
		if candidate != "" && isFile(candidate) {
			return candidate
		}
	}
	if cfg.SettingsPath != "" {
		path := cfg.SettingsPath
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, FileName)
		}
		if isFile(path) {
			return path
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadFor locates and loads the settings for cfg. A missing settings file
// yields Default.
func LoadFor(cfg config.Config) (*Settings, error) {
	path := Locate(cfg)
	if path == "" {
		log.Debug("no settings file found, using defaults")
		return Default(), nil
	}
	s, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warningf("settings file %s does not exist, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	log.Infof("loaded settings from %s", path)
	return s, nil
}

// ActiveProfiles returns the profiles that are active by default or
// listed in activeProfiles, in declaration order.
func (s *Settings) ActiveProfiles() []Profile {
	var active []Profile
	for _, p := range s.Profiles {
		byDefault := p.Activation != nil && p.Activation.ActiveByDefault
		listed := p.ID != "" && slices.Contains(s.ActiveProfileIDs, p.ID)
		if byDefault || listed {
			active = append(active, p)
		}
	}
	return active
}

// Repositories collects the repositories of every active profile.
func (s *Settings) Repositories() []pom.Repository {
	var repos []pom.Repository
	for _, p := range s.ActiveProfiles() {
		repos = append(repos, p.Repositories...)
	}
	return repos
}

func (s *Settings) PluginRepositories() []pom.Repository {
	var repos []pom.Repository
	for _, p := range s.ActiveProfiles() {
		repos = append(repos, p.PluginRepositories...)
	}
	return repos
}

// MirrorFor returns the mirror serving repoID. An exact id match wins over
// patterns; patterns are "*", "external:*" or comma separated lists of ids
// where "!id" excludes a repository.
func (s *Settings) MirrorFor(repoID string) (Mirror, bool) {
	for _, m := range s.Mirrors {
		if m.MirrorOf == repoID {
			return m, true
		}
	}
	for _, m := range s.Mirrors {
		if matchesMirrorOf(m.MirrorOf, repoID) {
			return m, true
		}
	}
	return Mirror{}, false
}

func matchesMirrorOf(pattern, repoID string) bool {
	matched := false
	for _, part := range strings.Split(pattern, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "!"):
			if part[1:] == repoID {
				return false
			}
		case part == "*", part == "external:*", part == repoID:
			matched = true
		}
	}
	return matched
}

// Server returns the server entry holding credentials for id.
func (s *Settings) Server(id string) (Server, bool) {
	for _, srv := range s.Servers {
		if srv.ID == id {
			return srv, true
		}
	}
	return Server{}, false
}

// ActiveProxy returns the first active proxy for protocol.
func (s *Settings) ActiveProxy(protocol string) (Proxy, bool) {
	for _, p := range s.Proxies {
		if p.Active && strings.EqualFold(p.Protocol, protocol) {
			return p, true
		}
	}
	return Proxy{}, false
}

// Parse maps settings.xml text.
func Parse(text string) (*Settings, error) {
	doc, err := markup.ParseDocument(text)
	if err != nil {
		return nil, err
	}

	s := Default()
	for _, child := range doc.Root.Children {
		switch child.Name {
		case "localRepository":
			s.LocalRepository = child.Text
		case "interactiveMode":
			s.InteractiveMode = boolText(child, true)
		case "usePluginRegistry":
			s.UsePluginRegistry = boolText(child, false)
		case "offline":
			s.Offline = boolText(child, false)
		case "proxies":
			for _, n := range child.ChildrenNamed("proxy") {
				p, err := mapProxy(n)
				if err != nil {
					return nil, err
				}
				s.Proxies = append(s.Proxies, p)
			}
		case "servers":
			for _, n := range child.ChildrenNamed("server") {
				s.Servers = append(s.Servers, mapServer(n))
			}
		case "mirrors":
			for _, n := range child.ChildrenNamed("mirror") {
				s.Mirrors = append(s.Mirrors, mapMirror(n))
			}
		case "profiles":
			for _, n := range child.ChildrenNamed("profile") {
				s.Profiles = append(s.Profiles, mapProfile(n))
			}
		case "activeProfiles":
			s.ActiveProfileIDs = texts(child)
		case "pluginGroups":
			s.PluginGroups = texts(child)
		}
	}
	return s, nil
}

func boolText(n *markup.Node, def bool) bool {
	if !n.HasText {
		return def
	}
	return n.Text == "true"
}

func texts(n *markup.Node) []string {
	var out []string
	for _, c := range n.Children {
		if c.HasText {
			out = append(out, c.Text)
		}
	}
	return out
}

func mapProxy(n *markup.Node) (Proxy, error) {
	p := Proxy{Protocol: "http", Port: 8080}
	for _, c := range n.Children {
		switch c.Name {
		case "id":
			p.ID = c.Text
		case "active":
			p.Active = boolText(c, false)
		case "protocol":
			if c.HasText {
				p.Protocol = c.Text
			}
		case "host":
			p.Host = c.Text
		case "port":
			if !c.HasText {
				continue
			}
			port, err := strconv.Atoi(c.Text)
			if err != nil {
				return Proxy{}, fmt.Errorf("illegal proxy port %q: %w", c.Text, err)
			}
			p.Port = port
		case "username":
			p.Username = c.Text
		case "password":
			p.Password = c.Text
		case "nonProxyHosts":
			p.NonProxyHosts = c.Text
		}
	}
	return p, nil
}

func mapServer(n *markup.Node) Server {
	var srv Server
	for _, c := range n.Children {
		switch c.Name {
		case "id":
			srv.ID = c.Text
		case "username":
			srv.Username = c.Text
		case "password":
			srv.Password = c.Text
		case "privateKey":
			srv.PrivateKey = c.Text
		case "passphrase":
			srv.Passphrase = c.Text
		case "filePermissions":
			srv.FilePermissions = c.Text
		case "directoryPermissions":
			srv.DirectoryPermissions = c.Text
		case "configuration":
			srv.Configuration = c
		}
	}
	return srv
}

func mapMirror(n *markup.Node) Mirror {
	var m Mirror
	m.ID, _ = n.ChildText("id")
	m.Name, _ = n.ChildText("name")
	m.URL, _ = n.ChildText("url")
	m.MirrorOf, _ = n.ChildText("mirrorOf")
	return m
}

func mapProfile(n *markup.Node) Profile {
	p := Profile{Properties: make(map[string]string)}
	for _, c := range n.Children {
		switch c.Name {
		case "id":
			p.ID = c.Text
		case "activation":
			p.Activation = mapActivation(c)
		case "properties":
			for _, prop := range c.Children {
				p.Properties[prop.Name] = prop.Text
			}
		case "repositories":
			p.Repositories = pom.MapRepositories(c)
		case "pluginRepositories":
			p.PluginRepositories = pom.MapRepositories(c)
		}
	}
	return p
}

func mapActivation(n *markup.Node) *Activation {
	a := &Activation{}
	for _, c := range n.Children {
		switch c.Name {
		case "activeByDefault":
			a.ActiveByDefault = boolText(c, false)
		case "jdk":
			a.JDK = c.Text
		case "os":
			a.OS = &ActivationOS{}
			a.OS.Name, _ = c.ChildText("name")
			a.OS.Family, _ = c.ChildText("family")
			a.OS.Arch, _ = c.ChildText("arch")
			a.OS.Version, _ = c.ChildText("version")
		case "property":
			a.Property = &ActivationProperty{}
			a.Property.Name, _ = c.ChildText("name")
			a.Property.Value, _ = c.ChildText("value")
		case "file":
			a.File = &ActivationFile{}
			a.File.Missing, _ = c.ChildText("missing")
			a.File.Exists, _ = c.ChildText("exists")
		}
	}
	return a
}
