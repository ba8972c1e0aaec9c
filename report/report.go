// Package report renders the resolved dependencies of a project as
// tables, JSON, YAML, HTML and dependency graphs.
package report

import (
	"path/filepath"

	"github.com/dhamidi/undeepend/pom"
	"github.com/dhamidi/undeepend/project"
)

// Unresolved is shown in place of a version that could not be determined.
const Unresolved = "unresolved"

type Report struct {
	Project string   `json:"project" yaml:"project"`
	Home    string   `json:"home" yaml:"home"`
	Modules []Module `json:"modules" yaml:"modules"`
}

type Module struct {
	Coordinates  string       `json:"coordinates" yaml:"coordinates"`
	GroupID      string       `json:"groupId" yaml:"groupId"`
	ArtifactID   string       `json:"artifactId" yaml:"artifactId"`
	Version      string       `json:"version,omitempty" yaml:"version,omitempty"`
	Dir          string       `json:"dir" yaml:"dir"`
	Depth        int          `json:"depth" yaml:"depth"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}

type Dependency struct {
	GroupID    string `json:"groupId" yaml:"groupId"`
	ArtifactID string `json:"artifactId" yaml:"artifactId"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	Scope      string `json:"scope" yaml:"scope"`
	Classifier string `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	Optional   bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	// Internal marks a dependency on another module of the same project.
	Internal bool `json:"internal,omitempty" yaml:"internal,omitempty"`
}

// DisplayVersion returns the version or Unresolved.
func (d Dependency) DisplayVersion() string {
	if d.Version == "" {
		return Unresolved
	}
	return d.Version
}

func (d Dependency) Key() string {
	return d.GroupID + ":" + d.ArtifactID
}

// Build collects every module of p, depth first, with its resolved
// dependencies.
func Build(p *project.Project) *Report {
	internal := make(map[pom.ArtifactKey]bool)
	for _, m := range p.Modules() {
		internal[pom.ArtifactKey{GroupID: p.GroupID(m), ArtifactID: m.ArtifactID}] = true
	}

	r := &Report{Project: coordinates(p, p.Root), Home: p.Home}
	_ = p.Walk(func(m *pom.POM, depth int) error {
		mod := Module{
			Coordinates: coordinates(p, m),
			GroupID:     p.GroupID(m),
			ArtifactID:  m.ArtifactID,
			Version:     p.Version(m),
			Dir:         relDir(p.Home, m.Dir),
			Depth:       depth,
		}
		for _, d := range p.Dependencies(m) {
			mod.Dependencies = append(mod.Dependencies, Dependency{
				GroupID:    d.GroupID,
				ArtifactID: d.ArtifactID,
				Version:    d.Version,
				Scope:      string(d.EffectiveScope()),
				Classifier: d.Classifier,
				Optional:   d.Optional,
				Internal:   internal[d.Key()],
			})
		}
		r.Modules = append(r.Modules, mod)
		return nil
	})
	return r
}

// coordinates renders m's coordinates with inherited groupId and version.
func coordinates(p *project.Project, m *pom.POM) string {
	c := pom.POM{GroupID: p.GroupID(m), ArtifactID: m.ArtifactID, Version: p.Version(m)}
	return c.Coordinates()
}

func relDir(home, dir string) string {
	rel, err := filepath.Rel(home, dir)
	if err != nil {
		return dir
	}
	return filepath.ToSlash(rel)
}

// Module returns the module with the given artifactId.
func (r *Report) Module(artifactID string) (Module, bool) {
	for _, m := range r.Modules {
		if m.ArtifactID == artifactID {
			return m, true
		}
	}
	return Module{}, false
}
