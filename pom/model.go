package pom

import (
	"strings"
)

type Scope string

const (
	ScopeCompile  Scope = "compile"
	ScopeProvided Scope = "provided"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeSystem   Scope = "system"
	ScopeImport   Scope = "import"
)

// ArtifactKey identifies an artifact independent of its version.
type ArtifactKey struct {
	GroupID    string
	ArtifactID string
}

func (k ArtifactKey) String() string {
	return k.GroupID + ":" + k.ArtifactID
}

// Dependency is a dependency as declared in a descriptor, or after its
// version has been resolved. An empty Version means the version is absent.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      Scope
	Type       string
	Classifier string
	Optional   bool
}

func (d Dependency) Key() ArtifactKey {
	return ArtifactKey{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

func (d Dependency) HasVersion() bool {
	return d.Version != ""
}

// EffectiveScope returns the declared scope, defaulting to compile.
func (d Dependency) EffectiveScope() Scope {
	if d.Scope == "" {
		return ScopeCompile
	}
	return d.Scope
}

func (d Dependency) String() string {
	if d.Version == "" {
		return d.Key().String()
	}
	return d.Key().String() + ":" + d.Version
}

// Dir returns the artifact's directory in a repository layout,
// group/with/slashes/artifact/version.
func (d Dependency) Dir() string {
	return strings.ReplaceAll(d.GroupID, ".", "/") + "/" + d.ArtifactID + "/" + d.Version
}

// Path returns the repository-relative path of the artifact file with the
// given extension. The classifier, if any, is appended to the file name.
func (d Dependency) Path(ext string) string {
	name := d.ArtifactID + "-" + d.Version
	if d.Classifier != "" {
		name += "-" + d.Classifier
	}
	return d.Dir() + "/" + name + "." + ext
}

// JarPath returns e.g. org/hamcrest/hamcrest-core/1.1/hamcrest-core-1.1.jar.
func (d Dependency) JarPath() string {
	return d.Path("jar")
}

func (d Dependency) IsSnapshot() bool {
	return strings.HasSuffix(d.Version, "-SNAPSHOT")
}

// Parent is a reference to another descriptor. It is only used as a
// lookup key into the project tree.
type Parent struct {
	GroupID    string
	ArtifactID string
	Version    string
}

func (p Parent) Key() ArtifactKey {
	return ArtifactKey{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
}

type RepositoryPolicy struct {
	Enabled        bool
	UpdatePolicy   string
	ChecksumPolicy string
}

type Repository struct {
	ID        string
	Name      string
	URL       string
	Layout    string
	Releases  *RepositoryPolicy
	Snapshots *RepositoryPolicy
}

// POM is one project or module descriptor. Modules holds the loaded
// descriptors named by ModuleNames, in declaration order; Dir is the
// directory the descriptor was read from.
type POM struct {
	Parent               *Parent
	ModelVersion         string
	GroupID              string
	ArtifactID           string
	Version              string
	Name                 string
	Packaging            string
	URL                  string
	Description          string
	Dependencies         []Dependency
	DependencyManagement []Dependency
	Properties           map[string]string
	ModuleNames          []string
	Repositories         []Repository
	Modules              []*POM
	Dir                  string
}

func (p *POM) Key() ArtifactKey {
	return ArtifactKey{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
}

// Coordinates renders group:artifact:version, leaving out missing parts.
func (p *POM) Coordinates() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.GroupID, p.ArtifactID, p.Version} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ":")
}

// Managed returns the dependencyManagement entry for key, if any.
func (p *POM) Managed(key ArtifactKey) (Dependency, bool) {
	for _, d := range p.DependencyManagement {
		if d.Key() == key {
			return d, true
		}
	}
	return Dependency{}, false
}

// Property looks up a property declared in this descriptor only.
func (p *POM) Property(name string) (string, bool) {
	v, ok := p.Properties[name]
	return v, ok
}
