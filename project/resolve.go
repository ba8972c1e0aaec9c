package project

import (
	"regexp"

	"github.com/dhamidi/undeepend/pom"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// maxInterpolationDepth bounds properties that refer to other properties.
const maxInterpolationDepth = 16

// Dependencies returns m's declared dependencies with their effective
// versions, in declaration order. A version comes from the dependency
// itself, else from the nearest dependencyManagement entry along m's
// parent chain. Placeholders are expanded against m's properties and then
// its parents'. A version that cannot be determined is left empty.
func (p *Project) Dependencies(m *pom.POM) []pom.Dependency {
	out := make([]pom.Dependency, 0, len(m.Dependencies))
	for _, d := range m.Dependencies {
		d.Version = p.resolveVersion(m, d)
		out = append(out, d)
	}
	return out
}

func (p *Project) resolveVersion(m *pom.POM, d pom.Dependency) string {
	raw := d.Version
	if raw == "" {
		raw = p.ManagedVersion(m, d.Key())
	}
	if raw == "" {
		log.Warningf("%s: no version for %s", m.ArtifactID, d.Key())
		return ""
	}
	v, ok := p.Interpolate(m, raw)
	if !ok {
		log.Warningf("%s: unresolved version %q for %s", m.ArtifactID, raw, d.Key())
		return ""
	}
	return v
}

// ManagedVersion returns the first dependencyManagement version for key
// found in m or its ancestors. Entries without a version are skipped.
func (p *Project) ManagedVersion(m *pom.POM, key pom.ArtifactKey) string {
	for _, desc := range p.Lineage(m) {
		if dep, ok := desc.Managed(key); ok && dep.Version != "" {
			return dep.Version
		}
	}
	return ""
}

// Lineage returns m followed by its parents, as far as they can be found
// inside the project. A parent chain that loops back on itself stops at
// the first repeat.
func (p *Project) Lineage(m *pom.POM) []*pom.POM {
	var chain []*pom.POM
	seen := make(map[*pom.POM]bool)
	for cur := m; cur != nil && !seen[cur]; cur = p.parentOf(cur) {
		seen[cur] = true
		chain = append(chain, cur)
	}
	return chain
}

func (p *Project) parentOf(m *pom.POM) *pom.POM {
	if m.Parent == nil {
		return nil
	}
	return p.Find(m.Parent.GroupID, m.Parent.ArtifactID)
}

// Property looks name up in m and then its parents. Only properties
// tables are consulted; coordinates such as project.version are not
// implied.
func (p *Project) Property(m *pom.POM, name string) (string, bool) {
	for _, desc := range p.Lineage(m) {
		if v, ok := desc.Properties[name]; ok {
			return v, true
		}
	}
	return "", false
}

// Interpolate expands every ${name} in s. Property values are expanded in
// turn, up to a fixed depth. The second result is false when any
// placeholder stays unresolved.
func (p *Project) Interpolate(m *pom.POM, s string) (string, bool) {
	return p.interpolate(m, s, 0)
}

func (p *Project) interpolate(m *pom.POM, s string, depth int) (string, bool) {
	if depth > maxInterpolationDepth {
		return "", false
	}
	ok := true
	out := placeholder.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		v, found := p.Property(m, name)
		if !found {
			ok = false
			return match
		}
		expanded, expandedOK := p.interpolate(m, v, depth+1)
		if !expandedOK {
			ok = false
			return match
		}
		return expanded
	})
	return out, ok
}

// GroupID returns m's groupId, inherited from its parent reference when
// m does not declare one.
func (p *Project) GroupID(m *pom.POM) string {
	if m.GroupID == "" && m.Parent != nil {
		return m.Parent.GroupID
	}
	return m.GroupID
}

// Version returns m's version, inherited from its parent reference when
// m does not declare one.
func (p *Project) Version(m *pom.POM) string {
	if m.Version == "" && m.Parent != nil {
		return m.Parent.Version
	}
	return m.Version
}
