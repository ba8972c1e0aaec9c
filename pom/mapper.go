package pom

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/undeepend/markup"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("undeepend.pom")

var ErrMissingRequiredField = errors.New("missing required field")

// MissingFieldError names a mandatory element that had no text. Path is
// the element's location below the root, e.g. "parent/version".
type MissingFieldError struct {
	Field string
	Path  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %s (at %s)", ErrMissingRequiredField, e.Field, e.Path)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

func missing(path, field string) error {
	if path == "" {
		return &MissingFieldError{Field: field, Path: field}
	}
	return &MissingFieldError{Field: field, Path: path + "/" + field}
}

// ReadFile reads and maps the descriptor at path. Dir is left empty; the
// caller decides what directory the descriptor belongs to.
func ReadFile(path string) (*POM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	return Parse(string(data))
}

// Parse parses descriptor text and maps it.
func Parse(text string) (*POM, error) {
	doc, err := markup.ParseDocument(text)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// FromDocument maps the direct children of the document root onto a POM.
// Unknown elements are ignored.
func FromDocument(doc *markup.Document) (*POM, error) {
	p := &POM{Properties: make(map[string]string)}
	var hasArtifactID bool

	for _, child := range doc.Root.Children {
		var err error
		switch child.Name {
		case "modelVersion":
			p.ModelVersion = child.Text
		case "groupId":
			p.GroupID = child.Text
		case "artifactId":
			p.ArtifactID = child.Text
			hasArtifactID = child.HasText
		case "version":
			p.Version = child.Text
		case "name":
			p.Name = child.Text
		case "packaging":
			p.Packaging = child.Text
		case "url":
			p.URL = child.Text
		case "description":
			p.Description = child.Text
		case "parent":
			p.Parent, err = mapParent(child)
		case "dependencies":
			p.Dependencies, err = mapDependencies(child, "dependencies")
		case "dependencyManagement":
			if deps := child.Child("dependencies"); deps != nil {
				p.DependencyManagement, err = mapDependencies(deps, "dependencyManagement/dependencies")
			}
		case "properties":
			err = mapProperties(child, p.Properties)
		case "modules":
			p.ModuleNames, err = mapModules(child)
		case "repositories":
			p.Repositories = MapRepositories(child)
		default:
			log.Debugf("ignoring element %s", child.Name)
		}
		if err != nil {
			return nil, err
		}
	}

	if !hasArtifactID {
		return nil, missing("", "artifactId")
	}
	return p, nil
}

func mapParent(n *markup.Node) (*Parent, error) {
	var ok bool
	parent := &Parent{}
	if parent.GroupID, ok = n.ChildText("groupId"); !ok {
		return nil, missing("parent", "groupId")
	}
	if parent.ArtifactID, ok = n.ChildText("artifactId"); !ok {
		return nil, missing("parent", "artifactId")
	}
	if parent.Version, ok = n.ChildText("version"); !ok {
		return nil, missing("parent", "version")
	}
	return parent, nil
}

func mapDependencies(n *markup.Node, path string) ([]Dependency, error) {
	var deps []Dependency
	for _, d := range n.ChildrenNamed("dependency") {
		dep, err := mapDependency(d, path+"/dependency")
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func mapDependency(n *markup.Node, path string) (Dependency, error) {
	var dep Dependency
	var ok bool
	if dep.GroupID, ok = n.ChildText("groupId"); !ok {
		return Dependency{}, missing(path, "groupId")
	}
	if dep.ArtifactID, ok = n.ChildText("artifactId"); !ok {
		return Dependency{}, missing(path, "artifactId")
	}
	dep.Version, _ = n.ChildText("version")
	if scope, ok := n.ChildText("scope"); ok {
		dep.Scope = Scope(scope)
	}
	dep.Type, _ = n.ChildText("type")
	dep.Classifier, _ = n.ChildText("classifier")
	if optional, ok := n.ChildText("optional"); ok {
		dep.Optional = optional == "true"
	}
	return dep, nil
}

func mapProperties(n *markup.Node, into map[string]string) error {
	for _, prop := range n.Children {
		if !prop.HasText {
			return missing("properties", prop.Name)
		}
		into[prop.Name] = prop.Text
	}
	return nil
}

func mapModules(n *markup.Node) ([]string, error) {
	var names []string
	for _, m := range n.ChildrenNamed("module") {
		if !m.HasText {
			return nil, missing("modules", "module")
		}
		names = append(names, m.Text)
	}
	return names, nil
}

// MapRepositories maps the repository children of a <repositories> or
// <pluginRepositories> element. Layout defaults to "default" and policies
// are enabled unless stated otherwise.
func MapRepositories(n *markup.Node) []Repository {
	var repos []Repository
	for _, r := range n.Children {
		if r.Name != "repository" && r.Name != "pluginRepository" {
			continue
		}
		repo := Repository{Layout: "default"}
		for _, c := range r.Children {
			switch c.Name {
			case "id":
				repo.ID = c.Text
			case "name":
				repo.Name = c.Text
			case "url":
				repo.URL = c.Text
			case "layout":
				if c.HasText {
					repo.Layout = c.Text
				}
			case "releases":
				repo.Releases = mapPolicy(c)
			case "snapshots":
				repo.Snapshots = mapPolicy(c)
			}
		}
		repos = append(repos, repo)
	}
	return repos
}

func mapPolicy(n *markup.Node) *RepositoryPolicy {
	policy := &RepositoryPolicy{Enabled: true}
	if enabled, ok := n.ChildText("enabled"); ok {
		policy.Enabled = enabled == "true"
	}
	policy.UpdatePolicy, _ = n.ChildText("updatePolicy")
	policy.ChecksumPolicy, _ = n.ChildText("checksumPolicy")
	return policy
}
