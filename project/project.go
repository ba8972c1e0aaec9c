// Package project loads a multi-module build and resolves the effective
// dependency versions of every module in it.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dhamidi/undeepend/pom"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("undeepend.project")

// DescriptorName is the file looked up in every project and module
// directory.
const DescriptorName = "pom.xml"

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrNoDescriptor = errors.New("no " + DescriptorName + " found")
	ErrCyclicModule = errors.New("cyclic module reference")
)

// LoadError reports the directory whose descriptor could not be loaded.
type LoadError struct {
	Dir string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Project is a loaded descriptor tree. It is not modified after Load and
// may be shared between goroutines.
type Project struct {
	Home string
	Root *pom.POM

	descriptor string
}

// Loader reads descriptor trees. The zero value looks for pom.xml.
type Loader struct {
	Descriptor string
}

// Load reads the descriptor in dir and, recursively, every module it
// declares. Every module directory is resolved against dir, the project
// root, whichever descriptor declares it.
func Load(dir string) (*Project, error) {
	return (&Loader{}).Load(dir)
}

func (l *Loader) Load(dir string) (*Project, error) {
	root, err := l.load(dir, dir, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %s with %d modules", root.Coordinates(), countModules(root)-1)
	return &Project{Home: dir, Root: root, descriptor: l.descriptor()}, nil
}

func (l *Loader) descriptor() string {
	if l.Descriptor == "" {
		return DescriptorName
	}
	return l.Descriptor
}

// load reads the descriptor in dir. Modules it declares are looked up in
// home. ancestors holds the absolute directories of the modules currently
// being loaded above this one.
func (l *Loader) load(home, dir string, ancestors map[string]bool) (*pom.POM, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Dir: dir, Err: ErrNotDirectory}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}
	if ancestors[abs] {
		return nil, &LoadError{Dir: dir, Err: ErrCyclicModule}
	}

	path := filepath.Join(dir, l.descriptor())
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Dir: dir, Err: ErrNoDescriptor}
	}
	p, err := pom.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}
	p.Dir = dir
	log.Debugf("read %s from %s", p.Coordinates(), path)

	ancestors[abs] = true
	defer delete(ancestors, abs)

	for _, name := range p.ModuleNames {
		child, err := l.load(home, filepath.Join(home, name), ancestors)
		if err != nil {
			return nil, err
		}
		p.Modules = append(p.Modules, child)
	}
	return p, nil
}

func countModules(p *pom.POM) int {
	n := 1
	for _, m := range p.Modules {
		n += countModules(m)
	}
	return n
}

// Walk visits every descriptor in pre-order, root first, passing the
// nesting depth (0 for the root). A non-nil error from fn stops the walk.
func (p *Project) Walk(fn func(m *pom.POM, depth int) error) error {
	return walk(p.Root, 0, fn)
}

func walk(m *pom.POM, depth int, fn func(*pom.POM, int) error) error {
	if err := fn(m, depth); err != nil {
		return err
	}
	for _, child := range m.Modules {
		if err := walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Modules lists every descriptor in the project, root first.
func (p *Project) Modules() []*pom.POM {
	var out []*pom.POM
	_ = p.Walk(func(m *pom.POM, _ int) error {
		out = append(out, m)
		return nil
	})
	return out
}

// Find returns the first descriptor, in pre-order, with the given
// coordinates. Descriptors that do not declare their own groupId never
// match.
func (p *Project) Find(groupID, artifactID string) *pom.POM {
	var found *pom.POM
	_ = p.Walk(func(m *pom.POM, _ int) error {
		if m.GroupID != "" && m.GroupID == groupID && m.ArtifactID == artifactID {
			found = m
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// Module returns the first descriptor with the given artifactId, whatever
// its groupId.
func (p *Project) Module(artifactID string) *pom.POM {
	var found *pom.POM
	_ = p.Walk(func(m *pom.POM, _ int) error {
		if m.ArtifactID == artifactID {
			found = m
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// ModuleAt returns the module whose descriptor file is path, or nil.
func (p *Project) ModuleAt(path string) *pom.POM {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	name := p.descriptor
	if name == "" {
		name = DescriptorName
	}
	var found *pom.POM
	_ = p.Walk(func(m *pom.POM, _ int) error {
		if d, err := filepath.Abs(filepath.Join(m.Dir, name)); err == nil && d == abs {
			found = m
			return fs.SkipAll
		}
		return nil
	})
	return found
}
