package usage

import (
	"context"
	"sync"

	"github.com/dhamidi/undeepend/jar"
	"github.com/dhamidi/undeepend/pom"
	"github.com/dhamidi/undeepend/project"
	"golang.org/x/sync/errgroup"
)

// Fetcher provides the local jar of a dependency.
type Fetcher interface {
	Fetch(ctx context.Context, dep pom.Dependency) (string, error)
}

type Dependency struct {
	Dependency pom.Dependency `json:"dependency" yaml:"dependency"`
	Packages   []string       `json:"packages,omitempty" yaml:"packages,omitempty"`
	Imports    []Import       `json:"imports,omitempty" yaml:"imports,omitempty"`
	// Err is set when the jar could not be fetched or read; such a
	// dependency is neither used nor unused.
	Err error `json:"-" yaml:"-"`
}

func (d Dependency) Unused() bool {
	return d.Err == nil && len(d.Imports) == 0
}

type Module struct {
	Module       *pom.POM     `json:"-" yaml:"-"`
	Coordinates  string       `json:"coordinates" yaml:"coordinates"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}

// Unused returns the dependencies no source file imports from.
func (m Module) Unused() []Dependency {
	var out []Dependency
	for _, d := range m.Dependencies {
		if d.Unused() {
			out = append(out, d)
		}
	}
	return out
}

// Analyze fetches every resolved jar dependency of every module and
// matches its packages against the module's imports. Dependencies of type
// pom, import scope and system scope have no jar and are left out.
func Analyze(ctx context.Context, p *project.Project, fetcher Fetcher, concurrency int) ([]Module, error) {
	var (
		mu    sync.Mutex
		cache = make(map[string][]string)
	)
	packagesOf := func(path string) ([]string, error) {
		mu.Lock()
		pkgs, ok := cache[path]
		mu.Unlock()
		if ok {
			return pkgs, nil
		}
		pkgs, err := jar.Packages(path)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		cache[path] = pkgs
		mu.Unlock()
		return pkgs, nil
	}

	var modules []Module
	for _, m := range p.Modules() {
		var deps []pom.Dependency
		for _, d := range p.Dependencies(m) {
			if hasJar(d) {
				deps = append(deps, d)
			}
		}
		results := make([]Dependency, len(deps))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(concurrency, 1))
		for i, d := range deps {
			g.Go(func() error {
				results[i] = Dependency{Dependency: d}
				path, err := fetcher.Fetch(gctx, d)
				if err == nil {
					results[i].Packages, err = packagesOf(path)
				}
				results[i].Err = err
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var all []string
		for _, r := range results {
			all = append(all, r.Packages...)
		}
		imports, err := Scan(m.Dir, all)
		if err != nil {
			return nil, err
		}
		for i := range results {
			provided := make(map[string]bool, len(results[i].Packages))
			for _, pkg := range results[i].Packages {
				provided[pkg] = true
			}
			for _, imp := range imports {
				if provided[imp.Package] {
					results[i].Imports = append(results[i].Imports, imp)
				}
			}
		}
		modules = append(modules, Module{Module: m, Coordinates: m.Coordinates(), Dependencies: results})
	}
	return modules, nil
}

func hasJar(d pom.Dependency) bool {
	switch d.EffectiveScope() {
	case pom.ScopeImport, pom.ScopeSystem:
		return false
	}
	return d.Type == "" || d.Type == "jar" || d.Type == "test-jar"
}
