package lsp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/undeepend/markup"
	"github.com/dhamidi/undeepend/pom"
	"github.com/dhamidi/undeepend/project"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const source = "undeepend"

// Diagnose checks the descriptor text of the file at path. Syntax errors
// are reported where parsing stopped, mapping errors at the start of the
// file. When p holds a module for path, dependencies whose version cannot
// be resolved are reported as warnings on their artifactId.
func Diagnose(path, text string, p *project.Project) []protocol.Diagnostic {
	parsed, err := pom.Parse(text)
	if err != nil {
		return []protocol.Diagnostic{errorDiagnostic(err)}
	}

	m := effective(path, parsed, p)
	if m == nil {
		return []protocol.Diagnostic{}
	}
	diags := []protocol.Diagnostic{}
	lines := strings.Split(text, "\n")
	for i, d := range p.Dependencies(m) {
		if d.HasVersion() {
			continue
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    artifactRange(lines, d.ArtifactID, occurrence(parsed.Dependencies[:i], d.ArtifactID)),
			Severity: severity(protocol.DiagnosticSeverityWarning),
			Source:   ptr(source),
			Message:  fmt.Sprintf("cannot resolve the version of %s", d.Key()),
		})
	}
	return diags
}

func errorDiagnostic(err error) protocol.Diagnostic {
	var pos protocol.Position
	var syntax *markup.SyntaxError
	if errors.As(err, &syntax) {
		pos = protocol.Position{
			Line:      protocol.UInteger(max(syntax.Pos.Line-1, 0)),
			Character: protocol.UInteger(max(syntax.Pos.Column-1, 0)),
		}
	}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: severity(protocol.DiagnosticSeverityError),
		Source:   ptr(source),
		Message:  err.Error(),
	}
}

// effective places the buffer's descriptor into the loaded project so its
// dependencies resolve against the module's parents. It returns nil when
// the file is not part of p.
func effective(path string, parsed *pom.POM, p *project.Project) *pom.POM {
	if p == nil {
		return nil
	}
	loaded := p.ModuleAt(path)
	if loaded == nil {
		return nil
	}
	m := *parsed
	m.Dir = loaded.Dir
	m.Modules = loaded.Modules
	return &m
}

// occurrence counts earlier dependencies with the same artifactId, so
// repeated artifactIds map to successive lines.
func occurrence(before []pom.Dependency, artifactID string) int {
	n := 0
	for _, d := range before {
		if d.ArtifactID == artifactID {
			n++
		}
	}
	return n
}

// excluded are the sections whose dependency lists do not belong to the
// module itself.
var excluded = []string{"dependencyManagement", "build", "profiles", "reporting"}

// dependencyLines marks the lines inside the module's own <dependencies>
// section.
func dependencyLines(lines []string) []bool {
	mask := make([]bool, len(lines))
	skip, inside := 0, false
	for i, line := range lines {
		for _, tag := range excluded {
			skip += strings.Count(line, "<"+tag+">") - strings.Count(line, "</"+tag+">")
		}
		if skip == 0 && strings.Contains(line, "<dependencies>") {
			inside = true
		}
		mask[i] = inside && skip == 0
		if strings.Contains(line, "</dependencies>") {
			inside = false
		}
	}
	return mask
}

// artifactRange finds the nth <artifactId>name</artifactId> in the
// module's dependencies and returns the range of name. The zero Range is
// returned when it is not found.
func artifactRange(lines []string, name string, nth int) protocol.Range {
	needle := "<artifactId>" + name + "</artifactId>"
	mask := dependencyLines(lines)
	for i, line := range lines {
		col := strings.Index(line, needle)
		if col < 0 || !mask[i] {
			continue
		}
		if nth > 0 {
			nth--
			continue
		}
		start := col + len("<artifactId>")
		return protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(i), Character: protocol.UInteger(start)},
			End:   protocol.Position{Line: protocol.UInteger(i), Character: protocol.UInteger(start + len(name))},
		}
	}
	return protocol.Range{}
}

// HoverText describes the dependency declared on the given zero-based
// line: groupId:artifactId:version with the version resolved through p
// when the file belongs to it. It is empty when the line declares no
// dependency artifactId.
func HoverText(path, text string, line int, p *project.Project) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	parsed, err := pom.Parse(text)
	if err != nil {
		return ""
	}

	deps := parsed.Dependencies
	if m := effective(path, parsed, p); m != nil {
		deps = p.Dependencies(m)
	}
	seen := make(map[string]int)
	for i, d := range parsed.Dependencies {
		r := artifactRange(lines, d.ArtifactID, seen[d.ArtifactID])
		seen[d.ArtifactID]++
		if r == (protocol.Range{}) || int(r.Start.Line) != line {
			continue
		}
		version := deps[i].Version
		if version == "" {
			version = "unresolved"
		}
		return fmt.Sprintf("`%s:%s:%s`", d.GroupID, d.ArtifactID, version)
	}
	return ""
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptr[T any](v T) *T {
	return &v
}
