package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/undeepend/markup"
	"github.com/dhamidi/undeepend/project"
)

func loadProject(t *testing.T) *project.Project {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"pom.xml": `<project>
  <groupId>org.example</groupId>
  <artifactId>parent</artifactId>
  <version>1.0</version>
  <properties><junit.version>4.13.2</junit.version><revision>1.0</revision></properties>
  <modules><module>core</module><module>app</module></modules>
</project>`,
		"core/pom.xml": `<project>
  <parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1.0</version></parent>
  <artifactId>core</artifactId>
  <dependencies>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>${junit.version}</version><scope>test</scope></dependency>
    <dependency><groupId>org.example</groupId><artifactId>floating</artifactId><version>${missing}</version></dependency>
  </dependencies>
</project>`,
		"app/pom.xml": `<project>
  <parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1.0</version></parent>
  <artifactId>app</artifactId>
  <dependencies>
    <dependency><groupId>org.example</groupId><artifactId>core</artifactId><version>${revision}</version></dependency>
  </dependencies>
</project>`,
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(markup.Prolog+"\n"+body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p, err := project.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuild(t *testing.T) {
	r := Build(loadProject(t))
	if r.Project != "org.example:parent:1.0" {
		t.Errorf("Project = %q", r.Project)
	}
	var names []string
	for _, m := range r.Modules {
		names = append(names, m.ArtifactID)
	}
	if got, want := strings.Join(names, ","), "parent,core,app"; got != want {
		t.Errorf("modules = %s, want %s", got, want)
	}

	core, ok := r.Module("core")
	if !ok {
		t.Fatal("Module(core) not found")
	}
	if core.Depth != 1 || core.Dir != "core" || core.GroupID != "org.example" || core.Version != "1.0" {
		t.Errorf("core = %+v", core)
	}
	if len(core.Dependencies) != 2 {
		t.Fatalf("core dependencies = %+v", core.Dependencies)
	}
	if d := core.Dependencies[0]; d.Version != "4.13.2" || d.Scope != "test" || d.Internal {
		t.Errorf("junit = %+v", d)
	}
	if d := core.Dependencies[1]; d.Version != "" || d.DisplayVersion() != Unresolved {
		t.Errorf("floating = %+v, want unresolved", d)
	}

	app, _ := r.Module("app")
	if d := app.Dependencies[0]; !d.Internal || d.Version != "1.0" || d.Scope != "compile" {
		t.Errorf("app -> core = %+v, want an internal compile dependency on 1.0", d)
	}
}

func TestWriters(t *testing.T) {
	r := Build(loadProject(t))

	var buf bytes.Buffer
	if err := WriteTable(&buf, r.Modules); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"org.example:parent:1.0", "no dependencies", "junit", "4.13.2", Unresolved, "Artifact ID"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("WriteTable() output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := WriteJSON(&buf, r); err != nil {
		t.Fatal(err)
	}
	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("WriteJSON() produced invalid JSON: %v", err)
	}
	if len(decoded.Modules) != 3 || decoded.Modules[1].Dependencies[0].ArtifactID != "junit" {
		t.Errorf("decoded = %+v", decoded)
	}

	buf.Reset()
	if err := WriteYAML(&buf, r.Modules); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "artifactId: junit") {
		t.Errorf("WriteYAML() output missing junit:\n%s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error: %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) error = nil, want an error")
	}
}

func TestWriteHTML(t *testing.T) {
	r := Build(loadProject(t))
	r.Modules[0].Coordinates = "<script>"

	var buf bytes.Buffer
	if err := WriteHTML(&buf, r, HTMLOptions{Graph: "/graph.svg"}); err != nil {
		t.Fatalf("WriteHTML() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>Project Dependencies</title>",
		"<h1>Project Dependencies</h1>",
		"<td>junit</td>",
		`<td class="unresolved">unresolved</td>`,
		`<a href="#core">core</a>`,
		`href="/graph.svg"`,
		"&lt;script&gt;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteHTML() output missing %q", want)
		}
	}
}

func TestDOT(t *testing.T) {
	r := Build(loadProject(t))

	dot := DOT(r, GraphOptions{})
	if !strings.Contains(dot, `"org.example:app" -> "org.example:core";`) {
		t.Errorf("DOT() missing module edge:\n%s", dot)
	}
	if strings.Contains(dot, "junit") {
		t.Errorf("DOT() without External mentions junit:\n%s", dot)
	}

	dot = DOT(r, GraphOptions{External: true})
	for _, want := range []string{
		`"junit:junit" [label="junit\n4.13.2"`,
		`"org.example:core" -> "junit:junit" [label="test", style=dashed];`,
		`"org.example:floating" [label="floating\nunresolved"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT(External) missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), DOT(Build(loadProject(t)), GraphOptions{External: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}
