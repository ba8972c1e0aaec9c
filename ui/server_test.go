package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/undeepend/markup"
	"github.com/dhamidi/undeepend/project"
	"github.com/dhamidi/undeepend/report"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	body := markup.Prolog + `
<project>
  <groupId>org.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0</version>
  <dependencies>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>4.13.2</version></dependency>
  </dependencies>
</project>`
	if err := os.WriteFile(filepath.Join(dir, "pom.xml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewServer(func() (*project.Project, error) { return project.Load(dir) })
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	s := testServer(t)
	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/", http.StatusOK, "text/html", "Project Dependencies"},
		{"/api/modules", http.StatusOK, "application/json", `"artifactId":"junit"`},
		{"/api/modules/app", http.StatusOK, "application/json", `"coordinates":"org.example:app:1.0"`},
		{"/api/modules/nope", http.StatusNotFound, "", "module not found"},
		{"/healthz", http.StatusOK, "", "ok"},
		{"/missing", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("GET %s status = %d, want %d", tt.path, rec.Code, tt.status)
			}
			if tt.contentType != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("GET %s Content-Type = %q, want %q", tt.path, rec.Header().Get("Content-Type"), tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("GET %s body missing %q:\n%s", tt.path, tt.contains, rec.Body.String())
			}
		})
	}
}

func TestModulesJSON(t *testing.T) {
	rec := get(t, testServer(t), "/api/modules")
	var modules []report.Module
	if err := json.NewDecoder(rec.Body).Decode(&modules); err != nil {
		t.Fatal(err)
	}
	if len(modules) != 1 || len(modules[0].Dependencies) != 1 || modules[0].Dependencies[0].Version != "4.13.2" {
		t.Errorf("modules = %+v", modules)
	}
}

func TestGraph(t *testing.T) {
	rec := get(t, testServer(t), "/graph.svg")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("GET /graph.svg = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("GET /graph.svg body missing <svg>")
	}
}

func TestLoadFailure(t *testing.T) {
	s := NewServer(func() (*project.Project, error) { return nil, errors.New("broken descriptor") })
	rec := get(t, s, "/")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "broken descriptor") {
		t.Errorf("GET / = %d %q, want a 500 naming the load error", rec.Code, rec.Body.String())
	}
}
