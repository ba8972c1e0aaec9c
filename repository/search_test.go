package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhamidi/undeepend/config"
	"github.com/dhamidi/undeepend/pom"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		query SearchQuery
		want  string
	}{
		{"empty query", SearchQuery{}, "*:*"},
		{"text only", SearchQuery{Text: "guice"}, "guice"},
		{"groupId and artifactId", SearchQuery{GroupID: "com.google.inject", ArtifactID: "guice"}, "g:com.google.inject AND a:guice"},
		{
			name: "full coordinate search",
			query: SearchQuery{
				GroupID:    "com.google.inject",
				ArtifactID: "guice",
				Version:    "3.0",
				Packaging:  "jar",
				Classifier: "javadoc",
			},
			want: "g:com.google.inject AND a:guice AND v:3.0 AND p:jar AND l:javadoc",
		},
		{"class name search", SearchQuery{ClassName: "junit"}, "c:junit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tt.query); got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func searchServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if got := req.URL.Query().Get("q"); got != "g:junit AND a:junit" {
			t.Errorf("q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatestVersion(t *testing.T) {
	srv := searchServer(t, `{"response":{"numFound":1,"docs":[{"g":"junit","a":"junit","latestVersion":"4.13.2"}]}}`)
	s := NewSearcher(config.Config{SearchURL: srv.URL})

	got, err := s.LatestVersion(context.Background(), "junit", "junit")
	if err != nil || got != "4.13.2" {
		t.Errorf("LatestVersion() = %q, %v, want %q", got, err, "4.13.2")
	}

	empty := searchServer(t, `{"response":{"numFound":0,"docs":[]}}`)
	s = NewSearcher(config.Config{SearchURL: empty.URL})
	if _, err := s.LatestVersion(context.Background(), "junit", "junit"); !errors.Is(err, ErrNoVersions) {
		t.Errorf("LatestVersion(no docs) error = %v, want %v", err, ErrNoVersions)
	}
}

func TestVersionsAndNewest(t *testing.T) {
	srv := searchServer(t, `{"response":{"docs":[
		{"v":"4.12"},{"v":"4.13.2"},{"v":"5.0-SNAPSHOT"},{"v":"4.13-beta-1"},{"v":"4.13"}]}}`)
	s := NewSearcher(config.Config{SearchURL: srv.URL})

	versions, err := s.Versions(context.Background(), "junit", "junit")
	if err != nil {
		t.Fatalf("Versions() error: %v", err)
	}
	var raw []string
	for _, v := range versions {
		raw = append(raw, v.String())
	}
	want := []string{"5.0-SNAPSHOT", "4.13.2", "4.13", "4.13-beta-1", "4.12"}
	if fmt.Sprint(raw) != fmt.Sprint(want) {
		t.Errorf("Versions() = %v, want %v", raw, want)
	}

	if got := Newest(versions, nil); got == nil || got.String() != "4.13.2" {
		t.Errorf("Newest(nil) = %v, want 4.13.2", got)
	}
	req, err := pom.ParseVersionRequirement("[4.0,4.13)")
	if err != nil {
		t.Fatal(err)
	}
	if got := Newest(versions, req); got == nil || got.String() != "4.13-beta-1" {
		t.Errorf("Newest([4.0,4.13)) = %v, want 4.13-beta-1", got)
	}
	if got := Newest(nil, nil); got != nil {
		t.Errorf("Newest(empty) = %v, want nil", got)
	}
}
