// Package ui serves the dependency report over HTTP.
package ui

import (
	"encoding/json"
	"net/http"

	"github.com/dhamidi/undeepend/project"
	"github.com/dhamidi/undeepend/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("undeepend.ui")

// LoadFunc returns the project to show. It is called for every request so
// edits to the descriptors show up on reload.
type LoadFunc func() (*project.Project, error)

type Server struct {
	load   LoadFunc
	router chi.Router
}

func NewServer(load LoadFunc) *Server {
	s := &Server{load: load}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Get("/", s.handleIndex)
	r.Get("/api/modules", s.handleModules)
	r.Get("/api/modules/{artifactID}", s.handleModule)
	r.Get("/graph.svg", s.handleGraph)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) report(w http.ResponseWriter) (*report.Report, bool) {
	p, err := s.load()
	if err != nil {
		log.Errorf("load project: %v", err)
		http.Error(w, "load project: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return report.Build(p), true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.WriteHTML(w, rep, report.HTMLOptions{Graph: "/graph.svg"}); err != nil {
		log.Errorf("%v", err)
	}
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w)
	if !ok {
		return
	}
	writeJSON(w, rep.Modules)
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w)
	if !ok {
		return
	}
	m, found := rep.Module(chi.URLParam(r, "artifactID"))
	if !found {
		http.Error(w, "module not found", http.StatusNotFound)
		return
	}
	writeJSON(w, m)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w)
	if !ok {
		return
	}
	opts := report.GraphOptions{External: r.URL.Query().Get("external") != "false"}
	svg, err := report.RenderSVG(r.Context(), report.DOT(rep, opts))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %v", err)
	}
}
