package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// HTMLOptions tweaks the HTML page. Graph, when set, is linked from the
// page header.
type HTMLOptions struct {
	Graph string
}

// WriteHTML renders the report as a standalone page with one table per
// module.
func WriteHTML(w io.Writer, r *Report, opts HTMLOptions) error {
	data := struct {
		Report *Report
		Graph  string
	}{r, opts.Graph}
	if err := templates.ExecuteTemplate(w, "report.html", data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
