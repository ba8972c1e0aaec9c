package report

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-graphviz"
)

// GraphOptions selects what DOT draws.
type GraphOptions struct {
	// External adds third-party dependencies as nodes; otherwise only edges
	// between modules of the project are drawn.
	External bool
}

// DOT renders the report as a Graphviz digraph. Module nodes are boxes,
// external dependencies are ellipses labelled with their version.
func DOT(r *Report, opts GraphOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, m := range r.Modules {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", m.GroupID+":"+m.ArtifactID, m.ArtifactID)
	}

	var external []string
	labels := make(map[string]string)
	for _, m := range r.Modules {
		for _, d := range m.Dependencies {
			if d.Internal || !opts.External {
				continue
			}
			if _, ok := labels[d.Key()]; !ok {
				external = append(external, d.Key())
			}
			labels[d.Key()] = d.ArtifactID + "\n" + d.DisplayVersion()
		}
	}
	slices.Sort(external)
	for _, key := range external {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=\"#f2f2f2\"];\n", key, labels[key])
	}

	buf.WriteString("\n")
	for _, m := range r.Modules {
		from := m.GroupID + ":" + m.ArtifactID
		for _, d := range m.Dependencies {
			if !d.Internal && !opts.External {
				continue
			}
			attrs := ""
			if d.Scope != "compile" {
				attrs = fmt.Sprintf(" [label=%q, style=dashed]", d.Scope)
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", from, d.Key(), attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
