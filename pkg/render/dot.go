// Package render exports a docnet graph as Graphviz DOT and renders it to
// SVG. Directed edges draw as arrows, undirected ones as plain lines, and
// edge labels appear along the line.
package render

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docnet/pkg/docnet"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes every vertex field in node labels.
	// When false, only the place is shown.
	Detailed bool
}

// ToDOT converts a store's graph to Graphviz DOT format.
// Vertices are sorted by place for deterministic output; edges follow
// insertion order. The resulting DOT string can be rendered with [ToSVG].
func ToDOT(s *docnet.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	var vertices []docnet.Vertex
	for v := range s.All() {
		vertices = append(vertices, v)
	}
	slices.SortFunc(vertices, func(a, b docnet.Vertex) int {
		return a.Place() - b.Place()
	})

	for _, v := range vertices {
		fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(v), fmtLabel(v, opts.Detailed))
	}

	buf.WriteString("\n")
	for e := range s.Edges() {
		attrs := fmtEdgeAttrs(e)
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %s -- %s [%s];\n",
				nodeID(e.Start()), nodeID(e.End()), strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %s -- %s;\n", nodeID(e.Start()), nodeID(e.End()))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(v docnet.Vertex) string {
	return fmt.Sprintf("v%d", v.Place())
}

func fmtLabel(v docnet.Vertex, detailed bool) string {
	label := fmt.Sprintf("#%d", v.Place())
	if !detailed {
		return label
	}

	pack := v.Pack()
	parts := []string{label}
	for _, name := range pack.Names() {
		value, err := pack.Get(name)
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", name, value))
	}
	return strings.Join(parts, "\n")
}

func fmtEdgeAttrs(e docnet.Edge) []string {
	var attrs []string
	if e.Label() != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label()))
	}
	if e.Directed() {
		attrs = append(attrs, "dir=forward")
	}
	return attrs
}

// ToSVG renders a DOT graph to SVG using Graphviz.
func ToSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
