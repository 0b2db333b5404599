package topology

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Lengths labels edges with the link length next to the link ID.
	Lengths bool
	// Highlight fills the listed nodes, e.g. the result of [Reachable].
	Highlight []string
}

// ToDOT converts g to an undirected Graphviz DOT graph. Nodes and edges are
// emitted in sorted order so the output is stable.
func ToDOT(g *Graph, opts DOTOptions) string {
	hl := make(map[string]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		hl[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		n := g.nodes[id]
		label := strings.ReplaceAll(id, `"`, `\"`) + "\\ninvert: " + strconv.FormatFloat(n.Invert, 'g', -1, 64)
		fill := "white"
		if hl[id] {
			fill = "lightblue"
		}
		fmt.Fprintf(&buf, "  %q [label=\"%s\", fillcolor=%s];\n", id, label, fill)
	}

	buf.WriteString("\n")
	for _, l := range g.Links() {
		if l.From == "" {
			continue
		}
		label := l.ID
		if opts.Lengths {
			label += " (" + strconv.FormatFloat(l.Length, 'g', -1, 64) + ")"
		}
		style := "solid"
		if l.Length == 0 {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, style=%s];\n", l.From, l.To, label, style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
