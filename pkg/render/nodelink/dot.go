package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ievis/pkg/classify"
	"github.com/matzehuels/ievis/pkg/model"
)

// Options configures topology diagram rendering.
type Options struct {
	// Scheme selects the classification that drives node fill colours.
	Scheme classify.Scheme

	// Detailed adds contextual type, material and geometry lines to labels.
	Detailed bool

	// Positions pins nodes to layout coordinates (x and y are used). When
	// set the diagram is laid out with neato instead of dot.
	Positions map[string]model.Vec3
}

// ToDOT converts a model graph to an undirected Graphviz DOT diagram. Edges
// are labelled with the relationship type and nature. Relationships with
// more than two participants get a small junction node joined to each
// participant.
func ToDOT(g *model.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.Positions != nil {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	for _, e := range g.Elements() {
		attrs := nodeAttrs(e, opts)
		if p, ok := opts.Positions[e.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(p.X), fmtFloat(p.Y)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range g.Relationships() {
		label := edgeLabel(r)
		if len(r.Participants) == 2 {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q%s];\n", r.Participants[0], r.Participants[1], label, edgeStyle(r.Type))
			continue
		}
		junction := "rel:" + string(r.Key)
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.12, xlabel=%q];\n", junction, label)
		for _, p := range r.Participants {
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", junction, p, strings.TrimPrefix(edgeStyle(r.Type), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(e *model.Element, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(e, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", classify.ColorFor(e, opts.Scheme).Hex()),
	}
	if e.IsGround() {
		attrs = append(attrs, "shape=invtrapezium", "style=filled")
	} else if !e.Shaped() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func fmtLabel(e *model.Element, detailed bool) string {
	if !detailed || e.IsGround() {
		return e.Name
	}
	parts := []string{e.Name}
	if e.Contextual != "" {
		parts = append(parts, e.Contextual)
	}
	if len(e.Material) > 0 {
		parts = append(parts, e.Material.String())
	}
	if e.Geometry != nil {
		parts = append(parts, e.Geometry.Chain().String())
	}
	return strings.Join(parts, "\n")
}

func edgeLabel(r *model.Relationship) string {
	if r.Nature != nil {
		return string(r.Type) + "\n" + r.Nature.String()
	}
	return string(r.Type)
}

func edgeStyle(t model.RelationType) string {
	switch t {
	case model.RelNone:
		return ", style=dotted"
	case model.RelConnection, model.RelJoint:
		return ", style=dashed"
	case model.RelBoundary:
		return ", penwidth=2"
	}
	return ""
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the diagram scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
