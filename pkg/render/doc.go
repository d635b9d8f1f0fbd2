// Package render turns model graphs into pictures.
//
// The [nodelink] subpackage draws the topology of a model as a Graphviz
// diagram: one node per element, coloured by classification, and one edge
// per relationship. It is the fallback view for documents that carry no
// geometric data.
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [nodelink]: github.com/matzehuels/ievis/pkg/render/nodelink
package render
