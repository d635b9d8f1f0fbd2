package pipeline

import (
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/model"
)

// ComputeLayout lays out g with the layout options of opts.
func ComputeLayout(g *model.Graph, opts Options) layout.Result {
	lopts := []layout.Option{layout.WithParams(opts.Layout)}
	if opts.Validate {
		lopts = append(lopts, layout.WithValidation(opts.Radius))
	}
	return layout.Compute(g, lopts...)
}

// Unplaced lists elements without an authored position, in encounter order.
// These are the elements whose scene placement comes from the layout.
func Unplaced(g *model.Graph) []string {
	var out []string
	for _, e := range g.Elements() {
		if e.Position == nil {
			out = append(out, e.ID)
		}
	}
	return out
}
