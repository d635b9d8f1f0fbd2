package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/model"
	"github.com/matzehuels/ievis/pkg/render"
	"github.com/matzehuels/ievis/pkg/render/nodelink"
	"github.com/matzehuels/ievis/pkg/scene"
)

// Cacheable reports whether an export of format is a pure function of the
// graph, layout and options. Document exports carry a timestamp and are
// always regenerated.
func Cacheable(format string) bool {
	return format != FormatDocument
}

// BuildScene places the model, using layout positions for elements that
// have none of their own.
func BuildScene(g *model.Graph, solids map[string]*geometry.Solid, l layout.Result, opts Options) *scene.Scene {
	return scene.Build(g, solids,
		scene.WithScale(opts.Scale),
		scene.WithScheme(opts.ColourScheme()),
		scene.WithPositions(l.Positions),
	)
}

// Export produces one artifact. Mesh exports go through [Runner.Meshes] and
// are not handled here.
func Export(ctx context.Context, format string, g *model.Graph, solids map[string]*geometry.Solid, l layout.Result, opts Options) ([]byte, error) {
	switch format {
	case FormatScene:
		return json.Marshal(BuildScene(g, solids, l, opts))
	case FormatDocument:
		return document.Marshal(document.ToDocument(g, solids))
	case FormatLayout:
		return json.Marshal(l)
	case FormatDOT:
		return []byte(topology(g, l, opts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, topology(g, l, opts))
	case FormatPNG:
		svg, err := nodelink.RenderSVG(ctx, topology(g, l, opts))
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, DefaultPNGScale)
	case FormatPDF:
		svg, err := nodelink.RenderSVG(ctx, topology(g, l, opts))
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func topology(g *model.Graph, l layout.Result, opts Options) string {
	nopts := nodelink.Options{Scheme: opts.ColourScheme(), Detailed: opts.Detailed}
	if opts.Pin {
		nopts.Positions = l.Positions
	}
	return nodelink.ToDOT(g, nopts)
}

// Tessellate meshes every solid concurrently, at most limit at a time
// (unbounded when limit <= 0). The result is keyed by element id.
func Tessellate(ctx context.Context, solids map[string]*geometry.Solid, cells, limit int) (map[string]*geometry.Mesh, error) {
	if len(solids) == 0 {
		return nil, apperr.New(apperr.ErrCodeNoGeometricData, "nothing to mesh")
	}
	ids := make([]string, 0, len(solids))
	for id := range solids {
		ids = append(ids, id)
	}
	meshes := make([]*geometry.Mesh, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, id := range ids {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := geometry.Tessellate(solids[id], geometry.MeshOptions{Cells: cells})
			if err != nil {
				return fmt.Errorf("mesh %s: %w", id, err)
			}
			meshes[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*geometry.Mesh, len(ids))
	for i, id := range ids {
		out[id] = meshes[i]
	}
	return out, nil
}
