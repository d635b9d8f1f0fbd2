package geometry

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ievis/pkg/model"
)

// Outcome is the synthesis result for one element.
type Outcome struct {
	ID    string
	Solid *Solid
	Err   error
}

// SynthesizeAll synthesizes every shaped element concurrently with at most
// limit workers (GOMAXPROCS when limit <= 0). Outcomes follow the input
// order. Per-element failures are reported in their Outcome; the returned
// error is only set when ctx is cancelled.
func SynthesizeAll(ctx context.Context, elems []*model.Element, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	out := make([]Outcome, len(elems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, e := range elems {
		out[i].ID = e.ID
		if !e.Shaped() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i].Solid, out[i].Err = Synthesize(*e.Geometry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
