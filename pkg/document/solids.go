package document

import (
	"context"
	"slices"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/model"
)

// Synthesize builds the solids of the shaped elements with at most limit
// concurrent workers. Elements whose geometry cannot be synthesized leave
// Shaped and are recorded in Dropped; NoGeometricData is updated to match.
// The returned map holds one solid per remaining shaped element.
func (r *Result) Synthesize(ctx context.Context, limit int) (map[string]*geometry.Solid, error) {
	elems := make([]*model.Element, 0, len(r.Shaped))
	for _, id := range r.Shaped {
		e, _ := r.Graph.Element(id)
		elems = append(elems, e)
	}
	outcomes, err := geometry.SynthesizeAll(ctx, elems, limit)
	if err != nil {
		return nil, err
	}

	solids := make(map[string]*geometry.Solid, len(outcomes))
	var failed []string
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.ID)
			r.Dropped = append(r.Dropped, Drop{Kind: DropElement, Name: o.ID, Reason: apperr.UserMessage(o.Err)})
			continue
		}
		solids[o.ID] = o.Solid
	}
	r.Shaped = slices.DeleteFunc(r.Shaped, func(id string) bool { return slices.Contains(failed, id) })
	r.NoGeometricData = len(r.Shaped) == 0
	return solids, nil
}
