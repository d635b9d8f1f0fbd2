// Package layout derives element coordinates from graph connectivity.
//
// Two modes exist and exactly one applies to a graph. When any relationship
// carries an explicit coordinate, [Seeded] propagates those coordinates
// greedily along remaining edges. Otherwise [Force] runs a spring-embedder
// simulation and [Rescale] maps the result into a bounded display range.
//
// [Validate] is a diagnostic pass over finished positions. It reports edges
// that pass close to unrelated nodes and edges that cross; it never changes
// or blocks a layout.
package layout

import (
	"github.com/matzehuels/ievis/pkg/model"
)

// Mode names the algorithm that produced a layout.
type Mode string

const (
	ModeSeeded Mode = "seeded"
	ModeForce  Mode = "force"
)

// Edge is an undirected edge between two nodes. CoordA and CoordB are the
// coordinates the edge hands to A and B, nil when it carries none.
type Edge struct {
	A, B   string
	CoordA *model.Vec3
	CoordB *model.Vec3
}

// HasCoord reports whether the edge carries a coordinate.
func (e Edge) HasCoord() bool { return e.CoordA != nil || e.CoordB != nil }

// coordFor returns the coordinate e hands to id.
func (e Edge) coordFor(id string) *model.Vec3 {
	first, second := e.CoordA, e.CoordB
	if id == e.B {
		first, second = e.CoordB, e.CoordA
	}
	if first != nil {
		return first
	}
	return second
}

// other returns the endpoint of e that is not id.
func (e Edge) other(id string) string {
	if e.A == id {
		return e.B
	}
	return e.A
}

// Edges flattens the relationships of g into pairwise edges in key order.
// Relationships with more than two participants become one edge per pair.
// Each endpoint receives its participant coordinate when present, otherwise
// the relationship's shared coordinate.
func Edges(g *model.Graph) []Edge {
	var out []Edge
	for _, r := range g.Relationships() {
		ps := r.Participants
		for i := 0; i < len(ps); i++ {
			for j := i + 1; j < len(ps); j++ {
				out = append(out, Edge{A: ps[i], B: ps[j], CoordA: coordOf(r, ps[i]), CoordB: coordOf(r, ps[j])})
			}
		}
	}
	return out
}

func coordOf(r *model.Relationship, id string) *model.Vec3 {
	if c, ok := r.ParticipantCoordinates[id]; ok {
		return &c
	}
	if r.Coordinate != nil {
		c := *r.Coordinate
		return &c
	}
	return nil
}

// Result is a finished layout.
type Result struct {
	Mode      Mode                  `json:"mode"`
	Positions map[string]model.Vec3 `json:"positions"`
	Steps     int                   `json:"steps"`            // Assigning steps (seeded) or rounds (force)
	Issues    []Issue               `json:"issues,omitempty"` // Diagnostics, only with WithValidation
}

type config struct {
	params     Params
	generation uint64
	validate   bool
	radius     float64
}

// Option configures [Compute].
type Option func(*config)

// WithParams overrides the force simulation parameters.
func WithParams(p Params) Option { return func(c *config) { c.params = p } }

// WithGeneration binds the force run to a graph generation.
func WithGeneration(gen uint64) Option { return func(c *config) { c.generation = gen } }

// WithValidation runs the diagnostic pass with the given radius
// (DefaultRadius when <= 0).
func WithValidation(radius float64) Option {
	return func(c *config) {
		c.validate = true
		c.radius = radius
	}
}

// Compute lays out g, choosing the mode by whether any relationship carries
// a coordinate. Every element of g appears in the result.
func Compute(g *model.Graph, opts ...Option) Result {
	cfg := config{params: DefaultParams()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ids := g.ElementIDs()
	edges := Edges(g)
	var res Result
	if g.HasRelationshipCoordinates() {
		pos, steps := Seeded(ids, edges)
		res = Result{Mode: ModeSeeded, Positions: pos, Steps: steps}
	} else {
		f := NewForce(ids, edges, cfg.params, cfg.generation)
		// A freshly built simulation always matches its own generation.
		_ = f.Step(cfg.generation, cfg.params.Rounds)
		res = Result{Mode: ModeForce, Positions: Rescale(f.Positions(), DefaultRange), Steps: f.Round()}
	}
	if cfg.validate {
		res.Issues = Validate(res.Positions, edges, cfg.radius)
	}
	return res
}
