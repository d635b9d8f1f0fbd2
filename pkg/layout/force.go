package layout

import (
	"math"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/model"
)

// Params are the spring-embedder constants.
type Params struct {
	Rounds int     `json:"rounds" toml:"rounds"`
	L      float64 `json:"rest_length" toml:"rest_length"` // Spring rest length
	Kr     float64 `json:"repulsion" toml:"repulsion"`     // Repulsion constant
	Ks     float64 `json:"spring" toml:"spring"`           // Spring constant
	DeltaT float64 `json:"delta_t" toml:"delta_t"`         // Euler step
}

// DefaultParams returns the standard simulation constants.
func DefaultParams() Params {
	return Params{Rounds: 50, L: 10, Kr: 100, Ks: 5, DeltaT: 0.005}
}

// minDistance keeps coincident nodes from producing infinite repulsion.
const minDistance = 1e-6

// Force is a resumable spring-embedder run in the xy plane.
//
// A run is bound to the graph generation it was built from. Callers that
// chunk rounds across calls pass their current generation to [Force.Step],
// which refuses to continue once the graph has been replaced.
type Force struct {
	ids        []string
	edges      [][2]int
	pos        []model.Vec3
	force      []model.Vec3
	params     Params
	round      int
	generation uint64
}

// NewForce places the nodes evenly around the unit circle, node i at angle
// 2*pi*i/N.
func NewForce(ids []string, edges []Edge, p Params, generation uint64) *Force {
	n := len(ids)
	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}
	f := &Force{
		ids:        ids,
		pos:        make([]model.Vec3, n),
		force:      make([]model.Vec3, n),
		params:     p,
		generation: generation,
	}
	for i := range f.pos {
		a := 2 * math.Pi * float64(i) / float64(n)
		f.pos[i] = model.Vec3{X: math.Cos(a), Y: math.Sin(a)}
	}
	for _, e := range edges {
		a, okA := index[e.A]
		b, okB := index[e.B]
		if okA && okB && a != b {
			f.edges = append(f.edges, [2]int{a, b})
		}
	}
	return f
}

// Step runs up to rounds further rounds, never past Params.Rounds. It fails
// with STALE_GENERATION when generation differs from the run's.
func (f *Force) Step(generation uint64, rounds int) error {
	if generation != f.generation {
		return apperr.New(apperr.ErrCodeStaleGeneration,
			"layout run belongs to generation %d, graph is at %d", f.generation, generation)
	}
	for ; rounds > 0 && f.round < f.params.Rounds; rounds-- {
		f.iterate()
		f.round++
	}
	return nil
}

// Done reports whether all rounds have run.
func (f *Force) Done() bool { return f.round >= f.params.Rounds }

// Round returns the number of completed rounds.
func (f *Force) Round() int { return f.round }

// Generation returns the graph generation the run is bound to.
func (f *Force) Generation() uint64 { return f.generation }

// Positions returns the current raw positions.
func (f *Force) Positions() map[string]model.Vec3 {
	out := make(map[string]model.Vec3, len(f.ids))
	for i, id := range f.ids {
		out[id] = f.pos[i]
	}
	return out
}

// iterate performs one explicit Euler step. Net forces start from zero
// every round.
func (f *Force) iterate() {
	clear(f.force)
	p := f.params

	for i := 0; i < len(f.pos); i++ {
		for j := i + 1; j < len(f.pos); j++ {
			dir, d := direction(f.pos[j], f.pos[i], i)
			push := dir.Scale(p.Kr / (d * d))
			f.force[i] = f.force[i].Add(push)
			f.force[j] = f.force[j].Sub(push)
		}
	}
	for _, e := range f.edges {
		i, j := e[0], e[1]
		dir, d := direction(f.pos[i], f.pos[j], i)
		pull := dir.Scale(p.Ks * (d - p.L))
		f.force[i] = f.force[i].Add(pull)
		f.force[j] = f.force[j].Sub(pull)
	}
	for i := range f.pos {
		f.pos[i] = f.pos[i].Add(f.force[i].Scale(p.DeltaT))
	}
}

// direction returns the unit vector from a to b and the distance, clamped
// to minDistance. Coincident points get a fixed direction per seed.
func direction(a, b model.Vec3, seed int) (model.Vec3, float64) {
	d := b.Sub(a)
	l := d.Len()
	if l < minDistance {
		ang := float64(seed) + 1
		return model.Vec3{X: math.Cos(ang), Y: math.Sin(ang)}, minDistance
	}
	return d.Scale(1 / l), l
}
