package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/model"
)

func scenarioGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.New(model.Info{})
	for _, e := range []model.Element{
		{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "Ground", Kind: model.KindGround},
	} {
		require.NoError(t, g.AddElement(e))
	}
	_, err := g.SetRelationship([]string{"A", "B"}, model.RelJoint, model.WithNature(model.Nature{Name: "dynamic", Nature: "hinge"}))
	require.NoError(t, err)
	_, err = g.SetRelationship([]string{"B", "C"}, model.RelConnection, model.WithNature(model.Nature{Name: "static", Nature: "bolted"}))
	require.NoError(t, err)
	_, err = g.SetRelationship([]string{"C", "Ground"}, model.RelBoundary, model.WithCoordinate(model.Vec3{X: 10, Y: 0, Z: 5}))
	require.NoError(t, err)
	return g
}

func TestSeededScenario(t *testing.T) {
	res := Compute(scenarioGraph(t))
	require.Equal(t, ModeSeeded, res.Mode)

	want := model.Vec3{X: 10, Y: 0, Z: 5}
	assert.Equal(t, want, res.Positions["C"])
	assert.Equal(t, want, res.Positions["Ground"])
	assert.Equal(t, model.Vec3{}, res.Positions["A"])
	assert.Equal(t, model.Vec3{}, res.Positions["B"])
	assert.Equal(t, 1, res.Steps)
}

func TestSeededTermination(t *testing.T) {
	coord := func(i int) *model.Vec3 { return &model.Vec3{X: float64(i)} }
	tests := []struct {
		name  string
		ids   []string
		edges []Edge
	}{
		{"path", []string{"a", "b", "c", "d"}, []Edge{
			{A: "a", B: "b", CoordA: coord(1), CoordB: coord(1)},
			{A: "b", B: "c", CoordA: coord(2), CoordB: coord(2)},
			{A: "c", B: "d", CoordA: coord(3), CoordB: coord(3)},
		}},
		{"star", []string{"hub", "a", "b", "c"}, []Edge{
			{A: "hub", B: "a", CoordA: coord(1), CoordB: coord(1)},
			{A: "hub", B: "b", CoordA: coord(2), CoordB: coord(2)},
			{A: "hub", B: "c", CoordA: coord(3), CoordB: coord(3)},
		}},
		{"cycle", []string{"a", "b", "c"}, []Edge{
			{A: "a", B: "b", CoordA: coord(1), CoordB: coord(1)},
			{A: "b", B: "c", CoordA: coord(2), CoordB: coord(2)},
			{A: "a", B: "c", CoordA: coord(3), CoordB: coord(3)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, steps := Seeded(tt.ids, tt.edges)
			assert.LessOrEqual(t, steps, len(tt.ids)-1)
			assert.Len(t, pos, len(tt.ids))
			for _, id := range tt.ids {
				assert.NotZero(t, pos[id].X, "node %s got no coordinate", id)
			}
		})
	}
}

func TestSeededPrefersCoordinatedEdge(t *testing.T) {
	c := &model.Vec3{X: 7}
	pos, steps := Seeded([]string{"a", "b", "c"}, []Edge{
		{A: "a", B: "b"},
		{A: "a", B: "c", CoordA: c, CoordB: c},
		{A: "b", B: "c"},
	})
	assert.Equal(t, 1, steps)
	assert.Equal(t, *c, pos["a"])
	assert.Equal(t, *c, pos["c"])
	assert.Equal(t, model.Vec3{}, pos["b"])
}

func TestSeededParticipantCoordinates(t *testing.T) {
	g := model.New(model.Info{})
	g.AddElement(model.Element{Name: "a"})
	g.AddElement(model.Element{Name: "b"})
	g.SetRelationship([]string{"a", "b"}, model.RelConnection,
		model.WithParticipantCoordinate("a", model.Vec3{X: 1}),
		model.WithParticipantCoordinate("b", model.Vec3{X: 2}))

	res := Compute(g)
	assert.Equal(t, model.Vec3{X: 1}, res.Positions["a"])
	assert.Equal(t, model.Vec3{X: 2}, res.Positions["b"])
}

func TestForceStepSpringContracts(t *testing.T) {
	f := NewForce([]string{"a", "b"}, []Edge{{A: "a", B: "b"}}, DefaultParams(), 0)
	f.pos[0] = model.Vec3{X: 0}
	f.pos[1] = model.Vec3{X: 30}
	before := f.pos[1].Sub(f.pos[0]).Len()

	require.NoError(t, f.Step(0, 1))
	after := f.pos[1].Sub(f.pos[0]).Len()
	assert.Less(t, after, before)
}

func TestForceStepRepulsion(t *testing.T) {
	f := NewForce([]string{"a", "b"}, nil, DefaultParams(), 0)
	f.pos[0] = model.Vec3{X: 0}
	f.pos[1] = model.Vec3{X: 0.5}

	require.NoError(t, f.Step(0, 1))
	assert.Greater(t, f.pos[1].Sub(f.pos[0]).Len(), 0.5)
}

func TestForceCoincidentNodes(t *testing.T) {
	f := NewForce([]string{"a", "b"}, nil, DefaultParams(), 0)
	f.pos[1] = f.pos[0]
	require.NoError(t, f.Step(0, 1))
	for _, p := range f.pos {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
	}
}

func TestForceChunking(t *testing.T) {
	ids := []string{"a", "b", "c"}
	edges := []Edge{{A: "a", B: "b"}, {A: "b", B: "c"}}
	p := DefaultParams()

	whole := NewForce(ids, edges, p, 3)
	require.NoError(t, whole.Step(3, p.Rounds))

	chunked := NewForce(ids, edges, p, 3)
	for !chunked.Done() {
		require.NoError(t, chunked.Step(3, 7))
	}
	assert.Equal(t, p.Rounds, chunked.Round())
	assert.Equal(t, whole.Positions(), chunked.Positions())

	err := chunked.Step(4, 1)
	assert.True(t, apperr.Is(err, apperr.ErrCodeStaleGeneration), "got %v", err)
}

func TestForceInitialCircle(t *testing.T) {
	f := NewForce([]string{"a", "b", "c", "d"}, nil, DefaultParams(), 0)
	pos := f.Positions()
	assert.InDelta(t, 1, pos["a"].X, 1e-12)
	assert.InDelta(t, 1, pos["b"].Y, 1e-12)
	assert.InDelta(t, -1, pos["c"].X, 1e-12)
	assert.InDelta(t, -1, pos["d"].Y, 1e-12)
}

func TestComputeForceRescaled(t *testing.T) {
	g := model.New(model.Info{})
	for i := range 5 {
		g.AddElement(model.Element{Name: fmt.Sprintf("n%d", i)})
	}
	g.SetRelationship([]string{"n0", "n1"}, model.RelPerfect)
	g.SetRelationship([]string{"n1", "n2"}, model.RelPerfect)
	g.SetRelationship([]string{"n3", "n4"}, model.RelPerfect)

	res := Compute(g)
	require.Equal(t, ModeForce, res.Mode)
	assert.Equal(t, 50, res.Steps)
	require.Len(t, res.Positions, 5)

	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, p := range res.Positions {
		assert.GreaterOrEqual(t, p.Y, -50.0-1e-9)
		assert.LessOrEqual(t, p.Y, 50.0+1e-9)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
	}
	assert.InDelta(t, -100, minX, 1e-9)
	assert.InDelta(t, 100, maxX, 1e-9)
}

func TestComputeDegenerate(t *testing.T) {
	empty := Compute(model.New(model.Info{}))
	assert.Empty(t, empty.Positions)

	g := model.New(model.Info{})
	g.AddElement(model.Element{Name: "solo"})
	res := Compute(g)
	assert.Equal(t, model.Vec3{}, res.Positions["solo"], "zero span maps to the centre")
}

func TestRescale(t *testing.T) {
	out := Rescale(map[string]model.Vec3{
		"a": {X: 0, Y: 3},
		"b": {X: 10, Y: 3},
		"c": {X: 5, Y: 3},
	}, DefaultRange)
	assert.Equal(t, model.Vec3{X: -100, Y: 0}, out["a"])
	assert.Equal(t, model.Vec3{X: 100, Y: 0}, out["b"])
	assert.Equal(t, model.Vec3{X: 0, Y: 0}, out["c"])
}

func TestValidate(t *testing.T) {
	pos := map[string]model.Vec3{
		"a": {X: -10, Y: 0},
		"b": {X: 10, Y: 0},
		"c": {X: 0, Y: -10},
		"d": {X: 0, Y: 10},
		"e": {X: 0, Y: 2},
		"f": {X: 50, Y: 2},
	}
	edges := []Edge{{A: "a", B: "b"}, {A: "c", B: "d"}, {A: "a", B: "c"}}
	issues := Validate(pos, edges, 5)

	var near, cross int
	for _, is := range issues {
		switch is.Kind {
		case IssueNodeNearEdge:
			near++
		case IssueEdgeCrossing:
			cross++
		}
	}
	// e is near a-b and c-d; f is beyond the end of a-b.
	assert.Equal(t, 2, near)
	// a-b crosses c-d; a-c shares endpoints with both.
	assert.Equal(t, 1, cross)
}

func TestComputeWithValidation(t *testing.T) {
	res := Compute(scenarioGraph(t), WithValidation(0))
	assert.NotNil(t, res.Positions)
	// A shares the origin with B, the start of edge B-C.
	assert.NotEmpty(t, res.Issues)
}
