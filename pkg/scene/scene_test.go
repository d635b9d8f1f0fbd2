package scene

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ievis/pkg/classify"
	"github.com/matzehuels/ievis/pkg/document"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/model"
)

func bridge(t *testing.T) (*model.Graph, map[string]*geometry.Solid) {
	t.Helper()
	res, err := document.ParseFile(filepath.Join("..", "document", "testdata", "bridge.json"))
	require.NoError(t, err)
	solids, err := res.Synthesize(context.Background(), 0)
	require.NoError(t, err)
	return res.Graph, solids
}

func nodeByID(t *testing.T, sc *Scene, id string) Node {
	t.Helper()
	for _, n := range sc.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("no node %s", id)
	return Node{}
}

func TestBuild(t *testing.T) {
	g, solids := bridge(t)
	sc := Build(g, solids)

	assert.Equal(t, "footbridge", sc.Name)
	assert.Equal(t, 1.0, sc.Scale)
	assert.False(t, sc.NoGeometricData)
	assert.Len(t, sc.Nodes, 5)
	assert.Len(t, sc.Links, 4)

	deck := nodeByID(t, sc, "deck")
	assert.InDelta(t, 5, deck.Centre.X, 1e-9)
	assert.InDelta(t, 5.5, deck.Centre.Y, 1e-9)
	assert.InDelta(t, -2, deck.Centre.Z, 1e-9)
	assert.Equal(t, "#e59bc1", deck.Color)
	assert.Nil(t, deck.Rotation)

	pier := nodeByID(t, sc, "pier")
	require.NotNil(t, pier.Rotation)
	assert.InDelta(t, -1.5707963, pier.Rotation.Z, 1e-6)

	support := nodeByID(t, sc, "support")
	assert.Equal(t, "ground", support.Kind)
	require.NotNil(t, support.Solid)
	assert.Equal(t, GroundRadius, support.Solid.Primitives[0].Radius)
	assert.Equal(t, model.Vec3{X: 4, Y: 0, Z: -1}, support.Centre)

	cable := nodeByID(t, sc, "cable")
	assert.Nil(t, cable.Solid)
	assert.Equal(t, 1, cable.References)

	assert.Equal(t, "#e59bc1", sc.Legend["deck"])
	assert.Equal(t, classify.Ground.Hex(), sc.Legend["ground"])
}

func TestBuildScale(t *testing.T) {
	g, solids := bridge(t)
	sc := Build(g, solids, WithScale(2), WithScheme(classify.SchemeMaterial))

	deck := nodeByID(t, sc, "deck")
	assert.InDelta(t, 10, deck.Centre.X, 1e-9)
	assert.InDelta(t, 11, deck.Centre.Y, 1e-9)
	assert.InDelta(t, -4, deck.Centre.Z, 1e-9)
	assert.InDelta(t, 20, deck.Solid.Dimensions[geometry.DimLength], 1e-9)
	assert.InDelta(t, 10, solids["deck"].Dimensions[geometry.DimLength], 1e-9, "source solid untouched")
	assert.Equal(t, "#ab274f", deck.Color)

	support := nodeByID(t, sc, "support")
	assert.Equal(t, GroundRadius, support.Solid.Primitives[0].Radius)
	assert.Equal(t, model.Vec3{X: 8, Y: 0, Z: -2}, support.Centre)
}

func TestBuildTopologyOnly(t *testing.T) {
	g := model.New(model.Info{Name: "sketch"})
	require.NoError(t, g.AddElement(model.Element{Name: "a", Contextual: "wall"}))
	require.NoError(t, g.AddElement(model.Element{Name: "b", Contextual: "slab"}))
	_, err := g.SetRelationship([]string{"a", "b"}, model.RelPerfect)
	require.NoError(t, err)

	sc := Build(g, nil, WithPositions(map[string]model.Vec3{"b": {X: 3, Y: 1, Z: 2}}))
	assert.True(t, sc.NoGeometricData)
	assert.Nil(t, sc.Bounds)
	assert.Equal(t, model.Vec3{}, nodeByID(t, sc, "a").Centre)
	assert.Equal(t, model.Vec3{X: 3, Y: 1, Z: -2}, nodeByID(t, sc, "b").Centre)
}
