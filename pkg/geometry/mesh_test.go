package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ievis/pkg/model"
)

func TestTessellateBox(t *testing.T) {
	s, err := Synthesize(model.Geometry{Shape: "cuboid", Dimensions: dims("length", 2, "height", 2, "width", 2)})
	require.NoError(t, err)

	m, err := Tessellate(s, MeshOptions{Cells: 16})
	require.NoError(t, err)
	assert.Positive(t, m.Triangles())
	assert.Len(t, m.Vertices, len(m.Normals))
	assert.Len(t, m.Vertices, len(m.Indices)*3)

	for i := 0; i < len(m.Vertices); i++ {
		assert.LessOrEqual(t, m.Vertices[i], float32(1.2))
		assert.GreaterOrEqual(t, m.Vertices[i], float32(-1.2))
	}
}

func TestTessellateRuledSurface(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Method: model.MethodTranslateAndScale, Shape: "cuboid",
		Dimensions: dims("length", 10),
		Faces: &model.Faces{
			Left:  model.Face{Dimensions: dims("height", 2, "width", 2)},
			Right: model.Face{Dimensions: dims("height", 4, "width", 4)},
		},
	})
	require.NoError(t, err)

	m, err := Tessellate(s, MeshOptions{})
	require.NoError(t, err)
	// Four side quads plus two two-triangle caps.
	assert.Equal(t, 12, m.Triangles())
}
