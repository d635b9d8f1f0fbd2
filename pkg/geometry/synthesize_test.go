package geometry

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/model"
)

func dims(kv ...any) map[string]model.Quantity {
	out := map[string]model.Quantity{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = model.Quantity{Value: float64(kv[i+1].(int))}
	}
	return out
}

func beamGeometry(shape string) model.Geometry {
	return model.Geometry{
		Class:      "beam",
		Method:     model.MethodRegular,
		Shape:      shape,
		Dimensions: dims("width", 80, "h", 40, "s", 10, "t", 10, "b", 30),
	}
}

func TestBeam(t *testing.T) {
	i, err := Synthesize(beamGeometry("i-beam"))
	require.NoError(t, err)
	require.Len(t, i.Primitives, 3)

	size := i.Bounds().Size()
	assert.InDelta(t, 40, size.Y, 1e-9, "combined height")
	assert.InDelta(t, 80, size.X, 1e-9, "length")
	assert.InDelta(t, 30, size.Z, 1e-9, "flange width")

	bottom, web, top := i.Primitives[0], i.Primitives[1], i.Primitives[2]
	assert.InDelta(t, bottom.Offset.Z, web.Offset.Z, 1e-9, "I web centred on flange midline")
	assert.InDelta(t, 20, web.Size.Y, 1e-9, "web height h-2t")
	assert.InDelta(t, 30, top.Offset.Y-bottom.Offset.Y, 1e-9, "flange separation h-t")
	assert.InDelta(t, 80, i.Dimensions[DimLength], 1e-9)

	c, err := Synthesize(beamGeometry("c-beam"))
	require.NoError(t, err)
	assert.InDelta(t, 40, c.Bounds().Size().Y, 1e-9)
	assert.InDelta(t, -25, c.Primitives[1].Offset.Z-c.Primitives[0].Offset.Z, 1e-9, "C web offset -b+s/2")
	assert.InDelta(t, 0, c.Bounds().Centre().Z, 1e-9, "solid is centroid-anchored")
}

func TestBeamRejectsOverlappingFlanges(t *testing.T) {
	g := beamGeometry("i-beam")
	g.Dimensions["t"] = model.Quantity{Value: 20}
	_, err := Synthesize(g)
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidDimension), "got %v", err)
}

func TestBox(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Class: "solid", Method: model.MethodTranslate, Shape: "cuboid",
		Dimensions: dims("length", 2, "height", 4, "width", 6),
	})
	require.NoError(t, err)
	assert.Equal(t, FamilyBox, s.Family)
	assert.Equal(t, model.Vec3{X: 1, Y: 2, Z: 3}, s.HalfExtent())
}

func TestCylinderLiesAlongX(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Class: "solid", Method: model.MethodTranslate, Shape: "cylinder",
		Dimensions: dims("radius", 2, "length", 10),
	})
	require.NoError(t, err)
	size := s.Bounds().Size()
	assert.InDelta(t, 10, size.X, 1e-9)
	assert.InDelta(t, 4, size.Y, 1e-9)
	assert.InDelta(t, 4, size.Z, 1e-9)
}

func TestCylinderThicknessFallback(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Class: "shell", Method: model.MethodRegular, Shape: "circular",
		Dimensions: dims("radius", 3, "thickness", 1),
	})
	require.NoError(t, err)
	assert.InDelta(t, 1, s.Dimensions[DimLength], 1e-9)
	assert.Zero(t, s.Shell, "thickness consumed as length is not a wall")
}

func TestShellThickness(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Class: "shell", Method: model.MethodTranslate, Shape: "cuboid",
		Dimensions: map[string]model.Quantity{
			"length": {Value: 4}, "height": {Value: 4}, "width": {Value: 4}, "thickness": {Value: 0.5},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.Shell, 1e-12)
}

func TestObliqueCylinderSharedRadius(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Class: "solid", Method: model.MethodTranslateAndScale, Shape: "cylinder",
		Dimensions: dims("length", 10, "radius", 2),
		Faces: &model.Faces{
			Left:  model.Face{},
			Right: model.Face{Y: 1, Dimensions: dims("radius", 1)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{DimLength: 10, DimRadius: 2}, s.Dimensions)
}

func TestObliqueCylinderSkew(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Class: "solid", Method: model.MethodTranslateAndScale, Shape: "cylinder",
		Dimensions: dims("length", 10),
		Faces: &model.Faces{
			Left:  model.Face{Y: 1, Z: 1, Dimensions: dims("radius", 2)},
			Right: model.Face{Y: 3, Z: 4, Dimensions: dims("radius", 1)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, s.Surface)

	lc, rc := loopCentre(s.Surface.Left), loopCentre(s.Surface.Right)
	assert.InDelta(t, 10, rc.X-lc.X, 1e-9)
	assert.InDelta(t, 2, rc.Y-lc.Y, 1e-9, "skew y = right - left")
	assert.InDelta(t, -3, rc.Z-lc.Z, 1e-9, "skew z changes sign")
}

func TestTrapezoid(t *testing.T) {
	s, err := Synthesize(model.Geometry{
		Class: "solid", Method: model.MethodTranslateAndScale, Shape: "cuboid",
		Dimensions: dims("length", 50),
		Faces: &model.Faces{
			Left:  model.Face{Y: 10, Z: 10, Dimensions: dims("height", 20, "width", 20)},
			Right: model.Face{Y: 0, Z: 0, Dimensions: dims("y", 40, "z", 40)},
		},
	})
	require.NoError(t, err)
	require.Len(t, s.Surface.Left, 4)
	size := s.Bounds().Size()
	assert.InDelta(t, 50, size.X, 1e-9)
	assert.InDelta(t, 40, size.Y, 1e-9)
	assert.InDelta(t, 40, size.Z, 1e-9)
	assert.InDelta(t, 0, s.Bounds().Centre().Y, 1e-9)
}

func TestSynthesizeRejects(t *testing.T) {
	tests := []struct {
		name string
		geom model.Geometry
		code apperr.Code
	}{
		{"zero length", model.Geometry{Shape: "cuboid", Dimensions: dims("length", 0, "height", 1, "width", 1)}, apperr.ErrCodeInvalidDimension},
		{"negative radius", model.Geometry{Shape: "sphere", Dimensions: dims("radius", -1)}, apperr.ErrCodeInvalidDimension},
		{"nan radius", model.Geometry{Shape: "sphere", Dimensions: map[string]model.Quantity{"radius": {Value: math.NaN()}}}, apperr.ErrCodeInvalidDimension},
		{"missing width", model.Geometry{Shape: "cuboid", Dimensions: dims("length", 1, "height", 1)}, apperr.ErrCodeInvalidDimension},
		{"missing faces", model.Geometry{Method: model.MethodTranslateAndScale, Shape: "cuboid", Dimensions: dims("length", 1)}, apperr.ErrCodeInvalidDimension},
		{"other shape", model.Geometry{Method: model.MethodTranslate, Shape: "other"}, apperr.ErrCodeUnsupported},
		{"sphere sweep", model.Geometry{Method: model.MethodTranslateAndScale, Shape: "sphere"}, apperr.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Synthesize(tt.geom)
			assert.Nil(t, s)
			assert.True(t, apperr.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestSynthesizeAll(t *testing.T) {
	elems := []*model.Element{
		{ID: "good", Geometry: &model.Geometry{Shape: "sphere", Dimensions: dims("radius", 1)}},
		{ID: "ground", Kind: model.KindGround},
		{ID: "bad", Geometry: &model.Geometry{Shape: "sphere", Dimensions: dims("radius", 0)}},
	}
	out, err := SynthesizeAll(context.Background(), elems, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "good", out[0].ID)
	assert.NotNil(t, out[0].Solid)
	assert.NoError(t, out[0].Err)
	assert.Nil(t, out[1].Solid)
	assert.NoError(t, out[1].Err)
	assert.True(t, apperr.Is(out[2].Err, apperr.ErrCodeInvalidDimension))
}

func TestSynthesizeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	elems := []*model.Element{{ID: "a", Geometry: &model.Geometry{Shape: "sphere", Dimensions: dims("radius", 1)}}}
	_, err := SynthesizeAll(ctx, elems, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func loopCentre(loop []model.Vec3) model.Vec3 {
	var c model.Vec3
	for _, p := range loop {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(loop)))
}
