package geometry

import (
	"math"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/model"
)

// Declared dimension names, as written back to documents.
const (
	DimLength    = "length"
	DimHeight    = "height"
	DimWidth     = "width"
	DimRadius    = "radius"
	DimThickness = "thickness"
	DimH         = "h"
	DimS         = "s"
	DimT         = "t"
	DimB         = "b"
)

// circleSegments is the loop resolution of oblique cylinder end faces.
const circleSegments = 24

// Synthesize turns a geometry descriptor into a centroid-anchored solid.
//
// Synthesis is total: callers rebuild the whole solid after any dimension
// change and re-apply placement. Missing, non-positive or non-finite
// required dimensions fail with INVALID_DIMENSION; shapes without a
// construction, including "other", fail with UNSUPPORTED.
func Synthesize(g model.Geometry) (*Solid, error) {
	var (
		s   *Solid
		err error
	)
	switch g.Method {
	case model.MethodRegular, model.MethodTranslate:
		switch g.Shape {
		case "cuboid", "rectangular":
			s, err = box(g)
		case "sphere":
			s, err = sphere(g)
		case "cylinder", "circular":
			s, err = cylinder(g)
		case "i-beam":
			s, err = beam(g, FamilyIBeam)
		case "c-beam":
			s, err = beam(g, FamilyCBeam)
		default:
			return nil, unsupported(g)
		}
	case model.MethodTranslateAndScale:
		switch g.Shape {
		case "cuboid":
			s, err = trapezoid(g)
		case "cylinder":
			s, err = obliqueCylinder(g)
		default:
			return nil, unsupported(g)
		}
	default:
		return nil, unsupported(g)
	}
	if err != nil {
		return nil, err
	}
	if err := shell(g, s); err != nil {
		return nil, err
	}
	return s, nil
}

func unsupported(g model.Geometry) error {
	return apperr.New(apperr.ErrCodeUnsupported, "no construction for %s shape %q", g.Method, g.Shape)
}

// dimension returns the first present name's value, which must be positive
// and finite.
func dimension(g model.Geometry, names ...string) (float64, error) {
	for _, name := range names {
		if v, ok := g.Dimension(name); ok {
			return positive(name, v)
		}
	}
	return 0, apperr.New(apperr.ErrCodeInvalidDimension, "missing dimension %q", names[0])
}

func positive(name string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, apperr.New(apperr.ErrCodeInvalidDimension, "dimension %q must be positive, got %v", name, v)
	}
	return v, nil
}

func box(g model.Geometry) (*Solid, error) {
	l, err := dimension(g, DimLength)
	if err != nil {
		return nil, err
	}
	h, err := dimension(g, DimHeight)
	if err != nil {
		return nil, err
	}
	w, err := dimension(g, DimWidth)
	if err != nil {
		return nil, err
	}
	return &Solid{
		Family:     FamilyBox,
		Primitives: []Primitive{{Kind: PrimBox, Size: model.Vec3{X: l, Y: h, Z: w}}},
		Dimensions: map[string]float64{DimLength: l, DimHeight: h, DimWidth: w},
	}, nil
}

func sphere(g model.Geometry) (*Solid, error) {
	r, err := dimension(g, DimRadius)
	if err != nil {
		return nil, err
	}
	return &Solid{
		Family:     FamilySphere,
		Primitives: []Primitive{{Kind: PrimSphere, Radius: r}},
		Dimensions: map[string]float64{DimRadius: r},
	}, nil
}

// cylinder is built along y and turned a quarter about z so its length
// runs along x. Thickness stands in for a missing length.
func cylinder(g model.Geometry) (*Solid, error) {
	r, err := dimension(g, DimRadius)
	if err != nil {
		return nil, err
	}
	l, err := dimension(g, DimLength, DimThickness)
	if err != nil {
		return nil, err
	}
	return &Solid{
		Family: FamilyCylinder,
		Primitives: []Primitive{{
			Kind:   PrimCylinder,
			Radius: r,
			Length: l,
			Rotate: model.Vec3{Z: math.Pi / 2},
		}},
		Dimensions: map[string]float64{DimRadius: r, DimLength: l},
	}, nil
}

// beam builds an I or C section from two flanges and a web. Flanges span
// the full width b. The C web is pushed -b+s/2 off the flange midline.
// Width stands in for a missing length.
func beam(g model.Geometry, family Family) (*Solid, error) {
	dims := map[string]float64{}
	for _, names := range [][]string{{DimLength, DimWidth}, {DimH}, {DimS}, {DimT}, {DimB}} {
		v, err := dimension(g, names...)
		if err != nil {
			return nil, err
		}
		dims[names[0]] = v
	}
	l, h, s, t, b := dims[DimLength], dims[DimH], dims[DimS], dims[DimT], dims[DimB]
	if 2*t >= h {
		return nil, apperr.New(apperr.ErrCodeInvalidDimension, "flange thickness t=%v leaves no web in height h=%v", t, h)
	}
	if s > b {
		return nil, apperr.New(apperr.ErrCodeInvalidDimension, "web thickness s=%v exceeds flange width b=%v", s, b)
	}

	var webZ float64
	if family == FamilyCBeam {
		webZ = -b + s/2
	}
	prims := []Primitive{
		{Kind: PrimBox, Size: model.Vec3{X: l, Y: t, Z: b}, Offset: model.Vec3{Y: t/2 - h/2}},
		{Kind: PrimBox, Size: model.Vec3{X: l, Y: h - 2*t, Z: s}, Offset: model.Vec3{Z: webZ}},
		{Kind: PrimBox, Size: model.Vec3{X: l, Y: t, Z: b}, Offset: model.Vec3{Y: h/2 - t/2}},
	}
	return centred(&Solid{Family: family, Primitives: prims, Dimensions: dims}), nil
}

// faceDimension reads a face dimension under its first present name.
func faceDimension(f model.Face, side string, names ...string) (float64, error) {
	for _, name := range names {
		if v, ok := f.Dimension(name); ok {
			return positive(side+"."+name, v)
		}
	}
	return 0, apperr.New(apperr.ErrCodeInvalidDimension, "missing %s face dimension %q", side, names[0])
}

func requireFaces(g model.Geometry) (*model.Faces, error) {
	if g.Faces == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidDimension, "%s %s needs left and right faces", g.Method, g.Shape)
	}
	return g.Faces, nil
}

// trapezoid joins two independently sized and offset rectangular faces.
// The left face sits at -length/2, the right at +length/2.
func trapezoid(g model.Geometry) (*Solid, error) {
	l, err := dimension(g, DimLength)
	if err != nil {
		return nil, err
	}
	faces, err := requireFaces(g)
	if err != nil {
		return nil, err
	}
	loop := func(f model.Face, side string, x float64) ([]model.Vec3, error) {
		h, err := faceDimension(f, side, DimHeight, "y")
		if err != nil {
			return nil, err
		}
		w, err := faceDimension(f, side, DimWidth, "z")
		if err != nil {
			return nil, err
		}
		y0, z0 := f.Y, -f.Z
		return []model.Vec3{
			{X: x, Y: y0, Z: z0},
			{X: x, Y: y0 + h, Z: z0},
			{X: x, Y: y0 + h, Z: z0 - w},
			{X: x, Y: y0, Z: z0 - w},
		}, nil
	}
	left, err := loop(faces.Left, "left", -l/2)
	if err != nil {
		return nil, err
	}
	right, err := loop(faces.Right, "right", l/2)
	if err != nil {
		return nil, err
	}
	return centred(&Solid{
		Family:     FamilyTrapezoid,
		Surface:    &RuledSurface{Left: left, Right: right},
		Dimensions: map[string]float64{DimLength: l},
	}), nil
}

// obliqueCylinder joins two circular faces whose centres are skewed by the
// difference of the face offsets. The z skew changes sign between the
// document and the internal frame. A face without its own radius uses the
// element radius, which is then declared alongside the length.
func obliqueCylinder(g model.Geometry) (*Solid, error) {
	l, err := dimension(g, DimLength)
	if err != nil {
		return nil, err
	}
	faces, err := requireFaces(g)
	if err != nil {
		return nil, err
	}
	dims := map[string]float64{DimLength: l}
	radius := func(f model.Face, side string) (float64, error) {
		if _, ok := f.Dimension(DimRadius); ok {
			return faceDimension(f, side, DimRadius)
		}
		r, err := dimension(g, DimRadius)
		dims[DimRadius] = r
		return r, err
	}
	rl, err := radius(faces.Left, "left")
	if err != nil {
		return nil, err
	}
	rr, err := radius(faces.Right, "right")
	if err != nil {
		return nil, err
	}

	skewY := faces.Right.Y - faces.Left.Y
	skewZ := -(faces.Right.Z - faces.Left.Z)
	left := circle(model.Vec3{X: -l / 2}, rl)
	right := circle(model.Vec3{X: l / 2, Y: skewY, Z: skewZ}, rr)
	return centred(&Solid{
		Family:     FamilyObliqueCylinder,
		Surface:    &RuledSurface{Left: left, Right: right},
		Dimensions: dims,
	}), nil
}

// circle returns a loop in the plane x = c.X.
func circle(c model.Vec3, r float64) []model.Vec3 {
	out := make([]model.Vec3, circleSegments)
	for i := range out {
		a := 2 * math.Pi * float64(i) / circleSegments
		out[i] = model.Vec3{X: c.X, Y: c.Y + r*math.Cos(a), Z: c.Z + r*math.Sin(a)}
	}
	return out
}

// centred shifts s so its local bounding box is centred on the origin.
func centred(s *Solid) *Solid {
	c := s.Bounds().Centre()
	if c == (model.Vec3{}) {
		return s
	}
	for i := range s.Primitives {
		s.Primitives[i].Offset = s.Primitives[i].Offset.Sub(c)
	}
	if s.Surface != nil {
		for i := range s.Surface.Left {
			s.Surface.Left[i] = s.Surface.Left[i].Sub(c)
		}
		for i := range s.Surface.Right {
			s.Surface.Right[i] = s.Surface.Right[i].Sub(c)
		}
	}
	return s
}

// shell records the wall thickness of shell classes. A thickness already
// consumed as a cylinder length is not a wall.
func shell(g model.Geometry, s *Solid) error {
	if g.Class != "shell" {
		return nil
	}
	v, ok := g.Dimension(DimThickness)
	if !ok {
		return nil
	}
	if _, hasLength := g.Dimension(DimLength); s.Family == FamilyCylinder && !hasLength {
		return nil
	}
	t, err := positive(DimThickness, v)
	if err != nil {
		return err
	}
	s.Shell = t
	s.Dimensions[DimThickness] = t
	return nil
}
