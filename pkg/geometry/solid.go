package geometry

import (
	"math"

	"github.com/matzehuels/ievis/pkg/model"
)

// Family is the solid family a geometry descriptor synthesizes to.
type Family string

const (
	FamilyBox             Family = "box"
	FamilySphere          Family = "sphere"
	FamilyCylinder        Family = "cylinder"
	FamilyObliqueCylinder Family = "obliqueCylinder"
	FamilyTrapezoid       Family = "trapezoid"
	FamilyIBeam           Family = "i-beam"
	FamilyCBeam           Family = "c-beam"
)

// PrimitiveKind is the kind of a primitive volume.
type PrimitiveKind string

const (
	PrimBox      PrimitiveKind = "box"
	PrimSphere   PrimitiveKind = "sphere"
	PrimCylinder PrimitiveKind = "cylinder"
)

// Primitive is one volume of a solid in the solid's local frame.
//
// Cylinders are built along the local y axis with the given Length and then
// rotated by Rotate. Rotate holds Euler angles in radians, applied x, then
// y, then z.
type Primitive struct {
	Kind   PrimitiveKind `json:"kind"`
	Size   model.Vec3    `json:"size,omitzero"` // Full extents (box)
	Radius float64       `json:"radius,omitempty"`
	Length float64       `json:"length,omitempty"`
	Offset model.Vec3    `json:"offset"`
	Rotate model.Vec3    `json:"rotate,omitzero"`
}

// RuledSurface joins two end loops with straight rulings. Left[i] is joined
// to Right[i]; both loops have the same vertex count and are closed by caps.
type RuledSurface struct {
	Left  []model.Vec3 `json:"left"`
	Right []model.Vec3 `json:"right"`
}

// Solid is the centroid-anchored solid description of one element: either
// a list of primitives or one ruled surface. The local bounding box is
// centred on the origin.
type Solid struct {
	Family     Family             `json:"family"`
	Primitives []Primitive        `json:"primitives,omitempty"`
	Surface    *RuledSurface      `json:"surface,omitempty"`
	Shell      float64            `json:"shell,omitempty"` // Wall thickness, 0 for solids
	Dimensions map[string]float64 `json:"dimensions"`      // Values under their declared names
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min model.Vec3 `json:"min"`
	Max model.Vec3 `json:"max"`
}

// emptyBounds is the identity for Extend.
func emptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: model.Vec3{X: inf, Y: inf, Z: inf},
		Max: model.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Extend grows b to contain p.
func (b Bounds) Extend(p model.Vec3) Bounds {
	b.Min = model.Vec3{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = model.Vec3{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	return b
}

// Size returns the extent along each axis.
func (b Bounds) Size() model.Vec3 { return b.Max.Sub(b.Min) }

// Centre returns the midpoint of the box.
func (b Bounds) Centre() model.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Corners returns the eight corners of the box.
func (b Bounds) Corners() [8]model.Vec3 {
	var out [8]model.Vec3
	for i := range out {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		out[i] = p
	}
	return out
}

// Intersect returns the overlap of b and o and whether it is non-empty.
// Touching boxes intersect in a degenerate box.
func (b Bounds) Intersect(o Bounds) (Bounds, bool) {
	r := Bounds{
		Min: model.Vec3{X: math.Max(b.Min.X, o.Min.X), Y: math.Max(b.Min.Y, o.Min.Y), Z: math.Max(b.Min.Z, o.Min.Z)},
		Max: model.Vec3{X: math.Min(b.Max.X, o.Max.X), Y: math.Min(b.Max.Y, o.Max.Y), Z: math.Min(b.Max.Z, o.Max.Z)},
	}
	ok := r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y && r.Min.Z <= r.Max.Z
	return r, ok
}

// Bounds returns the local bounding box of the solid.
func (s *Solid) Bounds() Bounds {
	b := emptyBounds()
	for _, p := range s.Primitives {
		for _, c := range p.bounds().Corners() {
			b = b.Extend(c)
		}
	}
	if s.Surface != nil {
		for _, p := range s.Surface.Left {
			b = b.Extend(p)
		}
		for _, p := range s.Surface.Right {
			b = b.Extend(p)
		}
	}
	return b
}

// HalfExtent returns half of the local bounding box size, the offset between
// the minimum corner and the centroid.
func (s *Solid) HalfExtent() model.Vec3 { return s.Bounds().Size().Scale(0.5) }

// bounds returns the primitive's bounding box in the solid's local frame.
func (p Primitive) bounds() Bounds {
	var local Bounds
	switch p.Kind {
	case PrimBox:
		h := p.Size.Scale(0.5)
		local = Bounds{Min: h.Scale(-1), Max: h}
	case PrimSphere:
		r := model.Vec3{X: p.Radius, Y: p.Radius, Z: p.Radius}
		return Bounds{Min: p.Offset.Sub(r), Max: p.Offset.Add(r)}
	case PrimCylinder:
		h := model.Vec3{X: p.Radius, Y: p.Length / 2, Z: p.Radius}
		local = Bounds{Min: h.Scale(-1), Max: h}
	}
	if p.Rotate == (model.Vec3{}) {
		return Bounds{Min: local.Min.Add(p.Offset), Max: local.Max.Add(p.Offset)}
	}
	m := eulerMatrix(p.Rotate.X, p.Rotate.Y, p.Rotate.Z)
	b := emptyBounds()
	for _, c := range local.Corners() {
		b = b.Extend(apply(m, c).Add(p.Offset))
	}
	return b.snap()
}

// snap rounds away floating point noise left by quarter-turn rotations.
func (b Bounds) snap() Bounds {
	round := func(v float64) float64 { return math.Round(v*1e9) / 1e9 }
	s := func(v model.Vec3) model.Vec3 { return model.Vec3{X: round(v.X), Y: round(v.Y), Z: round(v.Z)} }
	return Bounds{Min: s(b.Min), Max: s(b.Max)}
}
