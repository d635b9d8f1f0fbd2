package geometry

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/ievis/pkg/model"
)

// Document positions name an element's minimum corner with z pointing away
// from the viewer. Internally positions name the centroid and z is flipped.

// ToInternal converts a document corner position to the internal centroid
// position of a solid with the given half extent.
func ToInternal(corner, half model.Vec3) model.Vec3 {
	return model.Vec3{
		X: corner.X + half.X,
		Y: corner.Y + half.Y,
		Z: -corner.Z - half.Z,
	}
}

// ToExternal is the inverse of [ToInternal].
func ToExternal(centre, half model.Vec3) model.Vec3 {
	return model.Vec3{
		X: centre.X - half.X,
		Y: centre.Y - half.Y,
		Z: -centre.Z - half.Z,
	}
}

// Placed is a solid positioned in the internal world frame.
type Placed struct {
	Centre model.Vec3 `json:"centre"` // Internal centroid after rotation
	World  Bounds     `json:"world"`  // World-space bounding box
	Pivot  model.Vec3 `json:"pivot"`  // Internal position of the anchoring corner
}

// Placement anchors s at a document corner and applies rot, if any, about
// that corner rather than the world origin. It must be recomputed after
// every rebuild of s.
func (s *Solid) Placement(corner model.Vec3, rot *model.Rotation) Placed {
	local := s.Bounds()
	centre := ToInternal(corner, local.Size().Scale(0.5))
	pivot := model.Vec3{X: corner.X, Y: corner.Y, Z: -corner.Z}

	if rot == nil || rot.IsZero() {
		return Placed{
			Centre: centre,
			World:  Bounds{Min: local.Min.Add(centre), Max: local.Max.Add(centre)},
			Pivot:  pivot,
		}
	}

	m := rotationMatrix(*rot)
	rotated := pivot.Add(apply(m, centre.Sub(pivot)))
	world := emptyBounds()
	for _, c := range local.Corners() {
		world = world.Extend(pivot.Add(apply(m, c.Add(centre).Sub(pivot))))
	}
	return Placed{Centre: rotated, World: world.snap(), Pivot: pivot}
}

// rotationMatrix returns the internal-frame rotation for a document
// rotation. Gamma changes sign because the z axis is flipped.
func rotationMatrix(r model.Rotation) sdf.M44 {
	return eulerMatrix(r.Alpha.Radians(), r.Beta.Radians(), -r.Gamma.Radians())
}

// eulerMatrix rotates about x, then y, then z in the object's own frame.
func eulerMatrix(x, y, z float64) sdf.M44 {
	return sdf.RotateX(x).Mul(sdf.RotateY(y)).Mul(sdf.RotateZ(z))
}

func apply(m sdf.M44, p model.Vec3) model.Vec3 {
	v := m.MulPosition(vec(p))
	return model.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func vec(p model.Vec3) v3.Vec { return v3.Vec{X: p.X, Y: p.Y, Z: p.Z} }
