package geometry

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/model"
)

// DefaultMeshCells is the marching cubes resolution along the longest axis.
const DefaultMeshCells = 64

// Mesh is an indexed triangle mesh in the solid's local frame, laid out for
// direct upload to a GPU buffer.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // xyz per vertex
	Normals  []float32 `json:"normals"`  // xyz per vertex
	Indices  []uint32  `json:"indices"`
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// MeshOptions configures [Tessellate].
type MeshOptions struct {
	Cells int // Marching cubes cells, DefaultMeshCells when zero
}

// Tessellate converts s into a triangle mesh. Primitive solids go through
// the SDF kernel with shells carved out of an inset copy; ruled surfaces
// are triangulated directly.
func Tessellate(s *Solid, opts MeshOptions) (*Mesh, error) {
	if s.Surface != nil {
		return ruledMesh(s.Surface), nil
	}
	if len(s.Primitives) == 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "solid %s has no primitives", s.Family)
	}
	cells := opts.Cells
	if cells <= 0 {
		cells = DefaultMeshCells
	}

	outer, err := unionSDF(s.Primitives, 0)
	if err != nil {
		return nil, err
	}
	shape := outer
	if s.Shell > 0 {
		inner, err := unionSDF(s.Primitives, s.Shell)
		if err == nil {
			shape = sdf.Difference3D(outer, inner)
		}
	}

	triangles := render.ToTriangles(shape, render.NewMarchingCubesUniform(cells))
	m := &Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m, nil
}

// unionSDF builds the union of the primitives, each shrunk by inset.
func unionSDF(prims []Primitive, inset float64) (sdf.SDF3, error) {
	parts := make([]sdf.SDF3, 0, len(prims))
	for _, p := range prims {
		s, err := primitiveSDF(p, inset)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return sdf.Union3D(parts...), nil
}

func primitiveSDF(p Primitive, inset float64) (sdf.SDF3, error) {
	var (
		s   sdf.SDF3
		err error
	)
	switch p.Kind {
	case PrimBox:
		s, err = sdf.Box3D(vec(p.Size.Sub(model.Vec3{X: 2 * inset, Y: 2 * inset, Z: 2 * inset})), 0)
	case PrimSphere:
		s, err = sdf.Sphere3D(p.Radius - inset)
	case PrimCylinder:
		// sdfx cylinders run along z; turn onto the local y axis first.
		s, err = sdf.Cylinder3D(p.Length-2*inset, p.Radius-inset, 0)
		if err == nil {
			s = sdf.Transform3D(s, sdf.RotateX(math.Pi/2))
		}
	default:
		return nil, apperr.New(apperr.ErrCodeUnsupported, "unknown primitive %q", p.Kind)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDimension, err, "%s primitive", p.Kind)
	}
	m := sdf.Translate3d(vec(p.Offset)).Mul(eulerMatrix(p.Rotate.X, p.Rotate.Y, p.Rotate.Z))
	return sdf.Transform3D(s, m), nil
}

// ruledMesh triangulates the side quads and both fan-closed caps of a ruled
// surface with flat per-face normals.
func ruledMesh(r *RuledSurface) *Mesh {
	m := &Mesh{}
	tri := func(a, b, c model.Vec3) {
		n := cross(b.Sub(a), c.Sub(a))
		if l := n.Len(); l > 0 {
			n = n.Scale(1 / l)
		}
		base := uint32(len(m.Vertices) / 3)
		for _, p := range []model.Vec3{a, b, c} {
			m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	n := min(len(r.Left), len(r.Right))
	for i := range n {
		j := (i + 1) % n
		tri(r.Left[i], r.Right[i], r.Right[j])
		tri(r.Left[i], r.Right[j], r.Left[j])
	}
	for i := 1; i+1 < n; i++ {
		tri(r.Left[0], r.Left[i+1], r.Left[i])
		tri(r.Right[0], r.Right[i], r.Right[i+1])
	}
	return m
}

func cross(a, b model.Vec3) model.Vec3 {
	return model.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
