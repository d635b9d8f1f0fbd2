// Package scene assembles the render-ready description of a model that
// visual collaborators consume: placed solids in the internal frame,
// classification colours and relationship markers.
//
// A scene never renders anything itself. Viewers take [Scene.Nodes] and draw
// each solid at its centre with its rotation; nodes without a solid (elements
// that could not be shaped) are drawn as plain markers at their position.
package scene

import (
	"slices"

	"github.com/matzehuels/ievis/pkg/classify"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/model"
)

// GroundRadius is the radius of the sphere drawn for ground elements.
const GroundRadius = 1.0

// Scene is a placed, classified model.
type Scene struct {
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	ModelType       model.ModelType   `json:"model_type"`
	Scale           float64           `json:"scale"`
	Scheme          classify.Scheme   `json:"scheme"`
	NoGeometricData bool              `json:"no_geometric_data,omitempty"`
	Nodes           []Node            `json:"nodes"`
	Links           []Link            `json:"links"`
	Legend          map[string]string `json:"legend"`
	Bounds          *geometry.Bounds  `json:"bounds,omitempty"`
}

// Node is one element placed in the internal frame.
type Node struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Contextual string           `json:"contextual,omitempty"`
	Material   string           `json:"material,omitempty"`
	Geometry   string           `json:"geometry,omitempty"`
	Color      string           `json:"color"`
	Centre     model.Vec3       `json:"centre"`
	Rotation   *model.Vec3      `json:"rotation,omitempty"` // Internal Euler angles in radians
	Solid      *geometry.Solid  `json:"solid,omitempty"`
	Bounds     *geometry.Bounds `json:"bounds,omitempty"`
	References int              `json:"references"`
}

// Link is one relationship.
type Link struct {
	Key          string       `json:"key"`
	Participants []string     `json:"participants"`
	Type         string       `json:"type"`
	Nature       string       `json:"nature,omitempty"`
	Coordinates  []model.Vec3 `json:"coordinates,omitempty"` // Internal frame
}

type config struct {
	scale     float64
	scheme    classify.Scheme
	positions map[string]model.Vec3
}

// Option configures [Build].
type Option func(*config)

// WithScale multiplies every length in the scene by k. Non-positive values
// are ignored.
func WithScale(k float64) Option {
	return func(c *config) {
		if k > 0 {
			c.scale = k
		}
	}
}

// WithScheme selects the colour scheme.
func WithScheme(s classify.Scheme) Option { return func(c *config) { c.scheme = s } }

// WithPositions supplies document-frame corner positions for elements that
// have none of their own, typically from a computed layout.
func WithPositions(p map[string]model.Vec3) Option { return func(c *config) { c.positions = p } }

// Build places every element of g. Solids are looked up by element id;
// elements without one become markers.
func Build(g *model.Graph, solids map[string]*geometry.Solid, opts ...Option) *Scene {
	cfg := config{scale: 1, scheme: classify.SchemeContextual}
	for _, o := range opts {
		o(&cfg)
	}

	info := g.Info()
	sc := &Scene{
		Name:            info.Name,
		Description:     info.Description,
		ModelType:       info.Type,
		Scale:           cfg.scale,
		Scheme:          cfg.scheme,
		NoGeometricData: len(solids) == 0,
		Legend:          map[string]string{},
	}

	var total *geometry.Bounds
	for _, e := range g.Elements() {
		n := node(g, e, solids[e.ID], cfg)
		if n.Bounds != nil {
			if total == nil {
				b := *n.Bounds
				total = &b
			} else {
				total.Min = minVec(total.Min, n.Bounds.Min)
				total.Max = maxVec(total.Max, n.Bounds.Max)
			}
		}
		sc.Nodes = append(sc.Nodes, n)
	}
	sc.Bounds = total

	for label, c := range classify.Legend(g.Elements(), cfg.scheme) {
		if label != "" {
			sc.Legend[label] = c.Hex()
		}
	}

	for _, r := range g.Relationships() {
		l := Link{Key: string(r.Key), Participants: slices.Clone(r.Participants), Type: string(r.Type)}
		if r.Nature != nil {
			l.Nature = r.Nature.String()
		}
		if r.Coordinate != nil {
			l.Coordinates = append(l.Coordinates, internalPoint(*r.Coordinate, cfg.scale))
		}
		for _, id := range r.Participants {
			if p, ok := r.ParticipantCoordinates[id]; ok {
				l.Coordinates = append(l.Coordinates, internalPoint(p, cfg.scale))
			}
		}
		sc.Links = append(sc.Links, l)
	}
	return sc
}

func node(g *model.Graph, e *model.Element, s *geometry.Solid, cfg config) Node {
	n := Node{
		ID:         e.ID,
		Name:       e.Name,
		Kind:       e.Kind.String(),
		Contextual: e.Contextual,
		Color:      classify.ColorFor(e, cfg.scheme).Hex(),
		References: g.ReferenceCount(e.ID),
	}
	if len(e.Material) > 0 {
		n.Material = e.Material.String()
	}
	if e.Geometry != nil {
		n.Geometry = e.Geometry.Chain().String()
	}

	corner := model.Vec3{}
	if e.Position != nil {
		corner = *e.Position
	} else if p, ok := cfg.positions[e.ID]; ok {
		corner = p
	}

	if e.IsGround() {
		s = &geometry.Solid{
			Family:     geometry.FamilySphere,
			Primitives: []geometry.Primitive{{Kind: geometry.PrimSphere, Radius: GroundRadius}},
			Dimensions: map[string]float64{geometry.DimRadius: GroundRadius},
		}
		// The ground marker is centred on the support point and not scaled.
		centre := internalPoint(corner, cfg.scale)
		n.Centre = centre
		n.Solid = s
		r := model.Vec3{X: GroundRadius, Y: GroundRadius, Z: GroundRadius}
		n.Bounds = &geometry.Bounds{Min: centre.Sub(r), Max: centre.Add(r)}
		return n
	}

	if s == nil {
		n.Centre = internalPoint(corner, cfg.scale)
		return n
	}

	scaled := scaleSolid(s, cfg.scale)
	placed := scaled.Placement(corner.Scale(cfg.scale), e.Rotation)
	n.Centre = placed.Centre
	n.Solid = scaled
	n.Bounds = &placed.World
	if e.Rotation != nil && !e.Rotation.IsZero() {
		n.Rotation = &model.Vec3{
			X: e.Rotation.Alpha.Radians(),
			Y: e.Rotation.Beta.Radians(),
			Z: -e.Rotation.Gamma.Radians(),
		}
	}
	return n
}

// internalPoint maps a document point into the scaled internal frame.
func internalPoint(p model.Vec3, k float64) model.Vec3 {
	return model.Vec3{X: p.X * k, Y: p.Y * k, Z: -p.Z * k}
}

// scaleSolid returns a copy of s with every length multiplied by k.
func scaleSolid(s *geometry.Solid, k float64) *geometry.Solid {
	if k == 1 {
		return s
	}
	c := *s
	c.Shell = s.Shell * k
	c.Primitives = make([]geometry.Primitive, len(s.Primitives))
	for i, p := range s.Primitives {
		p.Size = p.Size.Scale(k)
		p.Radius *= k
		p.Length *= k
		p.Offset = p.Offset.Scale(k)
		c.Primitives[i] = p
	}
	if s.Surface != nil {
		c.Surface = &geometry.RuledSurface{Left: scaleLoop(s.Surface.Left, k), Right: scaleLoop(s.Surface.Right, k)}
	}
	c.Dimensions = make(map[string]float64, len(s.Dimensions))
	for name, v := range s.Dimensions {
		c.Dimensions[name] = v * k
	}
	return &c
}

func scaleLoop(loop []model.Vec3, k float64) []model.Vec3 {
	out := make([]model.Vec3, len(loop))
	for i, v := range loop {
		out[i] = v.Scale(k)
	}
	return out
}

func minVec(a, b model.Vec3) model.Vec3 {
	return model.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
}

func maxVec(a, b model.Vec3) model.Vec3 {
	return model.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
}
