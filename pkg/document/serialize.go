package document

import (
	"strings"
	"time"

	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/model"
)

// defaultUnit is written for values that carry no unit of their own.
const defaultUnit = "other"

// Option configures [ToDocument].
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for the document timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// ToDocument serializes g. Solids maps element ids to their synthesized
// solids and is used to place join coordinates; missing entries are
// synthesized on demand and elements that cannot be synthesized get no
// join coordinate.
//
// Perfect and boundary relationships get a shared coordinate at the centre
// of the intersection of the participants' world bounds, or the midpoint of
// their centres when the bounds are disjoint. A boundary to a ground element
// uses the ground's position. Connection and joint relationships get each
// participant's corner position instead. Join coordinates are written in the
// document frame.
func ToDocument(g *model.Graph, solids map[string]*geometry.Solid, opts ...Option) *Document {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	info := g.Info()
	ie := &IrreducibleElement{
		Type:          string(info.Type),
		Elements:      make([]Element, 0, g.ElementCount()),
		Relationships: make([]Relationship, 0, g.RelationshipCount()),
	}
	placer := &placer{g: g, solids: solids, built: map[string]*geometry.Solid{}, placed: map[string]*geometry.Placed{}}
	for _, e := range g.Elements() {
		ie.Elements = append(ie.Elements, encodeElement(e, placer.solid(e.ID)))
	}

	for _, r := range g.Relationships() {
		ie.Relationships = append(ie.Relationships, placer.encodeRelationship(r))
	}

	return &Document{
		Version:     Version,
		Name:        info.Name,
		Description: info.Description,
		Population:  info.Population,
		Timestamp:   o.now().UnixNano(),
		Models:      Models{IrreducibleElement: ie},
	}
}

// encodeElement writes e. When s is non-nil the dimensions are written
// under the names the synthesizer declared for it.
func encodeElement(e *model.Element, s *geometry.Solid) Element {
	out := Element{Name: e.Name, Type: e.Kind.String()}
	if e.IsGround() {
		return out
	}
	if e.Contextual != "" {
		out.Contextual = &Contextual{Type: e.Contextual}
	}
	if len(e.Material) > 0 {
		out.Material = &Material{Type: typeNode(e.Material)}
	}
	if e.Geometry != nil {
		out.Geometry = encodeGeometry(*e.Geometry, s)
	}
	if e.Position != nil || e.Rotation != nil {
		global := &Global{}
		if e.Position != nil {
			global.Translational = translational(*e.Position)
		}
		if e.Rotation != nil {
			global.Rotational = encodeRotation(*e.Rotation)
		}
		out.Coordinates = &Coordinates{Global: global}
	}
	return out
}

func encodeGeometry(geom model.Geometry, s *geometry.Solid) *Geometry {
	dims := geom.Dimensions
	if s != nil {
		dims = declaredDimensions(geom, s)
	}
	out := &Geometry{
		Type:       typeNode(geom.Chain()),
		Dimensions: encodeDimensions(geom.Shape, dims),
	}
	if geom.Method == model.MethodTranslateAndScale && geom.Faces != nil {
		out.Faces = &Faces{
			Left:  encodeFace(geom.Shape, geom.Faces.Left),
			Right: encodeFace(geom.Shape, geom.Faces.Right),
		}
	}
	return out
}

func encodeDimensions(shape string, dims map[string]model.Quantity) map[string]Dimension {
	if len(dims) == 0 {
		return nil
	}
	out := make(map[string]Dimension, len(dims))
	for name, q := range dims {
		out[name] = Dimension{
			Axis:   axisOf(shape, name),
			Source: "nominal",
			Unit:   unitOr(q.Unit),
			Value:  num(q.Value),
		}
	}
	return out
}

// declaredDimensions re-keys the synthesized values, taking each unit from
// the authored dimension that supplied it. Length may have been read from
// thickness (cylinders) or width (beams).
func declaredDimensions(geom model.Geometry, s *geometry.Solid) map[string]model.Quantity {
	out := make(map[string]model.Quantity, len(s.Dimensions))
	for name, v := range s.Dimensions {
		q := model.Quantity{Value: v}
		sources := []string{name}
		if name == geometry.DimLength {
			sources = append(sources, geometry.DimThickness, geometry.DimWidth)
		}
		for _, src := range sources {
			if authored, ok := geom.Dimensions[src]; ok {
				q.Unit = authored.Unit
				break
			}
		}
		out[name] = q
	}
	return out
}

func encodeFace(shape string, f model.Face) *Face {
	return &Face{
		Translational: &FaceOffset{
			Y: &Value{Unit: defaultUnit, Value: num(f.Y)},
			Z: &Value{Unit: defaultUnit, Value: num(f.Z)},
		},
		Dimensions: encodeDimensions(shape, f.Dimensions),
	}
}

// axisOf returns the axis label a dimension is measured along.
func axisOf(shape, name string) string {
	switch name {
	case geometry.DimLength:
		return "x"
	case geometry.DimHeight, geometry.DimThickness, geometry.DimH, geometry.DimT:
		return "y"
	case geometry.DimWidth, geometry.DimS, geometry.DimB:
		return "z"
	case geometry.DimRadius:
		if shape == "sphere" {
			return "x"
		}
		return "y"
	}
	return ""
}

func unitOr(u string) string {
	if u == "" {
		return defaultUnit
	}
	return u
}

func encodeRotation(r model.Rotation) *Rotational {
	angle := func(a model.Angle) *Value {
		unit := a.Unit
		if unit == "" {
			unit = model.Degrees
		}
		return &Value{Unit: string(unit), Value: num(a.Value)}
	}
	return &Rotational{Alpha: angle(r.Alpha), Beta: angle(r.Beta), Gamma: angle(r.Gamma)}
}

func translational(p model.Vec3) *Translational {
	return &Translational{
		X: &Value{Unit: defaultUnit, Value: num(p.X)},
		Y: &Value{Unit: defaultUnit, Value: num(p.Y)},
		Z: &Value{Unit: defaultUnit, Value: num(p.Z)},
	}
}

func coordinates(p model.Vec3) *Coordinates {
	return &Coordinates{Global: &Global{Translational: translational(p)}}
}

func encodeNature(n *model.Nature) *NatureNode {
	if n == nil {
		return nil
	}
	out := &NatureNode{Name: n.Name}
	if n.Nature != "" {
		out.Nature = &Named{Name: n.Nature}
	}
	return out
}

// placer computes join coordinates, caching world placements per element.
type placer struct {
	g      *model.Graph
	solids map[string]*geometry.Solid
	built  map[string]*geometry.Solid // synthesized here, nil on failure
	placed map[string]*geometry.Placed
}

func (p *placer) encodeRelationship(r *model.Relationship) Relationship {
	names := make([]string, len(r.Participants))
	for i, id := range r.Participants {
		e, _ := p.g.Element(id)
		names[i] = e.Name
	}
	out := Relationship{
		Name:     strings.Join(names, "-"),
		Type:     string(r.Type),
		Elements: make([]RelElement, len(r.Participants)),
	}
	for i := range r.Participants {
		out.Elements[i].Name = names[i]
	}

	switch r.Type {
	case model.RelJoint:
		out.Nature = encodeNature(r.Nature)
	case model.RelConnection:
		for i := range out.Elements {
			out.Elements[i].Nature = encodeNature(r.Nature)
		}
	}

	switch {
	case r.Type.Rigid():
		if c, ok := p.sharedCoordinate(r); ok {
			out.Coordinates = coordinates(c)
		}
	case r.Type.AllowsNature():
		for i, id := range r.Participants {
			if e, _ := p.g.Element(id); e.Position != nil {
				out.Elements[i].Coordinates = coordinates(*e.Position)
			}
		}
	}
	return out
}

// sharedCoordinate returns the join point of a rigid relationship in the
// document frame.
func (p *placer) sharedCoordinate(r *model.Relationship) (model.Vec3, bool) {
	for _, id := range r.Participants {
		if e, _ := p.g.Element(id); e.IsGround() {
			if e.Position != nil {
				return *e.Position, true
			}
			return model.Vec3{}, false
		}
	}

	var (
		boxes   []geometry.Bounds
		centres model.Vec3
	)
	for _, id := range r.Participants {
		pl, ok := p.place(id)
		if !ok {
			return model.Vec3{}, false
		}
		boxes = append(boxes, pl.World)
		centres = centres.Add(pl.World.Centre())
	}

	common, overlap := boxes[0], true
	for _, b := range boxes[1:] {
		if common, overlap = common.Intersect(b); !overlap {
			break
		}
	}
	c := centres.Scale(1 / float64(len(boxes)))
	if overlap {
		c = common.Centre()
	}
	return model.Vec3{X: c.X, Y: c.Y, Z: -c.Z}, true
}

// solid returns the solid for id, synthesizing it when the caller did not
// supply one. Unshaped and unsynthesizable elements have none.
func (p *placer) solid(id string) *geometry.Solid {
	if s := p.solids[id]; s != nil {
		return s
	}
	if s, ok := p.built[id]; ok {
		return s
	}
	var s *geometry.Solid
	if e, _ := p.g.Element(id); e.Shaped() {
		s, _ = geometry.Synthesize(*e.Geometry)
	}
	p.built[id] = s
	return s
}

func (p *placer) place(id string) (*geometry.Placed, bool) {
	if pl, ok := p.placed[id]; ok {
		return pl, pl != nil
	}
	p.placed[id] = nil
	e, _ := p.g.Element(id)
	if !e.Shaped() || e.Position == nil {
		return nil, false
	}
	s := p.solid(id)
	if s == nil {
		return nil, false
	}
	pl := s.Placement(*e.Position, e.Rotation)
	p.placed[id] = &pl
	return &pl, true
}

// Names returns the element names in a document, in order.
func (d *Document) Names() []string {
	if d.Models.IrreducibleElement == nil {
		return nil
	}
	names := make([]string, 0, len(d.Models.IrreducibleElement.Elements))
	for _, e := range d.Models.IrreducibleElement.Elements {
		names = append(names, e.Name)
	}
	return names
}
