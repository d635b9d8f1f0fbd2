package document

import (
	"fmt"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/model"
)

// DropKind says what a [Drop] refers to.
type DropKind string

const (
	DropElement      DropKind = "element"
	DropRelationship DropKind = "relationship"
)

// Drop records something left out of the shaped set or the relationship
// table, and why.
type Drop struct {
	Kind   DropKind `json:"kind"`
	Name   string   `json:"name"`
	Reason string   `json:"reason"`
}

func (d Drop) String() string {
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Name, d.Reason)
}

// Result is the outcome of [Parse].
type Result struct {
	Graph *model.Graph

	// Shaped lists, in document order, the regular elements that carry
	// geometry, dimensions and a position.
	Shaped []string

	// Dropped lists elements excluded from Shaped and relationships left
	// out of the graph.
	Dropped []Drop

	// NoGeometricData is set when Shaped is empty. The graph still holds
	// every element and relationship, so callers can fall back to a
	// topology-only view.
	NoGeometricData bool
}

// Parse builds a model graph from a decoded document.
//
// Elements are added in document order with their id equal to their name.
// A regular element missing geometry, dimensions or coordinates stays in the
// graph but is not shaped. Relationships that would break grounding
// exclusivity, carry an unknown type or name an unknown element are
// dropped and recorded. Elements without a usable name, or repeating an
// earlier name, are dropped as well; the first element with a name wins.
// Ground elements get their position from the first relationship that
// touches them.
//
// Only a missing model section fails, with INVALID_DOCUMENT.
func Parse(doc *Document) (*Result, error) {
	if doc == nil || doc.Models.IrreducibleElement == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidDocument, "missing models.irreducibleElement")
	}
	ie := doc.Models.IrreducibleElement

	g := model.New(model.Info{
		Name:        doc.Name,
		Description: doc.Description,
		Population:  doc.Population,
		Type:        model.ModelType(ie.Type),
	})
	res := &Result{Graph: g}
	drop := func(kind DropKind, name, format string, args ...any) {
		res.Dropped = append(res.Dropped, Drop{Kind: kind, Name: name, Reason: fmt.Sprintf(format, args...)})
	}

	for i, el := range ie.Elements {
		if el.Name == "" {
			drop(DropElement, fmt.Sprintf("#%d", i), "no name")
			continue
		}
		if _, dup := g.Element(el.Name); dup {
			drop(DropElement, el.Name, "duplicate name")
			continue
		}
		e, reason := decodeElement(el)
		if err := g.AddElement(e); err != nil {
			drop(DropElement, el.Name, "%s", apperr.UserMessage(err))
			continue
		}
		switch {
		case e.IsGround():
		case reason != "":
			drop(DropElement, el.Name, "%s", reason)
		default:
			res.Shaped = append(res.Shaped, el.Name)
		}
	}

	var accepted []*model.Relationship
	for i, rel := range ie.Relationships {
		r, d := addRelationship(g, i, rel)
		if d != nil {
			res.Dropped = append(res.Dropped, *d)
			continue
		}
		accepted = append(accepted, r)
	}

	resolveGround(g, accepted)
	res.NoGeometricData = len(res.Shaped) == 0
	return res, nil
}

// decodeElement converts a wire element. For a regular element it returns
// a non-empty reason when the element cannot be shaped.
func decodeElement(el Element) (model.Element, string) {
	e := model.Element{ID: el.Name, Name: el.Name, Kind: model.ParseKind(el.Type)}
	if e.IsGround() {
		return e, ""
	}
	if el.Contextual != nil {
		e.Contextual = el.Contextual.Type
	}
	if el.Material != nil && el.Material.Type != nil {
		e.Material = model.Taxonomy(el.Material.Type.chain())
	}
	e.Rotation = decodeRotation(el.Coordinates.rotational())
	if x, y, z, ok := el.Coordinates.translational().vec(); ok {
		e.Position = &model.Vec3{X: x, Y: y, Z: z}
	}

	if el.Geometry == nil || el.Geometry.Type == nil {
		return e, "missing geometry"
	}
	geom, ok := model.GeometryFromChain(el.Geometry.Type.chain())
	if !ok {
		return e, "incomplete geometry type"
	}
	geom.Dimensions = decodeDimensions(el.Geometry.Dimensions)
	if el.Geometry.Faces != nil {
		geom.Faces = &model.Faces{
			Left:  decodeFace(el.Geometry.Faces.Left),
			Right: decodeFace(el.Geometry.Faces.Right),
		}
	}
	e.Geometry = &geom

	switch {
	case len(geom.Dimensions) == 0:
		return e, "missing dimensions"
	case e.Position == nil:
		return e, "missing coordinates"
	}
	return e, ""
}

func decodeDimensions(dims map[string]Dimension) map[string]model.Quantity {
	if len(dims) == 0 {
		return nil
	}
	out := make(map[string]model.Quantity, len(dims))
	for name, d := range dims {
		if d.Value == nil {
			continue
		}
		out[name] = model.Quantity{Value: *d.Value, Unit: d.Unit}
	}
	return out
}

func decodeFace(f *Face) model.Face {
	if f == nil {
		return model.Face{}
	}
	out := model.Face{Dimensions: decodeDimensions(f.Dimensions)}
	if f.Translational != nil {
		out.Y = f.Translational.Y.float()
		out.Z = f.Translational.Z.float()
	}
	return out
}

func decodeRotation(r *Rotational) *model.Rotation {
	if r == nil {
		return nil
	}
	angle := func(v *Value) model.Angle {
		if v == nil {
			return model.Angle{}
		}
		a := model.Angle{Value: v.float()}
		if v.Unit == string(model.Radians) {
			a.Unit = model.Radians
		}
		return a
	}
	return &model.Rotation{Alpha: angle(r.Alpha), Beta: angle(r.Beta), Gamma: angle(r.Gamma)}
}

func decodeNature(n *NatureNode) *model.Nature {
	if n == nil || n.Name == "" {
		return nil
	}
	out := model.Nature{Name: n.Name}
	if n.Nature != nil {
		out.Nature = n.Nature.Name
	}
	return &out
}

// addRelationship adds one wire relationship, or returns the reason it
// was left out.
func addRelationship(g *model.Graph, i int, rel Relationship) (*model.Relationship, *Drop) {
	name := rel.Name
	if name == "" {
		name = fmt.Sprintf("#%d", i)
	}
	dropped := func(format string, args ...any) (*model.Relationship, *Drop) {
		return nil, &Drop{Kind: DropRelationship, Name: name, Reason: fmt.Sprintf(format, args...)}
	}
	if len(rel.Elements) < 2 {
		return dropped("names %d elements, need at least 2", len(rel.Elements))
	}

	var (
		ids  []string
		opts []model.RelationshipOption
	)
	nature := decodeNature(rel.Nature)
	for _, p := range rel.Elements {
		if _, ok := g.Element(p.Name); !ok {
			return dropped("unknown element %q", p.Name)
		}
		ids = append(ids, p.Name)
		if x, y, z, ok := p.Coordinates.translational().vec(); ok {
			opts = append(opts, model.WithParticipantCoordinate(p.Name, model.Vec3{X: x, Y: y, Z: z}))
		}
		if nature == nil {
			nature = decodeNature(p.Nature)
		}
	}
	if x, y, z, ok := rel.Coordinates.translational().vec(); ok {
		opts = append(opts, model.WithCoordinate(model.Vec3{X: x, Y: y, Z: z}))
	}
	if nature != nil {
		opts = append(opts, model.WithNature(*nature))
	}

	r, err := g.SetRelationship(ids, model.RelationType(rel.Type), opts...)
	if err != nil {
		return dropped("%s", apperr.UserMessage(err))
	}
	return r, nil
}

// resolveGround positions every ground element from the first accepted
// relationship touching it: the relationship's own coordinate, then any
// participant coordinate, then the other endpoint's position. A ground
// element with none of these keeps a nil position.
func resolveGround(g *model.Graph, rels []*model.Relationship) {
	done := map[string]bool{}
	for _, r := range rels {
		for _, id := range r.Participants {
			e, _ := g.Element(id)
			if !e.IsGround() || done[id] {
				continue
			}
			done[id] = true
			if p, ok := groundPosition(g, r, id); ok {
				g.SetPosition(id, p)
			}
		}
	}
}

func groundPosition(g *model.Graph, r *model.Relationship, ground string) (model.Vec3, bool) {
	if r.Coordinate != nil {
		return *r.Coordinate, true
	}
	if c, ok := r.ParticipantCoordinates[ground]; ok {
		return c, true
	}
	if c, ok := r.Coord(); ok {
		return c, true
	}
	other, ok := r.Other(ground)
	if !ok {
		return model.Vec3{}, false
	}
	if e, _ := g.Element(other); e.Position != nil {
		return *e.Position, true
	}
	return model.Vec3{}, false
}
