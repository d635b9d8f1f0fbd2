package model

import (
	"maps"
	"slices"

	apperr "github.com/matzehuels/ievis/pkg/errors"
)

// ModelType records whether a model is anchored to ground.
type ModelType string

const (
	ModelGrounded ModelType = "grounded"
	ModelFree     ModelType = "free"
)

// Info is the document-level description of a model.
type Info struct {
	Name        string
	Description string
	Population  string
	Type        ModelType // Empty means derive from the elements
}

// Graph holds elements keyed by id and relationships keyed by canonical key,
// plus the derived per-element reference counts.
//
// The zero value is not usable; use [New].
type Graph struct {
	info          Info
	elements      map[string]*Element
	order         []string // encounter order, for deterministic iteration
	relationships map[Key]*Relationship
	refs          map[string]int
}

// New creates an empty graph.
func New(info Info) *Graph {
	return &Graph{
		info:          info,
		elements:      make(map[string]*Element),
		relationships: make(map[Key]*Relationship),
		refs:          make(map[string]int),
	}
}

// Info returns the model description. Type is always resolved.
func (g *Graph) Info() Info {
	info := g.info
	if info.Type == "" {
		info.Type = ModelFree
		if g.Grounded() {
			info.Type = ModelGrounded
		}
	}
	return info
}

// SetInfo replaces the model description.
func (g *Graph) SetInfo(info Info) { g.info = info }

// =============================================================================
// Elements
// =============================================================================

// AddElement adds an element. ID defaults to Name.
//
// Ground elements must not carry geometry, material or contextual
// classification; such elements are rejected with INVALID_ELEMENT, as are
// empty or duplicate ids.
func (g *Graph) AddElement(e Element) error {
	if e.ID == "" {
		e.ID = e.Name
	}
	if e.Name == "" {
		e.Name = e.ID
	}
	if err := apperr.ValidateElementName(e.ID); err != nil {
		return err
	}
	if _, exists := g.elements[e.ID]; exists {
		return apperr.New(apperr.ErrCodeInvalidElement, "duplicate element %q", e.ID)
	}
	if e.IsGround() && (e.Geometry != nil || len(e.Material) > 0 || e.Contextual != "") {
		return apperr.New(apperr.ErrCodeInvalidElement, "ground element %q cannot carry geometry, material or contextual type", e.ID)
	}
	g.elements[e.ID] = e.clone()
	g.order = append(g.order, e.ID)
	g.refs[e.ID] = 0
	return nil
}

// Element returns the element with the given id.
// The returned pointer is owned by the graph.
func (g *Graph) Element(id string) (*Element, bool) {
	e, ok := g.elements[id]
	return e, ok
}

// Elements returns all elements in encounter order.
func (g *Graph) Elements() []*Element {
	out := make([]*Element, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.elements[id])
	}
	return out
}

// ElementIDs returns all element ids in encounter order.
func (g *Graph) ElementIDs() []string { return slices.Clone(g.order) }

// ElementCount returns the number of elements.
func (g *Graph) ElementCount() int { return len(g.elements) }

// Grounded reports whether any element is a ground element.
func (g *Graph) Grounded() bool {
	for _, e := range g.elements {
		if e.IsGround() {
			return true
		}
	}
	return false
}

// SetPosition sets the corner position of an element.
func (g *Graph) SetPosition(id string, p Vec3) error {
	e, ok := g.elements[id]
	if !ok {
		return notFound(id)
	}
	e.Position = &p
	return nil
}

// SetRotation sets or, with nil, clears the rotation of a regular element.
func (g *Graph) SetRotation(id string, r *Rotation) error {
	e, ok := g.elements[id]
	if !ok {
		return notFound(id)
	}
	if e.IsGround() && r != nil {
		return apperr.New(apperr.ErrCodeInvalidElement, "ground element %q cannot be rotated", id)
	}
	if r == nil {
		e.Rotation = nil
		return nil
	}
	c := *r
	e.Rotation = &c
	return nil
}

// SetGeometry replaces the geometry descriptor of a regular element.
func (g *Graph) SetGeometry(id string, geom Geometry) error {
	e, ok := g.elements[id]
	if !ok {
		return notFound(id)
	}
	if e.IsGround() {
		return apperr.New(apperr.ErrCodeInvalidElement, "ground element %q cannot carry geometry", id)
	}
	c := geom.Clone()
	e.Geometry = &c
	return nil
}

// DeleteElement removes an element and cascades: every relationship naming
// it is removed and each remaining co-participant's count is decremented.
func (g *Graph) DeleteElement(id string) error {
	if _, ok := g.elements[id]; !ok {
		return notFound(id)
	}
	for _, r := range g.RelationshipsOf(id) {
		g.removeKey(r.Key)
	}
	delete(g.elements, id)
	delete(g.refs, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	return nil
}

// =============================================================================
// Relationships
// =============================================================================

// SetRelationship creates or updates the relationship between participants.
//
// Participants are canonicalized before the table is touched. The call is
// rejected, leaving the table unchanged, when:
//   - fewer than two distinct participants are named (INVALID_GROUP_SIZE)
//   - a participant is unknown (ELEMENT_NOT_FOUND)
//   - the type is unknown (INVALID_RELATION_TYPE)
//   - a participant is ground and the type is not boundary, or more than two
//     participants include a ground element (INVALID_RELATION_TYPE)
//
// A nature is kept only for connection and joint. Creating a relationship
// increments every participant's reference count by one; updating an
// existing one leaves counts unchanged.
func (g *Graph) SetRelationship(participants []string, typ RelationType, opts ...RelationshipOption) (*Relationship, error) {
	ids := canonical(participants)
	if len(ids) < 2 {
		return nil, apperr.New(apperr.ErrCodeInvalidGroupSize, "a relationship needs at least 2 distinct participants, got %d", len(ids))
	}
	if !typ.Valid() {
		return nil, apperr.New(apperr.ErrCodeInvalidRelationType, "unknown relationship type %q", typ)
	}
	var grounded bool
	for _, id := range ids {
		e, ok := g.elements[id]
		if !ok {
			return nil, notFound(id)
		}
		if e.IsGround() {
			grounded = true
		}
	}
	if grounded && typ != RelBoundary {
		return nil, apperr.New(apperr.ErrCodeInvalidRelationType, "relationship %s names a ground element and must be %s, got %s", KeyOf(ids...), RelBoundary, typ)
	}
	if grounded && len(ids) > 2 {
		return nil, apperr.New(apperr.ErrCodeInvalidRelationType, "ground relationship %s must have exactly 2 participants, got %d", KeyOf(ids...), len(ids))
	}

	var o relOptions
	for _, opt := range opts {
		opt(&o)
	}
	for id := range o.participant {
		if !slices.Contains(ids, id) {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "coordinate given for %q which is not a participant", id)
		}
	}

	key := KeyOf(ids...)
	r, exists := g.relationships[key]
	if !exists {
		r = &Relationship{Key: key, Participants: ids}
		g.relationships[key] = r
		for _, id := range ids {
			g.refs[id]++
		}
	}
	r.Type = typ
	if o.nature != nil {
		n := *o.nature
		r.Nature = &n
	}
	if !typ.AllowsNature() {
		r.Nature = nil
	}
	if o.coordinate != nil {
		v := *o.coordinate
		r.Coordinate = &v
	}
	if o.participant != nil {
		if r.ParticipantCoordinates == nil {
			r.ParticipantCoordinates = map[string]Vec3{}
		}
		maps.Copy(r.ParticipantCoordinates, o.participant)
	}
	return r, nil
}

// RemoveRelationship removes the relationship between participants and
// reports whether one existed.
func (g *Graph) RemoveRelationship(participants []string) bool {
	return g.removeKey(KeyOf(participants...))
}

func (g *Graph) removeKey(key Key) bool {
	r, ok := g.relationships[key]
	if !ok {
		return false
	}
	delete(g.relationships, key)
	for _, id := range r.Participants {
		if g.refs[id] > 0 {
			g.refs[id]--
		}
	}
	return true
}

// Relationship returns the relationship between participants, in any order.
func (g *Graph) Relationship(participants ...string) (*Relationship, bool) {
	return g.RelationshipByKey(KeyOf(participants...))
}

// RelationshipByKey returns the relationship with the given canonical key.
func (g *Graph) RelationshipByKey(key Key) (*Relationship, bool) {
	r, ok := g.relationships[key]
	return r, ok
}

// Relationships returns all relationships sorted by key.
func (g *Graph) Relationships() []*Relationship {
	keys := slices.Sorted(maps.Keys(g.relationships))
	out := make([]*Relationship, len(keys))
	for i, k := range keys {
		out[i] = g.relationships[k]
	}
	return out
}

// RelationshipsOf returns the relationships naming id, sorted by key.
func (g *Graph) RelationshipsOf(id string) []*Relationship {
	var out []*Relationship
	for _, r := range g.Relationships() {
		if r.Involves(id) {
			out = append(out, r)
		}
	}
	return out
}

// RelationshipCount returns the number of relationships.
func (g *Graph) RelationshipCount() int { return len(g.relationships) }

// HasRelationshipCoordinates reports whether any relationship carries a
// coordinate.
func (g *Graph) HasRelationshipCoordinates() bool {
	for _, r := range g.relationships {
		if r.HasCoordinate() {
			return true
		}
	}
	return false
}

// ReferenceCount returns the number of relationships naming id.
func (g *Graph) ReferenceCount(id string) int { return g.refs[id] }

// Orphans returns the ids of elements no relationship names, in encounter
// order.
func (g *Graph) Orphans() []string {
	var out []string
	for _, id := range g.order {
		if g.refs[id] == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New(g.info)
	c.order = slices.Clone(g.order)
	for id, e := range g.elements {
		c.elements[id] = e.clone()
	}
	for k, r := range g.relationships {
		c.relationships[k] = r.clone()
	}
	c.refs = maps.Clone(g.refs)
	return c
}

func notFound(id string) error {
	return apperr.New(apperr.ErrCodeElementNotFound, "unknown element %q", id)
}
