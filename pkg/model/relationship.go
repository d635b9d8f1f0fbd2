package model

import (
	"maps"
	"slices"
	"strings"

	apperr "github.com/matzehuels/ievis/pkg/errors"
)

// RelationType classifies how the participants of a relationship are joined.
type RelationType string

const (
	RelNone       RelationType = "none"
	RelPerfect    RelationType = "perfect"    // rigid join
	RelConnection RelationType = "connection" // flexible join, nature per participant
	RelJoint      RelationType = "joint"      // flexible join, nature on the relationship
	RelBoundary   RelationType = "boundary"   // join to a ground element
)

// Valid reports whether t is a known relationship type.
func (t RelationType) Valid() bool {
	switch t {
	case RelNone, RelPerfect, RelConnection, RelJoint, RelBoundary:
		return true
	}
	return false
}

// AllowsNature reports whether relationships of type t may carry a nature.
func (t RelationType) AllowsNature() bool {
	return t == RelConnection || t == RelJoint
}

// Rigid reports whether t joins its participants at one shared point.
func (t RelationType) Rigid() bool {
	return t == RelPerfect || t == RelBoundary
}

// Nature is the two-level sub-type of a flexible join,
// e.g. {Name: "static", Nature: "bolted"}.
type Nature struct {
	Name   string `json:"name"`
	Nature string `json:"nature"`
}

// String returns "name nature", e.g. "dynamic hinge".
func (n Nature) String() string {
	if n.Nature == "" {
		return n.Name
	}
	return n.Name + " " + n.Nature
}

// ParseNature parses "name nature" as produced by [Nature.String].
func ParseNature(s string) (Nature, bool) {
	name, sub, _ := strings.Cut(strings.TrimSpace(s), " ")
	if name == "" {
		return Nature{}, false
	}
	return Nature{Name: name, Nature: strings.TrimSpace(sub)}, true
}

// Key is the canonical address of a relationship: participant ids sorted
// ascending and joined with a comma.
type Key string

// KeyOf returns the canonical key for the given participant ids.
// KeyOf(a, b) == KeyOf(b, a) for all ids.
func KeyOf(ids ...string) Key {
	return Key(strings.Join(canonical(ids), apperr.KeySeparator))
}

// Participants splits k back into its sorted participant ids.
func (k Key) Participants() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), apperr.KeySeparator)
}

// canonical returns a sorted, de-duplicated copy of ids.
func canonical(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// Relationship is an undirected hyperedge between two or more elements.
type Relationship struct {
	Key          Key          // Canonical key
	Participants []string     // Sorted participant ids
	Type         RelationType // Join type
	Nature       *Nature      // Only set for connection and joint

	// Coordinate is the shared join point, if the document gives one.
	Coordinate *Vec3
	// ParticipantCoordinates are per-participant join points.
	ParticipantCoordinates map[string]Vec3
}

// Involves reports whether id participates in r.
func (r *Relationship) Involves(id string) bool {
	_, found := slices.BinarySearch(r.Participants, id)
	return found
}

// Other returns the other participant of a two-element relationship.
func (r *Relationship) Other(id string) (string, bool) {
	if len(r.Participants) != 2 || !r.Involves(id) {
		return "", false
	}
	if r.Participants[0] == id {
		return r.Participants[1], true
	}
	return r.Participants[0], true
}

// Coord returns the coordinate carried by the relationship record: the
// shared coordinate if present, otherwise the first participant coordinate
// in key order.
func (r *Relationship) Coord() (Vec3, bool) {
	if r.Coordinate != nil {
		return *r.Coordinate, true
	}
	for _, id := range r.Participants {
		if c, ok := r.ParticipantCoordinates[id]; ok {
			return c, true
		}
	}
	return Vec3{}, false
}

// HasCoordinate reports whether the relationship carries any coordinate.
func (r *Relationship) HasCoordinate() bool {
	_, ok := r.Coord()
	return ok
}

func (r *Relationship) clone() *Relationship {
	c := *r
	c.Participants = slices.Clone(r.Participants)
	if r.Nature != nil {
		n := *r.Nature
		c.Nature = &n
	}
	if r.Coordinate != nil {
		v := *r.Coordinate
		c.Coordinate = &v
	}
	c.ParticipantCoordinates = maps.Clone(r.ParticipantCoordinates)
	return &c
}

// RelationshipOption configures [Graph.SetRelationship].
type RelationshipOption func(*relOptions)

type relOptions struct {
	nature      *Nature
	coordinate  *Vec3
	participant map[string]Vec3
}

// WithNature attaches a nature. It is dropped unless the type allows one.
func WithNature(n Nature) RelationshipOption {
	return func(o *relOptions) { o.nature = &n }
}

// WithCoordinate sets the shared join coordinate.
func WithCoordinate(v Vec3) RelationshipOption {
	return func(o *relOptions) { o.coordinate = &v }
}

// WithParticipantCoordinate sets the join coordinate of one participant.
func WithParticipantCoordinate(id string, v Vec3) RelationshipOption {
	return func(o *relOptions) {
		if o.participant == nil {
			o.participant = map[string]Vec3{}
		}
		o.participant[id] = v
	}
}
