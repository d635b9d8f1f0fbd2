package model

import (
	"math"
	"strings"
)

// Vec3 is a point or extent in model space.
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v*k.
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Kind distinguishes structural elements from supports.
type Kind int

const (
	// KindRegular is a physical structural component with geometry.
	KindRegular Kind = iota
	// KindGround is an external support or anchor. It has a position only.
	KindGround
)

// String returns the document spelling of the kind.
func (k Kind) String() string {
	if k == KindGround {
		return "ground"
	}
	return "regular"
}

// ParseKind maps a document kind to a Kind. Anything but "ground" is regular.
func ParseKind(s string) Kind {
	if s == "ground" {
		return KindGround
	}
	return KindRegular
}

// Quantity is a dimension value with its unit as written in the document.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Taxonomy is a nested name chain from root to leaf,
// e.g. ["metal", "ferrousAlloy", "steel"].
type Taxonomy []string

// String joins the chain with "-", the key format used by the palettes.
func (t Taxonomy) String() string { return strings.Join(t, "-") }

// Root returns the first level or "" for an empty chain.
func (t Taxonomy) Root() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// AngleUnit is the unit of a rotation angle.
type AngleUnit string

const (
	Degrees AngleUnit = "degrees"
	Radians AngleUnit = "radians"
)

// Angle is a rotation angle with an explicit unit. An empty unit means degrees.
type Angle struct {
	Value float64   `json:"value"`
	Unit  AngleUnit `json:"unit,omitempty"`
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	if a.Unit == Radians {
		return a.Value
	}
	return a.Value * math.Pi / 180
}

// Rotation holds the three rotation angles about the x, y and z axes of the
// document frame.
type Rotation struct {
	Alpha Angle `json:"alpha"`
	Beta  Angle `json:"beta"`
	Gamma Angle `json:"gamma"`
}

// IsZero reports whether all three angles are zero.
func (r Rotation) IsZero() bool {
	return r.Alpha.Value == 0 && r.Beta.Value == 0 && r.Gamma.Value == 0
}

// Element is a graph node: one irreducible element.
//
// Position is corner-anchored: it names the element's minimum-extent corner
// in the document convention, not its centroid. A nil Position means the
// location is undefined (e.g. an unresolved ground element).
type Element struct {
	ID         string    // Stable identifier, equal to Name for parsed documents
	Name       string    // Unique display name
	Kind       Kind      // Regular or ground
	Contextual string    // Contextual type, e.g. "column" (regular only)
	Material   Taxonomy  // Material chain (regular only)
	Geometry   *Geometry // Geometry descriptor (regular only)
	Position   *Vec3     // Corner position, nil when undefined
	Rotation   *Rotation // Optional rotation
}

// IsGround reports whether the element is a support.
func (e *Element) IsGround() bool { return e.Kind == KindGround }

// Shaped reports whether the element carries geometry that can be synthesized.
func (e *Element) Shaped() bool { return e.Kind == KindRegular && e.Geometry != nil }

// clone returns a deep copy of e.
func (e *Element) clone() *Element {
	c := *e
	if e.Material != nil {
		c.Material = append(Taxonomy(nil), e.Material...)
	}
	if e.Geometry != nil {
		g := e.Geometry.Clone()
		c.Geometry = &g
	}
	if e.Position != nil {
		p := *e.Position
		c.Position = &p
	}
	if e.Rotation != nil {
		r := *e.Rotation
		c.Rotation = &r
	}
	return &c
}
