package model

import (
	"maps"
)

// Method is the placement method of a geometry descriptor.
type Method int

const (
	// MethodRegular places the shape directly (beams, plates).
	MethodRegular Method = iota
	// MethodTranslate places a fixed-section solid or shell.
	MethodTranslate
	// MethodTranslateAndScale sweeps between two independently sized end faces.
	MethodTranslateAndScale
)

// String returns the document spelling of the method.
func (m Method) String() string {
	switch m {
	case MethodTranslate:
		return "translate"
	case MethodTranslateAndScale:
		return "translateAndScale"
	default:
		return "regular"
	}
}

// placementMethod recognizes the level-2 names that denote a placement
// method. "regular" is never spelled out in documents.
func placementMethod(name string) (Method, bool) {
	switch name {
	case "translate":
		return MethodTranslate, true
	case "translateAndScale":
		return MethodTranslateAndScale, true
	}
	return MethodRegular, false
}

// Face is one end face of a translateAndScale element: an offset in the
// (y, z) plane plus its own dimensions.
type Face struct {
	Y          float64             `json:"y"`
	Z          float64             `json:"z"`
	Dimensions map[string]Quantity `json:"dimensions,omitempty"`
}

// Dimension returns the value of the named face dimension.
func (f Face) Dimension(name string) (float64, bool) {
	q, ok := f.Dimensions[name]
	return q.Value, ok
}

// Faces holds the two end faces of a swept element.
type Faces struct {
	Left  Face `json:"left"`
	Right Face `json:"right"`
}

// Geometry is the tagged geometry descriptor of an element. The class,
// method and shape are explicit fields so no taxonomy string is ever split
// or concatenated.
type Geometry struct {
	Class      string              // Top-level taxonomy name, e.g. "solid", "shell", "beam"
	Method     Method              // Placement method
	Shape      string              // Shape tag, e.g. "cuboid", "i-beam"
	Dimensions map[string]Quantity // Dimension name -> value
	Faces      *Faces              // End faces (translateAndScale only)
}

// GeometryFromChain decodes a geometry taxonomy chain.
//
// If the second level is a placement method ("translate" or
// "translateAndScale") the method and shape come from levels 2 and 3.
// Otherwise the method is regular and the shape is level 2. It reports
// false when the chain is too short for the rule it matches.
func GeometryFromChain(chain []string) (Geometry, bool) {
	if len(chain) < 2 || chain[0] == "" || chain[1] == "" {
		return Geometry{}, false
	}
	g := Geometry{Class: chain[0]}
	if m, ok := placementMethod(chain[1]); ok {
		if len(chain) < 3 || chain[2] == "" {
			return Geometry{}, false
		}
		g.Method = m
		g.Shape = chain[2]
		return g, true
	}
	g.Method = MethodRegular
	g.Shape = chain[1]
	return g, true
}

// Chain returns the taxonomy chain for g, the inverse of [GeometryFromChain].
func (g Geometry) Chain() Taxonomy {
	if g.Method == MethodRegular {
		return Taxonomy{g.Class, g.Shape}
	}
	return Taxonomy{g.Class, g.Method.String(), g.Shape}
}

// Dimension returns the value of the named dimension.
func (g Geometry) Dimension(name string) (float64, bool) {
	q, ok := g.Dimensions[name]
	return q.Value, ok
}

// WithDimension returns a copy of g with the named dimension set. The unit
// of an existing dimension is kept.
func (g Geometry) WithDimension(name string, value float64) Geometry {
	c := g.Clone()
	if c.Dimensions == nil {
		c.Dimensions = map[string]Quantity{}
	}
	q := c.Dimensions[name]
	q.Value = value
	c.Dimensions[name] = q
	return c
}

// Clone returns a deep copy of g.
func (g Geometry) Clone() Geometry {
	c := g
	c.Dimensions = maps.Clone(g.Dimensions)
	if g.Faces != nil {
		f := *g.Faces
		f.Left.Dimensions = maps.Clone(g.Faces.Left.Dimensions)
		f.Right.Dimensions = maps.Clone(g.Faces.Right.Dimensions)
		c.Faces = &f
	}
	return c
}
