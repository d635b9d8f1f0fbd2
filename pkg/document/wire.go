package document

// Version is the document schema version written by [ToDocument].
const Version = "1.1.0"

// Document is the hierarchical interchange format for one structure.
//
// Optional subtrees are pointers so that presence is checked explicitly.
// The same struct is decoded from JSON, YAML and BSON.
type Document struct {
	Version     string `json:"version" yaml:"version" bson:"version"`
	Name        string `json:"name" yaml:"name" bson:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Population  string `json:"population,omitempty" yaml:"population,omitempty" bson:"population,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty" yaml:"timestamp,omitempty" bson:"timestamp,omitempty"` // ns since epoch
	Models      Models `json:"models" yaml:"models" bson:"models"`
}

// Models wraps the irreducible element model.
type Models struct {
	IrreducibleElement *IrreducibleElement `json:"irreducibleElement,omitempty" yaml:"irreducibleElement,omitempty" bson:"irreducibleElement,omitempty"`
}

// IrreducibleElement is the element/relationship model proper.
type IrreducibleElement struct {
	Type          string         `json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
	Elements      []Element      `json:"elements" yaml:"elements" bson:"elements"`
	Relationships []Relationship `json:"relationships" yaml:"relationships" bson:"relationships"`
}

// Element is one irreducible element as written in a document.
type Element struct {
	Name        string       `json:"name" yaml:"name" bson:"name"`
	Type        string       `json:"type" yaml:"type" bson:"type"`
	Contextual  *Contextual  `json:"contextual,omitempty" yaml:"contextual,omitempty" bson:"contextual,omitempty"`
	Material    *Material    `json:"material,omitempty" yaml:"material,omitempty" bson:"material,omitempty"`
	Geometry    *Geometry    `json:"geometry,omitempty" yaml:"geometry,omitempty" bson:"geometry,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// Contextual names what the element is, e.g. "column".
type Contextual struct {
	Type string `json:"type" yaml:"type" bson:"type"`
}

// Material holds the material taxonomy.
type Material struct {
	Type *TypeNode `json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
}

// TypeNode is one level of a nested taxonomy: {name, type: {name, ...}}.
type TypeNode struct {
	Name string    `json:"name" yaml:"name" bson:"name"`
	Type *TypeNode `json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
}

// Geometry is the geometry taxonomy plus the dimensions and end faces.
type Geometry struct {
	Type       *TypeNode            `json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
	Dimensions map[string]Dimension `json:"dimensions,omitempty" yaml:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Faces      *Faces               `json:"faces,omitempty" yaml:"faces,omitempty" bson:"faces,omitempty"`
}

// Dimension is one named measurement.
type Dimension struct {
	Axis   string   `json:"axis,omitempty" yaml:"axis,omitempty" bson:"axis,omitempty"`
	Source string   `json:"source,omitempty" yaml:"source,omitempty" bson:"source,omitempty"`
	Unit   string   `json:"unit,omitempty" yaml:"unit,omitempty" bson:"unit,omitempty"`
	Value  *float64 `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
}

// Faces are the end faces of a translateAndScale element.
type Faces struct {
	Left  *Face `json:"left,omitempty" yaml:"left,omitempty" bson:"left,omitempty"`
	Right *Face `json:"right,omitempty" yaml:"right,omitempty" bson:"right,omitempty"`
}

// Face is an end face offset in the (y, z) plane with its own dimensions.
type Face struct {
	Translational *FaceOffset          `json:"translational,omitempty" yaml:"translational,omitempty" bson:"translational,omitempty"`
	Dimensions    map[string]Dimension `json:"dimensions,omitempty" yaml:"dimensions,omitempty" bson:"dimensions,omitempty"`
}

// FaceOffset is the (y, z) offset of a face.
type FaceOffset struct {
	Y *Value `json:"y,omitempty" yaml:"y,omitempty" bson:"y,omitempty"`
	Z *Value `json:"z,omitempty" yaml:"z,omitempty" bson:"z,omitempty"`
}

// Coordinates wraps the global frame.
type Coordinates struct {
	Global *Global `json:"global,omitempty" yaml:"global,omitempty" bson:"global,omitempty"`
}

// Global holds a translation and an optional rotation.
type Global struct {
	Translational *Translational `json:"translational,omitempty" yaml:"translational,omitempty" bson:"translational,omitempty"`
	Rotational    *Rotational    `json:"rotational,omitempty" yaml:"rotational,omitempty" bson:"rotational,omitempty"`
}

// Translational is a point in the document frame.
type Translational struct {
	X *Value `json:"x,omitempty" yaml:"x,omitempty" bson:"x,omitempty"`
	Y *Value `json:"y,omitempty" yaml:"y,omitempty" bson:"y,omitempty"`
	Z *Value `json:"z,omitempty" yaml:"z,omitempty" bson:"z,omitempty"`
}

// Rotational holds the rotation angles about x, y and z.
type Rotational struct {
	Alpha *Value `json:"alpha,omitempty" yaml:"alpha,omitempty" bson:"alpha,omitempty"`
	Beta  *Value `json:"beta,omitempty" yaml:"beta,omitempty" bson:"beta,omitempty"`
	Gamma *Value `json:"gamma,omitempty" yaml:"gamma,omitempty" bson:"gamma,omitempty"`
}

// Value is a number with a unit.
type Value struct {
	Unit  string   `json:"unit,omitempty" yaml:"unit,omitempty" bson:"unit,omitempty"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
}

// Relationship joins two or more named elements.
type Relationship struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Type        string       `json:"type" yaml:"type" bson:"type"`
	Elements    []RelElement `json:"elements" yaml:"elements" bson:"elements"`
	Nature      *NatureNode  `json:"nature,omitempty" yaml:"nature,omitempty" bson:"nature,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// RelElement is one participant of a relationship.
type RelElement struct {
	Name        string       `json:"name" yaml:"name" bson:"name"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Nature      *NatureNode  `json:"nature,omitempty" yaml:"nature,omitempty" bson:"nature,omitempty"`
}

// NatureNode is a join nature: {name: "static", nature: {name: "bolted"}}.
type NatureNode struct {
	Name   string `json:"name" yaml:"name" bson:"name"`
	Nature *Named `json:"nature,omitempty" yaml:"nature,omitempty" bson:"nature,omitempty"`
}

// Named is a bare {name} node.
type Named struct {
	Name string `json:"name" yaml:"name" bson:"name"`
}

// chain flattens a taxonomy into its names, root first.
func (t *TypeNode) chain() []string {
	var out []string
	for n := t; n != nil; n = n.Type {
		out = append(out, n.Name)
	}
	return out
}

// typeNode builds the nested form of a chain, or nil for an empty chain.
func typeNode(chain []string) *TypeNode {
	var node *TypeNode
	for i := len(chain) - 1; i >= 0; i-- {
		node = &TypeNode{Name: chain[i], Type: node}
	}
	return node
}

// vec returns the point if all three components are present.
func (t *Translational) vec() (x, y, z float64, ok bool) {
	if t == nil || !t.X.present() || !t.Y.present() || !t.Z.present() {
		return 0, 0, 0, false
	}
	return *t.X.Value, *t.Y.Value, *t.Z.Value, true
}

func (v *Value) present() bool { return v != nil && v.Value != nil }

func (v *Value) float() float64 {
	if !v.present() {
		return 0
	}
	return *v.Value
}

func (c *Coordinates) translational() *Translational {
	if c == nil || c.Global == nil {
		return nil
	}
	return c.Global.Translational
}

func (c *Coordinates) rotational() *Rotational {
	if c == nil || c.Global == nil {
		return nil
	}
	return c.Global.Rotational
}

func num(v float64) *float64 { return &v }
