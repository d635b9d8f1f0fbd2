package cache

import "fmt"

// Keyer builds cache keys. Keys for derived artifacts hash every input that
// changes the output, so a changed option never reuses a stale entry.
type Keyer interface {
	// DocumentKey addresses a stored model document by model id.
	DocumentKey(modelID string) string

	// LayoutKey addresses the positions computed for a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// MeshKey addresses the tessellation of one solid.
	MeshKey(solidHash string, opts MeshKeyOpts) string

	// ArtifactKey addresses a rendered export (scene, DOT, SVG, document).
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout inputs besides the graph itself.
type LayoutKeyOpts struct {
	Rounds  int     `json:"rounds"`
	L       float64 `json:"l"`
	Kr      float64 `json:"kr"`
	Ks      float64 `json:"ks"`
	DeltaT  float64 `json:"dt"`
	Radius  float64 `json:"radius,omitempty"`
	Checked bool    `json:"checked,omitempty"`
}

// MeshKeyOpts are the tessellation inputs besides the solid.
type MeshKeyOpts struct {
	Cells int `json:"cells"`
}

// ArtifactKeyOpts are the export inputs besides the graph.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scheme string  `json:"scheme,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DocumentKey(modelID string) string {
	return fmt.Sprintf("document:%s", modelID)
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) MeshKey(solidHash string, opts MeshKeyOpts) string {
	return hashKey("mesh", solidHash, opts)
}

func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
