// Package classify maps element classifications to display colours.
//
// Three schemes are available: by contextual type, by material chain and by
// geometry chain. Keys are taxonomy chains joined with "-", e.g.
// "metal-ferrousAlloy-steel" or "solid-translate-cuboid". Lookups fall back
// towards the chain root, then to a scheme default, so every element gets a
// colour.
package classify

import (
	"fmt"
	"strings"

	"github.com/matzehuels/ievis/pkg/model"
)

// Color is a 24-bit RGB colour.
type Color uint32

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string { return fmt.Sprintf("#%06x", uint32(c)&0xffffff) }

// ParseColor parses "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	var v uint32
	if _, err := fmt.Sscanf(s, "%06x", &v); err != nil || len(s) != 6 {
		return 0, fmt.Errorf("invalid colour %q", s)
	}
	return Color(v), nil
}

// Scheme selects which classification drives colour.
type Scheme string

const (
	SchemeContextual Scheme = "contextual"
	SchemeMaterial   Scheme = "material"
	SchemeGeometry   Scheme = "geometry"
)

// ParseScheme parses a scheme name. The empty string is contextual.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case "", SchemeContextual:
		return SchemeContextual, nil
	case SchemeMaterial, SchemeGeometry:
		return Scheme(s), nil
	}
	return "", fmt.Errorf("unknown colour scheme %q (want contextual, material or geometry)", s)
}

// Ground is the colour of ground elements in every scheme.
const Ground Color = 0xaaaaaa

// Unclassified is used when nothing in a palette matches.
const Unclassified Color = 0xcccccc

// Palette maps chain keys to colours.
type Palette map[string]Color

// Contextual colours by contextual type.
var Contextual = Palette{
	"slab": 0xa96645, "column": 0x58c2eb, "beam": 0x7b6bb0,
	"block": 0x783372, "cable": 0x71c1fe, "wall": 0x5363cc,
	"plate": 0xd1dfb9, "deck": 0xe59bc1,
	"aerofoil": 0x79a9b9, "wing": 0xf1c533, "fuselage": 0x47620e,
	"tower": 0x401952, "wheel": 0xe7c5c7, "other": 0xe3b694,
}

// Material colours: metals red, ceramics green, polymers blue, composites
// purple.
var Material = Palette{
	"metal-ferrousAlloy":            0xee204e,
	"metal-ferrousAlloy-steel":      0xab274f,
	"metal-ferrousAlloy-iron":       0x7c0902,
	"metal-aluminiumAlloy":          0xfe6f5e,
	"metal-nickelAlloy":             0xfb607f,
	"metal-copperAlloy":             0xc51e3a,
	"metal-titaniumAlloy":           0x800020,
	"ceramic-glass":                 0x8db600,
	"ceramic-clayProduct":           0x7ba05b,
	"ceramic-refractory":            0x568203,
	"ceramic-abrasive":              0x004225,
	"ceramic-cement":                0xace1af,
	"ceramic-advancedCeramic":       0xadff2f,
	"polymer-thermoplastic":         0x00b9e8,
	"polymer-thermoset":             0x5d8aa8,
	"polymer-elastomer":             0x6cb4ee,
	"composite-particle-reinforced": 0xb284be,
	"composite-fibre-reinforced":    0x702963,
	"composite-structural":          0x9966cc,
}

// Geometry colours: beams blue, plates purple, solids red, shells green.
var Geometry = Palette{
	"beam-rectangular":                 0x00b9e8,
	"beam-circular":                    0x5d8aa8,
	"beam-i-beam":                      0x6cb4ee,
	"beam-other":                       0x0070bb,
	"plate-rectangular":                0xb284be,
	"plate-circular":                   0x702963,
	"plate-other":                      0x9966cc,
	"solid-translate-cuboid":           0xab274f,
	"solid-translate-sphere":           0x7c0902,
	"solid-translate-cylinder":         0xfe6f5e,
	"solid-translate-other":            0xfb607f,
	"shell-translate-cuboid":           0x90ee90,
	"shell-translate-sphere":           0x8db600,
	"shell-translate-cylinder":         0x7ba05b,
	"shell-translate-other":            0x568203,
	"solid-translateAndScale-cuboid":   0x800020,
	"solid-translateAndScale-cylinder": 0xfdbcb4,
	"solid-translateAndScale-other":    0xc51e3a,
	"shell-translateAndScale-cuboid":   0x004225,
	"shell-translateAndScale-cylinder": 0xace1af,
	"shell-translateAndScale-other":    0xadff2f,
}

// Lookup returns the colour for chain, trying ever shorter prefixes and then
// the "<prefix>-other" entry at each level.
func (p Palette) Lookup(chain model.Taxonomy) (Color, bool) {
	for n := len(chain); n > 0; n-- {
		if c, ok := p[chain[:n].String()]; ok {
			return c, true
		}
		if n > 1 {
			if c, ok := p[chain[:n-1].String()+"-other"]; ok {
				return c, true
			}
		}
	}
	return 0, false
}

// ColorFor returns the colour of e under scheme.
func ColorFor(e *model.Element, scheme Scheme) Color {
	if e.IsGround() {
		return Ground
	}
	var (
		c  Color
		ok bool
	)
	switch scheme {
	case SchemeMaterial:
		c, ok = Material.Lookup(e.Material)
	case SchemeGeometry:
		if e.Geometry != nil {
			c, ok = Geometry.Lookup(e.Geometry.Chain())
		}
	default:
		c, ok = Contextual[e.Contextual]
		if !ok && e.Contextual != "" {
			c, ok = Contextual["other"]
		}
	}
	if !ok {
		return Unclassified
	}
	return c
}

// Legend returns the palette entries used by elems under scheme, keyed by
// the label shown to users.
func Legend(elems []*model.Element, scheme Scheme) map[string]Color {
	out := map[string]Color{}
	for _, e := range elems {
		label := Label(e, scheme)
		out[label] = ColorFor(e, scheme)
	}
	return out
}

// Label returns the classification label of e under scheme.
func Label(e *model.Element, scheme Scheme) string {
	if e.IsGround() {
		return "ground"
	}
	switch scheme {
	case SchemeMaterial:
		return e.Material.String()
	case SchemeGeometry:
		if e.Geometry == nil {
			return ""
		}
		return e.Geometry.Chain().String()
	}
	return e.Contextual
}
