package model

import "slices"

// ContextualTypes lists the contextual classifications of regular elements.
var ContextualTypes = []string{
	"slab", "column", "beam", "block", "cable", "wall", "plate", "deck",
	"aerofoil", "wing", "fuselage", "tower", "wheel", "other",
}

// Materials lists the recognized material chains.
var Materials = []Taxonomy{
	{"metal", "ferrousAlloy"},
	{"metal", "ferrousAlloy", "steel"},
	{"metal", "ferrousAlloy", "iron"},
	{"metal", "aluminiumAlloy"},
	{"metal", "nickelAlloy"},
	{"metal", "copperAlloy"},
	{"metal", "titaniumAlloy"},
	{"ceramic", "glass"},
	{"ceramic", "clayProduct"},
	{"ceramic", "refractory"},
	{"ceramic", "abrasive"},
	{"ceramic", "cement"},
	{"ceramic", "advancedCeramic"},
	{"polymer", "thermoplastic"},
	{"polymer", "thermoset"},
	{"polymer", "elastomer"},
	{"composite", "particle-reinforced"},
	{"composite", "fibre-reinforced"},
	{"composite", "structural"},
}

// Natures maps each nature class to its sub-types.
var Natures = map[string][]string{
	"static":  {"bolted", "welded", "adhesive", "other"},
	"dynamic": {"hinge", "ballAndSocket", "pinned", "expansion", "ballBearing", "other"},
}

// RelationTypesFor returns the relationship types offered for a model type.
// Boundary joins only exist in grounded models.
func RelationTypesFor(t ModelType) []RelationType {
	if t == ModelGrounded {
		return []RelationType{RelNone, RelPerfect, RelConnection, RelJoint, RelBoundary}
	}
	return []RelationType{RelNone, RelPerfect, RelConnection, RelJoint}
}

// IsKnownContextual reports whether s is a catalogued contextual type.
func IsKnownContextual(s string) bool { return slices.Contains(ContextualTypes, s) }

// IsKnownMaterial reports whether t is a catalogued material chain.
func IsKnownMaterial(t Taxonomy) bool {
	return slices.ContainsFunc(Materials, func(m Taxonomy) bool { return slices.Equal(m, t) })
}

// IsKnownNature reports whether n is a catalogued nature.
func IsKnownNature(n Nature) bool {
	return slices.Contains(Natures[n.Name], n.Nature)
}
