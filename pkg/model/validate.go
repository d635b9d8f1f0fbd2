package model

import "fmt"

// Warning is an advisory finding about a graph. Warnings never block
// parsing, layout or export.
type Warning struct {
	Code      string
	Message   string
	ElementID string
	Key       Key
}

func (w Warning) String() string {
	switch {
	case w.ElementID != "":
		return fmt.Sprintf("%s: %s (element: %s)", w.Code, w.Message, w.ElementID)
	case w.Key != "":
		return fmt.Sprintf("%s: %s (relationship: %s)", w.Code, w.Message, w.Key)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// Validate checks g against the catalogs and reports orphans, unknown
// classifications and natures, and ground elements without a position.
func Validate(g *Graph) []Warning {
	var warnings []Warning
	for _, e := range g.Elements() {
		if e.IsGround() {
			if e.Position == nil {
				warnings = append(warnings, Warning{
					Code:      "UNRESOLVED_GROUND",
					Message:   "ground element has no resolvable position",
					ElementID: e.ID,
				})
			}
			continue
		}
		if e.Contextual != "" && !IsKnownContextual(e.Contextual) {
			warnings = append(warnings, Warning{
				Code:      "UNKNOWN_CONTEXTUAL",
				Message:   fmt.Sprintf("unknown contextual type %q", e.Contextual),
				ElementID: e.ID,
			})
		}
		if len(e.Material) > 0 && !IsKnownMaterial(e.Material) {
			warnings = append(warnings, Warning{
				Code:      "UNKNOWN_MATERIAL",
				Message:   fmt.Sprintf("unknown material %q", e.Material.String()),
				ElementID: e.ID,
			})
		}
	}
	for _, id := range g.Orphans() {
		warnings = append(warnings, Warning{
			Code:      "ORPHAN",
			Message:   "element is not part of any relationship",
			ElementID: id,
		})
	}
	for _, r := range g.Relationships() {
		if r.Nature != nil && !IsKnownNature(*r.Nature) {
			warnings = append(warnings, Warning{
				Code:    "UNKNOWN_NATURE",
				Message: fmt.Sprintf("unknown nature %q", r.Nature.String()),
				Key:     r.Key,
			})
		}
		if r.Type.AllowsNature() && r.Nature == nil {
			warnings = append(warnings, Warning{
				Code:    "MISSING_NATURE",
				Message: fmt.Sprintf("%s relationship has no nature", r.Type),
				Key:     r.Key,
			})
		}
	}
	return warnings
}
