package model

import "testing"

func TestValidate(t *testing.T) {
	g := New(Info{})
	g.AddElement(Element{Name: "A", Contextual: "column", Material: Taxonomy{"metal", "ferrousAlloy", "steel"}})
	g.AddElement(Element{Name: "B", Contextual: "spaceship", Material: Taxonomy{"wood"}})
	g.AddElement(Element{Name: "C"})
	g.AddElement(Element{Name: "G", Kind: KindGround})
	g.SetRelationship([]string{"A", "B"}, RelJoint)
	g.SetRelationship([]string{"A", "G"}, RelBoundary)

	codes := map[string]int{}
	for _, w := range Validate(g) {
		codes[w.Code]++
	}

	want := map[string]int{
		"UNKNOWN_CONTEXTUAL": 1,
		"UNKNOWN_MATERIAL":   1,
		"ORPHAN":             1,
		"MISSING_NATURE":     1,
		"UNRESOLVED_GROUND":  1,
	}
	for code, n := range want {
		if codes[code] != n {
			t.Errorf("%s count = %d, want %d", code, codes[code], n)
		}
	}
	if codes["UNKNOWN_NATURE"] != 0 {
		t.Errorf("UNKNOWN_NATURE count = %d, want 0", codes["UNKNOWN_NATURE"])
	}
}
