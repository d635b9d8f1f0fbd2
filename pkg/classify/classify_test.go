package classify

import (
	"testing"

	"github.com/matzehuels/ievis/pkg/model"
)

func TestColorFor(t *testing.T) {
	steel := model.Taxonomy{"metal", "ferrousAlloy", "steel"}
	tests := []struct {
		name   string
		elem   model.Element
		scheme Scheme
		want   Color
	}{
		{"contextual", model.Element{Contextual: "column"}, SchemeContextual, 0x58c2eb},
		{"unknown contextual", model.Element{Contextual: "spaceship"}, SchemeContextual, 0xe3b694},
		{"unclassified", model.Element{}, SchemeContextual, Unclassified},
		{"ground", model.Element{Kind: model.KindGround}, SchemeMaterial, Ground},
		{"material leaf", model.Element{Material: steel}, SchemeMaterial, 0xab274f},
		{"material parent", model.Element{Material: model.Taxonomy{"metal", "ferrousAlloy", "bronze"}}, SchemeMaterial, 0xee204e},
		{"geometry", model.Element{Geometry: &model.Geometry{Class: "beam", Shape: "i-beam"}}, SchemeGeometry, 0x6cb4ee},
		{"geometry other", model.Element{Geometry: &model.Geometry{Class: "beam", Shape: "c-beam"}}, SchemeGeometry, 0x0070bb},
		{"geometry swept", model.Element{Geometry: &model.Geometry{Class: "shell", Method: model.MethodTranslateAndScale, Shape: "cuboid"}}, SchemeGeometry, 0x004225},
		{"geometry missing", model.Element{}, SchemeGeometry, Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorFor(&tt.elem, tt.scheme); got != tt.want {
				t.Errorf("ColorFor() = %s, want %s", got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"#a96645", "a96645", "0xA96645"} {
		c, err := ParseColor(s)
		if err != nil || c != 0xa96645 {
			t.Errorf("ParseColor(%q) = %v, %v", s, c, err)
		}
	}
	if _, err := ParseColor("#fff"); err == nil {
		t.Error("ParseColor(#fff) succeeded")
	}
	if got := Color(0xaaaaaa).Hex(); got != "#aaaaaa" {
		t.Errorf("Hex() = %q", got)
	}
}

func TestParseScheme(t *testing.T) {
	if s, err := ParseScheme(""); err != nil || s != SchemeContextual {
		t.Errorf("ParseScheme(\"\") = %q, %v", s, err)
	}
	if _, err := ParseScheme("rainbow"); err == nil {
		t.Error("ParseScheme(rainbow) succeeded")
	}
}
