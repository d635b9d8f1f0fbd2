package nodelink

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/ievis/pkg/classify"
	"github.com/matzehuels/ievis/pkg/model"
)

func tinyGraph() *model.Graph {
	g := model.New(model.Info{Name: "mast"})
	cuboid := &model.Geometry{Class: "solid", Method: model.MethodTranslate, Shape: "cuboid"}
	_ = g.AddElement(model.Element{Name: "col", Contextual: "column", Material: model.Taxonomy{"metal", "ferrousAlloy", "steel"}, Geometry: cuboid})
	_ = g.AddElement(model.Element{Name: "rope", Contextual: "cable"})
	_ = g.AddElement(model.Element{Name: "base", Kind: model.KindGround})
	_, _ = g.SetRelationship([]string{"rope", "col"}, model.RelConnection, model.WithNature(model.Nature{Name: "static", Nature: "bolted"}))
	_, _ = g.SetRelationship([]string{"col", "base"}, model.RelBoundary)
	return g
}

func ExampleToDOT() {
	fmt.Print(ToDOT(tinyGraph(), Options{}))
	// Output:
	// graph G {
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fontsize=18, margin="0.2,0.1"];
	//   edge [fontsize=12];
	//
	//   "col" [label="col", fillcolor="#58c2eb"];
	//   "rope" [label="rope", fillcolor="#71c1fe", style="rounded,filled,dashed"];
	//   "base" [label="base", fillcolor="#aaaaaa", shape=invtrapezium, style=filled];
	//
	//   "base" -- "col" [label="boundary", penwidth=2];
	//   "col" -- "rope" [label="connection\nstatic bolted", style=dashed];
	// }
}

func TestToDOTOptions(t *testing.T) {
	g := tinyGraph()

	dot := ToDOT(g, Options{Scheme: classify.SchemeMaterial, Detailed: true})
	if !strings.Contains(dot, `label="col\ncolumn\nmetal-ferrousAlloy-steel\nsolid-translate-cuboid"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `fillcolor="#ab274f"`) {
		t.Errorf("material fill missing:\n%s", dot)
	}

	dot = ToDOT(g, Options{Positions: map[string]model.Vec3{"col": {X: 1.5, Y: -2}}})
	if !strings.Contains(dot, "layout=neato;") {
		t.Error("pinned diagram should use neato")
	}
	if !strings.Contains(dot, `pos="1.500,-2.000!"`) {
		t.Errorf("pinned position missing:\n%s", dot)
	}
}

func TestToDOTJunction(t *testing.T) {
	g := model.New(model.Info{})
	for _, n := range []string{"a", "b", "c"} {
		_ = g.AddElement(model.Element{Name: n})
	}
	if _, err := g.SetRelationship([]string{"c", "a", "b"}, model.RelPerfect); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, `"rel:a,b,c" [shape=point`) {
		t.Errorf("junction node missing:\n%s", dot)
	}
	for _, n := range []string{"a", "b", "c"} {
		if !strings.Contains(dot, fmt.Sprintf(`"rel:a,b,c" -- %q`, n)) {
			t.Errorf("junction edge to %s missing", n)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("got %s, want %s", out, want)
	}
}
