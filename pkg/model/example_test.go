package model_test

import (
	"fmt"

	"github.com/matzehuels/ievis/pkg/model"
)

func Example() {
	g := model.New(model.Info{Name: "footbridge"})
	g.AddElement(model.Element{Name: "deck", Contextual: "deck"})
	g.AddElement(model.Element{Name: "pier", Contextual: "column"})
	g.AddElement(model.Element{Name: "support", Kind: model.KindGround})

	g.SetRelationship([]string{"pier", "deck"}, model.RelJoint,
		model.WithNature(model.Nature{Name: "dynamic", Nature: "pinned"}))
	g.SetRelationship([]string{"support", "pier"}, model.RelBoundary)

	for _, r := range g.Relationships() {
		fmt.Println(r.Key, r.Type)
	}
	fmt.Println("pier refs:", g.ReferenceCount("pier"))
	fmt.Println("type:", g.Info().Type)
	// Output:
	// deck,pier joint
	// pier,support boundary
	// pier refs: 2
	// type: grounded
}

func ExampleGraph_SetRelationship_groundRejected() {
	g := model.New(model.Info{})
	g.AddElement(model.Element{Name: "column"})
	g.AddElement(model.Element{Name: "ground", Kind: model.KindGround})

	_, err := g.SetRelationship([]string{"column", "ground"}, model.RelPerfect)
	fmt.Println(err)
	// Output:
	// INVALID_RELATION_TYPE: relationship column,ground names a ground element and must be boundary, got perfect
}
