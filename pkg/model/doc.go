// Package model provides the element/relationship graph that describes a
// physical structure as a set of irreducible elements joined by typed
// relationships.
//
// # Overview
//
// An irreducible element (IE) is an atomic structural component: a column,
// a deck, a cable. Elements are graph nodes. Relationships are undirected
// hyperedges naming two or more elements and describing how they are
// physically joined: rigidly ("perfect"), flexibly ("connection" or "joint",
// each with a [Nature]) or to an external support ("boundary").
//
// Ground elements stand for supports and anchors rather than structural
// parts. They carry a position only, never geometry, material or contextual
// classification.
//
// # Basic Usage
//
// Create a graph with [New], add elements with [Graph.AddElement] and join
// them with [Graph.SetRelationship]:
//
//	g := model.New(model.Info{Name: "footbridge"})
//	g.AddElement(model.Element{Name: "deck", Kind: model.KindRegular})
//	g.AddElement(model.Element{Name: "support", Kind: model.KindGround})
//	g.SetRelationship([]string{"support", "deck"}, model.RelBoundary)
//
// # Canonical Keys
//
// Relationships are addressed only by their canonical [Key]: participant ids
// sorted ascending and joined with a comma. Every relationship operation
// canonicalizes its participants first, so (A,B) and (B,A) always name the
// same entry.
//
// # Invariants
//
// [Graph.SetRelationship] enforces grounding exclusivity: a relationship
// with a ground participant must be of type boundary and name exactly two
// elements. A rejected call leaves the relationship table untouched.
//
// The graph keeps a reference count per element (the number of
// relationships naming it). Adding a relationship increments every
// participant by one, removing decrements by one and never below zero.
// Changing the type of an existing relationship leaves counts alone.
// [Graph.DeleteElement] cascades to every relationship naming the element.
//
// # Concurrency
//
// A Graph is owned by exactly one editing session and is not safe for
// concurrent use. Use [Graph.Clone] to hand a snapshot to another goroutine.
package model
