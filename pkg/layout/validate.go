package layout

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/ievis/pkg/model"
)

// DefaultRadius is the node clearance used by [Validate].
const DefaultRadius = 5.0

// IssueKind classifies a layout diagnostic.
type IssueKind string

const (
	IssueNodeNearEdge IssueKind = "node_near_edge"
	IssueEdgeCrossing IssueKind = "edge_crossing"
)

// Issue is one diagnostic finding.
type Issue struct {
	Kind  IssueKind `json:"kind"`
	Edge  [2]string `json:"edge"`
	Node  string    `json:"node,omitempty"`  // IssueNodeNearEdge
	Other [2]string `json:"other,omitzero"` // IssueEdgeCrossing
}

func (i Issue) String() string {
	if i.Kind == IssueNodeNearEdge {
		return fmt.Sprintf("edge %s-%s passes within clearance of %s", i.Edge[0], i.Edge[1], i.Node)
	}
	return fmt.Sprintf("edge %s-%s crosses %s-%s", i.Edge[0], i.Edge[1], i.Other[0], i.Other[1])
}

// Validate checks positions in the xy plane for edges passing within radius
// of a node that is not an endpoint, and for edges that cross. Pairs of
// edges sharing an endpoint are not compared. It only reports.
func Validate(pos map[string]model.Vec3, edges []Edge, radius float64) []Issue {
	if radius <= 0 {
		radius = DefaultRadius
	}
	var issues []Issue
	for _, e := range edges {
		p1, ok1 := pos[e.A]
		p2, ok2 := pos[e.B]
		if !ok1 || !ok2 {
			continue
		}
		for id, q := range sortedPositions(pos) {
			if id == e.A || id == e.B {
				continue
			}
			if nearSegment(q, p1, p2, radius) {
				issues = append(issues, Issue{Kind: IssueNodeNearEdge, Edge: [2]string{e.A, e.B}, Node: id})
			}
		}
	}
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			a, b := edges[i], edges[j]
			if a.A == b.A || a.A == b.B || a.B == b.A || a.B == b.B {
				continue
			}
			pa1, ok1 := pos[a.A]
			pa2, ok2 := pos[a.B]
			pb1, ok3 := pos[b.A]
			pb2, ok4 := pos[b.B]
			if !ok1 || !ok2 || !ok3 || !ok4 {
				continue
			}
			if intersect(pa1, pa2, pb1, pb2) {
				issues = append(issues, Issue{Kind: IssueEdgeCrossing, Edge: [2]string{a.A, a.B}, Other: [2]string{b.A, b.B}})
			}
		}
	}
	return issues
}

// nearSegment reports whether q lies within radius of the line through p1
// and p2, with its projection inside the segment.
func nearSegment(q, p1, p2 model.Vec3, radius float64) bool {
	a := p2.Y - p1.Y
	b := p1.X - p2.X
	c := p1.Y*(p2.X-p1.X) - (p2.Y-p1.Y)*p1.X
	norm := math.Hypot(a, b)
	if norm == 0 {
		return math.Hypot(q.X-p1.X, q.Y-p1.Y) <= radius
	}
	if math.Abs(a*q.X+b*q.Y+c)/norm > radius {
		return false
	}
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	t := ((q.X-p1.X)*dx + (q.Y-p1.Y)*dy) / (dx*dx + dy*dy)
	return t >= 0 && t <= 1
}

func ccw(a, b, c model.Vec3) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// intersect reports whether segments ab and cd properly cross.
func intersect(a, b, c, d model.Vec3) bool {
	return ccw(a, c, d) != ccw(b, c, d) && ccw(a, b, c) != ccw(a, b, d)
}

// sortedPositions iterates pos in id order.
func sortedPositions(pos map[string]model.Vec3) iter.Seq2[string, model.Vec3] {
	return func(yield func(string, model.Vec3) bool) {
		for _, id := range slices.Sorted(maps.Keys(pos)) {
			if !yield(id, pos[id]) {
				return
			}
		}
	}
}
