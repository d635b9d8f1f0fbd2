package layout

import (
	"github.com/matzehuels/ievis/pkg/model"
)

// Seeded propagates edge coordinates onto nodes.
//
// Each round picks the unassigned node with the fewest remaining edges
// (ties go to the earliest id in ids) and consumes one of its remaining
// edges, preferring one that carries a coordinate. A coordinate is assigned
// to the node and, if still unassigned, to the other endpoint. The edge is
// then removed from both endpoints. Nodes whose remaining count reaches zero
// drop out of selection; nodes never reached stay at the origin.
//
// The returned step count is the number of rounds that assigned a
// coordinate. For a connected graph of N nodes whose edges all carry
// coordinates it is at most N-1.
func Seeded(ids []string, edges []Edge) (map[string]model.Vec3, int) {
	pos := make(map[string]model.Vec3, len(ids))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = model.Vec3{}
		index[id] = i
	}

	remaining := make([][]int, len(ids))
	for ei, e := range edges {
		a, okA := index[e.A]
		b, okB := index[e.B]
		if !okA || !okB || a == b {
			continue
		}
		remaining[a] = append(remaining[a], ei)
		remaining[b] = append(remaining[b], ei)
	}

	assigned := make([]bool, len(ids))
	steps := 0
	for {
		node := -1
		for i := range ids {
			if assigned[i] || len(remaining[i]) == 0 {
				continue
			}
			if node < 0 || len(remaining[i]) < len(remaining[node]) {
				node = i
			}
		}
		if node < 0 {
			break
		}

		pick := 0
		for k, ei := range remaining[node] {
			if edges[ei].HasCoord() {
				pick = k
				break
			}
		}
		ei := remaining[node][pick]
		e := edges[ei]
		id := ids[node]
		other := index[e.other(id)]

		if c := e.coordFor(id); c != nil {
			pos[id] = *c
			assigned[node] = true
			if !assigned[other] {
				pos[ids[other]] = *e.coordFor(ids[other])
				assigned[other] = true
			}
			steps++
		}
		remaining[node] = removeEdge(remaining[node], ei)
		remaining[other] = removeEdge(remaining[other], ei)
	}
	return pos, steps
}

func removeEdge(list []int, ei int) []int {
	for i, v := range list {
		if v == ei {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
