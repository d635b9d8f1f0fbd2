package layout

import (
	"math"

	"github.com/matzehuels/ievis/pkg/model"
)

// Range is the display range positions are mapped into.
type Range struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// DefaultRange is x in [-100, 100] and y in [-50, 50].
var DefaultRange = Range{MinX: -100, MaxX: 100, MinY: -50, MaxY: 50}

// Rescale maps positions per axis by an affine min-max transform into r.
// An axis with zero span maps to the centre of its range. Z is untouched.
func Rescale(pos map[string]model.Vec3, r Range) map[string]model.Vec3 {
	out := make(map[string]model.Vec3, len(pos))
	if len(pos) == 0 {
		return out
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for id, p := range pos {
		out[id] = model.Vec3{
			X: affine(p.X, minX, maxX, r.MinX, r.MaxX),
			Y: affine(p.Y, minY, maxY, r.MinY, r.MaxY),
			Z: p.Z,
		}
	}
	return out
}

func affine(v, lo, hi, toLo, toHi float64) float64 {
	if hi-lo == 0 {
		return (toLo + toHi) / 2
	}
	return toLo + (v-lo)*(toHi-toLo)/(hi-lo)
}
