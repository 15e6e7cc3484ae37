package spatial

import (
	"math"

	"github.com/golang/geo/r2"
)

// Distance returns the Euclidean distance between two field points in meters.
// Field coordinates are planar meters, so no geodesic correction applies.
func Distance(p, q r2.Point) float64 {
	return p.Sub(q).Norm()
}

// PolarAngle returns the polar angle of p around origin in radians (-pi, pi],
// measured counter-clockwise from the positive x axis.
func PolarAngle(p, origin r2.Point) float64 {
	v := p.Sub(origin)
	return math.Atan2(v.Y, v.X)
}

// LowerLeftIndex returns the index of the lexicographically smallest point
// (by X, then Y). Returns -1 for an empty slice.
func LowerLeftIndex(points []r2.Point) int {
	if len(points) == 0 {
		return -1
	}
	best := 0
	for i, p := range points[1:] {
		o := points[best]
		if p.X < o.X || (p.X == o.X && p.Y < o.Y) {
			best = i + 1
		}
	}
	return best
}

// NearestIndices returns the indices (i, j) of the closest cross pair between
// two point collections and their distance. Ties keep the first pair found,
// scanning a then b in order, so results are deterministic for a fixed input
// order. Returns (-1, -1, +Inf) when either collection is empty.
func NearestIndices(a, b []r2.Point) (int, int, float64) {
	bi, bj := -1, -1
	best := math.Inf(1)
	for i, p := range a {
		for j, q := range b {
			if d := Distance(p, q); d < best {
				bi, bj, best = i, j, d
			}
		}
	}
	return bi, bj, best
}
