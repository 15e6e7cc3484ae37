package spatial

import (
	"math"

	"github.com/golang/geo/r2"
)

// Centroid calculates the centroid of a set of field points
func Centroid(points []r2.Point) r2.Point {
	if len(points) == 0 {
		return r2.Point{}
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}

	return r2.Point{
		X: sumX / float64(len(points)),
		Y: sumY / float64(len(points)),
	}
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []r2.Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += Distance(points[i-1], points[i])
	}

	return totalDist
}

// SpanningTreeLength returns the total edge weight of a minimum spanning tree
// over the given points (Prim's algorithm, O(n^2)). The result depends only on
// the point set, not on its order, which makes it a membership-pure length
// proxy for a collection tour.
func SpanningTreeLength(points []r2.Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}

	inTree := make([]bool, n)
	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}

	inTree[0] = true
	for i := 1; i < n; i++ {
		minDist[i] = Distance(points[0], points[i])
	}

	var total float64
	for added := 1; added < n; added++ {
		next := -1
		for i := 0; i < n; i++ {
			if inTree[i] {
				continue
			}
			if next == -1 || minDist[i] < minDist[next] {
				next = i
			}
		}

		total += minDist[next]
		inTree[next] = true

		for i := 0; i < n; i++ {
			if inTree[i] {
				continue
			}
			if d := Distance(points[next], points[i]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return total
}
