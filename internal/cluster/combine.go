package cluster

import "math"

// Combine merges the two clusters whose nearest member cells are closest
// and returns the reduced list. The lower-index cluster absorbs the other,
// keeping list order otherwise intact. Fewer than two clusters are returned
// unchanged.
func Combine(clusters []*Cluster) []*Cluster {
	if len(clusters) < 2 {
		return clusters
	}

	bestI, bestJ := -1, -1
	bestDist := math.Inf(1)
	for i := 0; i < len(clusters); i++ {
		for j := i + 1; j < len(clusters); j++ {
			_, _, d := NearestCells(clusters[i].Cells, clusters[j].Cells)
			if d < bestDist {
				bestDist = d
				bestI, bestJ = i, j
			}
		}
	}

	absorber := clusters[bestI]
	for _, cell := range clusters[bestJ].Cells {
		absorber.Add(cell)
	}

	merged := make([]*Cluster, 0, len(clusters)-1)
	for i, c := range clusters {
		if i == bestJ {
			continue
		}
		merged = append(merged, c)
	}
	return merged
}
