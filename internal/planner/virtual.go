package planner

import (
	"sort"

	"github.com/golang/geo/r2"

	"github.com/avewell/fieldtours-backend-go/internal/cluster"
	"github.com/avewell/fieldtours-backend-go/internal/spatial"
)

// buildVirtualClusters reduces the cover to agentCount-1 virtual clusters
// by repeated pairwise merging, then relabels them in polar-angle order so
// an id difference of one means angular adjacency.
func (p *Planner) buildVirtualClusters() {
	vcs := make([]*cluster.Cluster, 0, len(p.cover))
	for i, cell := range p.cover {
		vc := cluster.New(cluster.Virtual, i)
		vc.Add(cell)
		vcs = append(vcs, vc)
	}

	target := p.agents - 1
	for len(vcs) > target {
		vcs = cluster.Combine(vcs)
	}

	relabelByAngle(vcs)
	p.virtual = vcs

	for _, vc := range p.virtual {
		p.logf("%s holds %d cells", vc, vc.Size())
	}
}

// relabelByAngle assigns ids 0..k-1 in order of polar angle around the
// cluster at the lexicographically smallest centroid. Growth and
// balancing both use id adjacency as their spatial adjacency proxy, so
// the ordering is load-bearing.
func relabelByAngle(vcs []*cluster.Cluster) {
	centroids := make([]r2.Point, len(vcs))
	for i, vc := range vcs {
		centroids[i] = vc.Centroid()
	}
	origin := centroids[spatial.LowerLeftIndex(centroids)]

	order := make([]int, len(vcs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return spatial.PolarAngle(centroids[order[a]], origin) <
			spatial.PolarAngle(centroids[order[b]], origin)
	})

	for rank, idx := range order {
		vcs[idx].Relabel(rank)
	}
}
