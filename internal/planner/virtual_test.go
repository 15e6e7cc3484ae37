package planner

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avewell/fieldtours-backend-go/internal/cluster"
	"github.com/avewell/fieldtours-backend-go/internal/grid"
)

func virtualFixture(agents int, points []r2.Point) *Planner {
	p := &Planner{agents: agents, logger: discardLogger()}
	for i, pt := range points {
		p.cover = append(p.cover, &grid.Cell{
			Index:     i,
			Location:  pt,
			TourID:    grid.Unassigned,
			VirtualID: grid.Unassigned,
		})
	}
	return p
}

func TestBuildVirtualClusters(t *testing.T) {
	t.Parallel()

	// Three tight pairs far apart from each other. With four agents the
	// six singletons must merge down to exactly three clusters.
	points := []r2.Point{
		{X: 5, Y: 5}, {X: 15, Y: 5}, // lower left pair
		{X: 95, Y: 5}, {X: 95, Y: 15}, // lower right pair
		{X: 55, Y: 95}, {X: 55, Y: 85}, // upper pair
	}
	p := virtualFixture(4, points)

	p.buildVirtualClusters()
	require.Len(t, p.virtual, 3)

	vcOf := func(cell *grid.Cell) *cluster.Cluster {
		for _, vc := range p.virtual {
			if vc.Contains(cell) {
				return vc
			}
		}
		return nil
	}

	t.Run("pairs merge by proximity", func(t *testing.T) {
		for _, group := range [][2]int{{0, 1}, {2, 3}, {4, 5}} {
			vc := vcOf(p.cover[group[0]])
			require.NotNil(t, vc)
			assert.Same(t, vc, vcOf(p.cover[group[1]]))
			assert.Equal(t, 2, vc.Size())
			assert.Equal(t, cluster.Virtual, vc.Kind)
		}
	})

	t.Run("ids follow polar angle around the lower-left cluster", func(t *testing.T) {
		// Centroids sit at (10,5), (95,10) and (55,90); measured from the
		// lower-left one the angles order lower right before upper.
		assert.Equal(t, 0, vcOf(p.cover[0]).ID)
		assert.Equal(t, 1, vcOf(p.cover[2]).ID)
		assert.Equal(t, 2, vcOf(p.cover[4]).ID)
	})

	t.Run("cells carry their cluster id", func(t *testing.T) {
		for _, cell := range p.cover {
			vc := vcOf(cell)
			require.NotNil(t, vc)
			assert.Equal(t, vc.ID, cell.VirtualID)
			assert.Equal(t, grid.Unassigned, cell.TourID)
		}
	})
}

func TestBuildVirtualClustersMergesToSingle(t *testing.T) {
	t.Parallel()

	points := []r2.Point{
		{X: 5, Y: 5}, {X: 15, Y: 5},
		{X: 95, Y: 5}, {X: 95, Y: 15},
		{X: 55, Y: 95}, {X: 55, Y: 85},
	}
	p := virtualFixture(2, points)

	p.buildVirtualClusters()
	require.Len(t, p.virtual, 1)

	vc := p.virtual[0]
	assert.Equal(t, 0, vc.ID)
	assert.Equal(t, len(points), vc.Size())
	for _, cell := range p.cover {
		assert.Equal(t, 0, cell.VirtualID)
	}
}

func TestBuildVirtualClustersKeepsSparseCover(t *testing.T) {
	t.Parallel()

	// Fewer cover cells than the merge target: no merging happens, the
	// singletons are only relabeled by angle.
	p := virtualFixture(4, []r2.Point{{X: 90, Y: 30}, {X: 10, Y: 10}})

	p.buildVirtualClusters()
	require.Len(t, p.virtual, 2)

	assert.Equal(t, 0, p.cover[1].VirtualID)
	assert.Equal(t, 1, p.cover[0].VirtualID)
	for _, vc := range p.virtual {
		assert.Equal(t, 1, vc.Size())
	}
}
