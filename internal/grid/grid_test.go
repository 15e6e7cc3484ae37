package grid

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		WidthMeters:           100,
		HeightMeters:          100,
		CellSideMeters:        10,
		CollectionRangeMeters: 10,
	}
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a sane field", func(t *testing.T) {
		assert.NoError(t, testParams().Validate())
	})

	t.Run("rejects non-positive dimensions", func(t *testing.T) {
		p := testParams()
		p.WidthMeters = 0
		assert.Error(t, p.Validate())
	})

	t.Run("rejects non-positive cell side", func(t *testing.T) {
		p := testParams()
		p.CellSideMeters = -5
		assert.Error(t, p.Validate())
	})

	t.Run("rejects a range shorter than the cell diagonal half", func(t *testing.T) {
		p := testParams()
		p.CollectionRangeMeters = 7 // below 10 × √2 / 2 ≈ 7.07
		assert.Error(t, p.Validate())
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires segments", func(t *testing.T) {
		_, err := New(nil, testParams())
		assert.Error(t, err)
	})

	t.Run("rejects segments outside the field", func(t *testing.T) {
		_, err := New([]r2.Point{{X: 150, Y: 50}}, testParams())
		assert.Error(t, err)
	})

	t.Run("builds the lattice", func(t *testing.T) {
		g, err := New([]r2.Point{{X: 25, Y: 35}}, testParams())
		require.NoError(t, err)

		assert.Equal(t, 10, g.Rows)
		assert.Equal(t, 10, g.Cols)
		assert.Len(t, g.Cells(), 100)
		assert.Equal(t, 10, g.MaxDimension())

		center := g.Center()
		require.NotNil(t, center)
		assert.Equal(t, 5, center.Row)
		assert.Equal(t, 5, center.Col)
		assert.Equal(t, 0, center.Proximity)

		corner := g.CellAt(0, 0)
		require.NotNil(t, corner)
		assert.Equal(t, 5, corner.Proximity)
		assert.Equal(t, r2.Point{X: 5, Y: 5}, corner.Location)

		assert.Nil(t, g.CellAt(10, 0))
		assert.Nil(t, g.CellAt(0, -1))
	})
}

func TestSegmentBinding(t *testing.T) {
	t.Parallel()

	// A segment on a cell centre reaches that cell plus its four edge
	// neighbors at exactly 10m, but no diagonal neighbor (≈14.1m).
	g, err := New([]r2.Point{{X: 25, Y: 35}}, testParams())
	require.NoError(t, err)

	seg := g.Segments()[0]
	assert.Equal(t, 0, seg.ID)
	assert.Nil(t, seg.Collector)

	var reachable []*Cell
	for _, cell := range g.Cells() {
		if cell.Access > 0 {
			reachable = append(reachable, cell)
		}
	}
	require.Len(t, reachable, 5)
	for _, cell := range reachable {
		assert.Equal(t, []*Segment{seg}, cell.Segments)
		assert.LessOrEqual(t, CellDistance(cell, g.CellAt(3, 2)), 1)
	}

	// Cells start unassigned.
	for _, cell := range g.Cells() {
		assert.False(t, cell.Assigned())
		assert.Equal(t, Unassigned, cell.VirtualID)
	}
}

func TestSignalHopCount(t *testing.T) {
	t.Parallel()

	g, err := New([]r2.Point{{X: 25, Y: 35}}, testParams())
	require.NoError(t, err)

	// The containing cell's one-hop reach covers its 4 edge neighbors, all
	// of which can see the segment.
	assert.Equal(t, 1, g.CellAt(3, 2).SignalHopCount)

	// A far corner has no segment within one hop.
	assert.Equal(t, 0, g.CellAt(9, 9).SignalHopCount)
}

func TestCellDistance(t *testing.T) {
	t.Parallel()

	g, err := New([]r2.Point{{X: 50, Y: 50}}, testParams())
	require.NoError(t, err)

	assert.Equal(t, 0, CellDistance(g.CellAt(4, 4), g.CellAt(4, 4)))
	assert.Equal(t, 3, CellDistance(g.CellAt(0, 0), g.CellAt(3, 1)))
	assert.Equal(t, 7, CellDistance(g.CellAt(2, 9), g.CellAt(9, 2)))
}

func TestNeighborsAt(t *testing.T) {
	t.Parallel()

	g, err := New([]r2.Point{{X: 50, Y: 50}}, testParams())
	require.NoError(t, err)

	t.Run("interior ring sizes", func(t *testing.T) {
		assert.Len(t, g.NeighborsAt(5, 5, 1), 8)
		assert.Len(t, g.NeighborsAt(5, 5, 2), 16)
	})

	t.Run("corner is clipped", func(t *testing.T) {
		assert.Len(t, g.NeighborsAt(0, 0, 1), 3)
	})

	t.Run("ring holds only cells at the exact distance", func(t *testing.T) {
		origin := g.CellAt(5, 5)
		for _, cell := range g.NeighborsAt(5, 5, 3) {
			assert.Equal(t, 3, CellDistance(origin, cell))
		}
	})

	t.Run("radius beyond the grid is empty", func(t *testing.T) {
		assert.Empty(t, g.NeighborsAt(0, 0, 15))
		assert.Empty(t, g.NeighborsAt(5, 5, 0))
	})

	t.Run("neighbors field matches radius one", func(t *testing.T) {
		assert.Equal(t, g.NeighborsAt(5, 5, 1), g.CellAt(5, 5).Neighbors)
	})
}
