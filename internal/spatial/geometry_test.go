package spatial

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Distance(r2.Point{X: 3, Y: 4}, r2.Point{X: 3, Y: 4}))
	assert.InDelta(t, 5.0, Distance(r2.Point{}, r2.Point{X: 3, Y: 4}), 1e-12)
	assert.InDelta(t, math.Sqrt2, Distance(r2.Point{X: 1, Y: 1}, r2.Point{X: 2, Y: 2}), 1e-12)
}

func TestPolarAngle(t *testing.T) {
	t.Parallel()

	origin := r2.Point{X: 10, Y: 10}

	t.Run("cardinal directions", func(t *testing.T) {
		assert.InDelta(t, 0, PolarAngle(r2.Point{X: 20, Y: 10}, origin), 1e-12)
		assert.InDelta(t, math.Pi/2, PolarAngle(r2.Point{X: 10, Y: 20}, origin), 1e-12)
		assert.InDelta(t, math.Pi, PolarAngle(r2.Point{X: 0, Y: 10}, origin), 1e-12)
		assert.InDelta(t, -math.Pi/2, PolarAngle(r2.Point{X: 10, Y: 0}, origin), 1e-12)
	})

	t.Run("origin maps to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, PolarAngle(origin, origin))
	})
}

func TestLowerLeftIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, LowerLeftIndex(nil))

	points := []r2.Point{
		{X: 5, Y: 0},
		{X: 1, Y: 9},
		{X: 1, Y: 2},
		{X: 3, Y: -4},
	}
	// X wins first, then Y breaks the tie between the two X==1 points.
	assert.Equal(t, 2, LowerLeftIndex(points))
}

func TestNearestIndices(t *testing.T) {
	t.Parallel()

	t.Run("empty collections", func(t *testing.T) {
		i, j, d := NearestIndices(nil, []r2.Point{{X: 1}})
		assert.Equal(t, -1, i)
		assert.Equal(t, -1, j)
		assert.True(t, math.IsInf(d, 1))
	})

	t.Run("picks the closest cross pair", func(t *testing.T) {
		a := []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
		b := []r2.Point{{X: 4, Y: 0}, {X: 11, Y: 0}}

		i, j, d := NearestIndices(a, b)
		assert.Equal(t, 1, i)
		assert.Equal(t, 1, j)
		assert.InDelta(t, 1.0, d, 1e-12)
	})

	t.Run("first pair wins ties", func(t *testing.T) {
		a := []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}}
		b := []r2.Point{{X: 2, Y: 0}}

		i, j, _ := NearestIndices(a, b)
		assert.Equal(t, 0, i)
		assert.Equal(t, 0, j)
	})
}

func TestCentroid(t *testing.T) {
	t.Parallel()

	assert.Equal(t, r2.Point{}, Centroid(nil))

	c := Centroid([]r2.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	assert.InDelta(t, 1.0, c.X, 1e-12)
	assert.InDelta(t, 1.0, c.Y, 1e-12)
}

func TestPathLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, PathLength([]r2.Point{{X: 1, Y: 1}}))

	length := PathLength([]r2.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}})
	assert.InDelta(t, 7.0, length, 1e-12)
}

func TestSpanningTreeLength(t *testing.T) {
	t.Parallel()

	t.Run("degenerate sets", func(t *testing.T) {
		assert.Equal(t, 0.0, SpanningTreeLength(nil))
		assert.Equal(t, 0.0, SpanningTreeLength([]r2.Point{{X: 7, Y: 7}}))
	})

	t.Run("collinear chain", func(t *testing.T) {
		points := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 5, Y: 0}}
		assert.InDelta(t, 5.0, SpanningTreeLength(points), 1e-12)
	})

	t.Run("order independent", func(t *testing.T) {
		a := []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 7, Y: 7}}
		b := []r2.Point{a[3], a[1], a[0], a[2]}

		require.InDelta(t, SpanningTreeLength(a), SpanningTreeLength(b), 1e-9)
	})
}
