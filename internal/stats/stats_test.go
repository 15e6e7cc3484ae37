package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestPopStdDev(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, PopStdDev(nil))
	assert.Equal(t, 0.0, PopStdDev([]float64{7}))

	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2.
	assert.InDelta(t, 2.0, PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestCoefficientOfVariation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{-1, 1}))

	// Mean 5, population stddev 2.
	assert.InDelta(t, 0.4, CoefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestMinMaxSum(t *testing.T) {
	t.Parallel()

	values := []float64{3, -1, 4, 1.5}
	assert.Equal(t, -1.0, Min(values))
	assert.Equal(t, 4.0, Max(values))
	assert.InDelta(t, 7.5, Sum(values), 1e-12)

	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 0.0, Sum(nil))
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4}

	t.Run("endpoints", func(t *testing.T) {
		assert.Equal(t, 1.0, Quantile(values, 0))
		assert.Equal(t, 4.0, Quantile(values, 1))
	})

	t.Run("linear interpolation", func(t *testing.T) {
		assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-12)
		assert.InDelta(t, 1.75, Quantile(values, 0.25), 1e-12)
	})

	t.Run("out of range clamps", func(t *testing.T) {
		assert.Equal(t, 1.0, Quantile(values, -0.5))
		assert.Equal(t, 4.0, Quantile(values, 1.5))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		unsorted := []float64{9, 1, 5}
		Quantile(unsorted, 0.5)
		assert.Equal(t, []float64{9, 1, 5}, unsorted)
	})
}

func TestMedian(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 3.0, Median([]float64{5, 1, 3}), 1e-12)
	assert.InDelta(t, 2.5, Median([]float64{4, 1, 3, 2}), 1e-12)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 2.0, s.Q1, 1e-12)
	assert.InDelta(t, 3.0, s.Median, 1e-12)
	assert.InDelta(t, 4.0, s.Q3, 1e-12)
	assert.Equal(t, 5.0, s.Max)
}
