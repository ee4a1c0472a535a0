// Copyright 2025 Sonic Labs
// This file is part of Distat
//
// Distat is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Distat is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Distat. If not, see <http://www.gnu.org/licenses/>.

package histogram

import (
	"math/rand"
	"testing"

	"github.com/0xsoniclabs/distat/statistics/discrete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram_FromValues(t *testing.T) {
	h, err := FromValues([]int{3, 5, 5, 3, 7})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, h.Bins)
	assert.InDeltaSlice(t, []float64{0.4, 0, 0.4, 0, 0.2}, h.Values, 1e-12)
	require.NoError(t, h.Check())
	assert.Equal(t, 3, h.Min())
	assert.Equal(t, 7, h.Max())
}

func TestHistogram_FromValuesRejectsEmpty(t *testing.T) {
	_, err := FromValues(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestHistogram_SingleOutcome(t *testing.T) {
	h, err := FromValues([]int{4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, h.Bins)
	assert.Equal(t, []float64{1}, h.Values)
	assert.Equal(t, 4.0, h.Mean())
	assert.Equal(t, 4, h.Median())
	assert.Equal(t, 0.0, h.Variance())
}

func TestHistogram_Check(t *testing.T) {
	tests := map[string]struct {
		h    Histogram
		want error
	}{
		"empty":      {Histogram{}, ErrEmpty},
		"shape":      {Histogram{Values: []float64{1}, Bins: []int{1}}, ErrShape},
		"gap":        {Histogram{Values: []float64{0.5, 0.5}, Bins: []int{1, 2, 4}}, ErrBinWidth},
		"wide":       {Histogram{Values: []float64{1}, Bins: []int{0, 2}}, ErrBinWidth},
		"descending": {Histogram{Values: []float64{0.5, 0.5}, Bins: []int{3, 2, 1}}, ErrBinWidth},
		"pmf":        {Histogram{Values: []float64{0.5, 0.6}, Bins: []int{1, 2, 3}}, discrete.ErrInvalidTotal},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, test.h.Check(), test.want)
		})
	}
}

func TestHistogram_Statistics(t *testing.T) {
	// two dice
	h := Histogram{Bins: []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}}
	for s := 2; s <= 12; s++ {
		d := s - 7
		if d < 0 {
			d = -d
		}
		h.Values = append(h.Values, float64(6-d)/36)
	}
	require.NoError(t, h.Check())
	assert.InDelta(t, 7.0, h.Mean(), 1e-9)
	assert.InDelta(t, 35.0/6, h.Variance(), 1e-9)
	assert.Equal(t, 7, h.Median())
	assert.Equal(t, 2, h.Quantile(0))
	assert.Equal(t, 12, h.Quantile(1))
	cdf := h.CDF()
	assert.InDelta(t, 1.0/36, cdf[0], 1e-12)
	assert.InDelta(t, 1.0, cdf[len(cdf)-1], 1e-12)
}

func TestHistogram_MedianAtHalfBoundary(t *testing.T) {
	h := Histogram{Values: []float64{0.5, 0.5}, Bins: []int{1, 2, 3}}
	assert.Equal(t, 1, h.Median())
}

func TestHistogram_CombineDisjointKeepsUnitBins(t *testing.T) {
	h1 := Histogram{Values: []float64{1}, Bins: []int{1, 2}}
	h2 := Histogram{Values: []float64{0.5, 0.5}, Bins: []int{4, 5, 6}}
	res, err := Combine(h1, 1, h2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, res.Bins)
	assert.InDeltaSlice(t, []float64{0.25, 0, 0, 0.375, 0.375}, res.Values, 1e-12)
	require.NoError(t, res.Check())
}

func TestHistogram_CombineEqualsDirectCount(t *testing.T) {
	a := []int{1, 2, 2, 3}
	b := []int{2, 3, 4, 4, 4, 5}
	h1, err := FromValues(a)
	require.NoError(t, err)
	h2, err := FromValues(b)
	require.NoError(t, err)
	direct, err := FromValues(append(append([]int{}, a...), b...))
	require.NoError(t, err)

	merged, err := Combine(h1, len(a), h2, len(b))
	require.NoError(t, err)
	assert.Equal(t, direct.Bins, merged.Bins)
	assert.InDeltaSlice(t, direct.Values, merged.Values, 1e-12)
	assert.InDelta(t, direct.Mean(), merged.Mean(), 1e-12)
	assert.Equal(t, direct.Median(), merged.Median())

	// the merge does not depend on the order of its arguments
	swapped, err := Combine(h2, len(b), h1, len(a))
	require.NoError(t, err)
	assert.InDeltaSlice(t, merged.Values, swapped.Values, 1e-12)
}

func TestHistogram_CombineValidatesInputs(t *testing.T) {
	good := Histogram{Values: []float64{1}, Bins: []int{1, 2}}
	bad := Histogram{Values: []float64{1}, Bins: []int{1, 3}}
	_, err := Combine(good, 1, bad, 1)
	assert.ErrorIs(t, err, ErrBinWidth)
	_, err = Combine(bad, 1, good, 1)
	assert.ErrorIs(t, err, ErrBinWidth)
	_, err = Combine(good, 0, good, 1)
	assert.ErrorIs(t, err, ErrWeight)
}

func TestHistogram_CombineManySamples(t *testing.T) {
	rg := rand.New(rand.NewSource(42))
	roll := func(n int) []int {
		res := make([]int, n)
		for i := range res {
			res[i] = rg.Intn(6) + rg.Intn(6) + 2
		}
		return res
	}
	h1, err := FromValues(roll(20000))
	require.NoError(t, err)
	h2, err := FromValues(roll(60000))
	require.NoError(t, err)
	merged, err := Combine(h1, 20000, h2, 60000)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, merged.Mean(), 0.05)
	assert.Equal(t, 7, merged.Median())
}

func TestHistogram_ECDF(t *testing.T) {
	h := Histogram{Values: []float64{0.25, 0.5, 0.25}, Bins: []int{1, 2, 3, 4}}
	ecdf := h.ECDF(0)
	require.Len(t, ecdf, 4)
	assert.Equal(t, [2]float64{0, 0}, ecdf[0])
	assert.Equal(t, [2]float64{1, 0.25}, ecdf[1])
	assert.Equal(t, [2]float64{3, 1}, ecdf[3])

	wide := Histogram{Bins: []int{0}}
	for i := 0; i < 200; i++ {
		wide.Values = append(wide.Values, 1.0/200)
		wide.Bins = append(wide.Bins, i+1)
	}
	simplified := wide.ECDF(10)
	assert.LessOrEqual(t, len(simplified), 10)
	assert.Equal(t, [2]float64{-1, 0}, simplified[0])
	assert.Equal(t, 199.0, simplified[len(simplified)-1][0])
	assert.InDelta(t, 1.0, simplified[len(simplified)-1][1], 1e-9)
	assert.Nil(t, Histogram{}.ECDF(5))
}

func TestHistogram_CloneIsIndependent(t *testing.T) {
	h := Histogram{Values: []float64{1}, Bins: []int{1, 2}}
	c := h.Clone()
	c.Values[0] = 0
	c.Bins[0] = 7
	assert.Equal(t, 1.0, h.Values[0])
	assert.Equal(t, 1, h.Bins[0])
}
