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

// Package histogram implements probability mass functions over contiguous
// unit-width integer bins and their weighted combination.
package histogram

import (
	"math"

	"github.com/0xsoniclabs/distat/statistics/discrete"
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmpty    = errors.New("histogram requires at least one observation")
	ErrShape    = errors.New("histogram must have one more bin edge than values")
	ErrBinWidth = errors.New("histogram bins must be contiguous unit-width integers")
	ErrWeight   = errors.New("histogram weight must be positive")
)

// DefaultECDFPoints is the number of points kept when simplifying an ECDF.
const DefaultECDFPoints = 64

// Histogram is a probability mass function over unit bins. Bin i covers the
// integers [Bins[i], Bins[i+1]) = {Bins[i]} and has probability Values[i].
type Histogram struct {
	Values []float64
	Bins   []int
}

// FromValues counts the observations into unit bins spanning their minimum
// and maximum, normalized to a pmf.
func FromValues(values []int) (Histogram, error) {
	if len(values) == 0 {
		return Histogram{}, ErrEmpty
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	h := Histogram{
		Values: make([]float64, hi-lo+1),
		Bins:   edges(lo, hi+1),
	}
	for _, v := range values {
		h.Values[v-lo]++
	}
	floats.Scale(1/float64(len(values)), h.Values)
	return h, nil
}

// edges returns the unit bin edges lo, lo+1, ..., hi.
func edges(lo, hi int) []int {
	bins := make([]int, hi-lo+1)
	for i := range bins {
		bins[i] = lo + i
	}
	return bins
}

// Check validates the unit bin layout and the pmf.
func (h Histogram) Check() error {
	if len(h.Values) == 0 {
		return ErrEmpty
	}
	if len(h.Bins) != len(h.Values)+1 {
		return errors.Wrapf(ErrShape, "%d edges for %d values", len(h.Bins), len(h.Values))
	}
	for i := 1; i < len(h.Bins); i++ {
		if h.Bins[i]-h.Bins[i-1] != 1 {
			return errors.Wrapf(ErrBinWidth, "edges %d and %d", h.Bins[i-1], h.Bins[i])
		}
	}
	return discrete.CheckPMF(h.Values)
}

// Min returns the smallest bin value.
func (h Histogram) Min() int { return h.Bins[0] }

// Max returns the largest bin value.
func (h Histogram) Max() int { return h.Bins[len(h.Bins)-2] }

// Lefts returns the left edge of every bin, i.e. the value it stands for.
func (h Histogram) Lefts() []float64 {
	lefts := make([]float64, len(h.Values))
	for i := range lefts {
		lefts[i] = float64(h.Bins[i])
	}
	return lefts
}

// Mean is the sum of the bin probabilities weighted by their left edges.
func (h Histogram) Mean() float64 {
	return floats.Dot(h.Values, h.Lefts())
}

// Variance of the distribution around its mean.
func (h Histogram) Variance() float64 {
	lefts := h.Lefts()
	floats.AddConst(-h.Mean(), lefts)
	floats.Mul(lefts, lefts)
	return math.Max(floats.Dot(h.Values, lefts), 0)
}

// Quantile returns the smallest value whose cumulative probability reaches u.
func (h Histogram) Quantile(u float64) int {
	return h.Bins[discrete.Quantile(h.Values, u)]
}

// Median returns the first value at which the cumulative probability is at
// least one half.
func (h Histogram) Median() int {
	return h.Quantile(0.5)
}

// CDF returns the cumulative probability of every bin.
func (h Histogram) CDF() []float64 {
	return discrete.CDF(h.Values)
}

// ECDF returns the cumulative distribution as (value, probability) points,
// starting at (Min-1, 0). The line is reduced to at most the given number of
// points with the Visvalingam-Whyatt algorithm; non-positive numbers select
// DefaultECDFPoints.
func (h Histogram) ECDF(points int) [][2]float64 {
	if len(h.Values) == 0 {
		return nil
	}
	if points <= 0 {
		points = DefaultECDFPoints
	}
	points = max(points, 2)
	ls := make(orb.LineString, 0, len(h.Values)+1)
	ls = append(ls, orb.Point{float64(h.Min() - 1), 0})
	for i, p := range h.CDF() {
		ls = append(ls, orb.Point{float64(h.Bins[i]), p})
	}
	if len(ls) > points {
		ls = simplify.VisvalingamKeep(points).Simplify(ls).(orb.LineString)
	}
	ecdf := make([][2]float64, len(ls))
	for i := range ls {
		ecdf[i] = [2]float64(ls[i])
	}
	return ecdf
}

// Clone returns a deep copy.
func (h Histogram) Clone() Histogram {
	c := Histogram{
		Values: make([]float64, len(h.Values)),
		Bins:   make([]int, len(h.Bins)),
	}
	copy(c.Values, h.Values)
	copy(c.Bins, h.Bins)
	return c
}

// Combine merges two histograms computed from n1 and n2 observations into the
// histogram of all n1+n2 observations. Both are aligned on the union of their
// bins; a bin missing on one side counts as zero there. The probability of
// every bin is the average of both sides weighted by n1 and n2.
//
// The union is widened to the full contiguous range between the smallest and
// the largest edge so that the result keeps unit bins even if the inputs do
// not overlap.
func Combine(h1 Histogram, n1 int, h2 Histogram, n2 int) (Histogram, error) {
	if n1 < 1 || n2 < 1 {
		return Histogram{}, errors.Wrapf(ErrWeight, "weights %d and %d", n1, n2)
	}
	if err := h1.Check(); err != nil {
		return Histogram{}, errors.Wrap(err, "first histogram")
	}
	if err := h2.Check(); err != nil {
		return Histogram{}, errors.Wrap(err, "second histogram")
	}
	lo := min(h1.Bins[0], h2.Bins[0])
	hi := max(h1.Bins[len(h1.Bins)-1], h2.Bins[len(h2.Bins)-1])
	res := Histogram{
		Values: make([]float64, hi-lo),
		Bins:   edges(lo, hi),
	}
	total := float64(n1) + float64(n2)
	for _, side := range []struct {
		h Histogram
		n int
	}{{h1, n1}, {h2, n2}} {
		offset := side.h.Bins[0] - lo
		dst := res.Values[offset : offset+len(side.h.Values)]
		floats.AddScaled(dst, float64(side.n)/total, side.h.Values)
	}
	return res, nil
}
