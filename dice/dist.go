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

package dice

import (
	"math"
	"math/rand"

	"github.com/0xsoniclabs/distat/statistics/discrete"
	"github.com/0xsoniclabs/distat/statistics/histogram"
	"github.com/cockroachdb/errors"
)

// Dist is the empirical distribution of a roll definition's outcomes over
// unit bins. Bin i stands for the value Bins[i] and has probability
// Values[i]. Accuracy can be added incrementally.
type Dist struct {
	RollDef  *RollDef
	Values   []float64
	Bins     []int
	Mean     float64
	Median   int
	Variance float64
	N        int
}

// NewDist evaluates n trials of the roll definition into a distribution.
func NewDist(rg *rand.Rand, rd *RollDef, n int) (*Dist, error) {
	if rd == nil {
		return nil, ErrNilSource
	}
	h, err := sampleHistogram(rg, rd, n)
	if err != nil {
		return nil, err
	}
	d := &Dist{RollDef: rd, N: n}
	d.set(h)
	return d, nil
}

// RestoreDist recreates a recorded distribution. The statistics are
// recomputed from the histogram.
func RestoreDist(rd *RollDef, n int, bins []int, values []float64) (*Dist, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidTrials, "trials %d", n)
	}
	h := histogram.Histogram{Values: values, Bins: bins}
	if err := h.Check(); err != nil {
		return nil, err
	}
	d := &Dist{RollDef: rd, N: n}
	d.set(h.Clone())
	return d, nil
}

func sampleHistogram(rg *rand.Rand, rd *RollDef, n int) (histogram.Histogram, error) {
	b, err := rd.Roll(rg, n)
	if err != nil {
		return histogram.Histogram{}, err
	}
	values, err := b.Scalars()
	if err != nil {
		return histogram.Histogram{}, err
	}
	return histogram.FromValues(values)
}

func (d *Dist) set(h histogram.Histogram) {
	d.Values = h.Values
	d.Bins = h.Bins
	d.Mean = h.Mean()
	d.Median = h.Median()
	d.Variance = h.Variance()
}

// Histogram returns a copy of the distribution's histogram.
func (d *Dist) Histogram() histogram.Histogram {
	return histogram.Histogram{Values: d.Values, Bins: d.Bins}.Clone()
}

// AddAccuracy evaluates n more trials and merges them into the distribution.
func (d *Dist) AddAccuracy(rg *rand.Rand, n int) error {
	if d.RollDef == nil {
		return ErrNilSource
	}
	h, err := sampleHistogram(rg, d.RollDef, n)
	if err != nil {
		return err
	}
	return d.merge(h, n)
}

// Merge adds the trials of another distribution of the same roll. A
// distribution without a roll definition can be merged with any other.
func (d *Dist) Merge(other *Dist) error {
	if other == nil {
		return errors.Wrap(ErrRollMismatch, "nothing to merge")
	}
	if d.RollDef != nil && other.RollDef != nil && !sameRollDef(d.RollDef, other.RollDef) {
		return errors.Wrapf(ErrRollMismatch, "%v and %v", d.RollDef, other.RollDef)
	}
	return d.merge(other.Histogram(), other.N)
}

func (d *Dist) merge(h histogram.Histogram, n int) error {
	merged, err := histogram.Combine(d.Histogram(), d.N, h, n)
	if err != nil {
		return err
	}
	d.set(merged)
	d.N += n
	return nil
}

// StdDev returns the standard deviation.
func (d *Dist) StdDev() float64 { return math.Sqrt(d.Variance) }

// Min returns the smallest observed value.
func (d *Dist) Min() int { return d.Bins[0] }

// Max returns the largest observed value.
func (d *Dist) Max() int { return d.Bins[len(d.Bins)-2] }

// CDF returns the cumulative probability of every bin.
func (d *Dist) CDF() []float64 { return discrete.CDF(d.Values) }

// ECDF returns the simplified cumulative distribution as (value, probability)
// points.
func (d *Dist) ECDF(points int) [][2]float64 {
	return histogram.Histogram{Values: d.Values, Bins: d.Bins}.ECDF(points)
}

// Quantile returns the smallest value whose cumulative probability is at
// least u.
func (d *Dist) Quantile(u float64) int {
	return d.Bins[discrete.Quantile(d.Values, u)]
}

// Sample draws a value from the distribution.
func (d *Dist) Sample(rg *rand.Rand) int {
	return d.Bins[discrete.Sample(rg, d.Values)]
}
