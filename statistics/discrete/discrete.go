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

package discrete

import (
	"math"
	"math/rand"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidProbability = errors.New("invalid probability in the pmf")
	ErrInvalidTotal       = errors.New("total of the pmf is not one")
	ErrNoCounts           = errors.New("counts do not contain any observation")
)

// tolerance of the total probability
const tolerance = 1e-9

// CheckPMF checks if the given probability mass function (pmf) of a
// discrete finite random variable is valid. A valid pmf has all
// probabilities in the range [0,1], and the sum of all probabilities
// must be 1.
func CheckPMF(f []float64) error {
	total := 0.0
	for i, x := range f {
		if x < 0.0 || x > 1.0 || math.IsNaN(x) {
			return errors.Wrapf(ErrInvalidProbability, "probability %v at index %d", x, i)
		}
		total += x
	}
	if math.Abs(total-1.0) > tolerance {
		return errors.Wrapf(ErrInvalidTotal, "total %v", total)
	}
	return nil
}

// FromCounts converts observation counts into a pmf.
func FromCounts(counts []int64) ([]float64, error) {
	total := int64(0)
	for _, c := range counts {
		if c < 0 {
			return nil, errors.Wrapf(ErrInvalidProbability, "negative count %d", c)
		}
		total += c
	}
	if total == 0 {
		return nil, ErrNoCounts
	}
	f := make([]float64, len(counts))
	for i, c := range counts {
		f[i] = float64(c) / float64(total)
	}
	return f, nil
}

// CDF returns the cumulative probabilities of the pmf. The sum is
// computed with Kahan's summation algorithm and capped at one.
func CDF(f []float64) []float64 {
	cdf := make([]float64, len(f))
	sum := 0.0
	c := 0.0
	for i, p := range f {
		y := p - c
		t := sum + y
		c = (t - sum) - y
		sum = t
		cdf[i] = math.Min(sum, 1.0)
	}
	return cdf
}

// Quantile computes the quantile (inverse CDF) of a discrete finite random
// variable given by its pmf. For a probability u in [0,1] it returns the
// smallest index i such that the cumulative probability up to and including
// i is at least u. If u exceeds the total, the last index with a positive
// probability is returned; if all probabilities are zero, it returns 0.
func Quantile(f []float64, u float64) int {
	sum := 0.0 // Kahan's summation of the probabilities
	c := 0.0   // compensation term
	lastPositive := -1
	for i, p := range f {
		y := p - c
		t := sum + y
		c = (t - sum) - y
		sum = t
		if u <= sum {
			return i
		}
		if p > 0.0 {
			lastPositive = i
		}
	}
	if lastPositive != -1 {
		return lastPositive
	}
	return 0
}

// Sample draws an index of the pmf using the provided random generator.
func Sample(rg *rand.Rand, f []float64) int {
	return Quantile(f, rg.Float64())
}
