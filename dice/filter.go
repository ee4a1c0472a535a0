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
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
)

// All passes a batch through unchanged.
type All struct{}

// Position keeps a single column. Negative indexes count from the last column.
type Position struct {
	Index int
}

// Slice keeps the columns start:stop:step with the usual slicing rules:
// missing bounds default to the ends, negative bounds count from the last
// column, out of range bounds are clamped and a negative step walks backwards.
// A zero step is invalid.
type Slice struct {
	Start *int
	Stop  *int
	Step  int
}

// Highest keeps the N highest values of each trial, sorted ascending.
type Highest struct {
	N int
}

// Lowest keeps the N lowest values of each trial, sorted ascending.
type Lowest struct {
	N int
}

// Span creates a slice from start (inclusive) to stop (exclusive).
func Span(start, stop int) Slice {
	return Slice{Start: &start, Stop: &stop, Step: 1}
}

func (All) Kind() Kind                   { return FilterKind }
func (All) OutWidth(in int) (int, error) { return in, nil }
func (All) Apply(b *Batch) (*Batch, error) {
	return b.Clone(), nil
}
func (All) String() string { return "All" }

func (f Position) Kind() Kind { return FilterKind }

func (f Position) OutWidth(in int) (int, error) {
	if in == 0 {
		return 1, nil
	}
	if _, err := f.column(in); err != nil {
		return 0, err
	}
	return 1, nil
}

func (f Position) column(width int) (int, error) {
	idx := f.Index
	if idx < 0 {
		idx += width
	}
	if idx < 0 || idx >= width {
		return 0, errors.Wrapf(ErrNotEnoughDice, "position %d of %d dice", f.Index, width)
	}
	return idx, nil
}

func (f Position) Apply(b *Batch) (*Batch, error) {
	if b.mask != nil {
		return nil, ErrMaskedBatch
	}
	j, err := f.column(b.width)
	if err != nil {
		return nil, err
	}
	out := NewBatch(b.trials, 1)
	for i := 0; i < b.trials; i++ {
		out.data[i] = b.data[i*b.width+j]
	}
	return out, nil
}

func (f Position) String() string { return fmt.Sprintf("Pos(%d)", f.Index) }

func (f Slice) Kind() Kind { return FilterKind }

func (f Slice) OutWidth(in int) (int, error) {
	if in == 0 {
		return 0, nil
	}
	cols, err := f.columns(in)
	if err != nil {
		return 0, err
	}
	return len(cols), nil
}

// columns resolves the slice bounds for the given width.
func (f Slice) columns(width int) ([]int, error) {
	step := f.Step
	if step == 0 {
		return nil, ErrInvalidSlice
	}
	lower, upper := 0, width
	if step < 0 {
		lower, upper = -1, width-1
	}
	clamp := func(bound *int, def int) int {
		if bound == nil {
			return def
		}
		v := *bound
		if v < 0 {
			v += width
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}
	var start, stop int
	if step > 0 {
		start, stop = clamp(f.Start, lower), clamp(f.Stop, upper)
	} else {
		start, stop = clamp(f.Start, upper), clamp(f.Stop, lower)
	}
	cols := []int{}
	for j := start; (step > 0 && j < stop) || (step < 0 && j > stop); j += step {
		cols = append(cols, j)
	}
	if len(cols) == 0 {
		return nil, errors.Wrapf(ErrEmptySelection, "%v of %d dice", f, width)
	}
	return cols, nil
}

func (f Slice) Apply(b *Batch) (*Batch, error) {
	if b.mask != nil {
		return nil, ErrMaskedBatch
	}
	cols, err := f.columns(b.width)
	if err != nil {
		return nil, err
	}
	out := NewBatch(b.trials, len(cols))
	for i := 0; i < b.trials; i++ {
		src, dst := b.row(i), out.row(i)
		for k, j := range cols {
			dst[k] = src[j]
		}
	}
	return out, nil
}

func (f Slice) String() string {
	bound := func(p *int) string {
		if p == nil {
			return ""
		}
		return fmt.Sprint(*p)
	}
	return fmt.Sprintf("Pos(%s:%s:%d)", bound(f.Start), bound(f.Stop), f.Step)
}

func (f Highest) Kind() Kind                   { return FilterKind }
func (f Highest) OutWidth(in int) (int, error) { return sortedWidth(f.N, in) }
func (f Highest) Apply(b *Batch) (*Batch, error) {
	return keepSorted(b, f.N, true)
}
func (f Highest) String() string { return fmt.Sprintf("Highest(%d)", f.N) }

func (f Lowest) Kind() Kind                   { return FilterKind }
func (f Lowest) OutWidth(in int) (int, error) { return sortedWidth(f.N, in) }
func (f Lowest) Apply(b *Batch) (*Batch, error) {
	return keepSorted(b, f.N, false)
}
func (f Lowest) String() string { return fmt.Sprintf("Lowest(%d)", f.N) }

func sortedWidth(n, in int) (int, error) {
	if n < 1 || (in > 0 && n > in) {
		return 0, errors.Wrapf(ErrNotEnoughDice, "keep %d of %d dice", n, in)
	}
	return n, nil
}

// keepSorted sorts every trial ascending and keeps the n highest or lowest
// values. Equal values are indistinguishable, so the order among ties does
// not matter.
func keepSorted(b *Batch, n int, highest bool) (*Batch, error) {
	if b.mask != nil {
		return nil, ErrMaskedBatch
	}
	if _, err := sortedWidth(n, b.width); err != nil {
		return nil, err
	}
	out := NewBatch(b.trials, n)
	tmp := make([]int, b.width)
	for i := 0; i < b.trials; i++ {
		copy(tmp, b.row(i))
		slices.Sort(tmp)
		if highest {
			copy(out.row(i), tmp[b.width-n:])
		} else {
			copy(out.row(i), tmp[:n])
		}
	}
	return out, nil
}
