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

	"github.com/cockroachdb/errors"
)

// Batch holds the values of many independent trials as a trials x width
// matrix in row-major order. Row i holds the dice of trial i.
//
// A batch may carry a selection mask produced by a selector aggregation;
// unselected positions are absent from reductions and from Values. A reduced
// batch holds exactly one scalar per trial.
type Batch struct {
	trials  int
	width   int
	data    []int
	mask    []bool // nil if every position is selected
	reduced bool   // true once a reduction produced one value per trial
}

// NewBatch creates a zero filled batch.
func NewBatch(trials, width int) *Batch {
	return &Batch{
		trials: trials,
		width:  width,
		data:   make([]int, trials*width),
	}
}

// NewBatchFromRows creates a batch from explicit rows. All rows must have the
// same length.
func NewBatchFromRows(rows [][]int) (*Batch, error) {
	if len(rows) == 0 {
		return nil, ErrInvalidTrials
	}
	width := len(rows[0])
	b := NewBatch(len(rows), width)
	for i, row := range rows {
		if len(row) != width {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d values, expected %d", i, len(row), width)
		}
		copy(b.row(i), row)
	}
	return b, nil
}

// NewReducedBatch creates a reduced batch holding one value per trial.
func NewReducedBatch(values []int) *Batch {
	b := NewBatch(len(values), 1)
	copy(b.data, values)
	b.reduced = true
	return b
}

// Trials returns the number of trials in the batch.
func (b *Batch) Trials() int { return b.trials }

// Width returns the number of values per trial.
func (b *Batch) Width() int { return b.width }

// Reduced reports whether the batch holds one aggregated value per trial.
func (b *Batch) Reduced() bool { return b.reduced }

// Masked reports whether some positions of the batch are deselected.
func (b *Batch) Masked() bool { return b.mask != nil }

// At returns the value of trial i at column j.
func (b *Batch) At(i, j int) int { return b.data[i*b.width+j] }

// Selected reports whether the value of trial i at column j is selected.
func (b *Batch) Selected(i, j int) bool {
	return b.mask == nil || b.mask[i*b.width+j]
}

// Row returns a copy of the values of trial i.
func (b *Batch) Row(i int) []int {
	row := make([]int, b.width)
	copy(row, b.row(i))
	return row
}

// Rows returns a copy of all trials.
func (b *Batch) Rows() [][]int {
	rows := make([][]int, b.trials)
	for i := range rows {
		rows[i] = b.Row(i)
	}
	return rows
}

// Values returns the selected values in row-major order. For unmasked
// batches this is the full flattened matrix; for masked batches the result
// is ragged and no longer aligned to trials.
func (b *Batch) Values() []int {
	if b.mask == nil {
		res := make([]int, len(b.data))
		copy(res, b.data)
		return res
	}
	res := make([]int, 0, len(b.data))
	for k, v := range b.data {
		if b.mask[k] {
			res = append(res, v)
		}
	}
	return res
}

// Scalars returns one value per trial. It fails unless the batch is a single
// unmasked column.
func (b *Batch) Scalars() ([]int, error) {
	if b.width != 1 || b.mask != nil {
		return nil, errors.Wrapf(ErrNotReduced, "batch has shape %v", b)
	}
	res := make([]int, b.trials)
	copy(res, b.data)
	return res, nil
}

// Clone returns a deep copy of the batch.
func (b *Batch) Clone() *Batch {
	c := &Batch{
		trials:  b.trials,
		width:   b.width,
		data:    make([]int, len(b.data)),
		reduced: b.reduced,
	}
	copy(c.data, b.data)
	if b.mask != nil {
		c.mask = make([]bool, len(b.mask))
		copy(c.mask, b.mask)
	}
	return c
}

// String prints the shape of the batch.
func (b *Batch) String() string {
	if b.reduced {
		return fmt.Sprintf("(%d)", b.trials)
	}
	return fmt.Sprintf("(%d x %d)", b.trials, b.width)
}

// row returns a view on the values of trial i.
func (b *Batch) row(i int) []int {
	return b.data[i*b.width : (i+1)*b.width]
}

// rowSums reduces each trial to the sum of its selected values.
func (b *Batch) rowSums() *Batch {
	if b.reduced && b.mask == nil {
		return b.Clone()
	}
	out := NewBatch(b.trials, 1)
	out.reduced = true
	for i := 0; i < b.trials; i++ {
		sum := 0
		for j := 0; j < b.width; j++ {
			k := i*b.width + j
			if b.mask == nil || b.mask[k] {
				sum += b.data[k]
			}
		}
		out.data[i] = sum
	}
	return out
}

// rowCounts reduces each trial to the number of its selected values.
func (b *Batch) rowCounts() *Batch {
	out := NewBatch(b.trials, 1)
	out.reduced = true
	for i := 0; i < b.trials; i++ {
		count := 0
		for j := 0; j < b.width; j++ {
			if b.mask == nil || b.mask[i*b.width+j] {
				count++
			}
		}
		out.data[i] = count
	}
	return out
}

// subtract computes a - b for two reduced batches of the same length.
func subtract(a, b *Batch) *Batch {
	out := NewBatch(a.trials, 1)
	out.reduced = true
	for i := range out.data {
		out.data[i] = a.data[i] - b.data[i]
	}
	return out
}

// add computes a + b for two reduced batches of the same length.
func add(a, b *Batch) *Batch {
	out := NewBatch(a.trials, 1)
	out.reduced = true
	for i := range out.data {
		out.data[i] = a.data[i] + b.data[i]
	}
	return out
}

// columnStack concatenates the columns of the given batches. All batches must
// hold the same number of trials. Masks are carried over.
func columnStack(batches ...*Batch) (*Batch, error) {
	if len(batches) == 1 {
		return batches[0].Clone(), nil
	}
	trials := batches[0].trials
	width := 0
	masked := false
	for i, b := range batches {
		if b.trials != trials {
			return nil, errors.Wrapf(ErrShapeMismatch, "batch %d has %d trials, expected %d", i, b.trials, trials)
		}
		width += b.width
		masked = masked || b.mask != nil
	}
	out := NewBatch(trials, width)
	if masked {
		out.mask = make([]bool, trials*width)
	}
	for i := 0; i < trials; i++ {
		offset := i * width
		for _, b := range batches {
			copy(out.data[offset:offset+b.width], b.row(i))
			if masked {
				for j := 0; j < b.width; j++ {
					out.mask[offset+j] = b.Selected(i, j)
				}
			}
			offset += b.width
		}
	}
	return out, nil
}
