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
	"math/rand"
	"reflect"
	"strings"

	"github.com/0xsoniclabs/distat/statistics/discrete"
	"github.com/cockroachdb/errors"
)

//go:generate mockgen -source source.go -destination source_mock.go -package dice

// Source produces random die values. Draw returns a batch with exactly n
// trials; Width is the number of values per trial, or zero if it is only
// known after drawing.
type Source interface {
	Draw(rg *rand.Rand, n int) (*Batch, error)
	Width() int
}

// Die is a standard die numbered 1 to Sides.
type Die struct {
	Sides int
}

// NewDie creates a standard die.
func NewDie(sides int) (Die, error) {
	if sides < 1 {
		return Die{}, errors.Wrapf(ErrInvalidSides, "sides %d", sides)
	}
	return Die{Sides: sides}, nil
}

// D is shorthand for a standard die with the given number of sides. It
// panics for fewer than one side.
func D(sides int) Die {
	return Must(NewDie(sides))
}

// Draw rolls the die n times.
func (d Die) Draw(rg *rand.Rand, n int) (*Batch, error) {
	if d.Sides < 1 {
		return nil, errors.Wrapf(ErrInvalidSides, "sides %d", d.Sides)
	}
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidTrials, "trials %d", n)
	}
	b := NewBatch(n, 1)
	for i := range b.data {
		b.data[i] = rg.Intn(d.Sides) + 1
	}
	return b, nil
}

// Width of a single die is one.
func (d Die) Width() int { return 1 }

func (d Die) String() string { return fmt.Sprintf("D%d", d.Sides) }

// FaceDie is a die with explicit face values. Faces may repeat and need not be
// sequential, e.g. a coin with faces -1 and 1.
type FaceDie struct {
	Faces []int
}

// NewFaceDie creates a die with the given faces.
func NewFaceDie(faces ...int) (FaceDie, error) {
	if len(faces) == 0 {
		return FaceDie{}, ErrInvalidFaces
	}
	cp := make([]int, len(faces))
	copy(cp, faces)
	return FaceDie{Faces: cp}, nil
}

// Draw rolls the die n times by drawing uniform face indexes.
func (d FaceDie) Draw(rg *rand.Rand, n int) (*Batch, error) {
	if len(d.Faces) == 0 {
		return nil, ErrInvalidFaces
	}
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidTrials, "trials %d", n)
	}
	b := NewBatch(n, 1)
	k := len(d.Faces)
	for i := range b.data {
		b.data[i] = d.Faces[rg.Intn(k)]
	}
	return b, nil
}

// Width of a single die is one.
func (d FaceDie) Width() int { return 1 }

func (d FaceDie) String() string {
	return fmt.Sprintf("D%v", d.Faces)
}

// Pool is an ordered collection of sources rolled together. Their batches
// are stacked column by column.
type Pool []Source

// PoolOf creates a pool of k copies of a source.
func PoolOf(k int, src Source) Pool {
	pool := make(Pool, k)
	for i := range pool {
		pool[i] = src
	}
	return pool
}

// Add returns a new pool extended by the given sources. Pools are flattened.
func (p Pool) Add(sources ...Source) Pool {
	res := make(Pool, 0, len(p)+len(sources))
	res = append(res, p...)
	for _, src := range sources {
		if other, ok := src.(Pool); ok {
			res = append(res, other...)
		} else {
			res = append(res, src)
		}
	}
	return res
}

// Draw rolls every source n times and stacks the results.
func (p Pool) Draw(rg *rand.Rand, n int) (*Batch, error) {
	if len(p) == 0 {
		return nil, errors.Wrap(ErrNilSource, "empty pool")
	}
	batches := make([]*Batch, len(p))
	for i, src := range p {
		b, err := src.Draw(rg, n)
		if err != nil {
			return nil, errors.Wrapf(err, "pool member %d", i)
		}
		if b.trials != n {
			return nil, errors.Wrapf(ErrShapeMismatch, "pool member %d produced %d trials, expected %d", i, b.trials, n)
		}
		batches[i] = b
	}
	return columnStack(batches...)
}

// Width is the sum of the member widths, or zero if one of them is unknown.
func (p Pool) Width() int {
	width := 0
	for _, src := range p {
		w := src.Width()
		if w == 0 {
			return 0
		}
		width += w
	}
	return width
}

func (p Pool) String() string {
	parts := make([]string, len(p))
	for i, src := range p {
		parts[i] = fmt.Sprint(src)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// uniform returns the shared source if all members are identical.
func (p Pool) uniform() (Source, bool) {
	if len(p) == 0 {
		return nil, false
	}
	for _, src := range p[1:] {
		if !sameSource(src, p[0]) {
			return nil, false
		}
	}
	return p[0], true
}

// sameSource compares comparable sources by identity and others by value.
// Roll definitions and pools are compared by structure, so a decoded tree
// and the tree it was encoded from agree.
func sameSource(a, b Source) bool {
	switch x := a.(type) {
	case *RollDef:
		y, ok := b.(*RollDef)
		return ok && sameRollDef(x, y)
	case Pool:
		y, ok := b.(Pool)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !sameSource(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil || ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// sameRollDef reports whether two roll definitions describe the same roll.
// Name and description are labels and are ignored.
func sameRollDef(a, b *RollDef) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || len(a.ops) != len(b.ops) {
		return false
	}
	if !sameSource(a.source, b.source) {
		return false
	}
	for i := range a.ops {
		if !sameOperation(a.ops[i], b.ops[i]) {
			return false
		}
	}
	return true
}

// sameOperation compares operations by value. Aggregators hold their resolved
// evaluation, so only their reduction and operands are compared.
func sameOperation(a, b Operation) bool {
	x, ok := a.(*Aggregator)
	if !ok {
		return reflect.DeepEqual(a, b)
	}
	y, ok := b.(*Aggregator)
	if !ok || x == nil || y == nil {
		return ok && x == y
	}
	if x.Reduction != y.Reduction || len(x.Operands) != len(y.Operands) {
		return false
	}
	for i := range x.Operands {
		if !sameOperation(x.Operands[i], y.Operands[i]) {
			return false
		}
	}
	return true
}

// Empirical is a source drawing from a recorded probability mass function
// over unit bins, e.g. the histogram of a distribution.
type Empirical struct {
	Bins   []int     // bin edges, one more than values
	Values []float64 // probability of each bin
}

// NewEmpirical creates a source from a distribution's histogram.
func NewEmpirical(d *Dist) (Empirical, error) {
	if err := discrete.CheckPMF(d.Values); err != nil {
		return Empirical{}, errors.Wrap(err, "empirical source")
	}
	e := Empirical{
		Bins:   make([]int, len(d.Bins)),
		Values: make([]float64, len(d.Values)),
	}
	copy(e.Bins, d.Bins)
	copy(e.Values, d.Values)
	return e, nil
}

// Draw samples n values by inverting the cumulative distribution.
func (e Empirical) Draw(rg *rand.Rand, n int) (*Batch, error) {
	if len(e.Values) == 0 || len(e.Bins) != len(e.Values)+1 {
		return nil, ErrInvalidFaces
	}
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidTrials, "trials %d", n)
	}
	b := NewBatch(n, 1)
	for i := range b.data {
		b.data[i] = e.Bins[discrete.Sample(rg, e.Values)]
	}
	return b, nil
}

// Width of an empirical source is one.
func (e Empirical) Width() int { return 1 }

func (e Empirical) String() string {
	if len(e.Bins) == 0 {
		return "Empirical[]"
	}
	return fmt.Sprintf("Empirical[%d..%d]", e.Bins[0], e.Bins[len(e.Bins)-1]-1)
}
