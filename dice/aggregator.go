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
	"strings"

	"github.com/cockroachdb/errors"
)

// Reduction is the terminal step of an aggregator.
type Reduction int

const (
	// NoReduction passes the operand result on; for a selector the result is
	// a masked batch.
	NoReduction Reduction = iota
	// SumReduction sums the selected values of each trial.
	SumReduction
	// DifferenceReduction subtracts the per-trial sum of the second operand
	// from the sum of the first.
	DifferenceReduction
	// CountReduction counts the selected values of each trial.
	CountReduction
	// CountDifferenceReduction subtracts the per-trial count of the second
	// operand from the count of the first.
	CountDifferenceReduction
)

var reductionNames = map[Reduction]string{
	NoReduction:              "Aggregate",
	SumReduction:             "Sum",
	DifferenceReduction:      "Difference",
	CountReduction:           "Count",
	CountDifferenceReduction: "CountDifference",
}

func (r Reduction) String() string {
	if name, ok := reductionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reduction(%d)", int(r))
}

// ParseReduction returns the reduction with the given name.
func ParseReduction(name string) (Reduction, error) {
	for r, n := range reductionNames {
		if n == name {
			return r, nil
		}
	}
	return 0, errors.Wrapf(ErrOperandMismatch, "unknown reduction %q", name)
}

func (r Reduction) dual() bool {
	return r == DifferenceReduction || r == CountDifferenceReduction
}

// Aggregator combines the results of up to two selectors or up to two
// filters and reduces them per trial.
type Aggregator struct {
	Reduction Reduction
	Operands  []Operation
	apply     func(b *Batch) (*Batch, error)
}

// NewAggregator validates the operands and resolves the evaluation of the
// aggregator. Without operands the aggregator works on all values.
func NewAggregator(reduction Reduction, ops ...Operation) (*Aggregator, error) {
	if _, ok := reductionNames[reduction]; !ok {
		return nil, errors.Wrapf(ErrOperandMismatch, "unknown reduction %d", int(reduction))
	}
	if len(ops) == 0 {
		ops = []Operation{All{}}
	}
	if len(ops) > 2 {
		return nil, errors.Wrapf(ErrOperandMismatch, "%d operands", len(ops))
	}
	for i, op := range ops {
		if op == nil {
			return nil, errors.Wrapf(ErrNilOperation, "operand %d", i)
		}
	}
	if reduction.dual() && len(ops) != 2 {
		return nil, errors.Wrapf(ErrOperandMismatch, "%v requires two operands", reduction)
	}
	if reduction == NoReduction && len(ops) == 2 && ops[0].Kind() == SelectorKind {
		return nil, errors.Wrap(ErrOperandMismatch, "two selectors require a reduction")
	}
	a := &Aggregator{
		Reduction: reduction,
		Operands:  append([]Operation(nil), ops...),
	}
	kind := ops[0].Kind()
	for _, op := range ops[1:] {
		if op.Kind() != kind {
			return nil, errors.Wrapf(ErrOperandMismatch, "cannot pair a %v with a %v", kind, op.Kind())
		}
	}
	switch kind {
	case SelectorKind:
		sels := make([]Selector, len(ops))
		for i, op := range ops {
			sel, ok := op.(Selector)
			if !ok {
				return nil, errors.Wrapf(ErrUnsupported, "%T", op)
			}
			sels[i] = sel
		}
		a.apply = func(b *Batch) (*Batch, error) { return a.selectors(sels, b) }
	case FilterKind:
		filters := make([]Filter, len(ops))
		for i, op := range ops {
			f, ok := op.(Filter)
			if !ok {
				return nil, errors.Wrapf(ErrUnsupported, "%T", op)
			}
			filters[i] = f
		}
		a.apply = func(b *Batch) (*Batch, error) { return a.filters(filters, b) }
	default:
		return nil, errors.Wrapf(ErrOperandMismatch, "a %v cannot be aggregated", kind)
	}
	return a, nil
}

// Sum creates an aggregator summing the selected values of every trial.
func Sum(ops ...Operation) (*Aggregator, error) {
	return NewAggregator(SumReduction, ops...)
}

// Difference creates an aggregator subtracting the sum of b from the sum of a.
func Difference(a, b Operation) (*Aggregator, error) {
	return NewAggregator(DifferenceReduction, a, b)
}

// Count creates an aggregator counting the selected values of every trial.
func Count(ops ...Operation) (*Aggregator, error) {
	return NewAggregator(CountReduction, ops...)
}

// CountDifference creates an aggregator subtracting the count of b from the
// count of a.
func CountDifference(a, b Operation) (*Aggregator, error) {
	return NewAggregator(CountDifferenceReduction, a, b)
}

// Aggregate creates an aggregator without reduction.
func Aggregate(ops ...Operation) (*Aggregator, error) {
	return NewAggregator(NoReduction, ops...)
}

func (a *Aggregator) Kind() Kind { return AggregatorKind }

func (a *Aggregator) OutWidth(in int) (int, error) {
	widths := make([]int, len(a.Operands))
	for i, op := range a.Operands {
		w, err := op.OutWidth(in)
		if err != nil {
			return 0, err
		}
		widths[i] = w
	}
	if a.Reduction != NoReduction {
		return 1, nil
	}
	if len(widths) == 1 {
		return widths[0], nil
	}
	if widths[0] == 0 || widths[1] == 0 {
		return 0, nil
	}
	return widths[0] + widths[1], nil
}

// Apply evaluates the aggregator.
func (a *Aggregator) Apply(b *Batch) (*Batch, error) {
	if a.apply == nil {
		return nil, errors.Wrap(ErrUnsupported, "aggregator was not built by NewAggregator")
	}
	return a.apply(b)
}

func (a *Aggregator) selectors(sels []Selector, b *Batch) (*Batch, error) {
	masked := make([]*Batch, len(sels))
	for i, sel := range sels {
		m := b.Clone()
		m.mask = selectBatch(sel, b)
		m.reduced = false
		masked[i] = m
	}
	switch a.Reduction {
	case NoReduction:
		return masked[0], nil
	case SumReduction:
		res := masked[0].rowSums()
		for _, m := range masked[1:] {
			res = add(res, m.rowSums())
		}
		return res, nil
	case DifferenceReduction:
		return subtract(masked[0].rowSums(), masked[1].rowSums()), nil
	case CountReduction:
		res := masked[0].rowCounts()
		for _, m := range masked[1:] {
			res = add(res, m.rowCounts())
		}
		return res, nil
	default:
		return subtract(masked[0].rowCounts(), masked[1].rowCounts()), nil
	}
}

func (a *Aggregator) filters(filters []Filter, b *Batch) (*Batch, error) {
	outs := make([]*Batch, len(filters))
	for i, f := range filters {
		out, err := f.Apply(b)
		if err != nil {
			return nil, errors.Wrapf(err, "%v", f)
		}
		outs[i] = out
	}
	switch a.Reduction {
	case NoReduction:
		return columnStack(outs...)
	case SumReduction:
		stacked, err := columnStack(outs...)
		if err != nil {
			return nil, err
		}
		return stacked.rowSums(), nil
	case DifferenceReduction:
		return subtract(outs[0].rowSums(), outs[1].rowSums()), nil
	case CountReduction:
		stacked, err := columnStack(outs...)
		if err != nil {
			return nil, err
		}
		return stacked.rowCounts(), nil
	default:
		return subtract(outs[0].rowCounts(), outs[1].rowCounts()), nil
	}
}

func (a *Aggregator) String() string {
	parts := make([]string, len(a.Operands))
	for i, op := range a.Operands {
		parts[i] = fmt.Sprint(op)
	}
	return fmt.Sprintf("%v(%s)", a.Reduction, strings.Join(parts, ", "))
}
