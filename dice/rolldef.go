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
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultDistTrials is the number of trials of a distribution if none is given.
const DefaultDistTrials = 1_000_000

type stage func(rg *rand.Rand, b *Batch) (*Batch, error)

// RollDef couples a source with a pipeline of operations applied from left to
// right. A roll definition is itself a source, so pipelines can be nested.
// Apart from its name and description it is immutable.
type RollDef struct {
	Name string
	Desc string

	source Source
	ops    []Operation
	stages []stage
	width  int
}

// NewRollDef validates the pipeline and resolves its stages.
func NewRollDef(src Source, ops ...Operation) (*RollDef, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	rd := &RollDef{
		source: src,
		ops:    append([]Operation(nil), ops...),
		stages: make([]stage, len(ops)),
	}
	width := src.Width()
	for i, op := range ops {
		if op == nil {
			return nil, errors.Wrapf(ErrNilOperation, "operation %d", i)
		}
		switch op.Kind() {
		case SelectorKind:
			return nil, errors.Wrapf(ErrBareSelector, "operation %d (%v)", i, op)
		case ActionKind:
			action, ok := op.(Action)
			if !ok {
				return nil, errors.Wrapf(ErrUnsupported, "operation %d (%T)", i, op)
			}
			rd.stages[i] = func(rg *rand.Rand, b *Batch) (*Batch, error) {
				return action.Act(rg, b, src)
			}
		default:
			transform, ok := op.(Transform)
			if !ok {
				return nil, errors.Wrapf(ErrUnsupported, "operation %d (%T)", i, op)
			}
			rd.stages[i] = func(_ *rand.Rand, b *Batch) (*Batch, error) {
				return transform.Apply(b)
			}
		}
		w, err := op.OutWidth(width)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d (%v)", i, op)
		}
		width = w
	}
	rd.width = width
	return rd, nil
}

func checkSource(src Source) error {
	if src == nil {
		return ErrNilSource
	}
	if pool, ok := src.(Pool); ok {
		if len(pool) == 0 {
			return errors.Wrap(ErrNilSource, "empty pool")
		}
		for i, member := range pool {
			if member == nil {
				return errors.Wrapf(ErrNilSource, "pool member %d", i)
			}
		}
	}
	return nil
}

// WithName sets the name of the roll definition.
func (rd *RollDef) WithName(name string) *RollDef {
	rd.Name = name
	return rd
}

// WithDesc sets the description of the roll definition.
func (rd *RollDef) WithDesc(desc string) *RollDef {
	rd.Desc = desc
	return rd
}

// Source returns the source of the roll definition.
func (rd *RollDef) Source() Source { return rd.source }

// Operations returns the pipeline of the roll definition.
func (rd *RollDef) Operations() []Operation {
	return append([]Operation(nil), rd.ops...)
}

// Roll evaluates n independent trials. The result is reduced to one value
// per trial only if the pipeline reduces it.
func (rd *RollDef) Roll(rg *rand.Rand, n int) (*Batch, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidTrials, "trials %d", n)
	}
	b, err := rd.source.Draw(rg, n)
	if err != nil {
		return nil, err
	}
	if b.trials != n {
		return nil, errors.Wrapf(ErrShapeMismatch, "source produced %d trials, expected %d", b.trials, n)
	}
	for i, stage := range rd.stages {
		b, err = stage(rg, b)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d (%v)", i, rd.ops[i])
		}
	}
	return b, nil
}

// RollOnce evaluates a single trial.
func (rd *RollDef) RollOnce(rg *rand.Rand) (*Batch, error) {
	return rd.Roll(rg, 1)
}

// Draw evaluates n trials when the roll definition is used as a source.
func (rd *RollDef) Draw(rg *rand.Rand, n int) (*Batch, error) {
	return rd.Roll(rg, n)
}

// Width returns the number of values per trial the pipeline produces, or zero
// if it depends on the rolled values.
func (rd *RollDef) Width() int { return rd.width }

// Dist evaluates n trials into a distribution; n <= 0 selects
// DefaultDistTrials.
func (rd *RollDef) Dist(rg *rand.Rand, n int) (*Dist, error) {
	if n <= 0 {
		n = DefaultDistTrials
	}
	return NewDist(rg, rd, n)
}

func (rd *RollDef) String() string {
	parts := make([]string, 0, len(rd.ops)+1)
	parts = append(parts, fmt.Sprint(rd.source))
	for _, op := range rd.ops {
		parts = append(parts, fmt.Sprint(op))
	}
	res := "RollDef(" + strings.Join(parts, ", ") + ")"
	if rd.Name != "" {
		res = rd.Name + " " + res
	}
	return res
}
