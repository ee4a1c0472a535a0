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

import "math/rand"

// Kind tags the role of an operation inside a roll definition.
type Kind int

const (
	SelectorKind Kind = iota
	FilterKind
	AggregatorKind
	ActionKind
	ModifierKind
)

func (k Kind) String() string {
	switch k {
	case SelectorKind:
		return "selector"
	case FilterKind:
		return "filter"
	case AggregatorKind:
		return "aggregator"
	case ActionKind:
		return "action"
	case ModifierKind:
		return "modifier"
	default:
		return "unknown"
	}
}

// Operation is a step of a roll definition's pipeline.
type Operation interface {
	// Kind returns the role of the operation.
	Kind() Kind
	// OutWidth returns the number of values per trial the operation produces
	// for in values per trial. A width of zero means unknown.
	OutWidth(in int) (int, error)
}

// Selector is a predicate over single die values.
type Selector interface {
	Operation
	Match(v int) bool
}

// Transform is an operation mapping a batch to a new batch (filters,
// aggregators and modifiers).
type Transform interface {
	Operation
	Apply(b *Batch) (*Batch, error)
}

// Filter is a transform changing the number of values per trial.
type Filter = Transform

// Action is an operation that may draw new values from the roll definition's
// source.
type Action interface {
	Operation
	Act(rg *rand.Rand, b *Batch, src Source) (*Batch, error)
}

// Must returns v and panics if err is not nil. It simplifies building roll
// definitions from constant expressions.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
