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

import "fmt"

// EqualTo selects values contained in a set.
type EqualTo struct {
	Values []int
}

// LessThan selects values strictly below a threshold.
type LessThan struct {
	Threshold int
}

// GreaterThan selects values strictly above a threshold.
type GreaterThan struct {
	Threshold int
}

// Equal creates an EqualTo selector.
func Equal(values ...int) EqualTo {
	cp := make([]int, len(values))
	copy(cp, values)
	return EqualTo{Values: cp}
}

func (s EqualTo) Kind() Kind                   { return SelectorKind }
func (s EqualTo) OutWidth(in int) (int, error) { return in, nil }

func (s EqualTo) Match(v int) bool {
	for _, x := range s.Values {
		if x == v {
			return true
		}
	}
	return false
}

func (s EqualTo) String() string { return fmt.Sprintf("=%v", s.Values) }

func (s LessThan) Kind() Kind                   { return SelectorKind }
func (s LessThan) OutWidth(in int) (int, error) { return in, nil }
func (s LessThan) Match(v int) bool             { return v < s.Threshold }
func (s LessThan) String() string               { return fmt.Sprintf("<%d", s.Threshold) }

func (s GreaterThan) Kind() Kind                   { return SelectorKind }
func (s GreaterThan) OutWidth(in int) (int, error) { return in, nil }
func (s GreaterThan) Match(v int) bool             { return v > s.Threshold }
func (s GreaterThan) String() string               { return fmt.Sprintf(">%d", s.Threshold) }

// Mask evaluates a selector over a slice of values.
func Mask(sel Selector, values []int) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = sel.Match(v)
	}
	return mask
}

// selectBatch combines the selection of sel with the existing mask of b.
func selectBatch(sel Selector, b *Batch) []bool {
	mask := Mask(sel, b.data)
	if b.mask != nil {
		for k := range mask {
			mask[k] = mask[k] && b.mask[k]
		}
	}
	return mask
}
