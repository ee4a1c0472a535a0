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

// Modifier adds a constant to every value.
type Modifier struct {
	Value int
}

func (m Modifier) Kind() Kind                   { return ModifierKind }
func (m Modifier) OutWidth(in int) (int, error) { return in, nil }

func (m Modifier) Apply(b *Batch) (*Batch, error) {
	out := b.Clone()
	for i := range out.data {
		out.data[i] += m.Value
	}
	return out, nil
}

func (m Modifier) String() string { return fmt.Sprintf("%+d", m.Value) }
