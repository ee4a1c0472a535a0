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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_FromRows(t *testing.T) {
	b, err := NewBatchFromRows([][]int{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 2, b.Trials())
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 6, b.At(1, 2))
	assert.Equal(t, []int{4, 5, 6}, b.Row(1))
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}}, b.Rows())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, b.Values())
	assert.False(t, b.Reduced())
	assert.False(t, b.Masked())
	assert.Equal(t, "(2 x 3)", b.String())
}

func TestBatch_FromRowsRejectsRaggedRows(t *testing.T) {
	_, err := NewBatchFromRows([][]int{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = NewBatchFromRows(nil)
	assert.ErrorIs(t, err, ErrInvalidTrials)
}

func TestBatch_Scalars(t *testing.T) {
	b := NewReducedBatch([]int{7, 8})
	assert.Equal(t, "(2)", b.String())
	values, err := b.Scalars()
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, values)

	wide, err := NewBatchFromRows([][]int{{1, 2}})
	require.NoError(t, err)
	_, err = wide.Scalars()
	assert.ErrorIs(t, err, ErrNotReduced)

	// a single column counts as one value per trial even if never reduced
	column, err := NewBatchFromRows([][]int{{1}, {2}})
	require.NoError(t, err)
	values, err = column.Scalars()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, values)
}

func TestBatch_CloneIsIndependent(t *testing.T) {
	b, err := NewBatchFromRows([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b.mask = []bool{true, false, true, true}
	c := b.Clone()
	c.data[0] = 9
	c.mask[1] = true
	assert.Equal(t, 1, b.At(0, 0))
	assert.False(t, b.Selected(0, 1))
	assert.True(t, c.Selected(0, 1))
}

func TestBatch_MaskedValuesAndReductions(t *testing.T) {
	b, err := NewBatchFromRows([][]int{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	b.mask = []bool{true, false, true, false, false, true}
	assert.True(t, b.Masked())
	assert.Equal(t, []int{1, 3, 6}, b.Values())
	assert.Equal(t, []int{4, 6}, b.rowSums().data)
	assert.Equal(t, []int{2, 1}, b.rowCounts().data)
	_, err = b.Scalars()
	assert.ErrorIs(t, err, ErrNotReduced)
}

func TestBatch_RowSumsIsIdempotent(t *testing.T) {
	b, err := NewBatchFromRows([][]int{{3, 5, 2}})
	require.NoError(t, err)
	once := b.rowSums()
	twice := once.rowSums()
	assert.Equal(t, []int{10}, once.data)
	assert.Equal(t, once.data, twice.data)
	assert.True(t, twice.Reduced())
}

func TestBatch_ColumnStack(t *testing.T) {
	a, err := NewBatchFromRows([][]int{{1}, {2}})
	require.NoError(t, err)
	b, err := NewBatchFromRows([][]int{{3, 4}, {5, 6}})
	require.NoError(t, err)
	b.mask = []bool{true, false, false, true}

	res, err := columnStack(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 3, 4}, {2, 5, 6}}, res.Rows())
	assert.Equal(t, []bool{true, true, false, true, false, true}, res.mask)

	short, err := NewBatchFromRows([][]int{{1}})
	require.NoError(t, err)
	_, err = columnStack(a, short)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
