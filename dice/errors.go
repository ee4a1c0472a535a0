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

import "github.com/cockroachdb/errors"

// Construction errors.
var (
	ErrInvalidSides    = errors.New("die must have at least one side")
	ErrInvalidFaces    = errors.New("die must have at least one face")
	ErrNilSource       = errors.New("roll definition requires a source")
	ErrNilOperation    = errors.New("operation must not be nil")
	ErrNoSelector      = errors.New("re-roll requires at least one selector")
	ErrInvalidAllowed  = errors.New("number of allowed re-rolls must be positive")
	ErrOperandMismatch = errors.New("aggregator operands must be up to two selectors or up to two filters")
	ErrBareSelector    = errors.New("selectors can only be used inside an aggregator or an action")
	ErrNotEnoughDice   = errors.New("not enough dice for the requested columns")
	ErrInvalidSlice    = errors.New("slice step must not be zero")
	ErrUnsupported     = errors.New("operation does not implement the behaviour of its kind")
)

// Shape and evaluation errors.
var (
	ErrInvalidTrials  = errors.New("number of trials must be positive")
	ErrShapeMismatch  = errors.New("batches differ in their number of trials")
	ErrNotReduced     = errors.New("batch does not hold one value per trial")
	ErrEmptySelection = errors.New("selection does not contain any column")
	ErrMaskedBatch    = errors.New("filters cannot be applied to a partially selected batch")
	ErrRerollSource   = errors.New("cannot determine the source to re-roll from")
	ErrRollMismatch   = errors.New("distributions belong to different rolls")
)
