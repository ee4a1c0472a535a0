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

// ReRoll redraws every value matched by one of its selectors, for up to
// Allowed passes. Values produced by a pass are checked again by the next
// one. New values come from the source responsible for the column.
type ReRoll struct {
	Selectors []Selector
	Allowed   int
}

// NewReRoll creates a re-roll action allowing the given number of passes.
func NewReRoll(allowed int, sels ...Selector) (ReRoll, error) {
	if allowed < 1 {
		return ReRoll{}, errors.Wrapf(ErrInvalidAllowed, "allowed %d", allowed)
	}
	if len(sels) == 0 {
		return ReRoll{}, ErrNoSelector
	}
	for i, sel := range sels {
		if sel == nil {
			return ReRoll{}, errors.Wrapf(ErrNoSelector, "selector %d is nil", i)
		}
	}
	return ReRoll{
		Selectors: append([]Selector(nil), sels...),
		Allowed:   allowed,
	}, nil
}

// Reroll creates a re-roll action with a single pass.
func Reroll(sels ...Selector) (ReRoll, error) {
	return NewReRoll(1, sels...)
}

func (r ReRoll) Kind() Kind                   { return ActionKind }
func (r ReRoll) OutWidth(in int) (int, error) { return in, nil }

// Act returns a copy of the batch in which the matching values are redrawn.
// Unselected positions of a masked batch are left alone.
func (r ReRoll) Act(rg *rand.Rand, b *Batch, src Source) (*Batch, error) {
	if len(r.Selectors) == 0 {
		return nil, ErrNoSelector
	}
	if r.Allowed < 1 {
		return nil, errors.Wrapf(ErrInvalidAllowed, "allowed %d", r.Allowed)
	}
	draw, err := rerollDraw(src, b)
	if err != nil {
		return nil, err
	}
	out := b.Clone()
	for range r.Allowed {
		hits := r.hits(out)
		if len(hits) == 0 {
			break
		}
		if err := draw(rg, out, hits); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// hits returns the positions matched by any of the selectors.
func (r ReRoll) hits(b *Batch) []int {
	var hits []int
	for k, v := range b.data {
		if b.mask != nil && !b.mask[k] {
			continue
		}
		for _, sel := range r.Selectors {
			if sel.Match(v) {
				hits = append(hits, k)
				break
			}
		}
	}
	return hits
}

type redraw func(rg *rand.Rand, b *Batch, hits []int) error

// rerollDraw resolves how new values are drawn for the batch. A single-column
// source serves every column with one draw. A pool of single-column members
// matching the batch width draws per column. A pool of several members can
// only redraw its own dice, not a reduced or filtered batch.
func rerollDraw(src Source, b *Batch) (redraw, error) {
	width := b.width
	if pool, ok := src.(Pool); ok {
		if len(pool) > 1 && (b.reduced || width != len(pool)) {
			return nil, errors.Wrapf(ErrRerollSource, "pool %v for %d columns (reduced %t)", pool, width, b.reduced)
		}
		if shared, ok := pool.uniform(); ok && shared.Width() <= 1 {
			return drawShared(shared), nil
		}
		if pool.Width() == width {
			return func(rg *rand.Rand, b *Batch, hits []int) error {
				columns := make([][]int, width)
				for _, k := range hits {
					columns[k%width] = append(columns[k%width], k)
				}
				for j, col := range columns {
					if len(col) == 0 {
						continue
					}
					if err := drawInto(rg, pool[j], b, col); err != nil {
						return errors.Wrapf(err, "column %d", j)
					}
				}
				return nil
			}, nil
		}
		return nil, errors.Wrapf(ErrRerollSource, "pool %v for %d columns", pool, width)
	}
	if src == nil {
		return nil, ErrNilSource
	}
	if src.Width() > 1 {
		return nil, errors.Wrapf(ErrRerollSource, "source %v has %d columns", src, src.Width())
	}
	return drawShared(src), nil
}

func drawShared(src Source) redraw {
	return func(rg *rand.Rand, b *Batch, hits []int) error {
		return drawInto(rg, src, b, hits)
	}
}

// drawInto draws one value for each of the given positions.
func drawInto(rg *rand.Rand, src Source, b *Batch, positions []int) error {
	fresh, err := src.Draw(rg, len(positions))
	if err != nil {
		return err
	}
	if fresh.width != 1 || fresh.mask != nil || fresh.trials != len(positions) {
		return errors.Wrapf(ErrRerollSource, "source %v produced %v", src, fresh)
	}
	for i, k := range positions {
		b.data[k] = fresh.data[i]
	}
	return nil
}

func (r ReRoll) String() string {
	parts := make([]string, len(r.Selectors))
	for i, sel := range r.Selectors {
		parts[i] = fmt.Sprint(sel)
	}
	return fmt.Sprintf("ReRoll(%s, allowed=%d)", strings.Join(parts, ", "), r.Allowed)
}
