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

// Package presets provides a catalogue of common tabletop rolls.
package presets

import (
	"sort"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/maps"
)

var ErrUnknownPreset = errors.New("unknown preset")

type preset struct {
	desc  string
	build func() (*dice.RollDef, error)
}

var catalogue = map[string]preset{
	"3d6": {
		desc: "sum of three six-sided dice",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(3, dice.D(6)), dice.Must(dice.Sum()))
		},
	},
	"attribute-4d6-drop-lowest": {
		desc: "four six-sided dice, sum of the highest three",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(4, dice.D(6)), dice.Must(dice.Sum(dice.Highest{N: 3})))
		},
	},
	"attribute-4d6-reroll-ones": {
		desc: "four six-sided dice, re-roll ones once, sum of the highest three",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(4, dice.D(6)),
				dice.Must(dice.Reroll(dice.Equal(1))),
				dice.Must(dice.Sum(dice.Highest{N: 3})))
		},
	},
	"reroll-low-attribute": {
		desc: "4d6 drop lowest, re-rolled up to three times while below 8",
		build: func() (*dice.RollDef, error) {
			attribute, err := dice.NewRollDef(dice.PoolOf(4, dice.D(6)), dice.Must(dice.Sum(dice.Highest{N: 3})))
			if err != nil {
				return nil, err
			}
			return dice.NewRollDef(attribute, dice.Must(dice.NewReRoll(3, dice.LessThan{Threshold: 8})))
		},
	},
	"advantage": {
		desc: "higher of two twenty-sided dice",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(2, dice.D(20)), dice.Must(dice.Sum(dice.Highest{N: 1})))
		},
	},
	"disadvantage": {
		desc: "lower of two twenty-sided dice",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(2, dice.D(20)), dice.Must(dice.Sum(dice.Lowest{N: 1})))
		},
	},
	"fudge-4df": {
		desc: "four fudge dice with faces -1, 0 and 1",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(4, dice.Must(dice.NewFaceDie(-1, -1, 0, 0, 1, 1))), dice.Must(dice.Sum()))
		},
	},
	"coin": {
		desc: "a coin counting -1 or 1",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.Must(dice.NewFaceDie(-1, 1)), dice.Must(dice.Sum()))
		},
	},
	"great-weapon-2d6": {
		desc: "two six-sided dice, re-roll ones and twos once",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(2, dice.D(6)),
				dice.Must(dice.Reroll(dice.Equal(1, 2))),
				dice.Must(dice.Sum()))
		},
	},
	"d6-pool-successes": {
		desc: "number of fives and sixes among six six-sided dice",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(6, dice.D(6)), dice.Must(dice.Count(dice.GreaterThan{Threshold: 4})))
		},
	},
	"highest-minus-lowest": {
		desc: "spread between the highest and the lowest of three six-sided dice",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.PoolOf(3, dice.D(6)),
				dice.Must(dice.Difference(dice.Highest{N: 1}, dice.Lowest{N: 1})))
		},
	},
	"d6-plus-2": {
		desc: "a six-sided die plus two",
		build: func() (*dice.RollDef, error) {
			return dice.NewRollDef(dice.D(6), dice.Must(dice.Sum()), dice.Modifier{Value: 2})
		},
	},
}

// Names returns the names of all presets in alphabetical order.
func Names() []string {
	names := maps.Keys(catalogue)
	sort.Strings(names)
	return names
}

// Get builds the named preset.
func Get(name string) (*dice.RollDef, error) {
	p, ok := catalogue[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	rd, err := p.build()
	if err != nil {
		return nil, errors.Wrapf(err, "preset %v", name)
	}
	return rd.WithName(name).WithDesc(p.desc), nil
}

// All builds every preset, ordered by name.
func All() ([]*dice.RollDef, error) {
	names := Names()
	res := make([]*dice.RollDef, len(names))
	for i, name := range names {
		rd, err := Get(name)
		if err != nil {
			return nil, err
		}
		res[i] = rd
	}
	return res, nil
}
