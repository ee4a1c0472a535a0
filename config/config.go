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

package config

import (
	"math/rand"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// ArgumentMode determines the number of positional arguments of a command.
type ArgumentMode int

const (
	NoArgs     ArgumentMode = iota // no positional arguments
	OneArg                         // exactly one positional argument
	OneToNArgs                     // at least one positional argument
)

var ErrArguments = errors.New("wrong number of command line arguments")

// Config summarizes the user options of a distat command.
type Config struct {
	AppName     string
	CommandName string

	Args       []string // positional arguments
	Trials     int      // number of simulated trials
	RandomSeed int64    // seed of the random generator; zero seeds from crypto/rand
	Output     string   // output path
	Port       string   // port of the visualizer
	DbFile     string   // sqlite database of stored distributions
	Name       string   // name of the distribution
	Presets    []string // selected preset roll definitions
	LogLevel   string   // level of the logging
}

// NewConfig creates the configuration of a command from its context.
func NewConfig(ctx *cli.Context, mode ArgumentMode) (*Config, error) {
	cfg := createConfigFromFlags(ctx)
	if err := cfg.setArgs(ctx.Args().Slice(), mode); err != nil {
		return nil, err
	}
	if cfg.Trials < 1 {
		return nil, errors.Wrapf(dice.ErrInvalidTrials, "trials %d", cfg.Trials)
	}
	return cfg, nil
}

func (cfg *Config) setArgs(args []string, mode ArgumentMode) error {
	switch mode {
	case NoArgs:
		if len(args) != 0 {
			return errors.Wrapf(ErrArguments, "expected none, got %d", len(args))
		}
	case OneArg:
		if len(args) != 1 {
			return errors.Wrapf(ErrArguments, "expected one, got %d", len(args))
		}
	case OneToNArgs:
		if len(args) < 1 {
			return errors.Wrap(ErrArguments, "expected at least one")
		}
	default:
		return errors.Newf("unknown argument mode %d", mode)
	}
	cfg.Args = args
	return nil
}

// NewRand creates the random generator of the command. A zero seed is
// replaced by the seed actually drawn, so it can be reported and reused.
func (cfg *Config) NewRand() (*rand.Rand, error) {
	rg, seed, err := dice.NewRand(cfg.RandomSeed)
	if err != nil {
		return nil, err
	}
	cfg.RandomSeed = seed
	return rg, nil
}
