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

package utils

import (
	"github.com/0xsoniclabs/distat/dice"
	"github.com/urfave/cli/v2"
)

// Command line options for the distat commands.
var (
	TrialsFlag = cli.IntFlag{
		Name:    "trials",
		Aliases: []string{"n"},
		Usage:   "number of simulated trials",
		Value:   dice.DefaultDistTrials,
	}
	RandomSeedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "seed of the random generator; zero seeds from the operating system",
		Value: 0,
	}
	OutputFlag = cli.PathFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output path",
	}
	PortFlag = cli.StringFlag{
		Name:  "port",
		Usage: "enable visualization on `PORT`",
		Value: "8080",
	}
	DbFlag = cli.PathFlag{
		Name:  "db",
		Usage: "sqlite database of stored distributions",
	}
	NameFlag = cli.StringFlag{
		Name:  "name",
		Usage: "name of the distribution; defaults to the roll definition's name",
	}
	PresetFlag = cli.StringSliceFlag{
		Name:  "preset",
		Usage: "named preset roll definitions to use; all presets if none given",
	}
)
