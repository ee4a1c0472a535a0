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

package main

import (
	"fmt"
	"os"

	"github.com/0xsoniclabs/distat/cmd/distat/simulate"
	"github.com/urfave/cli/v2"
)

// distatApp defines the dice simulation command line tool.
var distatApp = &cli.App{
	Name:      "Distat",
	HelpName:  "distat",
	Usage:     "monte-carlo simulation of composable dice rolls",
	Copyright: "(c) 2025 Sonic Labs",
	Commands: []*cli.Command{
		&simulate.RollCommand,
		&simulate.DistCommand,
		&simulate.RefineCommand,
		&simulate.GenerateCommand,
		&simulate.TableCommand,
		&simulate.VisualizeCommand,
	},
}

func main() {
	if err := distatApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
