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

package simulate

import (
	"os"

	"github.com/0xsoniclabs/distat/config"
	"github.com/0xsoniclabs/distat/dice/serializer"
	"github.com/0xsoniclabs/distat/logger"
	"github.com/0xsoniclabs/distat/report"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/0xsoniclabs/distat/visualizer"
	"github.com/urfave/cli/v2"
)

// RollCommand evaluates a roll definition.
var RollCommand = cli.Command{
	Action:    rollAction,
	Name:      "roll",
	Usage:     "evaluates a roll definition for a number of trials",
	ArgsUsage: "<rolldef.json>",
	Flags: []cli.Flag{
		&utils.TrialsFlag,
		&utils.RandomSeedFlag,
		&utils.OutputFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The roll command evaluates the roll definition stored in <rolldef.json>
for --trials trials and reports the range and mean of the outcomes.
With --output the rows are written as JSON, or as a histogram page if
the output file ends in .html.`,
}

func rollAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx, config.OneArg)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Distat Roll")

	rd, err := serializer.ReadRollDef(cfg.Args[0])
	if err != nil {
		return err
	}
	rg, err := cfg.NewRand()
	if err != nil {
		return err
	}
	log.Infof("Roll %v with seed %d", rd, cfg.RandomSeed)

	b, err := rd.Roll(rg, cfg.Trials)
	if err != nil {
		return err
	}
	log.Noticef("Outcomes: %v", report.SummarizeBatch(b.Values()))

	if cfg.Output == "" {
		return nil
	}
	log.Noticef("Write outcomes to %v", cfg.Output)
	if isHtml(cfg.Output) {
		return createFile(cfg.Output, func(f *os.File) error {
			return visualizer.RenderHistogram(f, b.Values())
		})
	}
	return writeRows(cfg.Output, b)
}
