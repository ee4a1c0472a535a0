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
	"time"

	"github.com/0xsoniclabs/distat/config"
	"github.com/0xsoniclabs/distat/logger"
	"github.com/0xsoniclabs/distat/report"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// RefineCommand adds trials to a stored distribution.
var RefineCommand = cli.Command{
	Action:    refineAction,
	Name:      "refine",
	Usage:     "adds accuracy to a stored distribution",
	ArgsUsage: "<name>",
	Flags: []cli.Flag{
		&utils.TrialsFlag,
		&utils.RandomSeedFlag,
		&utils.DbFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The refine command loads the distribution <name> from --db, samples
--trials further trials of its roll definition, merges them into the
distribution and stores the result under the same name.`,
}

func refineAction(ctx *cli.Context) (err error) {
	cfg, err := config.NewConfig(ctx, config.OneArg)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Distat Refine")

	db, err := openDb(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	name := cfg.Args[0]
	d, err := db.Load(name)
	if err != nil {
		return err
	}
	rg, err := cfg.NewRand()
	if err != nil {
		return err
	}
	before := d.N
	log.Infof("Add %d trials to %v (%d trials) with seed %d", cfg.Trials, name, before, cfg.RandomSeed)
	start := time.Now()
	if err := d.AddAccuracy(rg, cfg.Trials); err != nil {
		return errors.Wrapf(err, "cannot refine %v", name)
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	log.Infof("Sampling took %dh %dm %ds", hours, minutes, seconds)
	if err := db.Save(name, d); err != nil {
		return err
	}
	log.Noticef("Refined %v from %d to %d trials", name, before, d.N)
	return report.WriteTable(ctx.App.Writer, []report.Summary{report.Summarize(name, d)})
}
