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
	"time"

	"github.com/0xsoniclabs/distat/config"
	"github.com/0xsoniclabs/distat/dice"
	"github.com/0xsoniclabs/distat/dice/serializer"
	"github.com/0xsoniclabs/distat/logger"
	"github.com/0xsoniclabs/distat/report"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/0xsoniclabs/distat/visualizer"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// DistCommand computes the distribution of a roll definition.
var DistCommand = cli.Command{
	Action:    distAction,
	Name:      "dist",
	Usage:     "computes the empirical distribution of a roll definition",
	ArgsUsage: "<rolldef.json>",
	Flags: []cli.Flag{
		&utils.TrialsFlag,
		&utils.RandomSeedFlag,
		&utils.OutputFlag,
		&utils.DbFlag,
		&utils.NameFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The dist command samples the roll definition stored in <rolldef.json>
and prints the summary and the probability table of its outcomes.
With --db the distribution is stored under --name for later refinement.
With --output it is written as JSON, or as a chart page for .html files.`,
}

func distAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx, config.OneArg)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Distat Dist")

	rd, err := serializer.ReadRollDef(cfg.Args[0])
	if err != nil {
		return err
	}
	name := distName(cfg, rd, cfg.Args[0])
	rg, err := cfg.NewRand()
	if err != nil {
		return err
	}
	log.Infof("Sample %d trials of %v with seed %d", cfg.Trials, name, cfg.RandomSeed)

	start := time.Now()
	d, err := rd.Dist(rg, cfg.Trials)
	if err != nil {
		return err
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	log.Infof("Sampling took %dh %dm %ds", hours, minutes, seconds)
	w := ctx.App.Writer
	if err := report.WriteTable(w, []report.Summary{report.Summarize(name, d)}); err != nil {
		return err
	}
	if err := report.WriteDist(w, d); err != nil {
		return err
	}

	if cfg.DbFile != "" {
		log.Noticef("Store %v in %v", name, cfg.DbFile)
		if err := saveDist(cfg, name, d); err != nil {
			return err
		}
	}
	if cfg.Output != "" {
		log.Noticef("Write distribution to %v", cfg.Output)
		return writeDist(cfg.Output, d)
	}
	return nil
}

// saveDist stores a distribution in the database of the configuration.
func saveDist(cfg *config.Config, name string, d *dice.Dist) (err error) {
	db, err := openDb(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	return db.Save(name, d)
}

// writeDist writes a distribution as JSON or as a chart page.
func writeDist(filename string, d *dice.Dist) error {
	if isHtml(filename) {
		return createFile(filename, func(f *os.File) error {
			return visualizer.RenderDist(f, d)
		})
	}
	return serializer.Write(filename, d)
}
