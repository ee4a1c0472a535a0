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
	"github.com/0xsoniclabs/distat/config"
	"github.com/0xsoniclabs/distat/logger"
	"github.com/0xsoniclabs/distat/report"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// TableCommand prints the stored distributions.
var TableCommand = cli.Command{
	Action: tableAction,
	Name:   "table",
	Usage:  "prints a summary table of the stored distributions",
	Flags: []cli.Flag{
		&utils.DbFlag,
		&logger.LogLevelFlag,
	},
}

func tableAction(ctx *cli.Context) (err error) {
	cfg, err := config.NewConfig(ctx, config.NoArgs)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Distat Table")

	db, err := openDb(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	names, err := db.Names()
	if err != nil {
		return err
	}
	log.Infof("Found %d distributions in %v", len(names), cfg.DbFile)
	summaries := make([]report.Summary, 0, len(names))
	for _, name := range names {
		d, err := db.Load(name)
		if err != nil {
			return err
		}
		summaries = append(summaries, report.Summarize(name, d))
	}
	return report.WriteTable(ctx.App.Writer, summaries)
}
