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
	"github.com/0xsoniclabs/distat/dice"
	"github.com/0xsoniclabs/distat/dice/serializer"
	"github.com/0xsoniclabs/distat/logger"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/0xsoniclabs/distat/visualizer"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// VisualizeCommand serves the charts of distributions.
var VisualizeCommand = cli.Command{
	Action:    visualizeAction,
	Name:      "visualize",
	Usage:     "produces a graphical view of distributions",
	ArgsUsage: "<file.json>...",
	Flags: []cli.Flag{
		&utils.TrialsFlag,
		&utils.RandomSeedFlag,
		&utils.PortFlag,
		&utils.DbFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The visualize command reads roll definitions or distributions from the
given JSON files, samples the roll definitions, adds the distributions
stored in --db and serves a dashboard on --port.`,
}

func visualizeAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx, config.OneToNArgs)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Distat Visualize")

	dists, err := loadDists(cfg, log)
	if err != nil {
		return err
	}
	log.Noticef("Serve %d distributions on port %v", len(dists), cfg.Port)
	return visualizer.FireUpWeb(dists, cfg.Port)
}

// loadDists reads the distributions of the positional arguments and of the
// database.
func loadDists(cfg *config.Config, log logger.Logger) (dists []*dice.Dist, err error) {
	rg, err := cfg.NewRand()
	if err != nil {
		return nil, err
	}
	for _, filename := range cfg.Args {
		v, err := serializer.Read(filename)
		if err != nil {
			return nil, err
		}
		switch x := v.(type) {
		case *dice.Dist:
			if x.RollDef != nil && x.RollDef.Name == "" {
				x.RollDef.WithName(distName(cfg, nil, filename))
			}
			dists = append(dists, x)
		case *dice.RollDef:
			if x.Name == "" {
				x.WithName(distName(cfg, nil, filename))
			}
			log.Infof("Sample %d trials of %v", cfg.Trials, x.Name)
			d, err := x.Dist(rg, cfg.Trials)
			if err != nil {
				return nil, err
			}
			dists = append(dists, d)
		default:
			return nil, errors.Wrapf(serializer.ErrUnexpectedType, "%v holds a %T", filename, v)
		}
	}
	if cfg.DbFile == "" {
		return dists, nil
	}
	db, err := openDb(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	names, err := db.Names()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		d, err := db.Load(name)
		if err != nil {
			return nil, err
		}
		if d.RollDef != nil && d.RollDef.Name == "" {
			d.RollDef.WithName(name)
		}
		dists = append(dists, d)
	}
	return dists, nil
}
