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
	"path/filepath"

	"github.com/0xsoniclabs/distat/config"
	"github.com/0xsoniclabs/distat/dice/serializer"
	"github.com/0xsoniclabs/distat/logger"
	"github.com/0xsoniclabs/distat/presets"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// GenerateCommand writes preset roll definitions.
var GenerateCommand = cli.Command{
	Action: generateAction,
	Name:   "generate",
	Usage:  "writes preset roll definitions as JSON files",
	Flags: []cli.Flag{
		&utils.OutputFlag,
		&utils.PresetFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The generate command writes the selected --preset roll definitions, or all
of them, as <name>.json files into the --output directory.`,
}

func generateAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx, config.NoArgs)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Distat Generate")

	dir := cfg.Output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create %v", dir)
	}
	names := cfg.Presets
	if len(names) == 0 {
		names = presets.Names()
	}
	for _, name := range names {
		rd, err := presets.Get(name)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, name+".json")
		log.Debugf("Write %v", filename)
		if err := serializer.Write(filename, rd); err != nil {
			return err
		}
	}
	log.Noticef("Wrote %d roll definitions to %v", len(names), dir)
	return nil
}
