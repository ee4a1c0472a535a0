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
	"github.com/0xsoniclabs/distat/logger"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/urfave/cli/v2"
)

// createConfigFromFlags returns Config instance with user specified values or the default ones
func createConfigFromFlags(ctx *cli.Context) *Config {
	cfg := &Config{
		AppName:     ctx.App.HelpName,
		CommandName: commandName(ctx),

		Trials:     getFlagValue(ctx, utils.TrialsFlag).(int),
		RandomSeed: getFlagValue(ctx, utils.RandomSeedFlag).(int64),
		Output:     getFlagValue(ctx, utils.OutputFlag).(string),
		Port:       getFlagValue(ctx, utils.PortFlag).(string),
		DbFile:     getFlagValue(ctx, utils.DbFlag).(string),
		Name:       getFlagValue(ctx, utils.NameFlag).(string),
		Presets:    getFlagValue(ctx, utils.PresetFlag).([]string),
		LogLevel:   getFlagValue(ctx, logger.LogLevelFlag).(string),
	}

	return cfg
}

func commandName(ctx *cli.Context) string {
	if ctx.Command == nil {
		return ""
	}
	return ctx.Command.Name
}

// getFlagValue returns value specified by user if flag is present in cli context, otherwise return default flag value
func getFlagValue(ctx *cli.Context, flag interface{}) interface{} {
	var cmdFlags []cli.Flag
	if ctx.Command != nil {
		cmdFlags = ctx.Command.Flags
	}
	for _, cmdFlag := range cmdFlags {
		switch f := flag.(type) {
		case cli.IntFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Int(f.Name)
			}

		case cli.Int64Flag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Int64(f.Name)
			}

		case cli.StringFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.String(f.Name)
			}

		case cli.PathFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Path(f.Name)
			}

		case cli.StringSliceFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.StringSlice(f.Name)
			}
		}
	}

	// If flag not found, return the default value of the flag
	switch f := flag.(type) {
	case cli.IntFlag:
		return f.Value
	case cli.Int64Flag:
		return f.Value
	case cli.StringFlag:
		return f.Value
	case cli.PathFlag:
		return f.Value
	case cli.StringSliceFlag:
		if f.Value == nil {
			return []string{}
		}
		return f.Value.Value()
	}
	return nil
}
