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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xsoniclabs/distat/config"
	"github.com/0xsoniclabs/distat/dice"
	"github.com/0xsoniclabs/distat/distdb"
	"github.com/cockroachdb/errors"
)

// errNoDb is returned by commands that need a distribution database.
var errNoDb = errors.New("missing distribution database; use --db")

// openDb opens the distribution database of the configuration.
func openDb(cfg *config.Config) (distdb.DistDB, error) {
	if cfg.DbFile == "" {
		return nil, errNoDb
	}
	return distdb.Open(cfg.DbFile)
}

// distName picks the name of a distribution: the --name option, the name of
// its roll definition, or the base name of the file it was read from.
func distName(cfg *config.Config, rd *dice.RollDef, filename string) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	if rd != nil && rd.Name != "" {
		return rd.Name
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// isHtml reports whether an output path asks for a rendered page.
func isHtml(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".html" || ext == ".htm"
}

// createFile creates an output file and passes it to write.
func createFile(filename string, write func(f *os.File) error) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "cannot create %v", filename)
	}
	defer func(f *os.File) {
		err = errors.Join(err, f.Close())
	}(f)
	return write(f)
}

// writeRows writes the trials of a batch as a JSON list of rows.
func writeRows(filename string, b *dice.Batch) error {
	return createFile(filename, func(f *os.File) error {
		return json.NewEncoder(f).Encode(b.Rows())
	})
}
