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
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/distat/distdb"
	"github.com/0xsoniclabs/distat/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmd_RunRefineCommand(t *testing.T) {
	// given
	tmpDir := t.TempDir()
	rolldef := writePreset(t, tmpDir, "attribute-4d6-drop-lowest")
	dbFile := filepath.Join(tmpDir, "dists.db")
	distApp, _ := newApp(&DistCommand)
	require.NoError(t, distApp.Run(utils.NewArgs("test").
		Arg(DistCommand.Name).
		Flag(utils.TrialsFlag.Name, 1000).
		Flag(utils.DbFlag.Name, dbFile).
		Flag(utils.NameFlag.Name, "attr").
		Arg(rolldef).
		Build()))

	app, out := newApp(&RefineCommand)
	args := utils.NewArgs("test").
		Arg(RefineCommand.Name).
		Flag(utils.TrialsFlag.Name, 3000).
		Flag(utils.DbFlag.Name, dbFile).
		Arg("attr").
		Build()

	// when
	err := app.Run(args)

	// then
	require.NoError(t, err)
	assert.Contains(t, out.String(), "4,000")

	db, err := distdb.Open(dbFile)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	d, err := db.Load("attr")
	require.NoError(t, err)
	assert.Equal(t, 4000, d.N)
	assert.InDelta(t, 12.24, d.Mean, 0.25)
}

func TestCmd_RunRefineCommandErrors(t *testing.T) {
	tmpDir := t.TempDir()
	app, _ := newApp(&RefineCommand)

	err := app.Run(utils.NewArgs("test").Arg(RefineCommand.Name).Arg("attr").Build())
	assert.ErrorIs(t, err, errNoDb)

	err = app.Run(utils.NewArgs("test").
		Arg(RefineCommand.Name).
		Flag(utils.DbFlag.Name, filepath.Join(tmpDir, "dists.db")).
		Arg("missing").
		Build())
	assert.ErrorIs(t, err, distdb.ErrNotFound)
}
