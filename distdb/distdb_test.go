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

package distdb

import (
	"database/sql"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/0xsoniclabs/distat/statistics/discrete"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) DistDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "dist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testDist(t *testing.T, seed int64, n int) *dice.Dist {
	t.Helper()
	rd, err := dice.NewRollDef(dice.PoolOf(3, dice.D(6)), dice.Must(dice.Sum()))
	require.NoError(t, err)
	d, err := rd.WithName("3d6").Dist(rand.New(rand.NewSource(seed)), n)
	require.NoError(t, err)
	return d
}

func TestDistDB_SaveAndLoad(t *testing.T) {
	db := openTestDB(t)
	d := testDist(t, 1, 10_000)
	require.NoError(t, db.Save("3d6", d))

	loaded, err := db.Load("3d6")
	require.NoError(t, err)
	assert.Equal(t, d.N, loaded.N)
	assert.Equal(t, d.Bins, loaded.Bins)
	assert.InDeltaSlice(t, d.Values, loaded.Values, 1e-12)
	assert.InDelta(t, d.Mean, loaded.Mean, 1e-9)
	assert.Equal(t, d.Median, loaded.Median)
	require.NotNil(t, loaded.RollDef)
	assert.Equal(t, d.RollDef.String(), loaded.RollDef.String())
}

func TestDistDB_SaveReplacesAndRefines(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Save("3d6", testDist(t, 1, 1000)))

	loaded, err := db.Load("3d6")
	require.NoError(t, err)
	require.NoError(t, loaded.AddAccuracy(rand.New(rand.NewSource(2)), 4000))
	require.NoError(t, db.Save("3d6", loaded))

	refined, err := db.Load("3d6")
	require.NoError(t, err)
	assert.Equal(t, 5000, refined.N)

	names, err := db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"3d6"}, names)
}

func TestDistDB_DistWithoutRollDef(t *testing.T) {
	db := openTestDB(t)
	d, err := dice.RestoreDist(nil, 2, []int{1, 2, 3}, []float64{0.5, 0.5})
	require.NoError(t, err)
	require.NoError(t, db.Save("coin", d))
	loaded, err := db.Load("coin")
	require.NoError(t, err)
	assert.Nil(t, loaded.RollDef)
	assert.Equal(t, []int{1, 2, 3}, loaded.Bins)
}

func TestDistDB_NamesAndDelete(t *testing.T) {
	db := openTestDB(t)
	names, err := db.Names()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"b", "a", "c"} {
		require.NoError(t, db.Save(name, testDist(t, 3, 100)))
	}
	names, err = db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	require.NoError(t, db.Delete("b"))
	assert.ErrorIs(t, db.Delete("b"), ErrNotFound)
	_, err = db.Load("b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDistDB_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Save("3d6", testDist(t, 1, 100)))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	loaded, err := db.Load("3d6")
	require.NoError(t, err)
	assert.Equal(t, 100, loaded.N)
}

func newMockDB(t *testing.T) (*distDB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS dist").WillReturnResult(sqlmock.NewResult(0, 0))
	db, err := newDistDB(sqlx.NewDb(mockDB, "sqlmock"))
	require.NoError(t, err)
	return db, mock
}

var columns = []string{"name", "rolldef", "trials", "bins", "pmf", "mean", "median"}

func TestDistDB_SchemaFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("disk full"))
	_, err = newDistDB(sqlx.NewDb(mockDB, "sqlmock"))
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistDB_SaveFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO dist").WillReturnError(sql.ErrConnDone)
	err := db.Save("3d6", testDist(t, 1, 100))
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistDB_LoadFailures(t *testing.T) {
	tests := map[string]struct {
		rows *sqlmock.Rows
		err  error
		want error
	}{
		"query": {err: sql.ErrConnDone, want: sql.ErrConnDone},
		"no rows": {
			rows: sqlmock.NewRows(columns),
			want: ErrNotFound,
		},
		"bins": {
			rows: sqlmock.NewRows(columns).AddRow("x", "", 10, "oops", "[1]", 1.0, 1),
		},
		"pmf": {
			rows: sqlmock.NewRows(columns).AddRow("x", "", 10, "[1, 2]", "[0.5]", 1.0, 1),
			want: discrete.ErrInvalidTotal,
		},
		"rolldef": {
			rows: sqlmock.NewRows(columns).AddRow("x", `{"type": "Coin"}`, 10, "[1, 2]", "[1]", 1.0, 1),
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock := newMockDB(t)
			query := mock.ExpectQuery("SELECT (.+) FROM dist WHERE name").WithArgs("x")
			if test.err != nil {
				query.WillReturnError(test.err)
			} else {
				query.WillReturnRows(test.rows)
			}
			_, err := db.Load("x")
			require.Error(t, err)
			if test.want != nil {
				assert.ErrorIs(t, err, test.want)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDistDB_NamesFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT name FROM dist").WillReturnError(sql.ErrConnDone)
	_, err := db.Names()
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestDistDB_DeleteFailures(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM dist").WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, db.Delete("x"), ErrNotFound)

	mock.ExpectExec("DELETE FROM dist").WithArgs("x").WillReturnError(sql.ErrConnDone)
	assert.ErrorIs(t, db.Delete("x"), sql.ErrConnDone)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
