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

// Package distdb stores named distributions in a sqlite database so their
// accuracy can be refined across runs.
package distdb

import (
	"database/sql"
	"encoding/json"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/0xsoniclabs/distat/dice/serializer"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	// Your main or test packages require this import so the sql package is properly initialized.
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("distribution not found")

const (
	// SQL statement for creating the distribution table
	createSQL = `
PRAGMA journal_mode = MEMORY;
CREATE TABLE IF NOT EXISTS dist (
	name TEXT PRIMARY KEY,
	rolldef TEXT NOT NULL,
	trials INTEGER NOT NULL,
	bins TEXT NOT NULL,
	pmf TEXT NOT NULL,
	mean FLOAT NOT NULL,
	median INTEGER NOT NULL,
	updated DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
	// SQL statement for inserting or replacing a distribution
	upsertSQL = `
INSERT INTO dist (
	name, rolldef, trials, bins, pmf, mean, median
) VALUES (
	:name, :rolldef, :trials, :bins, :pmf, :mean, :median
)
ON CONFLICT(name) DO UPDATE SET
	rolldef = excluded.rolldef,
	trials = excluded.trials,
	bins = excluded.bins,
	pmf = excluded.pmf,
	mean = excluded.mean,
	median = excluded.median,
	updated = CURRENT_TIMESTAMP
`
	selectSQL = `SELECT name, rolldef, trials, bins, pmf, mean, median FROM dist WHERE name = ?`
	namesSQL  = `SELECT name FROM dist ORDER BY name`
	deleteSQL = `DELETE FROM dist WHERE name = ?`
)

// DistDB is a store of named distributions.
type DistDB interface {
	Save(name string, d *dice.Dist) error
	Load(name string) (*dice.Dist, error)
	Names() ([]string, error)
	Delete(name string) error
	Close() error
}

// record is a row of the dist table.
type record struct {
	Name    string  `db:"name"`
	RollDef string  `db:"rolldef"` // serialized roll definition, empty if unknown
	Trials  int     `db:"trials"`
	Bins    string  `db:"bins"` // JSON list of bin edges
	PMF     string  `db:"pmf"`  // JSON list of probabilities
	Mean    float64 `db:"mean"`
	Median  int     `db:"median"`
}

type distDB struct {
	db *sqlx.DB
}

// Open opens or creates the store in the given sqlite file.
func Open(dbFile string) (DistDB, error) {
	db, err := sqlx.Open("sqlite3", dbFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %v", dbFile)
	}
	s, err := newDistDB(db)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return s, nil
}

func newDistDB(db *sqlx.DB) (*distDB, error) {
	if _, err := db.Exec(createSQL); err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &distDB{db: db}, nil
}

// Save inserts the distribution or replaces the one stored under the name.
func (s *distDB) Save(name string, d *dice.Dist) error {
	rec := record{
		Name:   name,
		Trials: d.N,
		Mean:   d.Mean,
		Median: d.Median,
	}
	if d.RollDef != nil {
		data, err := serializer.Marshal(d.RollDef)
		if err != nil {
			return err
		}
		rec.RollDef = string(data)
	}
	bins, err := json.Marshal(d.Bins)
	if err != nil {
		return err
	}
	pmf, err := json.Marshal(d.Values)
	if err != nil {
		return err
	}
	rec.Bins, rec.PMF = string(bins), string(pmf)
	if _, err := s.db.NamedExec(upsertSQL, rec); err != nil {
		return errors.Wrapf(err, "failed to save %v", name)
	}
	return nil
}

// Load restores the distribution stored under the name.
func (s *distDB) Load(name string) (*dice.Dist, error) {
	var rec record
	if err := s.db.Get(&rec, selectSQL, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "%q", name)
		}
		return nil, errors.Wrapf(err, "failed to load %v", name)
	}
	var rd *dice.RollDef
	if rec.RollDef != "" {
		var err error
		if rd, err = serializer.UnmarshalRollDef([]byte(rec.RollDef)); err != nil {
			return nil, errors.Wrapf(err, "roll definition of %v", name)
		}
	}
	var bins []int
	if err := json.Unmarshal([]byte(rec.Bins), &bins); err != nil {
		return nil, errors.Wrapf(err, "bins of %v", name)
	}
	var pmf []float64
	if err := json.Unmarshal([]byte(rec.PMF), &pmf); err != nil {
		return nil, errors.Wrapf(err, "pmf of %v", name)
	}
	return dice.RestoreDist(rd, rec.Trials, bins, pmf)
}

// Names lists the stored distributions in alphabetical order.
func (s *distDB) Names() ([]string, error) {
	names := []string{}
	if err := s.db.Select(&names, namesSQL); err != nil {
		return nil, errors.Wrap(err, "failed to list distributions")
	}
	return names, nil
}

// Delete removes the distribution stored under the name.
func (s *distDB) Delete(name string) error {
	res, err := s.db.Exec(deleteSQL, name)
	if err != nil {
		return errors.Wrapf(err, "failed to delete %v", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}

// Close closes the database.
func (s *distDB) Close() error {
	return s.db.Close()
}
