/*
Package manifest keeps resolved splits in SQLite database

Every row of train and test is stored by its fingerprint, so a later resolution
of the same problem and fold can be checked to produce the same partition.
*/
package manifest

import (
	"database/sql"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"go-ml.dev/pkg/tsdata/split"
	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/zorros"
)

const schema = `
CREATE TABLE IF NOT EXISTS splits (
	problem     TEXT    NOT NULL,
	fold        INTEGER NOT NULL,
	tier        TEXT    NOT NULL,
	part        TEXT    NOT NULL,
	position    INTEGER NOT NULL,
	class       INTEGER NOT NULL,
	fingerprint TEXT    NOT NULL,
	PRIMARY KEY (problem, fold, part, position)
)`

const (
	trainPart = "train"
	testPart  = "test"
)

/*
Entry is a stored split
*/
type Entry struct {
	Problem string
	Fold    int
	Tier    string
	Train   []Item
	Test    []Item
}

/*
Item is one stored row
*/
type Item struct {
	Class       int
	Fingerprint string
}

/*
Store is a manifest database
*/
type Store struct {
	db *sql.DB
}

/*
Open opens or creates manifest database file
*/
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zorros.Wrapf(err, "failed to open manifest `%v`: %v", path, err.Error())
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, zorros.Wrapf(err, "failed to initialize manifest `%v`: %v", path, err.Error())
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func items(t *tables.Table) []Item {
	is := make([]Item, t.Len())
	for i, r := range t.Rows {
		is[i] = Item{Class: t.Class(i), Fingerprint: r.Fingerprint()}
	}
	return is
}

/*
EntryOf builds the manifest entry of a resolved split
*/
func EntryOf(problem string, fold int, r *split.Result) Entry {
	return Entry{
		Problem: problem,
		Fold:    fold,
		Tier:    r.Tier.String(),
		Train:   items(r.Train),
		Test:    items(r.Test),
	}
}

/*
Record replaces the stored split of the problem and fold
*/
func (s *Store) Record(problem string, fold int, r *split.Result) (err error) {
	e := EntryOf(problem, fold, r)
	tx, err := s.db.Begin()
	if err != nil {
		return zorros.Trace(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if _, err = tx.Exec(`DELETE FROM splits WHERE problem = ? AND fold = ?`, problem, fold); err != nil {
		return zorros.Trace(err)
	}
	st, err := tx.Prepare(`INSERT INTO splits (problem, fold, tier, part, position, class, fingerprint) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return zorros.Trace(err)
	}
	defer st.Close()
	for _, p := range []struct {
		name  string
		items []Item
	}{{trainPart, e.Train}, {testPart, e.Test}} {
		for i, it := range p.items {
			if _, err = st.Exec(problem, fold, e.Tier, p.name, i, it.Class, it.Fingerprint); err != nil {
				return zorros.Trace(err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

/*
Lookup returns the stored split, ok is false if there is no such one
*/
func (s *Store) Lookup(problem string, fold int) (e Entry, ok bool, err error) {
	rows, err := s.db.Query(`SELECT tier, part, class, fingerprint FROM splits WHERE problem = ? AND fold = ? ORDER BY part, position`, problem, fold)
	if err != nil {
		return e, false, zorros.Trace(err)
	}
	defer rows.Close()
	e.Problem, e.Fold = problem, fold
	for rows.Next() {
		var part string
		var it Item
		if err = rows.Scan(&e.Tier, &part, &it.Class, &it.Fingerprint); err != nil {
			return e, false, zorros.Trace(err)
		}
		ok = true
		if part == trainPart {
			e.Train = append(e.Train, it)
		} else {
			e.Test = append(e.Test, it)
		}
	}
	if err = rows.Err(); err != nil {
		return e, false, zorros.Trace(err)
	}
	return e, ok, nil
}

/*
Verify compares the split with the stored one ignoring the order of rows.
A split which was never recorded is reported as not verified
*/
func (s *Store) Verify(problem string, fold int, r *split.Result) (bool, error) {
	stored, ok, err := s.Lookup(problem, fold)
	if err != nil || !ok {
		return false, err
	}
	e := EntryOf(problem, fold, r)
	return stored.Tier == e.Tier && same(stored.Train, e.Train) && same(stored.Test, e.Test), nil
}

func same(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := fingerprints(a), fingerprints(b)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func fingerprints(is []Item) []string {
	fs := make([]string, len(is))
	for i, it := range is {
		fs[i] = it.Fingerprint
	}
	sort.Strings(fs)
	return fs
}
