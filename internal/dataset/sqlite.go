package dataset

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/l1-pricing/internal/model"
)

// SQLiteDB is a SQLite database holding imported datasets. It serves as
// both Source and import destination.
type SQLiteDB struct {
	db   *sqlx.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	db.SetMaxOpenConns(1)
	return &SQLiteDB{db: db, path: path}, nil
}

// Migrate creates the dataset tables.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Describe() string {
	return "sqlite:" + s.path
}

func (s *SQLiteDB) Bids(ctx context.Context) ([]model.BidRecord, error) {
	var bids []model.BidRecord
	if err := s.db.SelectContext(ctx, &bids, selectBids); err != nil {
		return nil, unavailable(s.Describe(), Financial, eris.Wrap(err, "sqlite: select bids"))
	}
	return bids, nil
}

func (s *SQLiteDB) Basic(ctx context.Context) ([]model.BasicRecord, error) {
	var basic []model.BasicRecord
	if err := s.db.SelectContext(ctx, &basic, selectBasic); err != nil {
		return nil, unavailable(s.Describe(), Basic, eris.Wrap(err, "sqlite: select quantities"))
	}
	return basic, nil
}

// WriteBids replaces the bids table contents in one transaction.
func (s *SQLiteDB) WriteBids(ctx context.Context, bids []model.BidRecord) (int64, error) {
	rows := make([][]any, len(bids))
	for i, b := range bids {
		rows[i] = bidRow(b)
	}
	return s.replace(ctx, BidsTable, bidColumns, rows)
}

// WriteBasic replaces the tender_quantities table contents.
func (s *SQLiteDB) WriteBasic(ctx context.Context, basic []model.BasicRecord) (int64, error) {
	rows := make([][]any, len(basic))
	for i, b := range basic {
		rows[i] = basicRow(b)
	}
	return s.replace(ctx, QuantitiesTable, basicColumns, rows)
}

func (s *SQLiteDB) replace(ctx context.Context, table string, cols []string, rows [][]any) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear %s", table)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PreparexContext(ctx, "INSERT INTO "+table+" ("+strings.Join(cols, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prepare insert %s", table)
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert %s", table)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return int64(len(rows)), nil
}
