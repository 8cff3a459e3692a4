package dataset

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/l1-pricing/internal/db"
	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/resilience"
)

// PostgresDB is a Postgres database holding imported datasets. It serves as
// both Source and import destination.
type PostgresDB struct {
	pool db.Pool
	name string
}

// NewPostgres wraps an open pool. name identifies the database in status
// reports and must not contain credentials.
func NewPostgres(pool db.Pool, name string) *PostgresDB {
	return &PostgresDB{pool: pool, name: name}
}

// OpenPostgres connects to connString, retrying transient dial failures.
func OpenPostgres(ctx context.Context, connString string) (*PostgresDB, error) {
	pool, err := resilience.Retry(ctx, resilience.ConnectPolicy("postgres"), func(ctx context.Context) (*pgxpool.Pool, error) {
		return db.Connect(ctx, connString)
	})
	if err != nil {
		return nil, err
	}
	return NewPostgres(pool, pool.Config().ConnConfig.Database), nil
}

func (p *PostgresDB) Close() { p.pool.Close() }

func (p *PostgresDB) Describe() string {
	return "postgres:" + p.name
}

// Migrate creates the dataset tables.
func (p *PostgresDB) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)
	return eris.Wrap(err, "postgres: migrate")
}

func (p *PostgresDB) Bids(ctx context.Context) ([]model.BidRecord, error) {
	rows, err := p.pool.Query(ctx, selectBids)
	if err != nil {
		return nil, unavailable(p.Describe(), Financial, eris.Wrap(err, "postgres: query bids"))
	}
	defer rows.Close()

	var bids []model.BidRecord
	for rows.Next() {
		var b model.BidRecord
		if err := rows.Scan(&b.Row, &b.SerialNo, &b.BidNo, &b.SNo, &b.SellerName,
			&b.OfferedItem, &b.TotalPrice, &b.Rank, &b.Status, &b.Winner); err != nil {
			return nil, unavailable(p.Describe(), Financial, eris.Wrap(err, "postgres: scan bid"))
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(p.Describe(), Financial, eris.Wrap(err, "postgres: iterate bids"))
	}
	return bids, nil
}

func (p *PostgresDB) Basic(ctx context.Context) ([]model.BasicRecord, error) {
	rows, err := p.pool.Query(ctx, selectBasic)
	if err != nil {
		return nil, unavailable(p.Describe(), Basic, eris.Wrap(err, "postgres: query quantities"))
	}
	defer rows.Close()

	var out []model.BasicRecord
	for rows.Next() {
		var b model.BasicRecord
		if err := rows.Scan(&b.Row, &b.BidNo, &b.Quantity); err != nil {
			return nil, unavailable(p.Describe(), Basic, eris.Wrap(err, "postgres: scan quantity"))
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(p.Describe(), Basic, eris.Wrap(err, "postgres: iterate quantities"))
	}
	return out, nil
}

// WriteBids truncates bids and bulk-loads the records with COPY.
func (p *PostgresDB) WriteBids(ctx context.Context, bids []model.BidRecord) (int64, error) {
	rows := make([][]any, len(bids))
	for i, b := range bids {
		rows[i] = bidRow(b)
	}
	return p.replace(ctx, BidsTable, bidColumns, rows)
}

// WriteBasic truncates tender_quantities and bulk-loads the records.
func (p *PostgresDB) WriteBasic(ctx context.Context, basic []model.BasicRecord) (int64, error) {
	rows := make([][]any, len(basic))
	for i, b := range basic {
		rows[i] = basicRow(b)
	}
	return p.replace(ctx, QuantitiesTable, basicColumns, rows)
}

func (p *PostgresDB) replace(ctx context.Context, table string, cols []string, rows [][]any) (int64, error) {
	if _, err := p.pool.Exec(ctx, "TRUNCATE "+table); err != nil {
		return 0, eris.Wrapf(err, "postgres: truncate %s", table)
	}
	return db.CopyFrom(ctx, p.pool, table, cols, rows)
}
