package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/l1-pricing/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresDB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgres(mock, "tenders"), mock
}

func TestPostgresDB_Bids(t *testing.T) {
	p, mock := newMockPostgres(t)

	rows := pgxmock.NewRows(bidColumns).
		AddRow(1, "1", "GEM/1", "1", "Alpha", "LIGATION CLIP", "120000", "L1", "Completed", "Yes").
		AddRow(2, "2", "GEM/2", "1", "Beta", "STAPLER", "80000", "L2", "Completed", "No")
	mock.ExpectQuery("SELECT row_id, serial_no").WillReturnRows(rows)

	bids, err := p.Bids(context.Background())
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, model.BidRecord{
		Row: 1, SerialNo: "1", BidNo: "GEM/1", SNo: "1", SellerName: "Alpha",
		OfferedItem: "LIGATION CLIP", TotalPrice: "120000", Rank: "L1", Status: "Completed", Winner: "Yes",
	}, bids[0])
	assert.Equal(t, "Beta", bids[1].SellerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Basic(t *testing.T) {
	p, mock := newMockPostgres(t)

	rows := pgxmock.NewRows(basicColumns).AddRow(1, "GEM/1", "25 Nos")
	mock.ExpectQuery("SELECT row_id, bid_no, quantity FROM tender_quantities").WillReturnRows(rows)

	basic, err := p.Basic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.BasicRecord{{Row: 1, BidNo: "GEM/1", Quantity: "25 Nos"}}, basic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_QueryError(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectQuery("SELECT row_id, serial_no").WillReturnError(errors.New("connection refused"))

	_, err := p.Bids(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "postgres:tenders")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Migrate(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bids").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, p.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_WriteBids(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec("TRUNCATE bids").WillReturnResult(pgxmock.NewResult("TRUNCATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{BidsTable}, bidColumns).WillReturnResult(2)

	n, err := p.WriteBids(context.Background(), []model.BidRecord{
		{Row: 1, BidNo: "GEM/1", SellerName: "Alpha", OfferedItem: "CLIP", TotalPrice: "1"},
		{Row: 2, BidNo: "GEM/2", SellerName: "Beta", OfferedItem: "CLIP", TotalPrice: "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_WriteBasicTruncateError(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec("TRUNCATE tender_quantities").WillReturnError(errors.New("permission denied"))

	_, err := p.WriteBasic(context.Background(), []model.BasicRecord{{Row: 1, BidNo: "GEM/1", Quantity: "5"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncate tender_quantities")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Describe(t *testing.T) {
	p, _ := newMockPostgres(t)
	assert.Equal(t, "postgres:tenders", p.Describe())
}
