package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/l1-pricing/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "pricing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteDB_WriteAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	bids := []model.BidRecord{
		{Row: 2, BidNo: "GEM/2", SellerName: "Beta", OfferedItem: "STAPLER", TotalPrice: "80000", Rank: "L2"},
		{Row: 1, BidNo: "GEM/1", SellerName: "Alpha", OfferedItem: "CLIP", TotalPrice: "₹ 1,20,000", Rank: "L1", Winner: "Yes"},
	}
	n, err := s.WriteBids(ctx, bids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.WriteBasic(ctx, []model.BasicRecord{{Row: 1, BidNo: "GEM/1", Quantity: "10 Nos"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Bids(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, bids[1], got[0], "ordered by row")
	assert.Equal(t, bids[0], got[1])

	basic, err := s.Basic(ctx)
	require.NoError(t, err)
	require.Len(t, basic, 1)
	assert.Equal(t, "10 Nos", basic[0].Quantity)
}

func TestSQLiteDB_WriteReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	_, err := s.WriteBids(ctx, []model.BidRecord{{Row: 1, BidNo: "OLD", SellerName: "A", OfferedItem: "X", TotalPrice: "1"}})
	require.NoError(t, err)
	_, err = s.WriteBids(ctx, []model.BidRecord{{Row: 1, BidNo: "NEW", SellerName: "B", OfferedItem: "Y", TotalPrice: "2"}})
	require.NoError(t, err)

	got, err := s.Bids(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NEW", got[0].BidNo)
}

func TestSQLiteDB_NotMigrated(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	_, err = s.Bids(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestImport_CSVToSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := &CSVSource{
		FinancialPath: writeFile(t, dir, "financial.csv", financialCSV),
		BasicPath:     writeFile(t, dir, "basic.csv", basicCSV),
	}
	dst, err := OpenSQLite(filepath.Join(dir, "pricing.db"))
	require.NoError(t, err)
	defer dst.Close() //nolint:errcheck

	stats, err := Import(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Bids: 3, Quantities: 2}, stats)

	want, err := src.Bids(ctx)
	require.NoError(t, err)
	got, err := dst.Bids(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImport_SkipsMissingBasic(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := &CSVSource{
		FinancialPath: writeFile(t, dir, "financial.csv", financialCSV),
		BasicPath:     filepath.Join(dir, "missing.csv"),
	}
	dst := newTestSQLite(t)

	stats, err := Import(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Bids)
	assert.Zero(t, stats.Quantities)
}

func TestImport_MissingFinancial(t *testing.T) {
	src := &CSVSource{FinancialPath: filepath.Join(t.TempDir(), "missing.csv")}
	_, err := Import(context.Background(), src, newTestSQLite(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import read bids")
}
