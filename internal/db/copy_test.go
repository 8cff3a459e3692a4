package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.Background(), nil, "bids", []string{"bid_no"}, nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"bids"}, []string{"row_id", "bid_no"}).WillReturnResult(2)

	n, err := CopyFrom(context.Background(), mock, "bids", []string{"row_id", "bid_no"}, [][]any{{1, "GEM/1"}, {2, "GEM/2"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"tender_quantities"}, []string{"bid_no"}).WillReturnError(errors.New("permission denied"))

	_, err = CopyFrom(context.Background(), mock, "tender_quantities", []string{"bid_no"}, [][]any{{"GEM/1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy into tender_quantities")
	assert.NoError(t, mock.ExpectationsWereMet())
}
