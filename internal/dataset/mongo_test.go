package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoSource(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("bids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "l1_pricing.bids", mtest.FirstBatch,
			bson.D{
				{Key: "row", Value: 1},
				{Key: "bid_no", Value: "GEM/1"},
				{Key: "seller_name", Value: "Alpha"},
				{Key: "offered_item", Value: "LIGATION CLIP"},
				{Key: "total_price", Value: "120000"},
				{Key: "rank", Value: "L1"},
			},
			bson.D{
				{Key: "row", Value: 2},
				{Key: "bid_no", Value: "GEM/2"},
				{Key: "seller_name", Value: "Beta"},
				{Key: "offered_item", Value: "STAPLER"},
				{Key: "total_price", Value: "80000"},
				{Key: "rank", Value: "L2"},
			},
		))

		src := NewMongoSource(mt.Client, "l1_pricing")
		bids, err := src.Bids(context.Background())
		require.NoError(mt, err)
		require.Len(mt, bids, 2)
		assert.Equal(mt, 1, bids[0].Row)
		assert.Equal(mt, "Alpha", bids[0].SellerName)
		assert.Equal(mt, "L2", bids[1].Rank)
	})

	mt.Run("basic", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "l1_pricing.tender_quantities", mtest.FirstBatch,
			bson.D{{Key: "row", Value: 1}, {Key: "bid_no", Value: "GEM/1"}, {Key: "quantity", Value: "25"}},
		))

		basic, err := NewMongoSource(mt.Client, "l1_pricing").Basic(context.Background())
		require.NoError(mt, err)
		require.Len(mt, basic, 1)
		assert.Equal(mt, "25", basic[0].Quantity)
	})

	mt.Run("find error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		_, err := NewMongoSource(mt.Client, "l1_pricing").Bids(context.Background())
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, ErrUnavailable))
		assert.Contains(mt, err.Error(), "mongo: find bids")
	})
}

func TestMongoSource_Describe(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("describe", func(mt *mtest.T) {
		assert.Equal(mt, "mongo:l1_pricing", NewMongoSource(mt.Client, "l1_pricing").Describe())
	})
}

func TestMongoRetryable(t *testing.T) {
	assert.True(t, mongoRetryable(errors.New("server selection timeout, current topology: Unknown")))
	assert.True(t, mongoRetryable(context.DeadlineExceeded))
	assert.False(t, mongoRetryable(errors.New("auth error: sasl conversation error")))
}
