package pricing

import (
	"context"
	"errors"

	"github.com/sells-group/l1-pricing/internal/model"
)

func bid(seller, item, price, rank string) model.BidRecord {
	return model.BidRecord{
		BidNo:       "GEM/2024/B/" + seller,
		SellerName:  seller,
		OfferedItem: item,
		TotalPrice:  price,
		Rank:        rank,
	}
}

func bidNo(b model.BidRecord, no string) model.BidRecord {
	b.BidNo = no
	return b
}

func ptr(v float64) *float64 { return &v }

type fakeDataset struct {
	bids     []model.BidRecord
	basic    []model.BasicRecord
	bidsErr  error
	basicErr error
}

func (f *fakeDataset) Bids(context.Context) ([]model.BidRecord, error) {
	return f.bids, f.bidsErr
}

func (f *fakeDataset) Basic(context.Context) ([]model.BasicRecord, error) {
	return f.basic, f.basicErr
}

func (f *fakeDataset) Describe() string { return "fake" }

var errBoom = errors.New("boom")

// fullTable is a table with every column present.
func fullTable(rows ...SellerAggregate) Table {
	return Table{
		Rows:    rows,
		Columns: ColAverage | ColInflation | ColLastRanked | ColLeastPrice | ColRecommended,
	}
}
