package pricing

import (
	"sort"
	"strings"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/money"
)

// DefaultSellerPercentile is the quantile of a seller's historical prices
// used as their "average". The bottom decile tracks L1-adjacent behaviour
// rather than catalogue pricing.
const DefaultSellerPercentile = 0.10

// pricedBid is a filtered bid whose total price parsed.
type pricedBid struct {
	model.BidRecord
	price float64
}

// pricedBids cleans total prices and drops rows that fail to parse or have
// no seller.
func pricedBids(bids []model.BidRecord) []pricedBid {
	out := make([]pricedBid, 0, len(bids))
	for _, b := range bids {
		if sellerKey(b) == "" {
			continue
		}
		p, ok := money.Clean(b.TotalPrice)
		if !ok {
			continue
		}
		out = append(out, pricedBid{BidRecord: b, price: p})
	}
	return out
}

func sellerKey(b model.BidRecord) string {
	return strings.TrimSpace(b.SellerName)
}

// groupBySeller returns each seller's priced bids in original order, with
// sellers sorted by name.
func groupBySeller(bids []pricedBid) ([]string, map[string][]pricedBid) {
	groups := make(map[string][]pricedBid)
	for _, b := range bids {
		key := sellerKey(b.BidRecord)
		groups[key] = append(groups[key], b)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, groups
}

// GenerateSellerAverage builds the seller table from filtered bids using
// DefaultSellerPercentile.
func GenerateSellerAverage(filtered []model.BidRecord) Table {
	return GenerateSellerPercentile(filtered, DefaultSellerPercentile)
}

// GenerateSellerPercentile builds one row per seller whose average is the
// p-quantile of that seller's cleaned prices. Rows with unparseable prices
// are excluded. The first-seen bid id and serial number are carried along.
func GenerateSellerPercentile(filtered []model.BidRecord, p float64) Table {
	names, groups := groupBySeller(pricedBids(filtered))

	rows := make([]SellerAggregate, 0, len(names))
	for _, name := range names {
		bids := groups[name]
		prices := make([]float64, len(bids))
		for i, b := range bids {
			prices[i] = b.price
		}
		rows = append(rows, SellerAggregate{
			SellerName: name,
			SNo:        bids[0].SNo,
			BidNo:      bids[0].BidNo,
			Bids:       len(bids),
			Average:    Percentile(prices, p),
		})
	}
	return Table{Rows: rows, Columns: ColAverage}
}
