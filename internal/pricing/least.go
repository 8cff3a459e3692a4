package pricing

import "github.com/sells-group/l1-pricing/internal/model"

// EnrichWithLeastPrice adds least_price, each seller's minimum cleaned total
// price across the filtered bids.
func EnrichWithLeastPrice(filtered []model.BidRecord, t Table) (Table, error) {
	if err := t.require("least price", ColAverage); err != nil {
		return Table{}, err
	}

	_, groups := groupBySeller(pricedBids(filtered))
	least := make(map[string]float64, len(groups))
	for name, bids := range groups {
		prices := make([]float64, len(bids))
		for i, b := range bids {
			prices[i] = b.price
		}
		least[name] = minOf(prices)
	}

	return t.with(ColLeastPrice, func(r *SellerAggregate) {
		if v, ok := least[r.SellerName]; ok {
			r.LeastPrice = v
			return
		}
		// A row built from other bids still falls back to its own average.
		r.LeastPrice = r.Average
	}), nil
}
