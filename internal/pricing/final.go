package pricing

import (
	"math"

	"github.com/sells-group/l1-pricing/internal/money"
)

// EnrichWithFinalPrice adds recommended_price:
//
//	average * (1 + inflation/100), floored at least_price
//
// and, when opts.EnforceMinTenderPrice is set, at opts.MinTenderPrice. The
// result is rounded to two decimals without dropping below least_price.
// quantityFactor is accepted for symmetry with the quantity stage and is
// never applied; prices are whole-contract totals.
func EnrichWithFinalPrice(t Table, quantityFactor float64, opts Options) (Table, error) {
	if err := t.require("final price", ColAverage, ColInflation, ColLeastPrice); err != nil {
		return Table{}, err
	}

	return t.with(ColRecommended, func(r *SellerAggregate) {
		price := r.Average * (1 + r.InflationPercent/100)
		price = math.Max(price, r.LeastPrice)
		if opts.EnforceMinTenderPrice {
			price = math.Max(price, opts.MinTenderPrice)
		}

		rounded := money.Round2(price)
		if rounded < r.LeastPrice {
			rounded = money.Ceil2(r.LeastPrice)
		}
		r.RecommendedPrice = rounded
	}), nil
}
