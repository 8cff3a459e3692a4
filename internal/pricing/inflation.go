package pricing

import "github.com/sells-group/l1-pricing/internal/money"

// MarketAverage is the mean of every seller's average. It is recomputed on
// demand and never stored in the table.
func MarketAverage(t Table) (float64, error) {
	if err := t.require("market average", ColAverage); err != nil {
		return 0, err
	}
	avgs := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		avgs[i] = r.Average
	}
	return Mean(avgs), nil
}

// EnrichWithInflation adds inflation_rate_percent: each seller's deviation
// from the market average as a percentage, rounded to two decimals. A zero
// market average yields zero inflation for everyone.
func EnrichWithInflation(t Table) (Table, error) {
	if err := t.require("inflation", ColAverage); err != nil {
		return Table{}, err
	}
	market, _ := MarketAverage(t)

	return t.with(ColInflation, func(r *SellerAggregate) {
		if market == 0 {
			r.InflationPercent = 0
			return
		}
		r.InflationPercent = money.Round2((r.Average - market) / market * 100)
	}), nil
}
