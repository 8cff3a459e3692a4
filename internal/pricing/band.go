package pricing

import (
	"math"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/money"
)

const (
	confidenceFloor = 50
	confidenceStep  = 5
	confidenceCap   = 95
)

// Confidence is a saturating function of the number of seller rows:
// min(95, 50+5n). It is only meaningful for n > 0.
func Confidence(n int) int {
	c := confidenceFloor + confidenceStep*n
	if c > confidenceCap {
		return confidenceCap
	}
	return c
}

// CalculateL1PriceBand derives the bidding band from the seller table using
// opts.BandPolicy. An empty table returns ErrNoCompetitors.
func CalculateL1PriceBand(t Table, opts Options) (model.PriceBand, error) {
	policy := opts.BandPolicy
	if policy == "" {
		policy = model.BandPolicyPercentile
	}

	var (
		band model.PriceBand
		err  error
	)
	switch policy {
	case model.BandPolicyAnchor:
		band, err = anchorBand(t)
	default:
		band, err = percentileBand(t, opts)
	}
	if err != nil {
		return model.PriceBand{}, err
	}

	if band.High < band.Low {
		band.High = money.Round2(band.Low * opts.SpreadCorrection)
		band.Corrected = true
	}
	band.Policy = policy
	band.Sellers = t.Len()
	band.Confidence = Confidence(t.Len())
	return band, nil
}

// percentileBand undercuts the low and high percentiles of recommended
// prices. Below MinSellersForPercentile rows it undercuts the cheapest
// recommendation instead.
func percentileBand(t Table, opts Options) (model.PriceBand, error) {
	if err := t.require("price band", ColRecommended); err != nil {
		return model.PriceBand{}, err
	}
	if t.Len() == 0 {
		return model.PriceBand{}, ErrNoCompetitors
	}

	prices := t.Recommended()
	if t.Len() < opts.MinSellersForPercentile {
		floor := minOf(prices)
		return model.PriceBand{
			Low:      money.Round2(floor * opts.LowUndercut),
			High:     money.Round2(floor * opts.HighUndercut),
			Fallback: true,
		}, nil
	}
	return model.PriceBand{
		Low:  money.Round2(Percentile(prices, opts.LowPercentile) * opts.LowUndercut),
		High: money.Round2(Percentile(prices, opts.HighPercentile) * opts.HighUndercut),
	}, nil
}

// anchorBand anchors the band on the cheapest observed prices, capped by the
// market average. Sellers without a ranked price are skipped for that term.
func anchorBand(t Table) (model.PriceBand, error) {
	if err := t.require("price band", ColAverage, ColLastRanked, ColLeastPrice, ColRecommended); err != nil {
		return model.PriceBand{}, err
	}
	if t.Len() == 0 {
		return model.PriceBand{}, ErrNoCompetitors
	}

	market, _ := MarketAverage(t)
	minRanked, minLeast, minRec := math.Inf(1), math.Inf(1), math.Inf(1)
	for _, r := range t.Rows {
		if r.LastRankedPrice != nil {
			minRanked = math.Min(minRanked, *r.LastRankedPrice)
		}
		minLeast = math.Min(minLeast, r.LeastPrice)
		minRec = math.Min(minRec, r.RecommendedPrice)
	}

	return model.PriceBand{
		Low:  money.Round2(math.Min(math.Min(minRanked, minLeast), market)),
		High: money.Round2(math.Min(minRec, market)),
	}, nil
}
