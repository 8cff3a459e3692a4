package pricing

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/l1-pricing/internal/model"
)

// DefaultMinTenderPrice is the smallest contract value the engine will
// recommend when the guardrail is enabled.
const DefaultMinTenderPrice = 50000

// Options configures one Engine. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	SellerPercentile        float64
	LowPercentile           float64
	HighPercentile          float64
	LowUndercut             float64
	HighUndercut            float64
	SpreadCorrection        float64
	MinSellersForPercentile int
	MinTenderPrice          float64
	EnforceMinTenderPrice   bool
	BandPolicy              model.BandPolicy
	TopSellers              int
	QuantityTolerance       float64
}

// DefaultOptions returns the canonical pricing policy.
func DefaultOptions() Options {
	return Options{
		SellerPercentile:        DefaultSellerPercentile,
		LowPercentile:           0.05,
		HighPercentile:          0.10,
		LowUndercut:             0.98,
		HighUndercut:            0.995,
		SpreadCorrection:        1.02,
		MinSellersForPercentile: 3,
		MinTenderPrice:          DefaultMinTenderPrice,
		EnforceMinTenderPrice:   true,
		BandPolicy:              model.BandPolicyPercentile,
		TopSellers:              5,
		QuantityTolerance:       DefaultQuantityTolerance,
	}
}

// Validate rejects options that would produce an ill-formed band.
func (o Options) Validate() error {
	for name, p := range map[string]float64{
		"seller_percentile": o.SellerPercentile,
		"low_percentile":    o.LowPercentile,
		"high_percentile":   o.HighPercentile,
	} {
		if p < 0 || p > 1 {
			return eris.Errorf("pricing: %s %v out of range [0,1]", name, p)
		}
	}
	if o.LowUndercut <= 0 || o.HighUndercut <= 0 {
		return eris.New("pricing: undercut multipliers must be positive")
	}
	if o.SpreadCorrection < 1 {
		return eris.Errorf("pricing: spread_correction %v must be >= 1", o.SpreadCorrection)
	}
	if o.MinSellersForPercentile < 1 {
		return eris.Errorf("pricing: min_sellers_for_percentile %d must be >= 1", o.MinSellersForPercentile)
	}
	if o.MinTenderPrice < 0 {
		return eris.Errorf("pricing: min_tender_price %v must not be negative", o.MinTenderPrice)
	}
	if !o.BandPolicy.Valid() {
		return eris.Errorf("pricing: unknown band policy %q", o.BandPolicy)
	}
	return nil
}
