package model

import "time"

// PriceTypeTotalContract marks prices as lump-sum contract amounts.
const PriceTypeTotalContract = "TOTAL_CONTRACT"

// BandPolicy selects how the price band is derived from seller prices.
type BandPolicy string

const (
	BandPolicyPercentile BandPolicy = "percentile"
	BandPolicyAnchor     BandPolicy = "anchor"
)

// Valid reports whether p is a known policy.
func (p BandPolicy) Valid() bool {
	return p == BandPolicyPercentile || p == BandPolicyAnchor
}

// PriceBand is the recommended (low, high) bidding range.
type PriceBand struct {
	Low        float64    `json:"low_price" yaml:"low_price"`
	High       float64    `json:"high_price" yaml:"high_price"`
	Confidence int        `json:"confidence" yaml:"confidence"`
	Sellers    int        `json:"sellers" yaml:"sellers"`
	Policy     BandPolicy `json:"policy" yaml:"policy"`
	Corrected  bool       `json:"corrected,omitempty" yaml:"corrected,omitempty"`
	Fallback   bool       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// SellerSummary is the outward view of one seller aggregate row.
type SellerSummary struct {
	SellerName       string   `json:"seller_name" yaml:"seller_name"`
	Bids             int      `json:"bids" yaml:"bids"`
	Average          float64  `json:"average" yaml:"average"`
	InflationPercent float64  `json:"inflation_rate_percent" yaml:"inflation_rate_percent"`
	LastRankedPrice  *float64 `json:"last_ranked_price" yaml:"last_ranked_price"`
	LastRank         string   `json:"last_rank,omitempty" yaml:"last_rank,omitempty"`
	LeastPrice       float64  `json:"least_price" yaml:"least_price"`
	RecommendedPrice float64  `json:"recommended_price" yaml:"recommended_price"`
}

// QuantityContext describes how the requested quantity relates to historical
// tenders. Factor is always 1.0.
type QuantityContext struct {
	Factor         float64 `json:"factor" yaml:"factor"`
	Requested      int     `json:"requested" yaml:"requested"`
	TendersWithQty int     `json:"tenders_with_quantity" yaml:"tenders_with_quantity"`
	SimilarTenders int     `json:"similar_tenders" yaml:"similar_tenders"`
	MedianQuantity float64 `json:"median_quantity,omitempty" yaml:"median_quantity,omitempty"`
	Note           string  `json:"note" yaml:"note"`
}

// PricingResult is the outcome of one pipeline run.
type PricingResult struct {
	RunID               string           `json:"run_id" yaml:"run_id"`
	Product             string           `json:"product" yaml:"product"`
	Quantity            int              `json:"quantity" yaml:"quantity"`
	LowPrice            float64          `json:"low_price" yaml:"low_price"`
	HighPrice           float64          `json:"high_price" yaml:"high_price"`
	PriceType           string           `json:"price_type" yaml:"price_type"`
	Confidence          string           `json:"confidence" yaml:"confidence"`
	ConfidenceValue     int              `json:"confidence_value" yaml:"confidence_value"`
	Policy              BandPolicy       `json:"policy" yaml:"policy"`
	Basis               string           `json:"basis" yaml:"basis"`
	CompetitorsAnalyzed int              `json:"competitors_analyzed" yaml:"competitors_analyzed"`
	BidsMatched         int              `json:"bids_matched" yaml:"bids_matched"`
	TopSellers          []SellerSummary  `json:"top_sellers,omitempty" yaml:"top_sellers,omitempty"`
	Quantities          *QuantityContext `json:"quantity_context,omitempty" yaml:"quantity_context,omitempty"`
	Warnings            []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Empty               bool             `json:"empty,omitempty" yaml:"empty,omitempty"`
	Timestamp           time.Time        `json:"timestamp" yaml:"timestamp"`
}
