package pricing

import (
	"strconv"
	"strings"

	"github.com/sells-group/l1-pricing/internal/model"
)

// MaxRank is the deepest rank tier consulted when a seller never won L1.
const MaxRank = 20

// NormalizeRank folds rank labels such as " l1 ", "L01" or "1" to "L1".
// Labels outside L1..L20 return "".
func NormalizeRank(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "L")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxRank {
		return ""
	}
	return "L" + strconv.Itoa(n)
}

// rankTier returns the numeric tier of a normalised label, or 0.
func rankTier(label string) int {
	if label == "" {
		return 0
	}
	n, _ := strconv.Atoi(label[1:])
	return n
}

// EnrichWithLastRankedPrice adds last_ranked_price: the seller's most recent
// L1 price, else the most recent price at the best tier from L2 to L20 they
// reached. Sellers with no ranked bids get nil.
func EnrichWithLastRankedPrice(filtered []model.BidRecord, t Table) (Table, error) {
	if err := t.require("last ranked price", ColAverage); err != nil {
		return Table{}, err
	}

	type ranked struct {
		tier  int
		price float64
	}
	// best[seller] holds the lowest tier seen and the last price at that tier.
	best := make(map[string]ranked)
	for _, b := range pricedBids(filtered) {
		tier := rankTier(NormalizeRank(b.Rank))
		if tier == 0 {
			continue
		}
		key := sellerKey(b.BidRecord)
		cur, ok := best[key]
		if !ok || tier <= cur.tier {
			best[key] = ranked{tier: tier, price: b.price}
		}
	}

	return t.with(ColLastRanked, func(r *SellerAggregate) {
		r.LastRankedPrice = nil
		r.LastRank = ""
		if got, ok := best[r.SellerName]; ok {
			p := got.price
			r.LastRankedPrice = &p
			r.LastRank = "L" + strconv.Itoa(got.tier)
		}
	}), nil
}
