package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/l1-pricing/internal/model"
)

// NeutralQuantityFactor is the only factor the quantity stage ever returns.
// Historical prices are whole-contract totals, so quantity never rescales them.
const NeutralQuantityFactor = 1.0

// DefaultQuantityTolerance is the relative band around the requested
// quantity within which a historical tender counts as similar.
const DefaultQuantityTolerance = 0.5

var quantityRe = regexp.MustCompile(`\d+\.?\d*`)

// ParseQuantity extracts the first positive number from raw quantity text
// such as "25 Nos".
func ParseQuantity(raw string) (float64, bool) {
	m := quantityRe.FindString(raw)
	if m == "" {
		return 0, false
	}
	q, err := strconv.ParseFloat(m, 64)
	if err != nil || q <= 0 {
		return 0, false
	}
	return q, true
}

// QuantityScalingFactor describes how the requested quantity compares with
// the quantities of the matched historical tenders. Factor is always
// NeutralQuantityFactor. ErrQuantityDegraded is returned, alongside a usable
// context, when no matched tender has a known quantity.
func QuantityScalingFactor(basic []model.BasicRecord, filtered []model.BidRecord, requested int, tolerance float64) (model.QuantityContext, error) {
	qc := model.QuantityContext{
		Factor:    NeutralQuantityFactor,
		Requested: requested,
	}
	if tolerance <= 0 {
		tolerance = DefaultQuantityTolerance
	}

	byBid := make(map[string]float64, len(basic))
	for _, b := range basic {
		id := strings.TrimSpace(b.BidNo)
		if _, seen := byBid[id]; seen || id == "" {
			continue
		}
		if q, ok := ParseQuantity(b.Quantity); ok {
			byBid[id] = q
		}
	}

	seen := make(map[string]struct{})
	var quantities []float64
	for _, b := range pricedBids(filtered) {
		id := strings.TrimSpace(b.BidNo)
		if _, dup := seen[id]; dup {
			continue
		}
		q, ok := byBid[id]
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		quantities = append(quantities, q)
	}

	qc.TendersWithQty = len(quantities)
	if len(quantities) == 0 {
		qc.Note = "no matched tender has a recorded quantity; prices are total-contract amounts"
		return qc, ErrQuantityDegraded
	}

	lo := float64(requested) * (1 - tolerance)
	hi := float64(requested) * (1 + tolerance)
	for _, q := range quantities {
		if q >= lo && q <= hi {
			qc.SimilarTenders++
		}
	}
	qc.MedianQuantity = Median(quantities)
	qc.Note = fmt.Sprintf("%d of %d matched tenders had a quantity within %.0f%% of %d; prices are total-contract amounts and are not rescaled",
		qc.SimilarTenders, qc.TendersWithQty, tolerance*100, requested)
	return qc, nil
}
