package pricing

import (
	"sort"

	"github.com/sells-group/l1-pricing/internal/model"
)

// Column identifies a derived column of the seller aggregate table.
type Column uint8

const (
	ColAverage Column = 1 << iota
	ColInflation
	ColLastRanked
	ColLeastPrice
	ColRecommended
)

var columnNames = map[Column]string{
	ColAverage:     "average",
	ColInflation:   "inflation_rate_percent",
	ColLastRanked:  "last_ranked_price",
	ColLeastPrice:  "least_price",
	ColRecommended: "recommended_price",
}

func (c Column) String() string {
	if name, ok := columnNames[c]; ok {
		return name
	}
	return "unknown"
}

// SellerAggregate is one row of the per-seller table. Fields are filled in
// as stages run; Table.Columns records which ones are valid.
type SellerAggregate struct {
	SellerName string
	SNo        string
	BidNo      string
	Bids       int

	Average          float64
	InflationPercent float64
	LastRankedPrice  *float64
	LastRank         string
	LeastPrice       float64
	RecommendedPrice float64
}

// Summary converts the row to its outward form.
func (s SellerAggregate) Summary() model.SellerSummary {
	return model.SellerSummary{
		SellerName:       s.SellerName,
		Bids:             s.Bids,
		Average:          s.Average,
		InflationPercent: s.InflationPercent,
		LastRankedPrice:  s.LastRankedPrice,
		LastRank:         s.LastRank,
		LeastPrice:       s.LeastPrice,
		RecommendedPrice: s.RecommendedPrice,
	}
}

// Table is the per-seller aggregate with exactly one row per seller. Stages
// never modify a Table in place; each returns a new value with one more
// column present.
type Table struct {
	Rows    []SellerAggregate
	Columns Column
}

// Has reports whether every column in cols is present.
func (t Table) Has(cols Column) bool {
	return t.Columns&cols == cols
}

// Len returns the number of seller rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// require returns a MissingColumnError naming the columns stage needs that
// are not yet present.
func (t Table) require(stage string, cols ...Column) error {
	var missing []Column
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingColumnError{Stage: stage, Columns: missing}
}

// with returns a copy of t whose rows are rewritten by fn and with col
// marked present.
func (t Table) with(col Column, fn func(*SellerAggregate)) Table {
	rows := make([]SellerAggregate, len(t.Rows))
	copy(rows, t.Rows)
	for i := range rows {
		fn(&rows[i])
	}
	return Table{Rows: rows, Columns: t.Columns | col}
}

// Recommended returns the recommended_price column in row order.
func (t Table) Recommended() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.RecommendedPrice
	}
	return out
}

// TopSellers returns up to n rows ordered by recommended price, cheapest
// first, ties broken by seller name.
func (t Table) TopSellers(n int) []model.SellerSummary {
	rows := make([]SellerAggregate, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RecommendedPrice != rows[j].RecommendedPrice {
			return rows[i].RecommendedPrice < rows[j].RecommendedPrice
		}
		return rows[i].SellerName < rows[j].SellerName
	})
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	out := make([]model.SellerSummary, len(rows))
	for i, r := range rows {
		out[i] = r.Summary()
	}
	return out
}
