package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/l1-pricing/internal/model"
)

func recommendedTable(prices ...float64) Table {
	rows := make([]SellerAggregate, len(prices))
	for i, p := range prices {
		rows[i] = SellerAggregate{
			SellerName:       string(rune('A' + i)),
			Average:          p,
			LeastPrice:       p,
			RecommendedPrice: p,
		}
	}
	return fullTable(rows...)
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 55},
		{2, 60},
		{8, 90},
		{9, 95},
		{10, 95},
		{500, 95},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Confidence(tt.n), "n=%d", tt.n)
	}

	prev := 0
	for n := 1; n <= 50; n++ {
		c := Confidence(n)
		assert.GreaterOrEqual(t, c, prev)
		assert.LessOrEqual(t, c, 95)
		assert.GreaterOrEqual(t, c, 50)
		prev = c
	}
}

func TestCalculateL1PriceBand_TenSellers(t *testing.T) {
	table := recommendedTable(90000, 100000, 150000, 200000, 300000, 400000, 500000, 700000, 850000, 1000000)

	band, err := CalculateL1PriceBand(table, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 95, band.Confidence)
	assert.Equal(t, 10, band.Sellers)
	assert.Equal(t, model.BandPolicyPercentile, band.Policy)
	assert.False(t, band.Fallback)

	// p5: h=0.45 -> 94500; p10: h=0.9 -> 99000.
	assert.InDelta(t, 92610, band.Low, 1e-6)
	assert.InDelta(t, 98505, band.High, 1e-6)
	assert.GreaterOrEqual(t, band.High, band.Low)
}

func TestCalculateL1PriceBand_FewSellersFallback(t *testing.T) {
	band, err := CalculateL1PriceBand(recommendedTable(200000, 100000), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, band.Fallback)
	assert.InDelta(t, 98000, band.Low, 1e-6)
	assert.InDelta(t, 99500, band.High, 1e-6)
	assert.Equal(t, 60, band.Confidence)
}

func TestCalculateL1PriceBand_Empty(t *testing.T) {
	_, err := CalculateL1PriceBand(fullTable(), DefaultOptions())
	assert.True(t, errors.Is(err, ErrNoCompetitors))

	opts := DefaultOptions()
	opts.BandPolicy = model.BandPolicyAnchor
	_, err = CalculateL1PriceBand(fullTable(), opts)
	assert.True(t, errors.Is(err, ErrNoCompetitors))
}

func TestCalculateL1PriceBand_CorrectsInvertedBand(t *testing.T) {
	opts := DefaultOptions()
	opts.LowUndercut = 1.2

	band, err := CalculateL1PriceBand(recommendedTable(100000, 100000, 100000), opts)
	require.NoError(t, err)
	assert.True(t, band.Corrected)
	assert.InDelta(t, 120000, band.Low, 1e-6)
	assert.InDelta(t, 122400, band.High, 1e-6)
}

func TestCalculateL1PriceBand_Anchor(t *testing.T) {
	opts := DefaultOptions()
	opts.BandPolicy = model.BandPolicyAnchor

	table := fullTable(
		SellerAggregate{SellerName: "A", Average: 120000, LastRankedPrice: ptr(95000), LeastPrice: 98000, RecommendedPrice: 130000},
		SellerAggregate{SellerName: "B", Average: 80000, LastRankedPrice: nil, LeastPrice: 78000, RecommendedPrice: 82000},
	)

	band, err := CalculateL1PriceBand(table, opts)
	require.NoError(t, err)
	assert.Equal(t, model.BandPolicyAnchor, band.Policy)
	assert.InDelta(t, 78000, band.Low, 1e-6)
	assert.InDelta(t, 82000, band.High, 1e-6)
	assert.Equal(t, 60, band.Confidence)
}

func TestCalculateL1PriceBand_AnchorCorrection(t *testing.T) {
	opts := DefaultOptions()
	opts.BandPolicy = model.BandPolicyAnchor

	table := fullTable(SellerAggregate{SellerName: "A", Average: 100, LeastPrice: 200, RecommendedPrice: 50})
	band, err := CalculateL1PriceBand(table, opts)
	require.NoError(t, err)
	assert.True(t, band.Corrected)
	assert.InDelta(t, 100, band.Low, 1e-9)
	assert.InDelta(t, 102, band.High, 1e-9)
}

func TestCalculateL1PriceBand_MissingRecommended(t *testing.T) {
	_, err := CalculateL1PriceBand(Table{Rows: []SellerAggregate{{SellerName: "A"}}, Columns: ColAverage}, DefaultOptions())
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestTopSellers(t *testing.T) {
	table := fullTable(
		SellerAggregate{SellerName: "C", RecommendedPrice: 300},
		SellerAggregate{SellerName: "B", RecommendedPrice: 100},
		SellerAggregate{SellerName: "A", RecommendedPrice: 100},
	)
	top := table.TopSellers(2)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].SellerName)
	assert.Equal(t, "B", top[1].SellerName)
	assert.Len(t, table.TopSellers(10), 3)
}
