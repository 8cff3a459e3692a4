// Package pricing turns historical single-bid tender results into a
// recommended L1 bidding band for a product query.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/money"
)

const tracerName = "github.com/sells-group/l1-pricing/internal/pricing"

// Dataset is the read-only historical data the engine prices against.
// Implementations must be safe for concurrent use and must not hand out
// slices they later modify.
type Dataset interface {
	Bids(ctx context.Context) ([]model.BidRecord, error)
	Basic(ctx context.Context) ([]model.BasicRecord, error)
	Describe() string
}

// Engine runs the pricing pipeline. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	data   Dataset
	opts   Options
	tracer trace.Tracer
	now    func() time.Time
}

// NewEngine validates opts and returns an Engine over data.
func NewEngine(data Dataset, opts Options) (*Engine, error) {
	if data == nil {
		return nil, eris.New("pricing: dataset is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		data:   data,
		opts:   opts,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}, nil
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Analysis is the intermediate state of one run, exposed for CLI
// inspection commands.
type Analysis struct {
	Filtered []model.BidRecord
	Table    Table
	Quantity model.QuantityContext
	Warnings []string
}

// Filter returns the historical bids matching product.
func (e *Engine) Filter(ctx context.Context, product string) ([]model.BidRecord, error) {
	bids, err := e.loadBids(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCompetitors(bids, product), nil
}

// Analyze runs every stage up to and including the final price for q.
func (e *Engine) Analyze(ctx context.Context, q model.ProductQuery) (*Analysis, error) {
	ctx, span := e.tracer.Start(ctx, "pricing.analyze")
	defer span.End()

	bids, err := e.loadBids(ctx)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}

	var filtered []model.BidRecord
	if err := e.stage(ctx, "filter", func() error {
		filtered = FilterCompetitors(bids, q.Product)
		if len(filtered) == 0 {
			return &NoCompetitorsError{Product: q.Product}
		}
		return nil
	}); err != nil {
		recordErr(span, err)
		return nil, err
	}

	a := &Analysis{Filtered: filtered}
	t := GenerateSellerPercentile(filtered, e.opts.SellerPercentile)
	if t.Len() == 0 {
		err := &NoCompetitorsError{Product: q.Product}
		recordErr(span, err)
		return nil, err
	}

	stages := []struct {
		name string
		fn   func(Table) (Table, error)
	}{
		{"inflation", EnrichWithInflation},
		{"last_ranked_price", func(t Table) (Table, error) { return EnrichWithLastRankedPrice(filtered, t) }},
		{"least_price", func(t Table) (Table, error) { return EnrichWithLeastPrice(filtered, t) }},
	}
	for _, s := range stages {
		if err := e.stage(ctx, s.name, func() error {
			next, err := s.fn(t)
			if err != nil {
				return err
			}
			t = next
			return nil
		}); err != nil {
			recordErr(span, err)
			return nil, err
		}
	}

	a.Quantity, a.Warnings = e.quantityContext(ctx, filtered, q.Quantity)

	if err := e.stage(ctx, "final_price", func() error {
		next, err := EnrichWithFinalPrice(t, a.Quantity.Factor, e.opts)
		if err != nil {
			return err
		}
		t = next
		return nil
	}); err != nil {
		recordErr(span, err)
		return nil, err
	}

	a.Table = t
	span.SetAttributes(
		attribute.Int("pricing.bids_matched", len(filtered)),
		attribute.Int("pricing.sellers", t.Len()),
	)
	return a, nil
}

// Run prices q. A product with no meaningful tokens yields an empty result
// and no error. Failures are *NoCompetitorsError, *DataSourceError,
// *InvalidQueryError or, for stage ordering bugs, *MissingColumnError.
func (e *Engine) Run(ctx context.Context, q model.ProductQuery) (*model.PricingResult, error) {
	runID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "pricing.run", trace.WithAttributes(
		attribute.String("pricing.run_id", runID),
		attribute.String("pricing.product", q.Product),
		attribute.Int("pricing.quantity", q.Quantity),
	))
	defer span.End()

	log := zap.L().With(
		zap.String("run_id", runID),
		zap.String("product", q.Product),
		zap.Int("quantity", q.Quantity),
	)

	result := &model.PricingResult{
		RunID:     runID,
		Product:   strings.TrimSpace(q.Product),
		Quantity:  q.Quantity,
		PriceType: model.PriceTypeTotalContract,
		Policy:    e.opts.BandPolicy,
		Timestamp: e.now().UTC(),
	}

	if len(QuerySignatures(q.Product)) == 0 {
		log.Info("pricing: empty query")
		result.Empty = true
		result.Basis = "no searchable product terms in query"
		result.Warnings = []string{"query has no searchable product terms; no competitors analyzed"}
		return result, nil
	}
	if q.Quantity <= 0 {
		err := &InvalidQueryError{Field: "quantity", Reason: "must be a positive integer"}
		recordErr(span, err)
		return nil, err
	}

	a, err := e.Analyze(ctx, q)
	if err != nil {
		log.Warn("pricing: run failed", zap.Error(err), zap.String("kind", Classify(err).String()))
		recordErr(span, err)
		return nil, err
	}

	var band model.PriceBand
	if err := e.stage(ctx, "price_band", func() error {
		band, err = CalculateL1PriceBand(a.Table, e.opts)
		return err
	}); err != nil {
		if errors.Is(err, ErrNoCompetitors) {
			err = &NoCompetitorsError{Product: q.Product}
		}
		recordErr(span, err)
		return nil, err
	}

	warnings := a.Warnings
	band, warnings = e.applyBandFloor(band, warnings)

	qc := a.Quantity
	result.LowPrice = band.Low
	result.HighPrice = band.High
	result.ConfidenceValue = band.Confidence
	result.Confidence = fmt.Sprintf("%d%%", band.Confidence)
	result.Policy = band.Policy
	result.CompetitorsAnalyzed = a.Table.Len()
	result.BidsMatched = len(a.Filtered)
	result.TopSellers = a.Table.TopSellers(e.opts.TopSellers)
	result.Quantities = &qc
	result.Warnings = warnings
	result.Basis = basis(band, a.Table.Len(), len(a.Filtered), e.data.Describe())

	log.Info("pricing: run complete",
		zap.Int("sellers", result.CompetitorsAnalyzed),
		zap.Int("bids", result.BidsMatched),
		zap.Float64("low", result.LowPrice),
		zap.Float64("high", result.HighPrice),
		zap.Int("warnings", len(warnings)),
	)
	return result, nil
}

// applyBandFloor enforces the minimum tender price on the band itself. The
// undercut multipliers can push an otherwise floored seller price below it.
func (e *Engine) applyBandFloor(band model.PriceBand, warnings []string) (model.PriceBand, []string) {
	if !e.opts.EnforceMinTenderPrice || band.Low >= e.opts.MinTenderPrice {
		return band, warnings
	}
	band.Low = money.Round2(e.opts.MinTenderPrice)
	if band.High < band.Low {
		band.High = money.Round2(band.Low * e.opts.SpreadCorrection)
		band.Corrected = true
	}
	return band, append(warnings, fmt.Sprintf("price band raised to minimum tender price %.2f", e.opts.MinTenderPrice))
}

func (e *Engine) quantityContext(ctx context.Context, filtered []model.BidRecord, requested int) (model.QuantityContext, []string) {
	var warnings []string
	basic, err := e.data.Basic(ctx)
	if err != nil {
		zap.L().Warn("pricing: basic dataset unavailable", zap.Error(err))
		warnings = append(warnings, "quantity analysis degraded: basic dataset unavailable")
	}

	var qc model.QuantityContext
	err = e.stage(ctx, "quantity_context", func() error {
		var qerr error
		qc, qerr = QuantityScalingFactor(basic, filtered, requested, e.opts.QuantityTolerance)
		return qerr
	})
	if errors.Is(err, ErrQuantityDegraded) && len(warnings) == 0 {
		warnings = append(warnings, "quantity analysis degraded: no matched tender has a recorded quantity")
	}
	return qc, warnings
}

func (e *Engine) loadBids(ctx context.Context) ([]model.BidRecord, error) {
	bids, err := e.data.Bids(ctx)
	if err != nil {
		return nil, &DataSourceError{Source: e.data.Describe(), Err: err}
	}
	return bids, nil
}

// stage runs fn inside a child span named after the stage.
func (e *Engine) stage(ctx context.Context, name string, fn func() error) error {
	_, span := e.tracer.Start(ctx, "pricing."+name)
	defer span.End()

	start := time.Now()
	err := fn()
	if err != nil && !errors.Is(err, ErrQuantityDegraded) {
		recordErr(span, err)
	}
	zap.L().Debug("pricing: stage done",
		zap.String("stage", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return err
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func basis(band model.PriceBand, sellers, bids int, source string) string {
	var method string
	switch {
	case band.Policy == model.BandPolicyAnchor:
		method = "anchored on lowest ranked and least prices, capped by market average"
	case band.Fallback:
		method = "undercut of the lowest recommended price (too few sellers for percentiles)"
	default:
		method = "5th/10th percentile of seller recommended prices with undercut"
	}
	return fmt.Sprintf("%s; %d sellers from %d matched historical bids in %s; total contract prices, not rescaled by quantity",
		method, sellers, bids, source)
}
