package dataset

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/config"
	"github.com/sells-group/l1-pricing/internal/model"
)

// Open builds the configured source wrapped in a Cache. The returned close
// function releases any database connection and is never nil.
func Open(ctx context.Context, cfg config.DatasetConfig) (*Cache, func(), error) {
	src, closeFn, err := openSource(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	return NewCache(src, cfg.CacheTTL()), closeFn, nil
}

func openSource(ctx context.Context, cfg config.DatasetConfig) (Source, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case config.DriverCSV, "":
		return &CSVSource{FinancialPath: cfg.FinancialPath, BasicPath: cfg.BasicPath, Encoding: cfg.Encoding}, noop, nil
	case config.DriverXLSX:
		return &XLSXSource{FinancialPath: cfg.FinancialPath, BasicPath: cfg.BasicPath, Sheet: cfg.Sheet}, noop, nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.DriverPostgres:
		p, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, unavailable("postgres", Financial, err)
		}
		return p, p.Close, nil
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, unavailable("mongo", Financial, err)
		}
		return NewMongoSource(client, cfg.MongoDatabase), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return nil, noop, eris.Errorf("dataset: unknown driver %q", cfg.Driver)
	}
}

// Destination is a database that imported datasets are written to.
type Destination interface {
	Migrate(ctx context.Context) error
	WriteBids(ctx context.Context, bids []model.BidRecord) (int64, error)
	WriteBasic(ctx context.Context, basic []model.BasicRecord) (int64, error)
	Describe() string
}

// OpenDestination opens an import target. driver is sqlite or postgres.
func OpenDestination(ctx context.Context, driver, url string) (Destination, func(), error) {
	noop := func() {}
	if url == "" {
		return nil, noop, eris.New("dataset: destination url is required")
	}
	switch driver {
	case config.DriverSQLite:
		s, err := OpenSQLite(url)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.DriverPostgres:
		p, err := OpenPostgres(ctx, url)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	default:
		return nil, noop, eris.Errorf("dataset: unsupported import destination %q", driver)
	}
}

// ImportStats counts rows written by Import.
type ImportStats struct {
	Bids       int64 `json:"bids"`
	Quantities int64 `json:"quantities"`
}

// Import copies both datasets from src into dst, replacing existing rows.
// A missing basic dataset is skipped; the financial dataset is required.
func Import(ctx context.Context, src Source, dst Destination) (ImportStats, error) {
	var stats ImportStats

	if err := dst.Migrate(ctx); err != nil {
		return stats, err
	}

	bids, err := src.Bids(ctx)
	if err != nil {
		return stats, eris.Wrap(err, "dataset: import read bids")
	}
	if stats.Bids, err = dst.WriteBids(ctx, bids); err != nil {
		return stats, eris.Wrap(err, "dataset: import write bids")
	}

	basic, err := src.Basic(ctx)
	if err != nil {
		zap.L().Warn("dataset: import skipping basic dataset", zap.Error(err))
		return stats, nil
	}
	if stats.Quantities, err = dst.WriteBasic(ctx, basic); err != nil {
		return stats, eris.Wrap(err, "dataset: import write quantities")
	}

	zap.L().Info("dataset: import complete",
		zap.String("from", src.Describe()),
		zap.String("to", dst.Describe()),
		zap.Int64("bids", stats.Bids),
		zap.Int64("quantities", stats.Quantities),
	)
	return stats, nil
}
