package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/l1-pricing/internal/dataset"
	"github.com/sells-group/l1-pricing/internal/money"
	"github.com/sells-group/l1-pricing/internal/pricing"
	"github.com/sells-group/l1-pricing/internal/report"
)

// pricingEnv holds the opened dataset and engine needed by the price,
// filter, sellers, catalog, serve and status commands.
type pricingEnv struct {
	Data     *dataset.Cache
	Engine   *pricing.Engine
	Renderer *report.Renderer
	close    func()
}

// Close releases the dataset connection, if any.
func (pe *pricingEnv) Close() {
	if pe.close != nil {
		pe.close()
	}
}

// initEngine opens the configured dataset and builds the Engine. Callers
// should defer env.Close().
func initEngine(ctx context.Context) (*pricingEnv, error) {
	data, closeFn, err := dataset.Open(ctx, cfg.Dataset)
	if err != nil {
		return nil, eris.Wrap(err, "open dataset")
	}

	engine, err := pricing.NewEngine(data, cfg.Pricing.Options())
	if err != nil {
		closeFn()
		return nil, eris.Wrap(err, "create engine")
	}

	return &pricingEnv{
		Data:     data,
		Engine:   engine,
		Renderer: report.NewRenderer(money.NewFormatter(cfg.Pricing.CurrencyLocale)),
		close:    closeFn,
	}, nil
}

// openOutput returns the command's output for an empty path, otherwise a
// created file. The returned close function must be called.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}
