package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/catalog"
)

var catalogOutput string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List canonical product names found in the historical dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		bids, err := env.Data.Bids(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "catalog")
		}
		raw := catalog.ExtractRawProducts(bids)
		products := catalog.Canonicalize(raw)

		out, closeOut, err := openOutput(cmd, catalogOutput)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		if err := catalog.WriteCSV(out, products); err != nil {
			return err
		}
		zap.L().Info("catalog complete",
			zap.Int("raw_products", len(raw)),
			zap.Int("canonical_products", len(products)),
		)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogOutput, "output", "", "CSV file to write (default stdout)")
	rootCmd.AddCommand(catalogCmd)
}
