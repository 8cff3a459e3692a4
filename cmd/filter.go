package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/dataset"
)

var (
	filterProduct string
	filterOutput  string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Write the historical bids matching a product as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		filtered, err := env.Engine.Filter(cmd.Context(), filterProduct)
		if err != nil {
			return eris.Wrap(err, "filter")
		}

		out, closeOut, err := openOutput(cmd, filterOutput)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		if err := dataset.WriteBidsCSV(out, filtered); err != nil {
			return eris.Wrap(err, "filter")
		}
		zap.L().Info("filter complete",
			zap.String("product", filterProduct),
			zap.Int("bids", len(filtered)),
		)
		return nil
	},
}

func init() {
	filterCmd.Flags().StringVar(&filterProduct, "product", "", "product name or category (required)")
	filterCmd.Flags().StringVar(&filterOutput, "output", "", "CSV file to write (default stdout)")
	_ = filterCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(filterCmd)
}
