package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/report"
)

var (
	priceProduct  string
	priceQuantity int
	priceFormat   string
	priceOutput   string
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Recommend an L1 price band for a product",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := report.ParseFormat(priceFormat)
		if err != nil {
			return err
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Engine.Run(cmd.Context(), model.ProductQuery{Product: priceProduct, Quantity: priceQuantity})
		if err != nil {
			return eris.Wrap(err, "price")
		}
		for _, w := range res.Warnings {
			zap.L().Warn("price warning", zap.String("run_id", res.RunID), zap.String("warning", w))
		}

		out, closeOut, err := openOutput(cmd, priceOutput)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		return env.Renderer.Write(out, format, res)
	},
}

func init() {
	priceCmd.Flags().StringVar(&priceProduct, "product", "", "product name or category (required)")
	priceCmd.Flags().IntVar(&priceQuantity, "quantity", 1, "quantity required (context only, never rescales prices)")
	priceCmd.Flags().StringVar(&priceFormat, "format", "json", "output format: json, yaml, table, markdown or html")
	priceCmd.Flags().StringVar(&priceOutput, "output", "", "write the result to this file instead of stdout")
	_ = priceCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(priceCmd)
}
