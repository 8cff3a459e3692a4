package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/report"
)

var (
	sellersProduct string
	sellersFormat  string
)

var sellersCmd = &cobra.Command{
	Use:   "sellers",
	Short: "Show the per-seller price table for a product",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := report.ParseFormat(sellersFormat)
		if err != nil {
			return err
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		a, err := env.Engine.Analyze(cmd.Context(), model.ProductQuery{Product: sellersProduct, Quantity: 1})
		if err != nil {
			return eris.Wrap(err, "sellers")
		}
		rows := a.Table.TopSellers(-1)

		out := cmd.OutOrStdout()
		switch format {
		case report.FormatTable:
			return env.Renderer.Sellers(out, rows)
		case report.FormatYAML:
			return report.WriteYAML(out, rows)
		case report.FormatJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		default:
			return eris.Errorf("sellers: format %q not supported (want table, json or yaml)", format)
		}
	},
}

func init() {
	sellersCmd.Flags().StringVar(&sellersProduct, "product", "", "product name or category (required)")
	sellersCmd.Flags().StringVar(&sellersFormat, "format", "table", "output format: table, json or yaml")
	_ = sellersCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(sellersCmd)
}
