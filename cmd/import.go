package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/l1-pricing/internal/config"
	"github.com/sells-group/l1-pricing/internal/dataset"
)

var (
	importFrom      string
	importTo        string
	importURL       string
	importFinancial string
	importBasic     string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the historical CSV/XLSX dataset into SQLite or Postgres",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		srcCfg := cfg.Dataset
		srcCfg.Driver = importFrom
		if importFinancial != "" {
			srcCfg.FinancialPath = importFinancial
		}
		if importBasic != "" {
			srcCfg.BasicPath = importBasic
		}
		if srcCfg.Driver != config.DriverCSV && srcCfg.Driver != config.DriverXLSX {
			return eris.Errorf("import: --from must be csv or xlsx, got %q", importFrom)
		}

		url := importURL
		if url == "" {
			url = cfg.Dataset.DatabaseURL
		}

		src, closeSrc, err := dataset.Open(ctx, srcCfg)
		if err != nil {
			return eris.Wrap(err, "import")
		}
		defer closeSrc()

		dst, closeDst, err := dataset.OpenDestination(ctx, importTo, url)
		if err != nil {
			return eris.Wrap(err, "import")
		}
		defer closeDst()

		stats, err := dataset.Import(ctx, src, dst)
		if err != nil {
			return eris.Wrap(err, "import")
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d bids and %d quantities into %s\n",
			stats.Bids, stats.Quantities, dst.Describe())
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", config.DriverCSV, "source format: csv or xlsx")
	importCmd.Flags().StringVar(&importTo, "to", config.DriverSQLite, "destination: sqlite or postgres")
	importCmd.Flags().StringVar(&importURL, "url", "", "destination SQLite path or Postgres URL (default dataset.database_url)")
	importCmd.Flags().StringVar(&importFinancial, "financial", "", "financial dataset path (default dataset.financial_path)")
	importCmd.Flags().StringVar(&importBasic, "basic", "", "basic dataset path (default dataset.basic_path)")
	rootCmd.AddCommand(importCmd)
}
