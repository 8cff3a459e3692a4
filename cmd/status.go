package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/l1-pricing/internal/config"
	"github.com/sells-group/l1-pricing/internal/dataset"
	"github.com/sells-group/l1-pricing/internal/report"
)

var statusFormat string

type statusOutput struct {
	Version  string               `json:"version" yaml:"version"`
	Healthy  bool                 `json:"healthy" yaml:"healthy"`
	Datasets dataset.Report       `json:"datasets" yaml:"datasets"`
	Driver   string               `json:"driver" yaml:"driver"`
	Pricing  config.PricingConfig `json:"pricing" yaml:"pricing"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dataset availability and the active pricing configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := report.ParseFormat(statusFormat)
		if err != nil {
			return err
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		rep := dataset.Check(cmd.Context(), env.Data)
		st := statusOutput{
			Version:  version,
			Healthy:  rep.Healthy(),
			Datasets: rep,
			Driver:   cfg.Dataset.Driver,
			Pricing:  cfg.Pricing,
		}

		out := cmd.OutOrStdout()
		switch format {
		case report.FormatYAML:
			return report.WriteYAML(out, st)
		case report.FormatJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		default:
			return eris.Errorf("status: format %q not supported (want yaml or json)", format)
		}
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(statusCmd)
}
