package cmd

import (
	"github.com/rustyeddy/chartcalc/internal/pipeline"
	"github.com/spf13/cobra"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Run the cleaning pipeline over the close-price line",
	Long: `Apply the preprocessing stages from the config to the close-price line.

Stages run in a fixed order: missing values, outliers, smoothing,
differencing, scaling. Only stages enabled in the config run, and the
pipeline itself must be enabled (or forced with --enable).

Example:
  chartcalc preprocess --bars data/eurusd_1h.csv --config clean.yaml`,
	RunE: runPreprocess,
}

var (
	ppBarsPath string
	ppEnable   bool
	ppOrgPath  string
)

func init() {
	rootCmd.AddCommand(preprocessCmd)

	preprocessCmd.Flags().StringVarP(&ppBarsPath, "bars", "b", "", "path to bars CSV (required)")
	preprocessCmd.Flags().BoolVar(&ppEnable, "enable", false, "enable the pipeline even if the config disables it")
	preprocessCmd.Flags().StringVar(&ppOrgPath, "org", "", "write an Org-mode run report to this path")

	preprocessCmd.MarkFlagRequired("bars")
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	if ppEnable {
		cfg.Preprocessing.Enabled = true
	}

	bars, err := loadBars(ppBarsPath)
	if err != nil {
		return err
	}

	s, err := startSession(cmd.Context(), "preprocess", ppBarsPath, len(bars), "")
	if err != nil {
		return err
	}
	defer s.close()
	if !cfg.Preprocessing.Enabled {
		s.log.Warn("preprocessing disabled; output equals the close line")
	}

	line := pipeline.Preprocess(bars, cfg.Preprocessing)
	if err := s.series([]pipeline.Output{{Name: "preprocessed", Series: line}}); err != nil {
		return err
	}
	return s.finish(ppOrgPath)
}
