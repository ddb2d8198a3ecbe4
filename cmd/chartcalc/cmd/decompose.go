package cmd

import (
	"fmt"

	"github.com/rustyeddy/chartcalc/decompose"
	"github.com/rustyeddy/chartcalc/internal/pipeline"
	"github.com/rustyeddy/chartcalc/market"
	"github.com/spf13/cobra"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose",
	Short: "Split the close-price line into trend, seasonal and residual",
	Long: `Decompose the close-price line with a centered moving-average trend and
per-phase seasonal averages.

The multiplicative model needs strictly positive values; otherwise the
additive model is used and the run report notes the fallback.

Example:
  chartcalc decompose --bars data/eurusd_1h.csv --model multiplicative --season 24`,
	RunE: runDecompose,
}

var (
	dcBarsPath   string
	dcModel      string
	dcSeason     int
	dcPreprocess bool
	dcOrgPath    string
)

func init() {
	rootCmd.AddCommand(decomposeCmd)

	decomposeCmd.Flags().StringVarP(&dcBarsPath, "bars", "b", "", "path to bars CSV (required)")
	decomposeCmd.Flags().StringVar(&dcModel, "model", "", "additive|multiplicative (overrides config)")
	decomposeCmd.Flags().IntVar(&dcSeason, "season", -1, "season length in bars, 0 for one week at the timeframe (overrides config)")
	decomposeCmd.Flags().BoolVar(&dcPreprocess, "preprocess", false, "run the preprocessing pipeline first")
	decomposeCmd.Flags().StringVar(&dcOrgPath, "org", "", "write an Org-mode run report to this path")

	decomposeCmd.MarkFlagRequired("bars")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	if dcModel != "" {
		cfg.Decomposition.Model = decompose.Model(dcModel)
	}
	if dcSeason >= 0 {
		cfg.Decomposition.SeasonLength = dcSeason
	}
	if err := cfg.Decomposition.Validate(); err != nil {
		return err
	}

	bars, err := loadBars(dcBarsPath)
	if err != nil {
		return err
	}

	s, err := startSession(cmd.Context(), "decompose", dcBarsPath, len(bars), "")
	if err != nil {
		return err
	}
	defer s.close()

	line := market.Closes(bars)
	if dcPreprocess {
		line = pipeline.Preprocess(bars, cfg.Preprocessing)
	}

	res := pipeline.Decompose(line, cfg.Decomposition, cfg.Timeframe)
	if err := s.series(pipeline.Components(res)); err != nil {
		return err
	}

	var notes []string
	if cfg.Decomposition.Model == decompose.Multiplicative && res.Model != decompose.Multiplicative {
		s.log.Warn("multiplicative model needs positive values; used additive")
		notes = append(notes, "multiplicative model fell back to additive")
	}
	notes = append(notes, fmt.Sprintf("season length %d, model %s", len(res.Pattern), res.Model))
	return s.finish(dcOrgPath, notes...)
}
