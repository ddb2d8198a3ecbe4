package cmd

import (
	"fmt"

	"github.com/rustyeddy/chartcalc/internal/pipeline"
	"github.com/spf13/cobra"
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Compute technical indicators for a bar file",
	Long: `Compute every configured indicator and journal it aligned to the bar index.

The bars are first rebuilt in the configured synthetic mode (candles by
default). Each output series has one point per bar; points inside an
indicator's warm-up are empty.

Example:
  chartcalc indicators --bars data/eurusd_1h.csv --only rsi,macd -o out.csv`,
	RunE: runIndicators,
}

var (
	indBarsPath string
	indMode     string
	indOnly     []string
	indOrgPath  string
)

func init() {
	rootCmd.AddCommand(indicatorsCmd)

	indicatorsCmd.Flags().StringVarP(&indBarsPath, "bars", "b", "", "path to bars CSV (time,open,high,low,close[,volume]) (required)")
	indicatorsCmd.Flags().StringVarP(&indMode, "mode", "m", "", "bar mode: candles|range|renko|kagi (overrides config)")
	indicatorsCmd.Flags().StringSliceVar(&indOnly, "only", nil, "compute only these indicators (overrides config)")
	indicatorsCmd.Flags().StringVar(&indOrgPath, "org", "", "write an Org-mode run report to this path")

	indicatorsCmd.MarkFlagRequired("bars")
}

func runIndicators(cmd *cobra.Command, args []string) error {
	if indMode != "" {
		cfg.Synthetic.Mode = indMode
	}
	if len(indOnly) > 0 {
		cfg.Indicators.Enabled = indOnly
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	raw, err := loadBars(indBarsPath)
	if err != nil {
		return err
	}
	bars, mode, err := pipeline.Bars(raw, cfg.Synthetic, cfg.Timeframe)
	if err != nil {
		return err
	}

	s, err := startSession(cmd.Context(), "indicators", indBarsPath, len(bars), string(mode))
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.bars("bars", bars); err != nil {
		return err
	}
	if err := s.series(pipeline.Indicators(bars, cfg.Indicators)); err != nil {
		return err
	}
	return s.finish(indOrgPath)
}
