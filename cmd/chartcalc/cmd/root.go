package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rustyeddy/chartcalc/config"
	"github.com/rustyeddy/chartcalc/internal/logger"
	"github.com/rustyeddy/chartcalc/market"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chartcalc",
	Short: "Technical indicators, synthetic bars and series decomposition for OHLCV data",
	Long: `Chartcalc computes derived series from OHLCV bar files.

It provides tools for:
  - Computing technical indicators aligned to the bar index
  - Rebuilding bars as range bars, Renko bricks or Kagi lines
  - Cleaning a close-price line (fill, clip, smooth, difference, scale)
  - Splitting a close-price line into trend, seasonal and residual parts

Results are written to a CSV or SQLite journal tagged with a run id.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile    string
	logLevel   string
	logFormat  string
	outputType string
	outputPath string
	timeframe  string

	cfg *config.Config
	log *slog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "path to config file (defaults are used when empty)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	pf.StringVar(&logFormat, "log-format", "text", "log format: text|json")
	pf.StringVar(&outputType, "output-type", "", "journal type, csv or sqlite (overrides config)")
	pf.StringVarP(&outputPath, "output", "o", "", "journal path (overrides config)")
	pf.StringVar(&timeframe, "timeframe", "", "bar timeframe: 5m|15m|1h|4h|1d (overrides config)")
}

// setup loads the configuration, applies flag overrides and installs the
// logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log = logger.Init(os.Stderr, "chartcalc", level, logFormat)

	if cfgFile == "" {
		cfg = config.Default()
	} else {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
	}

	if timeframe != "" {
		tf, err := market.ParseTimeframe(timeframe)
		if err != nil {
			return err
		}
		cfg.Timeframe = tf
	}
	if outputType != "" {
		cfg.Output.Type = outputType
	}
	if outputPath != "" {
		switch cfg.Output.Type {
		case "sqlite":
			cfg.Output.DBPath = outputPath
		default:
			cfg.Output.CSVPath = outputPath
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
