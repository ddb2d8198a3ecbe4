package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/chartcalc/decompose"
	"github.com/rustyeddy/chartcalc/indicators"
	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/preprocess"
	"github.com/rustyeddy/chartcalc/synthetic"
	"gopkg.in/yaml.v3"
)

// Config represents a complete chartcalc run configuration
type Config struct {
	Timeframe     market.Timeframe  `json:"timeframe" yaml:"timeframe"`
	Indicators    IndicatorConfig   `json:"indicators" yaml:"indicators"`
	Synthetic     SyntheticConfig   `json:"synthetic" yaml:"synthetic"`
	Preprocessing preprocess.Config `json:"preprocessing" yaml:"preprocessing"`
	Decomposition decompose.Config  `json:"decomposition" yaml:"decomposition"`
	Output        OutputConfig      `json:"output" yaml:"output"`
}

// IndicatorConfig holds the parameters of every indicator. Enabled lists the
// indicator names to compute; empty means all of them.
type IndicatorConfig struct {
	Enabled []string `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	EMA        []int                     `json:"ema" yaml:"ema"`
	SMA        int                       `json:"sma" yaml:"sma"`
	Bollinger  BandConfig                `json:"bollinger" yaml:"bollinger"`
	Donchian   int                       `json:"donchian" yaml:"donchian"`
	RSI        int                       `json:"rsi" yaml:"rsi"`
	Stochastic StochConfig               `json:"stochastic" yaml:"stochastic"`
	CCI        int                       `json:"cci" yaml:"cci"`
	WilliamsR  int                       `json:"williams_r" yaml:"williams_r"`
	Momentum   int                       `json:"momentum" yaml:"momentum"`
	ROC        int                       `json:"roc" yaml:"roc"`
	VR         int                       `json:"vr" yaml:"vr"`
	ATR        int                       `json:"atr" yaml:"atr"`
	ADX        int                       `json:"adx" yaml:"adx"`
	MACD       MACDConfig                `json:"macd" yaml:"macd"`
	Keltner    KeltnerConfig             `json:"keltner" yaml:"keltner"`
	Ichimoku   indicators.IchimokuParams `json:"ichimoku" yaml:"ichimoku"`
	BIAS       int                       `json:"bias" yaml:"bias"`
	DMA        PairConfig                `json:"dma" yaml:"dma"`
	TRIX       TRIXConfig                `json:"trix" yaml:"trix"`
	PSAR       PSARConfig                `json:"psar" yaml:"psar"`
}

type BandConfig struct {
	Length int     `json:"length" yaml:"length"`
	Mult   float64 `json:"mult" yaml:"mult"`
}

// StochConfig is shared by the stochastic oscillator and KDJ.
type StochConfig struct {
	Length    int `json:"length" yaml:"length"`
	Smoothing int `json:"smoothing" yaml:"smoothing"`
}

type MACDConfig struct {
	Fast   int `json:"fast" yaml:"fast"`
	Slow   int `json:"slow" yaml:"slow"`
	Signal int `json:"signal" yaml:"signal"`
}

type KeltnerConfig struct {
	MALength  int     `json:"ma_length" yaml:"ma_length"`
	ATRLength int     `json:"atr_length" yaml:"atr_length"`
	Mult      float64 `json:"mult" yaml:"mult"`
}

type PairConfig struct {
	Fast int `json:"fast" yaml:"fast"`
	Slow int `json:"slow" yaml:"slow"`
}

type TRIXConfig struct {
	Length int `json:"length" yaml:"length"`
	Signal int `json:"signal" yaml:"signal"`
}

type PSARConfig struct {
	Step    float64 `json:"step" yaml:"step"`
	MaxStep float64 `json:"max_step" yaml:"max_step"`
}

// SyntheticConfig selects the bar reconstruction. A size of 0 means the
// size is estimated from the bars. HeikinAshi smooths the rebuilt bars
// afterwards, whatever the mode.
type SyntheticConfig struct {
	Mode         string  `json:"mode" yaml:"mode"` // candles, range, renko, kagi, heikin-ashi
	RangeSize    float64 `json:"range_size" yaml:"range_size"`
	RenkoBoxSize float64 `json:"renko_box_size" yaml:"renko_box_size"`
	KagiReversal float64 `json:"kagi_reversal" yaml:"kagi_reversal"`
	HeikinAshi   bool    `json:"heikin_ashi" yaml:"heikin_ashi"`
}

// Size returns the configured size for mode.
func (s SyntheticConfig) Size(mode synthetic.Mode) float64 {
	switch mode {
	case synthetic.ModeRange:
		return s.RangeSize
	case synthetic.ModeRenko:
		return s.RenkoBoxSize
	case synthetic.ModeKagi:
		return s.KagiReversal
	default:
		return 0
	}
}

// OutputConfig contains journaling parameters
type OutputConfig struct {
	Type    string `json:"type" yaml:"type"` // "csv" or "sqlite"
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, or JSON). Values
// missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the enumerated options and the output settings. Numeric
// knobs are not checked here; every computation clamps its own.
func (c *Config) Validate() error {
	if c.Timeframe != "" && !c.Timeframe.Known() {
		return fmt.Errorf("unknown timeframe: %s", c.Timeframe)
	}
	if _, err := synthetic.ParseMode(c.Synthetic.Mode); err != nil {
		return fmt.Errorf("synthetic.mode: %w", err)
	}
	for _, name := range c.Indicators.Enabled {
		if !KnownIndicator(name) {
			return fmt.Errorf("indicators.enabled: unknown indicator %q", name)
		}
	}
	if err := c.Preprocessing.Validate(); err != nil {
		return fmt.Errorf("preprocessing: %w", err)
	}
	if err := c.Decomposition.Validate(); err != nil {
		return err
	}
	if c.Output.Type != "csv" && c.Output.Type != "sqlite" {
		return fmt.Errorf("output.type must be 'csv' or 'sqlite'")
	}
	if c.Output.Type == "csv" && c.Output.CSVPath == "" {
		return fmt.Errorf("output csv_path required for CSV type")
	}
	if c.Output.Type == "sqlite" && c.Output.DBPath == "" {
		return fmt.Errorf("output db_path required for SQLite type")
	}
	return nil
}

// Indicator names accepted in indicators.enabled.
var IndicatorNames = []string{
	"ema", "sma", "bollinger", "donchian", "keltner", "rsi", "stochastic",
	"kdj", "williams_r", "cci", "momentum", "roc", "bias", "dma", "trix",
	"macd", "atr", "atr_percent", "adx", "psar", "ichimoku", "vwap", "obv",
	"vr", "volume",
}

// KnownIndicator reports whether name is in IndicatorNames.
func KnownIndicator(name string) bool {
	for _, n := range IndicatorNames {
		if n == name {
			return true
		}
	}
	return false
}

// IsEnabled reports whether the named indicator should be computed.
func (ic IndicatorConfig) IsEnabled(name string) bool {
	if len(ic.Enabled) == 0 {
		return true
	}
	for _, n := range ic.Enabled {
		if n == name {
			return true
		}
	}
	return false
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Timeframe: market.TF1h,
		Indicators: IndicatorConfig{
			EMA:        []int{50, 20, 100},
			SMA:        20,
			Bollinger:  BandConfig{Length: 20, Mult: 2},
			Donchian:   20,
			RSI:        14,
			Stochastic: StochConfig{Length: 14, Smoothing: 3},
			CCI:        20,
			WilliamsR:  14,
			Momentum:   10,
			ROC:        10,
			VR:         26,
			ATR:        14,
			ADX:        14,
			MACD:       MACDConfig{Fast: 12, Slow: 26, Signal: 9},
			Keltner:    KeltnerConfig{MALength: 20, ATRLength: 20, Mult: 1.5},
			Ichimoku:   indicators.DefaultIchimoku(),
			BIAS:       20,
			DMA:        PairConfig{Fast: 10, Slow: 50},
			TRIX:       TRIXConfig{Length: 18, Signal: 9},
			PSAR:       PSARConfig{Step: 0.02, MaxStep: 0.2},
		},
		Synthetic:     SyntheticConfig{Mode: string(synthetic.ModeCandles)},
		Preprocessing: preprocess.DefaultConfig(),
		Decomposition: decompose.DefaultConfig(),
		Output: OutputConfig{
			Type:    "csv",
			CSVPath: "./chartcalc.csv",
		},
	}
}
