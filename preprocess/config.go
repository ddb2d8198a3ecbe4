package preprocess

import (
	"errors"
	"fmt"
)

// MissingStrategy selects how missing points are handled.
type MissingStrategy string

const (
	MissingNone  MissingStrategy = "none"
	ForwardFill  MissingStrategy = "forward_fill"
	BackwardFill MissingStrategy = "backward_fill"
	Interpolate  MissingStrategy = "interpolate"
	ConstantFill MissingStrategy = "constant"
	DropRows     MissingStrategy = "drop_rows"
)

// OutlierMethod selects the clipping bounds.
type OutlierMethod string

const (
	OutlierNone OutlierMethod = "none"
	ZScoreClip  OutlierMethod = "zscore_clip"
	IQRClip     OutlierMethod = "iqr_clip"
	Winsorize   OutlierMethod = "winsorize"
	ManualClip  OutlierMethod = "manual_clip"
)

// SmoothingMethod selects the smoother.
type SmoothingMethod string

const (
	SmoothingNone SmoothingMethod = "none"
	MovingAverage SmoothingMethod = "moving_average"
)

// ScalingMethod selects the rescaling.
type ScalingMethod string

const (
	ScalingNone ScalingMethod = "none"
	Standard    ScalingMethod = "standard"
	MinMax      ScalingMethod = "minmax"
	Robust      ScalingMethod = "robust"
)

type MissingValuesConfig struct {
	Enabled       bool            `json:"enabled" yaml:"enabled"`
	Strategy      MissingStrategy `json:"strategy" yaml:"strategy"`
	ConstantValue float64         `json:"constant_value" yaml:"constant_value"`
}

type OutlierConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	Method        OutlierMethod `json:"method" yaml:"method"`
	ZThreshold    float64       `json:"z_threshold" yaml:"z_threshold"`
	IQRMultiplier float64       `json:"iqr_multiplier" yaml:"iqr_multiplier"`

	// Winsorization percentiles, 0-100.
	WinsorLower float64 `json:"winsor_lower" yaml:"winsor_lower"`
	WinsorUpper float64 `json:"winsor_upper" yaml:"winsor_upper"`

	// Manual bounds; nil means the data minimum/maximum.
	ManualMin *float64 `json:"manual_min,omitempty" yaml:"manual_min,omitempty"`
	ManualMax *float64 `json:"manual_max,omitempty" yaml:"manual_max,omitempty"`
}

type SmoothingConfig struct {
	Enabled    bool            `json:"enabled" yaml:"enabled"`
	Method     SmoothingMethod `json:"method" yaml:"method"`
	Window     int             `json:"window" yaml:"window"`
	Center     bool            `json:"center" yaml:"center"`
	MinPeriods int             `json:"min_periods" yaml:"min_periods"`
}

type DifferencingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Order   int  `json:"order" yaml:"order"` // 0 or 1

	// SeasonalPeriod is the lag; values below 1 mean a lag of 1.
	SeasonalPeriod int `json:"seasonal_period" yaml:"seasonal_period"`

	// DropMissing removes points without a lag partner instead of
	// keeping them as missing.
	DropMissing bool `json:"drop_missing" yaml:"drop_missing"`
}

type ScalingConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Method   ScalingMethod `json:"method" yaml:"method"`
	RangeMin float64       `json:"range_min" yaml:"range_min"`
	RangeMax float64       `json:"range_max" yaml:"range_max"`
}

// Config is the whole pipeline. Stages run in a fixed order: missing
// values, outliers, smoothing, differencing, scaling.
type Config struct {
	Enabled       bool                `json:"enabled" yaml:"enabled"`
	MissingValues MissingValuesConfig `json:"missing_values" yaml:"missing_values"`
	Outliers      OutlierConfig       `json:"outliers" yaml:"outliers"`
	Smoothing     SmoothingConfig     `json:"smoothing" yaml:"smoothing"`
	Differencing  DifferencingConfig  `json:"differencing" yaml:"differencing"`
	Scaling       ScalingConfig       `json:"scaling" yaml:"scaling"`
}

// DefaultConfig returns a disabled pipeline with every knob at its default.
func DefaultConfig() Config {
	return Config{
		MissingValues: MissingValuesConfig{Strategy: ForwardFill},
		Outliers: OutlierConfig{
			Method:        ZScoreClip,
			ZThreshold:    3,
			IQRMultiplier: 1.5,
			WinsorLower:   1,
			WinsorUpper:   99,
		},
		Smoothing:    SmoothingConfig{Method: MovingAverage, Window: 5, MinPeriods: 1},
		Differencing: DifferencingConfig{Order: 1, SeasonalPeriod: 1},
		Scaling:      ScalingConfig{Method: Standard, RangeMin: 0, RangeMax: 1},
	}
}

// Validate checks the enumerated options. Numeric knobs are not rejected;
// the stages clamp them.
func (c Config) Validate() error {
	var errs []error
	switch c.MissingValues.Strategy {
	case "", MissingNone, ForwardFill, BackwardFill, Interpolate, ConstantFill, DropRows:
	default:
		errs = append(errs, fmt.Errorf("missing_values.strategy: unknown %q", c.MissingValues.Strategy))
	}
	switch c.Outliers.Method {
	case "", OutlierNone, ZScoreClip, IQRClip, Winsorize, ManualClip:
	default:
		errs = append(errs, fmt.Errorf("outliers.method: unknown %q", c.Outliers.Method))
	}
	switch c.Smoothing.Method {
	case "", SmoothingNone, MovingAverage:
	default:
		errs = append(errs, fmt.Errorf("smoothing.method: unknown %q", c.Smoothing.Method))
	}
	if c.Differencing.Order != 0 && c.Differencing.Order != 1 {
		errs = append(errs, fmt.Errorf("differencing.order: must be 0 or 1, got %d", c.Differencing.Order))
	}
	switch c.Scaling.Method {
	case "", ScalingNone, Standard, MinMax, Robust:
	default:
		errs = append(errs, fmt.Errorf("scaling.method: unknown %q", c.Scaling.Method))
	}
	return errors.Join(errs...)
}
