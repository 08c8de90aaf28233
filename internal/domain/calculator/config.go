// Package calculator converts raw corrugated box dimensions and paper
// grammage into board-cutting specifications and a material cost estimate.
//
// The pipeline runs strictly left to right:
//
//	BoxInput -> AdjustedDimensions -> BoardSizes -> ProductionMode
//	         -> PaperRequirement -> CostEstimate -> Formulas
//
// Every stage is a pure function of its inputs and the Calculator's Config.
// A Calculator holds no mutable state and may be shared between goroutines.
package calculator

import (
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// ErrInvalidConfig is returned by Config.Validate and NewCalculator.
var ErrInvalidConfig = errors.New("invalid calculator configuration")

// MaxPrecision is the largest number of decimal places accepted for display.
const MaxPrecision = 10

// Config holds the empirical constants of the corrugation process.
// It is a value: the Calculator keeps its own copy.
type Config struct {
	// LengthShrinkage is the multiplier applied to the raw length.
	LengthShrinkage float64 `json:"length_shrinkage_factor"`

	// BreadthShrinkage is the multiplier applied to the raw breadth.
	BreadthShrinkage float64 `json:"breadth_shrinkage_factor"`

	// HeightShrinkage is the multiplier applied to the raw height.
	HeightShrinkage float64 `json:"height_shrinkage_factor"`

	// FluteAllowance is added to the breadth before deriving the flute size (cm).
	FluteAllowance float64 `json:"flute_allowance"`

	// FluteFactor scales the allowed breadth into the flute size.
	FluteFactor float64 `json:"flute_factor"`

	// CMPerInch converts centimeters to inches.
	CMPerInch float64 `json:"cm_per_inch"`

	// JoinAllowance is the glue-flap allowance added to board lengths (cm).
	JoinAllowance float64 `json:"join_allowance"`

	// FullLengthTrim is the trim added to the full board length (cm).
	FullLengthTrim float64 `json:"full_length_trim"`

	// HalfLengthTrim is the trim added to the half board length (cm).
	HalfLengthTrim float64 `json:"half_length_trim"`

	// ReelTrim is the trim added to reel sizes (cm).
	ReelTrim float64 `json:"reel_trim"`

	// TwoBoardReelLimit is the reel width (in) below which two boards are cut.
	TwoBoardReelLimit float64 `json:"two_board_reel_limit"`

	// OneBoardReelLimit is the reel width (in) below which one board is cut.
	OneBoardReelLimit float64 `json:"one_board_reel_limit"`

	// FullLengthReelLimit is the reel width (in) below which full length is run.
	FullLengthReelLimit float64 `json:"full_length_reel_limit"`

	// HalfLengthThreshold is the full length (in) above which half length is run.
	HalfLengthThreshold float64 `json:"half_length_threshold"`

	// TakeUpFactor is applied to flute layers only.
	TakeUpFactor float64 `json:"flute_tuf"`

	// AreaWeightDivisor converts square inches times GSM into kilograms.
	AreaWeightDivisor float64 `json:"area_weight_divisor"`

	// DefaultUnitPrice is the paper price per kg used when a layer has none.
	DefaultUnitPrice float64 `json:"paper_cost_per_kg"`

	// LaborPercentage is the labor cost as a fraction of material cost.
	LaborPercentage float64 `json:"labor_cost_percentage"`

	// Precision is the number of decimal places of displayed figures.
	Precision int `json:"precision"`

	// Currency of unit prices and costs.
	Currency valueobject.Currency `json:"currency"`

	// LayerDefaults supplies a GSM for layers whose grammage was not given.
	LayerDefaults map[valueobject.Layer]float64 `json:"layer_defaults,omitempty"`
}

// DefaultConfig returns the production constants.
//
// Returns:
//   - Config: default calculator configuration
func DefaultConfig() Config {
	return Config{
		LengthShrinkage:     1.006,
		BreadthShrinkage:    1.006,
		HeightShrinkage:     1.0112,
		FluteAllowance:      0.635,
		FluteFactor:         1.013575,
		CMPerInch:           2.54,
		JoinAllowance:       3.5,
		FullLengthTrim:      0.5,
		HalfLengthTrim:      0.4,
		ReelTrim:            0.8,
		TwoBoardReelLimit:   20,
		OneBoardReelLimit:   40,
		FullLengthReelLimit: 60,
		HalfLengthThreshold: 60,
		TakeUpFactor:        1.35,
		AreaWeightDivisor:   1550,
		DefaultUnitPrice:    80,
		LaborPercentage:     0.30,
		Precision:           4,
		Currency:            valueobject.CurrencyINR,
	}
}

// Validate checks that every constant is usable.
//
// Returns:
//   - error: ErrInvalidConfig wrapping the first offending setting
func (c Config) Validate() error {
	positives := []struct {
		name  string
		value float64
	}{
		{"length_shrinkage_factor", c.LengthShrinkage},
		{"breadth_shrinkage_factor", c.BreadthShrinkage},
		{"height_shrinkage_factor", c.HeightShrinkage},
		{"flute_factor", c.FluteFactor},
		{"cm_per_inch", c.CMPerInch},
		{"flute_tuf", c.TakeUpFactor},
		{"area_weight_divisor", c.AreaWeightDivisor},
		{"two_board_reel_limit", c.TwoBoardReelLimit},
		{"one_board_reel_limit", c.OneBoardReelLimit},
		{"full_length_reel_limit", c.FullLengthReelLimit},
		{"half_length_threshold", c.HalfLengthThreshold},
	}
	for _, p := range positives {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, p.name)
		}
	}

	nonNegatives := []struct {
		name  string
		value float64
	}{
		{"flute_allowance", c.FluteAllowance},
		{"join_allowance", c.JoinAllowance},
		{"full_length_trim", c.FullLengthTrim},
		{"half_length_trim", c.HalfLengthTrim},
		{"reel_trim", c.ReelTrim},
		{"paper_cost_per_kg", c.DefaultUnitPrice},
		{"labor_cost_percentage", c.LaborPercentage},
	}
	for _, n := range nonNegatives {
		if !(n.value >= 0) || math.IsInf(n.value, 0) {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, n.name)
		}
	}

	if c.Precision < 0 || c.Precision > MaxPrecision {
		return fmt.Errorf("%w: precision must be between 0 and %d", ErrInvalidConfig, MaxPrecision)
	}
	if _, err := valueobject.ParseCurrency(string(c.Currency)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for layer, gsm := range c.LayerDefaults {
		if !layer.IsValid() {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, valueobject.ErrUnknownLayer)
		}
		if !(gsm >= 0) || math.IsInf(gsm, 0) {
			return fmt.Errorf("%w: default GSM for %s must not be negative", ErrInvalidConfig, layer)
		}
	}
	return nil
}

// clone returns a copy that shares no maps with c.
func (c Config) clone() Config {
	out := c
	out.LayerDefaults = maps.Clone(c.LayerDefaults)
	return out
}
