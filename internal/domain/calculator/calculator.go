package calculator

import (
	"fmt"

	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// BoxSpecification is the complete result of one calculation.
type BoxSpecification struct {
	// Input is the request after defaults were applied.
	Input BoxInput `json:"input"`

	Dimensions           AdjustedDimensions `json:"dimensions"`
	BoardSizes           BoardSizes         `json:"board_sizes"`
	ProductionMode       ProductionMode     `json:"ups"`
	ProductionModeReason string             `json:"ups_reason"`
	Paper                PaperRequirement   `json:"paper"`
	CostEstimate         CostEstimate       `json:"cost_estimates"`
	Formulas             Formulas           `json:"formulas"`

	// Constants is the configuration the result was computed with.
	Constants Config `json:"constants"`
}

// Calculator runs the box specification pipeline with a fixed Config.
type Calculator struct {
	cfg Config
}

// NewCalculator validates cfg and returns a Calculator holding a private copy.
//
// Parameters:
//   - cfg: calculator configuration
//
// Returns:
//   - *Calculator: ready calculator
//   - error: ErrInvalidConfig if cfg is unusable
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{cfg: cfg.clone()}, nil
}

// MustNewCalculator is NewCalculator that panics on an invalid config.
func MustNewCalculator(cfg Config) *Calculator {
	c, err := NewCalculator(cfg)
	if err != nil {
		panic(fmt.Sprintf("calculator: %v", err))
	}
	return c
}

// Config returns a copy of the calculator configuration.
func (c *Calculator) Config() Config {
	return c.cfg.clone()
}

// Compute validates the input and runs every stage.
//
// Parameters:
//   - in: the box to calculate
//
// Returns:
//   - BoxSpecification: the full result
//   - error: *ValidationError (matches ErrValidation) when the input is rejected
func (c *Calculator) Compute(in BoxInput) (BoxSpecification, error) {
	if err := in.Validate(); err != nil {
		return BoxSpecification{}, err
	}
	resolved := in.resolve(c.cfg)

	dims := c.AdjustDimensions(resolved.Dimensions)
	board := c.SizeBoard(resolved.Dimensions, dims.FluteSize)
	mode, reason := c.ClassifyProductionMode(board.ReelWidth, board.FullLengthInches)
	paper := c.WeighPaper(board, resolved.Ply, resolved.GSM, resolved.Prices)
	costs := c.AggregateCost(paper.TotalCost, resolved.Quantity)

	spec := BoxSpecification{
		Input:                resolved,
		Dimensions:           dims,
		BoardSizes:           board,
		ProductionMode:       mode,
		ProductionModeReason: reason,
		Paper:                paper,
		CostEstimate:         costs,
		Constants:            c.cfg.clone(),
	}
	spec.Formulas = RenderFormulas(spec)
	return spec, nil
}

// PaperWeights returns the weights of present layers keyed by weight field,
// e.g. "top_paper_weight".
func (s BoxSpecification) PaperWeights() map[string]float64 {
	out := make(map[string]float64, len(s.Paper.Layers))
	for _, l := range s.Paper.Layers {
		out[l.Layer.WeightField()] = l.Weight
	}
	return out
}

// TotalCost returns the order cost as Money in the configured currency.
func (s BoxSpecification) TotalCost() valueobject.Money {
	return valueobject.NewMoney(s.CostEstimate.TotalOrderCost, s.Constants.Currency)
}
