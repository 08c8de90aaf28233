package calculator

import (
	"fmt"

	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// Formulas are the substituted arithmetic of every stage, for display.
type Formulas struct {
	Dimensions     []string `json:"dimensions"`
	BoardSizes     []string `json:"board_sizes"`
	ProductionMode []string `json:"ups"`
	PaperWeights   []string `json:"paper_weights"`
	Costs          []string `json:"costs"`
}

// All returns every formula line in stage order.
func (f Formulas) All() []string {
	out := make([]string, 0, len(f.Dimensions)+len(f.BoardSizes)+len(f.ProductionMode)+len(f.PaperWeights)+len(f.Costs))
	out = append(out, f.Dimensions...)
	out = append(out, f.BoardSizes...)
	out = append(out, f.ProductionMode...)
	out = append(out, f.PaperWeights...)
	return append(out, f.Costs...)
}

// RenderFormulas rebuilds the display formulas of a computed specification.
// It reads only spec, so rendering twice gives identical lines.
//
// Parameters:
//   - spec: a specification returned by Calculator.Compute
//
// Returns:
//   - Formulas: display strings per stage
func RenderFormulas(spec BoxSpecification) Formulas {
	cfg := spec.Constants
	p := cfg.Precision
	fx := func(v float64) string { return valueobject.FormatFixed(v, p) }
	pl := valueobject.FormatPlain
	money := func(v float64) string { return valueobject.NewMoney(v, cfg.Currency).Format(p) }

	raw := spec.Input.Dimensions
	dims := spec.Dimensions
	board := spec.BoardSizes
	paper := spec.Paper
	costs := spec.CostEstimate
	l, b, h := pl(raw.Length), pl(raw.Breadth), pl(raw.Height)
	flute := fx(dims.FluteSize)
	inch := pl(cfg.CMPerInch)

	var f Formulas

	f.Dimensions = []string{
		fmt.Sprintf("L (cm) = %s × %s = %s", l, pl(cfg.LengthShrinkage), fx(dims.Length)),
		fmt.Sprintf("B (cm) = %s × %s = %s", b, pl(cfg.BreadthShrinkage), fx(dims.Breadth)),
		fmt.Sprintf("H (cm) = %s × %s = %s", h, pl(cfg.HeightShrinkage), fx(dims.Height)),
		fmt.Sprintf("F (cm) = (%s + %s) × %s / 2 = %s", b, pl(cfg.FluteAllowance), pl(cfg.FluteFactor), flute),
	}

	f.BoardSizes = []string{
		fmt.Sprintf(`Length (L") for full length = ((%s+%s) × 2 + %s + %s) / %s = %s"`,
			l, b, pl(cfg.JoinAllowance), pl(cfg.FullLengthTrim), inch, fx(board.FullLengthInches)),
		fmt.Sprintf(`Length (L") for half length = ((%s+%s) + %s + %s) / %s = %s"`,
			l, b, pl(cfg.JoinAllowance), pl(cfg.HalfLengthTrim), inch, fx(board.HalfLengthInches)),
		fmt.Sprintf(`Reel size (R) for 1 up = ((%s+%s+%s)+%s) / %s = %s"`,
			h, flute, flute, pl(cfg.ReelTrim), inch, fx(board.ReelSize1Up)),
		fmt.Sprintf(`Reel size (R) for 2 up = (((%s+%s+%s)×2)+%s) / %s = %s"`,
			h, flute, flute, pl(cfg.ReelTrim), inch, fx(board.ReelSize2Up)),
		fmt.Sprintf(`Reel Width = (%s+%s)/%s = %s"`, b, h, inch, fx(board.ReelWidth)),
	}

	f.ProductionMode = []string{
		fmt.Sprintf(`Reel Width = %s"`, fx(board.ReelWidth)),
		fmt.Sprintf(`Full Length = %s"`, fx(board.FullLengthInches)),
		"UPS Determination: " + spec.ProductionModeReason,
	}

	area := fx(paper.Area)
	f.PaperWeights = []string{
		fmt.Sprintf(`Paper Area = Full Length (%s") × Reel Width (%s") = %s in²`,
			fx(board.FullLengthInches), fx(board.ReelWidth), area),
	}
	for _, lr := range paper.Layers {
		label := lr.Layer.Label()
		weight := fx(lr.Weight)
		if lr.Layer.IsFlute() {
			f.PaperWeights = append(f.PaperWeights, fmt.Sprintf("%s Weight = (%s × %s × %s) / %s = %s kg",
				label, area, pl(lr.GSM), pl(lr.TakeUpFactor), pl(cfg.AreaWeightDivisor), weight))
		} else {
			f.PaperWeights = append(f.PaperWeights, fmt.Sprintf("%s Weight = (%s × %s) / %s = %s kg",
				label, area, pl(lr.GSM), pl(cfg.AreaWeightDivisor), weight))
		}
		f.PaperWeights = append(f.PaperWeights, fmt.Sprintf("%s Cost = %s kg × %s = %s",
			label, weight, money(lr.UnitPrice), money(lr.Cost)))
	}
	f.PaperWeights = append(f.PaperWeights,
		fmt.Sprintf("Total Material Weight = %s kg", fx(paper.TotalWeight)),
		fmt.Sprintf("Total Material Cost = %s", money(paper.TotalCost)),
	)

	f.Costs = []string{
		fmt.Sprintf("Material Cost = %s", money(costs.MaterialCost)),
		fmt.Sprintf("Labor Cost = %s × %s = %s", money(costs.MaterialCost), pl(cfg.LaborPercentage), money(costs.LaborCost)),
		fmt.Sprintf("Total Cost Per Box = %s + %s = %s", money(costs.MaterialCost), money(costs.LaborCost), money(costs.CostPerUnit)),
	}
	if costs.Quantity > 1 {
		f.Costs = append(f.Costs, fmt.Sprintf("Total Order Cost (%d boxes) = %s × %d = %s",
			costs.Quantity, money(costs.CostPerUnit), costs.Quantity, money(costs.TotalOrderCost)))
	}

	return f
}
