package calculator

import "github.com/hapkiduki/boxspec-go/internal/domain/valueobject"

// AdjustedDimensions are the box dimensions after corrugator shrinkage.
type AdjustedDimensions struct {
	Length    float64 `json:"length"`
	Breadth   float64 `json:"breadth"`
	Height    float64 `json:"height"`
	FluteSize float64 `json:"flute_size"`
}

// BoardSizes are the board-cutting lengths and reel widths, in inches.
type BoardSizes struct {
	FullLengthInches float64 `json:"full_length_in"`
	HalfLengthInches float64 `json:"half_length_in"`
	ReelSize1Up      float64 `json:"reel_size_1up"`
	ReelSize2Up      float64 `json:"reel_size_2up"`
	ReelWidth        float64 `json:"reel_width"`
}

// AdjustDimensions applies the shrinkage factors and derives the flute size.
// The flute size is taken from the raw breadth.
//
// Parameters:
//   - d: raw dimensions, already validated as positive
//
// Returns:
//   - AdjustedDimensions: shrinkage-adjusted dimensions
func (c *Calculator) AdjustDimensions(d valueobject.BoxDimensions) AdjustedDimensions {
	return AdjustedDimensions{
		Length:    d.Length * c.cfg.LengthShrinkage,
		Breadth:   d.Breadth * c.cfg.BreadthShrinkage,
		Height:    d.Height * c.cfg.HeightShrinkage,
		FluteSize: (d.Breadth + c.cfg.FluteAllowance) * c.cfg.FluteFactor / 2,
	}
}

// SizeBoard converts raw dimensions and the flute size into board sizes.
// Board sizing works from the raw dimensions, not the shrinkage-adjusted ones.
//
// Parameters:
//   - d: raw dimensions in centimeters
//   - fluteSize: flute size from AdjustDimensions
//
// Returns:
//   - BoardSizes: lengths and reel widths in inches
func (c *Calculator) SizeBoard(d valueobject.BoxDimensions, fluteSize float64) BoardSizes {
	cfg := c.cfg
	lengthPlusBreadth := d.Length + d.Breadth
	reelBase := d.Height + fluteSize + fluteSize

	return BoardSizes{
		FullLengthInches: (lengthPlusBreadth*2 + cfg.JoinAllowance + cfg.FullLengthTrim) / cfg.CMPerInch,
		HalfLengthInches: (lengthPlusBreadth + cfg.JoinAllowance + cfg.HalfLengthTrim) / cfg.CMPerInch,
		ReelSize1Up:      (reelBase + cfg.ReelTrim) / cfg.CMPerInch,
		ReelSize2Up:      (reelBase*2 + cfg.ReelTrim) / cfg.CMPerInch,
		ReelWidth:        (d.Breadth + d.Height) / cfg.CMPerInch,
	}
}
