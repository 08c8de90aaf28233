package calculator

import (
	"fmt"

	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// ProductionMode is the board layout chosen for the corrugator run (UPS).
type ProductionMode string

// Production modes.
const (
	ModeTwoBoardLength ProductionMode = "2 board length"
	ModeOneBoardLength ProductionMode = "1 board length"
	ModeFullLength     ProductionMode = "full length"
	ModeHalfLength     ProductionMode = "half length"
)

// ClassifyProductionMode picks the production mode from the reel width and
// full board length. Rules are tried in order and the first match wins:
//
//	reelWidth < TwoBoardReelLimit                       -> 2 board length
//	TwoBoardReelLimit <= reelWidth < OneBoardReelLimit  -> 1 board length
//	reelWidth < FullLengthReelLimit                     -> full length
//	fullLength > HalfLengthThreshold                    -> half length
//	otherwise                                           -> full length
//
// Parameters:
//   - reelWidth: reel width in inches
//   - fullLength: full board length in inches
//
// Returns:
//   - ProductionMode: the chosen mode
//   - string: the rule that fired, with the compared values
func (c *Calculator) ClassifyProductionMode(reelWidth, fullLength float64) (ProductionMode, string) {
	cfg := c.cfg
	p := cfg.Precision
	rw := valueobject.FormatFixed(reelWidth, p)

	switch {
	case reelWidth < cfg.TwoBoardReelLimit:
		return ModeTwoBoardLength, fmt.Sprintf(`Reel Width (%s") < %s" → %s`,
			rw, valueobject.FormatPlain(cfg.TwoBoardReelLimit), ModeTwoBoardLength)
	case reelWidth >= cfg.TwoBoardReelLimit && reelWidth < cfg.OneBoardReelLimit:
		return ModeOneBoardLength, fmt.Sprintf(`%s" ≤ Reel Width (%s") < %s" → %s`,
			valueobject.FormatPlain(cfg.TwoBoardReelLimit), rw, valueobject.FormatPlain(cfg.OneBoardReelLimit), ModeOneBoardLength)
	case reelWidth < cfg.FullLengthReelLimit:
		return ModeFullLength, fmt.Sprintf(`Reel Width (%s") < %s" → %s`,
			rw, valueobject.FormatPlain(cfg.FullLengthReelLimit), ModeFullLength)
	case fullLength > cfg.HalfLengthThreshold:
		return ModeHalfLength, fmt.Sprintf(`Full Length (%s") > %s" → %s`,
			valueobject.FormatFixed(fullLength, p), valueobject.FormatPlain(cfg.HalfLengthThreshold), ModeHalfLength)
	default:
		return ModeFullLength, fmt.Sprintf(`Default case: Reel Width (%s") ≥ %s", Full Length (%s") ≤ %s" → %s`,
			rw, valueobject.FormatPlain(cfg.FullLengthReelLimit),
			valueobject.FormatFixed(fullLength, p), valueobject.FormatPlain(cfg.HalfLengthThreshold), ModeFullLength)
	}
}
