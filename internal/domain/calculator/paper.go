package calculator

import "github.com/hapkiduki/boxspec-go/internal/domain/valueobject"

// LayerResult is the weight and cost of one present paper layer.
type LayerResult struct {
	Layer        valueobject.Layer `json:"layer"`
	GSM          float64           `json:"gsm"`
	TakeUpFactor float64           `json:"take_up_factor"`
	UnitPrice    float64           `json:"unit_price"`
	Weight       float64           `json:"weight"`
	Cost         float64           `json:"cost"`
}

// PaperRequirement is the paper consumed by one board.
type PaperRequirement struct {
	// Area is full length times reel width, in square inches.
	Area float64 `json:"paper_area"`

	// Layers holds present layers only (GSM > 0), in board order.
	Layers []LayerResult `json:"layers"`

	// TotalWeight is the sum of the present layers' weights, in kg.
	TotalWeight float64 `json:"total_material_weight"`

	// TotalCost is the sum of the present layers' costs.
	TotalCost float64 `json:"total_material_cost"`
}

// Weights returns the weight per present layer.
func (p PaperRequirement) Weights() map[valueobject.Layer]float64 {
	out := make(map[valueobject.Layer]float64, len(p.Layers))
	for _, l := range p.Layers {
		out[l.Layer] = l.Weight
	}
	return out
}

// Layer returns the result for one layer and whether it is present.
func (p PaperRequirement) Layer(layer valueobject.Layer) (LayerResult, bool) {
	for _, l := range p.Layers {
		if l.Layer == layer {
			return l, true
		}
	}
	return LayerResult{}, false
}

// WeighPaper computes the weight and cost of every active layer with a
// positive grammage. Layers outside the ply's set are ignored.
//
//	weight = area × GSM × (TakeUpFactor if flute else 1) / AreaWeightDivisor
//	cost   = weight × unit price
//
// Parameters:
//   - sizes: board sizes from SizeBoard
//   - ply: ply count selecting the active layers
//   - gsm: grammage per layer
//   - prices: unit price per layer; missing or zero uses DefaultUnitPrice
//
// Returns:
//   - PaperRequirement: per-layer results and totals
func (c *Calculator) WeighPaper(sizes BoardSizes, ply valueobject.Ply, gsm, prices map[valueobject.Layer]float64) PaperRequirement {
	area := sizes.FullLengthInches * sizes.ReelWidth
	req := PaperRequirement{Area: area, Layers: []LayerResult{}}

	for _, layer := range ply.Layers() {
		g := gsm[layer]
		if !(g > 0) {
			continue
		}

		tuf := 1.0
		if layer.IsFlute() {
			tuf = c.cfg.TakeUpFactor
		}
		price := prices[layer]
		if price == 0 {
			price = c.cfg.DefaultUnitPrice
		}

		weight := area * g * tuf / c.cfg.AreaWeightDivisor
		cost := weight * price

		req.Layers = append(req.Layers, LayerResult{
			Layer:        layer,
			GSM:          g,
			TakeUpFactor: tuf,
			UnitPrice:    price,
			Weight:       weight,
			Cost:         cost,
		})
		req.TotalWeight += weight
		req.TotalCost += cost
	}

	return req
}
