package calculator

// CostEstimate is the cost of one box and of the whole order.
type CostEstimate struct {
	MaterialCost   float64 `json:"material_cost"`
	LaborCost      float64 `json:"labor_cost"`
	CostPerUnit    float64 `json:"cost_per_box"`
	TotalOrderCost float64 `json:"total_order_cost"`
	Quantity       int     `json:"num_boxes"`
}

// AggregateCost adds labor on top of material cost and scales by quantity.
// A quantity below 1 is treated as 1.
//
// Parameters:
//   - materialCost: total material cost of one box
//   - quantity: number of boxes ordered
//
// Returns:
//   - CostEstimate: per-box and order costs
func (c *Calculator) AggregateCost(materialCost float64, quantity int) CostEstimate {
	if quantity < 1 {
		quantity = 1
	}
	labor := materialCost * c.cfg.LaborPercentage
	perUnit := materialCost + labor

	return CostEstimate{
		MaterialCost:   materialCost,
		LaborCost:      labor,
		CostPerUnit:    perUnit,
		TotalOrderCost: perUnit * float64(quantity),
		Quantity:       quantity,
	}
}
