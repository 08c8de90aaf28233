package calculator

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

const tolerance = 1e-9

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(DefaultConfig())
	require.NoError(t, err)
	return c
}

func threePlyInput() BoxInput {
	return BoxInput{
		Dimensions: vo.NewBoxDimensions(40, 30, 20),
		Ply:        vo.Ply3,
		GSM:        map[vo.Layer]float64{vo.LayerTop: 150, vo.LayerBottom: 150},
	}
}

func TestCompute_ThreePlyScenario(t *testing.T) {
	c := newTestCalculator(t)

	spec, err := c.Compute(threePlyInput())
	require.NoError(t, err)

	assert.InDelta(t, 40.24, spec.Dimensions.Length, tolerance)
	assert.InDelta(t, 30.18, spec.Dimensions.Breadth, tolerance)
	assert.InDelta(t, 20.224, spec.Dimensions.Height, tolerance)
	assert.InDelta(t, 15.5254350625, spec.Dimensions.FluteSize, tolerance)

	assert.InDelta(t, 144/2.54, spec.BoardSizes.FullLengthInches, tolerance)
	assert.InDelta(t, 73.9/2.54, spec.BoardSizes.HalfLengthInches, tolerance)
	assert.InDelta(t, 20.413728395669292, spec.BoardSizes.ReelSize1Up, tolerance)
	assert.InDelta(t, 40.512496161417324, spec.BoardSizes.ReelSize2Up, tolerance)
	assert.InDelta(t, 50/2.54, spec.BoardSizes.ReelWidth, tolerance)

	assert.Equal(t, ModeTwoBoardLength, spec.ProductionMode)
	assert.Equal(t, `Reel Width (19.6850") < 20" → 2 board length`, spec.ProductionModeReason)

	assert.InDelta(t, 1116.002232004464, spec.Paper.Area, 1e-7)
	require.Len(t, spec.Paper.Layers, 2)
	assert.InDelta(t, 108.000216000432, spec.Paper.Layers[0].Weight, 1e-7)
	assert.InDelta(t, 108.000216000432, spec.Paper.Layers[1].Weight, 1e-7)
	assert.InDelta(t, 216.000432000864, spec.Paper.TotalWeight, 1e-7)

	assert.InDelta(t, 17280.03456006912, spec.CostEstimate.MaterialCost, 1e-6)
	assert.InDelta(t, 5184.010368020737, spec.CostEstimate.LaborCost, 1e-6)
	assert.InDelta(t, 22464.044928089857, spec.CostEstimate.CostPerUnit, 1e-6)
	assert.InDelta(t, 22464.044928089857, spec.CostEstimate.TotalOrderCost, 1e-6)
	assert.Equal(t, 1, spec.CostEstimate.Quantity)
	assert.Equal(t, "₹22464.0449", spec.TotalCost().Format(4))
}

func TestCompute_FormulasThreePly(t *testing.T) {
	c := newTestCalculator(t)

	spec, err := c.Compute(threePlyInput())
	require.NoError(t, err)

	want := Formulas{
		Dimensions: []string{
			"L (cm) = 40 × 1.006 = 40.2400",
			"B (cm) = 30 × 1.006 = 30.1800",
			"H (cm) = 20 × 1.0112 = 20.2240",
			"F (cm) = (30 + 0.635) × 1.013575 / 2 = 15.5254",
		},
		BoardSizes: []string{
			`Length (L") for full length = ((40+30) × 2 + 3.5 + 0.5) / 2.54 = 56.6929"`,
			`Length (L") for half length = ((40+30) + 3.5 + 0.4) / 2.54 = 29.0945"`,
			`Reel size (R) for 1 up = ((20+15.5254+15.5254)+0.8) / 2.54 = 20.4137"`,
			`Reel size (R) for 2 up = (((20+15.5254+15.5254)×2)+0.8) / 2.54 = 40.5125"`,
			`Reel Width = (30+20)/2.54 = 19.6850"`,
		},
		ProductionMode: []string{
			`Reel Width = 19.6850"`,
			`Full Length = 56.6929"`,
			`UPS Determination: Reel Width (19.6850") < 20" → 2 board length`,
		},
		PaperWeights: []string{
			`Paper Area = Full Length (56.6929") × Reel Width (19.6850") = 1116.0022 in²`,
			"Top Paper Weight = (1116.0022 × 150) / 1550 = 108.0002 kg",
			"Top Paper Cost = 108.0002 kg × ₹80.0000 = ₹8640.0173",
			"Bottom Paper Weight = (1116.0022 × 150) / 1550 = 108.0002 kg",
			"Bottom Paper Cost = 108.0002 kg × ₹80.0000 = ₹8640.0173",
			"Total Material Weight = 216.0004 kg",
			"Total Material Cost = ₹17280.0346",
		},
		Costs: []string{
			"Material Cost = ₹17280.0346",
			"Labor Cost = ₹17280.0346 × 0.3 = ₹5184.0104",
			"Total Cost Per Box = ₹17280.0346 + ₹5184.0104 = ₹22464.0449",
		},
	}

	if diff := cmp.Diff(want, spec.Formulas); diff != "" {
		t.Errorf("formulas mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_FivePlyWithPricesAndQuantity(t *testing.T) {
	c := newTestCalculator(t)

	spec, err := c.Compute(BoxInput{
		Dimensions: vo.NewBoxDimensions(40, 30, 20),
		FluteType:  "c",
		Ply:        vo.Ply5,
		GSM:        map[vo.Layer]float64{vo.LayerTop: 150, vo.LayerBottom: 150, vo.LayerFlute: 120},
		Prices:     map[vo.Layer]float64{vo.LayerFlute: 90},
		Quantity:   200,
	})
	require.NoError(t, err)

	flute, ok := spec.Paper.Layer(vo.LayerFlute)
	require.True(t, ok)
	assert.Equal(t, 1.35, flute.TakeUpFactor)
	assert.Equal(t, 90.0, flute.UnitPrice)
	assert.InDelta(t, 116.64023328046657, flute.Weight, 1e-7)
	assert.InDelta(t, 10497.620995241992, flute.Cost, 1e-6)

	top, _ := spec.Paper.Layer(vo.LayerTop)
	assert.Equal(t, 1.0, top.TakeUpFactor)
	assert.Equal(t, 80.0, top.UnitPrice)

	assert.InDelta(t, 332.6406652813306, spec.Paper.TotalWeight, 1e-7)
	assert.InDelta(t, 27777.655555311114, spec.CostEstimate.MaterialCost, 1e-6)
	assert.InDelta(t, 36110.952221904445, spec.CostEstimate.CostPerUnit, 1e-6)
	assert.InDelta(t, 7222190.444380889, spec.CostEstimate.TotalOrderCost, 1e-4)
	assert.Equal(t, vo.FluteC, spec.Input.FluteType)

	assert.Contains(t, spec.Formulas.PaperWeights,
		"Flute Paper Weight = (1116.0022 × 120 × 1.35) / 1550 = 116.6402 kg")
	assert.Contains(t, spec.Formulas.PaperWeights,
		"Flute Paper Cost = 116.6402 kg × ₹90.0000 = ₹10497.6210")
	require.Len(t, spec.Formulas.Costs, 4)
	assert.Equal(t, "Total Order Cost (200 boxes) = ₹36110.9522 × 200 = ₹7222190.4444", spec.Formulas.Costs[3])
}

func TestCompute_SevenPlyIgnoresInactiveLayers(t *testing.T) {
	c := newTestCalculator(t)

	spec, err := c.Compute(BoxInput{
		Dimensions: vo.NewBoxDimensions(40, 30, 20),
		Ply:        vo.Ply7,
		GSM: map[vo.Layer]float64{
			vo.LayerTop:    150,
			vo.LayerBottom: 150,
			vo.LayerFlute:  500, // not part of 7 ply
			vo.LayerFlute1: 100,
			vo.LayerMiddle: 120,
			vo.LayerFlute2: 100,
		},
	})
	require.NoError(t, err)

	_, hasFlute := spec.Paper.Layer(vo.LayerFlute)
	assert.False(t, hasFlute)

	var layers []vo.Layer
	sum := 0.0
	for _, l := range spec.Paper.Layers {
		layers = append(layers, l.Layer)
		sum += l.Weight
	}
	assert.Equal(t, []vo.Layer{vo.LayerTop, vo.LayerBottom, vo.LayerFlute1, vo.LayerMiddle, vo.LayerFlute2}, layers)
	assert.InDelta(t, sum, spec.Paper.TotalWeight, tolerance)

	f1, _ := spec.Paper.Layer(vo.LayerFlute1)
	mid, _ := spec.Paper.Layer(vo.LayerMiddle)
	assert.InDelta(t, 97.20019440038881, f1.Weight, 1e-7)
	assert.InDelta(t, 86.40017280034562, mid.Weight, 1e-7)
	assert.Equal(t, 1.0, mid.TakeUpFactor)

	assert.NotContains(t, spec.Input.GSM, vo.LayerFlute)
}

func TestCompute_ZeroGSMLayerIsExcluded(t *testing.T) {
	c := newTestCalculator(t)

	for _, ply := range []vo.Ply{vo.Ply3, vo.Ply5, vo.Ply7} {
		t.Run(ply.String(), func(t *testing.T) {
			gsm := map[vo.Layer]float64{}
			for i, l := range ply.Layers() {
				gsm[l] = float64(100 + 10*i)
			}
			gsm[vo.LayerTop] = 0

			spec, err := c.Compute(BoxInput{Dimensions: vo.NewBoxDimensions(55, 35, 25), Ply: ply, GSM: gsm})
			require.NoError(t, err)

			_, present := spec.Paper.Layer(vo.LayerTop)
			assert.False(t, present)
			assert.NotContains(t, spec.PaperWeights(), vo.LayerTop.WeightField())

			sum, cost := 0.0, 0.0
			for _, l := range spec.Paper.Layers {
				assert.Greater(t, l.Weight, 0.0)
				sum += l.Weight
				cost += l.Cost
			}
			assert.Len(t, spec.Paper.Layers, len(ply.Layers())-1)
			assert.InDelta(t, sum, spec.Paper.TotalWeight, tolerance)
			assert.InDelta(t, cost, spec.CostEstimate.MaterialCost, tolerance)
		})
	}
}

func TestCompute_MissingGSMUsesLayerDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LayerDefaults = map[vo.Layer]float64{vo.LayerTop: 120, vo.LayerBottom: 100}
	c, err := NewCalculator(cfg)
	require.NoError(t, err)

	spec, err := c.Compute(BoxInput{
		Dimensions: vo.NewBoxDimensions(40, 30, 20),
		Ply:        vo.Ply3,
		GSM:        map[vo.Layer]float64{vo.LayerBottom: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, 120.0, spec.Input.GSM[vo.LayerTop])
	assert.Equal(t, 0.0, spec.Input.GSM[vo.LayerBottom], "explicit zero wins over the default")
	require.Len(t, spec.Paper.Layers, 1)
	assert.Equal(t, vo.LayerTop, spec.Paper.Layers[0].Layer)

	// Without defaults a missing layer is simply absent.
	spec, err = newTestCalculator(t).Compute(BoxInput{Dimensions: vo.NewBoxDimensions(40, 30, 20), Ply: vo.Ply3})
	require.NoError(t, err)
	assert.Empty(t, spec.Paper.Layers)
	assert.Zero(t, spec.CostEstimate.CostPerUnit)
}

func TestCompute_ValidationErrors(t *testing.T) {
	c := newTestCalculator(t)

	tests := []struct {
		name   string
		input  BoxInput
		fields []string
	}{
		{
			name:   "zero and negative dimensions",
			input:  BoxInput{Dimensions: vo.NewBoxDimensions(0, -5, 20), Ply: vo.Ply3},
			fields: []string{"length", "breadth"},
		},
		{
			name:   "NaN height",
			input:  BoxInput{Dimensions: vo.NewBoxDimensions(10, 10, math.NaN()), Ply: vo.Ply3},
			fields: []string{"height"},
		},
		{
			name:   "invalid ply",
			input:  BoxInput{Dimensions: vo.NewBoxDimensions(10, 10, 10), Ply: 4},
			fields: []string{"num_plies"},
		},
		{
			name:   "missing ply",
			input:  BoxInput{Dimensions: vo.NewBoxDimensions(10, 10, 10)},
			fields: []string{"num_plies"},
		},
		{
			name: "negative gsm and price",
			input: BoxInput{
				Dimensions: vo.NewBoxDimensions(10, 10, 10),
				Ply:        vo.Ply3,
				GSM:        map[vo.Layer]float64{vo.LayerTop: -1},
				Prices:     map[vo.Layer]float64{vo.LayerBottom: -80},
			},
			fields: []string{"top_paper_gsm", "bottom_paper_price"},
		},
		{
			name:   "negative quantity and bad flute",
			input:  BoxInput{Dimensions: vo.NewBoxDimensions(10, 10, 10), Ply: vo.Ply3, FluteType: "Q", Quantity: -2},
			fields: []string{"flute_type", "num_boxes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compute(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.FieldNames())
			for _, f := range tt.fields {
				assert.Contains(t, err.Error(), f)
			}
		})
	}
}

func TestCompute_IgnoresBadValuesOnInactiveLayers(t *testing.T) {
	c := newTestCalculator(t)

	spec, err := c.Compute(BoxInput{
		Dimensions: vo.NewBoxDimensions(40, 30, 20),
		Ply:        vo.Ply3,
		GSM:        map[vo.Layer]float64{vo.LayerTop: 150, vo.LayerBottom: 150, vo.LayerFlute: -5, vo.LayerFlute2: math.Inf(1)},
		Prices:     map[vo.Layer]float64{vo.LayerMiddle: -80},
	})
	require.NoError(t, err)

	assert.Len(t, spec.Paper.Layers, 2)
	assert.NotContains(t, spec.Input.GSM, vo.LayerFlute)
	assert.NotContains(t, spec.Input.Prices, vo.LayerMiddle)
}

func TestCompute_InvalidPlyChecksEveryLayer(t *testing.T) {
	c := newTestCalculator(t)

	_, err := c.Compute(BoxInput{
		Dimensions: vo.NewBoxDimensions(40, 30, 20),
		Ply:        4,
		GSM:        map[vo.Layer]float64{vo.LayerFlute2: -5},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"num_plies", "flute_paper2_gsm"}, verr.FieldNames())
}

func TestCompute_IsDeterministic(t *testing.T) {
	c := newTestCalculator(t)
	in := BoxInput{
		Dimensions: vo.NewBoxDimensions(63.7, 41.3, 28.9),
		Ply:        vo.Ply7,
		GSM: map[vo.Layer]float64{
			vo.LayerTop: 180, vo.LayerBottom: 150, vo.LayerFlute1: 120, vo.LayerMiddle: 140, vo.LayerFlute2: 120,
		},
		Quantity: 7,
	}

	first, err := c.Compute(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]BoxSpecification, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Compute(in)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		if diff := cmp.Diff(first, r); diff != "" {
			t.Fatalf("non-deterministic result (-first +got):\n%s", diff)
		}
	}
}

func TestRenderFormulas_ReproducesEmbeddedFormulas(t *testing.T) {
	c := newTestCalculator(t)

	spec, err := c.Compute(BoxInput{
		Dimensions: vo.NewBoxDimensions(120, 90, 70),
		Ply:        vo.Ply5,
		GSM:        map[vo.Layer]float64{vo.LayerTop: 200, vo.LayerBottom: 180, vo.LayerFlute: 150},
		Quantity:   3,
	})
	require.NoError(t, err)

	if diff := cmp.Diff(spec.Formulas, RenderFormulas(spec)); diff != "" {
		t.Errorf("re-rendered formulas drifted (-embedded +rendered):\n%s", diff)
	}
	assert.Len(t, spec.Formulas.All(), 4+5+3+(1+3*2+2)+4)
}

func TestNewCalculator_CopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LayerDefaults = map[vo.Layer]float64{vo.LayerTop: 100}
	c, err := NewCalculator(cfg)
	require.NoError(t, err)

	cfg.LayerDefaults[vo.LayerTop] = 999
	cfg.DefaultUnitPrice = 1

	got := c.Config()
	assert.Equal(t, 100.0, got.LayerDefaults[vo.LayerTop])
	assert.Equal(t, 80.0, got.DefaultUnitPrice)
}

func TestCompute_OverriddenPrice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultUnitPrice = 100
	cfg.LaborPercentage = 0.5
	c, err := NewCalculator(cfg)
	require.NoError(t, err)

	base, err := newTestCalculator(t).Compute(threePlyInput())
	require.NoError(t, err)
	spec, err := c.Compute(threePlyInput())
	require.NoError(t, err)

	assert.InDelta(t, base.CostEstimate.MaterialCost*100/80, spec.CostEstimate.MaterialCost, 1e-6)
	assert.InDelta(t, spec.CostEstimate.MaterialCost*0.5, spec.CostEstimate.LaborCost, 1e-9)
	assert.Equal(t, base.Paper.TotalWeight, spec.Paper.TotalWeight)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero divisor", func(c *Config) { c.AreaWeightDivisor = 0 }},
		{"zero inch", func(c *Config) { c.CMPerInch = 0 }},
		{"negative labor", func(c *Config) { c.LaborPercentage = -0.1 }},
		{"negative price", func(c *Config) { c.DefaultUnitPrice = -1 }},
		{"precision too large", func(c *Config) { c.Precision = MaxPrecision + 1 }},
		{"unknown currency", func(c *Config) { c.Currency = "XXX" }},
		{"negative layer default", func(c *Config) { c.LayerDefaults = map[vo.Layer]float64{vo.LayerTop: -1} }},
		{"NaN shrinkage", func(c *Config) { c.HeightShrinkage = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
			_, err := NewCalculator(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
