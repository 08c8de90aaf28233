package dto

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/domain/entity"
	vo "github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *calculator.ValidationError
	require.True(t, errors.As(err, &verr), "expected *calculator.ValidationError, got %v", err)
	return verr.FieldNames()
}

func TestBindBoxQuery(t *testing.T) {
	q := url.Values{
		"length":             {"40"},
		"breadth":            {"30"},
		"height":             {" 20 "},
		"flute_type":         {"c"},
		"num_plies":          {"5"},
		"top_paper_gsm":      {"150"},
		"bottom_paper_gsm":   {"150"},
		"flute_paper_gsm":    {"150"},
		"flute_paper_price":  {"90"},
		"middle_paper_gsm":   {"0"},
		"num_boxes":          {"200"},
		"unrelated_paramter": {"x"},
	}

	in, err := BindBoxQuery(q)
	require.NoError(t, err)

	assert.Equal(t, vo.NewBoxDimensions(40, 30, 20), in.Dimensions)
	assert.Equal(t, vo.FluteType("c"), in.FluteType)
	assert.Equal(t, vo.Ply5, in.Ply)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerTop: 150, vo.LayerBottom: 150, vo.LayerFlute: 150}, in.GSM, "middle paper is not part of 5 ply")
	assert.Equal(t, map[vo.Layer]float64{vo.LayerFlute: 90}, in.Prices)
	assert.Equal(t, 200, in.Quantity)
}

func TestBindBoxQuery_DefaultsPly(t *testing.T) {
	in, err := BindBoxQuery(url.Values{"length": {"1"}, "breadth": {"1"}, "height": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, vo.Ply3, in.Ply)
	assert.Zero(t, in.Quantity)
}

func TestBindBoxQuery_ParseErrors(t *testing.T) {
	q := url.Values{
		"length":        {"forty"},
		"breadth":       {"NaN"},
		"height":        {"20"},
		"num_plies":     {"5.5"},
		"top_paper_gsm": {"heavy"},
		"num_boxes":     {"2.5"},
	}

	_, err := BindBoxQuery(q)
	require.ErrorIs(t, err, calculator.ErrValidation)
	assert.Equal(t, []string{"length", "breadth", "num_plies", "top_paper_gsm", "num_boxes"}, fieldNames(t, err))
}

func TestBindBoxQuery_SkipsInactiveLayers(t *testing.T) {
	q := url.Values{
		"length":            {"40"},
		"breadth":           {"30"},
		"height":            {"20"},
		"top_paper_gsm":     {"150"},
		"flute_paper2_gsm":  {"n/a"},
		"flute_paper_price": {"cheap"},
	}

	in, err := BindBoxQuery(q)
	require.NoError(t, err)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerTop: 150}, in.GSM)
	assert.Empty(t, in.Prices)

	_, err = calculator.MustNewCalculator(calculator.DefaultConfig()).Compute(in)
	assert.NoError(t, err)
}

func TestBindBoxQuery_ReadsEveryLayerWhenPlyUnparseable(t *testing.T) {
	q := url.Values{
		"length":           {"40"},
		"breadth":          {"30"},
		"height":           {"20"},
		"num_plies":        {"five"},
		"flute_paper2_gsm": {"n/a"},
	}

	_, err := BindBoxQuery(q)
	assert.Equal(t, []string{"num_plies", "flute_paper2_gsm"}, fieldNames(t, err))
}

func TestBindBoxQuery_RangeChecksLeftToCalculator(t *testing.T) {
	in, err := BindBoxQuery(url.Values{"length": {"-1"}, "breadth": {"1"}, "height": {"1"}, "num_plies": {"4"}})
	require.NoError(t, err)

	_, err = calculator.MustNewCalculator(calculator.DefaultConfig()).Compute(in)
	assert.Equal(t, []string{"length", "num_plies"}, fieldNames(t, err))
}

func TestNewBoxSpecificationResponse(t *testing.T) {
	calc := calculator.MustNewCalculator(calculator.DefaultConfig())
	spec, err := calc.Compute(calculator.BoxInput{
		Dimensions: vo.NewBoxDimensions(40, 30, 20),
		Ply:        vo.Ply3,
		GSM:        map[vo.Layer]float64{vo.LayerTop: 150, vo.LayerBottom: 150},
	})
	require.NoError(t, err)

	resp := NewBoxSpecificationResponse(spec)

	wantInput := BoxInputResponse{
		Length: 40, Breadth: 30, Height: 20, FluteType: "B", NumPlies: 3,
		GSM:      map[string]float64{"top_paper": 150, "bottom_paper": 150},
		Prices:   map[string]float64{"top_paper": 80, "bottom_paper": 80},
		NumBoxes: 1,
	}
	if diff := cmp.Diff(wantInput, resp.Input); diff != "" {
		t.Errorf("input mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "2 board length", resp.UPS)
	assert.Equal(t, "INR", resp.Currency)
	assert.Len(t, resp.Layers, 2)
	assert.Equal(t, "Top Paper", resp.Layers[0].Label)
	assert.Contains(t, resp.PaperWeights, "top_paper_weight")
	assert.NotContains(t, resp.PaperWeights, "flute_paper_weight")
	assert.Equal(t, spec.CostEstimate.CostPerUnit, resp.CostEstimates.CostPerBox)
	assert.Equal(t, spec.Formulas.ProductionMode, resp.Formulas.UPS)
}

func TestCreateBoxTemplateRequest_Validate(t *testing.T) {
	req := CreateBoxTemplateRequest{
		BoxName:    " Shoe Box ",
		Dimensions: DimensionsRequest{Length: 40, Breadth: 30, Height: 20},
		GSM:        map[string]float64{"top": 150, "bottom_paper_gsm": 120},
		Prices:     map[string]float64{"TOP_PAPER": 95},
		BF:         map[string]float64{"top": 18, "flute": 16},
	}

	in, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Shoe Box", in.Name)
	assert.Equal(t, vo.Ply3, in.Ply)
	assert.Equal(t, vo.FluteB, in.FluteType)
	assert.Equal(t, 1, in.OrderQuantity)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerTop: 150, vo.LayerBottom: 120}, in.GSM)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerTop: 95}, in.Prices)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerTop: 18}, in.BF, "flute is not part of 3 ply")
}

func TestCreateBoxTemplateRequest_ValidateErrors(t *testing.T) {
	req := CreateBoxTemplateRequest{
		Dimensions:    DimensionsRequest{Length: 40, Breadth: 0, Height: 20},
		FluteType:     "Z",
		NumPlies:      4,
		OrderQuantity: -1,
		GSM:           map[string]float64{"lid": 100},
	}

	_, err := req.Validate()
	assert.Equal(t, []string{"box_name", "dimensions.breadth", "flute_type", "num_plies", "order_quantity", "gsm.lid"}, fieldNames(t, err))
}

func TestParseLayerValues_DropsInactiveLayers(t *testing.T) {
	verr := &calculator.ValidationError{}

	got := ParseLayerValues("gsm", map[string]float64{"top": 150, "flute2": -1, "middle": 90}, vo.Ply5, verr)

	require.NoError(t, verr.Err())
	assert.Equal(t, map[vo.Layer]float64{vo.LayerTop: 150}, got)

	ParseLayerValues("gsm", map[string]float64{"flute": -1, "lid": 1}, vo.Ply5, verr)
	assert.ElementsMatch(t, []string{"gsm.flute", "gsm.lid"}, verr.FieldNames())
}

func TestUpdateBoxTemplateRequest_Apply(t *testing.T) {
	tpl, err := entity.NewBoxTemplate("Tray", vo.NewBoxDimensions(10, 10, 5), "", vo.Ply3,
		map[vo.Layer]float64{vo.LayerTop: 120, vo.LayerBottom: 120})
	require.NoError(t, err)

	name := "Deep Tray"
	plies := 5
	gsm := map[string]float64{"flute_paper": 100}
	qty := 12
	bf := map[string]float64{"flute": 16}
	req := UpdateBoxTemplateRequest{BoxName: &name, NumPlies: &plies, GSM: &gsm, OrderQuantity: &qty, BF: &bf, Version: 1}

	require.NoError(t, req.Apply(tpl))
	assert.Equal(t, "Deep Tray", tpl.Name)
	assert.Equal(t, vo.Ply5, tpl.Ply)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerFlute: 100}, tpl.GSM)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerFlute: 16}, tpl.BurstFactors)
	assert.Equal(t, 12, tpl.OrderQuantity)
	assert.Equal(t, map[string]float64{"flute_paper": 16}, NewBoxTemplateResponse(tpl).BF)
}

func TestUpdateBoxTemplateRequest_ApplyErrors(t *testing.T) {
	tpl, err := entity.NewBoxTemplate("Tray", vo.NewBoxDimensions(10, 10, 5), "", vo.Ply3, nil)
	require.NoError(t, err)

	plies := 6
	qty := 0
	req := UpdateBoxTemplateRequest{NumPlies: &plies, OrderQuantity: &qty}

	err = req.Apply(tpl)
	assert.Equal(t, []string{"version", "num_plies", "order_quantity"}, fieldNames(t, err))
}

func TestBindListQuery(t *testing.T) {
	req, err := BindListQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, req.Limit)
	assert.Nil(t, req.Ply)

	req, err = BindListQuery(url.Values{"q": {" shoe "}, "num_plies": {"7"}, "limit": {"5"}, "offset": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, "shoe", req.SearchTerm)
	require.NotNil(t, req.Ply)
	assert.Equal(t, vo.Ply7, *req.Ply)
	assert.Equal(t, 5, req.Limit)
	assert.Equal(t, 10, req.Offset)

	_, err = BindListQuery(url.Values{"num_plies": {"4"}, "limit": {"1000"}, "offset": {"-1"}})
	assert.Equal(t, []string{"num_plies", "limit", "offset"}, fieldNames(t, err))
}

func TestBindQuantity(t *testing.T) {
	n, err := BindQuantity(url.Values{})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = BindQuantity(url.Values{"num_boxes": {"25"}})
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	_, err = BindQuantity(url.Values{"num_boxes": {"-2"}})
	assert.ErrorIs(t, err, calculator.ErrValidation)
	_, err = BindQuantity(url.Values{"num_boxes": {"ten"}})
	assert.Equal(t, []string{"num_boxes"}, fieldNames(t, err))
}
