package dto

import (
	"errors"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/domain/entity"
	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// DefaultPly is used when a calculation request omits num_plies.
const DefaultPly = valueobject.Ply3

// BindBoxQuery reads a calculation request from query parameters.
// Unparseable values are reported here; range checks are left to the calculator.
// Layer fields are only read for the layers active at the requested ply.
//
// Parameters:
//   - q: query values such as length=40&num_plies=5&top_paper_gsm=150
//
// Returns:
//   - calculator.BoxInput: the decoded input
//   - error: *calculator.ValidationError naming every unparseable field
func BindBoxQuery(q url.Values) (calculator.BoxInput, error) {
	verr := &calculator.ValidationError{}
	in := calculator.BoxInput{
		FluteType: valueobject.FluteType(strings.TrimSpace(q.Get("flute_type"))),
		Ply:       DefaultPly,
		GSM:       make(map[valueobject.Layer]float64),
		Prices:    make(map[valueobject.Layer]float64),
	}

	in.Dimensions.Length, _ = queryFloat(q, "length", verr)
	in.Dimensions.Breadth, _ = queryFloat(q, "breadth", verr)
	in.Dimensions.Height, _ = queryFloat(q, "height", verr)

	parsed := len(verr.Fields)
	if ply, ok := queryInt(q, "num_plies", verr); ok {
		in.Ply = valueobject.Ply(ply)
	}

	// Inactive layers are skipped; every layer is read when the ply is unusable.
	layers := in.Ply.RelevantLayers()
	if len(verr.Fields) > parsed {
		layers = valueobject.AllLayers
	}
	for _, layer := range layers {
		if gsm, ok := queryFloat(q, layer.GSMField(), verr); ok {
			in.GSM[layer] = gsm
		}
		if price, ok := queryFloat(q, layer.PriceField(), verr); ok {
			in.Prices[layer] = price
		}
	}
	if boxes, ok := queryInt(q, "num_boxes", verr); ok {
		in.Quantity = boxes
	}

	if err := verr.Err(); err != nil {
		return calculator.BoxInput{}, err
	}
	return in, nil
}

func queryFloat(q url.Values, field string, verr *calculator.ValidationError) (float64, bool) {
	raw := strings.TrimSpace(q.Get(field))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		verr.Add(field, "must be a number", raw)
		return 0, false
	}
	return v, true
}

func queryInt(q url.Values, field string, verr *calculator.ValidationError) (int, bool) {
	raw := strings.TrimSpace(q.Get(field))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(field, "must be an integer", raw)
		return 0, false
	}
	return v, true
}

// DimensionsResponse is the shrinkage-adjusted geometry in centimeters.
type DimensionsResponse struct {
	Length    float64 `json:"length" yaml:"length"`
	Breadth   float64 `json:"breadth" yaml:"breadth"`
	Height    float64 `json:"height" yaml:"height"`
	FluteSize float64 `json:"flute_size" yaml:"flute_size"`
}

// BoardSizesResponse is board geometry in inches.
type BoardSizesResponse struct {
	FullLengthInches float64 `json:"full_length_in" yaml:"full_length_in"`
	HalfLengthInches float64 `json:"half_length_in" yaml:"half_length_in"`
	ReelSize1Up      float64 `json:"reel_size_1up" yaml:"reel_size_1up"`
	ReelSize2Up      float64 `json:"reel_size_2up" yaml:"reel_size_2up"`
	ReelWidth        float64 `json:"reel_width" yaml:"reel_width"`
}

// LayerResponse is the requirement of one present paper layer.
type LayerResponse struct {
	Layer        string  `json:"layer" yaml:"layer"`
	Label        string  `json:"label" yaml:"label"`
	GSM          float64 `json:"gsm" yaml:"gsm"`
	TakeUpFactor float64 `json:"take_up_factor" yaml:"take_up_factor"`
	UnitPrice    float64 `json:"unit_price" yaml:"unit_price"`
	Weight       float64 `json:"weight" yaml:"weight"`
	Cost         float64 `json:"cost" yaml:"cost"`
}

// CostEstimateResponse is the per-box and order cost.
type CostEstimateResponse struct {
	MaterialCost   float64 `json:"material_cost" yaml:"material_cost"`
	LaborCost      float64 `json:"labor_cost" yaml:"labor_cost"`
	CostPerBox     float64 `json:"cost_per_box" yaml:"cost_per_box"`
	TotalOrderCost float64 `json:"total_order_cost" yaml:"total_order_cost"`
	NumBoxes       int     `json:"num_boxes" yaml:"num_boxes"`
}

// FormulasResponse holds the display formulas per stage.
type FormulasResponse struct {
	Dimensions   []string `json:"dimensions" yaml:"dimensions"`
	BoardSizes   []string `json:"board_sizes" yaml:"board_sizes"`
	UPS          []string `json:"ups" yaml:"ups"`
	PaperWeights []string `json:"paper_weights" yaml:"paper_weights"`
	Costs        []string `json:"costs" yaml:"costs"`
}

// BoxSpecificationResponse is the wire shape of a calculation result.
type BoxSpecificationResponse struct {
	Input               BoxInputResponse     `json:"input" yaml:"input"`
	Dimensions          DimensionsResponse   `json:"dimensions" yaml:"dimensions"`
	BoardSizes          BoardSizesResponse   `json:"board_sizes" yaml:"board_sizes"`
	UPS                 string               `json:"ups" yaml:"ups"`
	UPSReason           string               `json:"ups_reason" yaml:"ups_reason"`
	PaperArea           float64              `json:"paper_area" yaml:"paper_area"`
	PaperWeights        map[string]float64   `json:"paper_weights" yaml:"paper_weights"`
	Layers              []LayerResponse      `json:"layers" yaml:"layers"`
	TotalMaterialWeight float64              `json:"total_material_weight" yaml:"total_material_weight"`
	CostEstimates       CostEstimateResponse `json:"cost_estimates" yaml:"cost_estimates"`
	Currency            string               `json:"currency" yaml:"currency"`
	Formulas            FormulasResponse     `json:"formulas" yaml:"formulas"`
}

// BoxInputResponse echoes the input after defaults were applied.
type BoxInputResponse struct {
	Length    float64            `json:"length" yaml:"length"`
	Breadth   float64            `json:"breadth" yaml:"breadth"`
	Height    float64            `json:"height" yaml:"height"`
	FluteType string             `json:"flute_type" yaml:"flute_type"`
	NumPlies  int                `json:"num_plies" yaml:"num_plies"`
	GSM       map[string]float64 `json:"gsm" yaml:"gsm"`
	Prices    map[string]float64 `json:"prices" yaml:"prices"`
	NumBoxes  int                `json:"num_boxes" yaml:"num_boxes"`
}

// NewBoxSpecificationResponse converts a calculator result.
//
// Parameters:
//   - spec: result of Calculator.Compute
//
// Returns:
//   - BoxSpecificationResponse: response DTO
func NewBoxSpecificationResponse(spec calculator.BoxSpecification) BoxSpecificationResponse {
	layers := make([]LayerResponse, 0, len(spec.Paper.Layers))
	for _, l := range spec.Paper.Layers {
		layers = append(layers, LayerResponse{
			Layer:        l.Layer.Key(),
			Label:        l.Layer.Label(),
			GSM:          l.GSM,
			TakeUpFactor: l.TakeUpFactor,
			UnitPrice:    l.UnitPrice,
			Weight:       l.Weight,
			Cost:         l.Cost,
		})
	}

	in := spec.Input
	return BoxSpecificationResponse{
		Input: BoxInputResponse{
			Length:    in.Dimensions.Length,
			Breadth:   in.Dimensions.Breadth,
			Height:    in.Dimensions.Height,
			FluteType: string(in.FluteType),
			NumPlies:  int(in.Ply),
			GSM:       LayerValues(in.GSM),
			Prices:    LayerValues(in.Prices),
			NumBoxes:  in.Quantity,
		},
		Dimensions: DimensionsResponse{
			Length:    spec.Dimensions.Length,
			Breadth:   spec.Dimensions.Breadth,
			Height:    spec.Dimensions.Height,
			FluteSize: spec.Dimensions.FluteSize,
		},
		BoardSizes: BoardSizesResponse{
			FullLengthInches: spec.BoardSizes.FullLengthInches,
			HalfLengthInches: spec.BoardSizes.HalfLengthInches,
			ReelSize1Up:      spec.BoardSizes.ReelSize1Up,
			ReelSize2Up:      spec.BoardSizes.ReelSize2Up,
			ReelWidth:        spec.BoardSizes.ReelWidth,
		},
		UPS:                 string(spec.ProductionMode),
		UPSReason:           spec.ProductionModeReason,
		PaperArea:           spec.Paper.Area,
		PaperWeights:        spec.PaperWeights(),
		Layers:              layers,
		TotalMaterialWeight: spec.Paper.TotalWeight,
		CostEstimates: CostEstimateResponse{
			MaterialCost:   spec.CostEstimate.MaterialCost,
			LaborCost:      spec.CostEstimate.LaborCost,
			CostPerBox:     spec.CostEstimate.CostPerUnit,
			TotalOrderCost: spec.CostEstimate.TotalOrderCost,
			NumBoxes:       spec.CostEstimate.Quantity,
		},
		Currency: string(spec.Constants.Currency),
		Formulas: FormulasResponse{
			Dimensions:   spec.Formulas.Dimensions,
			BoardSizes:   spec.Formulas.BoardSizes,
			UPS:          spec.Formulas.ProductionMode,
			PaperWeights: spec.Formulas.PaperWeights,
			Costs:        spec.Formulas.Costs,
		},
	}
}

// LayerValues re-keys a layer map by layer key, e.g. "top_paper".
func LayerValues(m map[valueobject.Layer]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for l, v := range m {
		out[l.Key()] = v
	}
	return out
}

// ParseLayerValues converts request maps keyed by layer name. Errors are
// recorded on verr under field.<name>. Values of known layers that ply does
// not use are dropped without range checks.
func ParseLayerValues(field string, m map[string]float64, ply valueobject.Ply, verr *calculator.ValidationError) map[valueobject.Layer]float64 {
	relevant := ply.RelevantLayers()
	out := make(map[valueobject.Layer]float64, len(m))
	for name, v := range m {
		layer, err := valueobject.ParseLayer(name)
		if err != nil {
			verr.Add(field+"."+name, "unknown paper layer", name)
			continue
		}
		if !slices.Contains(relevant, layer) {
			continue
		}
		if !(v >= 0) {
			verr.Add(field+"."+name, "must not be negative", v)
			continue
		}
		out[layer] = v
	}
	return out
}

// DimensionsRequest carries raw dimensions in centimeters.
type DimensionsRequest struct {
	Length  float64 `json:"length" yaml:"length"`
	Breadth float64 `json:"breadth" yaml:"breadth"`
	Height  float64 `json:"height" yaml:"height"`
}

func (d DimensionsRequest) value() valueobject.BoxDimensions {
	return valueobject.NewBoxDimensions(d.Length, d.Breadth, d.Height)
}

// CreateBoxTemplateRequest is the body of POST /box-templates.
type CreateBoxTemplateRequest struct {
	BoxName       string             `json:"box_name"`
	Dimensions    DimensionsRequest  `json:"dimensions"`
	FluteType     string             `json:"flute_type"`
	NumPlies      int                `json:"num_plies"`
	PrintColor    string             `json:"print_color"`
	OrderQuantity int                `json:"order_quantity"`
	GSM           map[string]float64 `json:"gsm"`
	Prices        map[string]float64 `json:"prices"`
	BF            map[string]float64 `json:"bf"`
	Notes         string             `json:"notes"`
}

// BoxTemplateInput is a validated template request in domain types.
type BoxTemplateInput struct {
	Name          string
	Dimensions    valueobject.BoxDimensions
	FluteType     valueobject.FluteType
	Ply           valueobject.Ply
	PrintColor    string
	OrderQuantity int
	GSM           map[valueobject.Layer]float64
	Prices        map[valueobject.Layer]float64
	BF            map[valueobject.Layer]float64
	Notes         string
}

// Validate checks the request and converts it to domain types.
// A zero num_plies means DefaultPly and a zero order_quantity means 1.
//
// Returns:
//   - BoxTemplateInput: converted request
//   - error: *calculator.ValidationError listing every offending field
func (r CreateBoxTemplateRequest) Validate() (BoxTemplateInput, error) {
	verr := &calculator.ValidationError{}
	out := BoxTemplateInput{
		Name:          strings.TrimSpace(r.BoxName),
		Dimensions:    r.Dimensions.value(),
		PrintColor:    r.PrintColor,
		OrderQuantity: r.OrderQuantity,
		Notes:         r.Notes,
	}

	if out.Name == "" || len(out.Name) > entity.MaxBoxNameLength {
		verr.Add("box_name", entity.ErrInvalidBoxName.Error(), r.BoxName)
	}
	for _, field := range out.Dimensions.InvalidFields() {
		verr.Add("dimensions."+field, "must be a positive number", nil)
	}
	flute, err := valueobject.ParseFluteType(r.FluteType)
	if err != nil {
		verr.Add("flute_type", valueobject.ErrInvalidFluteType.Error(), r.FluteType)
	}
	out.FluteType = flute

	out.Ply = valueobject.Ply(r.NumPlies)
	if r.NumPlies == 0 {
		out.Ply = DefaultPly
	}
	if !out.Ply.IsValid() {
		verr.Add("num_plies", valueobject.ErrInvalidPly.Error(), r.NumPlies)
	}

	switch {
	case r.OrderQuantity == 0:
		out.OrderQuantity = 1
	case r.OrderQuantity < 0:
		verr.Add("order_quantity", entity.ErrInvalidQuantity.Error(), r.OrderQuantity)
	}

	out.GSM = ParseLayerValues("gsm", r.GSM, out.Ply, verr)
	out.Prices = ParseLayerValues("prices", r.Prices, out.Ply, verr)
	out.BF = ParseLayerValues("bf", r.BF, out.Ply, verr)

	if err := verr.Err(); err != nil {
		return BoxTemplateInput{}, err
	}
	return out, nil
}

// UpdateBoxTemplateRequest is the body of PUT /box-templates/{id}.
// Nil fields are left unchanged. Version must equal the stored version.
type UpdateBoxTemplateRequest struct {
	BoxName       *string             `json:"box_name,omitempty"`
	Dimensions    *DimensionsRequest  `json:"dimensions,omitempty"`
	FluteType     *string             `json:"flute_type,omitempty"`
	NumPlies      *int                `json:"num_plies,omitempty"`
	PrintColor    *string             `json:"print_color,omitempty"`
	OrderQuantity *int                `json:"order_quantity,omitempty"`
	GSM           *map[string]float64 `json:"gsm,omitempty"`
	Prices        *map[string]float64 `json:"prices,omitempty"`
	BF            *map[string]float64 `json:"bf,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Version       int                 `json:"version"`
}

// Apply validates the request and applies it to tpl.
//
// Returns:
//   - error: *calculator.ValidationError listing every offending field
func (r UpdateBoxTemplateRequest) Apply(tpl *entity.BoxTemplate) error {
	verr := &calculator.ValidationError{}
	if r.Version < 1 {
		verr.Add("version", "is required", r.Version)
	}

	if r.BoxName != nil {
		if err := tpl.Rename(*r.BoxName); err != nil {
			verr.Add("box_name", err.Error(), *r.BoxName)
		}
	}
	if r.Dimensions != nil {
		if err := tpl.SetDimensions(r.Dimensions.value()); err != nil {
			for _, field := range r.Dimensions.value().InvalidFields() {
				verr.Add("dimensions."+field, "must be a positive number", nil)
			}
		}
	}

	if r.FluteType != nil || r.NumPlies != nil || r.GSM != nil {
		flute := tpl.FluteType
		if r.FluteType != nil {
			flute = valueobject.FluteType(*r.FluteType)
		}
		ply := tpl.Ply
		if r.NumPlies != nil {
			ply = valueobject.Ply(*r.NumPlies)
		}
		gsm := tpl.GSM
		if r.GSM != nil {
			gsm = ParseLayerValues("gsm", *r.GSM, ply, verr)
		}
		if err := tpl.SetPaper(flute, ply, gsm); err != nil {
			verr.Add(paperField(err), err.Error(), nil)
		}
	}

	if r.Prices != nil {
		if err := tpl.SetPrices(ParseLayerValues("prices", *r.Prices, tpl.Ply, verr)); err != nil {
			verr.Add("prices", err.Error(), nil)
		}
	}
	if r.BF != nil {
		if err := tpl.SetBurstFactors(ParseLayerValues("bf", *r.BF, tpl.Ply, verr)); err != nil {
			verr.Add("bf", err.Error(), nil)
		}
	}
	if r.OrderQuantity != nil {
		if err := tpl.SetOrderQuantity(*r.OrderQuantity); err != nil {
			verr.Add("order_quantity", err.Error(), *r.OrderQuantity)
		}
	}
	if r.PrintColor != nil {
		tpl.SetPrintColor(*r.PrintColor)
	}
	if r.Notes != nil {
		tpl.SetNotes(*r.Notes)
	}

	return verr.Err()
}

func paperField(err error) string {
	switch {
	case errors.Is(err, valueobject.ErrInvalidFluteType):
		return "flute_type"
	case errors.Is(err, valueobject.ErrInvalidPly):
		return "num_plies"
	default:
		return "gsm"
	}
}

// ListBoxTemplatesRequest holds list query parameters.
type ListBoxTemplatesRequest struct {
	SearchTerm string
	Ply        *valueobject.Ply
	Limit      int
	Offset     int
}

// Pagination bounds for template listings.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// BindListQuery reads q, num_plies, limit and offset.
func BindListQuery(q url.Values) (ListBoxTemplatesRequest, error) {
	verr := &calculator.ValidationError{}
	req := ListBoxTemplatesRequest{
		SearchTerm: strings.TrimSpace(q.Get("q")),
		Limit:      DefaultListLimit,
	}

	if ply, ok := queryInt(q, "num_plies", verr); ok {
		p, err := valueobject.NewPly(ply)
		if err != nil {
			verr.Add("num_plies", err.Error(), ply)
		} else {
			req.Ply = &p
		}
	}
	if limit, ok := queryInt(q, "limit", verr); ok {
		if limit < 1 || limit > MaxListLimit {
			verr.Add("limit", "must be between 1 and 100", limit)
		}
		req.Limit = limit
	}
	if offset, ok := queryInt(q, "offset", verr); ok {
		if offset < 0 {
			verr.Add("offset", "must not be negative", offset)
		}
		req.Offset = offset
	}

	if err := verr.Err(); err != nil {
		return ListBoxTemplatesRequest{}, err
	}
	return req, nil
}

// BoxTemplateResponse is the wire shape of a saved template.
type BoxTemplateResponse struct {
	ID            uuid.UUID          `json:"id" yaml:"id"`
	BoxName       string             `json:"box_name" yaml:"box_name"`
	Dimensions    DimensionsRequest  `json:"dimensions" yaml:"dimensions"`
	FluteType     string             `json:"flute_type" yaml:"flute_type"`
	NumPlies      int                `json:"num_plies" yaml:"num_plies"`
	PrintColor    string             `json:"print_color,omitempty" yaml:"print_color,omitempty"`
	OrderQuantity int                `json:"order_quantity" yaml:"order_quantity"`
	GSM           map[string]float64 `json:"gsm" yaml:"gsm"`
	Prices        map[string]float64 `json:"prices" yaml:"prices"`
	BF            map[string]float64 `json:"bf" yaml:"bf"`
	Notes         string             `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" yaml:"updated_at"`
	Version       int                `json:"version" yaml:"version"`
}

// NewBoxTemplateResponse converts an entity.
func NewBoxTemplateResponse(tpl *entity.BoxTemplate) BoxTemplateResponse {
	return BoxTemplateResponse{
		ID:      tpl.ID,
		BoxName: tpl.Name,
		Dimensions: DimensionsRequest{
			Length:  tpl.Dimensions.Length,
			Breadth: tpl.Dimensions.Breadth,
			Height:  tpl.Dimensions.Height,
		},
		FluteType:     string(tpl.FluteType),
		NumPlies:      int(tpl.Ply),
		PrintColor:    tpl.PrintColor,
		OrderQuantity: tpl.OrderQuantity,
		GSM:           LayerValues(tpl.GSM),
		Prices:        LayerValues(tpl.Prices),
		BF:            LayerValues(tpl.BurstFactors),
		Notes:         tpl.Notes,
		CreatedAt:     tpl.CreatedAt,
		UpdatedAt:     tpl.UpdatedAt,
		Version:       tpl.Version,
	}
}

// BindQuantity reads the optional num_boxes query parameter. Missing means 0.
func BindQuantity(q url.Values) (int, error) {
	verr := &calculator.ValidationError{}
	n, _ := queryInt(q, "num_boxes", verr)
	if n < 0 {
		verr.Add("num_boxes", "must be a positive integer", n)
	}
	if err := verr.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
