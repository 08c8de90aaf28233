package calculator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldError describes one rejected input field.
type FieldError struct {
	// Field is the request field name, e.g. "length" or "top_paper_gsm".
	Field string `json:"field"`

	// Message explains why the field was rejected.
	Message string `json:"message"`

	// Value is the rejected value, when it is safe to echo.
	Value any `json:"value,omitempty"`
}

// ValidationError is returned when a BoxInput cannot be calculated.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid box input: " + strings.Join(parts, "; ")
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a rejected field.
// Non-finite floats are dropped from Value so the error stays JSON-encodable.
func (e *ValidationError) Add(field, message string, value any) {
	if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		value = nil
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message, Value: value})
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// FieldNames lists the rejected fields in the order they were recorded.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

// BoxInput is one calculation request.
type BoxInput struct {
	// Dimensions are the raw box dimensions in centimeters.
	Dimensions valueobject.BoxDimensions `json:"dimensions"`

	// FluteType is informational. Empty means valueobject.DefaultFluteType.
	FluteType valueobject.FluteType `json:"flute_type"`

	// Ply selects the active paper layers.
	Ply valueobject.Ply `json:"num_plies"`

	// GSM holds the grammage per layer. A missing layer falls back to
	// Config.LayerDefaults, then 0. Zero means the layer is absent.
	GSM map[valueobject.Layer]float64 `json:"gsm"`

	// Prices holds the unit price per kg per layer. Missing or zero
	// prices use Config.DefaultUnitPrice.
	Prices map[valueobject.Layer]float64 `json:"prices,omitempty"`

	// Quantity is the number of boxes ordered. Zero means 1.
	Quantity int `json:"num_boxes"`
}

// Validate checks the input without applying defaults. Values of layers
// outside the active ply set are not checked, as they are never used.
//
// Returns:
//   - error: *ValidationError naming every offending field, or nil
func (in BoxInput) Validate() error {
	verr := &ValidationError{}

	for _, field := range in.Dimensions.InvalidFields() {
		verr.Add(field, "must be a positive number", dimensionValue(in.Dimensions, field))
	}
	if _, err := valueobject.ParseFluteType(string(in.FluteType)); err != nil {
		verr.Add("flute_type", valueobject.ErrInvalidFluteType.Error(), string(in.FluteType))
	}
	if !in.Ply.IsValid() {
		verr.Add("num_plies", valueobject.ErrInvalidPly.Error(), int(in.Ply))
	}
	for _, layer := range in.Ply.RelevantLayers() {
		if gsm, ok := in.GSM[layer]; ok && !nonNegative(gsm) {
			verr.Add(layer.GSMField(), "must not be negative", gsm)
		}
		if price, ok := in.Prices[layer]; ok && !nonNegative(price) {
			verr.Add(layer.PriceField(), "must not be negative", price)
		}
	}
	if in.Quantity < 0 {
		verr.Add("num_boxes", "must be a positive integer", in.Quantity)
	}

	return verr.Err()
}

// resolve applies defaults to a validated input. Only active layers are
// kept in GSM and Prices.
func (in BoxInput) resolve(cfg Config) BoxInput {
	flute, _ := valueobject.ParseFluteType(string(in.FluteType))
	out := BoxInput{
		Dimensions: in.Dimensions,
		FluteType:  flute,
		Ply:        in.Ply,
		GSM:        make(map[valueobject.Layer]float64),
		Prices:     make(map[valueobject.Layer]float64),
		Quantity:   in.Quantity,
	}
	if out.Quantity == 0 {
		out.Quantity = 1
	}
	for _, layer := range in.Ply.Layers() {
		gsm, ok := in.GSM[layer]
		if !ok {
			gsm = cfg.LayerDefaults[layer]
		}
		out.GSM[layer] = gsm

		price := in.Prices[layer]
		if price == 0 {
			price = cfg.DefaultUnitPrice
		}
		out.Prices[layer] = price
	}
	return out
}

func dimensionValue(d valueobject.BoxDimensions, field string) float64 {
	switch field {
	case "length":
		return d.Length
	case "breadth":
		return d.Breadth
	default:
		return d.Height
	}
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// String returns a short description for logs, e.g. "40x30x20 cm, 3 Ply, flute B".
func (in BoxInput) String() string {
	return fmt.Sprintf("%gx%gx%g cm, %s, flute %s",
		in.Dimensions.Length, in.Dimensions.Breadth, in.Dimensions.Height, in.Ply, in.FluteType)
}
