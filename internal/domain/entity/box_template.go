// Package entity contains the core business entities of the domain layer.
package entity

import (
	"errors"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// BoxTemplate errors define domain-specific error conditions for templates.
var (
	ErrInvalidBoxName    = errors.New("box name cannot be empty")
	ErrInvalidDimensions = errors.New("box dimensions must be positive")
	ErrInvalidQuantity   = errors.New("order quantity must be at least 1")
	ErrNegativeGSM       = errors.New("paper GSM cannot be negative")
	ErrNegativePrice     = errors.New("paper price cannot be negative")
	ErrNegativeBF        = errors.New("paper burst factor cannot be negative")
)

// IsValidationError reports whether err rejects template field values.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true for the template and value object validation errors
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidBoxName, ErrInvalidDimensions, ErrInvalidQuantity, ErrNegativeGSM, ErrNegativePrice, ErrNegativeBF,
		valueobject.ErrInvalidPly, valueobject.ErrInvalidFluteType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MaxBoxNameLength is the longest accepted box name.
const MaxBoxNameLength = 100

// BoxTemplate is a saved box definition that can be recalculated on demand.
type BoxTemplate struct {
	// ID is the unique identifier for the template
	ID uuid.UUID `json:"id"`

	// Name is unique across templates
	Name string `json:"box_name"`

	// Dimensions are the raw box dimensions in centimeters
	Dimensions valueobject.BoxDimensions `json:"dimensions"`

	// FluteType is the corrugation profile
	FluteType valueobject.FluteType `json:"flute_type"`

	// Ply is the number of paper layers
	Ply valueobject.Ply `json:"num_plies"`

	// PrintColor describes the print on the box
	PrintColor string `json:"print_color,omitempty"`

	// OrderQuantity is the usual number of boxes per order
	OrderQuantity int `json:"order_quantity"`

	// GSM holds the grammage per layer
	GSM map[valueobject.Layer]float64 `json:"gsm"`

	// Prices holds optional unit prices per layer
	Prices map[valueobject.Layer]float64 `json:"prices,omitempty"`

	// BurstFactors holds the paper burst factor (BF) per layer. It is a
	// purchasing attribute and does not enter the calculation.
	BurstFactors map[valueobject.Layer]float64 `json:"bf,omitempty"`

	// Notes is free text
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the timestamp when the template was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the template was last updated
	UpdatedAt time.Time `json:"updated_at"`

	// Version is used for optimistic locking
	Version int `json:"version"`
}

// NewBoxTemplate creates a new BoxTemplate with an order quantity of 1.
//
// Parameters:
//   - name: unique box name (required)
//   - dims: raw dimensions (must be positive)
//   - flute: flute type (empty means the default flute)
//   - ply: ply count (3, 5 or 7)
//   - gsm: grammage per layer (must be non-negative); layers outside ply are dropped
//
// Returns:
//   - *BoxTemplate: newly created template
//   - error: validation error if input is invalid
func NewBoxTemplate(
	name string,
	dims valueobject.BoxDimensions,
	flute valueobject.FluteType,
	ply valueobject.Ply,
	gsm map[valueobject.Layer]float64,
) (*BoxTemplate, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if !dims.IsValid() {
		return nil, ErrInvalidDimensions
	}
	flute, err = valueobject.ParseFluteType(string(flute))
	if err != nil {
		return nil, err
	}
	if !ply.IsValid() {
		return nil, valueobject.ErrInvalidPly
	}
	gsm = activeOnly(gsm, ply)
	if err := checkNonNegative(gsm, ErrNegativeGSM); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &BoxTemplate{
		ID:            uuid.New(),
		Name:          name,
		Dimensions:    dims,
		FluteType:     flute,
		Ply:           ply,
		OrderQuantity: 1,
		GSM:           gsm,
		Prices:        make(map[valueobject.Layer]float64),
		BurstFactors:  make(map[valueobject.Layer]float64),
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}, nil
}

// Rename changes the template name.
func (b *BoxTemplate) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	b.Name = name
	b.touch()
	return nil
}

// SetDimensions updates the box dimensions.
//
// Parameters:
//   - dims: new raw dimensions (must be positive)
func (b *BoxTemplate) SetDimensions(dims valueobject.BoxDimensions) error {
	if !dims.IsValid() {
		return ErrInvalidDimensions
	}
	b.Dimensions = dims
	b.touch()
	return nil
}

// SetPaper changes the flute type, ply and grammage together, since the
// ply decides which layers the grammage applies to.
func (b *BoxTemplate) SetPaper(flute valueobject.FluteType, ply valueobject.Ply, gsm map[valueobject.Layer]float64) error {
	flute, err := valueobject.ParseFluteType(string(flute))
	if err != nil {
		return err
	}
	if !ply.IsValid() {
		return valueobject.ErrInvalidPly
	}
	gsm = activeOnly(gsm, ply)
	if err := checkNonNegative(gsm, ErrNegativeGSM); err != nil {
		return err
	}
	b.FluteType = flute
	b.Ply = ply
	b.GSM = gsm
	b.Prices = activeOnly(b.Prices, ply)
	b.BurstFactors = activeOnly(b.BurstFactors, ply)
	b.touch()
	return nil
}

// SetPrices replaces the per-layer unit prices. Zero removes a price.
func (b *BoxTemplate) SetPrices(prices map[valueobject.Layer]float64) error {
	out := activeOnly(prices, b.Ply)
	if err := checkNonNegative(out, ErrNegativePrice); err != nil {
		return err
	}
	maps.DeleteFunc(out, func(_ valueobject.Layer, v float64) bool { return v == 0 })
	b.Prices = out
	b.touch()
	return nil
}

// SetBurstFactors replaces the per-layer burst factors. Zero removes a value.
func (b *BoxTemplate) SetBurstFactors(bf map[valueobject.Layer]float64) error {
	out := activeOnly(bf, b.Ply)
	if err := checkNonNegative(out, ErrNegativeBF); err != nil {
		return err
	}
	maps.DeleteFunc(out, func(_ valueobject.Layer, v float64) bool { return v == 0 })
	b.BurstFactors = out
	b.touch()
	return nil
}

// SetOrderQuantity updates the usual order size.
func (b *BoxTemplate) SetOrderQuantity(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	b.OrderQuantity = quantity
	b.touch()
	return nil
}

// SetPrintColor updates the print colour.
func (b *BoxTemplate) SetPrintColor(color string) {
	b.PrintColor = strings.TrimSpace(color)
	b.touch()
}

// SetNotes updates the free-text notes.
func (b *BoxTemplate) SetNotes(notes string) {
	b.Notes = strings.TrimSpace(notes)
	b.touch()
}

// ToInput builds a calculation input from the template.
//
// Parameters:
//   - quantity: number of boxes; 0 uses the template order quantity
//
// Returns:
//   - calculator.BoxInput: input ready for Calculator.Compute
func (b *BoxTemplate) ToInput(quantity int) calculator.BoxInput {
	if quantity == 0 {
		quantity = b.OrderQuantity
	}
	return calculator.BoxInput{
		Dimensions: b.Dimensions,
		FluteType:  b.FluteType,
		Ply:        b.Ply,
		GSM:        maps.Clone(b.GSM),
		Prices:     maps.Clone(b.Prices),
		Quantity:   quantity,
	}
}

func (b *BoxTemplate) touch() {
	b.UpdatedAt = time.Now().UTC()
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxBoxNameLength {
		return "", ErrInvalidBoxName
	}
	return name, nil
}

func checkNonNegative(values map[valueobject.Layer]float64, err error) error {
	for _, v := range values {
		if !(v >= 0) {
			return err
		}
	}
	return nil
}

func activeOnly(values map[valueobject.Layer]float64, ply valueobject.Ply) map[valueobject.Layer]float64 {
	out := make(map[valueobject.Layer]float64)
	for layer, v := range values {
		if ply.Has(layer) {
			out[layer] = v
		}
	}
	return out
}
