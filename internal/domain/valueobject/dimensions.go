package valueobject

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidFluteType is returned for flute profiles outside FluteTypes.
var ErrInvalidFluteType = errors.New("flute type must be one of A, B, C")

// BoxDimensions represents the raw outer dimensions of a box.
// All measurements are in centimeters.
type BoxDimensions struct {
	// Length in centimeters.
	Length float64 `json:"length"`

	// Breadth in centimeters.
	Breadth float64 `json:"breadth"`

	// Height in centimeters.
	Height float64 `json:"height"`
}

// NewBoxDimensions creates a new BoxDimensions value object.
// It does not validate; call InvalidFields at the boundary.
//
// Parameters:
//   - length: Length in centimeters
//   - breadth: Breadth in centimeters
//   - height: Height in centimeters
//
// Returns:
//   - BoxDimensions: new BoxDimensions value object
func NewBoxDimensions(length, breadth, height float64) BoxDimensions {
	return BoxDimensions{
		Length:  length,
		Breadth: breadth,
		Height:  height,
	}
}

// InvalidFields lists the dimension fields that are not finite positive numbers.
//
// Returns:
//   - []string: offending field names ("length", "breadth", "height"), empty when valid
func (d BoxDimensions) InvalidFields() []string {
	var fields []string
	if !positive(d.Length) {
		fields = append(fields, "length")
	}
	if !positive(d.Breadth) {
		fields = append(fields, "breadth")
	}
	if !positive(d.Height) {
		fields = append(fields, "height")
	}
	return fields
}

// IsValid reports whether every dimension is a finite positive number.
func (d BoxDimensions) IsValid() bool {
	return len(d.InvalidFields()) == 0
}

// String returns a formatted string representation.
//
// Returns:
//   - string: formatted dimensions (e.g., "40.0x30.0x20.0 cm")
func (d BoxDimensions) String() string {
	return fmt.Sprintf("%.1fx%.1fx%.1f cm", d.Length, d.Breadth, d.Height)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// FluteType is the corrugation profile of the board. It is informational
// and does not enter the arithmetic.
type FluteType string

// Supported flute profiles.
const (
	FluteA FluteType = "A"
	FluteB FluteType = "B"
	FluteC FluteType = "C"
)

// DefaultFluteType is used when no flute type is supplied.
const DefaultFluteType = FluteB

// FluteTypes lists the accepted flute profiles.
var FluteTypes = []FluteType{FluteA, FluteB, FluteC}

// ParseFluteType normalises and validates a flute profile.
// An empty string yields DefaultFluteType.
//
// Parameters:
//   - s: flute type, case-insensitive
//
// Returns:
//   - FluteType: the normalised flute type
//   - error: ErrInvalidFluteType if s is not a supported profile
func ParseFluteType(s string) (FluteType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultFluteType, nil
	}
	for _, f := range FluteTypes {
		if FluteType(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFluteType, s)
}
