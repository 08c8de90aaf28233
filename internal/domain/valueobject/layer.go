// Package valueobject contains value objects that represent concepts without identity.
// Value objects are immutable and compared by their attributes rather than identity.
// They encapsulate validation logic and ensure data integrity.
//
// Value Objects follow these principles:
//   - Immutability: Once created, they cannot be changed.
//   - Equality: Two value objects are equal if all their attributes are equal.
//   - Self-validation: They validate their own data upon creation.
//   - Side-effect free: Methods return new instances rather than modifying state
package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// Layer errors define domain-specific error conditions for paper layers.
var (
	ErrUnknownLayer = errors.New("unknown paper layer")
	ErrInvalidPly   = errors.New("number of plies must be 3, 5 or 7")
)

// Layer identifies one paper layer of a corrugated board.
type Layer int

// Paper layers in board order, outside to inside.
const (
	LayerTop Layer = iota + 1
	LayerBottom
	LayerFlute
	LayerFlute1
	LayerMiddle
	LayerFlute2
)

// AllLayers lists every layer in display order.
var AllLayers = []Layer{LayerTop, LayerBottom, LayerFlute, LayerFlute1, LayerMiddle, LayerFlute2}

type layerInfo struct {
	key   string
	label string
	flute bool
}

var layers = map[Layer]layerInfo{
	LayerTop:    {key: "top_paper", label: "Top Paper"},
	LayerBottom: {key: "bottom_paper", label: "Bottom Paper"},
	LayerFlute:  {key: "flute_paper", label: "Flute Paper", flute: true},
	LayerFlute1: {key: "flute_paper1", label: "Flute Paper 1", flute: true},
	LayerMiddle: {key: "middle_paper", label: "Middle Paper"},
	LayerFlute2: {key: "flute_paper2", label: "Flute Paper 2", flute: true},
}

// ParseLayer resolves a layer from its key ("flute_paper1"), its short
// name ("flute1") or its GSM field name ("flute_paper1_gsm").
//
// Parameters:
//   - s: the layer name
//
// Returns:
//   - Layer: the matching layer
//   - error: ErrUnknownLayer if nothing matches
func ParseLayer(s string) (Layer, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "_gsm")
	name = strings.TrimSuffix(name, "_price")
	for _, l := range AllLayers {
		info := layers[l]
		if name == info.key || name == l.shortName() {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// shortName returns the key without the "_paper" infix, e.g. "flute1".
func (l Layer) shortName() string {
	return strings.Replace(layers[l].key, "_paper", "", 1)
}

// IsValid reports whether l is one of the known layers.
func (l Layer) IsValid() bool {
	_, ok := layers[l]
	return ok
}

// IsFlute reports whether the layer is corrugated and takes the take-up factor.
func (l Layer) IsFlute() bool {
	return layers[l].flute
}

// Key returns the layer key used in result maps, e.g. "top_paper".
func (l Layer) Key() string {
	if info, ok := layers[l]; ok {
		return info.key
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// GSMField returns the request field carrying the layer grammage.
func (l Layer) GSMField() string { return l.Key() + "_gsm" }

// PriceField returns the request field carrying the layer unit price.
func (l Layer) PriceField() string { return l.Key() + "_price" }

// WeightField returns the field name of the computed layer weight.
func (l Layer) WeightField() string { return l.Key() + "_weight" }

// Label returns the human-readable layer name, e.g. "Flute Paper 1".
func (l Layer) Label() string {
	if info, ok := layers[l]; ok {
		return info.label
	}
	return l.Key()
}

// String implements fmt.Stringer.
func (l Layer) String() string { return l.Key() }

// MarshalText encodes the layer as its key so it can be used as a JSON map key.
func (l Layer) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLayer, int(l))
	}
	return []byte(l.Key()), nil
}

// UnmarshalText decodes a layer from any name accepted by ParseLayer.
func (l *Layer) UnmarshalText(text []byte) error {
	parsed, err := ParseLayer(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Ply is the number of paper layers laminated into the board.
type Ply int

// Supported ply counts.
const (
	Ply3 Ply = 3
	Ply5 Ply = 5
	Ply7 Ply = 7
)

var plyLayers = map[Ply][]Layer{
	Ply3: {LayerTop, LayerBottom},
	Ply5: {LayerTop, LayerBottom, LayerFlute},
	Ply7: {LayerTop, LayerBottom, LayerFlute1, LayerMiddle, LayerFlute2},
}

// NewPly validates a ply count.
//
// Parameters:
//   - n: number of plies
//
// Returns:
//   - Ply: the validated ply count
//   - error: ErrInvalidPly if n is not 3, 5 or 7
func NewPly(n int) (Ply, error) {
	p := Ply(n)
	if !p.IsValid() {
		return 0, ErrInvalidPly
	}
	return p, nil
}

// IsValid reports whether p is a supported ply count.
func (p Ply) IsValid() bool {
	_, ok := plyLayers[p]
	return ok
}

// Layers returns the layers active for the ply count, in display order.
// The returned slice is a copy.
func (p Ply) Layers() []Layer {
	active := plyLayers[p]
	out := make([]Layer, len(active))
	copy(out, active)
	return out
}

// RelevantLayers returns the active layers, or every layer when p is not a
// valid ply count.
func (p Ply) RelevantLayers() []Layer {
	if !p.IsValid() {
		return append([]Layer(nil), AllLayers...)
	}
	return p.Layers()
}

// Has reports whether the layer is active for the ply count.
func (p Ply) Has(l Layer) bool {
	for _, active := range plyLayers[p] {
		if active == l {
			return true
		}
	}
	return false
}

// String returns e.g. "5 Ply".
func (p Ply) String() string {
	return fmt.Sprintf("%d Ply", int(p))
}
