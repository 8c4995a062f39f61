package arimasa

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sartorproj/saeval/sarima"
)

// Decomposition selects how the seasonal component is extracted.
type Decomposition string

const (
	Classical Decomposition = "classical"
	STL       Decomposition = "stl"
)

// ModelKind selects how the ARIMA order is chosen.
type ModelKind string

const (
	// Auto identifies the order with a stepwise AutoARIMA search.
	Auto ModelKind = "auto"
	// AirlineModel always uses (0,1,1)(0,1,1).
	AirlineModel ModelKind = "airline"
)

// Transform selects the log transformation.
type Transform string

const (
	TransformAuto Transform = "auto"
	TransformLog  Transform = "log"
	TransformNone Transform = "none"
)

// Spec configures one adjustment method.
type Spec struct {
	Label         string
	Decomposition Decomposition
	Model         ModelKind
	Transform     Transform
	// ExtensionYears is the number of years of forecasts and backcasts
	// appended before decomposition.
	ExtensionYears int
	// Criterion is the AutoARIMA information criterion: aic, aicc or bic.
	Criterion string

	fixed bool
	order sarima.Order
}

// Name implements sa.Spec.
func (s Spec) Name() string { return s.Label }

// FixedOrder returns the order pinned by a FreeParameters refresh.
func (s Spec) FixedOrder() (sarima.Order, bool) {
	return s.order, s.fixed
}

// Validate checks the enumerated fields.
func (s Spec) Validate() error {
	switch s.Decomposition {
	case Classical, STL:
	default:
		return fmt.Errorf("arimasa: unknown decomposition %q", s.Decomposition)
	}
	switch s.Model {
	case Auto, AirlineModel:
	default:
		return fmt.Errorf("arimasa: unknown model %q", s.Model)
	}
	switch s.Transform {
	case TransformAuto, TransformLog, TransformNone:
	default:
		return fmt.Errorf("arimasa: unknown transform %q", s.Transform)
	}
	if s.ExtensionYears < 0 {
		return fmt.Errorf("arimasa: negative extension %d", s.ExtensionYears)
	}
	return nil
}

// TramoSeats approximates an automatic TRAMO-SEATS run.
func TramoSeats() Spec {
	return Spec{
		Label:          "tramoseats",
		Decomposition:  Classical,
		Model:          Auto,
		Transform:      TransformAuto,
		ExtensionYears: 1,
		Criterion:      "bic",
	}
}

// X13 approximates an automatic X-13 run.
func X13() Spec {
	return Spec{
		Label:          "x13",
		Decomposition:  STL,
		Model:          Auto,
		Transform:      TransformAuto,
		ExtensionYears: 1,
		Criterion:      "aicc",
	}
}

// Airline is TramoSeats with the airline model.
func Airline() Spec {
	s := TramoSeats()
	s.Label = "airline"
	s.Model = AirlineModel
	return s
}

var presets = map[string]func() Spec{
	"tramoseats": TramoSeats,
	"x13":        X13,
	"airline":    Airline,
}

// Preset returns the named preset.
func Preset(name string) (Spec, error) {
	fn, ok := presets[strings.ToLower(name)]
	if !ok {
		return Spec{}, fmt.Errorf("arimasa: unknown preset %q (want one of %s)", name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
