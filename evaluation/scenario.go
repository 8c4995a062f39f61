package evaluation

import (
	"fmt"
	"regexp"
	"strconv"
)

// Kind is the type of rolling series a scenario builds.
type Kind int

const (
	// Revision scenarios compare revised adjustments with the benchmark.
	Revision Kind = iota
	// Forecast scenarios compare forecasts with the observed series.
	Forecast
)

func (k Kind) String() string {
	if k == Forecast {
		return "forecast"
	}
	return "revision"
}

// Scenario is one evaluation target.
type Scenario struct {
	Label   string
	Kind    Kind
	Horizon int
}

// RevisionScenario returns the SA(h) scenario; h must be zero or negative.
func RevisionScenario(h int) Scenario {
	return Scenario{Label: fmt.Sprintf("SA(%d)", h), Kind: Revision, Horizon: h}
}

// ForecastScenario returns the Fcts(h) scenario; h must not be zero.
func ForecastScenario(h int) Scenario {
	return Scenario{Label: fmt.Sprintf("Fcts(%d)", h), Kind: Forecast, Horizon: h}
}

// DefaultScenarios returns SA(0), SA(-12), Fcts(1) and Fcts(12).
func DefaultScenarios() []Scenario {
	return []Scenario{
		RevisionScenario(0),
		RevisionScenario(-12),
		ForecastScenario(1),
		ForecastScenario(12),
	}
}

var scenarioPattern = regexp.MustCompile(`^(SA|Fcts)\((-?\d+)\)$`)

// ParseScenario parses a label such as SA(-12) or Fcts(1).
func ParseScenario(label string) (Scenario, error) {
	m := scenarioPattern.FindStringSubmatch(label)
	if m == nil {
		return Scenario{}, fmt.Errorf("evaluation: invalid scenario %q", label)
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return Scenario{}, fmt.Errorf("evaluation: invalid scenario %q: %w", label, err)
	}
	if m[1] == "SA" {
		if h > 0 {
			return Scenario{}, fmt.Errorf("evaluation: revision horizon must not be positive in %q", label)
		}
		return RevisionScenario(h), nil
	}
	if h == 0 {
		return Scenario{}, fmt.Errorf("evaluation: forecast horizon must not be zero in %q", label)
	}
	return ForecastScenario(h), nil
}
