// Package sa defines the contract between the evaluation harness and a
// seasonal adjustment engine.
package sa

import (
	"context"
	"fmt"

	"github.com/sartorproj/saeval/timeseries"
)

// Policy selects how much of a reference model is re-estimated.
type Policy int

const (
	// Complete re-identifies the whole model.
	Complete Policy = iota
	// FreeParameters keeps the reference model structure and re-estimates
	// its coefficients only.
	FreeParameters
)

func (p Policy) String() string {
	switch p {
	case Complete:
		return "complete"
	case FreeParameters:
		return "free_parameters"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Spec is an engine-specific method specification. The harness only reads its name.
type Spec interface {
	Name() string
}

// Diagnostics describes the model retained by a fit.
type Diagnostics struct {
	P             int  `json:"p"`
	D             int  `json:"d"`
	Q             int  `json:"q"`
	BP            int  `json:"bp"`
	BD            int  `json:"bd"`
	BQ            int  `json:"bq"`
	NEffectiveObs int  `json:"nobs"`
	NParams       int  `json:"np"`
	Log           bool `json:"log"`
}

// Model is the outcome of a successful fit.
type Model interface {
	Spec() Spec
	// SA returns the seasonally adjusted series over the fitted span.
	SA() *timeseries.Series
	Diagnostics() Diagnostics
	// Forecast returns h values following the fitted span.
	Forecast(h int) (*timeseries.Series, error)
	// Backcast returns h values preceding the fitted span, oldest first.
	Backcast(h int) (*timeseries.Series, error)
}

// Engine fits specifications on series. Implementations must be safe for
// concurrent use.
type Engine interface {
	Fit(ctx context.Context, series *timeseries.Series, spec Spec) (Model, error)
	// DeriveSpec returns the specification used to refresh reference under policy.
	DeriveSpec(reference Model, policy Policy) (Spec, error)
}

// Method binds a display name to an engine and a specification.
type Method struct {
	Name   string
	Engine Engine
	Spec   Spec
}

// Fit fits the method on series.
func (m Method) Fit(ctx context.Context, series *timeseries.Series) (Model, error) {
	return m.Engine.Fit(ctx, series, m.Spec)
}
