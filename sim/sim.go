// Package sim drives the assembled reaction-diffusion field through the
// adaptive integrator and returns a sampled trajectory. Integrator and
// validation failures are reported as values, never as panics, so batch
// callers can keep processing remaining runs.
package sim

import (
	"fmt"
	"math"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
	"github.com/pathak7874/gbm-cart-spatial-model/model"
	"github.com/pathak7874/gbm-cart-spatial-model/ode"
	"github.com/pathak7874/gbm-cart-spatial-model/ode/rk"
	"github.com/pathak7874/gbm-cart-spatial-model/util"
)

// Span is the integration interval in days relative to infusion.
type Span struct {
	T0, T1 float64
}

// Result is the terminal artifact of one run. States holds one row per
// checkpoint, each a full 5N state vector; it is nil when Success is false.
type Result struct {
	Success bool
	Message string

	Times  []float64
	States [][]float64

	Stats         ode.Statistics
	FallbackCount uint
}

type options struct {
	rtol, atol float64
	method     rk.RKMethod
}

type Option func(*options)

// WithTolerances overrides the default integrator tolerances
// (relative 1e-5, absolute 1e-8).
func WithTolerances(rtol, atol float64) Option {
	return func(o *options) {
		o.rtol, o.atol = rtol, atol
	}
}

// WithMethod selects the Runge-Kutta method, default DoPri5.
func WithMethod(m rk.RKMethod) Option {
	return func(o *options) {
		o.method = m
	}
}

// Checkpoints returns count sample times evenly spaced over the span.
func Checkpoints(span Span, count int) []float64 {
	if count < 2 {
		return []float64{span.T1}
	}
	ts := make([]float64, count)
	step := (span.T1 - span.T0) / float64(count-1)
	for i := range ts {
		ts[i] = span.T0 + float64(i)*step
	}
	ts[count-1] = span.T1
	return ts
}

func failure(format string, args ...interface{}) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Simulate integrates the model from y0 across span, sampling the state at
// the given checkpoints. All inputs are run-local values: the grid and
// parameters are not retained, y0 is copied, and the RNG is seeded from
// p.Seed at the start of the call.
func Simulate(p model.Parameters, g *grid.Grid, y0 []float64, span Span, checkpoints []float64, opts ...Option) Result {
	o := options{rtol: 1e-5, atol: 1e-8, method: rk.DoPri5}
	for _, opt := range opts {
		opt(&o)
	}

	// fail fast on structurally invalid configurations
	if g == nil {
		return failure("no grid supplied")
	}
	if g.Nx < 3 {
		return failure("invalid grid: %s (Nx=%d)", grid.ErrBadResolution.Error(), g.Nx)
	}
	if err := p.Validate(); err != nil {
		return failure("invalid parameters: %s", err.Error())
	}
	if len(y0) != model.NumSpecies*g.N {
		return failure("initial state has length %d, want %d", len(y0), model.NumSpecies*g.N)
	}
	if span.T0 >= span.T1 {
		return failure("empty time span [%g, %g]", span.T0, span.T1)
	}
	if len(checkpoints) == 0 {
		return failure("no checkpoints requested")
	}
	for i, ck := range checkpoints {
		if ck < span.T0 || ck > span.T1 {
			return failure("checkpoint %g outside span [%g, %g]", ck, span.T0, span.T1)
		}
		if i > 0 && ck <= checkpoints[i-1] {
			return failure("checkpoints must be strictly increasing")
		}
	}

	sys, err := model.NewSystem(p, g)
	if err != nil {
		return failure("invalid parameters: %s", err.Error())
	}
	integ, err := rk.NewRK(o.method)
	if err != nil {
		return failure("integrator setup: %s", err.Error())
	}

	y := make([]float64, len(y0))
	copy(y, y0)

	cfg := ode.Config{
		RelativeTolerance: o.rtol,
		AbsoluteTolerance: o.atol,
		MaxStepSize:       span.T1 - span.T0,
		Fcn:               sys.Fcn,
	}

	res := Result{
		Times:  append([]float64(nil), checkpoints...),
		States: util.MakeRectangular(uint(len(checkpoints)), uint(len(y0))),
	}

	t := span.T0
	for i, ck := range checkpoints {
		if ck > t {
			stat, err := integ.Integrate(t, ck, y, &cfg)
			res.Stats.Add(stat)
			if err != nil {
				return Result{
					Success:       false,
					Message:       fmt.Sprintf("integration failed at t=%.4g: %s", stat.CurrentTime, err.Error()),
					Stats:         res.Stats,
					FallbackCount: sys.FallbackCount(),
				}
			}
			// carry the step size into the next segment
			cfg.InitialStepSize = stat.NextStepSize
			t = stat.CurrentTime
		}
		if !finite(y) {
			return Result{
				Success:       false,
				Message:       fmt.Sprintf("non-finite state at t=%.4g", t),
				Stats:         res.Stats,
				FallbackCount: sys.FallbackCount(),
			}
		}
		copy(res.States[i], y)
		clampState(res.States[i], g.N)
	}

	res.Success = true
	res.FallbackCount = sys.FallbackCount()
	return res
}

func finite(y []float64) bool {
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// clampState enforces the physical bounds on a sampled state row: cell
// densities non-negative, pH inside its physiological range. Transient
// integrator excursions outside the bounds are never surfaced to callers.
func clampState(y []float64, n int) {
	for i := 0; i < (model.NumSpecies-1)*n; i++ {
		if y[i] < 0 {
			y[i] = 0
		}
	}
	ph := model.Field(y, n, model.SpeciesPH)
	for i := range ph {
		ph[i] = util.Clip(ph[i], model.PHMin, model.PHMax)
	}
}

// TumorMass integrates the tumor field of a 5N state over the domain.
func TumorMass(g *grid.Grid, state []float64) float64 {
	return g.Mass(model.Field(state, g.N, model.SpeciesT))
}

// Reduction is the percent tumor mass reduction between two states.
func Reduction(g *grid.Grid, initial, final []float64) float64 {
	m0 := TumorMass(g, initial)
	if m0 == 0 {
		return 0
	}
	return (1.0 - TumorMass(g, final)/m0) * 100.0
}
