package model

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
	"github.com/pathak7874/gbm-cart-spatial-model/spectral"
	"github.com/pathak7874/gbm-cart-spatial-model/util"
)

// System assembles the right hand side of the coupled PDE system for one
// simulation run. It owns the run-local RNG and scratch buffers; build a
// fresh System per run and never share one across goroutines.
type System struct {
	p  Parameters
	g  *grid.Grid
	op *spectral.Operator

	// spatially varying effector diffusivity, reduced near the core
	dc []float64

	norm      distuv.Normal
	fallbacks uint

	y          []float64
	lapT, lapC []float64
	lap        []float64
}

func NewSystem(p Parameters, g *grid.Grid) (*System, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	op, err := spectral.New(g, p.Alpha)
	if err != nil {
		return nil, err
	}

	s := &System{
		p:  p,
		g:  g,
		op: op,
		norm: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewPCG(p.Seed, p.Seed*0x9e3779b97f4a7c15+1),
		},
		dc:   make([]float64, g.N),
		y:    make([]float64, NumSpecies*g.N),
		lapT: make([]float64, g.N),
		lapC: make([]float64, g.N),
		lap:  make([]float64, g.N),
	}
	for i, r := range g.R {
		s.dc[i] = p.DCBase * (1.0 - 0.5*math.Exp(-r*r/4.0))
	}
	return s, nil
}

func (s *System) Params() Parameters { return s.p }
func (s *System) Grid() *grid.Grid   { return s.g }

// FallbackCount reports how many evaluations had to substitute the
// finite difference Laplacian for an unstable spectral result.
func (s *System) FallbackCount() uint { return s.fallbacks }

// killRate is the time-switched cytotoxicity constant: nominal during the
// potency window [0, 30] days, halved outside it.
func (s *System) killRate(t float64) float64 {
	if 0 <= t && t <= 30 {
		return s.p.KCT
	}
	return 0.5 * s.p.KCT
}

// doseActive reports whether the localized infusion pulse contributes.
func doseActive(t float64) bool {
	return -0.5 <= t && t <= 0.5
}

func (s *System) noise(scale float64) float64 {
	if s.p.NoiseSigma == 0 {
		return 1.0
	}
	return 1.0 + s.p.NoiseSigma*scale*s.norm.Rand()
}

// Fcn evaluates the derivative vector at time t. It satisfies ode.Function.
// The input state is never written; species are clamped to physical bounds
// into scratch before any term is computed.
func (s *System) Fcn(t float64, yT, dy []float64) {
	n := s.g.N

	for i := 0; i < 4*n; i++ {
		s.y[i] = math.Max(yT[i], 0)
	}
	for i := 4 * n; i < 5*n; i++ {
		v := yT[i]
		if v < PHMin {
			v = PHMin
		} else if v > PHMax {
			v = PHMax
		}
		s.y[i] = v
	}

	T := Field(s.y, n, SpeciesT)
	C := Field(s.y, n, SpeciesC)
	E := Field(s.y, n, SpeciesE)
	M := Field(s.y, n, SpeciesM)
	PH := Field(s.y, n, SpeciesPH)

	dT := Field(dy, n, SpeciesT)
	dC := Field(dy, n, SpeciesC)
	dE := Field(dy, n, SpeciesE)
	dM := Field(dy, n, SpeciesM)
	dPH := Field(dy, n, SpeciesPH)

	// tumor and effector diffusion, fractional unless alpha = 2;
	// an unstable spectral result falls back to finite differences
	// for this evaluation only
	errT := s.op.Apply(T, s.lapT)
	errC := s.op.Apply(C, s.lapC)
	if errT != nil || errC != nil {
		s.fallbacks++
		s.g.LapFD(T, s.lapT)
		s.g.LapFD(C, s.lapC)
	}
	for i := 0; i < n; i++ {
		dT[i] = s.p.DT * s.lapT[i]
		dC[i] = s.dc[i] * s.lapC[i]
	}

	// barrier, suppressor and acidity diffuse classically
	s.g.LapFD(E, s.lap)
	for i := 0; i < n; i++ {
		dE[i] = s.p.DE * s.lap[i]
	}
	s.g.LapFD(M, s.lap)
	for i := 0; i < n; i++ {
		dM[i] = s.p.DM * s.lap[i]
	}
	s.g.LapFD(PH, s.lap)
	for i := 0; i < n; i++ {
		dPH[i] = s.p.DPH * s.lap[i]
	}

	ecmInt := s.p.Ecm.Value(t)
	mdscInt := s.p.Mdsc.Value(t)
	phInt := s.p.Ph.Value(t)
	kill := s.killRate(t)
	dosing := doseActive(t)

	for i := 0; i < n; i++ {
		ti, ci, ei, mi, phi := T[i], C[i], E[i], M[i], PH[i]

		pen := s.p.EcmStrength*ei +
			s.p.PhStrength*(PHMax-phi)/0.9 +
			s.p.MdscStrength*mi/10.0 +
			s.p.ExhPenalty*ci
		eff := util.Clip(1.0-pen, 0.05, 1.0)

		dT[i] += (s.p.RT*ti*(1.0-ti) -
			kill*ci*ti*(1.0-s.p.Gamma*ti)*eff -
			s.p.HT*ti) * s.noise(1.0)

		reacC := (s.p.RC*ci*ti/(ti+0.5) - s.p.HC*ci) * s.noise(1.0)
		if dosing {
			r := s.g.R[i]
			reacC += s.p.Dose * math.Exp(-r*r/0.25)
		}
		dC[i] += reacC

		dE[i] += (s.p.EcmSynthesis - ecmInt*ei*(1.0+0.1*ti)) * s.noise(0.5)
		dM[i] += (s.p.MdscRecruit*ti - s.p.MdscDecay*mi - mdscInt*mi) * s.noise(0.5)
		dPH[i] += (-s.p.AcidRate*ti + phInt*(PHMax-phi)) * s.noise(0.3)

		// an integrator step must not drive any species below zero
		dT[i] = math.Max(dT[i], -ti)
		dC[i] = math.Max(dC[i], -ci)
		dE[i] = math.Max(dE[i], -ei)
		dM[i] = math.Max(dM[i], -mi)
		dPH[i] = math.Max(dPH[i], -phi)
	}
}
