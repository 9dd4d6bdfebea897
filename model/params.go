// Package model holds the five-species GBM CAR-T reaction model:
// parameter set, intervention windows, initial profiles and the right
// hand side assembler that couples local kinetics with spatial diffusion.
package model

import "fmt"

// Species layout inside a state vector of length 5N:
// tumor, effector (CAR-T), ECM barrier, MDSC suppressor, pH.
const (
	SpeciesT = iota
	SpeciesC
	SpeciesE
	SpeciesM
	SpeciesPH
	NumSpecies
)

// physical pH bounds enforced before every kinetics evaluation
const (
	PHMin = 6.0
	PHMax = 7.4
)

// Window is a binary intervention interval: active while Start <= t <= End.
type Window struct {
	Start, End float64
	Rate       float64
}

func (w Window) Active(t float64) bool {
	return w.Start <= t && t <= w.End
}

// Value returns the window rate while active, zero otherwise.
func (w Window) Value(t float64) float64 {
	if w.Active(t) {
		return w.Rate
	}
	return 0
}

// Parameters is the per-run value object. Construct once, never mutate
// mid-run; independent runs get independent copies.
type Parameters struct {
	// diffusion coefficients, cm^2/day
	DT     float64
	DCBase float64
	DE     float64
	DM     float64
	DPH    float64

	// kinetic constants
	RT    float64 // tumor proliferation, 1/day
	RC    float64 // effector expansion
	KCT   float64 // nominal killing rate, halved outside the potency window
	Gamma float64 // tumor escape
	HT    float64 // basal tumor death
	HC    float64 // effector decay

	// fractional diffusion order, (0, 2]
	Alpha float64

	// efficacy penalties
	EcmStrength  float64
	PhStrength   float64
	MdscStrength float64
	ExhPenalty   float64

	// background kinetics
	EcmSynthesis float64
	MdscRecruit  float64
	MdscDecay    float64
	AcidRate     float64

	// intervention windows, days relative to infusion
	Ecm  Window
	Mdsc Window
	Ph   Window

	// CAR-T infusion pulse amplitude
	Dose float64

	NoiseSigma float64
	Seed       uint64
}

// DefaultParameters returns the GBM-tuned literature values
// (BraTS / Swanson model range).
func DefaultParameters() Parameters {
	return Parameters{
		DT:     0.001,
		DCBase: 0.0001,
		DE:     0.00005,
		DM:     0.0001,
		DPH:    0.0002,

		RT:    0.012,
		RC:    0.27,
		KCT:   1.5,
		Gamma: 0.01,
		HT:    0.01,
		HC:    0.05,

		Alpha: 1.8,

		EcmStrength:  0.20,
		PhStrength:   0.15,
		MdscStrength: 0.15,
		ExhPenalty:   0.10,

		EcmSynthesis: 0.001,
		MdscRecruit:  1.0,
		MdscDecay:    0.1,
		AcidRate:     0.1,

		Ecm:  Window{Start: -7, End: 0, Rate: 0.15},
		Mdsc: Window{Start: -7, End: 60, Rate: 2.0},
		Ph:   Window{Start: -3, End: 7, Rate: 1.0},

		Dose:       0.5,
		NoiseSigma: 0.01,
		Seed:       42,
	}
}

// Validate rejects structurally invalid configurations before any
// integration starts.
func (p *Parameters) Validate() error {
	if p.Alpha <= 0 || p.Alpha > 2 {
		return fmt.Errorf("fractional order alpha must be in (0, 2], got %g", p.Alpha)
	}
	diff := []struct {
		name string
		v    float64
	}{
		{"DT", p.DT}, {"DCBase", p.DCBase}, {"DE", p.DE}, {"DM", p.DM}, {"DPH", p.DPH},
	}
	for _, d := range diff {
		if d.v < 0 {
			return fmt.Errorf("diffusion coefficient %s must be non-negative, got %g", d.name, d.v)
		}
	}
	rates := []struct {
		name string
		v    float64
	}{
		{"RT", p.RT}, {"RC", p.RC}, {"KCT", p.KCT}, {"HT", p.HT}, {"HC", p.HC},
		{"EcmSynthesis", p.EcmSynthesis}, {"MdscRecruit", p.MdscRecruit},
		{"MdscDecay", p.MdscDecay}, {"AcidRate", p.AcidRate},
	}
	for _, r := range rates {
		if r.v < 0 {
			return fmt.Errorf("rate constant %s must be non-negative, got %g", r.name, r.v)
		}
	}
	windows := []struct {
		name string
		w    Window
	}{
		{"ecm", p.Ecm}, {"mdsc", p.Mdsc}, {"ph", p.Ph},
	}
	for _, w := range windows {
		if w.w.Start > w.w.End {
			return fmt.Errorf("%s intervention window start %g after end %g", w.name, w.w.Start, w.w.End)
		}
		if w.w.Rate < 0 {
			return fmt.Errorf("%s intervention rate must be non-negative, got %g", w.name, w.w.Rate)
		}
	}
	if p.Dose < 0 {
		return fmt.Errorf("dose must be non-negative, got %g", p.Dose)
	}
	if p.NoiseSigma < 0 {
		return fmt.Errorf("noise sigma must be non-negative, got %g", p.NoiseSigma)
	}
	return nil
}

// Field returns the view of one species inside a 5N state or derivative
// vector with N points per species.
func Field(state []float64, n, species int) []float64 {
	return state[species*n : (species+1)*n]
}
