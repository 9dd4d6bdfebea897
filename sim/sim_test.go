package sim

import (
	"math"
	"testing"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
	"github.com/pathak7874/gbm-cart-spatial-model/model"
	"github.com/pathak7874/gbm-cart-spatial-model/util"
)

func baselineGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Dim1D, 10.0, 51)
	if err != nil {
		t.Fatalf("grid: %s", err.Error())
	}
	return g
}

func TestCheckpoints(t *testing.T) {
	ts := Checkpoints(Span{T0: -10, T1: 60}, 8)
	if len(ts) != 8 {
		t.Fatalf("got %d checkpoints", len(ts))
	}
	if ts[0] != -10 || ts[7] != 60 {
		t.Errorf("endpoints wrong: %g, %g", ts[0], ts[7])
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			t.Fatal("checkpoints not increasing")
		}
	}
}

func TestSimulateRejectsInvalidConfig(t *testing.T) {
	g := baselineGrid(t)
	p := model.DefaultParameters()
	y0 := model.InitialState(g)
	span := Span{T0: -10, T1: 60}
	cks := Checkpoints(span, 5)

	cases := []struct {
		name string
		run  func() Result
	}{
		{"nil grid", func() Result { return Simulate(p, nil, y0, span, cks) }},
		{"coarse grid", func() Result {
			bad := &grid.Grid{Dim: grid.Dim1D, Length: 10, Nx: 2, Dx: 10, N: 2}
			return Simulate(p, bad, y0, span, cks)
		}},
		{"bad alpha", func() Result {
			pp := p
			pp.Alpha = -1
			return Simulate(pp, g, y0, span, cks)
		}},
		{"state length", func() Result { return Simulate(p, g, y0[:10], span, cks) }},
		{"empty span", func() Result { return Simulate(p, g, y0, Span{T0: 5, T1: 5}, cks) }},
		{"no checkpoints", func() Result { return Simulate(p, g, y0, span, nil) }},
		{"checkpoint outside span", func() Result {
			return Simulate(p, g, y0, span, []float64{-20, 60})
		}},
		{"checkpoints not increasing", func() Result {
			return Simulate(p, g, y0, span, []float64{0, 0})
		}},
	}
	for _, c := range cases {
		res := c.run()
		if res.Success {
			t.Errorf("%s: expected failure", c.name)
		}
		if res.Message == "" {
			t.Errorf("%s: failure carries no message", c.name)
		}
		if res.States != nil {
			t.Errorf("%s: failure exposes a trajectory", c.name)
		}
	}
}

// diffusion alone over a reflective domain must conserve the integral
func TestDiffusionOnlyMassConservation(t *testing.T) {
	if testing.Short() {
		t.Skipf("Skipping because we're running in short test mode.")
	}
	g := baselineGrid(t)
	p := model.DefaultParameters()
	p.Alpha = 2.0
	p.NoiseSigma = 0
	p.Dose = 0
	p.RT, p.RC, p.KCT, p.Gamma, p.HT, p.HC = 0, 0, 0, 0, 0, 0
	p.EcmSynthesis, p.MdscRecruit, p.MdscDecay, p.AcidRate = 0, 0, 0, 0
	p.Ecm.Rate, p.Mdsc.Rate, p.Ph.Rate = 0, 0, 0

	y0 := model.InitialState(g)
	span := Span{T0: 0, T1: 20}
	res := Simulate(p, g, y0, span, Checkpoints(span, 11))
	if !res.Success {
		t.Fatalf("simulation failed: %s", res.Message)
	}

	m0 := TumorMass(g, y0)
	for i, state := range res.States {
		m := TumorMass(g, state)
		if math.Abs(m-m0)/m0 > 1e-3 {
			t.Errorf("tumor mass drifted at checkpoint %d: %g vs %g", i, m, m0)
		}
	}
}

func TestPositivityAndBounds(t *testing.T) {
	if testing.Short() {
		t.Skipf("Skipping because we're running in short test mode.")
	}
	g := baselineGrid(t)
	p := model.DefaultParameters()
	y0 := model.InitialState(g)
	span := Span{T0: -10, T1: 60}
	res := Simulate(p, g, y0, span, Checkpoints(span, 15))
	if !res.Success {
		t.Fatalf("simulation failed: %s", res.Message)
	}

	for ci, state := range res.States {
		for sp := 0; sp < model.NumSpecies; sp++ {
			f := model.Field(state, g.N, sp)
			for i, v := range f {
				if sp == model.SpeciesPH {
					if v < model.PHMin-1e-6 || v > model.PHMax+1e-6 {
						t.Fatalf("pH out of bounds at checkpoint %d point %d: %g", ci, i, v)
					}
				} else if v < -1e-6 {
					t.Fatalf("species %d negative at checkpoint %d point %d: %g", sp, ci, i, v)
				}
			}
		}
	}
}

// baseline therapy scenario: nonzero kill rate and dose shrink the tumor
func TestBaselineReduction(t *testing.T) {
	if testing.Short() {
		t.Skipf("Skipping because we're running in short test mode.")
	}
	g := baselineGrid(t)
	p := model.DefaultParameters()
	y0 := model.InitialState(g)
	span := Span{T0: -10, T1: 60}

	res := Simulate(p, g, y0, span, Checkpoints(span, 30))
	if !res.Success {
		t.Fatalf("simulation failed: %s", res.Message)
	}

	final := res.States[len(res.States)-1]
	red := Reduction(g, y0, final)
	if red <= 0 {
		t.Errorf("expected positive tumor reduction, got %.2f%%", red)
	}
	if testing.Verbose() {
		t.Logf("Baseline: %.1f%% reduction, %d steps, %d rejected, %d evaluations, %d fallbacks",
			red, res.Stats.StepCount, res.Stats.RejectedCount, res.Stats.EvaluationCount, res.FallbackCount)
	}
}

// without kill rate and dose, logistic-diffusive growth keeps mass up
func TestNoTreatmentGrowth(t *testing.T) {
	if testing.Short() {
		t.Skipf("Skipping because we're running in short test mode.")
	}
	g := baselineGrid(t)
	p := model.DefaultParameters()
	p.KCT = 0
	p.Dose = 0
	p.HT = 0
	y0 := model.InitialState(g)
	span := Span{T0: -10, T1: 60}

	res := Simulate(p, g, y0, span, Checkpoints(span, 30))
	if !res.Success {
		t.Fatalf("simulation failed: %s", res.Message)
	}

	final := res.States[len(res.States)-1]
	if m0, m1 := TumorMass(g, y0), TumorMass(g, final); m1 < m0*(1-1e-3) {
		t.Errorf("tumor mass shrank without treatment: %g -> %g", m0, m1)
	}
}

func TestReproducibility(t *testing.T) {
	if testing.Short() {
		t.Skipf("Skipping because we're running in short test mode.")
	}
	g := baselineGrid(t)
	p := model.DefaultParameters()
	y0 := model.InitialState(g)
	span := Span{T0: -2, T1: 5}
	cks := Checkpoints(span, 6)

	a := Simulate(p, g, y0, span, cks)
	b := Simulate(p, g, y0, span, cks)
	if !a.Success || !b.Success {
		t.Fatalf("simulation failed: %q / %q", a.Message, b.Message)
	}
	for i := range a.States {
		if !util.ArrayEpsEquals(a.States[i], b.States[i], 1e-12) {
			t.Fatalf("trajectories differ at checkpoint %d", i)
		}
	}
}

func TestSimulateDoesNotMutateInitialState(t *testing.T) {
	g := baselineGrid(t)
	p := model.DefaultParameters()
	y0 := model.InitialState(g)
	before := append([]float64(nil), y0...)

	span := Span{T0: 0, T1: 1}
	res := Simulate(p, g, y0, span, []float64{1})
	if !res.Success {
		t.Fatalf("simulation failed: %s", res.Message)
	}
	for i := range y0 {
		if y0[i] != before[i] {
			t.Fatalf("caller state mutated at %d", i)
		}
	}
}

func Test2DSmoke(t *testing.T) {
	if testing.Short() {
		t.Skipf("Skipping because we're running in short test mode.")
	}
	g, err := grid.New(grid.Dim2D, 10.0, 21)
	if err != nil {
		t.Fatalf("grid: %s", err.Error())
	}
	p := model.DefaultParameters()
	y0 := model.InitialState(g)
	span := Span{T0: -1, T1: 3}

	res := Simulate(p, g, y0, span, Checkpoints(span, 4))
	if !res.Success {
		t.Fatalf("2D simulation failed: %s", res.Message)
	}
	final := res.States[len(res.States)-1]
	for _, v := range final {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatal("2D trajectory contains non-finite values")
		}
	}
}
