package model

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
)

// InitialState builds the canonical initial profiles on a grid:
// a Gaussian tumor bulk at the domain center normalized to unit peak,
// no effector cells, uniform ECM, MDSC and acidity backgrounds.
func InitialState(g *grid.Grid) []float64 {
	n := g.N
	state := make([]float64, NumSpecies*n)

	t0 := Field(state, n, SpeciesT)
	for i, r := range g.R {
		t0[i] = math.Exp(-r * r)
	}
	if peak := floats.Max(t0); peak > 0 {
		floats.Scale(1.0/peak, t0)
	}

	e0 := Field(state, n, SpeciesE)
	m0 := Field(state, n, SpeciesM)
	ph0 := Field(state, n, SpeciesPH)
	for i := 0; i < n; i++ {
		e0[i] = 0.65
		m0[i] = 10.0
		ph0[i] = 6.5
	}
	return state
}
