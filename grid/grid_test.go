package grid

import (
	"math"
	"testing"

	"github.com/pathak7874/gbm-cart-spatial-model/util"
)

func TestNew1D(t *testing.T) {
	g, err := New(Dim1D, 10.0, 51)
	if err != nil {
		t.Fatalf("constructor failed: %s", err.Error())
	}
	if g.N != 51 {
		t.Errorf("N = %d, want 51", g.N)
	}
	if !util.EpsEqual(g.Dx, 0.2, 1e-12) {
		t.Errorf("dx = %g, want 0.2", g.Dx)
	}
	if g.Coords[0] != 0 || !util.EpsEqual(g.Coords[50], 10.0, 1e-12) {
		t.Errorf("coordinate endpoints wrong: %g, %g", g.Coords[0], g.Coords[50])
	}
	// center point sits at distance zero, endpoints at L/2
	if !util.EpsEqual(g.R[25], 0.0, 1e-12) {
		t.Errorf("center radial distance = %g", g.R[25])
	}
	if !util.EpsEqual(g.R[0], 5.0, 1e-12) || !util.EpsEqual(g.R[50], 5.0, 1e-12) {
		t.Errorf("edge radial distances wrong: %g, %g", g.R[0], g.R[50])
	}
}

func TestNew2D(t *testing.T) {
	g, err := New(Dim2D, 10.0, 11)
	if err != nil {
		t.Fatalf("constructor failed: %s", err.Error())
	}
	if g.N != 121 {
		t.Errorf("N = %d, want 121", g.N)
	}
	center := 5*11 + 5
	if !util.EpsEqual(g.R[center], 0.0, 1e-12) {
		t.Errorf("center radial distance = %g", g.R[center])
	}
	corner := math.Hypot(5.0, 5.0)
	if !util.EpsEqual(g.R[0], corner, 1e-12) {
		t.Errorf("corner radial distance = %g, want %g", g.R[0], corner)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(Dim1D, 10.0, 2); err != ErrBadResolution {
		t.Errorf("Nx=2 should fail with ErrBadResolution, got %v", err)
	}
	if _, err := New(Dim1D, -1.0, 51); err == nil {
		t.Error("negative length should fail")
	}
	if _, err := New(Dim(7), 10.0, 51); err == nil {
		t.Error("unknown dimensionality should fail")
	}
}

func TestLapFDQuadratic1D(t *testing.T) {
	g, _ := New(Dim1D, 10.0, 101)
	u := make([]float64, g.N)
	for i, x := range g.Coords {
		u[i] = x * x
	}
	lap := make([]float64, g.N)
	g.LapFD(u, lap)
	// second derivative of x^2 is 2 everywhere, interior is exact for FD
	for i := 1; i < g.N-1; i++ {
		if !util.EpsEqual(lap[i], 2.0, 1e-8) {
			t.Fatalf("lap[%d] = %g, want 2", i, lap[i])
		}
	}
	// reflective boundaries copy the interior neighbor
	if lap[0] != lap[1] || lap[g.N-1] != lap[g.N-2] {
		t.Error("boundary nodes do not copy interior neighbors")
	}
}

func TestLapFDUniform2D(t *testing.T) {
	g, _ := New(Dim2D, 10.0, 21)
	u := make([]float64, g.N)
	for i := range u {
		u[i] = 3.5
	}
	lap := make([]float64, g.N)
	g.LapFD(u, lap)
	for i := range lap {
		if lap[i] != 0 {
			t.Fatalf("laplacian of uniform field nonzero at %d: %g", i, lap[i])
		}
	}
}

func TestLapFDQuadratic2D(t *testing.T) {
	g, _ := New(Dim2D, 10.0, 21)
	u := make([]float64, g.N)
	for i := range u {
		u[i] = g.X[i]*g.X[i] + g.Y[i]*g.Y[i]
	}
	lap := make([]float64, g.N)
	g.LapFD(u, lap)
	for row := 1; row < g.Nx-1; row++ {
		for col := 1; col < g.Nx-1; col++ {
			i := row*g.Nx + col
			if !util.EpsEqual(lap[i], 4.0, 1e-8) {
				t.Fatalf("lap[%d] = %g, want 4", i, lap[i])
			}
		}
	}
}

func TestMass(t *testing.T) {
	g1, _ := New(Dim1D, 10.0, 51)
	u := make([]float64, g1.N)
	for i := range u {
		u[i] = 2.0
	}
	if got := g1.Mass(u); !util.EpsEqual(got, 2.0*0.2*51, 1e-10) {
		t.Errorf("1D mass = %g", got)
	}

	g2, _ := New(Dim2D, 10.0, 11)
	u2 := make([]float64, g2.N)
	for i := range u2 {
		u2[i] = 1.0
	}
	if got := g2.Mass(u2); !util.EpsEqual(got, 121.0, 1e-10) {
		t.Errorf("2D mass = %g", got)
	}
}
