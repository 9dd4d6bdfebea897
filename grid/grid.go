// Package grid builds the spatial domain for a simulation run: coordinate
// and radial-distance fields, spacing, and the standard finite difference
// Laplacian with reflective boundaries. A Grid is immutable once built and
// may be shared by concurrent runs.
package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type Dim int

const (
	Dim1D = Dim(iota)
	Dim2D
)

func (d Dim) String() string {
	if d == Dim2D {
		return "2D"
	}
	return "1D"
}

var ErrBadResolution = errors.New("grid needs at least 3 points per axis")

type Grid struct {
	Dim    Dim
	Length float64
	Nx     int
	Dx     float64

	// Coords holds the x coordinate per point (1D) or is unset for 2D,
	// where X/Y carry the flattened row-major mesh coordinates.
	Coords []float64
	X, Y   []float64

	// R is the distance of each point from the domain center,
	// used as injection-site profile and diffusivity modulator.
	R []float64

	// N is the total point count: Nx in 1D, Nx*Nx in 2D.
	N int
}

func New(dim Dim, length float64, nx int) (*Grid, error) {
	if nx < 3 {
		return nil, ErrBadResolution
	}
	if length <= 0 {
		return nil, fmt.Errorf("domain length must be positive, got %g", length)
	}
	if dim != Dim1D && dim != Dim2D {
		return nil, fmt.Errorf("unknown dimensionality %d", dim)
	}

	g := &Grid{
		Dim:    dim,
		Length: length,
		Nx:     nx,
		Dx:     length / float64(nx-1),
	}
	center := length / 2.0

	if dim == Dim1D {
		g.N = nx
		g.Coords = make([]float64, nx)
		g.R = make([]float64, nx)
		for i := 0; i < nx; i++ {
			x := float64(i) * g.Dx
			g.Coords[i] = x
			g.R[i] = math.Abs(x - center)
		}
		return g, nil
	}

	g.N = nx * nx
	g.X = make([]float64, g.N)
	g.Y = make([]float64, g.N)
	g.R = make([]float64, g.N)
	for row := 0; row < nx; row++ {
		y := float64(row) * g.Dx
		for col := 0; col < nx; col++ {
			x := float64(col) * g.Dx
			i := row*nx + col
			g.X[i] = x
			g.Y[i] = y
			g.R[i] = math.Hypot(x-center, y-center)
		}
	}
	return g, nil
}

// LapFD writes the second order finite difference Laplacian of u into dst.
// Boundary nodes copy their interior neighbor (zero gradient).
func (g *Grid) LapFD(u, dst []float64) {
	if g.Dim == Dim1D {
		g.lapFD1D(u, dst)
	} else {
		g.lapFD2D(u, dst)
	}
}

func (g *Grid) lapFD1D(u, dst []float64) {
	dx2 := g.Dx * g.Dx
	n := len(u)
	for i := 1; i < n-1; i++ {
		dst[i] = (u[i+1] - 2.0*u[i] + u[i-1]) / dx2
	}
	dst[0] = dst[1]
	dst[n-1] = dst[n-2]
}

func (g *Grid) lapFD2D(u, dst []float64) {
	nx := g.Nx
	dx2 := g.Dx * g.Dx
	for row := 1; row < nx-1; row++ {
		for col := 1; col < nx-1; col++ {
			i := row*nx + col
			dst[i] = (u[i-nx] + u[i+nx] + u[i-1] + u[i+1] - 4.0*u[i]) / dx2
		}
	}
	// copy boundary rows and columns from interior neighbors
	for col := 0; col < nx; col++ {
		dst[col] = dst[nx+col]
		dst[(nx-1)*nx+col] = dst[(nx-2)*nx+col]
	}
	for row := 0; row < nx; row++ {
		dst[row*nx] = dst[row*nx+1]
		dst[row*nx+nx-1] = dst[row*nx+nx-2]
	}
}

// Mass integrates a field over the domain: sum times dx (1D) or dx^2 (2D).
func (g *Grid) Mass(u []float64) float64 {
	ddx := g.Dx
	if g.Dim == Dim2D {
		ddx = g.Dx * g.Dx
	}
	return floats.Sum(u) * ddx
}
