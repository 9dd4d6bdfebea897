// Package spectral implements the fractional Laplacian of order alpha via
// the Fourier spectral method. Each mode is scaled by -(2*pi*|k|)^alpha,
// with the zero mode regularized and the eigenvalue magnitude capped so
// high wavenumbers cannot blow up. Non-finite results are reported as
// ErrUnstable instead of being returned.
package spectral

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
)

// ErrUnstable signals that the spectral transform produced non-finite
// values; callers are expected to fall back to finite differences.
var ErrUnstable = errors.New("numerical instability in fractional laplacian")

const (
	freqFloor = 1e-10
	eigFloor  = -1e6
)

// Operator evaluates the fractional Laplacian on a fixed grid geometry.
// It owns scratch buffers, so build one Operator per simulation run;
// construction is cheap and independent runs never share one.
type Operator struct {
	g     *grid.Grid
	alpha float64

	// eig holds the clipped eigenvalue per mode; length Nx/2+1 in 1D
	// (real transform), N in 2D.
	eig []float64

	fft   *fourier.FFT
	cfft  *fourier.CmplxFFT
	coeff []complex128
	work  []complex128
	line  []complex128
	lineC []complex128
}

func New(g *grid.Grid, alpha float64) (*Operator, error) {
	if alpha <= 0 || alpha > 2 {
		return nil, fmt.Errorf("fractional order must be in (0, 2], got %g", alpha)
	}
	o := &Operator{g: g, alpha: alpha}
	if alpha == 2 {
		// delegates to the finite difference path, nothing to precompute
		return o, nil
	}

	nx := g.Nx
	if g.Dim == grid.Dim1D {
		o.fft = fourier.NewFFT(nx)
		o.coeff = make([]complex128, nx/2+1)
		o.eig = make([]float64, nx/2+1)
		for i := range o.eig {
			f := float64(i) / (float64(nx) * g.Dx)
			o.eig[i] = eigenvalue(f, alpha)
		}
		return o, nil
	}

	o.cfft = fourier.NewCmplxFFT(nx)
	o.work = make([]complex128, g.N)
	o.line = make([]complex128, nx)
	o.lineC = make([]complex128, nx)
	o.eig = make([]float64, g.N)
	freq := make([]float64, nx)
	for i := 0; i < nx; i++ {
		if i <= nx/2 {
			freq[i] = float64(i) / (float64(nx) * g.Dx)
		} else {
			freq[i] = float64(i-nx) / (float64(nx) * g.Dx)
		}
	}
	for row := 0; row < nx; row++ {
		for col := 0; col < nx; col++ {
			o.eig[row*nx+col] = eigenvalue(math.Hypot(freq[row], freq[col]), alpha)
		}
	}
	return o, nil
}

func eigenvalue(f, alpha float64) float64 {
	if f < freqFloor {
		f = freqFloor
	}
	eig := -math.Pow(2.0*math.Pi*f, alpha)
	if eig < eigFloor {
		eig = eigFloor
	}
	return eig
}

func (o *Operator) Alpha() float64 { return o.alpha }

// Apply writes the fractional Laplacian of u into dst. For alpha = 2 it
// uses the standard finite difference Laplacian directly, which is the
// equivalent but numerically safer path. Returns ErrUnstable if the
// spectral result contains non-finite values; dst is unspecified then.
func (o *Operator) Apply(u, dst []float64) error {
	if o.alpha == 2 {
		o.g.LapFD(u, dst)
		return nil
	}
	if o.g.Dim == grid.Dim1D {
		o.apply1D(u, dst)
	} else {
		o.apply2D(u, dst)
	}
	for _, v := range dst {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrUnstable
		}
	}
	return nil
}

func (o *Operator) apply1D(u, dst []float64) {
	o.fft.Coefficients(o.coeff, u)
	for i, eig := range o.eig {
		o.coeff[i] *= complex(eig, 0)
	}
	o.fft.Sequence(dst, o.coeff)
	// gonum's transforms are unnormalized
	scale := 1.0 / float64(o.g.Nx)
	for i := range dst {
		dst[i] *= scale
	}
}

func (o *Operator) apply2D(u, dst []float64) {
	nx := o.g.Nx
	for i, v := range u {
		o.work[i] = complex(v, 0)
	}

	// forward transform, rows then columns
	for row := 0; row < nx; row++ {
		o.cfft.Coefficients(o.work[row*nx:(row+1)*nx], o.work[row*nx:(row+1)*nx])
	}
	for col := 0; col < nx; col++ {
		o.gatherColumn(col)
		o.cfft.Coefficients(o.lineC, o.line)
		o.scatterColumn(col, o.lineC)
	}

	for i, eig := range o.eig {
		o.work[i] *= complex(eig, 0)
	}

	// inverse transform, columns then rows
	for col := 0; col < nx; col++ {
		o.gatherColumn(col)
		o.cfft.Sequence(o.lineC, o.line)
		o.scatterColumn(col, o.lineC)
	}
	for row := 0; row < nx; row++ {
		o.cfft.Sequence(o.work[row*nx:(row+1)*nx], o.work[row*nx:(row+1)*nx])
	}

	scale := 1.0 / float64(o.g.N)
	for i := range dst {
		dst[i] = real(o.work[i]) * scale
	}
}

func (o *Operator) gatherColumn(col int) {
	nx := o.g.Nx
	for row := 0; row < nx; row++ {
		o.line[row] = o.work[row*nx+col]
	}
}

func (o *Operator) scatterColumn(col int, line []complex128) {
	nx := o.g.Nx
	for row := 0; row < nx; row++ {
		o.work[row*nx+col] = line[row]
	}
}
