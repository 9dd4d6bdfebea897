// Package config defines the YAML scenario schema for the command line
// runner. A scenario fully determines one simulation run: grid geometry,
// model parameters, time span, sampling and output locations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
	"github.com/pathak7874/gbm-cart-spatial-model/model"
	"github.com/pathak7874/gbm-cart-spatial-model/sim"
)

type GridConfig struct {
	Dim    string  `yaml:"dim"`
	Length float64 `yaml:"length"`
	Nx     int     `yaml:"nx"`
}

type WindowConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Rate  float64 `yaml:"rate"`
}

type ParamsConfig struct {
	DT     float64 `yaml:"d_t"`
	DCBase float64 `yaml:"d_c_base"`
	DE     float64 `yaml:"d_e"`
	DM     float64 `yaml:"d_m"`
	DPH    float64 `yaml:"d_ph"`

	RT    float64 `yaml:"r_t"`
	RC    float64 `yaml:"r_c"`
	KCT   float64 `yaml:"k_ct"`
	Gamma float64 `yaml:"gamma"`
	HT    float64 `yaml:"h_t"`
	HC    float64 `yaml:"h_c"`

	Alpha float64 `yaml:"alpha"`

	EcmStrength  float64 `yaml:"ecm_strength"`
	PhStrength   float64 `yaml:"ph_strength"`
	MdscStrength float64 `yaml:"mdsc_strength"`
	ExhPenalty   float64 `yaml:"exh_penalty"`

	Ecm  WindowConfig `yaml:"ecm_window"`
	Mdsc WindowConfig `yaml:"mdsc_window"`
	Ph   WindowConfig `yaml:"ph_window"`

	Dose       float64 `yaml:"dose"`
	NoiseSigma float64 `yaml:"noise_sigma"`
	Seed       uint64  `yaml:"seed"`
}

type SpanConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

type Config struct {
	Grid        GridConfig   `yaml:"grid"`
	Span        SpanConfig   `yaml:"span"`
	Checkpoints int          `yaml:"checkpoints"`
	RelTol      float64      `yaml:"rtol"`
	AbsTol      float64      `yaml:"atol"`
	Params      ParamsConfig `yaml:"parameters"`

	CSVPath    string `yaml:"csv"`
	ReportPath string `yaml:"report"`
}

// DefaultConfig is the canonical baseline scenario: 1D, 10 cm, Nx=51,
// literature parameters, 70 day span around the infusion.
func DefaultConfig() *Config {
	p := model.DefaultParameters()
	return &Config{
		Grid:        GridConfig{Dim: "1D", Length: 10.0, Nx: 51},
		Span:        SpanConfig{Start: -10, End: 60},
		Checkpoints: 200,
		RelTol:      1e-5,
		AbsTol:      1e-8,
		Params: ParamsConfig{
			DT: p.DT, DCBase: p.DCBase, DE: p.DE, DM: p.DM, DPH: p.DPH,
			RT: p.RT, RC: p.RC, KCT: p.KCT, Gamma: p.Gamma, HT: p.HT, HC: p.HC,
			Alpha:       p.Alpha,
			EcmStrength: p.EcmStrength, PhStrength: p.PhStrength,
			MdscStrength: p.MdscStrength, ExhPenalty: p.ExhPenalty,
			Ecm:  WindowConfig{p.Ecm.Start, p.Ecm.End, p.Ecm.Rate},
			Mdsc: WindowConfig{p.Mdsc.Start, p.Mdsc.End, p.Mdsc.Rate},
			Ph:   WindowConfig{p.Ph.Start, p.Ph.End, p.Ph.Rate},
			Dose: p.Dose, NoiseSigma: p.NoiseSigma, Seed: p.Seed,
		},
	}
}

// Load reads a scenario file, or returns the default scenario when path
// is empty.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) BuildGrid() (*grid.Grid, error) {
	var dim grid.Dim
	switch c.Grid.Dim {
	case "", "1D", "1d":
		dim = grid.Dim1D
	case "2D", "2d":
		dim = grid.Dim2D
	default:
		return nil, fmt.Errorf("unknown grid dimensionality %q", c.Grid.Dim)
	}
	return grid.New(dim, c.Grid.Length, c.Grid.Nx)
}

func (c *Config) Parameters() model.Parameters {
	p := c.Params
	return model.Parameters{
		DT: p.DT, DCBase: p.DCBase, DE: p.DE, DM: p.DM, DPH: p.DPH,
		RT: p.RT, RC: p.RC, KCT: p.KCT, Gamma: p.Gamma, HT: p.HT, HC: p.HC,
		Alpha:       p.Alpha,
		EcmStrength: p.EcmStrength, PhStrength: p.PhStrength,
		MdscStrength: p.MdscStrength, ExhPenalty: p.ExhPenalty,
		Ecm:  model.Window{Start: p.Ecm.Start, End: p.Ecm.End, Rate: p.Ecm.Rate},
		Mdsc: model.Window{Start: p.Mdsc.Start, End: p.Mdsc.End, Rate: p.Mdsc.Rate},
		Ph:   model.Window{Start: p.Ph.Start, End: p.Ph.End, Rate: p.Ph.Rate},
		Dose: p.Dose, NoiseSigma: p.NoiseSigma, Seed: p.Seed,
	}
}

func (c *Config) TimeSpan() sim.Span {
	return sim.Span{T0: c.Span.Start, T1: c.Span.End}
}
