package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
	"github.com/pathak7874/gbm-cart-spatial-model/model"
	"github.com/pathak7874/gbm-cart-spatial-model/sim"
	"github.com/pathak7874/gbm-cart-spatial-model/util"
)

func smallResult(t *testing.T) (*grid.Grid, *sim.Result) {
	t.Helper()
	g, err := grid.New(grid.Dim1D, 10.0, 5)
	if err != nil {
		t.Fatalf("grid: %s", err.Error())
	}
	states := util.MakeRectangular(2, uint(model.NumSpecies*g.N))
	for i := range states {
		copy(states[i], model.InitialState(g))
	}
	return g, &sim.Result{
		Success: true,
		Times:   []float64{0, 1},
		States:  states,
	}
}

func TestWriteTrajectoryCSV(t *testing.T) {
	g, res := smallResult(t)
	path := filepath.Join(t.TempDir(), "traj.csv")
	if err := WriteTrajectoryCSV(path, g, res); err != nil {
		t.Fatalf("write: %s", err.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %s", err.Error())
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := 1 + len(res.Times)*model.NumSpecies*g.N
	if len(lines) != want {
		t.Errorf("csv has %d lines, want %d", len(lines), want)
	}
	if !strings.HasPrefix(lines[0], "t,species,point") {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestMassTable(t *testing.T) {
	g, res := smallResult(t)
	table := MassTable(g, res)
	if len(table.Data) != 2 || len(table.Data[0]) != model.NumSpecies {
		t.Fatalf("table shape wrong: %dx%d", len(table.Data), len(table.Data[0]))
	}
	// uniform ECM background 0.65 over 5 points, dx = 2.5
	if !util.EpsEqual(table.Data[0][model.SpeciesE], 0.65*2.5*5, 1e-10) {
		t.Errorf("ECM mass = %g", table.Data[0][model.SpeciesE])
	}
}

func TestWriteReportFile(t *testing.T) {
	g, res := smallResult(t)
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteReportFile([]Table{MassTable(g, res)}, path); err != nil {
		t.Fatalf("write: %s", err.Error())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %s", err.Error())
	}
	html := string(data)
	for _, frag := range []string{"<table class=\"results\">", "tumor", "day 0.0"} {
		if !strings.Contains(html, frag) {
			t.Errorf("report missing %q", frag)
		}
	}
}

func TestReportShapeMismatch(t *testing.T) {
	bad := Table{
		Title:      "bad",
		ColHeaders: []string{"a", "b"},
		RowHeaders: []string{"r1"},
		Data:       [][]float64{{1}},
	}
	path := filepath.Join(t.TempDir(), "bad.html")
	if err := WriteReportFile([]Table{bad}, path); err == nil {
		t.Error("expected shape mismatch error")
	}
}
