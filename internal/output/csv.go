// Package output writes run artifacts for the command line layer:
// trajectory CSV dumps and an HTML summary of species masses. The engine
// itself never touches these; everything here consumes sim.Result only.
package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
	"github.com/pathak7874/gbm-cart-spatial-model/model"
	"github.com/pathak7874/gbm-cart-spatial-model/sim"
)

var speciesNames = [model.NumSpecies]string{"tumor", "effector", "ecm", "mdsc", "ph"}

// WriteTrajectoryCSV dumps a sampled trajectory in long format:
// one row per (checkpoint, species, grid point).
func WriteTrajectoryCSV(path string, g *grid.Grid, res *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"t", "species", "point", "r", "value"}); err != nil {
		return err
	}
	for ci, t := range res.Times {
		state := res.States[ci]
		for sp := 0; sp < model.NumSpecies; sp++ {
			field := model.Field(state, g.N, sp)
			for i, v := range field {
				row := []string{
					strconv.FormatFloat(t, 'g', -1, 64),
					speciesNames[sp],
					strconv.Itoa(i),
					strconv.FormatFloat(g.R[i], 'g', 6, 64),
					strconv.FormatFloat(v, 'g', -1, 64),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}
