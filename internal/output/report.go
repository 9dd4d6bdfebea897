package output

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/pathak7874/gbm-cart-spatial-model/grid"
	"github.com/pathak7874/gbm-cart-spatial-model/model"
	"github.com/pathak7874/gbm-cart-spatial-model/sim"
)

// Table is a titled matrix of values with row and column headers,
// rendered as an HTML results table.
type Table struct {
	Title                  string
	ColHeaders, RowHeaders []string
	Data                   [][]float64
}

// MassTable summarizes a trajectory as integrated species mass per
// checkpoint, one row per sampled time.
func MassTable(g *grid.Grid, res *sim.Result) Table {
	t := Table{
		Title:      fmt.Sprintf("Species mass over time (%s, Nx=%d)", g.Dim, g.Nx),
		ColHeaders: speciesNames[:],
		RowHeaders: make([]string, len(res.Times)),
		Data:       make([][]float64, len(res.Times)),
	}
	for ci, ct := range res.Times {
		t.RowHeaders[ci] = fmt.Sprintf("day %.1f", ct)
		row := make([]float64, model.NumSpecies)
		for sp := 0; sp < model.NumSpecies; sp++ {
			row[sp] = g.Mass(model.Field(res.States[ci], g.N, sp))
		}
		t.Data[ci] = row
	}
	return t
}

func WriteReportFile(tables []Table, filePath string) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return
	}
	defer file.Close()

	return writeReportHTML(tables, file)
}

func tableSanityCheck(table *Table) error {
	if table == nil {
		return errors.New("nil data table")
	}

	cols := len(table.ColHeaders)
	rows := len(table.RowHeaders)

	if actualRows := len(table.Data); actualRows != rows {
		return fmt.Errorf("inconsistent row counts: %v headers, %v rows", rows, actualRows)
	}
	for _, row := range table.Data {
		if len(row) != cols {
			return errors.New("inconsistent col counts")
		}
	}

	return nil
}

func writeReportHTML(tables []Table, output io.Writer) (err error) {
	for t := range tables {
		err = tableSanityCheck(&tables[t])
		if err != nil {
			return
		}
	}

	const document = `
<!DOCTYPE html>
<html>
<head>
    <style type="text/css">
        .results
        {
            font-family:"Trebuchet MS", Arial, Helvetica, sans-serif;
            width:100%;
            border-collapse:collapse;
        }
        .results td, .results th
        {
            font-size:1em;
            border:1px solid #98bf21;
            padding:3px 7px 2px 7px;
        }
        .results th
        {
            font-size:1.1em;
            text-align:left;
            padding-top:5px;
            padding-bottom:4px;
            background-color:#A7C942;
            color:#ffffff;
        }
        .results tr.alt td
        {
            color:#000000;
            background-color:#EAF2D3;
        }
        caption {
            text-align: left;
        }
    </style>
</head>
<body>
{{range $table := .}}
	<h2>{{.Title}}</h2>
	<table class="results">
	  <tr>
	  	<th></th>
		{{range $table.ColHeaders}}<th>{{.}}</th>{{end}}
	  </tr>
	  {{range $index, $element := $table.Data}}
	  <tr {{if eq (mod $index 2) 1}}class="alt"{{end}}>
		<th>{{index $table.RowHeaders $index}}</th>
		{{range $element}}<td>{{printf "%.6g" .}}</td>{{end}}
	  </tr>
	  {{end}}
	</table>
{{end}}
</body>
</html>
`
	funcMap := template.FuncMap{
		"mod": func(a, b int) int { return a % b },
	}
	tDocument := template.Must(template.New("document").Funcs(funcMap).Parse(document))

	return tDocument.Execute(output, tables)
}
