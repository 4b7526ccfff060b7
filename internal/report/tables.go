package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/adaptsim/internal/metrics"
	"github.com/san-kum/adaptsim/internal/sweep"
)

// Row is one labelled metrics record.
type Row struct {
	Label  string
	Record metrics.Record
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteMetricsTable writes one row per record with the metric keys as
// header.
func WriteMetricsTable(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"scenario"}, metrics.Keys...)); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Label}
		for _, v := range row.Record.Values() {
			record = append(record, formatFloat(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGrid writes a sweep as long-form (param1, param2, M_final) rows.
func WriteGrid(w io.Writer, g *sweep.Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{g.Param1, g.Param2, "M_final"}); err != nil {
		return err
	}
	rows, cols := g.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rec := []string{formatFloat(g.Values1[i]), formatFloat(g.Values2[j]), formatFloat(g.At(i, j))}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
