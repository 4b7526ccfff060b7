package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/adaptsim/internal/seir"
)

type ExportData struct {
	Scenario string            `json:"scenario"`
	Params   seir.Params       `json:"params"`
	Steps    int               `json:"steps"`
	Series   map[string]Column `json:"series"`
	Metrics  Values            `json:"metrics"`
}

// ExportJSON writes a stored run as one JSON document keyed by column.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Scenario: meta.Scenario,
		Params:   meta.Params,
		Steps:    len(series.Rows),
		Series:   make(map[string]Column, len(series.Columns)),
		Metrics:  meta.Metrics,
	}
	for _, name := range series.Columns {
		col, err := series.Column(name)
		if err != nil {
			return err
		}
		data.Series[name] = col
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies a stored run's state table to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
