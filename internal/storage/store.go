package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/adaptsim/internal/metrics"
	"github.com/san-kum/adaptsim/internal/seir"
)

var ErrColumnNotFound = errors.New("storage: column not found")

// Store keeps one directory per saved run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string      `json:"id"`
	Scenario  string      `json:"scenario"`
	Timestamp time.Time   `json:"timestamp"`
	Params    seir.Params `json:"params"`
	Rows      int         `json:"rows"`
	Columns   []string    `json:"columns"`
	Metrics   Values      `json:"metrics"`
}

// Save writes metadata.json and states.csv for a finished run and returns
// the run id.
func (s *Store) Save(scenario string, out *seir.Output) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(scenario, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: now,
		Params:    out.Params,
		Rows:      out.Len(),
		Columns:   out.Columns(),
		Metrics:   metrics.Compute(out, out.Params.M0).Map(),
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	rows := make([][]float64, out.Len())
	for i := range rows {
		rows[i] = outputRow(out, i)
	}
	if err := WriteCSV(csvFile, meta.Columns, rows); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(scenario string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", scenario, now.Unix())
	runID := base
	for n := 1; ; n++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
}

// outputRow matches the column order of seir.Output.Columns.
func outputRow(out *seir.Output, i int) []float64 {
	row := make([]float64, 0, out.K()+5)
	row = append(row, out.T[i], out.S[i])
	row = append(row, out.E[i]...)
	return append(row, out.I[i], out.R[i], out.M[i])
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes a header and rows of floats at full precision.
func WriteCSV(w io.Writer, header []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Series is a stored run's state table.
type Series struct {
	Columns []string
	Rows    [][]float64
}

func (s *Series) Column(name string) ([]float64, error) {
	for j, c := range s.Columns {
		if c != name {
			continue
		}
		col := make([]float64, len(s.Rows))
		for i, row := range s.Rows {
			col[i] = row[j]
		}
		return col, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// StatesPath is the location of a run's state table.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "states.csv")
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return &Series{}, nil
	}

	series := &Series{
		Columns: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
			}
			row[j] = v
		}
		series.Rows = append(series.Rows, row)
	}
	return series, nil
}
