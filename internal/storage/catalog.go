package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/san-kum/adaptsim/internal/seir"
	"github.com/san-kum/adaptsim/internal/sweep"
)

var ErrSweepNotFound = errors.New("storage: sweep not found")

// Catalog records finished sweeps in SQLite. Only results are kept; a sweep
// is never resumed from the catalog.
type Catalog struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

type SweepRecord struct {
	ID        int64
	CreatedAt time.Time
	Param1    string
	Param2    string
	Rows      int
	Cols      int
	Base      seir.Params
	MinFinalM float64
	MaxFinalM float64
}

func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return errors.New("catalog path is required")
	}
	if c.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	c.db = db
	return nil
}

func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Catalog) getDB() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, errors.New("catalog is not initialized")
	}
	return c.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sweeps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			param1 TEXT NOT NULL,
			param2 TEXT NOT NULL,
			values1 TEXT NOT NULL,
			values2 TEXT NOT NULL,
			base_params TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sweep_cells (
			sweep_id INTEGER NOT NULL REFERENCES sweeps(id) ON DELETE CASCADE,
			row_idx INTEGER NOT NULL,
			col_idx INTEGER NOT NULL,
			final_m REAL NOT NULL,
			PRIMARY KEY (sweep_id, row_idx, col_idx)
		);
	`)
	return err
}

// SaveSweep stores a grid with the base parameters it was run from.
func (c *Catalog) SaveSweep(ctx context.Context, base seir.Params, g *sweep.Grid) (int64, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}

	values1, err := json.Marshal(g.Values1)
	if err != nil {
		return 0, err
	}
	values2, err := json.Marshal(g.Values2)
	if err != nil {
		return 0, err
	}
	params, err := json.Marshal(base)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO sweeps (created_at, param1, param2, values1, values2, base_params)
		VALUES (?, ?, ?, ?, ?, ?)
	`, time.Now().UTC().Format(time.RFC3339Nano), g.Param1, g.Param2, string(values1), string(values2), string(params))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sweep_cells (sweep_id, row_idx, col_idx, final_m) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	rows, cols := g.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if _, err := stmt.ExecContext(ctx, id, i, j, g.At(i, j)); err != nil {
				return 0, fmt.Errorf("cell (%d,%d): %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const sweepSelect = `
	SELECT s.id, s.created_at, s.param1, s.param2, s.values1, s.values2, s.base_params,
		COALESCE(MIN(c.final_m), 0), COALESCE(MAX(c.final_m), 0)
	FROM sweeps s LEFT JOIN sweep_cells c ON c.sweep_id = s.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweep(sc rowScanner) (SweepRecord, []float64, []float64, error) {
	var (
		rec                       SweepRecord
		created, v1, v2, paramsJS string
		values1, values2          []float64
	)
	err := sc.Scan(&rec.ID, &created, &rec.Param1, &rec.Param2, &v1, &v2, &paramsJS, &rec.MinFinalM, &rec.MaxFinalM)
	if err != nil {
		return rec, nil, nil, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return rec, nil, nil, err
	}
	if err := json.Unmarshal([]byte(v1), &values1); err != nil {
		return rec, nil, nil, err
	}
	if err := json.Unmarshal([]byte(v2), &values2); err != nil {
		return rec, nil, nil, err
	}
	if err := json.Unmarshal([]byte(paramsJS), &rec.Base); err != nil {
		return rec, nil, nil, err
	}
	rec.Rows, rec.Cols = len(values1), len(values2)
	return rec, values1, values2, nil
}

// ListSweeps returns every stored sweep, newest first.
func (c *Catalog) ListSweeps(ctx context.Context) ([]SweepRecord, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, sweepSelect+` GROUP BY s.id ORDER BY s.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SweepRecord, 0)
	for rows.Next() {
		rec, _, _, err := scanSweep(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LoadSweep rebuilds a stored grid.
func (c *Catalog) LoadSweep(ctx context.Context, id int64) (*sweep.Grid, SweepRecord, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, SweepRecord{}, err
	}

	rec, values1, values2, err := scanSweep(db.QueryRowContext(ctx, sweepSelect+` WHERE s.id = ? GROUP BY s.id`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, SweepRecord{}, fmt.Errorf("%w: %d", ErrSweepNotFound, id)
		}
		return nil, SweepRecord{}, err
	}

	cells := make([]float64, rec.Rows*rec.Cols)
	rows, err := db.QueryContext(ctx, `SELECT row_idx, col_idx, final_m FROM sweep_cells WHERE sweep_id = ?`, id)
	if err != nil {
		return nil, rec, err
	}
	defer rows.Close()

	for rows.Next() {
		var i, j int
		var v float64
		if err := rows.Scan(&i, &j, &v); err != nil {
			return nil, rec, err
		}
		if i < 0 || i >= rec.Rows || j < 0 || j >= rec.Cols {
			return nil, rec, fmt.Errorf("sweep %d: cell (%d,%d) outside %dx%d grid", id, i, j, rec.Rows, rec.Cols)
		}
		cells[i*rec.Cols+j] = v
	}
	if err := rows.Err(); err != nil {
		return nil, rec, err
	}

	g, err := sweep.NewGrid(rec.Param1, rec.Param2, values1, values2, cells)
	if err != nil {
		return nil, rec, err
	}
	return g, rec, nil
}
