package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/adaptsim/internal/seir"
	"github.com/san-kum/adaptsim/internal/sweep"
)

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog(filepath.Join(t.TempDir(), "sweeps.db"))
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := openCatalog(t)

	g, err := sweep.NewGrid("beta", "phi", []float64{0.2, 0.5}, []float64{0.02, 0.1, 0.3},
		[]float64{1.1, 1.2, 1.3, 1.4, 1.5, 1.6})
	if err != nil {
		t.Fatal(err)
	}
	base := seir.DefaultParams()
	base.TMax = 90

	id, err := c.SaveSweep(ctx, base, g)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, rec, err := c.LoadSweep(ctx, id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rec.Param1 != "beta" || rec.Param2 != "phi" {
		t.Errorf("expected beta x phi, got %s x %s", rec.Param1, rec.Param2)
	}
	if rec.Base != base {
		t.Errorf("expected base %+v, got %+v", base, rec.Base)
	}
	if rec.MinFinalM != 1.1 || rec.MaxFinalM != 1.6 {
		t.Errorf("expected range [1.1,1.6], got [%v,%v]", rec.MinFinalM, rec.MaxFinalM)
	}

	rows, cols := loaded.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("expected 2x3, got %dx%d", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if loaded.At(i, j) != g.At(i, j) {
				t.Errorf("cell (%d,%d): expected %v, got %v", i, j, g.At(i, j), loaded.At(i, j))
			}
		}
	}
	if loaded.Values2[2] != 0.3 {
		t.Errorf("expected axis value 0.3, got %v", loaded.Values2[2])
	}
}

func TestCatalogList(t *testing.T) {
	ctx := context.Background()
	c := openCatalog(t)

	list, err := c.ListSweeps(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty catalog, got %d", len(list))
	}

	g, _ := sweep.NewGrid("gamma", "alpha", []float64{0.1}, []float64{0.2}, []float64{1.05})
	first, _ := c.SaveSweep(ctx, seir.DefaultParams(), g)
	second, _ := c.SaveSweep(ctx, seir.DefaultParams(), g)

	list, err = c.ListSweeps(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sweeps, got %d", len(list))
	}
	if list[0].ID != second || list[1].ID != first {
		t.Errorf("expected newest first, got ids %d, %d", list[0].ID, list[1].ID)
	}
	if list[0].Rows != 1 || list[0].Cols != 1 {
		t.Errorf("expected 1x1, got %dx%d", list[0].Rows, list[0].Cols)
	}
}

func TestCatalogErrors(t *testing.T) {
	ctx := context.Background()

	uninit := NewCatalog(filepath.Join(t.TempDir(), "x.db"))
	if _, err := uninit.ListSweeps(ctx); err == nil {
		t.Error("expected error before init")
	}

	if err := NewCatalog("").Init(ctx); err == nil {
		t.Error("expected error for empty path")
	}

	c := openCatalog(t)
	if _, _, err := c.LoadSweep(ctx, 42); !errors.Is(err, ErrSweepNotFound) {
		t.Errorf("expected ErrSweepNotFound, got %v", err)
	}
}
