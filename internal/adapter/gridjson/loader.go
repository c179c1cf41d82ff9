// Package gridjson loads bathymetry grids from the JSON interchange files
// produced by external NetCDF extraction tooling. Keeping NetCDF parsing
// outside the pipeline means this loader only has to validate the already
// decoded axes and depth matrix.
package gridjson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/luigallucci/HYDRA/internal/domain"
)

// gridDoc is the on-disk shape of an exported grid.
type gridDoc struct {
	ElevationVar string      `json:"elevation_var"`
	Lats         []float64   `json:"lats"`
	Lons         []float64   `json:"lons"`
	Depths       [][]float64 `json:"depths"`
}

// Loader implements pipeline.GridLoader for JSON grid files.
type Loader struct{}

// New creates a Loader.
func New() *Loader { return &Loader{} }

// LoadGrid reads and validates one grid file. Axes must be non-empty and
// ascending, and the depth matrix must be lats x lons.
func (l *Loader) LoadGrid(ctx context.Context, path string) (*domain.BathymetryGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bathymetry grid: %w", err)
	}

	var doc gridDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse bathymetry grid %s: %w", path, err)
	}

	if len(doc.Lats) == 0 || len(doc.Lons) == 0 {
		return nil, fmt.Errorf("bathymetry grid %s: empty axes", path)
	}
	if err := ascending(doc.Lats, "lats"); err != nil {
		return nil, fmt.Errorf("bathymetry grid %s: %w", path, err)
	}
	if err := ascending(doc.Lons, "lons"); err != nil {
		return nil, fmt.Errorf("bathymetry grid %s: %w", path, err)
	}

	if len(doc.Depths) != len(doc.Lats) {
		return nil, fmt.Errorf("bathymetry grid %s: depths has %d rows, want %d",
			path, len(doc.Depths), len(doc.Lats))
	}
	for i, row := range doc.Depths {
		if len(row) != len(doc.Lons) {
			return nil, fmt.Errorf("bathymetry grid %s: depths row %d has %d values, want %d",
				path, i, len(row), len(doc.Lons))
		}
	}

	return &domain.BathymetryGrid{
		ElevationVar: doc.ElevationVar,
		Lats:         doc.Lats,
		Lons:         doc.Lons,
		Depths:       doc.Depths,
	}, nil
}

func ascending(vals []float64, name string) error {
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			return fmt.Errorf("%s axis not ascending at index %d", name, i)
		}
	}
	return nil
}
