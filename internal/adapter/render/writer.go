package render

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/luigallucci/HYDRA/internal/domain"
	"github.com/luigallucci/HYDRA/internal/geo"
	"github.com/luigallucci/HYDRA/internal/pipeline"
)

// requestDoc is the serialized shape of a plot request.
type requestDoc struct {
	Kind      string               `json:"kind"`
	Layout    string               `json:"layout"`
	CreatedAt time.Time            `json:"created_at"`
	Bounds    boundsDoc            `json:"bounds"`
	Table     domain.CombinedTable `json:"table"`
	Distances geo.DistanceSeries   `json:"distances,omitempty"`
}

type boundsDoc struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// WriteRequest serializes a plot request to a JSON file so the figure can be
// regenerated or inspected without re-running the pipeline.
func WriteRequest(path string, req *pipeline.PlotRequest) error {
	doc := requestDoc{
		Kind:      req.Kind.String(),
		Layout:    req.Layout.String(),
		CreatedAt: req.CreatedAt,
		Bounds: boundsDoc{
			MinLat: req.Bounds.MinLat, MaxLat: req.Bounds.MaxLat,
			MinLon: req.Bounds.MinLon, MaxLon: req.Bounds.MaxLon,
		},
		Table:     req.Table,
		Distances: req.Distances,
	}
	return writeJSONFile(path, doc)
}

// WriteDistances serializes a distance series as an order-preserving JSON
// list of {station_id, cumulative_distance, incremental_distance} records.
func WriteDistances(path string, series geo.DistanceSeries) error {
	return writeJSONFile(path, series)
}

// WriteTable serializes a combined table.
func WriteTable(path string, table domain.CombinedTable) error {
	return writeJSONFile(path, table)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
