package pipeline

import (
	"fmt"
	"time"

	"github.com/luigallucci/HYDRA/internal/domain"
	"github.com/luigallucci/HYDRA/internal/geo"
	"github.com/luigallucci/HYDRA/internal/plotconfig"
)

// PlotKind selects the plot family a request targets.
type PlotKind int

const (
	KindMap PlotKind = iota
	KindProfile
)

// ParsePlotKind maps the CLI plot names to a PlotKind.
func ParsePlotKind(s string) (PlotKind, error) {
	switch s {
	case "map":
		return KindMap, nil
	case "profile":
		return KindProfile, nil
	}
	return 0, &domain.InvalidInputError{Reason: fmt.Sprintf("unknown plot kind %q (want map or profile)", s)}
}

func (k PlotKind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindProfile:
		return "profile"
	}
	return "?"
}

// Layout selects between one figure and grouped subplots.
type Layout int

const (
	LayoutSingle Layout = iota
	LayoutSubplotGroups
)

func (l Layout) String() string {
	if l == LayoutSubplotGroups {
		return "subplot-groups"
	}
	return "single"
}

// MapBounds is the lat/lon window a map plot covers.
type MapBounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// LayoutError reports a subplot group referencing a station absent from the
// plotted table.
type LayoutError struct {
	Group     int
	StationID string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout: subplot group %d references station %q which is not in the table", e.Group, e.StationID)
}

// PlotRequest is the immutable bundle handed to the external renderer: the
// table to draw, an optional distance series, the resolved configuration,
// and the requested kind and layout. It is consumed exactly once and never
// mutated afterwards.
type PlotRequest struct {
	Kind      PlotKind
	Layout    Layout
	Table     domain.CombinedTable
	Distances geo.DistanceSeries // nil when distances were not computed
	Config    *plotconfig.PlotConfig
	Bounds    MapBounds
	CreatedAt time.Time
}

// BuildRequest assembles a plot request. With LayoutSubplotGroups, every
// station referenced by a configured subplot group must exist in the table;
// an unknown station fails with a LayoutError. No rendering happens here;
// the request is the contract boundary to the renderer.
func BuildRequest(table domain.CombinedTable, distances geo.DistanceSeries, cfg *plotconfig.PlotConfig, kind PlotKind, layout Layout) (*PlotRequest, error) {
	if cfg == nil {
		return nil, &domain.InvalidInputError{Reason: "plot request needs a resolved configuration"}
	}

	if layout == LayoutSubplotGroups {
		for gi, group := range cfg.PlotSettings.SubplotGroups {
			for _, id := range group {
				if _, ok := table.Station(id); !ok {
					return nil, &LayoutError{Group: gi, StationID: id}
				}
			}
		}
	}

	return &PlotRequest{
		Kind:      kind,
		Layout:    layout,
		Table:     table,
		Distances: distances,
		Config:    cfg,
		Bounds:    boundsFor(table, cfg),
		CreatedAt: clock.Now(),
	}, nil
}

// boundsFor narrows the configured bathymetry window to the stations being
// plotted, falling back to the configured bounds when the table carries no
// rows.
func boundsFor(table domain.CombinedTable, cfg *plotconfig.PlotConfig) MapBounds {
	b := MapBounds{
		MinLat: cfg.Bathymetry.LatBounds[0],
		MaxLat: cfg.Bathymetry.LatBounds[1],
		MinLon: cfg.Bathymetry.LonBounds[0],
		MaxLon: cfg.Bathymetry.LonBounds[1],
	}
	if len(table.Rows) == 0 {
		return b
	}

	first := table.Rows[0]
	b = MapBounds{MinLat: first.Lat, MaxLat: first.Lat, MinLon: first.Lon, MaxLon: first.Lon}
	for _, row := range table.Rows[1:] {
		if row.Lat < b.MinLat {
			b.MinLat = row.Lat
		}
		if row.Lat > b.MaxLat {
			b.MaxLat = row.Lat
		}
		if row.Lon < b.MinLon {
			b.MinLon = row.Lon
		}
		if row.Lon > b.MaxLon {
			b.MaxLon = row.Lon
		}
	}
	return b
}
