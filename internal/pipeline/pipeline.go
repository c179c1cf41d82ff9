// Package pipeline orchestrates the HYDRA data integration flow: load →
// combine → filter → distances → plot request → render.
//
// Every stage is a pure, blocking transformation over immutable values, so
// independent invocations may run concurrently without locking. Bathymetry
// grids handed in by the loader are borrowed for the duration of a single
// Run and never retained.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/luigallucci/HYDRA/internal/domain"
	"github.com/luigallucci/HYDRA/internal/geo"
	"github.com/luigallucci/HYDRA/internal/observability"
	"github.com/luigallucci/HYDRA/internal/plotconfig"
)

// Loader produces a record set from a data directory. Implementations own
// file parsing; the pipeline only sees normalized records.
type Loader interface {
	Load(ctx context.Context, dir string) (domain.RecordSet, error)
}

// GridLoader produces a bathymetry grid from a file path. The returned grid
// is borrowed: the pipeline uses it within the call and releases it.
type GridLoader interface {
	LoadGrid(ctx context.Context, path string) (*domain.BathymetryGrid, error)
}

// Renderer consumes a plot request and produces an artifact (e.g. a PNG).
type Renderer interface {
	Render(ctx context.Context, req *PlotRequest) error
}

// FilterSpec is an optional numeric predicate applied after combining.
type FilterSpec struct {
	Column    string
	Cmp       domain.Comparison
	Threshold float64
}

// Options parameterizes one pipeline invocation.
type Options struct {
	Key    string      // join key; defaults to domain.KeyStationID
	Filter *FilterSpec // nil skips filtering

	ComputeDistances bool
	Method           geo.Method

	Kind   PlotKind
	Layout Layout
	Config *plotconfig.PlotConfig
}

// Result carries the derived artifacts of one invocation.
type Result struct {
	Table     domain.CombinedTable // post-filter when a filter was applied
	Distances geo.DistanceSeries
	Request   *PlotRequest
}

// Pipeline wires the stages together with logging and metrics.
type Pipeline struct {
	renderer Renderer // nil disables rendering
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline. Pass a nil renderer when only tabular output is
// wanted.
func New(renderer Renderer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{renderer: renderer, logger: logger, metrics: metrics}
}

// Run executes one synchronous invocation over the given record sets. The
// grid may be nil when no bathymetry is involved; when present it is used
// only for logging the map window and released before returning.
func (p *Pipeline) Run(ctx context.Context, sets []domain.RecordSet, grid *domain.BathymetryGrid, opts Options) (*Result, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	key := opts.Key
	if key == "" {
		key = domain.KeyStationID
	}

	table, err := p.combine(sets, key)
	if err != nil {
		return nil, err
	}

	if opts.Filter != nil {
		table, err = p.filter(table, *opts.Filter)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{Table: table}

	if opts.ComputeDistances && len(table.Rows) > 0 {
		res.Distances, err = p.distances(table, opts.Method)
		if err != nil {
			return nil, err
		}
	}

	if minLat, maxLat, minLon, maxLon, ok := grid.Bounds(); ok {
		p.logger.Debug("bathymetry window",
			"min_lat", minLat, "max_lat", maxLat,
			"min_lon", minLon, "max_lon", maxLon,
		)
	}

	if opts.Config != nil {
		start := time.Now()
		req, err := BuildRequest(table, res.Distances, opts.Config, opts.Kind, opts.Layout)
		if err != nil {
			return nil, err
		}
		p.metrics.StageDuration.WithLabelValues("build").Observe(time.Since(start).Seconds())
		p.metrics.PlotsRequested.WithLabelValues(opts.Kind.String()).Inc()
		res.Request = req

		if p.renderer != nil {
			start = time.Now()
			if err := p.renderer.Render(ctx, req); err != nil {
				return nil, err
			}
			p.metrics.StageDuration.WithLabelValues("render").Observe(time.Since(start).Seconds())
			p.logger.Info("plot rendered", "kind", opts.Kind.String(), "layout", opts.Layout.String())
		}
	}

	return res, nil
}

func (p *Pipeline) combine(sets []domain.RecordSet, key string) (domain.CombinedTable, error) {
	start := time.Now()
	table, err := domain.Combine(sets, key)
	if err != nil {
		return domain.CombinedTable{}, err
	}
	p.metrics.StageDuration.WithLabelValues("combine").Observe(time.Since(start).Seconds())
	p.metrics.RecordsCombined.Add(float64(len(table.Rows)))
	p.logger.Info("record sets combined",
		"sources", len(sets), "stations", len(table.Rows), "columns", len(table.Columns))
	return table, nil
}

func (p *Pipeline) filter(table domain.CombinedTable, spec FilterSpec) (domain.CombinedTable, error) {
	start := time.Now()
	filtered, err := domain.Filter(table, spec.Column, spec.Cmp, spec.Threshold)
	if err != nil {
		return domain.CombinedTable{}, err
	}
	excluded := len(table.Rows) - len(filtered.Rows)
	p.metrics.StageDuration.WithLabelValues("filter").Observe(time.Since(start).Seconds())
	p.metrics.RowsFilteredOut.Add(float64(excluded))
	p.logger.Info("threshold filter applied",
		"column", spec.Column, "predicate", spec.Cmp.String(), "threshold", spec.Threshold,
		"kept", len(filtered.Rows), "excluded", excluded)
	return filtered, nil
}

func (p *Pipeline) distances(table domain.CombinedTable, method geo.Method) (geo.DistanceSeries, error) {
	start := time.Now()
	points := make([]geo.Point, 0, len(table.Rows))
	for _, row := range table.Rows {
		points = append(points, geo.Point{StationID: row.StationID, Lat: row.Lat, Lon: row.Lon})
	}

	series, err := geo.Compute(points, method)
	if err != nil {
		return nil, err
	}

	fallbacks := 0
	for _, e := range series {
		if e.Approximate {
			fallbacks++
		}
	}
	p.metrics.StageDuration.WithLabelValues("distances").Observe(time.Since(start).Seconds())
	p.metrics.SegmentsComputed.WithLabelValues(method.String()).Add(float64(len(series) - 1))
	if fallbacks > 0 {
		p.metrics.GeodesicFallbacks.Add(float64(fallbacks))
		p.logger.Warn("geodesic iteration fell back to spherical distance", "segments", fallbacks)
	}
	p.logger.Info("distances computed",
		"method", method.String(), "stations", len(series), "total_km", series.TotalKm())
	return series, nil
}
