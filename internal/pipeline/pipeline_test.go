package pipeline_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luigallucci/HYDRA/internal/domain"
	"github.com/luigallucci/HYDRA/internal/geo"
	"github.com/luigallucci/HYDRA/internal/observability"
	"github.com/luigallucci/HYDRA/internal/pipeline"
	"github.com/luigallucci/HYDRA/internal/plotconfig"
)

// --- mocks ---

type mockRenderer struct {
	rendered []*pipeline.PlotRequest
	err      error
}

func (m *mockRenderer) Render(_ context.Context, req *pipeline.PlotRequest) error {
	if m.err != nil {
		return m.err
	}
	m.rendered = append(m.rendered, req)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use unregistered metrics to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func cruiseSets() []domain.RecordSet {
	return []domain.RecordSet{
		{
			Source: "bottles",
			Records: []domain.StationRecord{
				{
					StationID: "S1", Lat: 0, Lon: 0,
					Fields: []string{"temp"},
					Cells:  map[string]domain.Value{"temp": domain.Number(12)},
				},
			},
		},
		{
			Source: "profiles",
			Records: []domain.StationRecord{
				{
					StationID: "S1", Lat: 0, Lon: 0,
					Fields: []string{"depth"},
					Cells:  map[string]domain.Value{"depth": domain.Number(500)},
				},
				{
					StationID: "S2", Lat: 0, Lon: 1,
					Fields: []string{"depth"},
					Cells:  map[string]domain.Value{"depth": domain.Number(600)},
				},
			},
		},
	}
}

// --- tests ---

func TestPipeline_Run_CombineFilterDistances(t *testing.T) {
	p := pipeline.New(nil, slog.Default(), newTestMetrics())

	res, err := p.Run(context.Background(), cruiseSets(), nil, pipeline.Options{
		Filter: &pipeline.FilterSpec{
			Column: "temp", Cmp: domain.GreaterThan, Threshold: 10,
		},
		ComputeDistances: true,
		Method:           geo.Haversine,
	})
	require.NoError(t, err)

	// S2 has no temperature measurement, so the threshold excludes it.
	require.Len(t, res.Table.Rows, 1)
	assert.Equal(t, "S1", res.Table.Rows[0].StationID)

	require.Len(t, res.Distances, 1)
	assert.Zero(t, res.Distances.TotalKm())
	assert.Nil(t, res.Request, "no config means no plot request")
}

func TestPipeline_Run_DistancesWithoutFilter(t *testing.T) {
	p := pipeline.New(nil, slog.Default(), newTestMetrics())

	res, err := p.Run(context.Background(), cruiseSets(), nil, pipeline.Options{
		ComputeDistances: true,
		Method:           geo.Geodesic,
	})
	require.NoError(t, err)

	require.Len(t, res.Distances, 2)
	assert.Zero(t, res.Distances[0].CumulativeKm)
	// One degree of longitude along the equator.
	assert.InDelta(t, 111.32, res.Distances[1].IncrementalKm, 0.01)
}

func TestPipeline_Run_RendersPlotRequest(t *testing.T) {
	renderer := &mockRenderer{}
	p := pipeline.New(renderer, slog.Default(), newTestMetrics())

	cfg, err := plotconfig.Resolve(map[string]any{}, plotconfig.Defaults())
	require.NoError(t, err)

	res, err := p.Run(context.Background(), cruiseSets(), nil, pipeline.Options{
		ComputeDistances: true,
		Method:           geo.Haversine,
		Kind:             pipeline.KindMap,
		Layout:           pipeline.LayoutSingle,
		Config:           cfg,
	})
	require.NoError(t, err)

	require.NotNil(t, res.Request)
	require.Len(t, renderer.rendered, 1)
	assert.Equal(t, res.Request, renderer.rendered[0])
	assert.Equal(t, pipeline.KindMap, res.Request.Kind)
	assert.Len(t, res.Request.Distances, 2)
}

func TestPipeline_Run_LogsBathymetryWindow(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := pipeline.New(nil, logger, newTestMetrics())

	grid := &domain.BathymetryGrid{
		ElevationVar: "depth",
		Lats:         []float64{-25.4, -25.2},
		Lons:         []float64{70.0, 70.1},
		Depths:       [][]float64{{2400, 2410}, {2100, 2150}},
	}

	_, err := p.Run(context.Background(), cruiseSets(), grid, pipeline.Options{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "bathymetry window")
	assert.Contains(t, buf.String(), "min_lat=-25.4")
	assert.Contains(t, buf.String(), "max_lon=70.1")
}

func TestPipeline_Run_PropagatesFilterError(t *testing.T) {
	p := pipeline.New(nil, slog.Default(), newTestMetrics())

	_, err := p.Run(context.Background(), cruiseSets(), nil, pipeline.Options{
		Filter: &pipeline.FilterSpec{Column: "salinity", Cmp: domain.GreaterThan},
	})

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestPipeline_Run_PropagatesLayoutError(t *testing.T) {
	cfg, err := plotconfig.Resolve(map[string]any{
		"stations": map[string]any{
			"S1":        map[string]any{"bottle_type": "Common"},
			"SO301_404": map[string]any{"bottle_type": "Common"},
		},
		"plot_settings": map[string]any{
			"create_subplots": true,
			"subplot_groups":  []any{[]any{"S1", "SO301_404"}},
		},
	}, plotconfig.Defaults())
	require.NoError(t, err)

	p := pipeline.New(nil, slog.Default(), newTestMetrics())
	_, err = p.Run(context.Background(), cruiseSets(), nil, pipeline.Options{
		Kind:   pipeline.KindMap,
		Layout: pipeline.LayoutSubplotGroups,
		Config: cfg,
	})

	var layoutErr *pipeline.LayoutError
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, "SO301_404", layoutErr.StationID)
}
