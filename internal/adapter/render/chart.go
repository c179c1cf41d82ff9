// Package render turns plot requests into artifacts: PNG figures via
// go-chart and JSON documents for downstream tooling.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/luigallucci/HYDRA/internal/domain"
	"github.com/luigallucci/HYDRA/internal/pipeline"
)

// depthColumn is the profile Y axis when the table carries it.
const depthColumn = "CTD_depth"

// ChartRenderer implements pipeline.Renderer by drawing station maps and
// depth profiles to PNG files.
type ChartRenderer struct {
	outDir string
	logger *slog.Logger
}

// NewChartRenderer creates a renderer writing into outDir.
func NewChartRenderer(outDir string, logger *slog.Logger) *ChartRenderer {
	return &ChartRenderer{outDir: outDir, logger: logger}
}

// Render draws the request to one PNG (or one per subplot group) named by
// the configured output filename.
func (r *ChartRenderer) Render(ctx context.Context, req *pipeline.PlotRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	filename := req.Config.PlotSettings.OutputFilename
	if filename == "" {
		filename = req.Kind.String() + "_plot.png"
	}

	if req.Layout == pipeline.LayoutSubplotGroups {
		return r.renderGroups(req, filename)
	}
	return r.renderOne(req, req.Table, filename)
}

// renderGroups draws one figure per configured subplot group.
func (r *ChartRenderer) renderGroups(req *pipeline.PlotRequest, filename string) error {
	ext := filepath.Ext(filename)
	stem := filename[:len(filename)-len(ext)]

	for gi, group := range req.Config.PlotSettings.SubplotGroups {
		sub := domain.CombinedTable{Columns: req.Table.Columns}
		for _, id := range group {
			if row, ok := req.Table.Station(id); ok {
				sub.Rows = append(sub.Rows, row)
			}
		}
		name := fmt.Sprintf("%s_group%d%s", stem, gi+1, ext)
		if err := r.renderOne(req, sub, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *ChartRenderer) renderOne(req *pipeline.PlotRequest, table domain.CombinedTable, filename string) error {
	var ch chart.Chart
	switch req.Kind {
	case pipeline.KindProfile:
		ch = profileChart(req, table)
	default:
		ch = mapChart(req, table)
	}

	path := filepath.Join(r.outDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()

	if err := ch.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render %s plot: %w", req.Kind.String(), err)
	}
	r.logger.Info("figure written", "path", path, "stations", len(table.Rows))
	return nil
}

// mapChart plots the station track in lon/lat space with vents overlaid.
func mapChart(req *pipeline.PlotRequest, table domain.CombinedTable) chart.Chart {
	lons := make([]float64, 0, len(table.Rows))
	lats := make([]float64, 0, len(table.Rows))
	for _, row := range table.Rows {
		lons = append(lons, row.Lon)
		lats = append(lats, row.Lat)
	}
	lons, lats = padSeries(lons, lats)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Station track",
			XValues: lons,
			YValues: lats,
			Style: chart.Style{
				StrokeWidth: 1,
				DotWidth:    4,
				DotColor:    drawing.ColorBlue,
			},
		},
	}

	if req.Config.PlotSettings.IncludeVents && len(req.Config.Vents) > 0 {
		names := make([]string, 0, len(req.Config.Vents))
		for name := range req.Config.Vents {
			names = append(names, name)
		}
		sort.Strings(names)

		var vLons, vLats []float64
		for _, name := range names {
			v := req.Config.Vents[name]
			vLons = append(vLons, v.Lon())
			vLats = append(vLats, v.Lat())
		}
		vLons, vLats = padSeries(vLons, vLats)
		series = append(series, chart.ContinuousSeries{
			Name:    "Vents",
			XValues: vLons,
			YValues: vLats,
			Style: chart.Style{
				StrokeWidth: 0,
				DotWidth:    6,
				DotColor:    drawing.ColorRed,
			},
		})
	}

	ch := chart.Chart{
		Title:  req.Config.AnalysisName,
		XAxis:  chart.XAxis{Name: "Longitude (°E)"},
		YAxis:  chart.YAxis{Name: "Latitude (°N)"},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// profileChart plots depth against along-track cumulative distance, falling
// back to the station sequence index when no distances were computed.
func profileChart(req *pipeline.PlotRequest, table domain.CombinedTable) chart.Chart {
	cumByStation := map[string]float64{}
	for _, e := range req.Distances {
		cumByStation[e.StationID] = e.CumulativeKm
	}

	xs := make([]float64, 0, len(table.Rows))
	ys := make([]float64, 0, len(table.Rows))
	for i, row := range table.Rows {
		x := float64(i)
		if len(cumByStation) > 0 {
			cum, ok := cumByStation[row.StationID]
			if !ok {
				// Station absent from the distance series has no position on
				// the along-track axis.
				continue
			}
			x = cum
		}
		depth, ok := row.Cell(depthColumn).Float()
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, -depth) // depth increases downward
	}
	xs, ys = padSeries(xs, ys)

	xName := "Cumulative distance (km)"
	if len(cumByStation) == 0 {
		xName = "Station index"
	}

	ch := chart.Chart{
		Title: req.Config.AnalysisName,
		XAxis: chart.XAxis{Name: xName},
		YAxis: chart.YAxis{Name: "Depth (m)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Profile",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    drawing.ColorGreen,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// padSeries guarantees the two-point minimum go-chart needs to render.
func padSeries(xs, ys []float64) ([]float64, []float64) {
	switch len(xs) {
	case 0:
		return []float64{0, 1}, []float64{0, 0}
	case 1:
		return []float64{xs[0], xs[0] + 1e-6}, []float64{ys[0], ys[0]}
	}
	return xs, ys
}
