// Command hydra integrates multi-station oceanographic observations.
//
// Subcommands:
//
//	hydra process    combine bottle/profile CSVs and apply a threshold filter
//	hydra distances  compute along-track cumulative distances between stations
//	hydra plot       build and render a map or profile plot
//
// Each subcommand exits 0 on success and 1 with a human-readable message on
// any pipeline error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/luigallucci/HYDRA/internal/adapter/csvloader"
	"github.com/luigallucci/HYDRA/internal/adapter/debughttp"
	"github.com/luigallucci/HYDRA/internal/adapter/gridjson"
	"github.com/luigallucci/HYDRA/internal/adapter/render"
	"github.com/luigallucci/HYDRA/internal/config"
	"github.com/luigallucci/HYDRA/internal/domain"
	"github.com/luigallucci/HYDRA/internal/geo"
	"github.com/luigallucci/HYDRA/internal/observability"
	"github.com/luigallucci/HYDRA/internal/pipeline"
	"github.com/luigallucci/HYDRA/internal/plotconfig"
)

func main() {
	_ = godotenv.Load() // optional .env, absence is fine

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hydra:", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	shutdownDebug := startDebugServer(ctx, cfg, logger)
	defer shutdownDebug()

	var cmdErr error
	switch os.Args[1] {
	case "process":
		cmdErr = runProcess(ctx, os.Args[2:], logger, metrics)
	case "distances":
		cmdErr = runDistances(ctx, os.Args[2:], logger, metrics)
	case "plot":
		cmdErr = runPlot(ctx, os.Args[2:], logger, metrics)
	default:
		usage()
		os.Exit(1)
	}

	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "hydra:", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: hydra <command> [flags]

commands:
  process    combine and filter station datasets
  distances  compute cumulative distances between stations
  plot       render a map or profile plot (hydra plot map|profile)`)
}

// startDebugServer launches the optional /healthz + /metrics server and
// returns its shutdown function.
func startDebugServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	if cfg.DebugAddr == "" {
		return func() {}
	}
	srv := debughttp.NewServer(cfg.DebugAddr, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server error", "error", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("debug server shutdown error", "error", err)
		}
	}
}

// dataFlags are the input-selection flags shared by all subcommands.
type dataFlags struct {
	bottleDir  *string
	profileDir *string
}

func addDataFlags(fs *flag.FlagSet) dataFlags {
	return dataFlags{
		bottleDir:  fs.String("bottle-dir", "", "directory containing bottle data CSV files"),
		profileDir: fs.String("profile-dir", "", "directory containing profile data CSV files (optional)"),
	}
}

// loadSets reads the configured data directories into record sets.
func loadSets(ctx context.Context, df dataFlags) ([]domain.RecordSet, error) {
	if *df.bottleDir == "" {
		return nil, errors.New("missing required flag: -bottle-dir")
	}

	bottles := csvloader.New(csvloader.Options{
		SourceTag:        "bottles",
		SuffixesToRemove: []string{"_01_btl", "_02_btl"},
		NumericColumns:   []string{"TimeS_mean", "Bottle", "temperature", "upoly0"},
	})
	set, err := bottles.Load(ctx, *df.bottleDir)
	if err != nil {
		return nil, fmt.Errorf("load bottle data: %w", err)
	}
	sets := []domain.RecordSet{set}

	if *df.profileDir != "" {
		profiles := csvloader.New(csvloader.Options{
			SourceTag:        "profiles",
			SuffixesToRemove: []string{"_01_cnv", "_02_cnv"},
			NumericColumns:   []string{"timeS", "upoly0", "CTD_depth", "temperature"},
		})
		pset, err := profiles.Load(ctx, *df.profileDir)
		if err != nil {
			return nil, fmt.Errorf("load profile data: %w", err)
		}
		sets = append(sets, pset)
	}
	return sets, nil
}

// parseFilter builds the optional threshold filter from flags.
func parseFilter(column, op string, threshold float64) (*pipeline.FilterSpec, error) {
	if column == "" {
		return nil, nil
	}
	cmp, err := domain.ParseComparison(op)
	if err != nil {
		return nil, err
	}
	return &pipeline.FilterSpec{Column: column, Cmp: cmp, Threshold: threshold}, nil
}

func runProcess(ctx context.Context, args []string, logger *slog.Logger, metrics *observability.Metrics) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	df := addDataFlags(fs)
	filterColumn := fs.String("filter-column", "", "column to filter on (empty disables filtering)")
	filterOp := fs.String("filter-op", "ge", "comparison: gt, lt, ge, le, eq, ne")
	threshold := fs.Float64("threshold", 20.0, "filter threshold value")
	out := fs.String("out", "combined.json", "output path for the combined table JSON")
	fs.Parse(args) //nolint:errcheck // ExitOnError

	sets, err := loadSets(ctx, df)
	if err != nil {
		return err
	}
	filter, err := parseFilter(*filterColumn, *filterOp, *threshold)
	if err != nil {
		return err
	}

	p := pipeline.New(nil, logger, metrics)
	res, err := p.Run(ctx, sets, nil, pipeline.Options{Filter: filter})
	if err != nil {
		return err
	}

	if err := render.WriteTable(*out, res.Table); err != nil {
		return err
	}
	logger.Info("combined table written", "path", *out, "stations", len(res.Table.Rows))
	return nil
}

func runDistances(ctx context.Context, args []string, logger *slog.Logger, metrics *observability.Metrics) error {
	fs := flag.NewFlagSet("distances", flag.ExitOnError)
	df := addDataFlags(fs)
	methodName := fs.String("method", "haversine", "distance method: haversine or geodesic")
	out := fs.String("out", "distances.json", "output path for the distance series JSON")
	fs.Parse(args) //nolint:errcheck // ExitOnError

	method, err := geo.ParseMethod(*methodName)
	if err != nil {
		return err
	}
	sets, err := loadSets(ctx, df)
	if err != nil {
		return err
	}

	p := pipeline.New(nil, logger, metrics)
	res, err := p.Run(ctx, sets, nil, pipeline.Options{ComputeDistances: true, Method: method})
	if err != nil {
		return err
	}

	if err := render.WriteDistances(*out, res.Distances); err != nil {
		return err
	}
	logger.Info("distance series written",
		"path", *out, "method", method.String(), "total_km", res.Distances.TotalKm())
	return nil
}

func runPlot(ctx context.Context, args []string, logger *slog.Logger, metrics *observability.Metrics) error {
	if len(args) < 1 {
		return errors.New("usage: hydra plot map|profile [flags]")
	}
	kind, err := pipeline.ParsePlotKind(args[0])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("plot "+args[0], flag.ExitOnError)
	df := addDataFlags(fs)
	configPath := fs.String("config", "", "path to the plot configuration YAML")
	bathymetryPath := fs.String("bathymetry", "", "path to an exported bathymetry grid JSON (optional)")
	methodName := fs.String("method", "haversine", "distance method for profile plots")
	filterColumn := fs.String("filter-column", "", "column to filter on (empty disables filtering)")
	filterOp := fs.String("filter-op", "ge", "comparison: gt, lt, ge, le, eq, ne")
	threshold := fs.Float64("threshold", 20.0, "filter threshold value")
	outDir := fs.String("out-dir", ".", "output directory for figures and request JSON")
	fs.Parse(args[1:]) //nolint:errcheck // ExitOnError

	var cfg *plotconfig.PlotConfig
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return fmt.Errorf("read plot config: %w", err)
		}
		cfg, err = plotconfig.ResolveYAML(data)
		if err != nil {
			return err
		}
	} else {
		cfg, err = plotconfig.Resolve(map[string]any{}, plotconfig.Defaults())
		if err != nil {
			return err
		}
	}

	method, err := geo.ParseMethod(*methodName)
	if err != nil {
		return err
	}
	filter, err := parseFilter(*filterColumn, *filterOp, *threshold)
	if err != nil {
		return err
	}
	sets, err := loadSets(ctx, df)
	if err != nil {
		return err
	}

	gridPath := *bathymetryPath
	if gridPath == "" {
		gridPath = cfg.Bathymetry.FilePath
	}
	var grid *domain.BathymetryGrid
	if gridPath != "" {
		var gl pipeline.GridLoader = gridjson.New()
		grid, err = gl.LoadGrid(ctx, gridPath)
		if err != nil {
			return err
		}
	}

	layout := pipeline.LayoutSingle
	if cfg.PlotSettings.CreateSubplots && len(cfg.PlotSettings.SubplotGroups) > 0 {
		layout = pipeline.LayoutSubplotGroups
	}

	renderer := render.NewChartRenderer(*outDir, logger)
	p := pipeline.New(renderer, logger, metrics)
	res, err := p.Run(ctx, sets, grid, pipeline.Options{
		Filter:           filter,
		ComputeDistances: kind == pipeline.KindProfile,
		Method:           method,
		Kind:             kind,
		Layout:           layout,
		Config:           cfg,
	})
	if err != nil {
		return err
	}

	requestPath := filepath.Join(*outDir, kind.String()+"_request.json")
	if err := render.WriteRequest(requestPath, res.Request); err != nil {
		return err
	}
	logger.Info("plot request written", "path", requestPath)
	return nil
}
