// Package plotconfig defines the typed plot configuration schema, its
// built-in defaults, and the resolver that deep-merges a partial user
// configuration over those defaults and validates every cross-reference.
//
// The schema replaces the free-form nested dictionary of earlier tooling
// with named, statically validated sections: vents, stations, bottle_types,
// dna_samples, data_paths, bathymetry, and plot_settings.
package plotconfig

import "fmt"

// PlotConfig is a fully resolved, validated configuration. Treat it as
// immutable once returned by Resolve.
type PlotConfig struct {
	AnalysisName string `yaml:"analysis_name"`
	OutputDir    string `yaml:"output_directory"`

	Vents       map[string]Vent       `yaml:"vents"`
	Stations    map[string]Station    `yaml:"stations"`
	BottleTypes map[string]BottleType `yaml:"bottle_types"`
	DNASamples  []DNASample           `yaml:"dna_samples"`

	DataPaths    DataPaths    `yaml:"data_paths"`
	Bathymetry   Bathymetry   `yaml:"bathymetry"`
	PlotSettings PlotSettings `yaml:"plot_settings"`
}

// Vent is a named hydrothermal feature overlaid on maps.
type Vent struct {
	Name string `yaml:"name"`
	// Coordinates are [lon, lat] in decimal degrees, matching the cruise
	// configuration convention.
	Coordinates [2]float64 `yaml:"coordinates"`
}

// Lat returns the vent latitude in degrees.
func (v Vent) Lat() float64 { return v.Coordinates[1] }

// Lon returns the vent longitude in degrees.
func (v Vent) Lon() float64 { return v.Coordinates[0] }

// Station assigns plot styling metadata to a sampled station.
type Station struct {
	BottleType string `yaml:"bottle_type"`
}

// BottleType is a categorical sample tag (e.g. DNA, Common) with its plot
// styling.
type BottleType struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// DNASample records where a DNA sample was taken.
type DNASample struct {
	StationID string  `yaml:"station_id"`
	SampleID  string  `yaml:"sample_id"`
	Lon       float64 `yaml:"lon"`
	Lat       float64 `yaml:"lat"`
}

// DataPaths locates the input datasets on disk.
type DataPaths struct {
	BottleDir      string `yaml:"bottle_dir"`
	ProfileDir     string `yaml:"profile_dir"`
	BathymetryFile string `yaml:"bathymetry_file"`
	OutputDir      string `yaml:"output_dir"`
}

// Bathymetry configures the gridded seafloor background layer.
type Bathymetry struct {
	FilePath      string        `yaml:"file_path"`
	LatBounds     [2]float64    `yaml:"lat_bounds"`
	LonBounds     [2]float64    `yaml:"lon_bounds"`
	ElevationVar  string        `yaml:"elevation_var"`
	VariableNames VariableNames `yaml:"variable_names"`
}

// VariableNames maps schema roles to the NetCDF variable names of a
// particular bathymetry product.
type VariableNames struct {
	Lon   string `yaml:"lon"`
	Lat   string `yaml:"lat"`
	Depth string `yaml:"depth"`
}

// PlotSettings controls figure layout and layer toggles.
type PlotSettings struct {
	DPI               int    `yaml:"dpi"`
	NumProfileColumns int    `yaml:"num_cols_profiles"`
	ColorMap          string `yaml:"color_map"`

	IncludeBathymetry   bool `yaml:"include_bathymetry"`
	IncludeStationPaths bool `yaml:"include_station_paths"`
	IncludeDNASamples   bool `yaml:"include_dna_samples"`
	IncludeVents        bool `yaml:"include_vents"`

	CreateSubplots  bool       `yaml:"create_subplots"`
	SubplotGroups   [][]string `yaml:"subplot_groups"`
	PlotAllTogether bool       `yaml:"plot_all_together"`
	OutputFilename  string     `yaml:"output_filename"`
}

// ConfigValidationError reports a dangling cross-reference or an invalid
// value discovered while resolving a configuration.
type ConfigValidationError struct {
	Section string // defining section the reference points into
	Ref     string // the missing or invalid identifier
	Reason  string
}

func (e *ConfigValidationError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("config validation: %s: %q: %s", e.Section, e.Ref, e.Reason)
	}
	return fmt.Sprintf("config validation: %s: %s", e.Section, e.Reason)
}
