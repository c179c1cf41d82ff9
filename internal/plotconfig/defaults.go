package plotconfig

// Defaults returns the built-in configuration a user config is merged over.
// A fresh map is returned on every call so callers can mutate their copy.
func Defaults() map[string]any {
	return map[string]any{
		"analysis_name":    "HYDRA analysis",
		"output_directory": ".",
		"vents":            map[string]any{},
		"stations":         map[string]any{},
		"bottle_types": map[string]any{
			"Common": map[string]any{"label": "Common", "color": "steelblue"},
		},
		"dna_samples": []any{},
		"data_paths": map[string]any{
			"bottle_dir":      "",
			"profile_dir":     "",
			"bathymetry_file": "",
			"output_dir":      ".",
		},
		"bathymetry": map[string]any{
			// Whole-Earth bounds; narrowed from station data when a grid or
			// observations are available.
			"lat_bounds":    []any{-90.0, 90.0},
			"lon_bounds":    []any{-180.0, 180.0},
			"elevation_var": "depth",
			"variable_names": map[string]any{
				"lon":   "longitude",
				"lat":   "latitude",
				"depth": "depth",
			},
		},
		"plot_settings": map[string]any{
			"dpi":                   300,
			"num_cols_profiles":     5,
			"color_map":             "viridis",
			"include_bathymetry":    true,
			"include_station_paths": true,
			"include_dna_samples":   false,
			"include_vents":         true,
			"create_subplots":       false,
			"subplot_groups":        []any{},
			"plot_all_together":     true,
			"output_filename":       "map_plot.png",
		},
	}
}
