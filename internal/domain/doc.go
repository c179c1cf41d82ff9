// Package domain models oceanographic station observation data.
//
// # Data Sources
//
// Observations come from two kinds of files produced during research cruises:
//
//	Bottle data (CSV):  discrete water samples taken at depth by a CTD rosette.
//	  One file per station, e.g. "SO301_009_01_btl.csv". Columns include the
//	  CTD position (CTD_lat, CTD_lon), sample time (TimeS_mean), bottle number,
//	  and measured quantities such as temperature.
//	Profile data (CSV): continuous CTD downcast measurements per station,
//	  e.g. "SO301_009_01_cnv.csv", with CTD_depth and sensor channels.
//	Bathymetry (NetCDF): gridded seafloor depth used as a map background.
//	  Parsed by an external loader; this package only sees the resulting grid.
//
// Station identifiers follow the cruise naming scheme "<cruise>_<cast>",
// e.g. "SO301_009". The loader derives them from filenames after stripping
// instrument suffixes ("_01_btl", "_02_cnv").
//
// # Missing Values
//
// Field datasets are sparse: a station measured for temperature may have no
// depth record and vice versa. Missing values are carried as an explicit
// [Value] of kind [ValueMissing] so that "not measured" stays distinguishable
// from "measured as zero". Combining never zero-fills, and filtering treats
// missing cells as failing the predicate rather than erroring.
//
// # Combining
//
// [Combine] outer-joins any number of record sets on station ID. Column names
// that appear in more than one source are disambiguated by prefixing the
// later source's tag ("profiles.temperature"); the first-seen source keeps
// the plain name. Row order preserves the first set's station order, with
// stations exclusive to later sets appended in their original order.
//
// Coordinates are validated at combine time: latitude must lie in [-90, 90]
// and longitude in [-180, 180], otherwise combining fails with a
// [CoordinateError] naming the offending station.
package domain
