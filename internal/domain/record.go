package domain

import "time"

// ValueKind discriminates the cell variants of a station record.
type ValueKind int

const (
	// ValueMissing marks a cell that was never measured. Distinct from a
	// measured zero.
	ValueMissing ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a single cell: a numeric measurement, a categorical label, or an
// explicit missing marker.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// Number wraps a float64 measurement.
func Number(v float64) Value { return Value{Kind: ValueNumber, Num: v} }

// Text wraps a categorical value such as a bottle type.
func Text(s string) Value { return Value{Kind: ValueText, Str: s} }

// Missing is the explicit not-measured marker.
func Missing() Value { return Value{Kind: ValueMissing} }

// IsMissing reports whether the cell was never measured.
func (v Value) IsMissing() bool { return v.Kind == ValueMissing }

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	if v.Kind != ValueNumber {
		return 0, false
	}
	return v.Num, true
}

// StationRecord is one observation row: a station identifier, its position in
// decimal degrees, an optional sample time, and an ordered set of measured
// fields.
type StationRecord struct {
	StationID string
	Lat       float64
	Lon       float64
	Time      time.Time // zero when the source carries no timestamp

	// Fields preserves source column order; Cells holds the values.
	Fields []string
	Cells  map[string]Value
}

// Cell returns the named field's value, or an explicit missing marker when
// the record does not carry the field.
func (r StationRecord) Cell(field string) Value {
	if v, ok := r.Cells[field]; ok {
		return v
	}
	return Missing()
}

// RecordSet is one loaded dataset: a source tag (origin dataset name, e.g.
// "bottles") and its records in file order. Read-only once handed to Combine.
type RecordSet struct {
	Source  string
	Records []StationRecord
}

// Row is one line of a combined table, keyed by station ID. Cells are keyed
// by the (possibly source-prefixed) column names of the table.
type Row struct {
	StationID string
	Lat       float64
	Lon       float64
	Time      time.Time
	Cells     map[string]Value
}

// Cell returns the named column's value, or a missing marker for columns the
// row's source never measured.
func (r Row) Cell(column string) Value {
	if v, ok := r.Cells[column]; ok {
		return v
	}
	return Missing()
}

// CombinedTable is the outer join of several record sets: the union of their
// stations with the union of their columns. Derived tables are recomputed,
// never mutated.
type CombinedTable struct {
	// Columns is the ordered union of contributing field names, collision
	// entries prefixed by source tag.
	Columns []string
	Rows    []Row
}

// Station returns the row for the given station ID, if present.
func (t CombinedTable) Station(id string) (Row, bool) {
	for _, row := range t.Rows {
		if row.StationID == id {
			return row, true
		}
	}
	return Row{}, false
}

// BathymetryGrid is a borrowed view of gridded seafloor depth handed in by an
// external NetCDF loader. Callers must not retain it beyond the call that
// received it; it is typically a large buffer owned by the loader.
type BathymetryGrid struct {
	ElevationVar string
	Lats         []float64 // grid latitudes, ascending
	Lons         []float64 // grid longitudes, ascending
	Depths       [][]float64
}

// Bounds returns (minLat, maxLat, minLon, maxLon) of the grid axes. The
// second return is false for an empty grid.
func (g *BathymetryGrid) Bounds() (minLat, maxLat, minLon, maxLon float64, ok bool) {
	if g == nil || len(g.Lats) == 0 || len(g.Lons) == 0 {
		return 0, 0, 0, 0, false
	}
	return g.Lats[0], g.Lats[len(g.Lats)-1], g.Lons[0], g.Lons[len(g.Lons)-1], true
}
