package domain

import "fmt"

// SchemaError reports a structural mismatch while combining or filtering:
// a missing key field, a duplicate station within one source, or a filter
// column the table does not carry.
type SchemaError struct {
	Source string // offending record set tag, empty for table-level errors
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("schema error in %q: field %q: %s", e.Source, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema error: field %q: %s", e.Field, e.Reason)
}

// CoordinateError reports a latitude or longitude outside the valid range.
type CoordinateError struct {
	StationID string
	Lat       float64
	Lon       float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("station %q: coordinates out of range: lat=%g lon=%g (want lat in [-90,90], lon in [-180,180])",
		e.StationID, e.Lat, e.Lon)
}

// InvalidInputError reports an empty or degenerate input sequence.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// ValidCoordinates reports whether lat/lon are within WGS-84 degree ranges.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
