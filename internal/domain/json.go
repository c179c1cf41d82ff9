package domain

import "encoding/json"

// MarshalJSON encodes a cell as a JSON number, string, or null. The null
// keeps missing markers visible in serialized tables instead of collapsing
// them to zeros.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueText:
		return json.Marshal(v.Str)
	default:
		return []byte("null"), nil
	}
}

// tableRow is the serialized shape of one combined table row.
type tableRow struct {
	StationID string           `json:"station_id"`
	Lat       float64          `json:"lat"`
	Lon       float64          `json:"lon"`
	Cells     map[string]Value `json:"cells"`
}

// MarshalJSON encodes the table as its column list plus ordered rows.
func (t CombinedTable) MarshalJSON() ([]byte, error) {
	rows := make([]tableRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, tableRow{StationID: r.StationID, Lat: r.Lat, Lon: r.Lon, Cells: r.Cells})
	}
	return json.Marshal(struct {
		Columns []string   `json:"columns"`
		Rows    []tableRow `json:"rows"`
	}{Columns: t.Columns, Rows: rows})
}
