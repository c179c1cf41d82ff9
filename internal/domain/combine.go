package domain

// KeyStationID is the conventional join key: the record's station identifier
// as derived by the loader from the filename or key column.
const KeyStationID = "station_id"

// Combine outer-joins record sets on the named key field into a single table.
//
// The key "station_id" selects each record's StationID; any other name
// selects a text cell, and a record set whose records lack that cell fails
// with a SchemaError. The union of station identifiers is retained: stations
// absent from a given source keep that source's columns as explicit missing
// markers, never zero fills. Column names claimed by an earlier source are
// prefixed with the later source's tag ("<tag>.<field>") instead of being
// overwritten. Output row order follows the first set's stations, with
// stations exclusive to later sets appended in their original order.
//
// Coordinates are range-checked; a violation fails with a CoordinateError.
// Inputs are not mutated.
func Combine(sets []RecordSet, key string) (CombinedTable, error) {
	if len(sets) == 0 {
		return CombinedTable{}, &InvalidInputError{Reason: "no record sets to combine"}
	}

	var (
		columns  []string
		colOwner = map[string]string{} // plain field name → first source tag
		colSeen  = map[string]bool{}
		rows     []Row
		rowIndex = map[string]int{}
	)

	for _, set := range sets {
		seenInSet := map[string]bool{}
		colName := map[string]string{} // this set's field → table column

		for _, rec := range set.Records {
			id, err := recordKey(set, rec, key)
			if err != nil {
				return CombinedTable{}, err
			}
			if seenInSet[id] {
				return CombinedTable{}, &SchemaError{
					Source: set.Source,
					Field:  key,
					Reason: "duplicate station identifier " + id,
				}
			}
			seenInSet[id] = true

			if !ValidCoordinates(rec.Lat, rec.Lon) {
				return CombinedTable{}, &CoordinateError{StationID: id, Lat: rec.Lat, Lon: rec.Lon}
			}

			for _, f := range rec.Fields {
				if _, done := colName[f]; done {
					continue
				}
				name := f
				if owner, taken := colOwner[f]; taken && owner != set.Source {
					name = set.Source + "." + f
				} else {
					colOwner[f] = set.Source
				}
				colName[f] = name
				if !colSeen[name] {
					colSeen[name] = true
					columns = append(columns, name)
				}
			}

			idx, exists := rowIndex[id]
			if !exists {
				idx = len(rows)
				rowIndex[id] = idx
				rows = append(rows, Row{
					StationID: id,
					Lat:       rec.Lat,
					Lon:       rec.Lon,
					Time:      rec.Time,
					Cells:     map[string]Value{},
				})
			}
			for f, v := range rec.Cells {
				rows[idx].Cells[colName[f]] = v
			}
		}
	}

	// Materialize missing markers so every row carries every column.
	for i := range rows {
		for _, c := range columns {
			if _, ok := rows[i].Cells[c]; !ok {
				rows[i].Cells[c] = Missing()
			}
		}
	}

	return CombinedTable{Columns: columns, Rows: rows}, nil
}

// recordKey resolves the join key for one record.
func recordKey(set RecordSet, rec StationRecord, key string) (string, error) {
	if key == KeyStationID {
		if rec.StationID == "" {
			return "", &SchemaError{Source: set.Source, Field: key, Reason: "record has no station identifier"}
		}
		return rec.StationID, nil
	}

	v := rec.Cell(key)
	if v.Kind != ValueText || v.Str == "" {
		return "", &SchemaError{Source: set.Source, Field: key, Reason: "key field not present on record"}
	}
	return v.Str, nil
}
