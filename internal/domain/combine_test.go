package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bottleSet() RecordSet {
	return RecordSet{
		Source: "bottles",
		Records: []StationRecord{
			{
				StationID: "S1", Lat: 0, Lon: 0,
				Fields: []string{"temp"},
				Cells:  map[string]Value{"temp": Number(12)},
			},
		},
	}
}

func profileSet() RecordSet {
	return RecordSet{
		Source: "profiles",
		Records: []StationRecord{
			{
				StationID: "S1", Lat: 0, Lon: 0,
				Fields: []string{"depth"},
				Cells:  map[string]Value{"depth": Number(500)},
			},
			{
				StationID: "S2", Lat: 0, Lon: 1,
				Fields: []string{"depth"},
				Cells:  map[string]Value{"depth": Number(600)},
			},
		},
	}
}

func TestCombine(t *testing.T) {
	t.Run("outer join keeps union of stations with missing markers", func(t *testing.T) {
		table, err := Combine([]RecordSet{bottleSet(), profileSet()}, KeyStationID)
		require.NoError(t, err)

		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"temp", "depth"}, table.Columns)

		s1, ok := table.Station("S1")
		require.True(t, ok)
		temp, isNum := s1.Cell("temp").Float()
		require.True(t, isNum)
		assert.Equal(t, 12.0, temp)
		depth, isNum := s1.Cell("depth").Float()
		require.True(t, isNum)
		assert.Equal(t, 500.0, depth)

		s2, ok := table.Station("S2")
		require.True(t, ok)
		assert.True(t, s2.Cell("temp").IsMissing(), "unmeasured value must stay missing, not zero")
		depth, isNum = s2.Cell("depth").Float()
		require.True(t, isNum)
		assert.Equal(t, 600.0, depth)
	})

	t.Run("row order follows first set then later exclusives", func(t *testing.T) {
		table, err := Combine([]RecordSet{bottleSet(), profileSet()}, KeyStationID)
		require.NoError(t, err)

		ids := make([]string, 0, len(table.Rows))
		for _, r := range table.Rows {
			ids = append(ids, r.StationID)
		}
		assert.Equal(t, []string{"S1", "S2"}, ids)

		// Reversed input: S1 and S2 come from profiles first.
		table, err = Combine([]RecordSet{profileSet(), bottleSet()}, KeyStationID)
		require.NoError(t, err)
		ids = ids[:0]
		for _, r := range table.Rows {
			ids = append(ids, r.StationID)
		}
		assert.Equal(t, []string{"S1", "S2"}, ids)
	})

	t.Run("row set is identical regardless of input order", func(t *testing.T) {
		forward, err := Combine([]RecordSet{bottleSet(), profileSet()}, KeyStationID)
		require.NoError(t, err)
		reversed, err := Combine([]RecordSet{profileSet(), bottleSet()}, KeyStationID)
		require.NoError(t, err)

		require.Len(t, reversed.Rows, len(forward.Rows))
		for _, row := range forward.Rows {
			_, ok := reversed.Station(row.StationID)
			assert.True(t, ok, "station %s missing after reorder", row.StationID)
		}
	})

	t.Run("column collision namespaced by later source", func(t *testing.T) {
		a := RecordSet{Source: "bottles", Records: []StationRecord{{
			StationID: "S1", Lat: 10, Lon: 20,
			Fields: []string{"temperature"},
			Cells:  map[string]Value{"temperature": Number(4.1)},
		}}}
		b := RecordSet{Source: "profiles", Records: []StationRecord{{
			StationID: "S1", Lat: 10, Lon: 20,
			Fields: []string{"temperature"},
			Cells:  map[string]Value{"temperature": Number(4.4)},
		}}}

		table, err := Combine([]RecordSet{a, b}, KeyStationID)
		require.NoError(t, err)
		assert.Equal(t, []string{"temperature", "profiles.temperature"}, table.Columns)

		s1, _ := table.Station("S1")
		v1, _ := s1.Cell("temperature").Float()
		v2, _ := s1.Cell("profiles.temperature").Float()
		assert.Equal(t, 4.1, v1)
		assert.Equal(t, 4.4, v2)
	})

	t.Run("out of range coordinates rejected", func(t *testing.T) {
		bad := RecordSet{Source: "bottles", Records: []StationRecord{{
			StationID: "S9", Lat: 95, Lon: 0,
		}}}
		_, err := Combine([]RecordSet{bad}, KeyStationID)
		require.Error(t, err)

		var coordErr *CoordinateError
		require.ErrorAs(t, err, &coordErr)
		assert.Equal(t, "S9", coordErr.StationID)
	})

	t.Run("duplicate station within one set rejected", func(t *testing.T) {
		dup := RecordSet{Source: "bottles", Records: []StationRecord{
			{StationID: "S1"},
			{StationID: "S1"},
		}}
		_, err := Combine([]RecordSet{dup}, KeyStationID)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "bottles", schemaErr.Source)
	})

	t.Run("missing key field rejected", func(t *testing.T) {
		noKey := RecordSet{Source: "bottles", Records: []StationRecord{
			{StationID: "", Lat: 1, Lon: 1},
		}}
		_, err := Combine([]RecordSet{noKey}, KeyStationID)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, KeyStationID, schemaErr.Field)
	})

	t.Run("custom key column", func(t *testing.T) {
		set := RecordSet{Source: "bottles", Records: []StationRecord{{
			StationID: "ignored", Lat: 1, Lon: 1,
			Fields: []string{"cast"},
			Cells:  map[string]Value{"cast": Text("C7")},
		}}}

		table, err := Combine([]RecordSet{set}, "cast")
		require.NoError(t, err)
		_, ok := table.Station("C7")
		assert.True(t, ok)

		_, err = Combine([]RecordSet{set}, "no_such_column")
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("no record sets", func(t *testing.T) {
		_, err := Combine(nil, KeyStationID)
		var invalidErr *InvalidInputError
		require.ErrorAs(t, err, &invalidErr)
	})
}
