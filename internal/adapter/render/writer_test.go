package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luigallucci/HYDRA/internal/domain"
	"github.com/luigallucci/HYDRA/internal/geo"
)

func TestWriteDistances_JSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distances.json")
	series := geo.DistanceSeries{
		{StationID: "SO301_009", CumulativeKm: 0, IncrementalKm: 0},
		{StationID: "SO301_010", CumulativeKm: 6.21, IncrementalKm: 6.21},
		{StationID: "SO301_011", CumulativeKm: 9.8, IncrementalKm: 3.59, Approximate: true},
	}

	require.NoError(t, WriteDistances(path, series))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Len(t, docs, 3)

	assert.Equal(t, "SO301_009", docs[0]["station_id"])
	assert.Equal(t, 6.21, docs[1]["cumulative_distance"])
	assert.Equal(t, 3.59, docs[2]["incremental_distance"])

	// The fallback flag only appears where it applies.
	_, flagged := docs[2]["approximate"]
	assert.True(t, flagged)
	_, flagged = docs[1]["approximate"]
	assert.False(t, flagged)
}

func TestWriteTable_MissingCellsAreNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	table := domain.CombinedTable{
		Columns: []string{"temp"},
		Rows: []domain.Row{
			{StationID: "S1", Lat: -25.3, Lon: 70.0, Cells: map[string]domain.Value{"temp": domain.Number(4)}},
			{StationID: "S2", Lat: -25.2, Lon: 70.1, Cells: map[string]domain.Value{"temp": domain.Missing()}},
		},
	}

	require.NoError(t, WriteTable(path, table))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Columns []string `json:"columns"`
		Rows    []struct {
			StationID string                 `json:"station_id"`
			Cells     map[string]any `json:"cells"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, []string{"temp"}, doc.Columns)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, 4.0, doc.Rows[0].Cells["temp"])

	v, ok := doc.Rows[1].Cells["temp"]
	assert.True(t, ok, "missing markers must survive serialization")
	assert.Nil(t, v)
}
