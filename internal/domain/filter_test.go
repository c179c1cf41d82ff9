package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() CombinedTable {
	return CombinedTable{
		Columns: []string{"temp", "depth"},
		Rows: []Row{
			{StationID: "S1", Cells: map[string]Value{"temp": Number(12), "depth": Number(500)}},
			{StationID: "S2", Cells: map[string]Value{"temp": Missing(), "depth": Number(600)}},
			{StationID: "S3", Cells: map[string]Value{"temp": Number(8), "depth": Number(700)}},
			{StationID: "S4", Cells: map[string]Value{"temp": Text("n/a"), "depth": Number(650)}},
		},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		column    string
		cmp       Comparison
		threshold float64
		want      []string
	}{
		{"greater than", "temp", GreaterThan, 10, []string{"S1"}},
		{"less than", "temp", LessThan, 10, []string{"S3"}},
		{"greater or equal boundary", "temp", GreaterOrEqual, 12, []string{"S1"}},
		{"less or equal", "temp", LessOrEqual, 12, []string{"S1", "S3"}},
		{"equal", "depth", Equal, 600, []string{"S2"}},
		{"not equal", "depth", NotEqual, 600, []string{"S1", "S3", "S4"}},
		{"nothing matches", "temp", GreaterThan, 100, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Filter(testTable(), tt.column, tt.cmp, tt.threshold)
			require.NoError(t, err)

			got := make([]string, 0, len(out.Rows))
			for _, r := range out.Rows {
				got = append(got, r.StationID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, testTable().Columns, out.Columns)
		})
	}
}

func TestFilter_MissingAndTextCellsFailPredicate(t *testing.T) {
	// S2 (missing) and S4 (text) must be excluded, never raise.
	out, err := Filter(testTable(), "temp", GreaterOrEqual, 0)
	require.NoError(t, err)

	got := make([]string, 0, len(out.Rows))
	for _, r := range out.Rows {
		got = append(got, r.StationID)
	}
	assert.Equal(t, []string{"S1", "S3"}, got)
}

func TestFilter_UnknownColumn(t *testing.T) {
	_, err := Filter(testTable(), "salinity", GreaterThan, 0)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "salinity", schemaErr.Field)
}

func TestFilter_EmptyTable(t *testing.T) {
	empty := CombinedTable{Columns: []string{"temp"}, Rows: nil}
	out, err := Filter(empty, "temp", GreaterThan, 0)

	require.NoError(t, err, "empty input is valid, not an error")
	assert.Empty(t, out.Rows)
	assert.NotNil(t, out.Rows, "empty result must be distinguishable from failure")
}

func TestParseComparison(t *testing.T) {
	tests := []struct {
		in   string
		want Comparison
	}{
		{"gt", GreaterThan}, {">", GreaterThan},
		{"lt", LessThan}, {"<", LessThan},
		{"ge", GreaterOrEqual}, {">=", GreaterOrEqual},
		{"le", LessOrEqual}, {"<=", LessOrEqual},
		{"eq", Equal}, {"==", Equal}, {"=", Equal},
		{"ne", NotEqual}, {"!=", NotEqual},
	}
	for _, tt := range tests {
		got, err := ParseComparison(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseComparison("between")
	var invalidErr *InvalidInputError
	require.ErrorAs(t, err, &invalidErr)
}
