package domain

import "fmt"

// Comparison selects the predicate applied by Filter.
type Comparison int

const (
	GreaterThan Comparison = iota
	LessThan
	GreaterOrEqual
	LessOrEqual
	Equal
	NotEqual
)

// ParseComparison maps the CLI spellings ("gt", ">", "ge", ">=", ...) to a
// Comparison.
func ParseComparison(s string) (Comparison, error) {
	switch s {
	case "gt", ">":
		return GreaterThan, nil
	case "lt", "<":
		return LessThan, nil
	case "ge", ">=":
		return GreaterOrEqual, nil
	case "le", "<=":
		return LessOrEqual, nil
	case "eq", "==", "=":
		return Equal, nil
	case "ne", "!=":
		return NotEqual, nil
	}
	return 0, &InvalidInputError{Reason: fmt.Sprintf("unknown comparison %q", s)}
}

func (c Comparison) String() string {
	switch c {
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case GreaterOrEqual:
		return ">="
	case LessOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	}
	return "?"
}

func (c Comparison) holds(v, threshold float64) bool {
	switch c {
	case GreaterThan:
		return v > threshold
	case LessThan:
		return v < threshold
	case GreaterOrEqual:
		return v >= threshold
	case LessOrEqual:
		return v <= threshold
	case Equal:
		return v == threshold
	case NotEqual:
		return v != threshold
	}
	return false
}

// Filter returns a new table containing only the rows whose named column
// satisfies the comparison against the threshold, preserving row order.
//
// The column must exist in the table (SchemaError otherwise). Missing and
// non-numeric cells fail the predicate silently: partial data is expected in
// field datasets and must not abort the pipeline. An empty result is a valid
// empty table, not an error.
func Filter(t CombinedTable, column string, cmp Comparison, threshold float64) (CombinedTable, error) {
	if !hasColumn(t, column) {
		return CombinedTable{}, &SchemaError{Field: column, Reason: "column not present in combined table"}
	}

	out := CombinedTable{Columns: t.Columns, Rows: []Row{}}
	for _, row := range t.Rows {
		v, ok := row.Cell(column).Float()
		if !ok {
			continue
		}
		if cmp.holds(v, threshold) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

func hasColumn(t CombinedTable, column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}
