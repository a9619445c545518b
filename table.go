package vizpipe

import (
	"encoding/json"
	"sort"

	"github.com/samber/lo"
)

// Table is an immutable, ordered list of rows sharing one set of columns.
//
// Every accessor returns copies, so a Table can be shared freely
// between goroutines and pipeline stages.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable builds a Table with the given column order. Each row must
// hold exactly one value per column.
func NewTable(columns []string, rows ...[]Value) (Table, error) {
	if dups := lo.FindDuplicates(columns); len(dups) > 0 {
		return Table{}, SchemaErr("duplicate column names", map[string]any{
			"columns": dups,
		})
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}

	copied := make([][]Value, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return Table{}, SchemaErr("row does not match the table columns", map[string]any{
				"row":            i,
				"expectedValues": len(columns),
				"gotValues":      len(row),
			})
		}
		copied[i] = append([]Value(nil), row...)
	}

	return Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// FromMaps builds a Table out of row maps. All rows must have the
// same set of keys; the resulting columns are sorted by name.
func FromMaps(rows []map[string]Value) (Table, error) {
	if len(rows) == 0 {
		return NewTable(nil)
	}

	columns := lo.Keys(rows[0])
	sort.Strings(columns)

	values := make([][]Value, len(rows))
	for i, row := range rows {
		var missing []string
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				missing = append(missing, col)
			}
		}

		if len(missing) > 0 || len(row) != len(columns) {
			extra, _ := lo.Difference(lo.Keys(row), columns)
			sort.Strings(extra)
			return Table{}, SchemaErr("rows disagree on the set of columns", map[string]any{
				"row":            i,
				"missingColumns": missing,
				"extraColumns":   extra,
			})
		}

		values[i] = make([]Value, len(columns))
		for j, col := range columns {
			values[i][j] = row[col]
		}
	}

	return NewTable(columns, values...)
}

// Columns returns the column names in table order.
func (t Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t Table) Len() int {
	return len(t.rows)
}

func (t Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// At returns the value at the given row and column,
// or Missing if the column does not exist.
func (t Table) At(row int, column string) Value {
	j, ok := t.index[column]
	if !ok {
		return Missing
	}

	return t.rows[row][j]
}

// Row returns a copy of the i-th row keyed by column name.
func (t Table) Row(i int) map[string]Value {
	row := make(map[string]Value, len(t.columns))
	for j, col := range t.columns {
		row[col] = t.rows[i][j]
	}

	return row
}

// Column returns a copy of every value in the named column,
// or nil if the column does not exist.
func (t Table) Column(name string) []Value {
	j, ok := t.index[name]
	if !ok {
		return nil
	}

	values := make([]Value, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[j]
	}

	return values
}

// IsNumeric reports whether every non-missing value of the
// column is a number. A column holding only missing values counts
// as numeric.
func (t Table) IsNumeric(name string) bool {
	j, ok := t.index[name]
	if !ok {
		return false
	}

	for _, row := range t.rows {
		if kind := row[j].Kind(); kind != KindNumber && kind != KindMissing {
			return false
		}
	}

	return true
}

// Filter returns a new Table with the rows for which keep returns true.
// The first error returned by keep aborts the filtering.
func (t Table) Filter(keep func(row map[string]Value) (bool, error)) (Table, error) {
	var rows [][]Value
	for i, row := range t.rows {
		ok, err := keep(t.Row(i))
		if err != nil {
			return Table{}, err
		}

		if ok {
			rows = append(rows, row)
		}
	}

	return NewTable(t.columns, rows...)
}

// MarshalJSON encodes the table as a list of row objects.
func (t Table) MarshalJSON() ([]byte, error) {
	rows := make([]map[string]Value, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}

	return json.Marshal(rows)
}
