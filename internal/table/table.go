// Package table accumulates extracted rows into ordered tables and
// joins them on shared key columns.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Table holds rows under a fixed column schema, in insertion order.
// Cell values are scalars (string, int, int64, float64) or nil.
type Table struct {
	columns  []string
	colIndex map[string]int
	rows     [][]interface{}
}

// New creates an empty table with the given column schema.
func New(columns ...string) *Table {
	colIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		colIndex[col] = i
	}
	return &Table{columns: columns, colIndex: colIndex}
}

// Columns returns the column schema.
func (t *Table) Columns() []string {
	return t.columns
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Row returns row i as a column-name keyed map.
func (t *Table) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(t.columns))
	for j, col := range t.columns {
		row[col] = t.rows[i][j]
	}
	return row
}

// Cell returns the value at row i, named column.
func (t *Table) Cell(i int, column string) interface{} {
	j, ok := t.colIndex[column]
	if !ok {
		return nil
	}
	return t.rows[i][j]
}

// Append adds one row. Columns absent from the map become nil; a key
// outside the schema is rejected.
func (t *Table) Append(row map[string]interface{}) error {
	for key := range row {
		if _, ok := t.colIndex[key]; !ok {
			return fmt.Errorf("column %q is not in the table schema", key)
		}
	}
	cells := make([]interface{}, len(t.columns))
	for j, col := range t.columns {
		cells[j] = row[col]
	}
	t.rows = append(t.rows, cells)
	return nil
}

// AppendAll adds rows in order.
func (t *Table) AppendAll(rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := t.Append(row); err != nil {
			return err
		}
	}
	return nil
}

// LeftJoin joins two tables on the named key columns.
//
// Output row order follows the left table. A left row without a match
// carries nil for every non-key right column; a left row with several
// matches fans out into one output row per match, matches in right
// insertion order. Unmatched right rows never surface.
func LeftJoin(left, right *Table, keys ...string) (*Table, error) {
	for _, key := range keys {
		if _, ok := left.colIndex[key]; !ok {
			return nil, fmt.Errorf("join key %q missing from left table", key)
		}
		if _, ok := right.colIndex[key]; !ok {
			return nil, fmt.Errorf("join key %q missing from right table", key)
		}
	}

	keySet := make(map[string]bool, len(keys))
	for _, key := range keys {
		keySet[key] = true
	}
	var rightValueCols []string
	for _, col := range right.columns {
		if !keySet[col] {
			rightValueCols = append(rightValueCols, col)
		}
	}

	joined := New(append(append([]string{}, left.columns...), rightValueCols...)...)

	// Right rows grouped by key, preserving insertion order per key.
	rightByKey := make(map[string][]int, right.NumRows())
	for i := range right.rows {
		k := right.rowKey(i, keys)
		rightByKey[k] = append(rightByKey[k], i)
	}

	for i := range left.rows {
		matches := rightByKey[left.rowKey(i, keys)]
		if len(matches) == 0 {
			cells := make([]interface{}, 0, len(joined.columns))
			cells = append(cells, left.rows[i]...)
			for range rightValueCols {
				cells = append(cells, nil)
			}
			joined.rows = append(joined.rows, cells)
			continue
		}
		for _, ri := range matches {
			cells := make([]interface{}, 0, len(joined.columns))
			cells = append(cells, left.rows[i]...)
			for _, col := range rightValueCols {
				cells = append(cells, right.rows[ri][right.colIndex[col]])
			}
			joined.rows = append(joined.rows, cells)
		}
	}
	return joined, nil
}

// rowKey builds a composite key over the named columns. Values are
// compared by canonical string form so an int64 position on one side
// matches an int on the other.
func (t *Table) rowKey(i int, keys []string) string {
	parts := make([]string, len(keys))
	for j, key := range keys {
		parts[j] = FormatCell(t.rows[i][t.colIndex[key]])
	}
	return strings.Join(parts, "\x00")
}

// FormatCell renders a cell value for keys and delimited output.
// nil renders as the empty string.
func FormatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
