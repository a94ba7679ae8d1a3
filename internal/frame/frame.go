// Package frame provides the generic in-memory table exchanged between the
// converter and the comparator.
package frame

import (
	"fmt"
	"math"
	"strconv"
)

// Type is the storage type of a column.
type Type int

const (
	TypeInt Type = iota
	TypeFloat
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Column is a named sequence of cells. A nil cell is a missing value; other
// cells hold int64, float64 or string according to Type.
type Column struct {
	Name   string
	Type   Type
	Values []any
}

// Len returns the number of cells.
func (c *Column) Len() int {
	return len(c.Values)
}

// Table is an ordered set of equal-length columns.
type Table struct {
	Columns []*Column
}

// New builds a table from columns and validates it.
func New(columns ...*Column) (*Table, error) {
	t := &Table{Columns: columns}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that column names are unique and lengths agree.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		if c == nil {
			return fmt.Errorf("column %d is nil", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if c.Len() != t.Columns[0].Len() {
			return fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.Columns[0].Len())
		}
	}
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Head returns a table holding the first n rows. The cells are shared.
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	if n < 0 {
		n = 0
	}
	head := &Table{Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		head.Columns[i] = &Column{Name: c.Name, Type: c.Type, Values: c.Values[:n]}
	}
	return head
}

// FormatValue renders a cell the way it is written to text files.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NA"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
