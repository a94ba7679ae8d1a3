package frame

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultPreviewRows is the number of rows shown in log previews.
const DefaultPreviewRows = 5

// Preview renders the first n rows as a fixed-width table followed by the
// table's shape.
func (t *Table) Preview(n int) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.Style().Format.Header = text.FormatDefault

	header := make(table.Row, t.NumCols())
	for i, name := range t.Names() {
		header[i] = name
	}
	w.AppendHeader(header)

	head := t.Head(n)
	for r := 0; r < head.NumRows(); r++ {
		row := make(table.Row, head.NumCols())
		for c, col := range head.Columns {
			row[c] = FormatValue(col.Values[r])
		}
		w.AppendRow(row)
	}

	return fmt.Sprintf("%s\n[%d rows x %d columns]", w.Render(), t.NumRows(), t.NumCols())
}
