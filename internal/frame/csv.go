package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// missingTokens are read as missing cells.
var missingTokens = map[string]bool{
	"":    true,
	"NA":  true,
	"NaN": true,
}

// ReadCSV reads a header row followed by one row per observation. Column
// types are inferred over the whole column.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	raw := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		for i, cell := range record {
			raw[i] = append(raw[i], cell)
		}
	}

	columns := make([]*Column, len(header))
	for i, name := range header {
		columns[i] = inferColumn(name, raw[i])
	}
	return New(columns...)
}

// ReadCSVFile reads a CSV file from disk.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteCSV writes the table with a header row. Missing cells are written as NA.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return err
	}
	row := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c, col := range t.Columns {
			row[c] = FormatValue(col.Values[r])
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the table to path, truncating any existing file.
func WriteCSVFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func inferColumn(name string, cells []string) *Column {
	col := &Column{Name: name, Type: inferType(cells), Values: make([]any, len(cells))}
	for i, cell := range cells {
		if missingTokens[cell] {
			continue
		}
		switch col.Type {
		case TypeInt:
			v, _ := strconv.ParseInt(cell, 10, 64)
			col.Values[i] = v
		case TypeFloat:
			v, _ := strconv.ParseFloat(cell, 64)
			col.Values[i] = v
		default:
			col.Values[i] = cell
		}
	}
	return col
}

// inferType picks the narrowest type every non-missing cell parses as.
// An all-missing column is float, matching how numeric readers treat NA.
func inferType(cells []string) Type {
	isInt, isFloat := true, true
	for _, cell := range cells {
		if missingTokens[cell] {
			continue
		}
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
				break
			}
		}
	}
	switch {
	case isInt && hasValue(cells):
		return TypeInt
	case isFloat:
		return TypeFloat
	default:
		return TypeString
	}
}

func hasValue(cells []string) bool {
	for _, cell := range cells {
		if !missingTokens[cell] {
			return true
		}
	}
	return false
}
