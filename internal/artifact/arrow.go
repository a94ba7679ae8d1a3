package artifact

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/pkg/errors"

	"github.com/AndreyAkinshin/simregress/internal/frame"
)

// Write serializes t to path as an Arrow IPC file holding one record batch.
func Write(path string, t *frame.Table) error {
	if err := t.Validate(); err != nil {
		return errors.Wrap(err, "invalid table")
	}

	mem := memory.NewGoAllocator()
	schema, err := schemaFor(t)
	if err != nil {
		return err
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, col := range t.Columns {
		if err := appendColumn(b.Field(i), col); err != nil {
			return err
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create artifact %s", path)
	}

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "open arrow writer for %s", path)
	}
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		_ = f.Close()
		return errors.Wrapf(err, "write record to %s", path)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "finish arrow file %s", path)
	}
	return errors.Wrapf(f.Close(), "close artifact %s", path)
}

// Read loads an Arrow IPC file written by Write. Errors from opening the
// file are returned unwrapped so callers can test them with os.IsNotExist.
func Read(path string) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	mem := memory.NewGoAllocator()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.Wrapf(err, "open arrow reader for %s", path)
	}
	defer func() { _ = r.Close() }()

	schema := r.Schema()
	columns := make([]*frame.Column, schema.NumFields())
	for i, field := range schema.Fields() {
		typ, err := frameType(field.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: column %q", path, field.Name)
		}
		columns[i] = &frame.Column{Name: field.Name, Type: typ, Values: []any{}}
	}

	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: read record %d", path, i)
		}
		for j := range columns {
			columns[j].Values = appendValues(columns[j].Values, rec.Column(j))
		}
	}

	t, err := frame.New(columns...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: invalid table", path)
	}
	return t, nil
}

func schemaFor(t *frame.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, t.NumCols())
	for i, col := range t.Columns {
		var dt arrow.DataType
		switch col.Type {
		case frame.TypeInt:
			dt = arrow.PrimitiveTypes.Int64
		case frame.TypeFloat:
			dt = arrow.PrimitiveTypes.Float64
		case frame.TypeString:
			dt = arrow.BinaryTypes.String
		default:
			return nil, fmt.Errorf("column %q: unsupported type %v", col.Name, col.Type)
		}
		fields[i] = arrow.Field{Name: col.Name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

func frameType(dt arrow.DataType) (frame.Type, error) {
	switch dt.ID() {
	case arrow.INT64:
		return frame.TypeInt, nil
	case arrow.FLOAT64:
		return frame.TypeFloat, nil
	case arrow.STRING:
		return frame.TypeString, nil
	default:
		return 0, fmt.Errorf("unsupported arrow type %s", dt)
	}
}

func appendColumn(fb array.Builder, col *frame.Column) error {
	for _, v := range col.Values {
		if v == nil {
			fb.AppendNull()
			continue
		}
		switch b := fb.(type) {
		case *array.Int64Builder:
			x, ok := v.(int64)
			if !ok {
				return fmt.Errorf("column %q: %T in int column", col.Name, v)
			}
			b.Append(x)
		case *array.Float64Builder:
			x, ok := v.(float64)
			if !ok {
				return fmt.Errorf("column %q: %T in float column", col.Name, v)
			}
			b.Append(x)
		case *array.StringBuilder:
			x, ok := v.(string)
			if !ok {
				return fmt.Errorf("column %q: %T in string column", col.Name, v)
			}
			b.Append(x)
		default:
			return fmt.Errorf("column %q: unsupported builder %T", col.Name, fb)
		}
	}
	return nil
}

func appendValues(dst []any, arr arrow.Array) []any {
	for k := 0; k < arr.Len(); k++ {
		if arr.IsNull(k) {
			dst = append(dst, nil)
			continue
		}
		switch a := arr.(type) {
		case *array.Int64:
			dst = append(dst, a.Value(k))
		case *array.Float64:
			dst = append(dst, a.Value(k))
		case *array.String:
			dst = append(dst, a.Value(k))
		}
	}
	return dst
}
