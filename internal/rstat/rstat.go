// Package rstat is the boundary to the statistical runtime that produced the
// simulation output. Callers only read a data file, preview it and export it
// as CSV.
package rstat

import "context"

// Source deserializes statistical-language data files.
type Source interface {
	Read(ctx context.Context, path string) (Frame, error)
}

// Frame is a table held by the runtime.
type Frame interface {
	// Head renders the first n rows for logging.
	Head(n int) string
	// WriteText exports the table to path as CSV with a header row.
	WriteText(ctx context.Context, path string) error
}
