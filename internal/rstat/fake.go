package rstat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AndreyAkinshin/simregress/internal/frame"
)

// Fake is an in-memory Source returning canned tables keyed by base name.
type Fake struct {
	mu     sync.Mutex
	tables map[string]*frame.Table
	reads  []string

	// WriteEmpty makes WriteText produce zero-byte files.
	WriteEmpty bool
}

// NewFake creates a Fake serving the given tables.
func NewFake(tables map[string]*frame.Table) *Fake {
	if tables == nil {
		tables = make(map[string]*frame.Table)
	}
	return &Fake{tables: tables}
}

// Add registers a table under a source base name.
func (f *Fake) Add(name string, t *frame.Table) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[name] = t
}

// Reads returns the paths passed to Read, in order.
func (f *Fake) Reads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reads...)
}

func (f *Fake) Read(_ context.Context, path string) (Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, path)

	t, ok := f.tables[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("fake: no table for %s", filepath.Base(path))
	}
	return &fakeFrame{table: t, empty: f.WriteEmpty}, nil
}

type fakeFrame struct {
	table *frame.Table
	empty bool
}

func (f *fakeFrame) Head(n int) string {
	return f.table.Preview(n)
}

func (f *fakeFrame) WriteText(_ context.Context, path string) error {
	if f.empty {
		return os.WriteFile(path, nil, 0o644)
	}
	return frame.WriteCSVFile(path, f.table)
}
