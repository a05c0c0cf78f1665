// Package store provides the columnar table the benchmark writes against.
//
// The harness depends only on the narrow Column/Table contract below; the
// SQLite implementation is one possible backend. A table is a benchmarking
// fixture, not durable storage: it is destroyed and recreated fresh at the
// start of every run.
package store

import "github.com/visbench/visbench/pkg/types"

// Column is the per-field write/read surface the access-pattern strategy
// drives. Values are always flat row-major element slices; a cell payload
// holds exactly one row's elements, a range payload holds one row's elements
// per covered row.
type Column[E types.Element] interface {
	// PutCell writes one row.
	PutCell(row int, values []E) error

	// PutRange writes the contiguous row range [start, end).
	PutRange(start, end int, values []E) error

	// PutRows writes an explicit row list, one row's elements per entry.
	// Some stores address bulk operations by row set rather than range;
	// both commit styles are part of the write-pattern surface.
	PutRows(rows []int, values []E) error

	// PutColumn writes the whole column in one call.
	PutColumn(values []E) error

	// ReadColumn reads the whole column back in row order. Rows never
	// written are omitted from the result, so an incomplete fill surfaces
	// as a shape mismatch during validation.
	ReadColumn() ([]E, error)
}

// Table is a fixed-row-count table holding the three observation columns.
type Table interface {
	Time() Column[float64]
	Uvw() Column[float32]
	Data() Column[complex64]
	RowCount() int
	Close() error
}
