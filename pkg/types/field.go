package types

import "fmt"

// Element constrains the numeric element types a field buffer can hold.
type Element interface {
	~float32 | ~float64 | ~complex64
}

// Field is a dense, row-major, multi-dimensional buffer addressed by row
// index. It is allocated and filled once per run and read-only afterwards;
// consumers take non-copying views over it rather than mutating it.
type Field[E Element] struct {
	kind        FieldKind
	rows        int
	rowShape    []int
	elemsPerRow int
	values      []E
}

// Concrete field types for the three logical columns.
type (
	TimeField = Field[float64]
	UvwField  = Field[float32]
	DataField = Field[complex64]
)

// NewField constructs a field over an existing backing buffer. rowShape is
// empty for a scalar field. The buffer length must equal rows times the
// per-row element count; any disagreement is a shape error, never patched up.
func NewField[E Element](kind FieldKind, rows int, rowShape []int, values []E) (*Field[E], error) {
	if rows <= 0 {
		return nil, fmt.Errorf("field %s: row count must be positive, got %d", kind, rows)
	}
	elemsPerRow := 1
	for _, d := range rowShape {
		if d <= 0 {
			return nil, fmt.Errorf("field %s: row shape %v has a non-positive dimension", kind, rowShape)
		}
		elemsPerRow *= d
	}
	if len(values) != rows*elemsPerRow {
		return nil, fmt.Errorf("field %s: buffer holds %d elements, shape %d rows x %d requires %d",
			kind, len(values), rows, elemsPerRow, rows*elemsPerRow)
	}
	return &Field[E]{
		kind:        kind,
		rows:        rows,
		rowShape:    append([]int(nil), rowShape...),
		elemsPerRow: elemsPerRow,
		values:      values,
	}, nil
}

// Kind returns the logical column this field belongs to.
func (f *Field[E]) Kind() FieldKind { return f.kind }

// Rows returns the row count.
func (f *Field[E]) Rows() int { return f.rows }

// ElemsPerRow returns the number of elements in one row.
func (f *Field[E]) ElemsPerRow() int { return f.elemsPerRow }

// RowShape returns a copy of the per-row shape (empty for scalars).
func (f *Field[E]) RowShape() []int { return append([]int(nil), f.rowShape...) }

// Values exposes the full backing buffer. Callers must treat it as
// read-only; the validator compares against it for the rest of the run.
func (f *Field[E]) Values() []E { return f.values }

// Row returns the view over a single row.
func (f *Field[E]) Row(i int) ([]E, error) {
	return f.Slice(i, i+1)
}

// Slice returns the non-copying view over rows [start, end). Bounds are
// checked here, once; the returned slice aliases the backing buffer.
func (f *Field[E]) Slice(start, end int) ([]E, error) {
	if start < 0 || end > f.rows || start >= end {
		return nil, fmt.Errorf("field %s: row range [%d, %d) out of bounds for %d rows",
			f.kind, start, end, f.rows)
	}
	return f.values[start*f.elemsPerRow : end*f.elemsPerRow], nil
}
