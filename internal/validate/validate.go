// Package validate re-reads committed columns and compares them element by
// element against the synthesized reference.
//
// Comparison is exact equality, intentionally: the synthesizer's values are
// exactly representable and the store round-trips bits, so any tolerance
// would only hide store defects. A mismatch is an expected outcome of a
// validation run, so it is reported as a result value rather than an error;
// errors are reserved for store read failures.
package validate

import (
	"fmt"
	"log"
	"math"
	"math/cmplx"

	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/internal/store"
	"github.com/visbench/visbench/internal/synth"
	"github.com/visbench/visbench/pkg/types"
)

// Mismatch is the first divergence found between a read-back column and the
// reference, either in shape or in a single element value.
type Mismatch interface {
	Field() types.FieldKind
	Details() string
}

// ShapeMismatch reports a read-back element count that differs from the
// reference shape. It aborts validation of the field immediately.
type ShapeMismatch struct {
	Kind        types.FieldKind
	GotElems    int
	WantRows    int
	ElemsPerRow int
}

func (m *ShapeMismatch) Field() types.FieldKind { return m.Kind }

func (m *ShapeMismatch) Details() string {
	return fmt.Sprintf("%s: read back %d elements, reference shape is %d rows x %d elements (%d)",
		m.Kind, m.GotElems, m.WantRows, m.ElemsPerRow, m.WantRows*m.ElemsPerRow)
}

// ValueMismatch reports the first element whose read-back value differs from
// the reference. Validation short-circuits here; remaining rows are not
// scanned.
type ValueMismatch struct {
	Kind     types.FieldKind
	Row      int
	Indices  []int
	Actual   string
	Expected string
	AbsDiff  float64
}

func (m *ValueMismatch) Field() types.FieldKind { return m.Kind }

func (m *ValueMismatch) Details() string {
	if len(m.Indices) == 0 {
		return fmt.Sprintf("%s: row %d: got %s, want %s (abs diff %g)",
			m.Kind, m.Row, m.Actual, m.Expected, m.AbsDiff)
	}
	return fmt.Sprintf("%s: row %d indices %v: got %s, want %s (abs diff %g)",
		m.Kind, m.Row, m.Indices, m.Actual, m.Expected, m.AbsDiff)
}

// Options tunes validation observability. Verbose logs every row comparison,
// matched or not; correctness does not depend on it.
type Options struct {
	Verbose bool
	Logf    func(format string, args ...interface{})
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Column compares one read-back column against its reference field,
// returning nil when every element matches.
func Column[E types.Element](got []E, ref *types.Field[E], opts Options) Mismatch {
	if len(got) != len(ref.Values()) {
		return &ShapeMismatch{
			Kind:        ref.Kind(),
			GotElems:    len(got),
			WantRows:    ref.Rows(),
			ElemsPerRow: ref.ElemsPerRow(),
		}
	}

	want := ref.Values()
	epr := ref.ElemsPerRow()
	rowShape := ref.RowShape()
	for i, actual := range got {
		expected := want[i]
		row, offset := i/epr, i%epr
		if actual != expected {
			return &ValueMismatch{
				Kind:     ref.Kind(),
				Row:      row,
				Indices:  rowIndices(rowShape, offset),
				Actual:   fmt.Sprintf("%v", actual),
				Expected: fmt.Sprintf("%v", expected),
				AbsDiff:  absDiff(actual, expected),
			}
		}
		if opts.Verbose && offset == epr-1 {
			opts.logf("validate %s: row %d ok", ref.Kind(), row)
		}
	}
	return nil
}

// Field reads one field back from the store whole and compares it.
func Field(tab store.Table, ref *synth.Reference, kind types.FieldKind, opts Options) (Mismatch, error) {
	switch kind {
	case types.KindTime:
		got, err := tab.Time().ReadColumn()
		if err != nil {
			return nil, err
		}
		return Column(got, ref.Time, opts), nil
	case types.KindUvw:
		got, err := tab.Uvw().ReadColumn()
		if err != nil {
			return nil, err
		}
		return Column(got, ref.Uvw, opts), nil
	case types.KindData:
		got, err := tab.Data().ReadColumn()
		if err != nil {
			return nil, err
		}
		return Column(got, ref.Data, opts), nil
	default:
		return nil, verrors.New(verrors.ErrCategoryValidation, verrors.CodeValidationFailed,
			fmt.Sprintf("unknown field kind %v", kind))
	}
}

// Table validates the given fields in order, stopping at the first mismatch.
func Table(tab store.Table, ref *synth.Reference, kinds []types.FieldKind, opts Options) (Mismatch, error) {
	for _, kind := range kinds {
		mismatch, err := Field(tab, ref, kind, opts)
		if err != nil {
			return nil, err
		}
		if mismatch != nil {
			return mismatch, nil
		}
	}
	return nil, nil
}

// rowIndices converts a flat within-row offset into per-dimension indices.
// Scalar fields have no indices.
func rowIndices(rowShape []int, offset int) []int {
	if len(rowShape) == 0 {
		return nil
	}
	indices := make([]int, len(rowShape))
	for d := len(rowShape) - 1; d >= 0; d-- {
		indices[d] = offset % rowShape[d]
		offset /= rowShape[d]
	}
	return indices
}

func absDiff[E types.Element](a, b E) float64 {
	switch x := any(a).(type) {
	case float64:
		return math.Abs(x - any(b).(float64))
	case float32:
		return math.Abs(float64(x) - float64(any(b).(float32)))
	case complex64:
		return cmplx.Abs(complex128(x) - complex128(any(b).(complex64)))
	default:
		return 0
	}
}
