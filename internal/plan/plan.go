// Package plan implements the access-pattern strategy: it partitions a
// synthesized field into a finite sequence of write units at a chosen
// granularity. Payloads are non-copying views of the reference buffer, so a
// plan is cheap to regenerate identically for every iteration of the
// benchmark loop.
package plan

import (
	"fmt"
	"log"

	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/pkg/types"
)

// WriteUnit is one store commit: a contiguous target row range and the
// payload to write into it. Units emitted for one field in one pass tile
// [0, rowCount) in increasing order with no gaps or overlaps.
type WriteUnit[E types.Element] struct {
	Start  int
	End    int
	Values []E
}

// Rows returns the number of rows the unit spans.
func (u WriteUnit[E]) Rows() int { return u.End - u.Start }

// Options tunes how a plan is generated.
type Options struct {
	// Streaming replaces every payload with one small fixed buffer reused
	// verbatim across all units. The content is junk, useful only for
	// measuring store-write throughput; streamed plans must never be
	// validated.
	Streaming bool

	// Logf receives the warning when streaming is requested for a plan
	// that cannot honor it. Defaults to log.Printf.
	Logf func(format string, args ...interface{})
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Units plans the write sequence for a single field at the given
// granularity. The shape's row count must match the field's.
func Units[E types.Element](f *types.Field[E], shape types.Shape, mode types.WriteMode, opts Options) ([]WriteUnit[E], error) {
	rows := shape.RowCount()
	if rows != f.Rows() {
		return nil, verrors.NewInternalError(
			fmt.Sprintf("plan %s: shape has %d rows, field has %d", f.Kind(), rows, f.Rows()), nil)
	}

	switch mode {
	case types.ModeCell:
		return cellUnits(f, rows, opts)
	case types.ModeCells:
		return chunkUnits(f, shape, opts)
	case types.ModeColumn:
		return columnUnit(f, rows, opts)
	default:
		return nil, verrors.NewPlanError(verrors.CodeBadRowRange,
			fmt.Sprintf("unsupported write mode %s", mode))
	}
}

// cellUnits emits one unit per row.
func cellUnits[E types.Element](f *types.Field[E], rows int, opts Options) ([]WriteUnit[E], error) {
	var scratch []E
	if opts.Streaming {
		scratch = make([]E, f.ElemsPerRow())
	}
	units := make([]WriteUnit[E], 0, rows)
	for i := 0; i < rows; i++ {
		payload := scratch
		if payload == nil {
			v, err := f.Row(i)
			if err != nil {
				return nil, err
			}
			payload = v
		}
		units = append(units, WriteUnit[E]{Start: i, End: i + 1, Values: payload})
	}
	return units, nil
}

// chunkUnits emits one unit per time-step, spanning all baselines at that
// time. The ranges exactly tile [0, rowCount).
func chunkUnits[E types.Element](f *types.Field[E], shape types.Shape, opts Options) ([]WriteUnit[E], error) {
	steps := int(shape.TimeSteps)
	bls := int(shape.Baselines)
	var scratch []E
	if opts.Streaming {
		scratch = make([]E, bls*f.ElemsPerRow())
	}
	units := make([]WriteUnit[E], 0, steps)
	for t := 0; t < steps; t++ {
		start, end := t*bls, (t+1)*bls
		payload := scratch
		if payload == nil {
			v, err := f.Slice(start, end)
			if err != nil {
				return nil, err
			}
			payload = v
		}
		units = append(units, WriteUnit[E]{Start: start, End: end, Values: payload})
	}
	return units, nil
}

// columnUnit emits the single whole-field unit. A full-column commit
// inherently materializes the whole field, so streaming degrades to the real
// buffer with a warning rather than an error.
func columnUnit[E types.Element](f *types.Field[E], rows int, opts Options) ([]WriteUnit[E], error) {
	if opts.Streaming {
		opts.logf("plan %s: COLUMN writes cannot stream, using the full reference buffer", f.Kind())
	}
	v, err := f.Slice(0, rows)
	if err != nil {
		return nil, err
	}
	return []WriteUnit[E]{{Start: 0, End: rows, Values: v}}, nil
}
