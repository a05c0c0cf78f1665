package plan

import (
	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/internal/synth"
	"github.com/visbench/visbench/pkg/types"
)

// RowwiseUnit carries the coordinated payloads for one row range across all
// three fields, preserving row alignment between them.
type RowwiseUnit struct {
	Start int
	End   int
	Time  []float64
	Uvw   []float32
	Data  []complex64
}

// Rows returns the number of rows the unit spans.
func (u RowwiseUnit) Rows() int { return u.End - u.Start }

// Rowwise plans the cross-field write sequence: for every row (CELL) or
// time-step chunk (CELLS), one coordinated unit covering TIME, UVW and DATA
// together. COLUMN granularity is incompatible with rowwise writing and
// fails fast; it is a programming error upstream if it reaches the store.
func Rowwise(ref *synth.Reference, mode types.WriteMode, opts Options) ([]RowwiseUnit, error) {
	if mode == types.ModeColumn {
		return nil, verrors.NewPlanError(verrors.CodeColumnRowwise,
			"COLUMN granularity cannot be combined with ROWWISE writing")
	}

	timeUnits, err := Units(ref.Time, ref.Shape, mode, opts)
	if err != nil {
		return nil, err
	}
	uvwUnits, err := Units(ref.Uvw, ref.Shape, mode, opts)
	if err != nil {
		return nil, err
	}
	dataUnits, err := Units(ref.Data, ref.Shape, mode, opts)
	if err != nil {
		return nil, err
	}

	units := make([]RowwiseUnit, len(timeUnits))
	for i := range units {
		units[i] = RowwiseUnit{
			Start: timeUnits[i].Start,
			End:   timeUnits[i].End,
			Time:  timeUnits[i].Values,
			Uvw:   uvwUnits[i].Values,
			Data:  dataUnits[i].Values,
		}
	}
	return units, nil
}
