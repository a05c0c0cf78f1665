package harness

import (
	"fmt"

	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/internal/plan"
	"github.com/visbench/visbench/internal/store"
	"github.com/visbench/visbench/pkg/types"
)

// fillPass commits one full write pass for the configured target. Plans are
// regenerated every pass, so no state leaks between benchmark iterations.
func (r *Runner) fillPass() error {
	if r.cfg.Target == types.TargetRowwise {
		return r.fillRowwise()
	}
	for _, kind := range r.cfg.Target.FieldKinds() {
		if err := r.fillField(kind); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) fillField(kind types.FieldKind) error {
	opts := r.planOpts()
	switch kind {
	case types.KindTime:
		units, err := plan.Units(r.ref.Time, r.cfg.Shape, r.cfg.WriteMode, opts)
		if err != nil {
			return err
		}
		// Scalar columns take contiguous-range bulk commits.
		return applyUnits(r.tab.Time(), units, r.cfg.WriteMode, false)
	case types.KindUvw:
		units, err := plan.Units(r.ref.Uvw, r.cfg.Shape, r.cfg.WriteMode, opts)
		if err != nil {
			return err
		}
		return applyUnits(r.tab.Uvw(), units, r.cfg.WriteMode, true)
	case types.KindData:
		units, err := plan.Units(r.ref.Data, r.cfg.Shape, r.cfg.WriteMode, opts)
		if err != nil {
			return err
		}
		return applyUnits(r.tab.Data(), units, r.cfg.WriteMode, true)
	default:
		return verrors.NewInternalError(fmt.Sprintf("fill: unknown field kind %v", kind), nil)
	}
}

// fillRowwise writes coordinated units for all three fields per row or per
// chunk, preserving row alignment across them.
func (r *Runner) fillRowwise() error {
	units, err := plan.Rowwise(r.ref, r.cfg.WriteMode, r.planOpts())
	if err != nil {
		return err
	}
	for _, u := range units {
		if r.cfg.WriteMode == types.ModeCell {
			if err := r.tab.Time().PutCell(u.Start, u.Time); err != nil {
				return err
			}
			if err := r.tab.Uvw().PutCell(u.Start, u.Uvw); err != nil {
				return err
			}
			if err := r.tab.Data().PutCell(u.Start, u.Data); err != nil {
				return err
			}
			continue
		}
		rows := unitRows(u.Start, u.End)
		if err := r.tab.Time().PutRange(u.Start, u.End, u.Time); err != nil {
			return err
		}
		if err := r.tab.Uvw().PutRows(rows, u.Uvw); err != nil {
			return err
		}
		if err := r.tab.Data().PutRows(rows, u.Data); err != nil {
			return err
		}
	}
	return nil
}

// applyUnits commits a planned sequence against one column, in row-range
// order. For chunked writes, rowList selects the explicit-row-list bulk
// commit instead of the contiguous-range one: scalar columns take ranges,
// array columns take row sets, mirroring the bulk operations table stores
// typically expose per column kind.
func applyUnits[E types.Element](col store.Column[E], units []plan.WriteUnit[E], mode types.WriteMode, rowList bool) error {
	for _, u := range units {
		var err error
		switch {
		case mode == types.ModeCell:
			err = col.PutCell(u.Start, u.Values)
		case mode == types.ModeColumn:
			err = col.PutColumn(u.Values)
		case rowList:
			err = col.PutRows(unitRows(u.Start, u.End), u.Values)
		default:
			err = col.PutRange(u.Start, u.End, u.Values)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func unitRows(start, end int) []int {
	rows := make([]int, end-start)
	for i := range rows {
		rows[i] = start + i
	}
	return rows
}
