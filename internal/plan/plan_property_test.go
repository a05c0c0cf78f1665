package plan

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/visbench/visbench/internal/synth"
	"github.com/visbench/visbench/pkg/types"
)

// TestProperty_UnitsTileRowSpace validates the tile property: for every
// shape and granularity, the emitted row ranges exactly partition
// [0, rowCount) in increasing order with no gaps or overlaps.
func TestProperty_UnitsTileRowSpace(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	tiles := func(ts, bl, ch, pol uint32, modeIdx int, streaming bool) bool {
		shape, err := types.NewShape(ts, bl, ch, pol)
		if err != nil {
			return false
		}
		ref, err := synth.Synthesize(shape)
		if err != nil {
			return false
		}
		mode := []types.WriteMode{types.ModeCell, types.ModeCells, types.ModeColumn}[modeIdx]
		opts := Options{Streaming: streaming, Logf: func(string, ...interface{}) {}}

		units, err := Units(ref.Uvw, shape, mode, opts)
		if err != nil {
			return false
		}
		next := 0
		for _, u := range units {
			if u.Start != next || u.End <= u.Start {
				return false
			}
			if !streaming && len(u.Values) != u.Rows()*ref.Uvw.ElemsPerRow() {
				return false
			}
			next = u.End
		}
		return next == shape.RowCount()
	}

	properties.Property("row ranges tile [0, rowCount)", prop.ForAll(
		tiles,
		gen.UInt32Range(1, 16),
		gen.UInt32Range(1, 16),
		gen.UInt32Range(1, 8),
		gen.UInt32Range(1, 4),
		gen.IntRange(0, 2),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestProperty_ReplanIdentical validates restartability: planning the same
// field twice yields identical unit sequences.
func TestProperty_ReplanIdentical(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("plans regenerate identically", prop.ForAll(
		func(ts, bl uint32, modeIdx int) bool {
			shape, err := types.NewShape(ts, bl, 2, 2)
			if err != nil {
				return false
			}
			ref, err := synth.Synthesize(shape)
			if err != nil {
				return false
			}
			mode := []types.WriteMode{types.ModeCell, types.ModeCells, types.ModeColumn}[modeIdx]

			first, err := Units(ref.Time, shape, mode, Options{})
			if err != nil {
				return false
			}
			second, err := Units(ref.Time, shape, mode, Options{})
			if err != nil {
				return false
			}
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].Start != second[i].Start || first[i].End != second[i].End {
					return false
				}
				for j := range first[i].Values {
					if first[i].Values[j] != second[i].Values[j] {
						return false
					}
				}
			}
			return true
		},
		gen.UInt32Range(1, 12),
		gen.UInt32Range(1, 12),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
