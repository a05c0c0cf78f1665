package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/internal/synth"
	"github.com/visbench/visbench/pkg/types"
)

func testRef(t *testing.T, ts, bl, ch, pol uint32) *synth.Reference {
	t.Helper()
	shape, err := types.NewShape(ts, bl, ch, pol)
	require.NoError(t, err)
	ref, err := synth.Synthesize(shape)
	require.NoError(t, err)
	return ref
}

func TestCellUnits(t *testing.T) {
	ref := testRef(t, 2, 3, 4, 2)

	units, err := Units(ref.Time, ref.Shape, types.ModeCell, Options{})
	require.NoError(t, err)
	require.Len(t, units, 6)
	for i, u := range units {
		assert.Equal(t, i, u.Start)
		assert.Equal(t, i+1, u.End)
		assert.Equal(t, []float64{float64(i)}, u.Values)
	}
}

func TestChunkUnitsTile(t *testing.T) {
	ref := testRef(t, 4, 3, 2, 2)

	units, err := Units(ref.Uvw, ref.Shape, types.ModeCells, Options{})
	require.NoError(t, err)
	require.Len(t, units, 4, "one unit per time step")

	next := 0
	for _, u := range units {
		assert.Equal(t, next, u.Start, "chunks must tile with no gap or overlap")
		assert.Equal(t, 3, u.Rows(), "each chunk spans all baselines")
		assert.Len(t, u.Values, 3*types.UvwLen)
		next = u.End
	}
	assert.Equal(t, ref.Shape.RowCount(), next)
}

func TestColumnUnit(t *testing.T) {
	ref := testRef(t, 2, 3, 4, 2)

	units, err := Units(ref.Data, ref.Shape, types.ModeColumn, Options{})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, 0, units[0].Start)
	assert.Equal(t, 6, units[0].End)
	assert.Equal(t, ref.Data.Values(), units[0].Values)
}

func TestSingleRowShapes(t *testing.T) {
	// T=1 and B=1 still produce well-formed plans.
	ref := testRef(t, 1, 1, 1, 1)
	for _, mode := range []types.WriteMode{types.ModeCell, types.ModeCells, types.ModeColumn} {
		units, err := Units(ref.Time, ref.Shape, mode, Options{})
		require.NoError(t, err, "mode %s", mode)
		require.Len(t, units, 1, "mode %s", mode)
		assert.Equal(t, 0, units[0].Start)
		assert.Equal(t, 1, units[0].End)
	}
}

func TestStreamingReusesOneBuffer(t *testing.T) {
	ref := testRef(t, 3, 2, 4, 2)

	units, err := Units(ref.Data, ref.Shape, types.ModeCell, Options{Streaming: true})
	require.NoError(t, err)
	require.Len(t, units, 6)
	for _, u := range units {
		assert.Len(t, u.Values, ref.Data.ElemsPerRow())
		// Every unit reuses the same scratch buffer verbatim.
		assert.Same(t, &units[0].Values[0], &u.Values[0])
	}
	// The scratch buffer is not a view of the reference.
	assert.NotSame(t, &ref.Data.Values()[0], &units[0].Values[0])
}

func TestStreamingColumnWarnsAndDegrades(t *testing.T) {
	ref := testRef(t, 2, 2, 2, 2)

	var warned []string
	opts := Options{
		Streaming: true,
		Logf: func(format string, args ...interface{}) {
			warned = append(warned, fmt.Sprintf(format, args...))
		},
	}
	units, err := Units(ref.Time, ref.Shape, types.ModeColumn, opts)
	require.NoError(t, err, "streaming COLUMN is a warning, not a failure")
	require.Len(t, warned, 1)
	require.Len(t, units, 1)
	assert.Equal(t, ref.Time.Values(), units[0].Values, "payload degrades to the real buffer")
}

func TestRowwiseAlignment(t *testing.T) {
	ref := testRef(t, 3, 2, 4, 2)

	units, err := Rowwise(ref, types.ModeCells, Options{})
	require.NoError(t, err)
	require.Len(t, units, 3)
	for _, u := range units {
		assert.Len(t, u.Time, u.Rows())
		assert.Len(t, u.Uvw, u.Rows()*types.UvwLen)
		assert.Len(t, u.Data, u.Rows()*ref.Data.ElemsPerRow())
		// Payloads stay row-aligned with the range.
		assert.Equal(t, float64(u.Start), u.Time[0])
	}
}

func TestRowwiseRejectsColumn(t *testing.T) {
	ref := testRef(t, 2, 2, 2, 2)

	_, err := Rowwise(ref, types.ModeColumn, Options{})
	require.Error(t, err)
	assert.Equal(t, verrors.CodeColumnRowwise, verrors.GetCode(err))
}
