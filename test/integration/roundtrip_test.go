// Package integration exercises the full fill/read-back/compare path against
// a real SQLite-backed table.
package integration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visbench/visbench/internal/config"
	"github.com/visbench/visbench/internal/harness"
	"github.com/visbench/visbench/internal/report"
	"github.com/visbench/visbench/internal/storage"
	"github.com/visbench/visbench/internal/store"
	"github.com/visbench/visbench/internal/synth"
	"github.com/visbench/visbench/internal/tableinfo"
	"github.com/visbench/visbench/internal/validate"
	"github.com/visbench/visbench/pkg/types"
)

func runConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Shape, _ = types.NewShape(3, 2, 4, 2)
	cfg.TablePath = filepath.Join(t.TempDir(), "table.data")
	return cfg
}

func TestValidatedFillMatrix(t *testing.T) {
	cases := []struct {
		target types.Target
		mode   types.WriteMode
	}{
		{types.TargetTime, types.ModeCell},
		{types.TargetTime, types.ModeCells},
		{types.TargetTime, types.ModeColumn},
		{types.TargetUvw, types.ModeCell},
		{types.TargetUvw, types.ModeCells},
		{types.TargetData, types.ModeCell},
		{types.TargetData, types.ModeColumn},
		{types.TargetColumnwise, types.ModeCells},
		{types.TargetRowwise, types.ModeCell},
		{types.TargetRowwise, types.ModeCells},
	}
	for _, c := range cases {
		t.Run(c.target.String()+"_"+c.mode.String(), func(t *testing.T) {
			cfg := runConfig(t)
			cfg.Target = c.target
			cfg.WriteMode = c.mode
			cfg.ValidateMode = true

			runner, err := harness.New(cfg)
			require.NoError(t, err)
			rep, err := runner.Run()
			require.NoError(t, err)
			assert.Equal(t, report.OutcomePass, rep.Outcome, "mismatch: %s", rep.Mismatch)
		})
	}
}

func TestReadBackRowValue(t *testing.T) {
	// After a TIME CELL fill on shape (2,3,4,2), row 5 reads back as 5.0.
	cfg := runConfig(t)
	cfg.Shape, _ = types.NewShape(2, 3, 4, 2)
	cfg.Target = types.TargetTime
	cfg.ValidateMode = true

	runner, err := harness.New(cfg)
	require.NoError(t, err)
	_, err = runner.Run()
	require.NoError(t, err)

	tab, err := store.Open(cfg.TablePath)
	require.NoError(t, err)
	defer tab.Close()
	got, err := tab.Time().ReadColumn()
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, 5.0, got[5])
}

func TestCorruptionIsDetectedAndShortCircuits(t *testing.T) {
	cfg := runConfig(t)
	cfg.Target = types.TargetTime
	cfg.ValidateMode = true

	runner, err := harness.New(cfg)
	require.NoError(t, err)
	rep, err := runner.Run()
	require.NoError(t, err)
	require.Equal(t, report.OutcomePass, rep.Outcome)

	// Corrupt two rows directly in the backing file; validation must name
	// the first one and stop there.
	db, err := sql.Open("sqlite3", cfg.TablePath)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE cells SET time = 999 WHERE row_id IN (2, 4)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	tab, err := store.Open(cfg.TablePath)
	require.NoError(t, err)
	defer tab.Close()

	ref, err := synth.Synthesize(cfg.Shape)
	require.NoError(t, err)
	mismatch, err := validate.Field(tab, ref, types.KindTime, validate.Options{})
	require.NoError(t, err)
	require.NotNil(t, mismatch)

	vm, ok := mismatch.(*validate.ValueMismatch)
	require.True(t, ok, "got %T", mismatch)
	assert.Equal(t, 2, vm.Row)
	assert.Equal(t, "999", vm.Actual)
	assert.Equal(t, "2", vm.Expected)
	assert.InDelta(t, 997.0, vm.AbsDiff, 1e-9)
}

func TestBenchmarkPublishesReport(t *testing.T) {
	cfg := runConfig(t)
	cfg.Target = types.TargetUvw
	cfg.WriteMode = types.ModeCells
	cfg.Iterations = 1

	runner, err := harness.New(cfg)
	require.NoError(t, err)
	rep, err := runner.Run()
	require.NoError(t, err)

	sink, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, rep.Publish(ctx, sink, "runs"))

	objects, err := sink.ListObjects(ctx, "runs/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	exists, err := sink.Exists(ctx, objects[0])
	require.NoError(t, err)
	assert.True(t, exists)

	// The published report loads back intact.
	loaded, err := report.Load(ctx, sink, objects[0])
	require.NoError(t, err)
	assert.Equal(t, rep.RunID, loaded.RunID)
	assert.Equal(t, rep.Checksum, loaded.Checksum)
	assert.Equal(t, 1, loaded.Iterations)
}

func TestTableInfoAfterRun(t *testing.T) {
	cfg := runConfig(t)
	cfg.Target = types.TargetColumnwise
	cfg.ValidateMode = true

	runner, err := harness.New(cfg)
	require.NoError(t, err)
	_, err = runner.Run()
	require.NoError(t, err)

	info, err := tableinfo.Inspect(cfg.TablePath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Shape.RowCount(), info.RowCount)
	assert.Len(t, info.Columns, 3)
}
