package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visbench/visbench/internal/config"
	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/internal/report"
	"github.com/visbench/visbench/internal/store"
	"github.com/visbench/visbench/pkg/types"
)

func openTable(t *testing.T, path string) *store.SQLiteTable {
	t.Helper()
	tab, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { tab.Close() })
	return tab
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Shape, _ = types.NewShape(2, 3, 4, 2)
	cfg.TablePath = filepath.Join(t.TempDir(), "table.data")
	return cfg
}

func TestValidationRoundTrip(t *testing.T) {
	targets := []types.Target{
		types.TargetTime, types.TargetUvw, types.TargetData,
		types.TargetColumnwise, types.TargetRowwise,
	}
	modes := []types.WriteMode{types.ModeCell, types.ModeCells, types.ModeColumn}

	for _, target := range targets {
		for _, mode := range modes {
			if target == types.TargetRowwise && mode == types.ModeColumn {
				continue
			}
			t.Run(target.String()+"_"+mode.String(), func(t *testing.T) {
				cfg := testConfig(t)
				cfg.Target = target
				cfg.WriteMode = mode
				cfg.ValidateMode = true

				runner, err := New(cfg)
				require.NoError(t, err)
				rep, err := runner.Run()
				require.NoError(t, err)
				assert.Equal(t, report.OutcomePass, rep.Outcome, "mismatch: %s", rep.Mismatch)
				assert.Equal(t, StatePassed, runner.State())
			})
		}
	}
}

func TestBenchmarkReportsTiming(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 2

	runner, err := New(cfg)
	require.NoError(t, err)
	rep, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Iterations)
	assert.Empty(t, rep.Outcome)
	assert.GreaterOrEqual(t, rep.RealSeconds, 0.0)
}

func TestZeroIterationsWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 0

	runner, err := New(cfg)
	require.NoError(t, err)
	rep, err := runner.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Iterations)
	assert.GreaterOrEqual(t, rep.RealSeconds, 0.0)

	// Zero fill passes: the table exists but holds no written cells.
	tab := openTable(t, cfg.TablePath)
	got, err := tab.Time().ReadColumn()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStreamingBenchmarkRuns(t *testing.T) {
	cfg := testConfig(t)
	cfg.Target = types.TargetData
	cfg.WriteMode = types.ModeCells
	cfg.Streaming = true
	cfg.Iterations = 1

	runner, err := New(cfg)
	require.NoError(t, err)
	_, err = runner.Run()
	require.NoError(t, err)
}

func TestStreamingValidationRejectedBeforeStoreActivity(t *testing.T) {
	cfg := testConfig(t)
	cfg.Streaming = true
	cfg.ValidateMode = true

	_, err := New(cfg)
	require.Error(t, err)
	assert.Equal(t, verrors.CodeStreamingValidate, verrors.GetCode(err))

	// Rejected before any store mutation: no table was created.
	_, statErr := os.Stat(cfg.TablePath)
	assert.True(t, os.IsNotExist(statErr), "table must not exist after a config error")
}

func TestColumnRowwiseRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.Target = types.TargetRowwise
	cfg.WriteMode = types.ModeColumn

	_, err := New(cfg)
	require.Error(t, err)
	assert.Equal(t, verrors.CodeColumnRowwise, verrors.GetCode(err))
	_, statErr := os.Stat(cfg.TablePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStateProgression(t *testing.T) {
	cfg := testConfig(t)
	cfg.ValidateMode = true

	runner, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, StateConfigured, runner.State())

	_, err = runner.Run()
	require.NoError(t, err)
	assert.Equal(t, StatePassed, runner.State())
}

func TestBenchmarkEndsReported(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 1

	runner, err := New(cfg)
	require.NoError(t, err)
	_, err = runner.Run()
	require.NoError(t, err)
	assert.Equal(t, StateReported, runner.State())
}
