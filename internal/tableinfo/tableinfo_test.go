package tableinfo

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visbench/visbench/internal/store"
	"github.com/visbench/visbench/pkg/types"
)

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.data")
	shape, err := types.NewShape(2, 3, 4, 2)
	require.NoError(t, err)

	tab, err := store.Create(path, shape)
	require.NoError(t, err)
	require.NoError(t, tab.Close())

	info, err := Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, 6, info.RowCount)
	require.Len(t, info.Columns, 3)
	assert.Equal(t, store.ColTime, info.Columns[0].Name)
	assert.True(t, info.Columns[0].IsScalar())
	assert.True(t, info.Columns[1].IsArray())
	assert.Equal(t, []int{2, 4}, info.Columns[2].RowShape)
}

func TestRenderFlagTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.data")
	shape, err := types.NewShape(1, 1, 1, 1)
	require.NoError(t, err)

	tab, err := store.Create(path, shape)
	require.NoError(t, err)
	require.NoError(t, tab.Close())

	info, err := Inspect(path)
	require.NoError(t, err)

	var sb strings.Builder
	info.Render(&sb)
	out := sb.String()

	assert.Contains(t, out, "Number of rows: 1")
	assert.Contains(t, out, "Number of columns: 3")
	// TIME is fixed, scalar, direct.
	assert.Contains(t, out, "TIME F S     D")
	// DATA is fixed, array, direct.
	assert.Contains(t, out, "DATA F   A   D")
}

func TestInspectMissingFile(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "nope.data"))
	assert.Error(t, err)
}
