package tiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

func setup(t *testing.T, n int) (*wm.Manager, []*wm.Surface) {
	t.Helper()
	m := wm.NewManager(platform.NewDesk(platform.Size{Width: 1280, Height: 800}))
	var out []*wm.Surface
	for i := 0; i < n; i++ {
		s := m.Open(wm.Options{Title: "w", Content: i, Width: 400, Height: 300, Position: wm.At(10*i, 10*i)})
		require.NotNil(t, s)
		out = append(out, s)
	}
	return m, out
}

func TestTiler_TileGridTopmostFirst(t *testing.T) {
	m, ws := setup(t, 4)
	tiler := NewTiler(m, config.DefaultConfig(), nil)

	n, err := tiler.Tile()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// slot = (1280-3*8)/2 x (800-3*8)/2
	assert.Equal(t, wm.Geometry{X: 8, Y: 8, Width: 628, Height: 388}, ws[3].Geometry(), "focused window takes the first slot")
	assert.Equal(t, wm.Geometry{X: 644, Y: 404, Width: 628, Height: 388}, ws[0].Geometry())
}

func TestTiler_UnmaximizesAndUndo(t *testing.T) {
	m, ws := setup(t, 2)
	ws[0].ToggleMaximize()
	before0, before1 := ws[0].GeometrySnapshot(), ws[1].GeometrySnapshot()

	tiler := NewTiler(m, config.DefaultConfig(), nil)
	_, err := tiler.Tile()
	require.NoError(t, err)
	assert.False(t, ws[0].IsMaximized())

	assert.True(t, tiler.Undo())
	assert.Equal(t, before0, ws[0].GeometrySnapshot())
	assert.Equal(t, before1, ws[1].GeometrySnapshot())
	assert.True(t, ws[0].IsMaximized())
	assert.False(t, tiler.Undo(), "nothing left to undo")
}

func TestTiler_EmptyManager(t *testing.T) {
	m, _ := setup(t, 0)
	n, err := NewTiler(m, config.DefaultConfig(), nil).Tile()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTiler_SetActiveAndCycle(t *testing.T) {
	m, _ := setup(t, 1)
	tiler := NewTiler(m, config.DefaultConfig(), nil)
	assert.Equal(t, "grid", tiler.Active())

	assert.Error(t, tiler.SetActive("spiral"))
	require.NoError(t, tiler.SetActive("cascade"))

	// Sorted: cascade, columns, grid, master-stack, rows
	assert.Equal(t, "columns", tiler.Cycle(1))
	assert.Equal(t, "rows", tiler.Cycle(-2))
	assert.Equal(t, "cascade", tiler.Cycle(1))
}

func TestTiler_UpdateConfigFallsBack(t *testing.T) {
	m, _ := setup(t, 1)
	tiler := NewTiler(m, config.DefaultConfig(), nil)
	require.NoError(t, tiler.SetActive("rows"))

	cfg := config.DefaultConfig()
	delete(cfg.Arrangements, "rows")
	tiler.UpdateConfig(cfg)
	assert.Equal(t, cfg.Tiling.Arrangement, tiler.Active())
}
