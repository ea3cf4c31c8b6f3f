package x11

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
	"github.com/1broseidon/floatdesk/internal/workspace"
)

// newTestDesk builds a desk over a host with no X window behind it, which
// is enough for everything except painting.
func newTestDesk(t *testing.T, cfg *config.Config, store *workspace.Store) *desk {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	host := &Host{Desk: platform.NewDesk(platform.Size{Width: 1280, Height: 800})}
	return newDesk(nil, host, cfg, Options{Store: store}, discardLogger())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDesk_StartupOpensWelcome(t *testing.T) {
	d := newTestDesk(t, nil, workspace.NewStore(t.TempDir()))
	d.openStartup()

	require.Equal(t, 1, d.manager.Len())
	s := d.manager.Focused()
	assert.Equal(t, "Welcome", s.Title())
	assert.Equal(t, welcomeText, s.Content())
	assert.Len(t, d.host.Surfaces(), 1)
}

func TestDesk_StartupWindows(t *testing.T) {
	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("from a file"), 0o644))

	x, y := 40, 60
	cfg := config.DefaultConfig()
	cfg.Windows = []config.StartupWindow{
		{Title: "scratch", Text: "hi", X: &x, Y: &y, Width: 400, Height: 300},
		{Title: "notes", File: notes, Maximized: true},
		{Title: "missing", File: filepath.Join(t.TempDir(), "nope.txt")},
	}
	d := newTestDesk(t, cfg, nil)
	d.openStartup()

	surfaces := d.manager.Surfaces()
	require.Len(t, surfaces, 3)
	assert.Equal(t, wm.Geometry{X: 40, Y: 60, Width: 400, Height: 300}, surfaces[0].Geometry())
	assert.Equal(t, "from a file", surfaces[1].Content())
	assert.True(t, surfaces[1].IsMaximized())
	assert.Contains(t, surfaces[2].Content(), "no such file")
}

func TestDesk_SaveAndRestore(t *testing.T) {
	store := workspace.NewStore(t.TempDir())
	d := newTestDesk(t, nil, store)
	d.openStartup()
	d.newWindow()
	d.manager.Focused().ApplyGeometrySnapshot(wm.Snapshot{X: 500, Y: 300, Width: 320, Height: 240})
	d.autosave()

	restored := newTestDesk(t, nil, store)
	restored.openStartup()

	surfaces := restored.manager.Surfaces()
	require.Len(t, surfaces, 2)
	titles := []string{surfaces[0].Title(), surfaces[1].Title()}
	assert.ElementsMatch(t, []string{"Welcome", "Window 2"}, titles)
	for _, s := range surfaces {
		if s.Title() == "Window 2" {
			assert.Equal(t, wm.Geometry{X: 500, Y: 300, Width: 320, Height: 240}, s.Geometry())
		}
	}
}

func TestDesk_ShutdownSavesThenClosesEverything(t *testing.T) {
	store := workspace.NewStore(t.TempDir())
	d := newTestDesk(t, nil, store)
	d.openStartup()
	d.newWindow()
	require.Equal(t, 2, d.host.Subscribers())

	d.shutdown()

	assert.Equal(t, 0, d.manager.Len())
	assert.Equal(t, 0, d.host.Subscribers())
	assert.Empty(t, d.host.Nodes())
	saved, err := store.Load(config.DefaultConfig().Store.AutosaveName)
	require.NoError(t, err)
	assert.Len(t, saved.Windows, 2)
}

func TestDesk_TileUndoAndFocus(t *testing.T) {
	d := newTestDesk(t, nil, nil)
	d.openStartup()
	d.newWindow()
	d.newWindow()
	top := d.manager.Focused()
	before := top.GeometrySnapshot()

	d.tile()
	assert.NotEqual(t, before, top.GeometrySnapshot())
	d.tiler.Undo()
	assert.Equal(t, before, top.GeometrySnapshot())

	d.focusNext()
	assert.Equal(t, "Welcome", d.manager.Focused().Title())

	d.withFocused((*wm.Surface).Close)()
	assert.Equal(t, 2, d.manager.Len())
}

func TestPointerButtons(t *testing.T) {
	assert.Equal(t, platform.ButtonLeft, pointerButton(xproto.ButtonIndex1))
	assert.Equal(t, platform.ButtonRight, pointerButton(xproto.ButtonIndex3))
	assert.Equal(t, platform.ButtonNone, pointerButton(xproto.ButtonIndex4))

	assert.Equal(t, platform.ButtonLeft, heldButton(xproto.KeyButMaskButton1|xproto.KeyButMaskShift))
	assert.Equal(t, platform.ButtonNone, heldButton(xproto.KeyButMaskShift))
}

func TestToXRect(t *testing.T) {
	r, ok := toXRect(platform.Rect{X: -40000, Y: 5, Width: 70000, Height: 10})
	require.True(t, ok)
	assert.Equal(t, xproto.Rectangle{X: -32768, Y: 5, Width: 65535, Height: 10}, r)

	_, ok = toXRect(platform.Rect{Width: 0, Height: 10})
	assert.False(t, ok)
}

func TestServerTimeDifferences(t *testing.T) {
	a, b := serverTime(1000), serverTime(1350)
	assert.Equal(t, int64(350), b.Sub(a).Milliseconds())
}
