package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

func testTheme() config.Theme {
	return config.DefaultConfig().Theme
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// newTestDesk returns a 100x30 cell desk and a manager using terminal
// metrics.
func newTestDesk() (*platform.Desk, *wm.Manager) {
	desk := platform.NewDesk(testScale.Viewport(100, 30))
	m := wm.NewManager(desk, wm.WithMetrics(testScale.Metrics(wm.DefaultMetrics())))
	return desk, m
}

func column(line string, col int) rune {
	runes := []rune(line)
	if col < 0 || col >= len(runes) {
		return 0
	}
	return runes[col]
}

func TestCompositor_PaintsFrameTitleAndButtons(t *testing.T) {
	_, m := newTestDesk()
	s := m.Open(wm.Options{Title: "notes", Content: NewTextContent("hello\nworld"), Position: wm.At(0, 0)})
	require.NotNil(t, s)

	lines := NewCompositor(testScale, testTheme()).paint(m.Surfaces(), 100, 30).lines()
	require.Len(t, lines, 30)

	assert.True(t, strings.HasPrefix(lines[0], "┌──"), lines[0])
	assert.Equal(t, '┐', column(lines[0], 74))
	assert.True(t, strings.HasPrefix(lines[1], "│ notes"), lines[1])
	assert.Contains(t, lines[1], "[□] [x]")
	assert.Equal(t, '[', column(lines[1], 70))
	assert.Equal(t, '│', column(lines[1], 74))
	assert.True(t, strings.HasPrefix(lines[2], "│hello"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "│world"), lines[3])
	assert.True(t, strings.HasPrefix(lines[24], "└──"), lines[24])
	assert.Equal(t, ' ', column(lines[25], 0))
	assert.Equal(t, ' ', column(lines[0], 75))
}

func TestCompositor_ButtonsSitWhereTheyHit(t *testing.T) {
	_, m := newTestDesk()
	s := m.Open(wm.Options{Title: "w", Content: InfoContent{}, Position: wm.At(100, 40)})
	require.NotNil(t, s)

	lines := NewCompositor(testScale, testTheme()).paint(m.Surfaces(), 100, 30).lines()
	row := 3
	for col, want := range map[int]wm.Region{83: wm.RegionClose, 79: wm.RegionMaximize, 40: wm.RegionHeader} {
		region, _ := s.HitTest(testScale.Point(col, row))
		assert.Equal(t, want, region, "col %d", col)
	}
	assert.Equal(t, 'x', column(lines[row], 83))
	assert.Equal(t, '□', column(lines[row], 79))

	// The top border row is the resize band.
	region, dir := s.HitTest(testScale.Point(40, 2))
	assert.Equal(t, wm.RegionHandle, region)
	assert.True(t, dir.North())
}

func TestCompositor_PaintsByZOrder(t *testing.T) {
	_, m := newTestDesk()
	a := m.Open(wm.Options{Title: "A", Content: NewTextContent(""), Position: wm.At(0, 0)})
	b := m.Open(wm.Options{Title: "B", Content: NewTextContent(""), Position: wm.At(80, 32)})
	require.NotNil(t, a)
	require.NotNil(t, b)
	comp := NewCompositor(testScale, testTheme())

	// B's title bar is on row 3, its title at column 12.
	lines := comp.paint(m.Surfaces(), 100, 30).lines()
	assert.Equal(t, 'B', column(lines[3], 12))

	m.Focus(a)
	lines = comp.paint(m.Surfaces(), 100, 30).lines()
	assert.Equal(t, ' ', column(lines[3], 12))
}

func TestCompositor_SnapPreview(t *testing.T) {
	desk, m := newTestDesk()
	s := m.Open(wm.Options{Title: "drag me", Content: InfoContent{}, Width: 400, Height: 300, Position: wm.At(160, 160)})
	require.NotNil(t, s)

	desk.Dispatch(platform.PointerEvent{Kind: platform.PointerDown, Pos: testScale.Point(25, 11), Button: platform.ButtonLeft})
	desk.Dispatch(platform.PointerEvent{Kind: platform.PointerMove, Pos: testScale.Point(0, 15)})
	_, armed := s.SnapPreview()
	require.True(t, armed)

	lines := NewCompositor(testScale, testTheme()).paint(m.Surfaces(), 100, 30).lines()
	assert.Equal(t, '░', column(lines[5], 10))
	assert.Equal(t, ' ', column(lines[5], 60))
}

func TestCompositor_SkipsForeignContent(t *testing.T) {
	_, m := newTestDesk()
	m.Open(wm.Options{Title: "raw", Content: 42, Position: wm.At(0, 0)})

	lines := NewCompositor(testScale, testTheme()).paint(m.Surfaces(), 100, 30).lines()
	assert.True(t, strings.HasPrefix(lines[1], "│ raw"))
	assert.True(t, strings.HasPrefix(lines[2], "│    "))
}
