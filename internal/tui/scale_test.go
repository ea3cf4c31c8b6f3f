package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

var testScale = Scale{CellWidth: 8, CellHeight: 16}

func TestScale_PointSamplesCellCentre(t *testing.T) {
	assert.Equal(t, platform.Point{X: 4, Y: 8}, testScale.Point(0, 0))
	assert.Equal(t, platform.Point{X: 20, Y: 56}, testScale.Point(2, 3))
}

func TestScale_ZeroFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, platform.Size{Width: 800, Height: 480}, Scale{}.Viewport(100, 30))
	assert.Equal(t, platform.Size{}, testScale.Viewport(-1, -1))
}

func TestScale_Cells(t *testing.T) {
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 75, Height: 25}, testScale.Cells(platform.Rect{Width: 600, Height: 400}))
	assert.Equal(t, platform.Rect{X: 12, Y: 2, Width: 75, Height: 25}, testScale.Cells(platform.Rect{X: 100, Y: 40, Width: 600, Height: 400}))
	assert.Equal(t, platform.Rect{X: -5, Y: 15, Width: 50, Height: 19}, testScale.Cells(platform.Rect{X: -40, Y: 240, Width: 400, Height: 300}))
}

func TestScale_CellsMatchPointerSampling(t *testing.T) {
	rects := []platform.Rect{
		{X: 3, Y: 5, Width: 17, Height: 33},
		{X: -11, Y: -7, Width: 40, Height: 40},
		{X: 100, Y: 40, Width: 600, Height: 400},
	}
	for _, r := range rects {
		cells := testScale.Cells(r)
		for row := cells.Y - 2; row < cells.Bottom()+2; row++ {
			for col := cells.X - 2; col < cells.Right()+2; col++ {
				sampled := r.Contains(testScale.Point(col, row))
				covered := cells.Contains(platform.Point{X: col, Y: row})
				assert.Equal(t, sampled, covered, "rect %+v cell %d,%d", r, col, row)
			}
		}
	}
}

func TestScale_Metrics(t *testing.T) {
	m := testScale.Metrics(wm.DefaultMetrics())
	assert.Equal(t, 16, m.HandleSize)
	assert.Equal(t, 32, m.HeaderHeight)
	assert.Equal(t, 40, m.ButtonWidth)
	assert.Equal(t, wm.DefaultMinWidth, m.MinWidth)
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 0, ceilDiv(-1, 8))
	assert.Equal(t, -1, ceilDiv(-8, 8))
	assert.Equal(t, -1, ceilDiv(-9, 8))
	assert.Equal(t, 2, ceilDiv(9, 8))
	assert.Equal(t, -2, floorDiv(-9, 8))
}
