package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1broseidon/floatdesk/internal/platform"
)

func TestClipToWorkArea(t *testing.T) {
	mon := platform.Rect{X: 1920, Width: 1920, Height: 1080}

	// A panel across the top of a spanning work area.
	wa := platform.Rect{Y: 32, Width: 3840, Height: 1048}
	assert.Equal(t, platform.Rect{X: 1920, Y: 32, Width: 1920, Height: 1048}, clipToWorkArea(mon, wa))

	// A work area on the other monitor is ignored.
	assert.Equal(t, mon, clipToWorkArea(mon, platform.Rect{Width: 1920, Height: 1080}))
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{Name: "left", Rect: platform.Rect{Width: 1920, Height: 1080}},
		{Name: "right", Rect: platform.Rect{X: 1920, Width: 2560, Height: 1440}},
	}
	m, ok := monitorAt(monitors, platform.Point{X: 2000, Y: 1200})
	assert.True(t, ok)
	assert.Equal(t, "right", m.Name)

	_, ok = monitorAt(monitors, platform.Point{X: 100, Y: 1200})
	assert.False(t, ok)
}
