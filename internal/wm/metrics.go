package wm

import (
	"time"

	"github.com/1broseidon/floatdesk/internal/platform"
)

const (
	DefaultMinWidth      = 300
	DefaultMinHeight     = 200
	DefaultWidth         = 600
	DefaultHeight        = 400
	DefaultDragThreshold = 5
	DefaultSnapThreshold = 20
	DefaultHeaderHeight  = 32
	DefaultHandleSize    = 6
	DefaultButtonWidth   = 28
	DefaultDoubleClick   = 400 * time.Millisecond
)

// Metrics holds the size limits, gesture thresholds and chrome sizes used by
// every surface a manager opens. Zero fields fall back to the defaults.
type Metrics struct {
	MinWidth      int
	MinHeight     int
	DefaultWidth  int
	DefaultHeight int
	DragThreshold int // px the pointer must travel before a press becomes a drag
	SnapThreshold int // px from a viewport edge that arms a snap zone
	HeaderHeight  int
	HandleSize    int
	ButtonWidth   int
	DoubleClick   time.Duration
}

// DefaultMetrics returns the built-in metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		MinWidth:      DefaultMinWidth,
		MinHeight:     DefaultMinHeight,
		DefaultWidth:  DefaultWidth,
		DefaultHeight: DefaultHeight,
		DragThreshold: DefaultDragThreshold,
		SnapThreshold: DefaultSnapThreshold,
		HeaderHeight:  DefaultHeaderHeight,
		HandleSize:    DefaultHandleSize,
		ButtonWidth:   DefaultButtonWidth,
		DoubleClick:   DefaultDoubleClick,
	}
}

func (m Metrics) normalized() Metrics {
	d := DefaultMetrics()
	if m.MinWidth <= 0 {
		m.MinWidth = d.MinWidth
	}
	if m.MinHeight <= 0 {
		m.MinHeight = d.MinHeight
	}
	if m.DefaultWidth <= 0 {
		m.DefaultWidth = d.DefaultWidth
	}
	if m.DefaultHeight <= 0 {
		m.DefaultHeight = d.DefaultHeight
	}
	if m.DragThreshold <= 0 {
		m.DragThreshold = d.DragThreshold
	}
	if m.SnapThreshold <= 0 {
		m.SnapThreshold = d.SnapThreshold
	}
	if m.HeaderHeight <= 0 {
		m.HeaderHeight = d.HeaderHeight
	}
	if m.HandleSize <= 0 {
		m.HandleSize = d.HandleSize
	}
	if m.ButtonWidth <= 0 {
		m.ButtonWidth = d.ButtonWidth
	}
	if m.DoubleClick <= 0 {
		m.DoubleClick = d.DoubleClick
	}
	return m
}

// Options configures one window opened through Manager.Open.
type Options struct {
	Title   string
	Content any // opaque to the engine; hosts know how to draw it

	// Width and Height default to Metrics.DefaultWidth/DefaultHeight.
	Width  int
	Height int
	// Position places the top-left corner. Nil centres the window.
	Position *platform.Point

	OnClose        func()
	OnFocus        func()
	OnMoveOrResize func()
}

// At is a convenience for Options.Position.
func At(x, y int) *platform.Point {
	return &platform.Point{X: x, Y: y}
}
