package wm

import "github.com/1broseidon/floatdesk/internal/platform"

// Region identifies what part of a surface's chrome is under a point.
type Region int

const (
	RegionNone Region = iota
	RegionContent
	RegionHeader
	RegionClose
	RegionMaximize
	RegionHandle
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionContent:
		return "content"
	case RegionHeader:
		return "header"
	case RegionClose:
		return "close"
	case RegionMaximize:
		return "maximize"
	case RegionHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Chrome is the layout of a surface's decorations for its current rendered
// geometry. Hosts draw from it; HitTest classifies against it.
type Chrome struct {
	Frame    platform.Rect
	Header   platform.Rect
	Close    platform.Rect
	Maximize platform.Rect
	Content  platform.Rect
	Handles  bool // resize handles are live (false while maximized)
}

func layoutChrome(frame Geometry, m Metrics, handles bool) Chrome {
	r := frame.Rect()
	header := platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: min(m.HeaderHeight, r.Height)}
	closeBtn := platform.Rect{
		X:      r.Right() - m.ButtonWidth,
		Y:      r.Y,
		Width:  m.ButtonWidth,
		Height: header.Height,
	}
	maxBtn := closeBtn
	maxBtn.X -= m.ButtonWidth
	return Chrome{
		Frame:    r,
		Header:   header,
		Close:    closeBtn,
		Maximize: maxBtn,
		Content: platform.Rect{
			X:      r.X,
			Y:      header.Bottom(),
			Width:  r.Width,
			Height: max(r.Height-header.Height, 0),
		},
		Handles: handles,
	}
}

// handleAt returns the resize handle under p, if any. Handles are bands of
// size thickness along each edge, corners where two bands meet.
func handleAt(r platform.Rect, p platform.Point, thickness int) (Direction, bool) {
	if !r.Contains(p) || thickness <= 0 {
		return 0, false
	}
	var d Direction
	if p.Y < r.Y+thickness {
		d |= dirN
	} else if p.Y >= r.Bottom()-thickness {
		d |= dirS
	}
	if p.X < r.X+thickness {
		d |= dirW
	} else if p.X >= r.Right()-thickness {
		d |= dirE
	}
	return d, d != 0
}

// HitTest classifies p. Resize handles sit above the header so the top band
// resizes, and header buttons sit above the drag area.
func (c Chrome) HitTest(p platform.Point, handleSize int) (Region, Direction) {
	if !c.Frame.Contains(p) {
		return RegionNone, 0
	}
	if c.Handles {
		if d, ok := handleAt(c.Frame, p, handleSize); ok {
			return RegionHandle, d
		}
	}
	switch {
	case c.Close.Contains(p):
		return RegionClose, 0
	case c.Maximize.Contains(p):
		return RegionMaximize, 0
	case c.Header.Contains(p):
		return RegionHeader, 0
	default:
		return RegionContent, 0
	}
}
