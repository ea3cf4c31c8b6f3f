package tui

import (
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

// Scale maps terminal cells to the virtual pixels the window engine works
// in. A cell covers CellWidth x CellHeight pixels; pointer events sample the
// centre of the cell, and a rect covers every cell whose centre it contains.
type Scale struct {
	CellWidth  int
	CellHeight int
}

func (s Scale) normalized() Scale {
	if s.CellWidth <= 0 {
		s.CellWidth = 8
	}
	if s.CellHeight <= 0 {
		s.CellHeight = 16
	}
	return s
}

// Point returns the pixel at the centre of a cell.
func (s Scale) Point(col, row int) platform.Point {
	s = s.normalized()
	return platform.Point{
		X: col*s.CellWidth + s.CellWidth/2,
		Y: row*s.CellHeight + s.CellHeight/2,
	}
}

// Viewport converts a terminal size in cells to a pixel size.
func (s Scale) Viewport(cols, rows int) platform.Size {
	s = s.normalized()
	return platform.Size{Width: max(cols, 0) * s.CellWidth, Height: max(rows, 0) * s.CellHeight}
}

// Cells returns the cell rect covered by a pixel rect.
func (s Scale) Cells(r platform.Rect) platform.Rect {
	s = s.normalized()
	x0 := ceilDiv(r.X-s.CellWidth/2, s.CellWidth)
	x1 := ceilDiv(r.X+r.Width-s.CellWidth/2, s.CellWidth)
	y0 := ceilDiv(r.Y-s.CellHeight/2, s.CellHeight)
	y1 := ceilDiv(r.Y+r.Height-s.CellHeight/2, s.CellHeight)
	return platform.Rect{X: x0, Y: y0, Width: max(x1-x0, 0), Height: max(y1-y0, 0)}
}

// Metrics adapts engine metrics to the cell grid. Every pointer sample lands
// on a cell centre, so the handle band is one row tall: the top row of a
// window resizes and the header row under it drags. Buttons are widened to
// keep three columns clear of the right-hand band.
func (s Scale) Metrics(m wm.Metrics) wm.Metrics {
	s = s.normalized()
	m.HandleSize = s.CellHeight
	m.HeaderHeight = max(m.HeaderHeight, 2*s.CellHeight)
	m.ButtonWidth = max(m.ButtonWidth, 3*s.CellWidth+m.HandleSize)
	return m
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
