package wm

import (
	"fmt"
	"strings"

	"github.com/1broseidon/floatdesk/internal/platform"
)

// Geometry is a window rectangle in host-container coordinates.
type Geometry struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect converts the geometry to a platform rect.
func (g Geometry) Rect() platform.Rect {
	return platform.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y)
}

// clamp raises width and height to the configured minimum. Position is
// left alone.
func (g Geometry) clamp(m Metrics) Geometry {
	if g.Width < m.MinWidth {
		g.Width = m.MinWidth
	}
	if g.Height < m.MinHeight {
		g.Height = m.MinHeight
	}
	return g
}

// Snapshot is the plain geometry record exchanged with callers for
// persistence.
type Snapshot struct {
	X           int  `json:"x" yaml:"x"`
	Y           int  `json:"y" yaml:"y"`
	Width       int  `json:"width" yaml:"width"`
	Height      int  `json:"height" yaml:"height"`
	ZIndex      int  `json:"zIndex" yaml:"zIndex"`
	IsMaximized bool `json:"isMaximized" yaml:"isMaximized"`
}

// Geometry returns the rectangle part of the snapshot.
func (s Snapshot) Geometry() Geometry {
	return Geometry{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Direction is one of the eight resize handles.
type Direction uint8

const (
	dirN Direction = 1 << iota
	dirS
	dirE
	dirW
)

const (
	DirN  = dirN
	DirS  = dirS
	DirE  = dirE
	DirW  = dirW
	DirNE = dirN | dirE
	DirNW = dirN | dirW
	DirSE = dirS | dirE
	DirSW = dirS | dirW
)

// Directions lists every handle in a stable order.
var Directions = []Direction{DirN, DirS, DirE, DirW, DirNE, DirNW, DirSE, DirSW}

// North reports whether the handle moves the top edge.
func (d Direction) North() bool { return d&dirN != 0 }

// South reports whether the handle moves the bottom edge.
func (d Direction) South() bool { return d&dirS != 0 }

// East reports whether the handle moves the right edge.
func (d Direction) East() bool { return d&dirE != 0 }

// West reports whether the handle moves the left edge.
func (d Direction) West() bool { return d&dirW != 0 }

// Valid reports whether d is one of the eight handles.
func (d Direction) Valid() bool {
	for _, known := range Directions {
		if d == known {
			return true
		}
	}
	return false
}

// String returns the handle name (n, s, e, w, ne, nw, se, sw).
func (d Direction) String() string {
	if !d.Valid() {
		return "unknown"
	}
	var sb strings.Builder
	if d.North() {
		sb.WriteByte('n')
	}
	if d.South() {
		sb.WriteByte('s')
	}
	if d.East() {
		sb.WriteByte('e')
	}
	if d.West() {
		sb.WriteByte('w')
	}
	return sb.String()
}

// ParseDirection converts a handle name into a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == strings.ToLower(strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown resize direction %q", s)
}

// resize applies a pointer delta to origin for handle d. Edges named by d
// follow the pointer; the opposite edges stay where they were. When a size
// hits the minimum the moving edge stops, it never drags the fixed edge.
func resize(origin Geometry, d Direction, dx, dy int, m Metrics) Geometry {
	g := origin
	switch {
	case d.East():
		g.Width = max(origin.Width+dx, m.MinWidth)
	case d.West():
		g.Width = max(origin.Width-dx, m.MinWidth)
		g.X = origin.X + origin.Width - g.Width
	}
	switch {
	case d.South():
		g.Height = max(origin.Height+dy, m.MinHeight)
	case d.North():
		g.Height = max(origin.Height-dy, m.MinHeight)
		g.Y = origin.Y + origin.Height - g.Height
	}
	return g
}
