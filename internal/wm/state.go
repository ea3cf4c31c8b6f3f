package wm

import "github.com/1broseidon/floatdesk/internal/platform"

// Side selects a viewport half.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// String returns the string representation of the side
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// VisualState is how a surface is presented. It is one of Normal,
// Maximized or Snapped; the unexported marker keeps the set closed.
type VisualState interface {
	visualState()
	String() string
}

// Normal windows render their own committed geometry.
type Normal struct{}

// Maximized windows cover the whole viewport.
type Maximized struct{}

// Snapped windows cover one half of the viewport at full height.
type Snapped struct {
	Side Side
}

func (Normal) visualState()    {}
func (Maximized) visualState() {}
func (Snapped) visualState()   {}

func (Normal) String() string    { return "normal" }
func (Maximized) String() string { return "maximized" }
func (s Snapped) String() string { return "snapped-" + s.Side.String() }

// derivesGeometry reports whether the rendered geometry of v comes from the
// viewport rather than from the surface's own geometry.
func derivesGeometry(v VisualState) bool {
	switch v.(type) {
	case Maximized, Snapped:
		return true
	default:
		return false
	}
}

// SnapZone is the edge region the pointer is currently in while dragging.
type SnapZone int

const (
	ZoneNone SnapZone = iota
	ZoneTop
	ZoneLeft
	ZoneRight
)

// String returns the string representation of the zone
func (z SnapZone) String() string {
	switch z {
	case ZoneNone:
		return "none"
	case ZoneTop:
		return "top"
	case ZoneLeft:
		return "left"
	case ZoneRight:
		return "right"
	default:
		return "unknown"
	}
}

// Gesture is the pointer interaction in flight on a surface: Idle,
// Dragging or Resizing.
type Gesture interface {
	gesture()
	String() string
}

// Idle means no pointer button is held on the surface.
type Idle struct{}

// Dragging tracks a header drag from pointer-down to pointer-up.
type Dragging struct {
	OriginPointer  platform.Point
	OriginGeometry Geometry // rendered geometry at pointer-down
	MovedEnough    bool     // pointer left the click tolerance
	Offset         platform.Point
	From           VisualState // state at pointer-down
	PoppedOut      bool        // a maximized/snapped window was restored under the cursor
	Zone           SnapZone
	Current        Geometry
}

// Resizing tracks a handle drag from pointer-down to pointer-up.
type Resizing struct {
	Direction      Direction
	OriginPointer  platform.Point
	OriginGeometry Geometry
	Current        Geometry
}

func (Idle) gesture()     {}
func (Dragging) gesture() {}
func (Resizing) gesture() {}

func (Idle) String() string       { return "idle" }
func (Dragging) String() string   { return "dragging" }
func (r Resizing) String() string { return "resizing-" + r.Direction.String() }
