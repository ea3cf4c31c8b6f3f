package platform

import "time"

// Point is a position in host-container coordinates.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Rect describes a rectangular region in host-container coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p lies inside the rect. The right and bottom
// edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Intersects reports whether two rects overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// PointerKind classifies a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// String returns the string representation of the pointer kind
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a single pointer input delivered by a host.
type PointerEvent struct {
	Kind   PointerKind
	Pos    Point
	Button Button
	At     time.Time // zero when the host does not timestamp events
}

// PointerFunc receives broad-scope pointer events.
type PointerFunc func(ev PointerEvent)

// Subscription is a live pointer listener registration. Unsubscribe must be
// safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// Node is anything a host can mount as a direct child of its container.
type Node interface {
	Bounds() Rect
	ZIndex() int
	PointerDown(ev PointerEvent)
}

// Host abstracts the container that anchors floating windows: it defines
// the coordinate origin and viewport, mounts nodes, routes pointer-down to
// the node under the pointer and broadcasts move/up to subscribers.
type Host interface {
	Viewport() Size
	Mount(n Node)
	Unmount(n Node)
	Subscribe(fn PointerFunc) Subscription
}
