package wm

import (
	"time"

	"github.com/1broseidon/floatdesk/internal/platform"
)

var viewport = platform.Size{Width: 1280, Height: 800}

func newDesk() *platform.Desk {
	return platform.NewDesk(viewport)
}

func press(d *platform.Desk, x, y int) bool {
	return d.Dispatch(platform.PointerEvent{
		Kind:   platform.PointerDown,
		Pos:    platform.Point{X: x, Y: y},
		Button: platform.ButtonLeft,
	})
}

func pressAt(d *platform.Desk, x, y int, at time.Time) bool {
	return d.Dispatch(platform.PointerEvent{
		Kind:   platform.PointerDown,
		Pos:    platform.Point{X: x, Y: y},
		Button: platform.ButtonLeft,
		At:     at,
	})
}

func move(d *platform.Desk, x, y int) {
	d.Dispatch(platform.PointerEvent{Kind: platform.PointerMove, Pos: platform.Point{X: x, Y: y}})
}

func release(d *platform.Desk, x, y int) {
	d.Dispatch(platform.PointerEvent{Kind: platform.PointerUp, Pos: platform.Point{X: x, Y: y}})
}

// counter counts callback invocations.
type counter struct{ n int }

func (c *counter) inc() { c.n++ }

func openAt(m *Manager, title string, g Geometry, moved *counter) *Surface {
	opts := Options{
		Title:    title,
		Content:  title + " body",
		Width:    g.Width,
		Height:   g.Height,
		Position: At(g.X, g.Y),
	}
	if moved != nil {
		opts.OnMoveOrResize = moved.inc
	}
	return m.Open(opts)
}

func pointerDown(x, y int) platform.PointerEvent {
	return platform.PointerEvent{Kind: platform.PointerDown, Pos: platform.Point{X: x, Y: y}, Button: platform.ButtonLeft}
}

// handlePoint returns a point inside the resize band for d.
func handlePoint(c Chrome, d Direction) platform.Point {
	r := c.Frame
	p := platform.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
	if d.North() {
		p.Y = r.Y + 1
	}
	if d.South() {
		p.Y = r.Bottom() - 2
	}
	if d.West() {
		p.X = r.X + 1
	}
	if d.East() {
		p.X = r.Right() - 2
	}
	return p
}
