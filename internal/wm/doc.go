/*
Package wm implements floatdesk's floating-window engine.

A Manager owns an ordered set of Surfaces mounted into one platform.Host.
Each Surface owns its geometry, its visual state (normal, maximized,
snapped to a viewport half) and the pointer gesture in flight (idle,
dragging, resizing). The Manager only assigns stacking order: every focus
takes the next value of a monotonically increasing counter, so the focused
surface always renders above everything focused before it.

All methods run on the host's event goroutine. Nothing here blocks, and
nothing returns an error: missing prerequisites are ignored, redundant
calls are no-ops and out-of-range sizes are clamped.

	desk := platform.NewDesk(platform.Size{Width: 1280, Height: 800})
	m := wm.NewManager(desk)
	s := m.Open(wm.Options{Title: "notes", Content: body})
	s.ToggleMaximize()
*/
package wm
