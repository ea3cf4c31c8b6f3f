package wm

import (
	"math"

	"github.com/1broseidon/floatdesk/internal/platform"
)

// PointerDown implements platform.Node. The host calls it when a press lands
// inside the surface; it focuses the window and, depending on the region,
// closes, toggles maximize or starts a drag or resize.
func (s *Surface) PointerDown(ev platform.PointerEvent) {
	if s.closed {
		return
	}
	s.Focus()
	if s.closed {
		return
	}
	if ev.Button != platform.ButtonLeft && ev.Button != platform.ButtonNone {
		return
	}
	if _, idle := s.gesture.(Idle); !idle {
		return
	}

	region, dir := s.HitTest(ev.Pos)
	switch region {
	case RegionClose:
		s.Close()
	case RegionMaximize:
		s.ToggleMaximize()
	case RegionHandle:
		s.startResize(ev, dir)
	case RegionHeader:
		if s.isDoubleClick(ev) {
			s.ToggleMaximize()
			return
		}
		s.startDrag(ev)
	}
}

func (s *Surface) isDoubleClick(ev platform.PointerEvent) bool {
	if ev.At.IsZero() {
		return false
	}
	prev := s.lastHeaderPress
	s.lastHeaderPress = ev.At
	if prev.IsZero() || ev.At.Sub(prev) > s.metrics.DoubleClick {
		return false
	}
	s.lastHeaderPress = ev.At.Add(-s.metrics.DoubleClick - 1)
	return true
}

// handlePointer receives every broad-scope move and release. Events are
// only acted on while a gesture started on this surface is in flight.
func (s *Surface) handlePointer(ev platform.PointerEvent) {
	if s.closed {
		return
	}
	switch g := s.gesture.(type) {
	case Dragging:
		switch ev.Kind {
		case platform.PointerMove:
			s.dragMove(g, ev.Pos)
		case platform.PointerUp:
			s.dragEnd(g)
		}
	case Resizing:
		switch ev.Kind {
		case platform.PointerMove:
			s.resizeMove(g, ev.Pos)
		case platform.PointerUp:
			s.resizeEnd(g)
		}
	}
}

func (s *Surface) startDrag(ev platform.PointerEvent) {
	origin := s.committedBounds()
	s.gesture = Dragging{
		OriginPointer:  ev.Pos,
		OriginGeometry: origin,
		Offset:         platform.Point{X: ev.Pos.X - origin.X, Y: ev.Pos.Y - origin.Y},
		From:           s.visual,
		Current:        origin,
	}
}

func (s *Surface) dragMove(d Dragging, p platform.Point) {
	if !d.MovedEnough {
		dx := p.X - d.OriginPointer.X
		dy := p.Y - d.OriginPointer.Y
		if abs(dx) <= s.metrics.DragThreshold && abs(dy) <= s.metrics.DragThreshold {
			return
		}
		d.MovedEnough = true
	}

	size := d.Current
	if derivesGeometry(d.From) && !d.PoppedOut {
		d = s.popOut(d, p)
		size = s.geometry
	}

	d.Current = Geometry{
		X:      p.X - d.Offset.X,
		Y:      p.Y - d.Offset.Y,
		Width:  size.Width,
		Height: size.Height,
	}
	d.Zone = zoneAt(p, s.host.Viewport(), s.metrics.SnapThreshold)
	s.gesture = d
}

// popOut detaches a maximized or snapped window from its slot on the first
// real drag move, placing it so the pointer keeps its relative horizontal
// position inside the window instead of jumping to the old left edge. The
// visual state is left alone until the drag commits.
func (s *Surface) popOut(d Dragging, p platform.Point) Dragging {
	ratio := 0.0
	if d.OriginGeometry.Width > 0 {
		ratio = float64(d.OriginPointer.X-d.OriginGeometry.X) / float64(d.OriginGeometry.Width)
	}
	newLeft := p.X - int(math.Round(float64(s.geometry.Width)*ratio))
	d.PoppedOut = true
	d.Offset = platform.Point{X: p.X - newLeft, Y: d.Offset.Y}
	s.logger.Debug("surface popped out of "+d.From.String(), "id", s.id, "ratio", ratio)
	return d
}

func (s *Surface) dragEnd(d Dragging) {
	s.gesture = Idle{}
	if !d.MovedEnough {
		return
	}

	before := Snapshot{
		X:           d.OriginGeometry.X,
		Y:           d.OriginGeometry.Y,
		Width:       d.OriginGeometry.Width,
		Height:      d.OriginGeometry.Height,
		IsMaximized: isMaximized(d.From),
	}
	if isMaximized(d.From) {
		before = before.withGeometry(s.geometry)
	}

	switch d.Zone {
	case ZoneTop:
		s.visual = Maximized{}
	case ZoneLeft:
		s.visual = Snapped{Side: SideLeft}
	case ZoneRight:
		s.visual = Snapped{Side: SideRight}
	default:
		s.geometry = d.Current.clamp(s.metrics)
		s.visual = Normal{}
	}
	s.logger.Debug("drag committed", "id", s.id, "zone", d.Zone, "state", s.visual, "geometry", s.committedBounds())
	s.notifyIfChanged(before)
}

func (s *Surface) startResize(ev platform.PointerEvent, dir Direction) {
	if s.IsMaximized() || !dir.Valid() {
		return
	}
	origin := s.committedBounds()
	s.gesture = Resizing{
		Direction:      dir,
		OriginPointer:  ev.Pos,
		OriginGeometry: origin,
		Current:        origin,
	}
}

func (s *Surface) resizeMove(r Resizing, p platform.Point) {
	r.Current = resize(r.OriginGeometry, r.Direction,
		p.X-r.OriginPointer.X, p.Y-r.OriginPointer.Y, s.metrics)
	s.gesture = r
}

func (s *Surface) resizeEnd(r Resizing) {
	s.gesture = Idle{}
	next := r.Current.clamp(s.metrics)
	if next == r.OriginGeometry {
		return
	}
	before := s.GeometrySnapshot()
	// A snapped window becomes a normal one only once its size changes.
	s.geometry = next
	s.visual = Normal{}
	s.logger.Debug("resize committed", "id", s.id, "direction", r.Direction, "geometry", s.geometry)
	s.notifyIfChanged(before)
}

func (sn Snapshot) withGeometry(g Geometry) Snapshot {
	sn.X, sn.Y, sn.Width, sn.Height = g.X, g.Y, g.Width, g.Height
	return sn
}

func isMaximized(v VisualState) bool {
	_, ok := v.(Maximized)
	return ok
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
