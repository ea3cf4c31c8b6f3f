package wm

import (
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/1broseidon/floatdesk/internal/platform"
)

// Surface is one floating window. It is created by Manager.Open and lives
// until Close.
type Surface struct {
	id      string
	title   string
	content any
	host    platform.Host
	metrics Metrics
	logger  *slog.Logger

	geometry Geometry // committed normal geometry; restore target while maximized/snapped
	visual   VisualState
	gesture  Gesture
	zIndex   int
	active   bool
	closed   bool

	sub             platform.Subscription
	lastHeaderPress time.Time

	onClose        func()
	onFocus        func()
	onMoveOrResize func()
}

var _ platform.Node = (*Surface)(nil)

func newSurface(host platform.Host, opts Options, metrics Metrics, logger *slog.Logger) *Surface {
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = metrics.DefaultWidth
	}
	if h <= 0 {
		h = metrics.DefaultHeight
	}
	g := Geometry{Width: w, Height: h}.clamp(metrics)
	if opts.Position != nil {
		g.X, g.Y = opts.Position.X, opts.Position.Y
	} else {
		vp := host.Viewport()
		g.X = (vp.Width - g.Width) / 2
		g.Y = (vp.Height - g.Height) / 2
	}

	return &Surface{
		id:             ulid.Make().String(),
		title:          opts.Title,
		content:        opts.Content,
		host:           host,
		metrics:        metrics,
		logger:         logger,
		geometry:       g,
		visual:         Normal{},
		gesture:        Idle{},
		onClose:        opts.OnClose,
		onFocus:        opts.OnFocus,
		onMoveOrResize: opts.OnMoveOrResize,
	}
}

// mount attaches the surface to its host and acquires the broad pointer
// subscription that carries gesture moves and releases.
func (s *Surface) mount() {
	s.host.Mount(s)
	s.sub = s.host.Subscribe(s.handlePointer)
}

// ID returns the surface's unique identifier.
func (s *Surface) ID() string { return s.id }

// Title returns the window title.
func (s *Surface) Title() string { return s.title }

// Content returns the caller-supplied content.
func (s *Surface) Content() any { return s.content }

// ZIndex returns the stacking rank last assigned by the manager.
func (s *Surface) ZIndex() int { return s.zIndex }

// Active reports whether this surface holds focus.
func (s *Surface) Active() bool { return s.active }

// Closed reports whether Close has run.
func (s *Surface) Closed() bool { return s.closed }

// VisualState returns the current presentation state.
func (s *Surface) VisualState() VisualState { return s.visual }

// Gesture returns the pointer interaction in flight.
func (s *Surface) Gesture() Gesture { return s.gesture }

// Metrics returns the metrics the surface was opened with.
func (s *Surface) Metrics() Metrics { return s.metrics }

// IsMaximized reports whether the surface is maximized.
func (s *Surface) IsMaximized() bool {
	_, ok := s.visual.(Maximized)
	return ok
}

// committedBounds is the rendered geometry ignoring any gesture in flight.
func (s *Surface) committedBounds() Geometry {
	vp := s.host.Viewport()
	switch v := s.visual.(type) {
	case Maximized:
		return maximizedGeometry(vp, s.metrics)
	case Snapped:
		return snappedGeometry(v.Side, vp, s.metrics)
	default:
		return s.geometry
	}
}

// Geometry returns the geometry currently on screen, including an in-flight
// drag or resize.
func (s *Surface) Geometry() Geometry {
	switch g := s.gesture.(type) {
	case Dragging:
		if g.MovedEnough {
			return g.Current
		}
	case Resizing:
		return g.Current
	}
	return s.committedBounds()
}

// Bounds implements platform.Node.
func (s *Surface) Bounds() platform.Rect {
	return s.Geometry().Rect()
}

// ShownMaximized reports whether the window is drawn maximized. A maximized
// window dragged out of place is drawn as a normal one while it stays
// maximized until the drag commits.
func (s *Surface) ShownMaximized() bool {
	if d, ok := s.gesture.(Dragging); ok && d.PoppedOut {
		return false
	}
	return s.IsMaximized()
}

// Chrome returns the decoration layout for the on-screen geometry.
func (s *Surface) Chrome() Chrome {
	return layoutChrome(s.Geometry(), s.metrics, !s.ShownMaximized())
}

// HitTest classifies a point against the surface's chrome.
func (s *Surface) HitTest(p platform.Point) (Region, Direction) {
	return s.Chrome().HitTest(p, s.metrics.HandleSize)
}

// SnapPreview returns the geometry a drag would commit to if released now.
// It reports false when no drag is in flight or the pointer is outside
// every snap zone.
func (s *Surface) SnapPreview() (Geometry, bool) {
	d, ok := s.gesture.(Dragging)
	if !ok || !d.MovedEnough {
		return Geometry{}, false
	}
	return zoneGeometry(d.Zone, s.host.Viewport(), s.metrics)
}

// GeometrySnapshot returns the committed geometry for persistence. While
// maximized it reports the geometry restore will return to.
func (s *Surface) GeometrySnapshot() Snapshot {
	g := s.geometry
	if sn, ok := s.visual.(Snapped); ok {
		g = snappedGeometry(sn.Side, s.host.Viewport(), s.metrics)
	}
	return Snapshot{
		X:           g.X,
		Y:           g.Y,
		Width:       g.Width,
		Height:      g.Height,
		ZIndex:      s.zIndex,
		IsMaximized: s.IsMaximized(),
	}
}

// ApplyGeometrySnapshot restores a snapshot taken earlier. The z-index in
// the snapshot is ignored; stacking belongs to the manager. Ignored while a
// gesture is in flight or after close.
func (s *Surface) ApplyGeometrySnapshot(snap Snapshot) {
	if s.closed {
		return
	}
	if _, idle := s.gesture.(Idle); !idle {
		return
	}
	s.geometry = snap.Geometry().clamp(s.metrics)
	if snap.IsMaximized {
		s.visual = Maximized{}
	} else {
		s.visual = Normal{}
	}
}

// ToggleMaximize flips between maximized and the saved normal geometry. A
// snapped window maximizes.
func (s *Surface) ToggleMaximize() {
	if s.IsMaximized() {
		s.Restore()
		return
	}
	s.Maximize()
}

// Maximize covers the viewport, keeping the normal geometry for Restore.
func (s *Surface) Maximize() {
	if s.closed || s.IsMaximized() {
		return
	}
	if _, idle := s.gesture.(Idle); !idle {
		return
	}
	before := s.GeometrySnapshot()
	s.visual = Maximized{}
	s.logger.Debug("surface maximized", "id", s.id, "restore", s.geometry)
	s.notifyIfChanged(before)
}

// Restore returns a maximized or snapped window to its saved geometry.
func (s *Surface) Restore() {
	if s.closed || !derivesGeometry(s.visual) {
		return
	}
	if _, idle := s.gesture.(Idle); !idle {
		return
	}
	before := s.GeometrySnapshot()
	s.visual = Normal{}
	s.logger.Debug("surface restored", "id", s.id, "geometry", s.geometry)
	s.notifyIfChanged(before)
}

// Focus fires the focus callback. Stacking is updated by the manager's
// wrapper around it.
func (s *Surface) Focus() {
	if s.closed {
		return
	}
	if s.onFocus != nil {
		s.onFocus()
	}
}

// Close releases the pointer subscription, detaches from the host and fires
// the close callback. Only the first call has any effect.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.gesture = Idle{}
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
	s.host.Unmount(s)
	s.logger.Debug("surface closed", "id", s.id, "title", s.title)
	if s.onClose != nil {
		s.onClose()
	}
}

func (s *Surface) setZIndex(z int)   { s.zIndex = z }
func (s *Surface) setActive(a bool) { s.active = a }

func (s *Surface) notifyIfChanged(before Snapshot) {
	after := s.GeometrySnapshot()
	before.ZIndex, after.ZIndex = 0, 0
	if before == after {
		return
	}
	if s.onMoveOrResize != nil {
		s.onMoveOrResize()
	}
}
