package platform

import "testing"

type fakeNode struct {
	rect  Rect
	z     int
	downs int
}

func (n *fakeNode) Bounds() Rect                { return n.rect }
func (n *fakeNode) ZIndex() int                 { return n.z }
func (n *fakeNode) PointerDown(ev PointerEvent) { n.downs++ }

func TestDeskRoutesPressToTopmostNode(t *testing.T) {
	d := NewDesk(Size{Width: 800, Height: 600})
	low := &fakeNode{rect: Rect{X: 0, Y: 0, Width: 400, Height: 400}, z: 1}
	high := &fakeNode{rect: Rect{X: 200, Y: 200, Width: 400, Height: 400}, z: 5}
	d.Mount(high)
	d.Mount(low)

	if !d.Dispatch(PointerEvent{Kind: PointerDown, Pos: Point{X: 300, Y: 300}}) {
		t.Fatalf("expected press on overlap to land")
	}
	if high.downs != 1 || low.downs != 0 {
		t.Fatalf("expected topmost node to receive press, got high=%d low=%d", high.downs, low.downs)
	}

	d.Dispatch(PointerEvent{Kind: PointerDown, Pos: Point{X: 10, Y: 10}})
	if low.downs != 1 {
		t.Fatalf("expected low node to receive press outside overlap")
	}

	if d.Dispatch(PointerEvent{Kind: PointerDown, Pos: Point{X: 790, Y: 10}}) {
		t.Fatalf("expected press on empty desk to report false")
	}
}

func TestDeskEqualZKeepsMountOrder(t *testing.T) {
	d := NewDesk(Size{Width: 100, Height: 100})
	first := &fakeNode{rect: Rect{Width: 50, Height: 50}}
	second := &fakeNode{rect: Rect{Width: 50, Height: 50}}
	d.Mount(first)
	d.Mount(second)
	d.Mount(second)

	if got := len(d.Nodes()); got != 2 {
		t.Fatalf("expected duplicate mount to be ignored, got %d nodes", got)
	}
	if d.NodeAt(Point{X: 1, Y: 1}) != second {
		t.Fatalf("expected later mount to be on top at equal z")
	}
}

func TestDeskSubscriptions(t *testing.T) {
	d := NewDesk(Size{Width: 100, Height: 100})
	var a, b int
	subA := d.Subscribe(func(PointerEvent) { a++ })
	var subB Subscription
	subB = d.Subscribe(func(PointerEvent) {
		b++
		subB.Unsubscribe()
	})

	d.Dispatch(PointerEvent{Kind: PointerMove})
	d.Dispatch(PointerEvent{Kind: PointerUp})

	if a != 2 || b != 1 {
		t.Fatalf("expected a=2 b=1, got a=%d b=%d", a, b)
	}
	if d.Subscribers() != 1 {
		t.Fatalf("expected 1 live subscriber, got %d", d.Subscribers())
	}

	subA.Unsubscribe()
	subA.Unsubscribe()
	if d.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", d.Subscribers())
	}
	if d.Dispatch(PointerEvent{Kind: PointerMove}) {
		t.Fatalf("expected move with no subscribers to report false")
	}
}

func TestDeskReleaseOfOtherButtonIsDropped(t *testing.T) {
	d := NewDesk(Size{Width: 100, Height: 100})
	var ups int
	d.Subscribe(func(ev PointerEvent) {
		if ev.Kind == PointerUp {
			ups++
		}
	})

	d.Dispatch(PointerEvent{Kind: PointerDown, Button: ButtonLeft})
	d.Dispatch(PointerEvent{Kind: PointerDown, Button: ButtonRight})
	if d.Dispatch(PointerEvent{Kind: PointerUp, Button: ButtonRight}) {
		t.Fatalf("expected right release during a left press to be dropped")
	}
	if ups != 0 {
		t.Fatalf("expected no release delivered, got %d", ups)
	}

	d.Dispatch(PointerEvent{Kind: PointerUp, Button: ButtonLeft})
	if ups != 1 {
		t.Fatalf("expected left release delivered, got %d", ups)
	}

	// A release without a button always ends the interaction.
	d.Dispatch(PointerEvent{Kind: PointerDown, Button: ButtonMiddle})
	d.Dispatch(PointerEvent{Kind: PointerUp})
	d.Dispatch(PointerEvent{Kind: PointerUp, Button: ButtonRight})
	if ups != 3 {
		t.Fatalf("expected 3 releases delivered, got %d", ups)
	}
}

func TestDeskUnmountAndResize(t *testing.T) {
	d := NewDesk(Size{Width: 100, Height: 100})
	n := &fakeNode{rect: Rect{Width: 10, Height: 10}}
	d.Mount(n)
	d.Unmount(n)
	d.Unmount(n)
	if len(d.Nodes()) != 0 {
		t.Fatalf("expected node to be unmounted")
	}

	d.Resize(Size{Width: 300, Height: 200})
	if got := d.Viewport(); got != (Size{Width: 300, Height: 200}) {
		t.Fatalf("unexpected viewport %+v", got)
	}
}

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	if !r.Contains(Point{X: 10, Y: 10}) {
		t.Fatalf("expected top-left corner inside")
	}
	if r.Contains(Point{X: 15, Y: 12}) || r.Contains(Point{X: 12, Y: 15}) {
		t.Fatalf("expected right/bottom edges to be exclusive")
	}
	if !r.Intersects(Rect{X: 14, Y: 14, Width: 10, Height: 10}) {
		t.Fatalf("expected overlap")
	}
	if r.Intersects(Rect{X: 15, Y: 10, Width: 10, Height: 10}) {
		t.Fatalf("expected touching rects not to intersect")
	}
}
