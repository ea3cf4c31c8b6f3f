package platform

import "sort"

// Desk is an in-memory host container. It keeps the mounted nodes and the
// live pointer subscriptions, and implements the routing half of Host:
// pointer-down goes to the topmost node under the pointer, move and up go
// to every subscriber. Concrete hosts embed a Desk and feed it events from
// their own input source.
type Desk struct {
	size   Size
	nodes  []Node
	subs   []*deskSub
	nextID int

	// held is the button whose press opened the current interaction.
	held Button
}

var _ Host = (*Desk)(nil)

type deskSub struct {
	desk *Desk
	id   int
	fn   PointerFunc
	dead bool
}

// Unsubscribe removes the listener. Calling it again is a no-op.
func (s *deskSub) Unsubscribe() {
	if s == nil || s.dead {
		return
	}
	s.dead = true
	s.desk.removeSub(s.id)
}

// NewDesk creates a desk with the given viewport size.
func NewDesk(size Size) *Desk {
	return &Desk{size: size}
}

// Viewport returns the current viewport size.
func (d *Desk) Viewport() Size {
	return d.size
}

// Resize changes the viewport size. Nodes that derive geometry from the
// viewport are not notified; callers relayout them afterwards.
func (d *Desk) Resize(size Size) {
	d.size = size
}

// Mount adds n as a direct child. Mounting the same node twice is a no-op.
func (d *Desk) Mount(n Node) {
	if n == nil {
		return
	}
	for _, existing := range d.nodes {
		if existing == n {
			return
		}
	}
	d.nodes = append(d.nodes, n)
}

// Unmount removes n. Unknown nodes are ignored.
func (d *Desk) Unmount(n Node) {
	for i, existing := range d.nodes {
		if existing == n {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			return
		}
	}
}

// Subscribe registers a broad-scope pointer listener.
func (d *Desk) Subscribe(fn PointerFunc) Subscription {
	if fn == nil {
		return &deskSub{desk: d, dead: true}
	}
	d.nextID++
	sub := &deskSub{desk: d, id: d.nextID, fn: fn}
	d.subs = append(d.subs, sub)
	return sub
}

func (d *Desk) removeSub(id int) {
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of live pointer subscriptions.
func (d *Desk) Subscribers() int {
	return len(d.subs)
}

// Nodes returns the mounted nodes in stacking order, bottom first. Nodes
// with equal z keep their mount order.
func (d *Desk) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex() < out[j].ZIndex()
	})
	return out
}

// NodeAt returns the topmost node whose bounds contain p, or nil.
func (d *Desk) NodeAt(p Point) Node {
	nodes := d.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Bounds().Contains(p) {
			return nodes[i]
		}
	}
	return nil
}

// Dispatch delivers one pointer event. It reports whether a pointer-down
// landed on a node; move and up events report true when at least one
// subscriber exists. A release of a button other than the one whose press
// started the interaction is dropped; a release that names no button
// always ends it.
func (d *Desk) Dispatch(ev PointerEvent) bool {
	switch ev.Kind {
	case PointerDown:
		if d.held == ButtonNone {
			d.held = ev.Button
		}
		n := d.NodeAt(ev.Pos)
		if n == nil {
			return false
		}
		n.PointerDown(ev)
		return true
	case PointerUp:
		if d.held != ButtonNone && ev.Button != ButtonNone && ev.Button != d.held {
			return false
		}
		d.held = ButtonNone
	}

	// Listeners may unsubscribe (or close other surfaces) while we
	// iterate, so walk a snapshot and skip entries that died.
	subs := make([]*deskSub, len(d.subs))
	copy(subs, d.subs)
	for _, s := range subs {
		if s.dead {
			continue
		}
		s.fn(ev)
	}
	return len(subs) > 0
}
