package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/floatdesk/internal/platform"
)

// OutlineThickness is the width of the snap preview outline in pixels.
const OutlineThickness = 4

// Outline is a rectangular border made of four thin child windows. It is
// drawn above everything the container paints, so a moving window never
// hides it.
type Outline struct {
	xu     *xgbutil.XUtil
	parent xproto.Window

	Top     xproto.Window
	Bottom  xproto.Window
	Left    xproto.Window
	Right   xproto.Window
	created bool
	mapped  bool
	shown   platform.Rect
}

// NewOutline prepares an outline inside parent. Windows are created on
// first Show.
func NewOutline(xu *xgbutil.XUtil, parent xproto.Window) *Outline {
	return &Outline{xu: xu, parent: parent}
}

// Show places the outline around rect in the given colour.
func (o *Outline) Show(rect platform.Rect, color uint32) error {
	if !o.created {
		if err := o.create(); err != nil {
			return err
		}
	}
	if o.mapped && o.shown == rect {
		return nil
	}

	for _, bar := range outlineBars(rect, OutlineThickness) {
		o.update(bar.win(o), bar.rect, color)
	}

	conn := o.xu.Conn()
	xproto.MapWindow(conn, o.Top)
	xproto.MapWindow(conn, o.Bottom)
	xproto.MapWindow(conn, o.Left)
	xproto.MapWindow(conn, o.Right)

	o.mapped = true
	o.shown = rect
	return nil
}

// Hide unmaps the outline without destroying it.
func (o *Outline) Hide() {
	if !o.mapped {
		return
	}
	conn := o.xu.Conn()
	xproto.UnmapWindow(conn, o.Top)
	xproto.UnmapWindow(conn, o.Bottom)
	xproto.UnmapWindow(conn, o.Left)
	xproto.UnmapWindow(conn, o.Right)
	o.mapped = false
}

// Destroy releases the outline windows.
func (o *Outline) Destroy() {
	conn := o.xu.Conn()
	for _, w := range []xproto.Window{o.Top, o.Bottom, o.Left, o.Right} {
		if w != 0 {
			xproto.DestroyWindow(conn, w)
		}
	}
	o.Top, o.Bottom, o.Left, o.Right = 0, 0, 0, 0
	o.created = false
	o.mapped = false
}

func (o *Outline) create() error {
	for _, dst := range []*xproto.Window{&o.Top, &o.Bottom, &o.Left, &o.Right} {
		w, err := o.createChild()
		if err != nil {
			o.Destroy()
			return err
		}
		*dst = w
	}
	o.created = true
	return nil
}

func (o *Outline) createChild() (xproto.Window, error) {
	conn := o.xu.Conn()
	screen := o.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		o.parent,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel,
		[]uint32{0},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

func (o *Outline) update(wid xproto.Window, r platform.Rect, color uint32) {
	conn := o.xu.Conn()
	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(r.X)),
			uint32(int32(r.Y)),
			uint32(max(r.Width, 1)),
			uint32(max(r.Height, 1)),
			xproto.StackModeAbove,
		},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}

type side int

const (
	sideTop side = iota
	sideBottom
	sideLeft
	sideRight
)

type bar struct {
	side side
	rect platform.Rect
}

func (b bar) win(o *Outline) xproto.Window {
	switch b.side {
	case sideTop:
		return o.Top
	case sideBottom:
		return o.Bottom
	case sideLeft:
		return o.Left
	default:
		return o.Right
	}
}

// outlineBars splits a border of thickness t around r into four bars. The
// top and bottom bars span the full width; the side bars fill between them.
func outlineBars(r platform.Rect, t int) []bar {
	t = max(min(t, r.Width/2, r.Height/2), 1)
	return []bar{
		{sideTop, platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: t}},
		{sideBottom, platform.Rect{X: r.X, Y: r.Bottom() - t, Width: r.Width, Height: t}},
		{sideLeft, platform.Rect{X: r.X, Y: r.Y + t, Width: t, Height: r.Height - 2*t}},
		{sideRight, platform.Rect{X: r.Right() - t, Y: r.Y + t, Width: t, Height: r.Height - 2*t}},
	}
}
