package x11

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

// Host is a platform host backed by one top-level X window. Floating
// windows are painted into it; pointer events on it are fed to the embedded
// Desk, which routes them to surfaces.
type Host struct {
	*platform.Desk

	conn    *Connection
	win     *xwindow.Window
	gc      xproto.Gcontext
	font    xproto.Font
	buffer  xproto.Pixmap
	bufSize platform.Size
	outline *Outline
	palette Palette
	logger  *slog.Logger

	protocols    xproto.Atom
	deleteWindow xproto.Atom

	// Surfaces supplies what to paint, bottom to top order not required.
	Surfaces func() []*wm.Surface
	// OnClose runs when the window manager asks the desk window to close.
	OnClose func()
}

// NewHost creates and maps the desk window over area.
func NewHost(conn *Connection, area platform.Rect, palette Palette, logger *slog.Logger) (*Host, error) {
	xu := conn.XUtil
	h := &Host{
		Desk:    platform.NewDesk(platform.Size{Width: area.Width, Height: area.Height}),
		conn:    conn,
		palette: palette,
		logger:  logger,
	}

	win, err := xwindow.Generate(xu)
	if err != nil {
		return nil, fmt.Errorf("allocate window id: %w", err)
	}
	err = win.CreateChecked(conn.Root, area.X, area.Y, area.Width, area.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		palette.Background,
		xproto.EventMaskExposure|xproto.EventMaskStructureNotify|
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|
			xproto.EventMaskButtonMotion|xproto.EventMaskKeyPress,
	)
	if err != nil {
		return nil, fmt.Errorf("create desk window: %w", err)
	}
	h.win = win

	if err := ewmh.WmNameSet(xu, win.Id, "floatdesk"); err != nil {
		logger.Debug("failed to set window name", "error", err)
	}
	if err := icccm.WmProtocolsSet(xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		logger.Debug("failed to set WM_PROTOCOLS", "error", err)
	}
	h.protocols, _ = xprop.Atm(xu, "WM_PROTOCOLS")
	h.deleteWindow, _ = xprop.Atm(xu, "WM_DELETE_WINDOW")

	if err := h.createGC(); err != nil {
		win.Destroy()
		return nil, err
	}
	h.outline = NewOutline(xu, win.Id)
	h.connect()
	win.Map()
	return h, nil
}

// Window returns the desk window id.
func (h *Host) Window() xproto.Window { return h.win.Id }

func (h *Host) createGC() error {
	conn := h.conn.XUtil.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return fmt.Errorf("allocate font id: %w", err)
	}
	opened := false
	for _, name := range []string{"7x13", "fixed", "6x13"} {
		if xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		return fmt.Errorf("no core font available")
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(conn, gc, xproto.Drawable(h.win.Id),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{h.palette.Title, h.palette.Background, uint32(font), 0},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("create gc: %w", err)
	}
	h.font = font
	h.gc = gc
	return nil
}

func (h *Host) connect() {
	xu := h.conn.XUtil
	id := h.win.Id

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		btn := pointerButton(ev.Detail)
		if btn == platform.ButtonNone {
			return
		}
		h.dispatch(platform.PointerDown, ev.EventX, ev.EventY, btn, ev.Time)
	}).Connect(xu, id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		h.dispatch(platform.PointerMove, ev.EventX, ev.EventY, heldButton(ev.State), ev.Time)
	}).Connect(xu, id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		btn := pointerButton(ev.Detail)
		if btn == platform.ButtonNone {
			return
		}
		h.dispatch(platform.PointerUp, ev.EventX, ev.EventY, btn, ev.Time)
	}).Connect(xu, id)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			h.Redraw()
		}
	}).Connect(xu, id)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		size := platform.Size{Width: int(ev.Width), Height: int(ev.Height)}
		if size == h.Viewport() {
			return
		}
		h.Resize(size)
		h.logger.Debug("desk resized", "width", size.Width, "height", size.Height)
		h.Redraw()
	}).Connect(xu, id)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Type != h.protocols || len(ev.Data.Data32) == 0 || xproto.Atom(ev.Data.Data32[0]) != h.deleteWindow {
			return
		}
		if h.OnClose != nil {
			h.OnClose()
		}
	}).Connect(xu, id)
}

func (h *Host) dispatch(kind platform.PointerKind, x, y int16, btn platform.Button, ts xproto.Timestamp) {
	h.Dispatch(platform.PointerEvent{
		Kind:   kind,
		Pos:    platform.Point{X: int(x), Y: int(y)},
		Button: btn,
		At:     serverTime(ts),
	})
	h.Redraw()
}

// RequestClose asks the event loop to close the desk as if the window
// manager had. It is safe to call from any goroutine.
func (h *Host) RequestClose() {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: h.win.Id,
		Type:   h.protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(h.deleteWindow), 0, 0, 0, 0}),
	}
	xproto.SendEvent(h.conn.XUtil.Conn(), false, h.win.Id, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

// Redraw paints every surface into the back buffer and copies it to the
// window. The snap preview is shown as an outline above the surfaces.
func (h *Host) Redraw() {
	size := h.Viewport()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	if err := h.ensureBuffer(size); err != nil {
		h.logger.Warn("failed to allocate back buffer", "error", err)
		return
	}

	var surfaces []*wm.Surface
	if h.Surfaces != nil {
		surfaces = h.Surfaces()
	}
	conn := h.conn.XUtil.Conn()
	dst := xproto.Drawable(h.buffer)
	sc := buildScene(surfaces, size, h.palette)

	for _, f := range sc.Fills {
		r, ok := toXRect(f.Rect)
		if !ok {
			continue
		}
		xproto.ChangeGC(conn, h.gc, xproto.GcForeground, []uint32{f.Color})
		xproto.PolyFillRectangle(conn, dst, h.gc, []xproto.Rectangle{r})
	}
	for _, l := range sc.Labels {
		xproto.ChangeGC(conn, h.gc, xproto.GcForeground|xproto.GcBackground, []uint32{l.Color, l.Back})
		xproto.ImageText8(conn, byte(len(l.Text)), dst, h.gc, clamp16(l.X), clamp16(l.Y), l.Text)
	}
	xproto.CopyArea(conn, dst, xproto.Drawable(h.win.Id), h.gc, 0, 0, 0, 0, uint16(size.Width), uint16(size.Height))

	if r, ok := dragPreview(surfaces); ok {
		if err := h.outline.Show(r, h.palette.SnapPreview); err != nil {
			h.logger.Warn("failed to show snap preview", "error", err)
		}
	} else {
		h.outline.Hide()
	}
}

// SetPalette swaps the theme and repaints.
func (h *Host) SetPalette(p Palette) {
	h.palette = p
	h.Redraw()
}

func (h *Host) ensureBuffer(size platform.Size) error {
	if h.buffer != 0 && h.bufSize == size {
		return nil
	}
	conn := h.conn.XUtil.Conn()
	if h.buffer != 0 {
		xproto.FreePixmap(conn, h.buffer)
		h.buffer = 0
	}
	pid, err := xproto.NewPixmapId(conn)
	if err != nil {
		return err
	}
	depth := h.conn.XUtil.Screen().RootDepth
	if err := xproto.CreatePixmapChecked(conn, depth, pid, xproto.Drawable(h.win.Id), uint16(size.Width), uint16(size.Height)).Check(); err != nil {
		return err
	}
	h.buffer = pid
	h.bufSize = size
	return nil
}

// Destroy releases the window and its drawing resources.
func (h *Host) Destroy() {
	conn := h.conn.XUtil.Conn()
	h.outline.Destroy()
	xevent.Detach(h.conn.XUtil, h.win.Id)
	if h.buffer != 0 {
		xproto.FreePixmap(conn, h.buffer)
	}
	xproto.FreeGC(conn, h.gc)
	xproto.CloseFont(conn, h.font)
	h.win.Destroy()
}

func pointerButton(b xproto.Button) platform.Button {
	switch b {
	case xproto.ButtonIndex1:
		return platform.ButtonLeft
	case xproto.ButtonIndex2:
		return platform.ButtonMiddle
	case xproto.ButtonIndex3:
		return platform.ButtonRight
	default:
		// 4 and 5 are wheel clicks.
		return platform.ButtonNone
	}
}

func heldButton(state uint16) platform.Button {
	switch {
	case state&xproto.KeyButMaskButton1 != 0:
		return platform.ButtonLeft
	case state&xproto.KeyButMaskButton2 != 0:
		return platform.ButtonMiddle
	case state&xproto.KeyButMaskButton3 != 0:
		return platform.ButtonRight
	default:
		return platform.ButtonNone
	}
}

// serverTime turns an X timestamp (milliseconds since the server started)
// into a time. Only differences between timestamps are meaningful.
func serverTime(ts xproto.Timestamp) time.Time {
	return time.UnixMilli(int64(ts))
}

func toXRect(r platform.Rect) (xproto.Rectangle, bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return xproto.Rectangle{}, false
	}
	return xproto.Rectangle{
		X:      clamp16(r.X),
		Y:      clamp16(r.Y),
		Width:  uint16(min(r.Width, math.MaxUint16)),
		Height: uint16(min(r.Height, math.MaxUint16)),
	}, true
}

func clamp16(v int) int16 {
	return int16(max(min(v, math.MaxInt16), math.MinInt16))
}
