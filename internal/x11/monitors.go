package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/floatdesk/internal/platform"
)

// Monitor is one active RandR output.
type Monitor struct {
	Name string
	Rect platform.Rect
}

// Monitors lists the active outputs.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		monitors = append(monitors, Monitor{
			Name: name,
			Rect: platform.Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
		})
	}
	return monitors, nil
}

// DeskArea returns the area the desk window should cover: the monitor under
// the pointer clipped to the EWMH work area, which excludes panels and
// docks. Without RandR it falls back to the whole root window.
func (c *Connection) DeskArea() (platform.Rect, error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return platform.Rect{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	area := platform.Rect{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}

	if monitors, err := c.Monitors(); err == nil && len(monitors) > 0 {
		area = monitors[0].Rect
		if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
			if mon, ok := monitorAt(monitors, platform.Point{X: int(pointer.RootX), Y: int(pointer.RootY)}); ok {
				area = mon.Rect
			}
		}
	}

	workAreas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workAreas) == 0 {
		return area, nil
	}
	desktop := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workAreas) {
		desktop = int(current)
	}
	wa := workAreas[desktop]
	return clipToWorkArea(area, platform.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}), nil
}

func monitorAt(monitors []Monitor, p platform.Point) (Monitor, bool) {
	for _, m := range monitors {
		if m.Rect.Contains(p) {
			return m, true
		}
	}
	return Monitor{}, false
}

// clipToWorkArea intersects a monitor with the work area. A work area that
// misses the monitor entirely is ignored.
func clipToWorkArea(mon, wa platform.Rect) platform.Rect {
	x1, y1 := max(mon.X, wa.X), max(mon.Y, wa.Y)
	x2, y2 := min(mon.Right(), wa.Right()), min(mon.Bottom(), wa.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return mon
	}
	return platform.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
