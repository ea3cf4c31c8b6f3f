package x11

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/wm"
	"github.com/1broseidon/floatdesk/internal/workspace"
)

// Options configures Run.
type Options struct {
	Config *config.Config
	Store  *workspace.Store
	// Layout names the saved layout to restore at start and save on exit.
	// Empty uses the configured autosave layout.
	Layout string
	Logger *slog.Logger
}

// desk ties a Host to a window manager and the key bindings that drive it.
type desk struct {
	conn    *Connection
	host    *Host
	manager *wm.Manager
	tiler   *tiling.Tiler
	store   *workspace.Store
	cfg     *config.Config
	logger  *slog.Logger

	layoutName string
	restore    bool
	opened     int
}

// Run opens the desk on the X display and blocks until the desk window is
// closed, q is pressed or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	palette, err := NewPalette(cfg.Theme)
	if err != nil {
		return err
	}

	conn, err := NewConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	area, err := conn.DeskArea()
	if err != nil {
		return err
	}
	host, err := NewHost(conn, area, palette, logger)
	if err != nil {
		return err
	}
	defer host.Destroy()

	d := newDesk(conn, host, cfg, opts, logger)
	if err := d.bindKeys(); err != nil {
		return err
	}
	d.openStartup()

	stop := context.AfterFunc(ctx, host.RequestClose)
	defer stop()

	logger.Info("desk started", "x", area.X, "y", area.Y, "width", area.Width, "height", area.Height)
	host.Redraw()
	conn.EventLoop()
	d.shutdown()
	return nil
}

func newDesk(conn *Connection, host *Host, cfg *config.Config, opts Options, logger *slog.Logger) *desk {
	manager := wm.NewManager(host, wm.WithLogger(logger), wm.WithMetrics(cfg.Metrics()))
	d := &desk{
		conn:       conn,
		host:       host,
		manager:    manager,
		tiler:      tiling.NewTiler(manager, cfg, logger),
		store:      opts.Store,
		cfg:        cfg,
		logger:     logger,
		layoutName: opts.Layout,
		restore:    opts.Layout != "",
	}
	if d.layoutName == "" {
		d.layoutName = cfg.Store.AutosaveName
		d.restore = cfg.Store.Autosave
	}
	host.Surfaces = manager.Surfaces
	host.OnClose = conn.Quit
	return d
}

func (d *desk) bindKeys() error {
	bindings := map[string]func(){
		"q":      d.conn.Quit,
		"Escape": d.conn.Quit,
		"n":      d.newWindow,
		"x":      d.withFocused((*wm.Surface).Close),
		"m":      d.withFocused((*wm.Surface).ToggleMaximize),
		"Tab":    d.focusNext,
		"t":      d.tile,
		"u":      func() { d.tiler.Undo() },
		"a":      func() { d.tiler.Cycle(1); d.tile() },
		"s":      d.save,
		"r":      d.restoreLayout,
	}
	for key, fn := range bindings {
		err := keybind.KeyPressFun(func(_ *xgbutil.XUtil, _ xevent.KeyPressEvent) {
			fn()
			d.host.Redraw()
		}).Connect(d.conn.XUtil, d.host.Window(), key, false)
		if err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func (d *desk) withFocused(fn func(*wm.Surface)) func() {
	return func() {
		if s := d.manager.Focused(); s != nil {
			fn(s)
		}
	}
}

func (d *desk) focusNext() {
	if surfaces := stacked(d.manager.Surfaces()); len(surfaces) > 1 {
		d.manager.Focus(surfaces[0])
	}
}

func (d *desk) openStartup() {
	for _, w := range d.cfg.Windows {
		text := w.Text
		if w.File != "" {
			text = readFile(w.File)
		}
		var pos *platform.Point
		if w.X != nil && w.Y != nil {
			pos = wm.At(*w.X, *w.Y)
		}
		s := d.manager.Open(wm.Options{Title: w.Title, Content: text, Width: w.Width, Height: w.Height, Position: pos})
		if s != nil && w.Maximized {
			s.Maximize()
		}
		d.opened++
	}

	if d.restore && d.store != nil {
		d.restoreLayout()
	}
	if d.manager.Len() == 0 {
		d.open("Welcome", welcomeText)
	}
}

const welcomeText = `floatdesk

Drag a title bar to move a window.
Drag an edge or corner to resize it.
Drop on the top edge to maximize,
or on the left or right edge to snap.

n new window   x close   m maximize
t tile   a next arrangement   u undo
s save layout   r restore   q quit`

func readFile(path string) string {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		expanded = path
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func (d *desk) open(title, text string) *wm.Surface {
	d.opened++
	return d.manager.Open(wm.Options{Title: title, Content: text})
}

func (d *desk) newWindow() {
	step := d.opened % 8
	d.opened++
	d.manager.Open(wm.Options{
		Title:    fmt.Sprintf("Window %d", d.opened),
		Content:  "",
		Position: wm.At(32+32*step, 32+32*step),
	})
}

func (d *desk) tile() {
	n, err := d.tiler.Tile()
	if err != nil {
		d.logger.Warn("tile failed", "arrangement", d.tiler.Active(), "error", err)
		return
	}
	d.logger.Info("tiled windows", "count", n, "arrangement", d.tiler.Active())
}

func (d *desk) save() {
	if d.store == nil {
		return
	}
	if err := d.store.Save(workspace.Capture(d.layoutName, d.manager)); err != nil {
		d.logger.Warn("failed to save layout", "layout", d.layoutName, "error", err)
		return
	}
	d.logger.Info("layout saved", "layout", d.layoutName, "windows", d.manager.Len())
}

func (d *desk) restoreLayout() {
	if d.store == nil {
		return
	}
	layout, err := d.store.Load(d.layoutName)
	if err != nil {
		if !errors.Is(err, workspace.ErrNotFound) {
			d.logger.Warn("failed to restore layout", "layout", d.layoutName, "error", err)
		}
		return
	}
	if _, missing := workspace.Apply(layout, d.manager); len(missing) > 0 {
		for _, rec := range missing {
			d.open(rec.Title, "")
		}
		workspace.Apply(layout, d.manager)
	}
}

// shutdown saves the layout and closes every window so each releases its
// pointer subscription before the host goes away.
func (d *desk) shutdown() {
	d.autosave()
	d.manager.CloseAll()
}

func (d *desk) autosave() {
	if d.cfg.Store.Autosave && d.manager.Len() > 0 {
		d.save()
	}
}
