package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/wm"
	"github.com/1broseidon/floatdesk/internal/workspace"
)

const wheelLines = 3

// configReloadedMsg carries a config picked up by the file watcher.
type configReloadedMsg struct {
	result *config.LoadResult
}

// model is the root bubbletea model. It owns the desk and the window
// manager; surfaces hold callbacks into it, so it is used by pointer.
type model struct {
	cfg     *config.Config
	scale   Scale
	desk    *platform.Desk
	manager *wm.Manager
	tiler   *tiling.Tiler
	store   *workspace.Store
	comp    *Compositor
	logger  *slog.Logger
	now     func() time.Time

	keys keyMap
	help help.Model

	// layoutName is where s saves and r restores.
	layoutName    string
	restoreOnOpen bool
	started       bool
	closed        bool
	opened        int
	dirty         bool
	status        string

	// Terminal dimensions
	width    int
	height   int
	deskRows int
}

func newModel(opts Options) *model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	scale := Scale{CellWidth: cfg.Terminal.CellWidth, CellHeight: cfg.Terminal.CellHeight}.normalized()
	desk := platform.NewDesk(platform.Size{})
	manager := wm.NewManager(desk,
		wm.WithLogger(logger),
		wm.WithMetrics(scale.Metrics(cfg.Metrics())),
	)

	layoutName := opts.Layout
	restore := layoutName != ""
	if layoutName == "" {
		layoutName = cfg.Store.AutosaveName
		restore = cfg.Store.Autosave
	}

	return &model{
		cfg:           cfg,
		scale:         scale,
		desk:          desk,
		manager:       manager,
		tiler:         tiling.NewTiler(manager, cfg, logger),
		store:         opts.Store,
		comp:          NewCompositor(scale, cfg.Theme),
		logger:        logger,
		now:           time.Now,
		keys:          defaultKeyMap(),
		help:          help.New(),
		layoutName:    layoutName,
		restoreOnOpen: restore,
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = max(msg.Width-2, 0)
		m.layout()
		if !m.started {
			m.started = true
			m.openStartup()
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case configReloadedMsg:
		m.applyConfig(msg.result.Config)
		m.status = "config reloaded"
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	focused := m.manager.Focused()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.New):
		m.openWindow(fmt.Sprintf("Window %d", m.opened+1), InfoContent{}, m.cascadePosition())

	case key.Matches(msg, m.keys.Close):
		if focused != nil {
			focused.Close()
		}

	case key.Matches(msg, m.keys.Maximize):
		if focused != nil {
			focused.ToggleMaximize()
		}

	case key.Matches(msg, m.keys.Next):
		// Raising the bottom window walks the whole stack.
		if surfaces := stacked(m.manager.Surfaces()); len(surfaces) > 1 {
			m.manager.Focus(surfaces[0])
		}

	case key.Matches(msg, m.keys.Tile):
		m.tile()

	case key.Matches(msg, m.keys.Undo):
		if m.tiler.Undo() {
			m.dirty = true
			m.status = "tiling undone"
		}

	case key.Matches(msg, m.keys.Cycle):
		m.tiler.Cycle(1)
		m.tile()

	case key.Matches(msg, m.keys.Save):
		if err := m.saveLayout(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "saved layout " + m.layoutName
		}

	case key.Matches(msg, m.keys.Restore):
		if err := m.restoreLayout(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "restored layout " + m.layoutName
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	pos := m.scale.Point(msg.X, msg.Y)
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return
		}
		s, ok := m.desk.NodeAt(pos).(*wm.Surface)
		if !ok {
			return
		}
		if sc, ok := s.Content().(Scroller); ok {
			delta := wheelLines
			if msg.Button == tea.MouseButtonWheelUp {
				delta = -wheelLines
			}
			sc.Scroll(delta)
		}
		return
	}

	ev := platform.PointerEvent{Pos: pos, Button: pointerButton(msg.Button), At: m.now()}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Y >= m.deskRows {
			return
		}
		ev.Kind = platform.PointerDown
	case tea.MouseActionMotion:
		ev.Kind = platform.PointerMove
	case tea.MouseActionRelease:
		ev.Kind = platform.PointerUp
	default:
		return
	}
	m.desk.Dispatch(ev)
}

func pointerButton(b tea.MouseButton) platform.Button {
	switch b {
	case tea.MouseButtonLeft:
		return platform.ButtonLeft
	case tea.MouseButtonMiddle:
		return platform.ButtonMiddle
	case tea.MouseButtonRight:
		return platform.ButtonRight
	default:
		return platform.ButtonNone
	}
}

// layout sizes the desk to the rows left over by the bars.
func (m *model) layout() {
	bars := lipgloss.Height(m.bars())
	m.deskRows = max(m.height-bars, 0)
	m.desk.Resize(m.scale.Viewport(m.width, m.deskRows))
}

// openStartup opens the configured windows and restores the saved layout.
// With nothing to show, a welcome window is opened.
func (m *model) openStartup() {
	for _, w := range m.cfg.Windows {
		var content Content = NewTextContent(w.Text)
		if w.File != "" {
			path, err := config.ExpandPath(w.File)
			if err != nil {
				path = w.File
			}
			content = NewFileContent(path)
		}
		var pos *platform.Point
		if w.X != nil && w.Y != nil {
			pos = wm.At(*w.X, *w.Y)
		}
		s := m.manager.Open(wm.Options{
			Title:          w.Title,
			Content:        content,
			Width:          w.Width,
			Height:         w.Height,
			Position:       pos,
			OnMoveOrResize: m.markDirty,
			OnClose:        m.markDirty,
		})
		if s != nil && w.Maximized {
			s.Maximize()
		}
		m.opened++
	}

	if m.restoreOnOpen && m.store != nil {
		if err := m.restoreLayout(); err != nil && !errors.Is(err, workspace.ErrNotFound) {
			m.logger.Warn("failed to restore layout", "layout", m.layoutName, "error", err)
			m.status = err.Error()
		}
	}

	if m.manager.Len() == 0 {
		m.openWindow("Welcome", NewTextContent(welcomeText), nil)
	}
	m.dirty = false
}

const welcomeText = `floatdesk

Drag a title bar to move a window.
Drag an edge or corner to resize it.
Drop a window on the top edge to maximize,
or on the left or right edge to snap it.
Double-click a title bar to toggle maximize.

Press n for a new window, ? for all keys.`

func (m *model) openWindow(title string, content Content, pos *platform.Point) *wm.Surface {
	m.opened++
	s := m.manager.Open(wm.Options{
		Title:          title,
		Content:        content,
		Position:       pos,
		OnMoveOrResize: m.markDirty,
		OnClose:        m.markDirty,
	})
	m.dirty = true
	return s
}

// cascadePosition offsets each new window down and right of the last,
// wrapping after eight.
func (m *model) cascadePosition() *platform.Point {
	step := m.opened % 8
	return wm.At(m.scale.CellWidth*(2+2*step), m.scale.CellHeight*(1+step))
}

func (m *model) markDirty() {
	m.dirty = true
}

func (m *model) tile() {
	n, err := m.tiler.Tile()
	if err != nil {
		m.status = err.Error()
		return
	}
	if n > 0 {
		m.dirty = true
	}
	m.status = fmt.Sprintf("tiled %d windows (%s)", n, m.tiler.Active())
}

func (m *model) saveLayout() error {
	if m.store == nil {
		return fmt.Errorf("no layout store configured")
	}
	if err := m.store.Save(workspace.Capture(m.layoutName, m.manager)); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

// restoreLayout applies the saved layout, opening a window for every record
// that has no open counterpart.
func (m *model) restoreLayout() error {
	if m.store == nil {
		return fmt.Errorf("no layout store configured")
	}
	layout, err := m.store.Load(m.layoutName)
	if err != nil {
		return err
	}
	_, missing := workspace.Apply(layout, m.manager)
	if len(missing) == 0 {
		return nil
	}
	for _, rec := range missing {
		m.openWindow(rec.Title, InfoContent{}, nil)
	}
	workspace.Apply(layout, m.manager)
	return nil
}

// shutdown saves the layout and closes every window. It runs once, whether
// the desk ends by key or by the program stopping.
func (m *model) shutdown() {
	if m.closed {
		return
	}
	m.closed = true
	m.autosave()
	m.manager.CloseAll()
}

func (m *model) autosave() {
	if !m.cfg.Store.Autosave || m.store == nil || m.manager.Len() == 0 {
		return
	}
	if err := m.saveLayout(); err != nil {
		m.logger.Warn("autosave failed", "layout", m.layoutName, "error", err)
		return
	}
	m.logger.Info("layout autosaved", "layout", m.layoutName, "windows", m.manager.Len())
}

// applyConfig swaps in a reloaded config. New metrics apply to windows
// opened afterwards.
func (m *model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.scale = Scale{CellWidth: cfg.Terminal.CellWidth, CellHeight: cfg.Terminal.CellHeight}.normalized()
	m.manager.SetMetrics(m.scale.Metrics(cfg.Metrics()))
	m.tiler.UpdateConfig(cfg)
	m.comp.SetTheme(cfg.Theme)
	m.comp.SetScale(m.scale)
	m.layout()
}

// View implements tea.Model.
func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	desk := m.comp.Render(m.manager.Surfaces(), m.width, m.deskRows)
	if m.deskRows == 0 {
		return m.bars()
	}
	return lipgloss.JoinVertical(lipgloss.Left, desk, m.bars())
}
