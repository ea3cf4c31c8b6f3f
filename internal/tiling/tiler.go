package tiling

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

// Tiler arranges a manager's open windows using the configured
// arrangements. Geometry is pushed through ApplyGeometrySnapshot, so the
// manager itself never touches it.
type Tiler struct {
	manager  *wm.Manager
	config   *config.Config
	logger   *slog.Logger
	active   string
	previous map[*wm.Surface]wm.Snapshot
}

// NewTiler creates a tiler for m. A nil logger discards output.
func NewTiler(m *wm.Manager, cfg *config.Config, logger *slog.Logger) *Tiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tiler{
		manager: m,
		config:  cfg,
		logger:  logger,
		active:  cfg.Tiling.Arrangement,
	}
}

// order returns the windows to tile, topmost first, so the focused window
// takes the first (master) slot.
func (t *Tiler) order() []*wm.Surface {
	surfaces := t.manager.Surfaces()
	sort.SliceStable(surfaces, func(i, j int) bool {
		return surfaces[i].ZIndex() > surfaces[j].ZIndex()
	})
	return surfaces
}

// Tile arranges every open window with the active arrangement. It returns
// the number of windows moved. Windows past a fixed arrangement's capacity
// are left alone.
func (t *Tiler) Tile() (int, error) {
	a, ok := t.config.Arrangements[t.active]
	if !ok {
		return 0, fmt.Errorf("arrangement %q not found", t.active)
	}
	host := t.manager.Host()
	if host == nil {
		return 0, fmt.Errorf("manager has no host")
	}

	vp := host.Viewport()
	area := ApplyRegion(platform.Rect{Width: vp.Width, Height: vp.Height}, a.TileRegion)
	surfaces := t.order()
	if len(surfaces) == 0 {
		return 0, nil
	}

	positions, err := CalculatePositions(len(surfaces), area, a, t.config.Tiling.Gap)
	if err != nil {
		return 0, err
	}

	previous := make(map[*wm.Surface]wm.Snapshot, len(positions))
	for i, pos := range positions {
		s := surfaces[i]
		previous[s] = s.GeometrySnapshot()
		limits := s.Metrics()
		if pos.Width < limits.MinWidth || pos.Height < limits.MinHeight {
			t.logger.Debug("tile slot below minimum size, window will overlap",
				"title", s.Title(), "slot", fmt.Sprintf("%dx%d", pos.Width, pos.Height))
		}
		s.ApplyGeometrySnapshot(wm.Snapshot{X: pos.X, Y: pos.Y, Width: pos.Width, Height: pos.Height})
	}
	t.previous = previous

	t.logger.Info("windows tiled", "arrangement", t.active, "mode", a.Mode, "windows", len(positions))
	return len(positions), nil
}

// Undo restores the geometry captured before the last Tile. It reports
// whether there was anything to undo.
func (t *Tiler) Undo() bool {
	if len(t.previous) == 0 {
		return false
	}
	for s, snap := range t.previous {
		if !s.Closed() {
			s.ApplyGeometrySnapshot(snap)
		}
	}
	t.previous = nil
	return true
}

// Active returns the arrangement Tile uses.
func (t *Tiler) Active() string { return t.active }

// SetActive selects a configured arrangement.
func (t *Tiler) SetActive(name string) error {
	if _, ok := t.config.Arrangements[name]; !ok {
		return fmt.Errorf("arrangement %q not found", name)
	}
	t.active = name
	return nil
}

// Cycle moves to the next or previous arrangement in name order.
func (t *Tiler) Cycle(delta int) string {
	names := make([]string, 0, len(t.config.Arrangements))
	for name := range t.config.Arrangements {
		names = append(names, name)
	}
	if len(names) == 0 {
		return t.active
	}
	sort.Strings(names)

	idx := 0
	for i, name := range names {
		if name == t.active {
			idx = i
			break
		}
	}
	n := len(names)
	t.active = names[((idx+delta)%n+n)%n]
	return t.active
}

// UpdateConfig swaps in a reloaded config, keeping the active arrangement
// when it still exists.
func (t *Tiler) UpdateConfig(cfg *config.Config) {
	t.config = cfg
	if _, ok := cfg.Arrangements[t.active]; !ok {
		t.active = cfg.Tiling.Arrangement
	}
}
