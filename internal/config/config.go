package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatdesk/internal/runtimepath"
	"github.com/1broseidon/floatdesk/internal/wm"
)

// ArrangementMode defines how the tile command places open windows.
type ArrangementMode string

const (
	ModeGrid        ArrangementMode = "grid"         // Near-square grid based on count.
	ModeFixed       ArrangementMode = "fixed"        // Specific rows × cols.
	ModeColumns     ArrangementMode = "columns"      // Side by side, one column each.
	ModeRows        ArrangementMode = "rows"         // Stacked, one row each.
	ModeMasterStack ArrangementMode = "master-stack" // Master pane left, stack grid right.
	ModeCascade     ArrangementMode = "cascade"      // Overlapping, offset diagonally.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion restricts an arrangement to part of the viewport.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent,omitempty"`      // 0-100
	YPercent      int        `yaml:"y_percent,omitempty"`      // 0-100
	WidthPercent  int        `yaml:"width_percent,omitempty"`  // 0-100
	HeightPercent int        `yaml:"height_percent,omitempty"` // 0-100
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack defines the master-stack parameters.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // 10-90
	MaxStackRows       int `yaml:"max_stack_rows"`
	MaxStackCols       int `yaml:"max_stack_cols"`
}

// Arrangement is a named tiling preset.
type Arrangement struct {
	Mode            ArrangementMode `yaml:"mode"`
	TileRegion      TileRegion      `yaml:"tile_region"`
	FixedGrid       FixedGrid       `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack     `yaml:"master_stack,omitempty"`
	CascadeStep     int             `yaml:"cascade_step,omitempty"`
	MaxWidth        int             `yaml:"max_width,omitempty"`  // 0 = unlimited
	MaxHeight       int             `yaml:"max_height,omitempty"` // 0 = unlimited
	FlexibleLastRow bool            `yaml:"flexible_last_row,omitempty"`
}

// WindowConfig holds the window-manager metrics, in pixels.
type WindowConfig struct {
	MinWidth      int `yaml:"min_width"`
	MinHeight     int `yaml:"min_height"`
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	DragThreshold int `yaml:"drag_threshold"`
	SnapThreshold int `yaml:"snap_threshold"`
	HeaderHeight  int `yaml:"header_height"`
	HandleSize    int `yaml:"handle_size"`
	ButtonWidth   int `yaml:"button_width"`
	DoubleClickMS int `yaml:"double_click_ms"`
}

// TerminalConfig maps terminal cells onto the pixel space the engine uses.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// Theme holds colour strings: "#rrggbb" or an ANSI colour number.
type Theme struct {
	ActiveBorder   string `yaml:"active_border"`
	InactiveBorder string `yaml:"inactive_border"`
	Title          string `yaml:"title"`
	SnapPreview    string `yaml:"snap_preview"`
	Background     string `yaml:"background"`
}

// LoggingConfig configures the application log.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error.
	Level string `yaml:"level"`
	// File is the log file path. "~" expands to the home directory; empty
	// means $XDG_DATA_HOME/floatdesk/floatdesk.log.
	File string `yaml:"file,omitempty"`
}

// StoreConfig configures where saved layouts live.
type StoreConfig struct {
	// Dir defaults to $XDG_CONFIG_HOME/floatdesk/layouts when empty.
	Dir          string `yaml:"dir,omitempty"`
	Autosave     bool   `yaml:"autosave"`
	AutosaveName string `yaml:"autosave_name"`
}

// TilingConfig selects the arrangement used by the tile command.
type TilingConfig struct {
	Arrangement string `yaml:"arrangement"`
	Gap         int    `yaml:"gap"`
}

// StartupWindow is a window opened when the desk starts. Exactly one of Text
// or File provides the body.
type StartupWindow struct {
	Title     string `yaml:"title"`
	Text      string `yaml:"text,omitempty"`
	File      string `yaml:"file,omitempty"`
	X         *int   `yaml:"x,omitempty"`
	Y         *int   `yaml:"y,omitempty"`
	Width     int    `yaml:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"`
	Maximized bool   `yaml:"maximized,omitempty"`
}

// Config is the effective configuration after defaults, includes and user
// overrides have been merged.
type Config struct {
	Window       WindowConfig           `yaml:"window"`
	Terminal     TerminalConfig         `yaml:"terminal"`
	Theme        Theme                  `yaml:"theme"`
	Logging      LoggingConfig          `yaml:"logging"`
	Store        StoreConfig            `yaml:"store"`
	Tiling       TilingConfig           `yaml:"tiling"`
	Arrangements map[string]Arrangement `yaml:"arrangements"`
	Windows      []StartupWindow        `yaml:"windows,omitempty"`
}

const DefaultArrangement = "grid"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			MinWidth:      wm.DefaultMinWidth,
			MinHeight:     wm.DefaultMinHeight,
			DefaultWidth:  wm.DefaultWidth,
			DefaultHeight: wm.DefaultHeight,
			DragThreshold: wm.DefaultDragThreshold,
			SnapThreshold: wm.DefaultSnapThreshold,
			HeaderHeight:  wm.DefaultHeaderHeight,
			HandleSize:    wm.DefaultHandleSize,
			ButtonWidth:   wm.DefaultButtonWidth,
			DoubleClickMS: int(wm.DefaultDoubleClick / time.Millisecond),
		},
		Terminal: TerminalConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
		Theme: Theme{
			ActiveBorder:   "#7aa2f7",
			InactiveBorder: "#565f89",
			Title:          "#c0caf5",
			SnapPreview:    "#2ac3de",
			Background:     "#1a1b26",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Autosave:     true,
			AutosaveName: "last",
		},
		Tiling: TilingConfig{
			Arrangement: DefaultArrangement,
			Gap:         8,
		},
		Arrangements: BuiltinArrangements(),
	}
}

// Metrics converts the window section into engine metrics.
func (c *Config) Metrics() wm.Metrics {
	w := c.Window
	return wm.Metrics{
		MinWidth:      w.MinWidth,
		MinHeight:     w.MinHeight,
		DefaultWidth:  w.DefaultWidth,
		DefaultHeight: w.DefaultHeight,
		DragThreshold: w.DragThreshold,
		SnapThreshold: w.SnapThreshold,
		HeaderHeight:  w.HeaderHeight,
		HandleSize:    w.HandleSize,
		ButtonWidth:   w.ButtonWidth,
		DoubleClick:   time.Duration(w.DoubleClickMS) * time.Millisecond,
	}
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFile returns the expanded log file path.
func (c *Config) LogFile() (string, error) {
	if strings.TrimSpace(c.Logging.File) == "" {
		return runtimepath.LogFile()
	}
	return ExpandPath(c.Logging.File)
}

// StoreDir returns the expanded layout store directory.
func (c *Config) StoreDir() (string, error) {
	if strings.TrimSpace(c.Store.Dir) == "" {
		return runtimepath.LayoutsDir()
	}
	return ExpandPath(c.Store.Dir)
}

// ActiveArrangement returns the arrangement selected by tiling.arrangement.
func (c *Config) ActiveArrangement() (Arrangement, error) {
	a, ok := c.Arrangements[c.Tiling.Arrangement]
	if !ok {
		return Arrangement{}, fmt.Errorf("arrangement %q not found", c.Tiling.Arrangement)
	}
	return a, nil
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// Save writes cfg to path as YAML, replacing any existing file.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

var (
	hexColorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	ansiColorPattern = regexp.MustCompile(`^[0-9]{1,3}$`)
	saveNamePattern  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// Validate checks that the effective configuration is usable.
func (c *Config) Validate() error {
	w := c.Window
	positive := []struct {
		path  string
		value int
	}{
		{"window.min_width", w.MinWidth},
		{"window.min_height", w.MinHeight},
		{"window.default_width", w.DefaultWidth},
		{"window.default_height", w.DefaultHeight},
		{"window.header_height", w.HeaderHeight},
		{"window.handle_size", w.HandleSize},
		{"window.button_width", w.ButtonWidth},
		{"terminal.cell_width", c.Terminal.CellWidth},
		{"terminal.cell_height", c.Terminal.CellHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{Path: p.path, Err: fmt.Errorf("must be > 0, got %d", p.value)}
		}
	}
	if w.DragThreshold < 0 {
		return &ValidationError{Path: "window.drag_threshold", Err: fmt.Errorf("must be >= 0")}
	}
	if w.SnapThreshold < 0 {
		return &ValidationError{Path: "window.snap_threshold", Err: fmt.Errorf("must be >= 0")}
	}
	if w.DoubleClickMS < 0 {
		return &ValidationError{Path: "window.double_click_ms", Err: fmt.Errorf("must be >= 0")}
	}
	if w.DefaultWidth < w.MinWidth {
		return &ValidationError{Path: "window.default_width", Err: fmt.Errorf("must be >= min_width (%d)", w.MinWidth)}
	}
	if w.DefaultHeight < w.MinHeight {
		return &ValidationError{Path: "window.default_height", Err: fmt.Errorf("must be >= min_height (%d)", w.MinHeight)}
	}
	if w.HeaderHeight >= w.MinHeight {
		return &ValidationError{Path: "window.header_height", Err: fmt.Errorf("must be smaller than min_height (%d)", w.MinHeight)}
	}
	if 2*w.ButtonWidth > w.MinWidth {
		return &ValidationError{Path: "window.button_width", Err: fmt.Errorf("two buttons must fit in min_width (%d)", w.MinWidth)}
	}

	colors := map[string]string{
		"theme.active_border":   c.Theme.ActiveBorder,
		"theme.inactive_border": c.Theme.InactiveBorder,
		"theme.title":           c.Theme.Title,
		"theme.snap_preview":    c.Theme.SnapPreview,
		"theme.background":      c.Theme.Background,
	}
	for _, path := range sortedKeys(colors) {
		if err := ValidateColor(colors[path]); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Store.Autosave && !saveNamePattern.MatchString(c.Store.AutosaveName) {
		return &ValidationError{Path: "store.autosave_name", Err: fmt.Errorf("invalid layout name %q", c.Store.AutosaveName)}
	}

	if c.Tiling.Gap < 0 {
		return &ValidationError{Path: "tiling.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if len(c.Arrangements) == 0 {
		return &ValidationError{Path: "arrangements", Err: fmt.Errorf("arrangements must not be empty")}
	}
	if _, ok := c.Arrangements[c.Tiling.Arrangement]; !ok {
		return &ValidationError{Path: "tiling.arrangement", Err: fmt.Errorf("arrangement %q not found in arrangements", c.Tiling.Arrangement)}
	}
	for _, name := range sortedKeys(c.Arrangements) {
		a := c.Arrangements[name]
		if err := validateArrangement(&a); err != nil {
			return &ValidationError{Path: "arrangements." + name, Err: err}
		}
	}

	for i, win := range c.Windows {
		path := fmt.Sprintf("windows[%d]", i)
		if strings.TrimSpace(win.Title) == "" {
			return &ValidationError{Path: path + ".title", Err: fmt.Errorf("title is required")}
		}
		if win.Text != "" && win.File != "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("text and file are mutually exclusive")}
		}
		if (win.X == nil) != (win.Y == nil) {
			return &ValidationError{Path: path, Err: fmt.Errorf("x and y must be given together")}
		}
		if win.Width < 0 || win.Height < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width/height must be >= 0")}
		}
	}

	return nil
}

// ValidateColor accepts "#rrggbb" or an ANSI colour number.
func ValidateColor(value string) error {
	switch {
	case hexColorPattern.MatchString(value):
		return nil
	case ansiColorPattern.MatchString(value):
		return nil
	default:
		return fmt.Errorf("invalid colour %q (want #rrggbb or an ANSI number)", value)
	}
}

// validateArrangement checks a single tiling preset.
func validateArrangement(a *Arrangement) error {
	switch a.Mode {
	case ModeGrid, ModeFixed, ModeColumns, ModeRows, ModeMasterStack, ModeCascade:
	default:
		return fmt.Errorf("invalid mode %q", a.Mode)
	}

	if a.Mode == ModeFixed && (a.FixedGrid.Rows <= 0 || a.FixedGrid.Cols <= 0) {
		return fmt.Errorf("fixed mode requires rows and cols to be positive")
	}
	if a.Mode == ModeMasterStack {
		ms := a.MasterStack
		if ms.MasterWidthPercent < 10 || ms.MasterWidthPercent > 90 {
			return fmt.Errorf("master_stack.master_width_percent must be between 10 and 90")
		}
		if ms.MaxStackRows < 1 || ms.MaxStackCols < 1 {
			return fmt.Errorf("master_stack.max_stack_rows/cols must be >= 1")
		}
	}
	if a.Mode == ModeCascade && a.CascadeStep <= 0 {
		return fmt.Errorf("cascade mode requires cascade_step > 0")
	}
	if a.MaxWidth < 0 || a.MaxHeight < 0 {
		return fmt.Errorf("max_width/height must be >= 0")
	}

	r := a.TileRegion
	switch r.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
	case RegionCustom:
		if r.XPercent < 0 || r.XPercent > 100 || r.YPercent < 0 || r.YPercent > 100 {
			return fmt.Errorf("x_percent/y_percent must be between 0 and 100")
		}
		if r.WidthPercent <= 0 || r.WidthPercent > 100 || r.HeightPercent <= 0 || r.HeightPercent > 100 {
			return fmt.Errorf("width_percent/height_percent must be between 1 and 100")
		}
		if r.XPercent+r.WidthPercent > 100 || r.YPercent+r.HeightPercent > 100 {
			return fmt.Errorf("region extends past the viewport")
		}
	default:
		return fmt.Errorf("invalid region type %q", r.Type)
	}
	return nil
}
