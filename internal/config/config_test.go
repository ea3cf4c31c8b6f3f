package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/floatdesk/internal/wm"
)

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if _, err := cfg.ActiveArrangement(); err != nil {
		t.Fatalf("expected default arrangement to resolve: %v", err)
	}
	if got, want := cfg.Metrics(), wm.DefaultMetrics(); got != want {
		t.Fatalf("expected default metrics %+v, got %+v", want, got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
	if res.Config.Window.MinWidth != wm.DefaultMinWidth {
		t.Fatalf("expected default min_width, got %d", res.Config.Window.MinWidth)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Tiling.Arrangement != DefaultArrangement {
		t.Fatalf("expected arrangement %q, got %q", DefaultArrangement, res.Config.Tiling.Arrangement)
	}
}

func TestLoadFromPath_WindowOverridesReachMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path,
		"window:",
		"  min_width: 320",
		"  drag_threshold: 3",
		"  double_click_ms: 250",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m := res.Config.Metrics()
	if m.MinWidth != 320 || m.DragThreshold != 3 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if m.DoubleClick != 250*time.Millisecond {
		t.Fatalf("expected 250ms double click, got %v", m.DoubleClick)
	}
	if m.MinHeight != wm.DefaultMinHeight {
		t.Fatalf("expected untouched min_height to keep its default, got %d", m.MinHeight)
	}
}

func TestLoadFromPath_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "window:", "  min_widht: 320")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected strict decoding to reject a misspelt key")
	}
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path,
		"logging:",
		"  level: loud",
	)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "logging.level" {
		t.Fatalf("expected path logging.level, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %d", verr.Source.Line)
	}
	if !strings.Contains(err.Error(), "config.yaml:2:") {
		t.Fatalf("expected file:line in message, got %q", err.Error())
	}
}

func TestLoadFromPath_IncludesMergeBeforeIncludingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, filepath.Join(dir, "conf.d", "10-theme.yaml"),
		"theme:",
		"  title: \"#111111\"",
		"  active_border: \"#222222\"",
	)
	writeFile(t, filepath.Join(dir, "conf.d", "20-theme.yaml"),
		"theme:",
		"  active_border: \"#333333\"",
	)
	writeFile(t, path,
		"include: conf.d",
		"theme:",
		"  title: \"#444444\"",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Theme.ActiveBorder != "#333333" {
		t.Fatalf("expected later include to win, got %q", res.Config.Theme.ActiveBorder)
	}
	if res.Config.Theme.Title != "#444444" {
		t.Fatalf("expected including file to win, got %q", res.Config.Theme.Title)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
	if filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("expected including file last, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "include: b.yaml")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_ArrangementPatchesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path,
		"tiling:",
		"  arrangement: wide",
		"arrangements:",
		"  master-stack:",
		"    master_stack:",
		"      master_width_percent: 60",
		"  wide:",
		"    inherits: builtin:columns",
		"    max_width: 900",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ms := res.Config.Arrangements["master-stack"].MasterStack
	if ms.MasterWidthPercent != 60 || ms.MaxStackRows != 3 {
		t.Fatalf("expected patched master-stack, got %+v", ms)
	}
	wide, err := res.Config.ActiveArrangement()
	if err != nil {
		t.Fatalf("active arrangement: %v", err)
	}
	if wide.Mode != ModeColumns || wide.MaxWidth != 900 {
		t.Fatalf("unexpected wide arrangement %+v", wide)
	}
	if res.ArrangementBases["wide"] != "columns" {
		t.Fatalf("expected wide to be based on columns, got %q", res.ArrangementBases["wide"])
	}
}

func TestLoadFromPath_UnknownInherits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path,
		"arrangements:",
		"  odd:",
		"    inherits: builtin:spiral",
	)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "arrangements.odd.inherits" {
		t.Fatalf("expected inherits validation error, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero min width", func(c *Config) { c.Window.MinWidth = 0 }, "window.min_width"},
		{"default below min", func(c *Config) { c.Window.DefaultHeight = 100 }, "window.default_height"},
		{"negative drag threshold", func(c *Config) { c.Window.DragThreshold = -1 }, "window.drag_threshold"},
		{"bad colour", func(c *Config) { c.Theme.SnapPreview = "teal" }, "theme.snap_preview"},
		{"zero cell", func(c *Config) { c.Terminal.CellHeight = 0 }, "terminal.cell_height"},
		{"autosave name", func(c *Config) { c.Store.AutosaveName = "../x" }, "store.autosave_name"},
		{"missing arrangement", func(c *Config) { c.Tiling.Arrangement = "nope" }, "tiling.arrangement"},
		{"window without title", func(c *Config) { c.Windows = []StartupWindow{{Text: "x"}} }, "windows[0].title"},
		{"text and file", func(c *Config) {
			c.Windows = []StartupWindow{{Title: "a", Text: "x", File: "y"}}
		}, "windows[0]"},
		{"half a position", func(c *Config) {
			x := 10
			c.Windows = []StartupWindow{{Title: "a", X: &x}}
		}, "windows[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tc.path {
				t.Fatalf("expected path %q, got %q (%v)", tc.path, verr.Path, err)
			}
		})
	}
}

func TestValidate_AcceptsANSIColour(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Theme.ActiveBorder = "63"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected ANSI colour to validate, got %v", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Window.SnapThreshold = 32
	cfg.Store.Autosave = false
	x, y := 10, 20
	cfg.Windows = []StartupWindow{{Title: "notes", Text: "hello", X: &x, Y: &y, Width: 400, Height: 300}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := res.Config
	if got.Window.SnapThreshold != 32 || got.Store.Autosave {
		t.Fatalf("expected saved values, got window=%+v store=%+v", got.Window, got.Store)
	}
	if len(got.Windows) != 1 || *got.Windows[0].X != 10 || got.Windows[0].Text != "hello" {
		t.Fatalf("unexpected windows %+v", got.Windows)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path,
		"window:",
		"  snap_threshold: 40",
	)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	v, src, err := Explain(res, "window.snap_threshold")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if v != 40 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %v %+v", v, src)
	}

	v, src, err = Explain(res, "arrangements.grid.mode")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if v != "grid" || src.Kind != SourceBuiltin || src.Name != "grid" {
		t.Fatalf("unexpected builtin explain %v %+v", v, src)
	}

	_, src, err = Explain(res, "logging.level")
	if err != nil || src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %+v err=%v", src, err)
	}

	if _, _, err := Explain(res, "window.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got, _ := ExpandPath("/abs"); got != "/abs" {
		t.Fatalf("expected absolute path untouched, got %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level")
	}
	cfg.Logging.Level = "info"
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("expected info level")
	}
}
