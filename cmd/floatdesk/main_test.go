package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/floatdesk/internal/wm"
	"github.com/1broseidon/floatdesk/internal/workspace"
)

// setupEnv points every XDG directory at a temp dir and captures output.
func setupEnv(t *testing.T) (cfgHome string, out, errOut *bytes.Buffer) {
	t.Helper()
	home := t.TempDir()
	cfgHome = filepath.Join(home, ".config")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))

	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return cfgHome, out, errOut
}

func writeConfig(t *testing.T, cfgHome, body string) string {
	t.Helper()
	path := filepath.Join(cfgHome, "floatdesk", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func saveLayout(t *testing.T, cfgHome string, layout *workspace.Layout) {
	t.Helper()
	store := workspace.NewStore(filepath.Join(cfgHome, "floatdesk", "layouts"))
	if err := store.Save(layout); err != nil {
		t.Fatalf("save layout: %v", err)
	}
}

func devLayout() *workspace.Layout {
	return &workspace.Layout{
		Name:     "dev",
		SavedAt:  time.Now().Add(-2 * time.Hour),
		Viewport: workspace.Viewport{Width: 1280, Height: 800},
		Windows: []workspace.WindowRecord{
			{Key: "notes", Title: "notes", Snapshot: wm.Snapshot{X: 10, Y: 20, Width: 300, Height: 200, ZIndex: 1}},
			{Key: "log", Title: "log", Snapshot: wm.Snapshot{Width: 1280, Height: 800, ZIndex: 2, IsMaximized: true}},
		},
	}
}

func TestRunConfigPrintDefaults(t *testing.T) {
	_, out, _ := setupEnv(t)

	if rc := runConfig([]string{"print", "--defaults"}); rc != 0 {
		t.Fatalf("runConfig print rc=%d, want 0", rc)
	}
	for _, want := range []string{"snap_threshold: 20", "min_width: 300", "arrangement: grid", "autosave_name: last"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("print output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunConfigValidate(t *testing.T) {
	cfgHome, out, errOut := setupEnv(t)

	if rc := runConfig([]string{"validate"}); rc != 0 {
		t.Fatalf("validate without a file rc=%d, want 0 (stderr: %s)", rc, errOut.String())
	}
	if !strings.Contains(out.String(), "config: ok") {
		t.Fatalf("validate output=%q, want config: ok", out.String())
	}

	path := writeConfig(t, cfgHome, "window:\n  bogus_key: 1\n")
	if rc := runConfig([]string{"validate", "--config", path}); rc != 1 {
		t.Fatalf("validate with unknown key rc=%d, want 1", rc)
	}
	if errOut.Len() == 0 {
		t.Fatalf("expected an error message on stderr")
	}
}

func TestRunConfigExplainReportsFileSource(t *testing.T) {
	cfgHome, out, _ := setupEnv(t)
	path := writeConfig(t, cfgHome, "window:\n  snap_threshold: 44\n")
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}

	if rc := runConfig([]string{"explain", "window.snap_threshold"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	got := out.String()
	if !strings.Contains(got, "path: window.snap_threshold\n") {
		t.Fatalf("explain output missing path:\n%s", got)
	}
	if !strings.Contains(got, "source: "+path+":") {
		t.Fatalf("explain output missing file source %s:\n%s", path, got)
	}
	if !strings.HasSuffix(got, "value:\n44\n") {
		t.Fatalf("explain output missing value:\n%s", got)
	}
}

func TestRunConfigExplainRequiresPath(t *testing.T) {
	setupEnv(t)
	if rc := runConfig([]string{"explain"}); rc != 2 {
		t.Fatalf("explain without path rc=%d, want 2", rc)
	}
}

func TestRunConfigUnknownSubcommand(t *testing.T) {
	setupEnv(t)
	if rc := runConfig([]string{"frobnicate"}); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
	if rc := runConfig(nil); rc != 2 {
		t.Fatalf("no subcommand rc=%d, want 2", rc)
	}
}

func TestRunLayoutListEmpty(t *testing.T) {
	_, out, _ := setupEnv(t)

	if rc := runLayout([]string{"list"}); rc != 0 {
		t.Fatalf("layout list rc=%d, want 0", rc)
	}
	if !strings.HasPrefix(out.String(), "no saved layouts in ") {
		t.Fatalf("output=%q, want empty-store message", out.String())
	}
}

func TestRunLayoutListShowsSavedLayouts(t *testing.T) {
	cfgHome, out, _ := setupEnv(t)
	saveLayout(t, cfgHome, devLayout())

	if rc := runLayout([]string{"list"}); rc != 0 {
		t.Fatalf("layout list rc=%d, want 0", rc)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Fatalf("header=%q", lines[0])
	}
	fields := strings.Fields(lines[1])
	if fields[0] != "dev" || fields[1] != "2" {
		t.Fatalf("row=%q, want dev with 2 windows", lines[1])
	}
	if !strings.Contains(lines[1], "2 hours ago") {
		t.Fatalf("row=%q, want relative save time", lines[1])
	}
}

func TestRunLayoutListJSON(t *testing.T) {
	cfgHome, out, _ := setupEnv(t)
	saveLayout(t, cfgHome, devLayout())

	if rc := runLayout([]string{"list", "--json"}); rc != 0 {
		t.Fatalf("layout list --json rc=%d, want 0", rc)
	}
	var got []layoutSummaryJSON
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out.String())
	}
	if len(got) != 1 || got[0].Name != "dev" || got[0].Windows != 2 {
		t.Fatalf("got %+v, want one dev layout with 2 windows", got)
	}
}

func TestRunLayoutShow(t *testing.T) {
	cfgHome, out, _ := setupEnv(t)
	saveLayout(t, cfgHome, devLayout())

	if rc := runLayout([]string{"show", "dev"}); rc != 0 {
		t.Fatalf("layout show rc=%d, want 0", rc)
	}
	var layout workspace.Layout
	if err := json.Unmarshal(out.Bytes(), &layout); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(layout.Windows) != 2 || layout.Windows[0].Snapshot.X != 10 || !layout.Windows[1].Snapshot.IsMaximized {
		t.Fatalf("layout=%+v", layout)
	}

	out.Reset()
	if rc := runLayout([]string{"show", "--yaml", "dev"}); rc != 0 {
		t.Fatalf("layout show --yaml rc=%d, want 0", rc)
	}
	for _, want := range []string{"name: dev", "key: notes", "isMaximized: true"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunLayoutShowMissing(t *testing.T) {
	setupEnv(t)
	if rc := runLayout([]string{"show", "nope"}); rc != 1 {
		t.Fatalf("show missing rc=%d, want 1", rc)
	}
	if rc := runLayout([]string{"show"}); rc != 2 {
		t.Fatalf("show without name rc=%d, want 2", rc)
	}
}

func TestRunLayoutDelete(t *testing.T) {
	cfgHome, out, errOut := setupEnv(t)
	saveLayout(t, cfgHome, devLayout())

	if rc := runLayout([]string{"delete", "dev"}); rc != 0 {
		t.Fatalf("delete rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "deleted layout dev") {
		t.Fatalf("output=%q", out.String())
	}
	if _, err := os.Stat(filepath.Join(cfgHome, "floatdesk", "layouts", "dev.json")); !os.IsNotExist(err) {
		t.Fatalf("layout file still exists: %v", err)
	}

	if rc := runLayout([]string{"delete", "dev"}); rc != 1 {
		t.Fatalf("second delete rc=%d, want 1", rc)
	}
	if !strings.Contains(errOut.String(), `layout "dev" not found`) {
		t.Fatalf("stderr=%q", errOut.String())
	}
}

func TestRunLayoutUsesConfiguredStoreDir(t *testing.T) {
	cfgHome, out, _ := setupEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, cfgHome, "store:\n  dir: "+dir+"\n")
	store := workspace.NewStore(dir)
	if err := store.Save(devLayout()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if rc := runLayout([]string{"list", "--config", path, "--json"}); rc != 0 {
		t.Fatalf("layout list rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), `"name": "dev"`) {
		t.Fatalf("output=%s, want dev from configured dir", out.String())
	}
}

func TestRunArrangementList(t *testing.T) {
	_, out, _ := setupEnv(t)

	if rc := runArrangement([]string{"list"}); rc != 0 {
		t.Fatalf("arrangement list rc=%d, want 0", rc)
	}
	got := out.String()
	if !strings.HasPrefix(got, "active: grid\n") {
		t.Fatalf("output=%q, want active grid first", got)
	}
	idxCascade := strings.Index(got, "- cascade")
	idxRows := strings.Index(got, "- rows")
	if idxCascade < 0 || idxRows < 0 || idxCascade > idxRows {
		t.Fatalf("arrangements not listed in name order:\n%s", got)
	}
	if !strings.Contains(got, "4 tiles") {
		t.Fatalf("output missing summary:\n%s", got)
	}
}

func TestRunArrangementShow(t *testing.T) {
	_, out, _ := setupEnv(t)

	if rc := runArrangement([]string{"show", "--count", "2", "--width", "20", "--height", "6", "columns"}); rc != 0 {
		t.Fatalf("arrangement show rc=%d, want 0", rc)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if lines[0] != "columns (columns)" {
		t.Fatalf("title=%q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2 tiles") {
		t.Fatalf("summary=%q", lines[1])
	}
	if len(lines) != 2+6 {
		t.Fatalf("got %d lines, want title, summary and 6 preview rows", len(lines))
	}

	if rc := runArrangement([]string{"show", "spiral"}); rc != 1 {
		t.Fatalf("unknown arrangement rc=%d, want 1", rc)
	}
}

func TestRunDeskRejectsBadFlags(t *testing.T) {
	setupEnv(t)

	if rc := runDesk([]string{"--backend", "wayland"}); rc != 2 {
		t.Fatalf("unknown backend rc=%d, want 2", rc)
	}
	if rc := runDesk([]string{"extra"}); rc != 2 {
		t.Fatalf("positional arg rc=%d, want 2", rc)
	}
	if rc := runDesk([]string{"--layout", "../etc"}); rc != 2 {
		t.Fatalf("bad layout name rc=%d, want 2", rc)
	}
	if rc := runDesk([]string{"--help"}); rc != 0 {
		t.Fatalf("--help rc=%d, want 0", rc)
	}
}

func TestPrintMainUsageListsCommands(t *testing.T) {
	var buf bytes.Buffer
	printMainUsage(&buf)
	for _, cmd := range []string{"run", "config edit", "layout delete", "arrangement show"} {
		if !strings.Contains(buf.String(), cmd) {
			t.Fatalf("usage missing %q", cmd)
		}
	}
}
