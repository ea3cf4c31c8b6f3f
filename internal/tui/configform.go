package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/floatdesk/internal/config"
)

// settingsForm holds the editable settings as strings for huh, converted
// back on apply.
type settingsForm struct {
	fMinWidth      string
	fMinHeight     string
	fDefaultWidth  string
	fDefaultHeight string
	fDragThreshold string
	fSnapThreshold string
	fDoubleClick   string
	fHeaderHeight  string
	fHandleSize    string
	fButtonWidth   string
	fCellWidth     string
	fCellHeight    string

	fActiveBorder   string
	fInactiveBorder string
	fTitle          string
	fSnapPreview    string
	fBackground     string

	fArrangement  string
	fGap          string
	fLogLevel     string
	fAutosave     bool
	fAutosaveName string

	arrangements []string
}

func newSettingsForm(cfg *config.Config) *settingsForm {
	w := cfg.Window
	f := &settingsForm{
		fMinWidth:       strconv.Itoa(w.MinWidth),
		fMinHeight:      strconv.Itoa(w.MinHeight),
		fDefaultWidth:   strconv.Itoa(w.DefaultWidth),
		fDefaultHeight:  strconv.Itoa(w.DefaultHeight),
		fDragThreshold:  strconv.Itoa(w.DragThreshold),
		fSnapThreshold:  strconv.Itoa(w.SnapThreshold),
		fDoubleClick:    strconv.Itoa(w.DoubleClickMS),
		fHeaderHeight:   strconv.Itoa(w.HeaderHeight),
		fHandleSize:     strconv.Itoa(w.HandleSize),
		fButtonWidth:    strconv.Itoa(w.ButtonWidth),
		fCellWidth:      strconv.Itoa(cfg.Terminal.CellWidth),
		fCellHeight:     strconv.Itoa(cfg.Terminal.CellHeight),
		fActiveBorder:   cfg.Theme.ActiveBorder,
		fInactiveBorder: cfg.Theme.InactiveBorder,
		fTitle:          cfg.Theme.Title,
		fSnapPreview:    cfg.Theme.SnapPreview,
		fBackground:     cfg.Theme.Background,
		fArrangement:    cfg.Tiling.Arrangement,
		fGap:            strconv.Itoa(cfg.Tiling.Gap),
		fLogLevel:       cfg.Logging.Level,
		fAutosave:       cfg.Store.Autosave,
		fAutosaveName:   cfg.Store.AutosaveName,
	}
	for name := range cfg.Arrangements {
		f.arrangements = append(f.arrangements, name)
	}
	sort.Strings(f.arrangements)
	return f
}

func intField(minValue int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if v < minValue {
			return fmt.Errorf("must be >= %d", minValue)
		}
		return nil
	}
}

func (f *settingsForm) form() *huh.Form {
	input := func(title string, value *string, minValue int) *huh.Input {
		return huh.NewInput().Title(title).Value(value).Validate(intField(minValue))
	}
	color := func(title string, value *string) *huh.Input {
		return huh.NewInput().Title(title).Value(value).Validate(config.ValidateColor)
	}

	return huh.NewForm(
		huh.NewGroup(
			input("Minimum Width", &f.fMinWidth, 1),
			input("Minimum Height", &f.fMinHeight, 1),
			input("Default Width", &f.fDefaultWidth, 1),
			input("Default Height", &f.fDefaultHeight, 1),
			input("Drag Threshold", &f.fDragThreshold, 0).
				Description("Pixels the pointer travels before a press becomes a drag"),
			input("Snap Threshold", &f.fSnapThreshold, 0).
				Description("Distance from a screen edge that arms a snap"),
			input("Double Click (ms)", &f.fDoubleClick, 0),
		).Title("Windows"),
		huh.NewGroup(
			input("Header Height", &f.fHeaderHeight, 1),
			input("Handle Size", &f.fHandleSize, 1),
			input("Button Width", &f.fButtonWidth, 1),
			input("Cell Width", &f.fCellWidth, 1).
				Description("Virtual pixels per terminal column"),
			input("Cell Height", &f.fCellHeight, 1).
				Description("Virtual pixels per terminal row"),
		).Title("Chrome"),
		huh.NewGroup(
			color("Active Border", &f.fActiveBorder),
			color("Inactive Border", &f.fInactiveBorder),
			color("Title", &f.fTitle),
			color("Snap Preview", &f.fSnapPreview),
			color("Background", &f.fBackground),
		).Title("Theme"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Arrangement").
				Description("Used by the tile command").
				Options(huh.NewOptions(f.arrangements...)...).
				Value(&f.fArrangement),
			input("Gap", &f.fGap, 0),
			huh.NewSelect[string]().
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&f.fLogLevel),
			huh.NewConfirm().
				Title("Autosave layout on quit").
				Value(&f.fAutosave),
			huh.NewInput().
				Title("Autosave Name").
				Value(&f.fAutosaveName),
		).Title("Behaviour"),
	).WithShowHelp(true).WithShowErrors(true)
}

// apply writes the answers into cfg.
func (f *settingsForm) apply(cfg *config.Config) error {
	ints := []struct {
		name  string
		value string
		dst   *int
	}{
		{"min width", f.fMinWidth, &cfg.Window.MinWidth},
		{"min height", f.fMinHeight, &cfg.Window.MinHeight},
		{"default width", f.fDefaultWidth, &cfg.Window.DefaultWidth},
		{"default height", f.fDefaultHeight, &cfg.Window.DefaultHeight},
		{"drag threshold", f.fDragThreshold, &cfg.Window.DragThreshold},
		{"snap threshold", f.fSnapThreshold, &cfg.Window.SnapThreshold},
		{"double click", f.fDoubleClick, &cfg.Window.DoubleClickMS},
		{"header height", f.fHeaderHeight, &cfg.Window.HeaderHeight},
		{"handle size", f.fHandleSize, &cfg.Window.HandleSize},
		{"button width", f.fButtonWidth, &cfg.Window.ButtonWidth},
		{"cell width", f.fCellWidth, &cfg.Terminal.CellWidth},
		{"cell height", f.fCellHeight, &cfg.Terminal.CellHeight},
		{"gap", f.fGap, &cfg.Tiling.Gap},
	}
	for _, field := range ints {
		v, err := strconv.Atoi(field.value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", field.name, field.value)
		}
		*field.dst = v
	}

	cfg.Theme.ActiveBorder = f.fActiveBorder
	cfg.Theme.InactiveBorder = f.fInactiveBorder
	cfg.Theme.Title = f.fTitle
	cfg.Theme.SnapPreview = f.fSnapPreview
	cfg.Theme.Background = f.fBackground
	if f.fArrangement != "" {
		cfg.Tiling.Arrangement = f.fArrangement
	}
	if f.fLogLevel != "" {
		cfg.Logging.Level = f.fLogLevel
	}
	cfg.Store.Autosave = f.fAutosave
	cfg.Store.AutosaveName = f.fAutosaveName
	return cfg.Validate()
}

// EditConfig runs the settings form over a copy of cfg, shows the pending
// changes and asks for confirmation. It returns the edited copy and whether
// the user chose to save it.
func EditConfig(cfg *config.Config) (*config.Config, bool, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	edited := cloneConfig(cfg)
	if edited == nil {
		return nil, false, fmt.Errorf("failed to copy config")
	}

	f := newSettingsForm(cfg)
	if err := f.form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if err := f.apply(edited); err != nil {
		return nil, false, err
	}

	diff := RenderDiff(cfg, edited)
	if diff == "" {
		return edited, false, nil
	}
	confirm := true
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Pending changes").Description(diff),
			huh.NewConfirm().
				Title("Save changes?").
				Affirmative("Save").
				Negative("Discard").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return edited, false, nil
		}
		return nil, false, err
	}
	return edited, confirm, nil
}
