package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError points at the config key that failed. Source is filled in
// when the key came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults. The returned map
// records which builtin each arrangement was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if w := raw.Window; w != nil {
		setInt(&cfg.Window.MinWidth, w.MinWidth)
		setInt(&cfg.Window.MinHeight, w.MinHeight)
		setInt(&cfg.Window.DefaultWidth, w.DefaultWidth)
		setInt(&cfg.Window.DefaultHeight, w.DefaultHeight)
		setInt(&cfg.Window.DragThreshold, w.DragThreshold)
		setInt(&cfg.Window.SnapThreshold, w.SnapThreshold)
		setInt(&cfg.Window.HeaderHeight, w.HeaderHeight)
		setInt(&cfg.Window.HandleSize, w.HandleSize)
		setInt(&cfg.Window.ButtonWidth, w.ButtonWidth)
		setInt(&cfg.Window.DoubleClickMS, w.DoubleClickMS)
	}
	if t := raw.Terminal; t != nil {
		setInt(&cfg.Terminal.CellWidth, t.CellWidth)
		setInt(&cfg.Terminal.CellHeight, t.CellHeight)
	}
	if th := raw.Theme; th != nil {
		setString(&cfg.Theme.ActiveBorder, th.ActiveBorder)
		setString(&cfg.Theme.InactiveBorder, th.InactiveBorder)
		setString(&cfg.Theme.Title, th.Title)
		setString(&cfg.Theme.SnapPreview, th.SnapPreview)
		setString(&cfg.Theme.Background, th.Background)
	}
	if l := raw.Logging; l != nil {
		if l.Level != nil {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*l.Level))
		}
		setString(&cfg.Logging.File, l.File)
	}
	if s := raw.Store; s != nil {
		setString(&cfg.Store.Dir, s.Dir)
		if s.Autosave != nil {
			cfg.Store.Autosave = *s.Autosave
		}
		setString(&cfg.Store.AutosaveName, s.AutosaveName)
	}
	if t := raw.Tiling; t != nil {
		setString(&cfg.Tiling.Arrangement, t.Arrangement)
		setInt(&cfg.Tiling.Gap, t.Gap)
	}
	if raw.Windows != nil {
		cfg.Windows = append([]StartupWindow(nil), raw.Windows...)
	}

	bases, err := applyArrangements(cfg, raw)
	if err != nil {
		return nil, nil, err
	}
	return cfg, bases, nil
}

func applyArrangements(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinArrangements()
	bases := make(map[string]string, len(builtin)+len(raw.Arrangements))
	for name := range cfg.Arrangements {
		bases[name] = name
	}

	for _, name := range sortedKeys(raw.Arrangements) {
		patch := raw.Arrangements[name]
		baseName, base, err := selectArrangementBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}
		cfg.Arrangements[name] = patchArrangement(base, patch)
		bases[name] = baseName
	}
	return bases, nil
}

// selectArrangementBase picks what a user arrangement patches: the builtin of
// the same name, an explicit "builtin:<name>" in inherits, or the default.
func selectArrangementBase(name string, patch RawArrangement, builtin map[string]Arrangement) (string, Arrangement, error) {
	baseName := DefaultArrangement
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if patch.Inherits != nil {
		ref := strings.TrimSpace(*patch.Inherits)
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Arrangement{}, &ValidationError{
				Path: "arrangements." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed, got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	base, ok := builtin[baseName]
	if !ok {
		return "", Arrangement{}, &ValidationError{
			Path: "arrangements." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin arrangement %q", baseName),
		}
	}
	return baseName, base, nil
}

func patchArrangement(base Arrangement, patch RawArrangement) Arrangement {
	out := base
	if patch.Mode != nil {
		out.Mode = *patch.Mode
	}
	if r := patch.TileRegion; r != nil {
		if r.Type != nil {
			out.TileRegion.Type = *r.Type
		}
		setInt(&out.TileRegion.XPercent, r.XPercent)
		setInt(&out.TileRegion.YPercent, r.YPercent)
		setInt(&out.TileRegion.WidthPercent, r.WidthPercent)
		setInt(&out.TileRegion.HeightPercent, r.HeightPercent)
		if out.TileRegion.Type == RegionCustom {
			if r.WidthPercent == nil && out.TileRegion.WidthPercent == 0 {
				out.TileRegion.WidthPercent = 100
			}
			if r.HeightPercent == nil && out.TileRegion.HeightPercent == 0 {
				out.TileRegion.HeightPercent = 100
			}
		}
	}
	if g := patch.FixedGrid; g != nil {
		setInt(&out.FixedGrid.Rows, g.Rows)
		setInt(&out.FixedGrid.Cols, g.Cols)
	}
	if ms := patch.MasterStack; ms != nil {
		setInt(&out.MasterStack.MasterWidthPercent, ms.MasterWidthPercent)
		setInt(&out.MasterStack.MaxStackRows, ms.MaxStackRows)
		setInt(&out.MasterStack.MaxStackCols, ms.MaxStackCols)
	}
	setInt(&out.CascadeStep, patch.CascadeStep)
	setInt(&out.MaxWidth, patch.MaxWidth)
	setInt(&out.MaxHeight, patch.MaxHeight)
	if patch.FlexibleLastRow != nil {
		out.FlexibleLastRow = *patch.FlexibleLastRow
	}
	return out
}

func setInt(dst *int, p *int) {
	if p != nil {
		*dst = *p
	}
}

func setString(dst *string, p *string) {
	if p != nil {
		*dst = *p
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
