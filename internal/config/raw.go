package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// Raw* types mirror the effective config with pointer fields so an unset key
// can be told apart from a zero value while merging files.

type RawWindow struct {
	MinWidth      *int `yaml:"min_width"`
	MinHeight     *int `yaml:"min_height"`
	DefaultWidth  *int `yaml:"default_width"`
	DefaultHeight *int `yaml:"default_height"`
	DragThreshold *int `yaml:"drag_threshold"`
	SnapThreshold *int `yaml:"snap_threshold"`
	HeaderHeight  *int `yaml:"header_height"`
	HandleSize    *int `yaml:"handle_size"`
	ButtonWidth   *int `yaml:"button_width"`
	DoubleClickMS *int `yaml:"double_click_ms"`
}

type RawTerminal struct {
	CellWidth  *int `yaml:"cell_width"`
	CellHeight *int `yaml:"cell_height"`
}

type RawTheme struct {
	ActiveBorder   *string `yaml:"active_border"`
	InactiveBorder *string `yaml:"inactive_border"`
	Title          *string `yaml:"title"`
	SnapPreview    *string `yaml:"snap_preview"`
	Background     *string `yaml:"background"`
}

type RawLogging struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

type RawStore struct {
	Dir          *string `yaml:"dir"`
	Autosave     *bool   `yaml:"autosave"`
	AutosaveName *string `yaml:"autosave_name"`
}

type RawTiling struct {
	Arrangement *string `yaml:"arrangement"`
	Gap         *int    `yaml:"gap"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawFixedGrid struct {
	Rows *int `yaml:"rows"`
	Cols *int `yaml:"cols"`
}

type RawMasterStack struct {
	MasterWidthPercent *int `yaml:"master_width_percent"`
	MaxStackRows       *int `yaml:"max_stack_rows"`
	MaxStackCols       *int `yaml:"max_stack_cols"`
}

type RawArrangement struct {
	Inherits        *string          `yaml:"inherits"`
	Mode            *ArrangementMode `yaml:"mode"`
	TileRegion      *RawTileRegion   `yaml:"tile_region"`
	FixedGrid       *RawFixedGrid    `yaml:"fixed_grid"`
	MasterStack     *RawMasterStack  `yaml:"master_stack"`
	CascadeStep     *int             `yaml:"cascade_step"`
	MaxWidth        *int             `yaml:"max_width"`
	MaxHeight       *int             `yaml:"max_height"`
	FlexibleLastRow *bool            `yaml:"flexible_last_row"`
}

type RawConfig struct {
	Include      IncludeList               `yaml:"include"`
	Window       *RawWindow                `yaml:"window"`
	Terminal     *RawTerminal              `yaml:"terminal"`
	Theme        *RawTheme                 `yaml:"theme"`
	Logging      *RawLogging               `yaml:"logging"`
	Store        *RawStore                 `yaml:"store"`
	Tiling       *RawTiling                `yaml:"tiling"`
	Arrangements map[string]RawArrangement `yaml:"arrangements"`
	Windows      []StartupWindow           `yaml:"windows"`
}

// over returns overlay when it is set, base otherwise.
func over[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

// merge applies overlay on top of c. Scalars in overlay win; the windows
// list is replaced as a whole.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Window != nil {
		base := RawWindow{}
		if out.Window != nil {
			base = *out.Window
		}
		o := overlay.Window
		base.MinWidth = over(base.MinWidth, o.MinWidth)
		base.MinHeight = over(base.MinHeight, o.MinHeight)
		base.DefaultWidth = over(base.DefaultWidth, o.DefaultWidth)
		base.DefaultHeight = over(base.DefaultHeight, o.DefaultHeight)
		base.DragThreshold = over(base.DragThreshold, o.DragThreshold)
		base.SnapThreshold = over(base.SnapThreshold, o.SnapThreshold)
		base.HeaderHeight = over(base.HeaderHeight, o.HeaderHeight)
		base.HandleSize = over(base.HandleSize, o.HandleSize)
		base.ButtonWidth = over(base.ButtonWidth, o.ButtonWidth)
		base.DoubleClickMS = over(base.DoubleClickMS, o.DoubleClickMS)
		out.Window = &base
	}
	if overlay.Terminal != nil {
		base := RawTerminal{}
		if out.Terminal != nil {
			base = *out.Terminal
		}
		base.CellWidth = over(base.CellWidth, overlay.Terminal.CellWidth)
		base.CellHeight = over(base.CellHeight, overlay.Terminal.CellHeight)
		out.Terminal = &base
	}
	if overlay.Theme != nil {
		base := RawTheme{}
		if out.Theme != nil {
			base = *out.Theme
		}
		o := overlay.Theme
		base.ActiveBorder = over(base.ActiveBorder, o.ActiveBorder)
		base.InactiveBorder = over(base.InactiveBorder, o.InactiveBorder)
		base.Title = over(base.Title, o.Title)
		base.SnapPreview = over(base.SnapPreview, o.SnapPreview)
		base.Background = over(base.Background, o.Background)
		out.Theme = &base
	}
	if overlay.Logging != nil {
		base := RawLogging{}
		if out.Logging != nil {
			base = *out.Logging
		}
		base.Level = over(base.Level, overlay.Logging.Level)
		base.File = over(base.File, overlay.Logging.File)
		out.Logging = &base
	}
	if overlay.Store != nil {
		base := RawStore{}
		if out.Store != nil {
			base = *out.Store
		}
		base.Dir = over(base.Dir, overlay.Store.Dir)
		base.Autosave = over(base.Autosave, overlay.Store.Autosave)
		base.AutosaveName = over(base.AutosaveName, overlay.Store.AutosaveName)
		out.Store = &base
	}
	if overlay.Tiling != nil {
		base := RawTiling{}
		if out.Tiling != nil {
			base = *out.Tiling
		}
		base.Arrangement = over(base.Arrangement, overlay.Tiling.Arrangement)
		base.Gap = over(base.Gap, overlay.Tiling.Gap)
		out.Tiling = &base
	}

	if overlay.Arrangements != nil {
		merged := make(map[string]RawArrangement, len(out.Arrangements)+len(overlay.Arrangements))
		for name, a := range out.Arrangements {
			merged[name] = a
		}
		for name, a := range overlay.Arrangements {
			if base, ok := merged[name]; ok {
				merged[name] = mergeRawArrangement(base, a)
				continue
			}
			merged[name] = a
		}
		out.Arrangements = merged
	}

	if overlay.Windows != nil {
		out.Windows = overlay.Windows
	}

	return out
}

func mergeRawArrangement(base RawArrangement, overlay RawArrangement) RawArrangement {
	out := base
	out.Inherits = over(out.Inherits, overlay.Inherits)
	out.Mode = over(out.Mode, overlay.Mode)
	out.CascadeStep = over(out.CascadeStep, overlay.CascadeStep)
	out.MaxWidth = over(out.MaxWidth, overlay.MaxWidth)
	out.MaxHeight = over(out.MaxHeight, overlay.MaxHeight)
	out.FlexibleLastRow = over(out.FlexibleLastRow, overlay.FlexibleLastRow)

	if overlay.TileRegion != nil {
		r := RawTileRegion{}
		if out.TileRegion != nil {
			r = *out.TileRegion
		}
		o := overlay.TileRegion
		r.Type = over(r.Type, o.Type)
		r.XPercent = over(r.XPercent, o.XPercent)
		r.YPercent = over(r.YPercent, o.YPercent)
		r.WidthPercent = over(r.WidthPercent, o.WidthPercent)
		r.HeightPercent = over(r.HeightPercent, o.HeightPercent)
		out.TileRegion = &r
	}
	if overlay.FixedGrid != nil {
		g := RawFixedGrid{}
		if out.FixedGrid != nil {
			g = *out.FixedGrid
		}
		g.Rows = over(g.Rows, overlay.FixedGrid.Rows)
		g.Cols = over(g.Cols, overlay.FixedGrid.Cols)
		out.FixedGrid = &g
	}
	if overlay.MasterStack != nil {
		ms := RawMasterStack{}
		if out.MasterStack != nil {
			ms = *out.MasterStack
		}
		o := overlay.MasterStack
		ms.MasterWidthPercent = over(ms.MasterWidthPercent, o.MasterWidthPercent)
		ms.MaxStackRows = over(ms.MaxStackRows, o.MaxStackRows)
		ms.MaxStackCols = over(ms.MaxStackCols, o.MaxStackCols)
		out.MasterStack = &ms
	}
	return out
}
