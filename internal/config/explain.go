package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and where it
// came from.
//
// Examples:
//
//	window.min_width
//	theme.snap_preview
//	logging
//	tiling.arrangement
//	arrangements.<name>.mode
//	arrangements.<name>.master_stack.master_width_percent
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	if name, ok := strings.CutPrefix(path, "arrangements."); ok {
		name, _, _ = strings.Cut(name, ".")
		if base, ok := res.ArrangementBases[name]; ok {
			return value, Source{Kind: SourceBuiltin, Name: base}, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue walks the YAML form of cfg so every key a user can write can
// also be explained.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var cur any = tree
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown path %q", path)
		}
		next, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("unknown path %q", path)
		}
		cur = next
	}
	return cur, nil
}
