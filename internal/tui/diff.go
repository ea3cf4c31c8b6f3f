package tui

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatdesk/internal/config"
)

const diffContextLines = 2

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

func (d diffLine) String() string {
	switch d.kind {
	case diffAdded:
		return "+ " + d.text
	case diffRemoved:
		return "- " + d.text
	default:
		return "  " + d.text
	}
}

// RenderDiff returns the YAML lines that differ between two configs with a
// little context, or "" when they marshal the same.
func RenderDiff(original, current *config.Config) string {
	lines := configDiff(original, current)
	out := make([]string, len(lines))
	for i, dl := range lines {
		out[i] = dl.String()
	}
	return strings.Join(out, "\n")
}

func configDiff(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, err := yamlLines(original)
	if err != nil {
		return nil
	}
	b, err := yamlLines(current)
	if err != nil {
		return nil
	}
	return trimContext(lineDiff(a, b), diffContextLines)
}

func yamlLines(cfg *config.Config) ([]string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n"), nil
}

// lineDiff walks a longest-common-subsequence table of a and b. Config
// dumps are a few hundred lines, so the quadratic table is fine.
func lineDiff(a, b []string) []diffLine {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	out := make([]diffLine, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			out = append(out, diffLine{diffContext, a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			out = append(out, diffLine{diffRemoved, a[i]})
			i++
		default:
			out = append(out, diffLine{diffAdded, b[j]})
			j++
		}
	}
	return out
}

// trimContext drops unchanged lines further than ctx from any change and
// marks each gap with "...". It returns nil when nothing changed.
func trimContext(lines []diffLine, ctx int) []diffLine {
	keep := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		changed = true
		for j := max(i-ctx, 0); j <= min(i+ctx, len(lines)-1); j++ {
			keep[j] = true
		}
	}
	if !changed {
		return nil
	}

	var out []diffLine
	gap := false
	for i, l := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap && len(out) > 0 {
			out = append(out, diffLine{diffContext, "..."})
		}
		gap = false
		out = append(out, l)
	}
	return out
}

// cloneConfig deep-copies cfg through YAML.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
