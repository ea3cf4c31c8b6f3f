package workspace

import (
	"fmt"
	"sort"

	"github.com/1broseidon/floatdesk/internal/wm"
)

// windowKeys assigns each surface its record key in open order.
func windowKeys(surfaces []*wm.Surface) map[*wm.Surface]string {
	seen := make(map[string]int, len(surfaces))
	keys := make(map[*wm.Surface]string, len(surfaces))
	for _, s := range surfaces {
		title := s.Title()
		n := seen[title]
		seen[title] = n + 1
		if n == 0 {
			keys[s] = title
			continue
		}
		keys[s] = fmt.Sprintf("%s#%d", title, n+1)
	}
	return keys
}

// Capture records the committed geometry of every open surface, bottom of
// the stack first.
func Capture(name string, m *wm.Manager) *Layout {
	layout := &Layout{Name: name}
	if m == nil {
		return layout
	}
	if host := m.Host(); host != nil {
		vp := host.Viewport()
		layout.Viewport = Viewport{Width: vp.Width, Height: vp.Height}
	}

	surfaces := m.Surfaces()
	keys := windowKeys(surfaces)
	for _, s := range surfaces {
		layout.Windows = append(layout.Windows, WindowRecord{
			Key:      keys[s],
			Title:    s.Title(),
			Snapshot: s.GeometrySnapshot(),
		})
	}
	sort.SliceStable(layout.Windows, func(i, j int) bool {
		return layout.Windows[i].Snapshot.ZIndex < layout.Windows[j].Snapshot.ZIndex
	})
	return layout
}

// Apply restores saved geometry onto the open surfaces whose keys match and
// restacks them in the saved order. It returns the number of surfaces
// updated and the records with no open surface.
func Apply(layout *Layout, m *wm.Manager) (int, []WindowRecord) {
	if layout == nil || m == nil {
		return 0, nil
	}
	byKey := make(map[string]*wm.Surface)
	for s, key := range windowKeys(m.Surfaces()) {
		byKey[key] = s
	}

	records := append([]WindowRecord(nil), layout.Windows...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Snapshot.ZIndex < records[j].Snapshot.ZIndex
	})

	applied := 0
	var missing []WindowRecord
	for _, rec := range records {
		s, ok := byKey[rec.Key]
		if !ok {
			missing = append(missing, rec)
			continue
		}
		s.ApplyGeometrySnapshot(rec.Snapshot)
		m.Focus(s)
		applied++
	}
	return applied, missing
}
