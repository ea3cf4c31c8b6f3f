package x11

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

// Metrics of the core "fixed" font the host opens.
const (
	charWidth  = 7
	lineHeight = 16
	textAscent = 11
	textIndent = 8
)

const (
	closeGlyph    = "X"
	maximizeGlyph = "[]"
	restoreGlyph  = "]["
)

// Palette holds the theme as 24-bit pixel values for a TrueColor visual.
type Palette struct {
	Background     uint32
	ActiveBorder   uint32
	InactiveBorder uint32
	Title          uint32
	SnapPreview    uint32
}

// NewPalette converts a theme. Invalid colours are reported with the field
// they came from.
func NewPalette(theme config.Theme) (Palette, error) {
	var p Palette
	fields := []struct {
		name  string
		value string
		dst   *uint32
	}{
		{"background", theme.Background, &p.Background},
		{"active_border", theme.ActiveBorder, &p.ActiveBorder},
		{"inactive_border", theme.InactiveBorder, &p.InactiveBorder},
		{"title", theme.Title, &p.Title},
		{"snap_preview", theme.SnapPreview, &p.SnapPreview},
	}
	for _, f := range fields {
		px, err := Pixel(f.value)
		if err != nil {
			return Palette{}, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = px
	}
	return p, nil
}

// Pixel converts "#rrggbb" or an ANSI colour number to 0xRRGGBB.
func Pixel(value string) (uint32, error) {
	var c colorful.Color
	if strings.HasPrefix(value, "#") {
		hex, err := colorful.Hex(value)
		if err != nil {
			return 0, fmt.Errorf("invalid colour %q: %w", value, err)
		}
		c = hex
	} else {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 255 {
			return 0, fmt.Errorf("invalid colour %q (want #rrggbb or 0-255)", value)
		}
		c = termenv.ConvertToRGB(termenv.ANSI256Color(n))
	}
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

// fill is a solid rectangle.
type fill struct {
	Rect  platform.Rect
	Color uint32
}

// label is a line of text drawn with its baseline at Y.
type label struct {
	X, Y  int
	Text  string
	Color uint32
	Back  uint32
}

// scene is everything drawn into the container for one frame, bottom first.
type scene struct {
	Fills  []fill
	Labels []label
}

// buildScene paints surfaces bottom to top. Labels of a lower surface that
// a higher one covers are dropped so text never bleeds through.
func buildScene(surfaces []*wm.Surface, viewport platform.Size, pal Palette) scene {
	var sc scene
	sc.Fills = append(sc.Fills, fill{Rect: platform.Rect{Width: viewport.Width, Height: viewport.Height}, Color: pal.Background})

	ordered := stacked(surfaces)
	for i, s := range ordered {
		above := make([]platform.Rect, 0, len(ordered)-i-1)
		for _, o := range ordered[i+1:] {
			above = append(above, o.Bounds())
		}
		fills, labels := paintSurface(s, pal)
		sc.Fills = append(sc.Fills, fills...)
		for _, l := range labels {
			if !covered(l, above) {
				sc.Labels = append(sc.Labels, l)
			}
		}
	}
	return sc
}

func paintSurface(s *wm.Surface, pal Palette) ([]fill, []label) {
	ch := s.Chrome()
	border := pal.InactiveBorder
	if s.Active() {
		border = pal.ActiveBorder
	}

	fills := []fill{
		{Rect: ch.Frame, Color: border},
		{Rect: inset(ch.Content, 1), Color: pal.Background},
	}

	var labels []label
	baseline := ch.Header.Y + (ch.Header.Height+textAscent)/2
	titleWidth := ch.Maximize.X - ch.Header.X - 2*textIndent
	if title := clip(s.Title(), titleWidth); title != "" {
		labels = append(labels, label{X: ch.Header.X + textIndent, Y: baseline, Text: title, Color: pal.Title, Back: border})
	}

	glyph := maximizeGlyph
	if s.ShownMaximized() {
		glyph = restoreGlyph
	}
	labels = append(labels,
		buttonLabel(ch.Maximize, baseline, glyph, pal.Title, border),
		buttonLabel(ch.Close, baseline, closeGlyph, pal.Title, border),
	)

	body := inset(ch.Content, 1)
	for i, line := range contentLines(s.Content()) {
		y := body.Y + textAscent + 2 + i*lineHeight
		if y > body.Bottom() {
			break
		}
		if text := clip(line, body.Width-textIndent); text != "" {
			labels = append(labels, label{X: body.X + textIndent/2, Y: y, Text: text, Color: pal.Title, Back: pal.Background})
		}
	}
	return fills, labels
}

func buttonLabel(r platform.Rect, baseline int, glyph string, fg, bg uint32) label {
	x := r.X + (r.Width-len(glyph)*charWidth)/2
	return label{X: x, Y: baseline, Text: glyph, Color: fg, Back: bg}
}

// contentLines renders plain text content. Other content types have no
// X11 rendering and leave the body empty.
func contentLines(content any) []string {
	var text string
	switch c := content.(type) {
	case string:
		text = c
	case fmt.Stringer:
		text = c.String()
	default:
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n")
}

// clip truncates s to the printable Latin-1 characters that fit width
// pixels. ImageText8 takes at most 255 bytes.
func clip(s string, width int) string {
	limit := min(width/charWidth, 255)
	if limit <= 0 {
		return ""
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == limit {
			break
		}
		if r < 0x20 || (r >= 0x7f && r < 0xa0) {
			continue
		}
		if r > 0xff {
			r = '?'
		}
		b.WriteByte(byte(r))
		n++
	}
	return b.String()
}

func covered(l label, above []platform.Rect) bool {
	box := platform.Rect{X: l.X, Y: l.Y - textAscent, Width: len(l.Text) * charWidth, Height: lineHeight}
	for _, r := range above {
		if r.Intersects(box) {
			return true
		}
	}
	return false
}

// inset shrinks r by n on the left, right and bottom; the header sits
// directly above the content rect.
func inset(r platform.Rect, n int) platform.Rect {
	return platform.Rect{X: r.X + n, Y: r.Y, Width: max(r.Width-2*n, 0), Height: max(r.Height-n, 0)}
}

func stacked(surfaces []*wm.Surface) []*wm.Surface {
	out := make([]*wm.Surface, 0, len(surfaces))
	for _, s := range surfaces {
		if s != nil && !s.Closed() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex() < out[j].ZIndex()
	})
	return out
}

// dragPreview returns the snap zone of the surface being dragged, if any.
func dragPreview(surfaces []*wm.Surface) (platform.Rect, bool) {
	for _, s := range surfaces {
		if s == nil || s.Closed() {
			continue
		}
		if g, ok := s.SnapPreview(); ok {
			return g.Rect(), true
		}
	}
	return platform.Rect{}, false
}
