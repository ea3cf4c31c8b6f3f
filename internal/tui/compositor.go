package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/wm"
)

const (
	closeLabel    = "[x]"
	maximizeLabel = "[□]"
	restoreLabel  = "[▫]"
)

// Content draws the body of a window. Render returns up to height lines of
// at most width cells; escape sequences are stripped by the compositor.
type Content interface {
	Render(s *wm.Surface, width, height int) string
}

// Scroller is implemented by content that follows the mouse wheel.
type Scroller interface {
	Scroll(lines int)
}

// Compositor paints the open surfaces of a manager into a cell canvas.
type Compositor struct {
	scale  Scale
	styles [paintCount]lipgloss.Style
}

// NewCompositor builds a compositor for the given cell scale and theme.
func NewCompositor(scale Scale, theme config.Theme) *Compositor {
	c := &Compositor{scale: scale.normalized()}
	c.SetTheme(theme)
	return c
}

// SetTheme replaces the colours.
func (c *Compositor) SetTheme(theme config.Theme) {
	bg := lipgloss.Color(theme.Background)
	active := lipgloss.Color(theme.ActiveBorder)
	inactive := lipgloss.Color(theme.InactiveBorder)
	title := lipgloss.Color(theme.Title)

	c.styles[paintDesk] = lipgloss.NewStyle().Background(bg)
	c.styles[paintBorderActive] = lipgloss.NewStyle().Foreground(active).Background(bg)
	c.styles[paintBorderInactive] = lipgloss.NewStyle().Foreground(inactive).Background(bg)
	c.styles[paintHeaderActive] = lipgloss.NewStyle().Bold(true).Foreground(bg).Background(active)
	c.styles[paintHeaderInactive] = lipgloss.NewStyle().Foreground(title).Background(inactive)
	c.styles[paintContent] = lipgloss.NewStyle().Foreground(title).Background(bg)
	c.styles[paintSnap] = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SnapPreview)).Background(bg)
}

// SetScale changes the cell size.
func (c *Compositor) SetScale(scale Scale) {
	c.scale = scale.normalized()
}

// Render returns the styled desk, cols x rows cells.
func (c *Compositor) Render(surfaces []*wm.Surface, cols, rows int) string {
	return c.paint(surfaces, cols, rows).render(c.styles)
}

// paint draws surfaces bottom to top by z-index. A surface being dragged
// into a snap zone gets its preview painted just beneath it.
func (c *Compositor) paint(surfaces []*wm.Surface, cols, rows int) *canvas {
	cv := newCanvas(cols, rows)
	for _, s := range stacked(surfaces) {
		if preview, ok := s.SnapPreview(); ok {
			cv.fill(c.scale.Cells(preview.Rect()), '░', paintSnap)
		}
		c.paintSurface(cv, s)
	}
	return cv
}

func (c *Compositor) paintSurface(cv *canvas, s *wm.Surface) {
	chrome := s.Chrome()
	frame := c.scale.Cells(chrome.Frame)
	if frame.Width < 3 || frame.Height < 3 {
		return
	}
	header := c.scale.Cells(chrome.Header)
	header.Height = max(min(header.Height, frame.Height-1), 1)

	border, bar := paintBorderInactive, paintHeaderInactive
	if s.Active() {
		border, bar = paintBorderActive, paintHeaderActive
	}

	cv.fill(frame, ' ', paintContent)
	cv.box(frame, border)

	// The top border row is the resize band; the title bar sits under it.
	titleY := frame.Y
	if header.Height > 1 {
		titleY++
	}
	cv.fill(platform.Rect{X: frame.X + 1, Y: titleY, Width: frame.Width - 2, Height: 1}, ' ', bar)

	closeRect := chrome.Close
	if chrome.Handles {
		closeRect.Width = max(closeRect.Width-s.Metrics().HandleSize, 0)
	}
	closeCells := c.scale.Cells(closeRect)
	maxCells := c.scale.Cells(chrome.Maximize)
	if titleWidth := maxCells.X - frame.X - 3; titleWidth > 0 {
		cv.text(frame.X+2, titleY, titleWidth, s.Title(), bar)
	}
	label := maximizeLabel
	if s.ShownMaximized() {
		label = restoreLabel
	}
	c.button(cv, maxCells, frame, titleY, label, bar)
	c.button(cv, closeCells, frame, titleY, closeLabel, bar)

	if header.Height > 2 {
		ruleY := frame.Y + header.Height - 1
		for x := frame.X + 1; x < frame.Right()-1; x++ {
			cv.set(x, ruleY, '─', border)
		}
		cv.set(frame.X, ruleY, '├', border)
		cv.set(frame.Right()-1, ruleY, '┤', border)
	}

	body := platform.Rect{
		X:      frame.X + 1,
		Y:      frame.Y + header.Height,
		Width:  frame.Width - 2,
		Height: frame.Bottom() - 1 - (frame.Y + header.Height),
	}
	if body.Width <= 0 || body.Height <= 0 {
		return
	}
	content, ok := s.Content().(Content)
	if !ok {
		return
	}
	lines := strings.Split(ansi.Strip(content.Render(s, body.Width, body.Height)), "\n")
	for i, line := range lines {
		if i >= body.Height {
			break
		}
		cv.text(body.X, body.Y+i, body.Width, line, paintContent)
	}
}

// button centres label in its cell rect on row y, kept inside the frame's
// border.
func (c *Compositor) button(cv *canvas, cells, frame platform.Rect, y int, label string, p paint) {
	left := max(cells.X, frame.X+1)
	right := min(cells.Right(), frame.Right()-1)
	width := right - left
	if width <= 0 {
		return
	}
	n := ansi.StringWidth(label)
	x := left + max((width-n)/2, 0)
	cv.text(x, y, right-x, label, p)
}

// stacked returns surfaces ordered bottom first. Equal z keeps the input
// order.
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
