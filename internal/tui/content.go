package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/1broseidon/floatdesk/internal/wm"
)

// TextContent shows scrollable text.
type TextContent struct {
	view viewport.Model
}

// NewTextContent wraps text in a scrollable view.
func NewTextContent(text string) *TextContent {
	vp := viewport.New(0, 0)
	vp.SetContent(text)
	return &TextContent{view: vp}
}

// NewFileContent shows the contents of path. A read error becomes the text.
func NewFileContent(path string) *TextContent {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewTextContent(fmt.Sprintf("failed to read %s: %v", path, err))
	}
	return NewTextContent(string(data))
}

// Render implements Content.
func (c *TextContent) Render(_ *wm.Surface, width, height int) string {
	c.view.Width = width
	c.view.Height = height
	return c.view.View()
}

// Scroll implements Scroller.
func (c *TextContent) Scroll(lines int) {
	c.view.SetYOffset(c.view.YOffset + lines)
}

// InfoContent shows the live state of the window it is drawn in.
type InfoContent struct{}

// Render implements Content.
func (InfoContent) Render(s *wm.Surface, width, height int) string {
	g := s.Geometry()
	snap := s.GeometrySnapshot()
	lines := []string{
		"id       " + s.ID(),
		"state    " + s.VisualState().String(),
		"gesture  " + s.Gesture().String(),
		"geometry " + g.String(),
		"restore  " + snap.Geometry().String(),
		fmt.Sprintf("z-index  %d", s.ZIndex()),
		fmt.Sprintf("active   %t", s.Active()),
		"",
		"drag the title bar to move",
		"drag an edge to resize",
		"drop on a screen edge to snap",
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
