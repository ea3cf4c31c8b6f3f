package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	dirtyDot = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("●")
	cleanDot = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
)

func (m *model) bars() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.statusBar(), m.helpBar())
}

// statusBar shows the window count, the focused window, the active
// arrangement and the last status message.
func (m *model) statusBar() string {
	dot := cleanDot
	if m.dirty {
		dot = dirtyDot
	}
	parts := []string{
		fmt.Sprintf("%s %d windows", dot, m.manager.Len()),
		"arrangement:" + m.tiler.Active(),
		"layout:" + m.layoutName,
	}
	if s := m.manager.Focused(); s != nil {
		parts = append(parts, fmt.Sprintf("focused:%s (%s)", s.Title(), s.VisualState()))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return statusBarStyle.Width(max(m.width, 1)).MaxHeight(1).Render(strings.Join(parts, "  "))
}

func (m *model) helpBar() string {
	return helpBarStyle.Width(max(m.width, 1)).Render(m.help.View(m.keys))
}
