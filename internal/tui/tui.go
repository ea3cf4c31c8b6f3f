// Package tui hosts floating windows in a terminal. Terminal cells are
// scaled to virtual pixels so the window engine's thresholds and sizes keep
// their meaning, mouse input is routed through a platform.Desk, and the
// open surfaces are composited into a styled cell grid on every frame.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/workspace"
)

// Options configures the terminal host.
type Options struct {
	// Config is the effective configuration; nil uses the defaults.
	Config *config.Config
	// ConfigPath is watched for edits when set. ConfigFiles lists the
	// included files the initial load read.
	ConfigPath  string
	ConfigFiles []string
	// Store holds saved layouts. Nil disables save, restore and autosave.
	Store *workspace.Store
	// Layout is restored at start and saved on quit. Empty falls back to
	// the configured autosave name.
	Layout string
	Logger *slog.Logger
}

// Run starts the terminal host and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m := newModel(opts)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, func(res *config.LoadResult) {
			p.Send(configReloadedMsg{result: res})
		}, m.logger)
		if err != nil {
			m.logger.Warn("config watcher unavailable", "error", err)
		} else if err := w.Start(opts.ConfigFiles); err != nil {
			m.logger.Warn("config watcher unavailable", "error", err)
			_ = w.Stop()
		} else {
			defer w.Stop()
		}
	}

	_, err := p.Run()
	m.shutdown()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
