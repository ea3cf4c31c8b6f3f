// Package workspace persists window layouts. The window manager itself does
// no I/O; callers capture snapshots from live surfaces, store them here and
// apply them back later.
package workspace

import (
	"errors"
	"time"

	"github.com/1broseidon/floatdesk/internal/wm"
)

// ErrNotFound is returned when a named layout does not exist.
var ErrNotFound = errors.New("layout not found")

// Layout is a saved set of window geometries.
type Layout struct {
	Name     string         `json:"name" yaml:"name"`
	SavedAt  time.Time      `json:"saved_at" yaml:"saved_at"`
	Viewport Viewport       `json:"viewport" yaml:"viewport"`
	Windows  []WindowRecord `json:"windows" yaml:"windows"`
}

// Viewport is the container size at capture time.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// WindowRecord is one window in a layout. Key identifies the window when the
// layout is applied again; it is the title, suffixed with "#n" for the nth
// repeat of a title.
type WindowRecord struct {
	Key      string      `json:"key" yaml:"key"`
	Title    string      `json:"title" yaml:"title"`
	Snapshot wm.Snapshot `json:"snapshot" yaml:"snapshot"`
}

// Summary describes a stored layout without its windows.
type Summary struct {
	Name    string
	SavedAt time.Time
	Windows int
}
