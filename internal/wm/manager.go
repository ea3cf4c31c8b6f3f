package wm

import (
	"io"
	"log/slog"

	"github.com/1broseidon/floatdesk/internal/platform"
)

// Manager owns the live surfaces of one host and is the only authority on
// stacking order.
type Manager struct {
	host     platform.Host
	metrics  Metrics
	logger   *slog.Logger
	surfaces []*Surface
	highestZ int
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used by the manager and its surfaces.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics overrides the default metrics for surfaces opened afterwards.
func WithMetrics(metrics Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics.normalized()
	}
}

// NewManager creates a manager mounting surfaces into host. A nil host is
// allowed; Open then does nothing.
func NewManager(host platform.Host, opts ...ManagerOption) *Manager {
	m := &Manager{
		host:    host,
		metrics: DefaultMetrics(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetMetrics changes the metrics applied to surfaces opened from now on.
// Open surfaces keep theirs.
func (m *Manager) SetMetrics(metrics Metrics) {
	m.metrics = metrics.normalized()
}

// Metrics returns the metrics new surfaces are opened with.
func (m *Manager) Metrics() Metrics { return m.metrics }

// Open creates a surface, mounts it and focuses it. The caller's OnClose
// and OnFocus run after the manager's own bookkeeping. It returns nil when
// the host or the content is missing.
func (m *Manager) Open(opts Options) *Surface {
	if m.host == nil || opts.Content == nil {
		m.logger.Debug("open ignored: missing host or content", "title", opts.Title)
		return nil
	}

	userClose, userFocus := opts.OnClose, opts.OnFocus
	s := newSurface(m.host, opts, m.metrics, m.logger)
	s.onClose = func() {
		m.remove(s)
		if userClose != nil {
			userClose()
		}
	}
	s.onFocus = func() {
		m.raise(s)
		if userFocus != nil {
			userFocus()
		}
	}

	m.surfaces = append(m.surfaces, s)
	s.mount()
	m.logger.Info("surface opened", "id", s.id, "title", s.title, "geometry", s.geometry)
	m.Focus(s)
	return s
}

// Focus brings s to the top of the stacking order and marks it active.
// Unknown or closed surfaces are ignored.
func (m *Manager) Focus(s *Surface) {
	if s == nil || s.closed || m.index(s) < 0 {
		return
	}
	s.Focus()
}

// raise assigns the next z-index to s and clears the active marker on every
// other surface.
func (m *Manager) raise(s *Surface) {
	if m.index(s) < 0 {
		return
	}
	m.highestZ++
	s.setZIndex(m.highestZ)
	for _, other := range m.surfaces {
		other.setActive(other == s)
	}
	m.logger.Debug("surface focused", "id", s.id, "z", m.highestZ)
}

// CloseAll closes every live surface, each firing its own close callback,
// until the collection is empty. Surfaces opened by a close callback are
// closed too.
func (m *Manager) CloseAll() {
	closed := 0
	for len(m.surfaces) > 0 {
		m.surfaces[0].Close()
		closed++
	}
	if closed > 0 {
		m.logger.Info("closed all surfaces", "count", closed)
	}
}

func (m *Manager) remove(s *Surface) {
	if i := m.index(s); i >= 0 {
		m.surfaces = append(m.surfaces[:i], m.surfaces[i+1:]...)
	}
	s.setActive(false)
}

func (m *Manager) index(s *Surface) int {
	for i, existing := range m.surfaces {
		if existing == s {
			return i
		}
	}
	return -1
}

// Surfaces returns the live surfaces in the order they were opened.
func (m *Manager) Surfaces() []*Surface {
	out := make([]*Surface, len(m.surfaces))
	copy(out, m.surfaces)
	return out
}

// Len returns the number of live surfaces.
func (m *Manager) Len() int { return len(m.surfaces) }

// Focused returns the active surface, or nil.
func (m *Manager) Focused() *Surface {
	for _, s := range m.surfaces {
		if s.active {
			return s
		}
	}
	return nil
}

// HighestZ returns the last z-index handed out.
func (m *Manager) HighestZ() int { return m.highestZ }

// Host returns the host the manager mounts into.
func (m *Manager) Host() platform.Host { return m.host }
