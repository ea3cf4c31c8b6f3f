package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store keeps layouts as one JSON file per name in a directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

// ValidateName reports whether name can be used as a layout name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("layout name is required")
	}
	if trimmed != name {
		return fmt.Errorf("invalid layout name %q: surrounding whitespace", name)
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, "/") || name != filepath.Base(name) {
		return fmt.Errorf("invalid layout name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid layout name %q", name)
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Save writes layout, replacing any layout with the same name. A zero
// SavedAt is set to the current time.
func (s *Store) Save(layout *Layout) error {
	if layout == nil {
		return fmt.Errorf("layout is nil")
	}
	path, err := s.path(layout.Name)
	if err != nil {
		return err
	}
	if layout.SavedAt.IsZero() {
		layout.SavedAt = s.now().UTC()
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode layout %q: %w", layout.Name, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write layout %q: %w", layout.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write layout %q: %w", layout.Name, err)
	}
	return nil
}

// Load reads a layout by name. It wraps ErrNotFound when there is none.
func (s *Store) Load(name string) (*Layout, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read layout %q: %w", name, err)
	}
	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout %q: %w", name, err)
	}
	if layout.Name == "" {
		layout.Name = name
	}
	return &layout, nil
}

// Delete removes a layout. It wraps ErrNotFound when there is none.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete layout %q: %w", name, err)
	}
	return nil
}

// List returns every stored layout sorted by name. A missing directory is
// an empty store. Files that fail to parse are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), ".json")
		if !ok || ValidateName(name) != nil {
			continue
		}
		layout, err := s.Load(name)
		if err != nil {
			continue
		}
		out = append(out, Summary{Name: name, SavedAt: layout.SavedAt, Windows: len(layout.Windows)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
