package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatdesk/internal/runtimepath"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source records where a config value came from.
type Source struct {
	Kind   SourceKind
	Name   string // builtin/default name
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case SourceBuiltin:
		return "builtin:" + s.Name
	default:
		return string(SourceDefault)
	}
}

// LoadResult is a loaded config plus what is needed to explain it.
type LoadResult struct {
	Config           *Config
	Sources          map[string]Source // YAML path -> last file that set it
	ArrangementBases map[string]string // arrangement name -> builtin base
	Files            []string          // every file read, in load order
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/floatdesk/config.yaml.
func DefaultConfigPath() (string, error) {
	return runtimepath.ConfigFile()
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadFromPath loads path and everything it includes, merged over the
// defaults. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := newIncludeLoader()
	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := l.load(path); err != nil {
			return nil, err
		}
	}

	cfg, bases, err := BuildEffectiveConfig(l.raw)
	if err != nil {
		return nil, withSource(err, l.sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, withSource(err, l.sources)
	}

	return &LoadResult{
		Config:           cfg,
		Sources:          l.sources,
		ArrangementBases: bases,
		Files:            l.files,
	}, nil
}

// includeLoader reads a config file and its includes. seen holds every
// file already merged so a file included twice is read once; stack holds
// the current include chain for cycle detection.
type includeLoader struct {
	seen    map[string]bool
	stack   []string
	raw     RawConfig
	sources map[string]Source
	files   []string
}

func newIncludeLoader() *includeLoader {
	return &includeLoader{seen: map[string]bool{}, sources: map[string]Source{}}
}

// load merges path into l. Includes are merged before the file that names
// them, so the including file wins.
func (l *includeLoader) load(path string) error {
	canon, err := canonicalPath(path)
	if err != nil {
		return err
	}
	if slices.Contains(l.stack, canon) {
		chain := append(slices.Clone(l.stack), canon)
		return fmt.Errorf("include cycle detected: %s", strings.Join(chain, " -> "))
	}
	if l.seen[canon] {
		return nil
	}
	l.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", canon, err)
	}

	root := topMapping(&doc)
	l.stack = append(l.stack, canon)
	for _, inc := range includeNodes(root) {
		targets, err := resolveInclude(canon, inc.Value)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", nodeSource(canon, inc), inc.Value, err)
		}
		for _, target := range targets {
			if err := l.load(target); err != nil {
				return err
			}
		}
	}
	l.stack = l.stack[:len(l.stack)-1]

	l.raw = l.raw.merge(raw)
	recordSources(root, canon, "", l.sources)
	l.files = append(l.files, canon)
	return nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// resolveInclude resolves an include relative to the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func resolveInclude(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path, err := ExpandPath(include)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	yamlFiles, err := filepath.Glob(filepath.Join(path, "*.y*ml"))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range yamlFiles {
		ext := strings.ToLower(filepath.Ext(f))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if fi, err := os.Stat(f); err == nil && !fi.IsDir() {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}

func pathExists(path string) (bool, error) {
	switch _, err := os.Stat(path); {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// topMapping returns the mapping at the top of a YAML document, or nil.
func topMapping(doc *yaml.Node) *yaml.Node {
	n := doc
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// recordSources maps every dotted key path under node to the position of
// its value. Sequences are recorded as a whole.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		path := node.Content[i].Value
		if prefix != "" {
			path = prefix + "." + path
		}
		val := node.Content[i+1]
		out[path] = nodeSource(file, val)
		recordSources(val, file, path, out)
	}
}

// includeNodes returns the scalar values of the top-level include key,
// which may be a single path or a list.
func includeNodes(root *yaml.Node) []*yaml.Node {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		if val.Kind == yaml.ScalarNode {
			return []*yaml.Node{val}
		}
		var out []*yaml.Node
		for _, item := range val.Content {
			if item.Kind == yaml.ScalarNode {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}

// withSource fills in the file position of a validation error's key.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
