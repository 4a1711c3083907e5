package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the package manifest file name.
const ManifestFile = "package.yml"

// DefaultMain is the entry script used when a manifest names none.
const DefaultMain = "main.rt"

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Main         string
	Authors      []string
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes where a dependency comes from: a git repository
// pinned by rev, tag or branch, or a local path.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// ErrNoManifest is returned by FindManifest when no package.yml is found.
var ErrNoManifest = errors.New("manifest: package.yml not found")

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from dir up to the filesystem root looking for
// package.yml.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ManifestFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoManifest
		}
		abs = parent
	}
}

// WriteManifest serialises m to path.
func WriteManifest(m *Manifest, path string) error {
	if m == nil {
		return fmt.Errorf("manifest: nil manifest")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.toFile()); err != nil {
		return fmt.Errorf("manifest: marshal %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("manifest: encoder close: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// MainPath returns the absolute path of the entry script.
func (m *Manifest) MainPath() string {
	main := m.Main
	if main == "" {
		main = DefaultMain
	}
	if filepath.IsAbs(main) {
		return main
	}
	return filepath.Join(m.Dir(), main)
}

// DependencyNames returns dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	for _, name := range m.DependencyNames() {
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return []string{"must specify git or path"}
	}
	switch {
	case d.Git == "" && d.Path == "":
		errs = append(errs, "must specify git or path")
	case d.Git != "" && d.Path != "":
		errs = append(errs, "path overrides cannot specify a git source")
	}
	if d.Path != "" && (d.Rev != "" || d.Tag != "" || d.Branch != "") {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if d.Git != "" && pins == 0 {
		errs = append(errs, "git dependencies require rev, tag, or branch")
	}
	if pins > 1 {
		errs = append(errs, "specify only one of rev, tag, or branch")
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version,omitempty"`
	Main         string        `yaml:"main,omitempty"`
	Authors      stringList    `yaml:"authors,omitempty"`
	Dependencies dependencyMap `yaml:"dependencies,omitempty"`
}

type dependencyYAML struct {
	Git    string `yaml:"git,omitempty"`
	Rev    string `yaml:"rev,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path,omitempty"`
}

type dependencyMap map[string]*dependencyYAML

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(strings.TrimSpace(mf.Name)),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		Authors:      mf.Authors.Clone(),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			result.Dependencies[name] = nil
			continue
		}
		result.Dependencies[name] = &DependencySpec{
			Git:    strings.TrimSpace(dep.Git),
			Rev:    strings.TrimSpace(dep.Rev),
			Tag:    strings.TrimSpace(dep.Tag),
			Branch: strings.TrimSpace(dep.Branch),
			Path:   strings.TrimSpace(dep.Path),
		}
	}
	return result
}

func (m *Manifest) toFile() manifestFile {
	out := manifestFile{
		Name:    m.Name,
		Version: m.Version,
		Main:    m.Main,
		Authors: stringList(m.Authors),
	}
	if len(m.Dependencies) > 0 {
		out.Dependencies = make(dependencyMap, len(m.Dependencies))
		for name, dep := range m.Dependencies {
			if dep == nil {
				continue
			}
			out.Dependencies[name] = &dependencyYAML{
				Git:    dep.Git,
				Rev:    dep.Rev,
				Tag:    dep.Tag,
				Branch: dep.Branch,
				Path:   dep.Path,
			}
		}
	}
	return out
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

// UnmarshalYAML accepts a single string or a sequence of strings.
func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

// UnmarshalYAML decodes dependencies, accepting a bare string as a local path.
func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		node := value.Content[i+1]
		if node.Kind == yaml.ScalarNode {
			if node.Tag == "!!null" {
				result[key] = nil
				continue
			}
			result[key] = &dependencyYAML{Path: node.Value}
			continue
		}
		dep := new(dependencyYAML)
		if err := node.Decode(dep); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = dep
	}
	*dm = result
	return nil
}

// sanitizeSegment maps a name onto identifier-safe characters.
func sanitizeSegment(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '.':
			b.WriteByte('_')
		}
	}
	return b.String()
}
