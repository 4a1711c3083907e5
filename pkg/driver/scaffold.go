package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const mainTemplate = `# entry point
println("Hello, world!")
`

// ErrPackageExists is returned by NewPackage when the target directory
// already holds files.
var ErrPackageExists = errors.New("package directory already exists")

// ErrInvalidPackageName is returned for names that are not a single
// directory segment of letters, digits, `_` and `-`.
var ErrInvalidPackageName = errors.New("invalid package name")

// NewPackage creates dir/name with a manifest and an entry script.
func NewPackage(dir, name string) (string, error) {
	if err := validatePackageName(name); err != nil {
		return "", fmt.Errorf("new package: %w", err)
	}
	root := filepath.Join(dir, name)
	if entries, err := os.ReadDir(root); err == nil && len(entries) > 0 {
		return "", fmt.Errorf("new package %s: %w", root, ErrPackageExists)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("new package: %w", err)
	}

	manifest := &Manifest{
		Name:    sanitizeSegment(name),
		Version: "0.1.0",
		Main:    DefaultMain,
	}
	if err := WriteManifest(manifest, filepath.Join(root, ManifestFile)); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(root, DefaultMain), []byte(mainTemplate), 0o644); err != nil {
		return "", fmt.Errorf("new package: %w", err)
	}
	return root, nil
}

// DeletePackage removes dir/name. Directories without a manifest are left
// alone.
func DeletePackage(dir, name string) error {
	if err := validatePackageName(name); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	root := filepath.Join(dir, name)
	if _, err := os.Stat(filepath.Join(root, ManifestFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete package %s: %w", root, ErrNoManifest)
		}
		return fmt.Errorf("delete package %s: %w", root, err)
	}
	return os.RemoveAll(root)
}

// validatePackageName keeps package names to one path segment inside the
// working directory.
func validatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPackageName)
	}
	if strings.ReplaceAll(name, "-", "_") != sanitizeSegment(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}
