// Package project locates the project root and loads the aim.toml manifest.
// A project is any directory holding aim.toml or an aim/ source tree; the
// manifest is optional and every field has a default, so a bare aim/
// directory is already a valid project.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the project manifest file name.
const ManifestName = "aim.toml"

// SourceDirName is the directory holding .intent sources, relative to root.
const SourceDirName = "aim"

// FindAimToml walks up from startDir to locate aim.toml.
func FindAimToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the nearest ancestor directory that contains
// aim.toml, or failing that, an aim/ source directory.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	if manifestPath, ok, err := FindAimToml(startDir); err != nil || ok {
		return filepath.Dir(manifestPath), ok, err
	}

	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, SourceDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return dir, true, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// SourceDir returns the .intent source directory for a project root.
func SourceDir(root string) string {
	return filepath.Join(root, SourceDirName)
}
