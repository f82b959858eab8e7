package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LockName is the lock file name at the project root.
const LockName = "aim.lock"

// LockEntry pins one installed package.
type LockEntry struct {
	Version string `json:"version"`
	Entry   string `json:"entry"`
}

// Lock maps package name to its pinned entry.
type Lock struct {
	Packages map[string]LockEntry `json:"packages"`
}

// ReadLock loads aim.lock from the project root. A missing file is an empty
// lock, not an error; a corrupt one is.
func ReadLock(root string) (Lock, error) {
	path := filepath.Join(root, LockName)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Lock{Packages: map[string]LockEntry{}}, nil
	}
	if err != nil {
		return Lock{}, fmt.Errorf("failed to read %s: %w", LockName, err)
	}

	var lk Lock
	if err := json.Unmarshal(raw, &lk); err != nil {
		return Lock{}, fmt.Errorf("%s: invalid lock file: %w", path, err)
	}
	if lk.Packages == nil {
		lk.Packages = map[string]LockEntry{}
	}
	for name, e := range lk.Packages {
		if e.Version != "" && !ValidVersion(e.Version) {
			return Lock{}, fmt.Errorf("%s: package %q pins invalid version %q", path, name, e.Version)
		}
	}
	return lk, nil
}

// WriteLock persists the lock atomically: write a sibling temp file, then
// rename over the target. Map keys marshal sorted, so output is stable.
func WriteLock(root string, lk Lock) error {
	raw, err := json.MarshalIndent(lk, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode lock: %w", err)
	}
	raw = append(raw, '\n')

	path := filepath.Join(root, LockName)
	tmp, err := os.CreateTemp(root, LockName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp lock: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp lock: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp lock: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", LockName, err)
	}
	return nil
}

// Names returns the locked package names in sorted order.
func (lk Lock) Names() []string {
	names := make([]string, 0, len(lk.Packages))
	for name := range lk.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
