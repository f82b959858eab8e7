package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Stack names the synthesis targets resolution feeds.
type Stack struct {
	Frontend string `toml:"frontend"`
	Backend  string `toml:"backend"`
	Database string `toml:"database"`
}

// Registry points resolution at a package index.
type Registry struct {
	Index string `toml:"index"`
}

// Output controls where synthesized artifacts land.
type Output struct {
	Dir string `toml:"dir"`
}

// Manifest is the parsed aim.toml.
type Manifest struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"project"`
	Stack    Stack    `toml:"stack"`
	Registry Registry `toml:"registry"`
	Output   Output   `toml:"output"`
}

var supportedStacks = map[string]map[string]bool{
	"frontend": {"react": true, "vue": true, "svelte": true, "none": true},
	"backend":  {"go": true, "node": true, "python": true, "none": true},
	"database": {"postgres": true, "sqlite": true, "mongo": true, "none": true},
}

// ErrUnsupportedStack is wrapped by Load for unknown stack values.
var ErrUnsupportedStack = errors.New("unsupported stack value")

// Default returns the manifest used when aim.toml is absent.
func Default() Manifest {
	var m Manifest
	m.Stack = Stack{Frontend: "react", Backend: "go", Database: "postgres"}
	m.Registry.Index = "registry/index.json"
	m.Output.Dir = "generated"
	return m
}

// Load parses an aim.toml. Missing sections keep their defaults; unknown
// stack values are an error because synthesis has no target for them.
func Load(path string) (Manifest, error) {
	m := Default()
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Manifest{}, fmt.Errorf("%s: unknown manifest keys: %s", path, strings.Join(keys, ", "))
	}
	if err := validateStack(m.Stack); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func validateStack(s Stack) error {
	for _, part := range []struct{ kind, value string }{
		{"frontend", s.Frontend},
		{"backend", s.Backend},
		{"database", s.Database},
	} {
		if part.value == "" {
			continue
		}
		if !supportedStacks[part.kind][strings.ToLower(part.value)] {
			return fmt.Errorf("%w: %s = %q", ErrUnsupportedStack, part.kind, part.value)
		}
	}
	return nil
}
