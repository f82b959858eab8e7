package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"aim/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new aim project",
	Long: `Initialize a new aim project by creating a project manifest (aim.toml)
and an aim/ source directory with a starter intent. If [path|name] is omitted,
initializes the current directory. If a non-existing name is provided, a
directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Namespace seed from the directory basename.
	name := namespaceSeed(filepath.Base(target))

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest()), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	srcDir := filepath.Join(target, project.SourceDirName)
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("failed to create source directory: %w", err)
	}

	starterPath := filepath.Join(srcDir, name+".intent.intent")
	createdStarter := false
	if _, err := os.Stat(starterPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(starterPath, []byte(starterIntent(name)), 0o600); err != nil {
			return fmt.Errorf("failed to write starter intent: %w", err)
		}
		createdStarter = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized aim project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", project.ManifestName)
	if createdStarter {
		fmt.Fprintf(os.Stdout, "  - %s\n", filepath.Join(project.SourceDirName, name+".intent.intent"))
	} else {
		fmt.Fprintf(os.Stdout, "  - %s (existing)\n", filepath.Join(project.SourceDirName, name+".intent.intent"))
	}
	return nil
}

// namespaceSeed squeezes a directory name into a single valid namespace
// segment: lowercase letters and digits only.
func namespaceSeed(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(base)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "app"
	}
	return b.String()
}

func buildDefaultManifest() string {
	return `# aim project manifest
[project]
name = "aim-project"
version = "0.1.0"

[stack]
frontend = "react"
backend = "go"
database = "postgres"

[registry]
index = "registry/index.json"

[output]
dir = "generated"
`
}

func starterIntent(name string) string {
	return fmt.Sprintf(`AIM: %s#intent@1.0

INTENT Starter {
  SUMMARY: "Replace this with one sentence on what the feature does."
  REQUIREMENTS {
    - "state the first requirement"
  }
  TESTS {
    - "state how the feature is verified"
  }
}
`, name)
}
