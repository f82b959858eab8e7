package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[project]
name = "shop"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Project.Name != "shop" {
		t.Fatalf("name = %q", m.Project.Name)
	}
	if m.Stack.Backend != "go" || m.Output.Dir != "generated" {
		t.Fatalf("defaults not applied: %+v", m)
	}
}

func TestLoadManifestRejectsUnknownStack(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[stack]
backend = "cobol"
`)
	_, err := Load(path)
	if !errors.Is(err, ErrUnsupportedStack) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[project]
name = "shop"
nmae = "typo"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nname = \"x\"\n")
	nested := filepath.Join(root, "aim", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
}

func TestFindProjectRootByAimDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, SourceDirName), 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := FindProjectRoot(root)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
}
