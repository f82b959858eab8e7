package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"aim/internal/diag"
	"aim/internal/diagfmt"
	"aim/internal/header"
	"aim/internal/project"
	"aim/internal/registry"
	"aim/internal/source"
)

var packagesCmd = &cobra.Command{
	Use:   "packages [flags] [path]",
	Short: "List installed intent sources and lock-file pins",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPackages,
}

func init() {
	packagesCmd.Flags().Bool("verify-index", false, "validate the registry index referenced by aim.toml")
}

var (
	pkgHeading = lipgloss.NewStyle().Bold(true).Underline(true)
	pkgPinned  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pkgLoose   = lipgloss.NewStyle().Faint(true)
)

func runPackages(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) == 1 {
		start = args[0]
	}
	root, ok, err := project.FindProjectRoot(start)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no aim project found from %q (missing aim.toml and aim/)", start)
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}
	verifyIndex, err := cmd.Flags().GetBool("verify-index")
	if err != nil {
		return fmt.Errorf("failed to get verify-index flag: %w", err)
	}

	lock, err := registry.ReadLock(root)
	if err != nil {
		return err
	}

	entries, err := collectHeaders(project.SourceDir(root))
	if err != nil {
		return err
	}

	render := func(st lipgloss.Style, s string) string {
		if !colorOn {
			return s
		}
		return st.Render(s)
	}

	fmt.Println(render(pkgHeading, fmt.Sprintf("installed intents (%d)", len(entries))))
	for _, e := range entries {
		pin := render(pkgLoose, "unpinned")
		if le, pinned := lock.Packages[e.namespace]; pinned {
			pin = render(pkgPinned, "pinned "+le.Version)
		}
		fmt.Printf("  %-40s %-24s %s\n", e.rel, e.identity, pin)
	}

	for _, name := range lock.Names() {
		found := false
		for _, e := range entries {
			if e.namespace == name {
				found = true
				break
			}
		}
		if !found {
			fmt.Printf("  %-40s %-24s %s\n", "(missing)", name,
				render(pkgLoose, "locked but not installed"))
		}
	}

	if verifyIndex {
		return verifyRegistryIndex(root, colorOn)
	}
	return nil
}

type pkgEntry struct {
	rel       string
	namespace string
	identity  string
}

// collectHeaders extracts just the header line from every .intent file.
// Broken headers list as "(invalid header)" here; resolve reports details.
func collectHeaders(srcDir string) ([]pkgEntry, error) {
	var entries []pkgEntry
	fileSet := source.NewFileSetWithBase(srcDir)

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".intent") {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		entry := pkgEntry{rel: rel, identity: "(invalid header)"}
		if id, err := fileSet.Load(path); err == nil {
			if h, _, ok := header.Extract(fileSet.Get(id), nil); ok {
				entry.namespace = h.Namespace.String()
				entry.identity = h.Namespace.String() + "#" + h.Facet.String() + "@" + h.Version.String()
			}
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })
	return entries, nil
}

func verifyRegistryIndex(root string, colorOn bool) error {
	manifest := project.Default()
	if path, ok, err := project.FindAimToml(root); err != nil {
		return err
	} else if ok {
		if manifest, err = project.Load(path); err != nil {
			return err
		}
	}

	indexPath := filepath.Join(root, filepath.FromSlash(manifest.Registry.Index))
	fileSet := source.NewFileSetWithBase(root)
	bag := diag.NewBag(100)
	_, ok := registry.LoadIndex(indexPath, fileSet, diag.BagReporter{Bag: bag})

	bag.Sort(fileSet.PathOf)
	diagfmt.Pretty(os.Stdout, bag, fileSet, diagfmt.PrettyOpts{Color: colorOn, PathMode: diagfmt.PathModeBasename})
	if !ok {
		fmt.Fprintf(os.Stderr, "registry index invalid: %d error(s)\n", bag.ErrorCount())
		os.Exit(1)
	}
	fmt.Println("registry index valid")
	return nil
}
