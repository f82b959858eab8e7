package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"aim/internal/diagfmt"
	"aim/internal/driver"
	"aim/internal/observ"
	"aim/internal/project"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] [path]",
	Short: "Resolve the project's intent tree into a feature model",
	Long: `Resolve parses every .intent file under the project's aim/ directory,
checks identities, applies facet precedence, resolves dependencies and
mappings, classifies tiers, and reports every diagnostic in one batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	resolveCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	resolveCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	resolveCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	resolveCmd.Flags().Bool("no-cache", false, "skip the resolve cache")
}

func runResolve(cmd *cobra.Command, args []string) error {
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

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	res, err := driver.ResolveDir(cmd.Context(), root, driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		NoCache:        noCache,
		Timer:          timer,
	})
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     colorOn,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			Max:       maxDiagnostics,
		})
		if !quiet {
			printFeatureSummary(res, colorOn)
		}
	case "json":
		if err := diagfmt.WriteJSON(os.Stdout, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			Max:              maxDiagnostics,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if res.Bag.HasErrors() {
		fmt.Fprintf(os.Stderr, "resolution blocked: %d error(s)\n", res.Bag.ErrorCount())
		os.Exit(1)
	}
	return nil
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true)
	featureName  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	tierBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	facetList    = lipgloss.NewStyle().Faint(true)
)

func printFeatureSummary(res *driver.Result, colorOn bool) {
	if len(res.Features) == 0 {
		fmt.Println("no features resolved")
		return
	}
	render := func(st lipgloss.Style, s string) string {
		if !colorOn {
			return s
		}
		return st.Render(s)
	}

	suffix := ""
	if res.FromCache {
		suffix = " (cached)"
	}
	fmt.Println(render(summaryTitle, fmt.Sprintf("%d feature(s) resolved%s", len(res.Features), suffix)))
	for _, f := range res.Features {
		facets := "intent only"
		if len(f.Facets) > 0 {
			facets = strings.Join(f.Facets, ", ")
		}
		fmt.Printf("  %s  %s  %s\n",
			render(featureName, f.Namespace),
			render(tierBadge, fmt.Sprintf("tier-%d", f.Tier)),
			render(facetList, facets))
	}
}
