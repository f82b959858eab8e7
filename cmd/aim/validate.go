package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aim/internal/diagfmt"
	"aim/internal/driver"
	"aim/internal/project"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] [path]",
	Short: "Check headers, syntax, and identities without resolving",
	Long: `Validate runs the per-file stages only: AIM header grammar, path
identity cross-checks, and block syntax. Useful as a fast pre-commit gate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	validateCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	validateCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func runValidate(cmd *cobra.Command, args []string) error {
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
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}

	res, err := driver.ValidateDir(cmd.Context(), root, driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     colorOn,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: withNotes,
			Max:       maxDiagnostics,
		})
	case "json":
		if err := diagfmt.WriteJSON(os.Stdout, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     withNotes,
			Max:              maxDiagnostics,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	if res.Bag.HasErrors() {
		fmt.Fprintf(os.Stderr, "validation failed: %d error(s)\n", res.Bag.ErrorCount())
		os.Exit(1)
	}
	if !quiet && res.Bag.Len() == 0 {
		fmt.Println("all sources valid")
	}
	return nil
}
