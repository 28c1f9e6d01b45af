package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nbformat/internal/schema"
)

// SchemaFileResult is the schema check outcome for one file.
type SchemaFileResult struct {
	Path   string         `json:"path"`
	Valid  bool           `json:"valid"`
	Issues []schema.Issue `json:"issues,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// SchemaResult holds the check command result.
type SchemaResult struct {
	Valid   bool               `json:"valid"`
	Invalid int                `json:"invalid"`
	Files   []SchemaFileResult `json:"files"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <path|glob>...",
		Short: "Cross-check notebooks against the CUE schema",
		Long: `Unify notebook documents with the embedded CUE schema of nbformat 4.5.

This is an independent structural check. It covers field presence, types,
discriminants and tag syntax, but not id or name uniqueness; use validate
for the complete rule set.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := ExpandPaths(args)
	if err != nil {
		return formatter.CommandError(ErrCodeScanError, "cannot expand arguments", err)
	}
	if len(files) == 0 {
		return formatter.CommandError(ErrCodeNoFiles, "no notebook files found", nil)
	}

	checker, err := schema.New()
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, "cannot compile schema", err)
	}

	result := SchemaResult{Valid: true, Files: make([]SchemaFileResult, 0, len(files))}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return formatter.CommandError(ErrCodeReadFailed, "cannot read "+path, err)
		}

		fr := SchemaFileResult{Path: path}
		issues, err := checker.Check(data)
		switch {
		case err != nil:
			fr.Error = err.Error()
		case len(issues) > 0:
			fr.Issues = issues
		default:
			fr.Valid = true
		}
		if !fr.Valid {
			result.Valid = false
			result.Invalid++
		}
		formatter.VerboseLog("%s: %d issue(s)", path, len(fr.Issues))
		result.Files = append(result.Files, fr)
	}

	summary := fmt.Sprintf("%d of %d document(s) fail the schema", result.Invalid, len(result.Files))

	if formatter.JSON() {
		if result.Valid {
			return formatter.Success(result)
		}
		if err := formatter.Failure(result, ErrCodeGeneric, summary); err != nil {
			return err
		}
		return NewExitError(ExitFailure, summary)
	}

	w := formatter.Writer
	for _, fr := range result.Files {
		if fr.Valid {
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fr.Path)
		if fr.Error != "" {
			fmt.Fprintf(w, "  %s: %s\n", ErrCodeNotJSON, fr.Error)
		}
		for _, issue := range fr.Issues {
			fmt.Fprintf(w, "  %s\n", issue)
		}
	}
	if !result.Valid {
		fmt.Fprintf(w, "✗ %s\n", summary)
		return NewExitError(ExitFailure, summary)
	}
	fmt.Fprintln(w, "✓ All notebooks match the schema")
	return nil
}
