package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nbformat/internal/nbformat"
)

// DocumentResult is the validation outcome for one file.
type DocumentResult struct {
	Path       string              `json:"path"`
	Valid      bool                `json:"valid"`
	Violations nbformat.Violations `json:"violations,omitempty"`
	// Error is set when the file is not JSON at all.
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results for every file.
type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Invalid   int              `json:"invalid"`
	Documents []DocumentResult `json:"documents"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path|glob>...",
		Short: "Validate notebook documents",
		Long: `Validate notebook documents against the nbformat 4.5 rules.

Every violation in every document is reported. Directories are searched for
*.ipynb files; globs may use ** to cross directories.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error (unreadable file, bad glob, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := ExpandPaths(args)
	if err != nil {
		return formatter.CommandError(ErrCodeScanError, "cannot expand arguments", err)
	}
	if len(files) == 0 {
		return formatter.CommandError(ErrCodeNoFiles, "no notebook files found", nil)
	}
	formatter.VerboseLog("Validating %d file(s)", len(files))

	result := ValidationResult{Valid: true, Documents: make([]DocumentResult, 0, len(files))}
	for _, path := range files {
		_, doc, err := loadNotebook(path, opts.parseOptions())
		if err != nil {
			return formatter.CommandError(ErrCodeReadFailed, "cannot read "+path, err)
		}
		if !doc.Valid {
			result.Valid = false
			result.Invalid++
		}
		result.Documents = append(result.Documents, doc)
	}

	if formatter.JSON() {
		return outputValidationJSON(formatter, result)
	}
	return outputValidationText(formatter, result)
}

// loadNotebook reads and parses one file. The returned error is reserved for
// I/O failures; parse failures are recorded in the DocumentResult.
func loadNotebook(path string, opts []nbformat.Option) (*nbformat.Notebook, DocumentResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, DocumentResult{Path: path}, err
	}
	nb, doc := parseDocument(path, data, opts)
	return nb, doc, nil
}

// parseDocument parses file content, recording violations or a decode error.
func parseDocument(path string, data []byte, opts []nbformat.Option) (*nbformat.Notebook, DocumentResult) {
	doc := DocumentResult{Path: path}

	nb, err := nbformat.ParseJSON(data, opts...)
	if err != nil {
		if vs, ok := nbformat.AsViolations(err); ok {
			doc.Violations = vs
		} else {
			doc.Error = err.Error()
		}
		slog.Debug("document rejected", "path", path, "violations", len(doc.Violations))
		return nil, doc
	}

	doc.Valid = true
	slog.Debug("document valid", "path", path, "cells", len(nb.Cells))
	return nb, doc
}

// firstProblem names the first problem in a failed result for the JSON
// error summary.
func firstProblem(docs []DocumentResult) (code, message string) {
	for _, d := range docs {
		if d.Valid {
			continue
		}
		if d.Error != "" {
			return ErrCodeNotJSON, fmt.Sprintf("%s: %s", d.Path, d.Error)
		}
		v := d.Violations[0]
		return v.Code, fmt.Sprintf("%s: %s", d.Path, v.Error())
	}
	return ErrCodeGeneric, "unknown failure"
}

// outputValidationJSON outputs the validation result as JSON.
func outputValidationJSON(formatter *OutputFormatter, result ValidationResult) error {
	if result.Valid {
		return formatter.Success(result)
	}

	code, message := firstProblem(result.Documents)
	if err := formatter.Failure(result, code, message); err != nil {
		return err
	}
	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("%d of %d document(s) invalid", result.Invalid, len(result.Documents)))
}

// outputValidationText outputs the validation result as text.
func outputValidationText(formatter *OutputFormatter, result ValidationResult) error {
	w := formatter.Writer

	for _, doc := range result.Documents {
		writeDocumentText(formatter, doc)
	}

	if result.Valid {
		fmt.Fprintln(w, "✓ All notebooks valid")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "✗ Validation failed: %d of %d document(s) invalid\n", result.Invalid, len(result.Documents))
	return NewExitError(ExitFailure, fmt.Sprintf("%d of %d document(s) invalid", result.Invalid, len(result.Documents)))
}

// writeDocumentText prints one document's verdict and, if it failed, every
// violation on its own line.
func writeDocumentText(formatter *OutputFormatter, doc DocumentResult) {
	w := formatter.Writer
	if doc.Valid {
		if formatter.Verbose {
			fmt.Fprintf(w, "✓ %s\n", doc.Path)
		}
		return
	}

	fmt.Fprintf(w, "✗ %s\n", doc.Path)
	if doc.Error != "" {
		fmt.Fprintf(w, "  %s: %s\n", ErrCodeNotJSON, doc.Error)
		return
	}
	for _, v := range doc.Violations {
		fmt.Fprintf(w, "  %s\n", v.Error())
	}
}
