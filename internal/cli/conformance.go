package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nbformat/internal/conformance"
)

// ConformanceOptions holds flags for the conformance command.
type ConformanceOptions struct {
	*RootOptions
	GoldenDir string // directory of {name}.golden files
}

// ConformanceReport holds the overall conformance result.
type ConformanceReport struct {
	Cases []*conformance.Result `json:"cases"`
	conformance.Summary
}

// NewConformanceCommand creates the conformance command.
func NewConformanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConformanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "conformance <cases-dir>",
		Short: "Run YAML conformance cases",
		Long: `Run conformance cases against the parser and serializer.

Each *.yaml file in the directory holds one case: a notebook document, the
expected verdict and, for invalid documents, every expected violation.
With --golden, the output of golden cases is compared against
{golden-dir}/{name}.golden.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid paths, malformed case files, etc.)

Examples:
  nbformat conformance ./testdata/cases
  nbformat conformance ./testdata/cases --golden ./testdata/golden`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden files")

	return cmd
}

func runConformance(opts *ConformanceOptions, casesDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Validate directories
	if info, err := os.Stat(casesDir); err != nil || !info.IsDir() {
		return formatter.CommandError(ErrCodeNotFound, "cases directory not found: "+casesDir, nil)
	}
	if opts.GoldenDir != "" {
		if info, err := os.Stat(opts.GoldenDir); err != nil || !info.IsDir() {
			return formatter.CommandError(ErrCodeNotFound, "golden directory not found: "+opts.GoldenDir, nil)
		}
	}

	cases, err := conformance.LoadCases(casesDir)
	if err != nil {
		return formatter.CommandError(ErrCodeReadFailed, "cannot load cases", err)
	}

	results, err := conformance.RunAll(cases, slog.Default())
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, "cannot run cases", err)
	}

	if opts.GoldenDir != "" {
		for i, c := range cases {
			if err := conformance.CompareGolden(opts.GoldenDir, c, results[i]); err != nil {
				return formatter.CommandError(ErrCodeReadFailed, "cannot compare "+c.Name, err)
			}
		}
	}

	report := ConformanceReport{Cases: results, Summary: conformance.Summarize(results)}

	if formatter.JSON() {
		return outputConformanceJSON(formatter, report)
	}
	return outputConformanceText(formatter, report)
}

// outputConformanceJSON outputs the conformance report as JSON.
func outputConformanceJSON(formatter *OutputFormatter, report ConformanceReport) error {
	if report.Failed == 0 {
		return formatter.Success(report)
	}

	msg := fmt.Sprintf("%d case(s) failed", report.Failed)
	if err := formatter.Failure(report, "E_CASE_FAILED", msg); err != nil {
		return err
	}
	// Case failures = exit code 1
	return NewExitError(ExitFailure, msg)
}

// outputConformanceText outputs the conformance report as text.
func outputConformanceText(formatter *OutputFormatter, report ConformanceReport) error {
	w := formatter.Writer

	for _, r := range report.Cases {
		if r.Pass {
			fmt.Fprintf(w, "✓ %s\n", r.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", r.Name)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Conformance Summary: %d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)

	if report.Failed > 0 {
		// Case failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", report.Failed))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}
