package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/nbformat/internal/nbformat"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	Write bool // rewrite files in place
	Check bool // report files that are not in canonical form
}

// FormatFileResult is the outcome for one file.
type FormatFileResult struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Written bool   `json:"written,omitempty"`
}

// FormatResult holds the fmt command result.
type FormatResult struct {
	Files   []FormatFileResult `json:"files"`
	Changed int                `json:"changed"`
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fmt <path|glob>...",
		Short: "Rewrite notebooks in canonical form",
		Long: `Parse notebooks and re-serialize them in canonical form: sorted keys,
one-space indentation, text split into line arrays, trailing newline.

Without --write or --check, the canonical form of a single file is printed.

Exit codes:
  0 - Success
  1 - Invalid document, or --check found files not in canonical form
  2 - Command error`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "write result to the source file")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "exit 1 if any file is not in canonical form")

	return cmd
}

func runFmt(opts *FmtOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Write && opts.Check {
		return formatter.CommandError(ErrCodeGeneric, "--write and --check are mutually exclusive", nil)
	}

	files, err := ExpandPaths(args)
	if err != nil {
		return formatter.CommandError(ErrCodeScanError, "cannot expand arguments", err)
	}
	if len(files) == 0 {
		return formatter.CommandError(ErrCodeNoFiles, "no notebook files found", nil)
	}

	printing := !opts.Write && !opts.Check
	if printing && len(files) != 1 {
		return formatter.CommandError(ErrCodeGeneric, "printing requires exactly one file; use --write or --check", nil)
	}

	result := FormatResult{Files: make([]FormatFileResult, 0, len(files))}
	var invalid []DocumentResult

	for _, path := range files {
		original, err := os.ReadFile(path)
		if err != nil {
			return formatter.CommandError(ErrCodeReadFailed, "cannot read "+path, err)
		}
		nb, doc := parseDocument(path, original, opts.parseOptions())
		if !doc.Valid {
			invalid = append(invalid, doc)
			continue
		}

		out, err := nbformat.Marshal(nb)
		if err != nil {
			return formatter.CommandError(ErrCodeGeneric, "cannot serialize "+path, err)
		}

		if printing {
			_, err := cmd.OutOrStdout().Write(out)
			return err
		}

		fr := FormatFileResult{Path: path, Changed: !bytes.Equal(original, out)}
		if fr.Changed {
			result.Changed++
			if opts.Write {
				if err := writeFileAtomic(path, out); err != nil {
					return formatter.CommandError(ErrCodeWriteFailed, "cannot write "+path, err)
				}
				fr.Written = true
			}
		}
		formatter.VerboseLog("%s: changed=%t", path, fr.Changed)
		result.Files = append(result.Files, fr)
	}

	if len(invalid) > 0 {
		vr := ValidationResult{Invalid: len(invalid), Documents: invalid}
		if formatter.JSON() {
			return outputValidationJSON(formatter, vr)
		}
		return outputValidationText(formatter, vr)
	}

	if formatter.JSON() {
		if opts.Check && result.Changed > 0 {
			if err := formatter.Failure(result, ErrCodeGeneric, fmt.Sprintf("%d file(s) not in canonical form", result.Changed)); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) not in canonical form", result.Changed))
		}
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, fr := range result.Files {
		switch {
		case fr.Written:
			fmt.Fprintf(w, "formatted %s\n", fr.Path)
		case fr.Changed:
			fmt.Fprintf(w, "needs formatting %s\n", fr.Path)
		}
	}
	if opts.Check && result.Changed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) not in canonical form", result.Changed))
	}
	return nil
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory, keeping the original permissions.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".nbformat-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
