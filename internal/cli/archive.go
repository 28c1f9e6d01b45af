package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/nbformat/internal/nbformat"
	"github.com/roach88/nbformat/internal/store"
)

// ArchiveOptions holds flags shared by archive subcommands.
type ArchiveOptions struct {
	*RootOptions
	Database string
}

// PutResult reports one archived file.
type PutResult struct {
	Path     string `json:"path"`
	Digest   string `json:"digest"`
	Inserted bool   `json:"inserted"`
}

// NewArchiveCommand creates the archive command and its subcommands.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve validated notebooks",
		Long: `Keep validated notebooks in a SQLite archive keyed by content digest.

The digest is a SHA-256 over the canonical JSON of the document, so two
files that differ only in text encoding or key order share an entry.

Examples:
  nbformat archive put --db ./nb.db analysis.ipynb
  nbformat archive ls --db ./nb.db
  nbformat archive get --db ./nb.db <digest> -o copy.ipynb`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newArchivePutCommand(opts))
	cmd.AddCommand(newArchiveGetCommand(opts))
	cmd.AddCommand(newArchiveListCommand(opts))
	cmd.AddCommand(newArchiveCellsCommand(opts))

	return cmd
}

func (o *ArchiveOptions) open(formatter *OutputFormatter) (*store.Store, error) {
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, formatter.CommandError(ErrCodeStore, "failed to open database", err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newArchivePutCommand(opts *ArchiveOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "put <path|glob>...",
		Short: "Validate and archive notebooks",
		Long: `Validate notebooks and archive the valid ones.

Invalid documents are reported and not stored (exit code 1). Content that is
already archived keeps its first name.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchivePut(opts, name, args, cmd)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "archive name (default: file base name; single file only)")

	return cmd
}

func runArchivePut(opts *ArchiveOptions, name string, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	files, err := ExpandPaths(args)
	if err != nil {
		return formatter.CommandError(ErrCodeScanError, "cannot expand arguments", err)
	}
	if len(files) == 0 {
		return formatter.CommandError(ErrCodeNoFiles, "no notebook files found", nil)
	}
	if name != "" && len(files) != 1 {
		return formatter.CommandError(ErrCodeGeneric, "--name requires exactly one file", nil)
	}

	st, err := opts.open(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	var (
		puts    []PutResult
		invalid []DocumentResult
	)
	for _, path := range files {
		nb, doc, err := loadNotebook(path, opts.parseOptions())
		if err != nil {
			return formatter.CommandError(ErrCodeReadFailed, "cannot read "+path, err)
		}
		if !doc.Valid {
			invalid = append(invalid, doc)
			continue
		}

		entryName := name
		if entryName == "" {
			entryName = filepath.Base(path)
		}
		digest, inserted, err := st.Put(ctx, entryName, nb)
		if err != nil {
			return formatter.CommandError(ErrCodeStore, "cannot archive "+path, err)
		}
		puts = append(puts, PutResult{Path: path, Digest: digest, Inserted: inserted})
	}

	if len(invalid) > 0 {
		vr := ValidationResult{Invalid: len(invalid), Documents: invalid}
		if formatter.JSON() {
			return outputValidationJSON(formatter, vr)
		}
		return outputValidationText(formatter, vr)
	}

	if formatter.JSON() {
		return formatter.Success(puts)
	}

	w := formatter.Writer
	for _, p := range puts {
		state := "stored"
		if !p.Inserted {
			state = "already archived"
		}
		fmt.Fprintf(w, "%s  %s (%s)\n", p.Digest, p.Path, state)
	}
	return nil
}

func newArchiveGetCommand(opts *ArchiveOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:           "get <digest>",
		Short:         "Print or write an archived notebook",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveGet(opts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the notebook to this file instead of stdout")

	return cmd
}

func runArchiveGet(opts *ArchiveOptions, digest, output string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := opts.open(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	nb, err := st.Get(commandContext(cmd), digest)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.CommandError(ErrCodeNotFound, "no notebook with digest "+digest, nil)
	}
	if err != nil {
		return formatter.CommandError(ErrCodeStore, "cannot load "+digest, err)
	}

	if output != "" {
		data, err := nbformat.Marshal(nb)
		if err != nil {
			return formatter.CommandError(ErrCodeGeneric, "cannot serialize "+digest, err)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return formatter.CommandError(ErrCodeWriteFailed, "cannot write "+output, err)
		}
		formatter.VerboseLog("wrote %s", output)
		return nil
	}

	if formatter.JSON() {
		data, err := nb.MarshalJSON()
		if err != nil {
			return formatter.CommandError(ErrCodeGeneric, "cannot serialize "+digest, err)
		}
		return formatter.Success(json.RawMessage(data))
	}

	data, err := nbformat.Marshal(nb)
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, "cannot serialize "+digest, err)
	}
	_, err = formatter.Writer.Write(data)
	return err
}

func newArchiveListCommand(opts *ArchiveOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Short:         "List archived notebooks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := opts.open(formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(commandContext(cmd))
			if err != nil {
				return formatter.CommandError(ErrCodeStore, "cannot list notebooks", err)
			}

			if formatter.JSON() {
				return formatter.Success(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(formatter.Writer, "No notebooks archived.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(formatter.Writer, "%s  %-24s v%d.%d  %d cell(s)\n",
					e.Digest, e.Name, e.Nbformat, e.NbformatMinor, e.CellCount)
			}
			return nil
		},
	}
}

func newArchiveCellsCommand(opts *ArchiveOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "cells <digest>",
		Short:         "List the cells of an archived notebook",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := opts.open(formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			cells, err := st.Cells(commandContext(cmd), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return formatter.CommandError(ErrCodeNotFound, "no notebook with digest "+args[0], nil)
			}
			if err != nil {
				return formatter.CommandError(ErrCodeStore, "cannot list cells", err)
			}

			if formatter.JSON() {
				return formatter.Success(cells)
			}
			for _, c := range cells {
				fmt.Fprintf(formatter.Writer, "[%d] %-8s %s", c.Index, c.Type, c.ID)
				if c.Name != "" {
					fmt.Fprintf(formatter.Writer, " name=%s", c.Name)
				}
				if len(c.Tags) > 0 {
					fmt.Fprintf(formatter.Writer, " tags=%v", c.Tags)
				}
				if c.Type == nbformat.CellCode {
					fmt.Fprintf(formatter.Writer, " outputs=%d", c.Outputs)
				}
				fmt.Fprintln(formatter.Writer)
			}
			return nil
		},
	}
}
