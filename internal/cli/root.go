package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/nbformat/internal/nbformat"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// ForeignFields and AssignMissingIDs override the config file when set
	// on the command line.
	ForeignFields    string
	AssignMissingIDs bool

	// Config is resolved before any subcommand runs.
	Config *Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the nbformat CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nbformat",
		Short: "nbformat - notebook document validator and formatter",
		Long: `Validate, normalize and archive notebook documents (nbformat 4.5).

Every violation in a document is reported, each located by a path such as
cells[3].metadata.tags[1].`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			configureLogging(cmd.ErrOrStderr(), opts.Verbose)

			cfg, err := resolveConfig(opts, cmd)
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeConfig+": invalid configuration", err)
			}
			opts.Config = cfg
			slog.Debug("configuration resolved",
				"foreign_fields", cfg.ForeignFields,
				"assign_missing_ids", cfg.AssignMissingIDs)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.ForeignFields, "foreign-fields", "",
		"policy for fields of another cell type (reject|drop)")
	cmd.PersistentFlags().BoolVar(&opts.AssignMissingIDs, "assign-missing-ids", false,
		"generate ids for cells that have none")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))
	cmd.AddCommand(NewConformanceCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging installs the default slog handler on w.
func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func resolveConfig(opts *RootOptions, cmd *cobra.Command) (*Config, error) {
	cfg := DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("foreign-fields") {
		cfg.ForeignFields = opts.ForeignFields
	}
	if flags.Changed("assign-missing-ids") {
		cfg.AssignMissingIDs = opts.AssignMissingIDs
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseOptions returns the parser options for the resolved configuration.
func (o *RootOptions) parseOptions() []nbformat.Option {
	cfg := o.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return cfg.ParseOptions()
}
