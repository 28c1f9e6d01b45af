package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nbformat/internal/nbformat"
)

// Config holds parser settings shared by every command.
//
// Example file:
//
//	foreign_fields: drop
//	assign_missing_ids: true
type Config struct {
	// ForeignFields is "reject" (default) or "drop".
	ForeignFields string `yaml:"foreign_fields"`

	// AssignMissingIDs generates random ids for cells that have none.
	AssignMissingIDs bool `yaml:"assign_missing_ids"`
}

// DefaultConfig returns the strict defaults.
func DefaultConfig() *Config {
	return &Config{ForeignFields: nbformat.ForeignReject.String()}
}

// LoadConfig reads a YAML config file.
// Unknown keys are errors, so a misspelled setting is never silently ignored.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty file decodes to io.EOF and leaves the defaults.
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	_, err := nbformat.ParseForeignFieldPolicy(c.ForeignFields)
	return err
}

// ParseOptions converts the config to parser options.
// Call only on a validated config.
func (c *Config) ParseOptions() []nbformat.Option {
	policy, _ := nbformat.ParseForeignFieldPolicy(c.ForeignFields)
	opts := []nbformat.Option{nbformat.WithForeignFields(policy)}
	if c.AssignMissingIDs {
		opts = append(opts, nbformat.WithMissingIDs(nbformat.RandomIDGenerator{}))
	}
	return opts
}
