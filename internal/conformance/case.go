package conformance

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nbformat/internal/nbformat"
)

// Case defines one conformance case: a notebook document and the outcome
// the parser must produce for it.
type Case struct {
	// Name uniquely identifies this case. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this case validates.
	Description string `yaml:"description"`

	// Notebook is the JSON text of the document under test.
	Notebook string `yaml:"notebook"`

	// Options configures the parser for this case.
	Options Options `yaml:"options,omitempty"`

	// Valid is the expected verdict.
	Valid bool `yaml:"valid"`

	// Violations lists every violation an invalid document must produce.
	// The match is exact: a missing or an extra violation fails the case.
	Violations []ExpectedViolation `yaml:"violations,omitempty"`

	// Golden compares the serializer output of a valid document against
	// testdata/golden/{name}.golden.
	Golden bool `yaml:"golden,omitempty"`
}

// Options mirrors the parser options a case may set.
type Options struct {
	// ForeignFields is "reject" (default) or "drop".
	ForeignFields string `yaml:"foreign_fields,omitempty"`

	// MissingIDs, when non-empty, are assigned in order to cells without an id.
	MissingIDs []string `yaml:"missing_ids,omitempty"`
}

// ExpectedViolation identifies a violation by code and location.
type ExpectedViolation struct {
	Code string `yaml:"code"`
	Path string `yaml:"path"`
	// Related is checked only when set.
	Related string `yaml:"related,omitempty"`
}

func (e ExpectedViolation) String() string {
	if e.Related != "" {
		return fmt.Sprintf("%s at %s (related %s)", e.Code, e.Path, e.Related)
	}
	return fmt.Sprintf("%s at %s", e.Code, e.Path)
}

// parseOptions converts case options to parser options.
func (o Options) parseOptions() ([]nbformat.Option, error) {
	policy, err := nbformat.ParseForeignFieldPolicy(o.ForeignFields)
	if err != nil {
		return nil, err
	}
	opts := []nbformat.Option{nbformat.WithForeignFields(policy)}
	if len(o.MissingIDs) > 0 {
		opts = append(opts, nbformat.WithMissingIDs(nbformat.NewFixedIDGenerator(o.MissingIDs...)))
	}
	return opts, nil
}

// LoadCase reads and parses a case YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "violation:" vs "violations:")
	var c Case
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateCase(&c); err != nil {
		return nil, fmt.Errorf("invalid case %s: %w", path, err)
	}

	return &c, nil
}

// LoadCases loads every *.yaml file in dir, sorted by file name.
// Case names must be unique across the directory.
func LoadCases(dir string) ([]*Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	sort.Strings(paths)

	cases := make([]*Case, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		c, err := LoadCase(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate case name %q in %s and %s", c.Name, prev, path)
		}
		seen[c.Name] = path
		cases = append(cases, c)
	}
	return cases, nil
}

// validateCase checks that required fields are present and consistent.
func validateCase(c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	if c.Description == "" {
		return fmt.Errorf("description is required")
	}

	if c.Notebook == "" {
		return fmt.Errorf("notebook is required")
	}

	if c.Valid && len(c.Violations) > 0 {
		return fmt.Errorf("a valid case cannot list violations")
	}

	if !c.Valid && len(c.Violations) == 0 {
		return fmt.Errorf("an invalid case must list its violations")
	}

	if !c.Valid && c.Golden {
		return fmt.Errorf("golden output requires a valid case")
	}

	for i, v := range c.Violations {
		if v.Code == "" {
			return fmt.Errorf("violations[%d]: code is required", i)
		}
	}

	if _, err := nbformat.ParseForeignFieldPolicy(c.Options.ForeignFields); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	return nil
}
