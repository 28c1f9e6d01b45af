package conformance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCase(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCase_Valid(t *testing.T) {
	path := writeCase(t, t.TempDir(), "c.yaml", `
name: dup
description: "duplicate ids"
notebook: '{"nbformat":4}'
options:
  foreign_fields: drop
  missing_ids: [a, b]
valid: false
violations:
  - code: E120
    path: cells[1].id
    related: cells[0].id
`)

	c, err := LoadCase(path)
	require.NoError(t, err)
	assert.Equal(t, "dup", c.Name)
	assert.Equal(t, "drop", c.Options.ForeignFields)
	assert.Equal(t, []string{"a", "b"}, c.Options.MissingIDs)
	require.Len(t, c.Violations, 1)
	assert.Equal(t, ExpectedViolation{Code: "E120", Path: "cells[1].id", Related: "cells[0].id"}, c.Violations[0])
}

func TestLoadCase_UnknownField(t *testing.T) {
	path := writeCase(t, t.TempDir(), "c.yaml", `
name: typo
description: "typo"
notebook: '{}'
valid: false
violation:
  - code: E101
`)

	_, err := LoadCase(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "violation")
}

func TestLoadCase_MissingFile(t *testing.T) {
	_, err := LoadCase(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateCase(t *testing.T) {
	tests := []struct {
		name    string
		c       Case
		wantErr string
	}{
		{"no name", Case{Description: "d", Notebook: "{}", Valid: true}, "name is required"},
		{"no description", Case{Name: "n", Notebook: "{}", Valid: true}, "description is required"},
		{"no notebook", Case{Name: "n", Description: "d", Valid: true}, "notebook is required"},
		{
			"valid with violations",
			Case{Name: "n", Description: "d", Notebook: "{}", Valid: true, Violations: []ExpectedViolation{{Code: "E101"}}},
			"cannot list violations",
		},
		{"invalid without violations", Case{Name: "n", Description: "d", Notebook: "{}"}, "must list its violations"},
		{
			"golden invalid",
			Case{Name: "n", Description: "d", Notebook: "{}", Golden: true, Violations: []ExpectedViolation{{Code: "E101"}}},
			"golden output requires a valid case",
		},
		{
			"violation without code",
			Case{Name: "n", Description: "d", Notebook: "{}", Violations: []ExpectedViolation{{Path: "cells"}}},
			"violations[0]: code is required",
		},
		{
			"bad policy",
			Case{Name: "n", Description: "d", Notebook: "{}", Valid: true, Options: Options{ForeignFields: "keep"}},
			"invalid foreign field policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCase(&tt.c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCases_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	body := "name: same\ndescription: d\nnotebook: '{}'\nvalid: true\n"
	writeCase(t, dir, "a.yaml", body)
	writeCase(t, dir, "b.yaml", body)

	_, err := LoadCases(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate case name "same"`)
}

func TestLoadCases_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "b.yaml", "name: second\ndescription: d\nnotebook: '{}'\nvalid: true\n")
	writeCase(t, dir, "a.yaml", "name: first\ndescription: d\nnotebook: '{}'\nvalid: true\n")
	writeCase(t, dir, "notes.txt", "ignored")

	cases, err := LoadCases(dir)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "first", cases[0].Name)
	assert.Equal(t, "second", cases[1].Name)
}

func TestExpectedViolation_String(t *testing.T) {
	assert.Equal(t, "E101 at cells", ExpectedViolation{Code: "E101", Path: "cells"}.String())
	assert.Equal(t, "E120 at cells[1].id (related cells[0].id)",
		ExpectedViolation{Code: "E120", Path: "cells[1].id", Related: "cells[0].id"}.String())
}
