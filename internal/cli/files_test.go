package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ipynb", "{}")
	b := writeFile(t, dir, "sub/b.ipynb", "{}")
	c := writeFile(t, dir, "sub/deeper/c.ipynb", "{}")
	txt := writeFile(t, dir, "sub/notes.txt", "")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"file", []string{a}, []string{a}},
		{"non-notebook file is taken as given", []string{txt}, []string{txt}},
		{"directory recurses", []string{dir}, []string{a, b, c}},
		{"single star", []string{filepath.Join(dir, "*.ipynb")}, []string{a}},
		{"double star", []string{filepath.Join(dir, "**", "*.ipynb")}, []string{a, b, c}},
		{"brace alternatives", []string{filepath.Join(dir, "**", "{a,c}.ipynb")}, []string{a, c}},
		{"duplicates collapse", []string{a, dir, a}, []string{a, b, c}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPaths(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandPaths_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ExpandPaths([]string{filepath.Join(dir, "missing.ipynb")})
	assert.Error(t, err)

	_, err = ExpandPaths([]string{filepath.Join(dir, "*.ipynb")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")

	_, err = ExpandPaths([]string{filepath.Join(dir, "[.ipynb")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")
}

func TestExpandPaths_EmptyDirectory(t *testing.T) {
	got, err := ExpandPaths([]string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, got)
}
