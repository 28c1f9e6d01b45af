package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/nbformat/internal/nbformat"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestNotebook builds a small valid notebook with fixed ids.
func createTestNotebook(source string) *nbformat.Notebook {
	intro := &nbformat.MarkdownCell{CellBase: nbformat.CellBase{ID: "intro", Source: "# Title"}}
	intro.Metadata.Name = nbformat.Ptr("intro")
	intro.Metadata.Tags = []string{"header", "docs"}

	code := &nbformat.CodeCell{
		CellBase:       nbformat.CellBase{ID: "run", Source: nbformat.Text(source)},
		ExecutionCount: nbformat.Ptr(int64(1)),
		Outputs: []nbformat.Output{
			&nbformat.Stream{Name: "stdout", Text: "1\n"},
		},
	}

	return nbformat.NewNotebook().AppendCell(intro, code)
}
