package nbformat

import (
	"slices"

	"github.com/roach88/nbformat/internal/jsonv"
)

// Format version written by this package.
const (
	FormatMajor = 4
	FormatMinor = 5
)

// DigestDomain is the domain prefix for notebook content digests.
const DigestDomain = "nbformat/notebook/v1"

// Notebook is the root document.
// Treat a Notebook as an immutable value: WithCells and AppendCell return
// new notebooks instead of changing the receiver.
type Notebook struct {
	Nbformat      int64
	NbformatMinor int64
	Metadata      NotebookMetadata
	// Cells keeps document order.
	Cells []Cell
	// Extra holds unrecognized top-level keys.
	Extra jsonv.Object
}

// NewNotebook returns an empty notebook at the current format version.
func NewNotebook() *Notebook {
	return &Notebook{
		Nbformat:      FormatMajor,
		NbformatMinor: FormatMinor,
		Cells:         []Cell{},
	}
}

// WithCells returns a copy of nb whose cell list is cells.
func (nb *Notebook) WithCells(cells ...Cell) *Notebook {
	cp := *nb
	cp.Cells = slices.Clone(cells)
	if cp.Cells == nil {
		cp.Cells = []Cell{}
	}
	return &cp
}

// AppendCell returns a copy of nb with cells added at the end.
func (nb *Notebook) AppendCell(cells ...Cell) *Notebook {
	return nb.WithCells(append(slices.Clone(nb.Cells), cells...)...)
}

// Cell returns the cell with the given id.
func (nb *Notebook) Cell(id string) (Cell, bool) {
	for _, c := range nb.Cells {
		if c != nil && c.Base().ID == id {
			return c, true
		}
	}
	return nil, false
}

// Digest returns the content-addressed identity of nb.
// It is the SHA-256 of the canonical (NFC, sorted, compact) serialization.
func (nb *Notebook) Digest() (string, error) {
	v, err := nb.Value()
	if err != nil {
		return "", err
	}
	return jsonv.Digest(DigestDomain, v)
}
