package nbformat

import "github.com/roach88/nbformat/internal/jsonv"

// CellType is the cell_type discriminant.
type CellType string

// Cell types. The set is closed.
const (
	CellRaw      CellType = "raw"
	CellMarkdown CellType = "markdown"
	CellCode     CellType = "code"
)

// Cell is one unit of notebook content.
// Only *RawCell, *MarkdownCell and *CodeCell implement it.
type Cell interface {
	CellType() CellType
	// Base returns the fields every cell type carries.
	Base() *CellBase
	// SharedMetadata returns the metadata keys every cell type carries.
	SharedMetadata() *CellMetadata
	isCell()
}

// CellBase holds the fields shared by all cell types.
type CellBase struct {
	// ID must be unique across the notebook.
	ID     string
	Source Text
	// Extra holds unrecognized cell-level keys.
	Extra jsonv.Object
}

// Base returns b itself; it is promoted to every cell type.
func (b *CellBase) Base() *CellBase { return b }

// RawCell is content passed through unchanged by converters.
type RawCell struct {
	CellBase
	Metadata    RawCellMetadata
	Attachments Attachments
}

// MarkdownCell is markdown text, possibly referencing attachments.
type MarkdownCell struct {
	CellBase
	Metadata    CellMetadata
	Attachments Attachments
}

// CodeCell is source code together with its recorded outputs.
type CodeCell struct {
	CellBase
	Metadata CodeCellMetadata
	Outputs  []Output
	// ExecutionCount is nil when the cell has not been run; it is written as null.
	ExecutionCount *int64
}

func (*RawCell) CellType() CellType      { return CellRaw }
func (*MarkdownCell) CellType() CellType { return CellMarkdown }
func (*CodeCell) CellType() CellType     { return CellCode }

func (c *RawCell) SharedMetadata() *CellMetadata      { return &c.Metadata.CellMetadata }
func (c *MarkdownCell) SharedMetadata() *CellMetadata { return &c.Metadata }
func (c *CodeCell) SharedMetadata() *CellMetadata     { return &c.Metadata.CellMetadata }

func (*RawCell) isCell()      {}
func (*MarkdownCell) isCell() {}
func (*CodeCell) isCell()     {}
