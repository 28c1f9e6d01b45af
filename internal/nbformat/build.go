package nbformat

// NewCodeCell returns an unexecuted code cell with a fresh id.
func NewCodeCell(source string) *CodeCell {
	return &CodeCell{
		CellBase: CellBase{ID: NewCellID(), Source: Text(source)},
		Outputs:  []Output{},
	}
}

// NewMarkdownCell returns a markdown cell with a fresh id.
func NewMarkdownCell(source string) *MarkdownCell {
	return &MarkdownCell{CellBase: CellBase{ID: NewCellID(), Source: Text(source)}}
}

// NewRawCell returns a raw cell with a fresh id.
func NewRawCell(source string) *RawCell {
	return &RawCell{CellBase: CellBase{ID: NewCellID(), Source: Text(source)}}
}

// Ptr returns a pointer to v, for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
