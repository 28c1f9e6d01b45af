package nbformat

import "github.com/roach88/nbformat/internal/jsonv"

// Validate checks the invariants of a notebook built or edited in code.
//
// Documents from Parse already satisfy them. Validate covers what the type
// system cannot: nil cells and outputs, negative versions, empty or
// duplicate names, duplicate ids, the tag rules, and Extra keys that Parse
// would not have put there (recognized fields and other cell types' fields).
func Validate(nb *Notebook) Violations {
	var c collector
	if nb == nil {
		c.add(ErrNilValue, "", "notebook is nil")
		return c.errs
	}

	if nb.Nbformat < 0 {
		c.add(ErrNegativeVersion, "nbformat", "nbformat must be non-negative, got %d", nb.Nbformat)
	}
	if nb.NbformatMinor < 0 {
		c.add(ErrNegativeVersion, "nbformat_minor", "nbformat_minor must be non-negative, got %d", nb.NbformatMinor)
	}

	c.checkExtra(nb.Extra, "", notebookKeys)
	c.checkExtra(nb.Metadata.Extra, "metadata", notebookMetaKeys)
	if ks := nb.Metadata.Kernelspec; ks != nil {
		c.checkExtra(ks.Extra, "metadata.kernelspec", kernelspecKeys)
	}
	if li := nb.Metadata.LanguageInfo; li != nil {
		c.checkExtra(li.Extra, "metadata.language_info", languageInfoKeys)
	}

	var ids, names []keyed
	for i, cell := range nb.Cells {
		path := index("cells", i)
		if isNilCell(cell) {
			c.add(ErrNilValue, path, "cell is nil")
			continue
		}

		ids = append(ids, keyed{key: cell.Base().ID, path: field(path, "id")})

		mpath := field(path, "metadata")
		md := cell.SharedMetadata()
		c.checkCellExtra(cell, path)
		if md.Name != nil {
			npath := field(mpath, "name")
			if *md.Name == "" {
				c.add(ErrEmptyName, npath, "cell name must be a non-empty string")
			} else {
				names = append(names, keyed{key: *md.Name, path: npath})
			}
		}

		tpath := field(mpath, "tags")
		tags := make([]keyed, len(md.Tags))
		for j, tag := range md.Tags {
			tags[j] = keyed{key: tag, path: index(tpath, j)}
		}
		c.checkTags(tags)

		if code, ok := cell.(*CodeCell); ok {
			opath := field(path, "outputs")
			for j, out := range code.Outputs {
				if isNilOutput(out) {
					c.add(ErrNilValue, index(opath, j), "output is nil")
					continue
				}
				c.checkOutputExtra(out, index(opath, j))
			}
		}
	}

	c.checkUnique(ids, ErrDuplicateCellID, "cell id")
	c.checkUnique(names, ErrDuplicateCellName, "cell name")
	return c.errs
}

// checkCellExtra applies the cell-level key rules of Parse to Extra bags.
func (c *collector) checkCellExtra(cell Cell, path string) {
	mpath := field(path, "metadata")
	extra := cell.Base().Extra
	switch cell.(type) {
	case *CodeCell:
		c.checkForeign(extra, path, CellCode, textOnlyFields)
		c.checkExtra(extra, path, sharedCellKeys, codeCellKeys)
		c.checkExtra(cell.SharedMetadata().Extra, mpath, sharedMetaKeys, codeMetaKeys)
	case *RawCell:
		c.checkForeign(extra, path, CellRaw, codeOnlyFields)
		c.checkExtra(extra, path, sharedCellKeys, textCellKeys)
		c.checkExtra(cell.SharedMetadata().Extra, mpath, sharedMetaKeys, rawMetaKeys)
	case *MarkdownCell:
		c.checkForeign(extra, path, CellMarkdown, codeOnlyFields)
		c.checkExtra(extra, path, sharedCellKeys, textCellKeys)
		c.checkExtra(cell.SharedMetadata().Extra, mpath, sharedMetaKeys)
	}
}

func (c *collector) checkOutputExtra(out Output, path string) {
	switch o := out.(type) {
	case *ExecuteResult:
		c.checkExtra(o.Extra, path, executeResultKeys)
	case *DisplayData:
		c.checkExtra(o.Extra, path, displayDataKeys)
	case *Stream:
		c.checkExtra(o.Extra, path, streamKeys)
	case *ErrorOutput:
		c.checkExtra(o.Extra, path, errorKeys)
	}
}

// checkForeign reports Extra keys that belong to another cell type.
func (c *collector) checkForeign(extra jsonv.Object, path string, ct CellType, fields []string) {
	for _, k := range fields {
		if _, ok := extra[k]; ok {
			c.add(ErrForeignField, field(path, k), "field %q is not allowed on a %s cell", k, ct)
		}
	}
}

// checkExtra reports Extra keys that name a recognized field. Marshal
// would drop them in favour of the typed field.
func (c *collector) checkExtra(extra jsonv.Object, path string, known ...map[string]bool) {
	for _, k := range extra.SortedKeys() {
		for _, set := range known {
			if set[k] {
				c.add(ErrShadowedField, field(path, k), "Extra key %q collides with a recognized field", k)
				break
			}
		}
	}
}

// isNilCell catches both a nil interface and a typed nil pointer.
func isNilCell(c Cell) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *RawCell:
		return v == nil
	case *MarkdownCell:
		return v == nil
	case *CodeCell:
		return v == nil
	}
	return false
}

func isNilOutput(o Output) bool {
	switch v := o.(type) {
	case nil:
		return true
	case *ExecuteResult:
		return v == nil
	case *DisplayData:
		return v == nil
	case *Stream:
		return v == nil
	case *ErrorOutput:
		return v == nil
	}
	return false
}
