package nbformat

import (
	"fmt"

	"github.com/roach88/nbformat/internal/jsonv"
)

// Recognized keys per object. Anything else is passthrough.
var (
	notebookKeys     = keySet("nbformat", "nbformat_minor", "metadata", "cells")
	notebookMetaKeys = keySet("kernelspec", "language_info", "orig_nbformat", "title", "authors")
	kernelspecKeys   = keySet("name", "display_name")
	languageInfoKeys = keySet("name", "codemirror_mode", "file_extension", "mimetype", "pygments_lexer")

	sharedCellKeys = keySet("id", "cell_type", "metadata", "source")
	textCellKeys   = keySet("attachments")
	codeCellKeys   = keySet("outputs", "execution_count")

	sharedMetaKeys = keySet("name", "tags", "jupyter")
	rawMetaKeys    = keySet("format")
	codeMetaKeys   = keySet("execution", "collapsed", "scrolled")
	executionSet   = keySet(executionKeys...)

	executeResultKeys = keySet("output_type", "execution_count", "data", "metadata")
	displayDataKeys   = keySet("output_type", "data", "metadata")
	streamKeys        = keySet("output_type", "name", "text")
	errorKeys         = keySet("output_type", "ename", "evalue", "traceback")
)

// Foreign fields, in the order they are reported.
var (
	codeOnlyFields = []string{"execution_count", "outputs"}
	textOnlyFields = []string{"attachments"}
)

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// Parse validates v as a notebook document.
//
// On success it returns the notebook and no violations. Otherwise it
// returns nil and every violation in the document. Unknown keys are
// preserved in Extra bags; text fields are normalized.
func Parse(v jsonv.Value, opts ...Option) (*Notebook, Violations) {
	p := &parser{opts: buildOptions(opts)}
	nb := p.notebook(v)

	// Cross-cell invariants need the whole document.
	p.checkUnique(p.ids, ErrDuplicateCellID, "cell id")
	p.checkUnique(p.names, ErrDuplicateCellName, "cell name")

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return nb, nil
}

// ParseJSON decodes JSON text and validates it as a notebook document.
// When the text is well-formed JSON but not a valid notebook, the error is
// a Violations value (see AsViolations).
func ParseJSON(data []byte, opts ...Option) (*Notebook, error) {
	v, err := jsonv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	nb, errs := Parse(v, opts...)
	if len(errs) > 0 {
		return nil, errs
	}
	return nb, nil
}

// keyed is a value taking part in a uniqueness check, with its location.
type keyed struct {
	key  string
	path string
}

type parser struct {
	collector
	opts  options
	ids   []keyed
	names []keyed
}

func (p *parser) notebook(v jsonv.Value) *Notebook {
	obj, ok := p.object(v, "", "notebook")
	if !ok {
		return nil
	}

	nb := &Notebook{Cells: []Cell{}}
	nb.Nbformat = p.version(obj, "nbformat")
	nb.NbformatMinor = p.version(obj, "nbformat_minor")

	if m, ok := p.requiredObject(obj, "metadata", "", "notebook metadata"); ok {
		nb.Metadata = p.notebookMetadata(m, "metadata")
	}

	if cv, ok := p.require(obj, "cells", ""); ok {
		arr, ok := cv.(jsonv.Array)
		if !ok {
			p.add(ErrWrongType, "cells", "cells must be an array, got %s", jsonv.TypeName(cv))
		}
		for i, elem := range arr {
			if c := p.cell(elem, index("cells", i)); c != nil {
				nb.Cells = append(nb.Cells, c)
			}
		}
	}

	nb.Extra = extras(obj, notebookKeys)
	return nb
}

func (p *parser) version(obj jsonv.Object, key string) int64 {
	v, ok := p.require(obj, key, "")
	if !ok {
		return 0
	}
	n, ok := p.integer(v, key)
	if ok && n < 0 {
		p.add(ErrNegativeVersion, key, "%s must be non-negative, got %d", key, n)
	}
	return n
}

func (p *parser) notebookMetadata(m jsonv.Object, path string) NotebookMetadata {
	var md NotebookMetadata

	if ks, ok := p.optionalObject(m, "kernelspec", path, "kernelspec"); ok {
		kpath := field(path, "kernelspec")
		md.Kernelspec = &Kernelspec{Extra: extras(ks, kernelspecKeys)}
		md.Kernelspec.Name, _ = p.requiredString(ks, "name", kpath)
		md.Kernelspec.DisplayName, _ = p.requiredString(ks, "display_name", kpath)
	}

	if li, ok := p.optionalObject(m, "language_info", path, "language_info"); ok {
		lpath := field(path, "language_info")
		info := &LanguageInfo{Extra: extras(li, languageInfoKeys)}
		info.Name, _ = p.requiredString(li, "name", lpath)
		if cm, ok := li["codemirror_mode"]; ok {
			switch cm.(type) {
			case jsonv.String, jsonv.Object:
				info.CodemirrorMode = jsonv.Clone(cm)
			default:
				p.add(ErrWrongType, field(lpath, "codemirror_mode"),
					"codemirror_mode must be a string or an object, got %s", jsonv.TypeName(cm))
			}
		}
		info.FileExtension = p.optionalString(li, "file_extension", lpath)
		info.Mimetype = p.optionalString(li, "mimetype", lpath)
		info.PygmentsLexer = p.optionalString(li, "pygments_lexer", lpath)
		md.LanguageInfo = info
	}

	if v, ok := m["orig_nbformat"]; ok {
		if n, ok := p.integer(v, field(path, "orig_nbformat")); ok {
			md.OrigNbformat = &n
		}
	}
	md.Title = p.optionalString(m, "title", path)
	if v, ok := m["authors"]; ok {
		if arr, ok := v.(jsonv.Array); ok {
			md.Authors = arr.Clone()
		} else {
			p.add(ErrWrongType, field(path, "authors"), "authors must be an array, got %s", jsonv.TypeName(v))
		}
	}

	md.Extra = extras(m, notebookMetaKeys)
	return md
}

// cell dispatches on cell_type.
func (p *parser) cell(v jsonv.Value, path string) Cell {
	obj, ok := p.object(v, path, "cell")
	if !ok {
		return nil
	}

	tv, ok := p.require(obj, "cell_type", path)
	if !ok {
		return nil
	}
	ts, ok := tv.(jsonv.String)
	if !ok {
		p.add(ErrWrongType, field(path, "cell_type"), "cell_type must be a string, got %s", jsonv.TypeName(tv))
		return nil
	}

	switch CellType(ts) {
	case CellRaw:
		return p.rawCell(obj, path)
	case CellMarkdown:
		return p.markdownCell(obj, path)
	case CellCode:
		return p.codeCell(obj, path)
	default:
		p.add(ErrUnknownCellType, field(path, "cell_type"),
			"unknown cell_type %q at %s: must be raw, markdown or code", string(ts), path)
		return nil
	}
}

func (p *parser) rawCell(obj jsonv.Object, path string) Cell {
	c := &RawCell{CellBase: p.base(obj, path)}
	mpath := field(path, "metadata")
	if m, ok := p.requiredObject(obj, "metadata", path, "cell metadata"); ok {
		c.Metadata.CellMetadata = p.sharedMetadata(m, mpath, rawMetaKeys)
		c.Metadata.Format = p.optionalString(m, "format", mpath)
	}
	c.Attachments = p.attachments(obj, path)
	p.foreign(obj, path, CellRaw, codeOnlyFields)
	c.Extra = extras(obj, sharedCellKeys, textCellKeys, codeCellKeys)
	return c
}

func (p *parser) markdownCell(obj jsonv.Object, path string) Cell {
	c := &MarkdownCell{CellBase: p.base(obj, path)}
	mpath := field(path, "metadata")
	if m, ok := p.requiredObject(obj, "metadata", path, "cell metadata"); ok {
		c.Metadata = p.sharedMetadata(m, mpath, nil)
	}
	c.Attachments = p.attachments(obj, path)
	p.foreign(obj, path, CellMarkdown, codeOnlyFields)
	c.Extra = extras(obj, sharedCellKeys, textCellKeys, codeCellKeys)
	return c
}

func (p *parser) codeCell(obj jsonv.Object, path string) Cell {
	c := &CodeCell{CellBase: p.base(obj, path), Outputs: []Output{}}
	mpath := field(path, "metadata")
	if m, ok := p.requiredObject(obj, "metadata", path, "cell metadata"); ok {
		c.Metadata.CellMetadata = p.sharedMetadata(m, mpath, codeMetaKeys)
		c.Metadata.Execution = p.execution(m, mpath)
		if v, ok := m["collapsed"]; ok {
			if b, ok := v.(jsonv.Bool); ok {
				collapsed := bool(b)
				c.Metadata.Collapsed = &collapsed
			} else {
				p.add(ErrWrongType, field(mpath, "collapsed"), "collapsed must be a boolean, got %s", jsonv.TypeName(v))
			}
		}
		if v, ok := m["scrolled"]; ok {
			if s, ok := scrolledFrom(v); ok {
				c.Metadata.Scrolled = &s
			} else {
				p.add(ErrWrongType, field(mpath, "scrolled"), `scrolled must be true, false or "auto"`)
			}
		}
	}

	if ov, ok := p.require(obj, "outputs", path); ok {
		opath := field(path, "outputs")
		arr, ok := ov.(jsonv.Array)
		if !ok {
			p.add(ErrWrongType, opath, "outputs must be an array, got %s", jsonv.TypeName(ov))
		}
		for i, elem := range arr {
			if out := p.output(elem, index(opath, i)); out != nil {
				c.Outputs = append(c.Outputs, out)
			}
		}
	}

	// Mandatory but nullable: absent is an error, null means not yet run.
	c.ExecutionCount, _ = p.nullableInt(obj, "execution_count", path)

	p.foreign(obj, path, CellCode, textOnlyFields)
	c.Extra = extras(obj, sharedCellKeys, codeCellKeys, textCellKeys)
	return c
}

func scrolledFrom(v jsonv.Value) (Scrolled, bool) {
	switch val := v.(type) {
	case jsonv.Bool:
		if val {
			return ScrolledTrue, true
		}
		return ScrolledFalse, true
	case jsonv.String:
		if val == "auto" {
			return ScrolledAuto, true
		}
	}
	return ScrolledFalse, false
}

// base parses id and source, which every cell type carries.
func (p *parser) base(obj jsonv.Object, path string) CellBase {
	var b CellBase

	idPath := field(path, "id")
	if v, ok := obj["id"]; ok {
		if id, ok := p.str(v, idPath); ok {
			b.ID = id
			p.ids = append(p.ids, keyed{key: id, path: idPath})
		}
	} else if p.opts.ids != nil {
		b.ID = p.opts.ids.Generate()
		p.ids = append(p.ids, keyed{key: b.ID, path: idPath})
	} else {
		p.add(ErrMissingField, idPath, "required field %q is missing", "id")
	}

	b.Source, _ = p.text(obj, "source", path)
	return b
}

func (p *parser) sharedMetadata(m jsonv.Object, path string, variantKeys map[string]bool) CellMetadata {
	var md CellMetadata

	if v, ok := m["name"]; ok {
		npath := field(path, "name")
		if name, ok := p.str(v, npath); ok {
			if name == "" {
				p.add(ErrEmptyName, npath, "cell name must be a non-empty string")
			} else {
				md.Name = &name
				p.names = append(p.names, keyed{key: name, path: npath})
			}
		}
	}

	if v, ok := m["tags"]; ok {
		md.Tags = p.tags(v, field(path, "tags"))
	}

	if j, ok := p.optionalObject(m, "jupyter", path, "jupyter metadata"); ok {
		md.Jupyter = j.Clone()
	}

	md.Extra = extras(m, sharedMetaKeys, variantKeys)
	return md
}

func (p *parser) tags(v jsonv.Value, path string) []string {
	arr, ok := v.(jsonv.Array)
	if !ok {
		p.add(ErrWrongType, path, "tags must be an array of strings, got %s", jsonv.TypeName(v))
		return nil
	}

	tags := make([]string, 0, len(arr))
	entries := make([]keyed, 0, len(arr))
	for i, elem := range arr {
		tpath := index(path, i)
		if s, ok := p.str(elem, tpath); ok {
			tags = append(tags, s)
			entries = append(entries, keyed{key: s, path: tpath})
		}
	}
	p.checkTags(entries)
	return tags
}

func (p *parser) execution(m jsonv.Object, path string) *Execution {
	obj, ok := p.optionalObject(m, "execution", path, "execution metadata")
	if !ok {
		return nil
	}

	epath := field(path, "execution")
	e := &Execution{Times: make(map[string]string), Extra: extras(obj, executionSet)}
	for _, k := range executionKeys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if s, ok := p.str(v, field(epath, k)); ok {
			e.Times[k] = s
		}
	}
	return e
}

// output dispatches on output_type.
func (p *parser) output(v jsonv.Value, path string) Output {
	obj, ok := p.object(v, path, "output")
	if !ok {
		return nil
	}

	tv, ok := p.require(obj, "output_type", path)
	if !ok {
		return nil
	}
	ts, ok := tv.(jsonv.String)
	if !ok {
		p.add(ErrWrongType, field(path, "output_type"), "output_type must be a string, got %s", jsonv.TypeName(tv))
		return nil
	}

	switch OutputType(ts) {
	case OutputExecuteResult:
		o := &ExecuteResult{Extra: extras(obj, executeResultKeys)}
		o.ExecutionCount, _ = p.nullableInt(obj, "execution_count", path)
		o.Data = p.requiredMimebundle(obj, "data", path)
		if m, ok := p.requiredObject(obj, "metadata", path, "output metadata"); ok {
			o.Metadata = m.Clone()
		}
		return o
	case OutputDisplayData:
		o := &DisplayData{Extra: extras(obj, displayDataKeys)}
		o.Data = p.requiredMimebundle(obj, "data", path)
		if m, ok := p.requiredObject(obj, "metadata", path, "output metadata"); ok {
			o.Metadata = m.Clone()
		}
		return o
	case OutputStream:
		o := &Stream{Extra: extras(obj, streamKeys)}
		o.Name, _ = p.requiredString(obj, "name", path)
		o.Text, _ = p.text(obj, "text", path)
		return o
	case OutputError:
		o := &ErrorOutput{Extra: extras(obj, errorKeys)}
		o.Ename, _ = p.requiredString(obj, "ename", path)
		o.Evalue, _ = p.requiredString(obj, "evalue", path)
		o.Traceback = p.stringList(obj, "traceback", path)
		return o
	default:
		p.add(ErrUnknownOutputType, field(path, "output_type"),
			"unknown output_type %q at %s: must be execute_result, display_data, stream or error", string(ts), path)
		return nil
	}
}

func (p *parser) attachments(obj jsonv.Object, path string) Attachments {
	a, ok := p.optionalObject(obj, "attachments", path, "attachments")
	if !ok {
		return nil
	}

	apath := field(path, "attachments")
	out := make(Attachments, len(a))
	for _, name := range a.SortedKeys() {
		if mb := p.mimebundle(a[name], field(apath, name)); mb != nil {
			out[name] = mb
		}
	}
	return out
}

func (p *parser) requiredMimebundle(obj jsonv.Object, key, path string) Mimebundle {
	v, ok := p.require(obj, key, path)
	if !ok {
		return nil
	}
	return p.mimebundle(v, field(path, key))
}

func (p *parser) mimebundle(v jsonv.Value, path string) Mimebundle {
	obj, ok := p.object(v, path, "mimebundle")
	if !ok {
		return nil
	}

	mb := make(Mimebundle, len(obj))
	for _, mimeType := range obj.SortedKeys() {
		payload := obj[mimeType]
		t, ok := decodeText(payload)
		if !ok {
			p.add(ErrBadText, field(path, mimeType),
				"payload must be a string or a list of strings, got %s", describeText(payload))
			continue
		}
		mb[mimeType] = t
	}
	return mb
}

// foreign applies the foreign field policy to fields of other cell types.
func (p *parser) foreign(obj jsonv.Object, path string, ct CellType, fields []string) {
	if p.opts.foreign == ForeignDrop {
		return
	}
	for _, k := range fields {
		if _, ok := obj[k]; ok {
			p.add(ErrForeignField, field(path, k), "field %q is not allowed on a %s cell", k, ct)
		}
	}
}

// =============================================================================
// Field helpers
// =============================================================================

func (p *parser) object(v jsonv.Value, path, what string) (jsonv.Object, bool) {
	obj, ok := v.(jsonv.Object)
	if !ok {
		p.add(ErrWrongType, path, "%s must be an object, got %s", what, jsonv.TypeName(v))
	}
	return obj, ok
}

func (p *parser) require(obj jsonv.Object, key, path string) (jsonv.Value, bool) {
	v, ok := obj[key]
	if !ok {
		p.add(ErrMissingField, field(path, key), "required field %q is missing", key)
	}
	return v, ok
}

func (p *parser) requiredObject(obj jsonv.Object, key, path, what string) (jsonv.Object, bool) {
	v, ok := p.require(obj, key, path)
	if !ok {
		return nil, false
	}
	return p.object(v, field(path, key), what)
}

func (p *parser) optionalObject(obj jsonv.Object, key, path, what string) (jsonv.Object, bool) {
	v, ok := obj[key]
	if !ok {
		return nil, false
	}
	return p.object(v, field(path, key), what)
}

func (p *parser) str(v jsonv.Value, path string) (string, bool) {
	s, ok := v.(jsonv.String)
	if !ok {
		p.add(ErrWrongType, path, "must be a string, got %s", jsonv.TypeName(v))
	}
	return string(s), ok
}

func (p *parser) requiredString(obj jsonv.Object, key, path string) (string, bool) {
	v, ok := p.require(obj, key, path)
	if !ok {
		return "", false
	}
	return p.str(v, field(path, key))
}

func (p *parser) optionalString(obj jsonv.Object, key, path string) *string {
	v, ok := obj[key]
	if !ok {
		return nil
	}
	s, ok := p.str(v, field(path, key))
	if !ok {
		return nil
	}
	return &s
}

func (p *parser) integer(v jsonv.Value, path string) (int64, bool) {
	if n, ok := v.(jsonv.Number); ok {
		if i, ok := n.Int64(); ok {
			return i, true
		}
		p.add(ErrWrongType, path, "must be an integer, got %s", string(n))
		return 0, false
	}
	p.add(ErrWrongType, path, "must be an integer, got %s", jsonv.TypeName(v))
	return 0, false
}

// nullableInt reads a required integer-or-null field. A nil result with
// ok=true means the value was null.
func (p *parser) nullableInt(obj jsonv.Object, key, path string) (*int64, bool) {
	v, ok := p.require(obj, key, path)
	if !ok {
		return nil, false
	}
	fpath := field(path, key)
	switch val := v.(type) {
	case jsonv.Null:
		return nil, true
	case jsonv.Number:
		if n, ok := val.Int64(); ok {
			return &n, true
		}
		p.add(ErrWrongType, fpath, "%s must be an integer or null, got %s", key, string(val))
	default:
		p.add(ErrWrongType, fpath, "%s must be an integer or null, got %s", key, jsonv.TypeName(v))
	}
	return nil, false
}

func (p *parser) text(obj jsonv.Object, key, path string) (Text, bool) {
	v, ok := p.require(obj, key, path)
	if !ok {
		return "", false
	}
	t, ok := decodeText(v)
	if !ok {
		p.add(ErrBadText, field(path, key), "%s must be a string or a list of strings, got %s", key, describeText(v))
	}
	return t, ok
}

func (p *parser) stringList(obj jsonv.Object, key, path string) []string {
	v, ok := p.require(obj, key, path)
	if !ok {
		return nil
	}
	fpath := field(path, key)
	arr, ok := v.(jsonv.Array)
	if !ok {
		p.add(ErrWrongType, fpath, "%s must be an array of strings, got %s", key, jsonv.TypeName(v))
		return nil
	}
	out := make([]string, 0, len(arr))
	for i, elem := range arr {
		if s, ok := p.str(elem, index(fpath, i)); ok {
			out = append(out, s)
		}
	}
	return out
}

// describeText names what a bad text value actually was.
func describeText(v jsonv.Value) string {
	if arr, ok := v.(jsonv.Array); ok {
		for i, elem := range arr {
			if _, ok := elem.(jsonv.String); !ok {
				return fmt.Sprintf("array with %s at index %d", jsonv.TypeName(elem), i)
			}
		}
	}
	return jsonv.TypeName(v)
}

// extras returns a deep copy of the keys of obj not named in any known set,
// or nil when there are none.
func extras(obj jsonv.Object, known ...map[string]bool) jsonv.Object {
	var out jsonv.Object
	for k, v := range obj {
		recognized := false
		for _, set := range known {
			if set[k] {
				recognized = true
				break
			}
		}
		if recognized {
			continue
		}
		if out == nil {
			out = make(jsonv.Object)
		}
		out[k] = jsonv.Clone(v)
	}
	return out
}
