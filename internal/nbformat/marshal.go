package nbformat

import (
	"errors"
	"fmt"

	"github.com/roach88/nbformat/internal/jsonv"
)

// Indent is the per-level indentation of the on-disk form.
const Indent = " "

var errNilCell = errors.New("nil cell")

// Marshal serializes nb in the on-disk form: keys sorted, one-space
// indentation, text and split MIME payloads written as line lists, and a
// trailing newline.
//
// Marshal does not validate; call Validate first for notebooks built in code.
// Output for a notebook produced by Parse always parses back to an equal
// notebook.
func Marshal(nb *Notebook) ([]byte, error) {
	v, err := nb.Value()
	if err != nil {
		return nil, err
	}
	out, err := jsonv.MarshalIndent(v, Indent)
	if err != nil {
		return nil, fmt.Errorf("encode notebook: %w", err)
	}
	return append(out, '\n'), nil
}

// MarshalJSON implements json.Marshaler with the compact wire form.
func (nb *Notebook) MarshalJSON() ([]byte, error) {
	v, err := nb.Value()
	if err != nil {
		return nil, err
	}
	return jsonv.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler using ParseJSON defaults.
func (nb *Notebook) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*nb = *parsed
	return nil
}

// Value returns nb as a JSON value tree in wire form. Extra keys are
// merged back in; recognized fields win over Extra keys of the same name.
func (nb *Notebook) Value() (jsonv.Object, error) {
	if nb == nil {
		return nil, errors.New("nil notebook")
	}

	obj := withExtra(nb.Extra)
	obj["nbformat"] = jsonv.Int(nb.Nbformat)
	obj["nbformat_minor"] = jsonv.Int(nb.NbformatMinor)
	obj["metadata"] = nb.Metadata.value()

	cells := make(jsonv.Array, len(nb.Cells))
	for i, c := range nb.Cells {
		v, err := cellValue(c)
		if err != nil {
			return nil, fmt.Errorf("cells[%d]: %w", i, err)
		}
		cells[i] = v
	}
	obj["cells"] = cells
	return obj, nil
}

func cellValue(c Cell) (jsonv.Object, error) {
	if isNilCell(c) {
		return nil, errNilCell
	}

	b := c.Base()
	obj := withExtra(b.Extra)
	obj["id"] = jsonv.String(b.ID)
	obj["cell_type"] = jsonv.String(c.CellType())
	obj["source"] = linesValue(b.Source)

	switch cell := c.(type) {
	case *RawCell:
		obj["metadata"] = cell.Metadata.value()
		if cell.Attachments != nil {
			obj["attachments"] = cell.Attachments.value()
		}
	case *MarkdownCell:
		obj["metadata"] = cell.Metadata.value()
		if cell.Attachments != nil {
			obj["attachments"] = cell.Attachments.value()
		}
	case *CodeCell:
		obj["metadata"] = cell.Metadata.value()
		outputs := make(jsonv.Array, len(cell.Outputs))
		for i, out := range cell.Outputs {
			v, err := outputValue(out)
			if err != nil {
				return nil, fmt.Errorf("outputs[%d]: %w", i, err)
			}
			outputs[i] = v
		}
		obj["outputs"] = outputs
		obj["execution_count"] = nullableInt(cell.ExecutionCount)
	}
	return obj, nil
}

func outputValue(o Output) (jsonv.Object, error) {
	if isNilOutput(o) {
		return nil, errors.New("nil output")
	}

	var obj jsonv.Object
	switch out := o.(type) {
	case *ExecuteResult:
		obj = withExtra(out.Extra)
		obj["execution_count"] = nullableInt(out.ExecutionCount)
		obj["data"] = out.Data.value()
		obj["metadata"] = objectOrEmpty(out.Metadata)
	case *DisplayData:
		obj = withExtra(out.Extra)
		obj["data"] = out.Data.value()
		obj["metadata"] = objectOrEmpty(out.Metadata)
	case *Stream:
		obj = withExtra(out.Extra)
		obj["name"] = jsonv.String(out.Name)
		obj["text"] = linesValue(out.Text)
	case *ErrorOutput:
		obj = withExtra(out.Extra)
		obj["ename"] = jsonv.String(out.Ename)
		obj["evalue"] = jsonv.String(out.Evalue)
		obj["traceback"] = stringsValue(out.Traceback)
	}
	obj["output_type"] = jsonv.String(o.OutputType())
	return obj, nil
}

func (m NotebookMetadata) value() jsonv.Object {
	obj := withExtra(m.Extra)
	if ks := m.Kernelspec; ks != nil {
		k := withExtra(ks.Extra)
		k["name"] = jsonv.String(ks.Name)
		k["display_name"] = jsonv.String(ks.DisplayName)
		obj["kernelspec"] = k
	}
	if li := m.LanguageInfo; li != nil {
		l := withExtra(li.Extra)
		l["name"] = jsonv.String(li.Name)
		if li.CodemirrorMode != nil {
			l["codemirror_mode"] = jsonv.Clone(li.CodemirrorMode)
		}
		setString(l, "file_extension", li.FileExtension)
		setString(l, "mimetype", li.Mimetype)
		setString(l, "pygments_lexer", li.PygmentsLexer)
		obj["language_info"] = l
	}
	if m.OrigNbformat != nil {
		obj["orig_nbformat"] = jsonv.Int(*m.OrigNbformat)
	}
	setString(obj, "title", m.Title)
	if m.Authors != nil {
		obj["authors"] = m.Authors.Clone()
	}
	return obj
}

func (m CellMetadata) value() jsonv.Object {
	obj := withExtra(m.Extra)
	setString(obj, "name", m.Name)
	if m.Tags != nil {
		obj["tags"] = stringsValue(m.Tags)
	}
	if m.Jupyter != nil {
		obj["jupyter"] = m.Jupyter.Clone()
	}
	return obj
}

func (m RawCellMetadata) value() jsonv.Object {
	obj := m.CellMetadata.value()
	setString(obj, "format", m.Format)
	return obj
}

func (m CodeCellMetadata) value() jsonv.Object {
	obj := m.CellMetadata.value()
	if e := m.Execution; e != nil {
		ex := withExtra(e.Extra)
		for k, t := range e.Times {
			ex[k] = jsonv.String(t)
		}
		obj["execution"] = ex
	}
	if m.Collapsed != nil {
		obj["collapsed"] = jsonv.Bool(*m.Collapsed)
	}
	if m.Scrolled != nil {
		obj["scrolled"] = m.Scrolled.value()
	}
	return obj
}

// withExtra starts an object from a copy of extra.
func withExtra(extra jsonv.Object) jsonv.Object {
	obj := make(jsonv.Object, len(extra)+8)
	for k, v := range extra {
		obj[k] = jsonv.Clone(v)
	}
	return obj
}

func objectOrEmpty(obj jsonv.Object) jsonv.Object {
	if obj == nil {
		return jsonv.Object{}
	}
	return obj.Clone()
}

func setString(obj jsonv.Object, key string, s *string) {
	if s != nil {
		obj[key] = jsonv.String(*s)
	}
}

func nullableInt(n *int64) jsonv.Value {
	if n == nil {
		return jsonv.Null{}
	}
	return jsonv.Int(*n)
}

func stringsValue(ss []string) jsonv.Array {
	arr := make(jsonv.Array, len(ss))
	for i, s := range ss {
		arr[i] = jsonv.String(s)
	}
	return arr
}
