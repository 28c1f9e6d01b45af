package jsonv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Marshal produces compact JSON for v with sorted object keys and no HTML escaping.
func Marshal(v Value) ([]byte, error) {
	e := &encoder{}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// MarshalIndent is like Marshal but places each array element and object
// member on its own line, prefixed by indent repeated per nesting level.
// Empty arrays and objects are written as [] and {}.
func MarshalIndent(v Value, indent string) ([]byte, error) {
	e := &encoder{indent: indent, pretty: true}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	indent string
	pretty bool
}

func (e *encoder) newline(depth int) {
	if !e.pretty {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(e.indent, depth))
}

func (e *encoder) value(v Value, depth int) error {
	switch val := v.(type) {
	case Null:
		e.buf.WriteString("null")
	case String:
		return writeString(&e.buf, string(val))
	case Number:
		if !val.valid() {
			return fmt.Errorf("invalid number literal %q", string(val))
		}
		e.buf.WriteString(string(val))
	case Bool:
		if val {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case Array:
		if len(val) == 0 {
			e.buf.WriteString("[]")
			return nil
		}
		e.buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			if err := e.value(elem, depth+1); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		e.newline(depth)
		e.buf.WriteByte(']')
	case Object:
		if len(val) == 0 {
			e.buf.WriteString("{}")
			return nil
		}
		e.buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			if err := writeString(&e.buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			e.buf.WriteByte(':')
			if e.pretty {
				e.buf.WriteByte(' ')
			}
			if err := e.value(val[k], depth+1); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		e.newline(depth)
		e.buf.WriteByte('}')
	case nil:
		return fmt.Errorf("undefined value")
	default:
		return fmt.Errorf("unknown Value type: %T", v)
	}
	return nil
}

// writeString writes s as a JSON string.
// Only control characters, backslash, and quote are escaped: no HTML
// escaping, and U+2028/U+2029 are written literally.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false) // CRITICAL: <, >, & must NOT be escaped
	if err := enc.Encode(s); err != nil {
		return err
	}

	// json.Encoder adds trailing newline, remove it
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes that
// encoding/json emits back into literal characters. An escaped backslash
// followed by "u2028" is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+5 < len(data) && data[i+1] == 'u' && string(data[i+2:i+5]) == "202" {
			switch data[i+5] {
			case '8':
				out = append(out, "\u2028"...)
				i += 5
				continue
			case '9':
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		// Any other escape: copy both bytes so \\ pairs stay intact
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// MarshalJSON implements json.Marshaler for Null.
func (n Null) MarshalJSON() ([]byte, error) { return Marshal(n) }

// MarshalJSON implements json.Marshaler for String.
func (s String) MarshalJSON() ([]byte, error) { return Marshal(s) }

// MarshalJSON implements json.Marshaler for Number so it is not quoted.
func (n Number) MarshalJSON() ([]byte, error) { return Marshal(n) }

// MarshalJSON implements json.Marshaler for Bool.
func (b Bool) MarshalJSON() ([]byte, error) { return Marshal(b) }

// MarshalJSON implements json.Marshaler for Array.
func (arr Array) MarshalJSON() ([]byte, error) {
	if arr == nil {
		return []byte("null"), nil
	}
	return Marshal(arr)
}

// MarshalJSON implements json.Marshaler for Object with sorted keys.
func (obj Object) MarshalJSON() ([]byte, error) {
	if obj == nil {
		return []byte("null"), nil
	}
	return Marshal(obj)
}
