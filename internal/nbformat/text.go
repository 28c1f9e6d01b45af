package nbformat

import (
	"strings"

	"github.com/roach88/nbformat/internal/jsonv"
)

// Text is multiline content after normalization.
// The wire forms "a\nb" and ["a\n", "b"] both become Text("a\nb").
type Text string

// Lines splits the text after each newline, keeping the newline.
// The last line keeps no newline unless the text ends with one.
// Empty text has no lines.
func (t Text) Lines() []string {
	if t == "" {
		return []string{}
	}
	return strings.SplitAfter(string(t), "\n")[:lineCount(string(t))]
}

// lineCount returns how many lines SplitAfter yields, dropping the empty
// element that follows a trailing newline.
func lineCount(s string) int {
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// String returns the text as a plain string.
func (t Text) String() string {
	return string(t)
}

// decodeText normalizes either wire encoding into Text.
// ok is false when v is neither a string nor an array of strings.
func decodeText(v jsonv.Value) (Text, bool) {
	switch val := v.(type) {
	case jsonv.String:
		return Text(val), true
	case jsonv.Array:
		var b strings.Builder
		for _, elem := range val {
			s, ok := elem.(jsonv.String)
			if !ok {
				return "", false
			}
			b.WriteString(string(s))
		}
		return Text(b.String()), true
	default:
		return "", false
	}
}

// linesValue encodes text as a JSON array of lines.
func linesValue(t Text) jsonv.Array {
	lines := t.Lines()
	arr := make(jsonv.Array, len(lines))
	for i, line := range lines {
		arr[i] = jsonv.String(line)
	}
	return arr
}
