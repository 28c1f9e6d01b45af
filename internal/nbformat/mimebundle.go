package nbformat

import (
	"strings"

	"github.com/roach88/nbformat/internal/jsonv"
)

// Mimebundle maps a MIME type to its payload.
// Payloads are normalized the same way as cell source.
type Mimebundle map[string]Text

// Attachments maps an attachment filename to its data.
// Only raw and markdown cells carry attachments.
type Attachments map[string]Mimebundle

// nonTextSplitMimes are non-text/* types still written as line lists.
var nonTextSplitMimes = map[string]bool{
	"application/javascript": true,
	"image/svg+xml":          true,
}

// splitsLines reports whether payloads of mimeType are written as line lists.
// text/* types and a few script/markup types are split; JSON types and
// binary (base64) payloads are written as a single string.
func splitsLines(mimeType string) bool {
	if strings.HasSuffix(mimeType, "json") {
		return false
	}
	return strings.HasPrefix(mimeType, "text/") || nonTextSplitMimes[mimeType]
}

// value encodes the bundle for the wire.
func (m Mimebundle) value() jsonv.Object {
	obj := make(jsonv.Object, len(m))
	for mimeType, payload := range m {
		if splitsLines(mimeType) {
			obj[mimeType] = linesValue(payload)
		} else {
			obj[mimeType] = jsonv.String(payload)
		}
	}
	return obj
}

func (a Attachments) value() jsonv.Object {
	obj := make(jsonv.Object, len(a))
	for name, bundle := range a {
		obj[name] = bundle.value()
	}
	return obj
}
