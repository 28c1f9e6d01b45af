package jsonv

import (
	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for content addressing.
//
// Differences from Marshal:
//  1. Every string (keys included) is NFC normalized
//  2. Output is always compact
//
// Numbers are written by their literal text; they are not re-formatted.
// Two documents that differ only in Unicode normalization form share a
// canonical encoding.
func MarshalCanonical(v Value) ([]byte, error) {
	return Marshal(normalize(v))
}

// normalize returns a copy of v with every string NFC normalized.
func normalize(v Value) Value {
	switch val := v.(type) {
	case String:
		return String(norm.NFC.String(string(val)))
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[norm.NFC.String(k)] = normalize(elem)
		}
		return out
	default:
		return v
	}
}
