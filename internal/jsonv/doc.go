// Package jsonv provides a generic JSON value tree for notebook documents.
//
// Notebook documents carry open maps whose contents the model does not
// understand (metadata, output metadata, forward-compatibility keys). Those
// contents are held as jsonv values so they survive a parse/serialize round
// trip unchanged.
//
// Key design constraints:
//   - Value is sealed: only Null, String, Number, Bool, Array and Object implement it
//   - Numbers keep their literal text, so 1.0 and 1 stay distinct
//   - Object keys are emitted in RFC 8785 order (UTF-16 code units)
//   - No HTML escaping on output
//
// This package imports nothing internal.
package jsonv
