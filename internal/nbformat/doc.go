// Package nbformat provides the data model, validator and serializer for
// notebook documents (nbformat 4, minor 5).
//
// A notebook is a versioned JSON document made of typed cells. Cells and
// outputs are closed tagged unions:
//
//	Cell:   *RawCell | *MarkdownCell | *CodeCell          (cell_type)
//	Output: *ExecuteResult | *DisplayData | *Stream | *ErrorOutput (output_type)
//
// Both interfaces are sealed, so a combination such as outputs on a markdown
// cell cannot be represented at all.
//
// # Parsing
//
// Parse and ParseJSON validate a document exhaustively: every violation in
// the whole document is collected and returned together, each with a path
// such as cells[2].metadata.tags[0]. A document with violations never yields
// a partially populated Notebook.
//
// # Passthrough
//
// Keys the model does not recognize are kept in Extra bags on the value that
// carried them and written back on serialization, so forward-compatible
// content survives a round trip.
//
// # Text fields
//
// source, stream text and mimebundle payloads accept a single string or a
// list of line strings on the wire. Both normalize to one Text value (the
// concatenation). Marshal writes source and stream text as line lists; see
// Marshal for the mimebundle rule.
package nbformat
