// Package conformance runs notebook interchange cases from YAML files.
//
// # Case Format
//
//	name: duplicate_cell_id
//	description: "Two cells sharing an id are rejected"
//	notebook: |
//	  {"nbformat": 4, "nbformat_minor": 5, "metadata": {}, "cells": [...]}
//	options:
//	  foreign_fields: drop      # or reject (default)
//	  missing_ids: [a, b]       # ids assigned to cells without one
//	valid: false
//	violations:
//	  - code: E120
//	    path: cells[1].id
//	    related: cells[0].id    # optional
//	golden: false
//
// A valid case passes when the document parses, and its serialized form
// parses back to the same bytes. Golden cases also compare that output
// against testdata/golden/{name}.golden.
//
// An invalid case passes when the parser reports exactly the listed
// violations, in any order.
package conformance
