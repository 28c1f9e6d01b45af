// Package store provides a SQLite-backed archive of validated notebooks.
//
// The archive is content-addressed:
//   - Notebooks: one row per distinct document, keyed by its digest
//   - Cells: one summary row per cell (index, id, type, name, tags, outputs)
//
// # Critical Patterns
//
// Content-Addressed Identity
//   - The key is nbformat.Notebook.Digest: SHA-256 over NFC-normalized
//     canonical JSON with a domain prefix
//   - Two documents that differ only in text encoding share one row
//
// Idempotent Writes
//   - INSERT ... ON CONFLICT(digest) DO NOTHING
//   - Putting the same notebook twice reports inserted=false and keeps the
//     first name
//
// Deterministic Query Results
//   - List orders by name, then digest; Cells orders by index
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
