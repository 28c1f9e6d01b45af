package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/nbformat/internal/nbformat"
)

// Put archives nb under name.
// Returns the notebook digest and whether a new record was inserted.
//
// Uses ON CONFLICT(digest) DO NOTHING for idempotency: putting a notebook
// whose content is already archived returns the existing digest and
// inserted=false, and the stored name is left unchanged.
//
// Notebooks with violations are refused.
func (s *Store) Put(ctx context.Context, name string, nb *nbformat.Notebook) (digest string, inserted bool, err error) {
	if vs := nbformat.Validate(nb); len(vs) > 0 {
		return "", false, fmt.Errorf("put notebook: %w", vs)
	}

	digest, err = nb.Digest()
	if err != nil {
		return "", false, fmt.Errorf("put notebook: %w", err)
	}
	content, err := nbformat.Marshal(nb)
	if err != nil {
		return "", false, fmt.Errorf("put notebook: %w", err)
	}

	// Use a transaction so a notebook never appears without its cells
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("put notebook: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM notebooks`).Scan(&seq); err != nil {
		return "", false, fmt.Errorf("put notebook: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO notebooks
		(digest, name, nbformat, nbformat_minor, cell_count, content, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`,
		digest,
		name,
		nb.Nbformat,
		nb.NbformatMinor,
		len(nb.Cells),
		content,
		seq,
	)
	if err != nil {
		return "", false, fmt.Errorf("put notebook: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("put notebook: rows affected: %w", err)
	}
	if affected == 0 {
		s.logger.Debug("notebook already archived", "digest", digest, "name", name)
		return digest, false, nil
	}

	for i, c := range nb.Cells {
		if err := insertCell(ctx, tx, digest, i, c); err != nil {
			return "", false, fmt.Errorf("put notebook: cell %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("put notebook: commit: %w", err)
	}

	s.logger.Debug("notebook archived",
		"digest", digest,
		"name", name,
		"cells", len(nb.Cells),
		"bytes", len(content),
	)
	return digest, true, nil
}

func insertCell(ctx context.Context, tx *sql.Tx, digest string, idx int, c nbformat.Cell) error {
	md := c.SharedMetadata()

	tags, err := marshalTags(md.Tags)
	if err != nil {
		return err
	}

	var name sql.NullString
	if md.Name != nil {
		name = sql.NullString{String: *md.Name, Valid: true}
	}

	outputs := 0
	if code, ok := c.(*nbformat.CodeCell); ok {
		outputs = len(code.Outputs)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cells
		(digest, idx, cell_id, cell_type, name, tags, output_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		digest,
		idx,
		c.Base().ID,
		string(c.CellType()),
		name,
		tags,
		outputs,
	)
	return err
}
