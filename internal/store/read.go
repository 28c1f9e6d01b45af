package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/nbformat/internal/nbformat"
)

// ErrNotFound is returned when no notebook has the requested digest.
var ErrNotFound = errors.New("notebook not found")

// Entry summarizes one archived notebook.
type Entry struct {
	Digest        string `json:"digest"`
	Name          string `json:"name"`
	Nbformat      int64  `json:"nbformat"`
	NbformatMinor int64  `json:"nbformat_minor"`
	CellCount     int    `json:"cell_count"`
}

// CellRow summarizes one cell of an archived notebook.
type CellRow struct {
	Index int               `json:"index"`
	ID    string            `json:"id"`
	Type  nbformat.CellType `json:"cell_type"`
	// Name is empty when the cell has no metadata.name.
	Name    string   `json:"name,omitempty"`
	Tags    []string `json:"tags"`
	Outputs int      `json:"output_count"`
}

// Get returns the archived notebook with the given digest.
// The stored content is parsed again, so the result is fully validated.
func (s *Store) Get(ctx context.Context, digest string) (*nbformat.Notebook, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM notebooks WHERE digest = ?
	`, digest).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get notebook %s: %w", digest, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get notebook %s: %w", digest, err)
	}

	nb, err := nbformat.ParseJSON(content)
	if err != nil {
		return nil, fmt.Errorf("get notebook %s: %w", digest, err)
	}
	return nb, nil
}

// List returns every archived notebook ordered by name, then digest.
//
// Returns an empty slice (not nil) if the archive is empty.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT digest, name, nbformat, nbformat_minor, cell_count
		FROM notebooks
		ORDER BY name COLLATE BINARY ASC, digest COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query notebooks: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Digest, &e.Name, &e.Nbformat, &e.NbformatMinor, &e.CellCount); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notebooks: %w", err)
	}

	return entries, nil
}

// Cells returns the cell summaries of an archived notebook in index order.
// Returns ErrNotFound if the digest is unknown.
func (s *Store) Cells(ctx context.Context, digest string) ([]CellRow, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM notebooks WHERE digest = ?`, digest).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cells of %s: %w", digest, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cells of %s: %w", digest, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, cell_id, cell_type, name, tags, output_count
		FROM cells
		WHERE digest = ?
		ORDER BY idx ASC
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	cells := []CellRow{}
	for rows.Next() {
		var (
			c        CellRow
			cellType string
			name     sql.NullString
			tags     string
		)
		if err := rows.Scan(&c.Index, &c.ID, &cellType, &name, &tags, &c.Outputs); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		c.Type = nbformat.CellType(cellType)
		c.Name = name.String
		if c.Tags, err = unmarshalTags(tags); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}

	return cells, nil
}
