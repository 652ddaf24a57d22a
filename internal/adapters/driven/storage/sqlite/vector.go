package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex on the chunks table.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces entries by ID in one transaction.
// The first Upsert marks the index initialised, even when entries is empty.
func (v *vectorIndex) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	return v.inTx(ctx, func(tx *sql.Tx) error {
		return v.write(ctx, tx, entries)
	})
}

// ReplaceDocument deletes a document's entries and writes entries in one
// transaction. On error the previous entries are kept.
func (v *vectorIndex) ReplaceDocument(ctx context.Context, documentID string, entries []domain.IndexEntry) error {
	return v.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
			return fmt.Errorf("deleting entries of %s: %w", documentID, err)
		}
		for _, e := range entries {
			if e.DocumentID != documentID {
				return fmt.Errorf("%w: entry %s belongs to %q, not %q",
					domain.ErrInvalidInput, e.ID, e.DocumentID, documentID)
			}
		}
		return v.write(ctx, tx, entries)
	})
}

func (v *vectorIndex) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// write upserts entries and records the index metadata.
func (v *vectorIndex) write(ctx context.Context, tx *sql.Tx, entries []domain.IndexEntry) error {
	var dims int
	var stored string
	err := tx.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", metaDimensions).Scan(&stored)
	if err == nil {
		dims, _ = strconv.Atoi(stored)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, sequence, text, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			sequence = excluded.sequence,
			text = excluded.text,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" || len(e.Vector) == 0 {
			return fmt.Errorf("%w: entry %q has no id or vector", domain.ErrInvalidInput, e.ID)
		}
		if dims == 0 {
			dims = len(e.Vector)
		}
		if len(e.Vector) != dims {
			return fmt.Errorf("%w: entry %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, e.ID, len(e.Vector), dims)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.DocumentID, e.Sequence, e.Text, encodeVector(e.Vector)); err != nil {
			return fmt.Errorf("saving entry %s: %w", e.ID, err)
		}
	}

	meta := map[string]string{
		metaInitialized: "1",
		metaMetric:      string(v.store.metric),
	}
	if dims > 0 {
		meta[metaDimensions] = strconv.Itoa(dims)
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO index_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, value); err != nil {
			return fmt.Errorf("saving index metadata: %w", err)
		}
	}
	return nil
}

// Search returns the k nearest entries in ascending distance.
// Equal distances are ordered by rowid, which is insertion order.
func (v *vectorIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.QueryHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	initialized, err := v.store.meta(ctx, metaInitialized)
	if err != nil {
		return nil, err
	}
	if initialized == "" {
		return nil, domain.ErrStoreNotInitialized
	}

	if stored, err := v.store.meta(ctx, metaDimensions); err != nil {
		return nil, err
	} else if dims, _ := strconv.Atoi(stored); dims > 0 && dims != len(vector) {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), dims)
	}

	fn := distanceFunctions[v.store.metric]
	// fn comes from a fixed map, never from input.
	query := fmt.Sprintf(`
		SELECT id, document_id, sequence, text, %s(embedding, ?) AS distance
		FROM chunks
		ORDER BY distance ASC, rowid ASC
		LIMIT ?
	`, fn)

	rows, err := v.store.db.QueryContext(ctx, query, encodeVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("searching vectors: %w", err)
	}
	defer rows.Close()

	hits := make([]domain.QueryHit, 0, k)
	for rows.Next() {
		var h domain.QueryHit
		if err := rows.Scan(&h.ID, &h.DocumentID, &h.Sequence, &h.Text, &h.Distance); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}

	return hits, nil
}

// DeleteDocument removes every entry of a document.
func (v *vectorIndex) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := v.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting entries of %s: %w", documentID, err)
	}
	return nil
}

// Count returns the number of stored entries.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Metric returns the distance function in use.
func (v *vectorIndex) Metric() domain.DistanceMetric {
	return v.store.metric
}

// Close is a no-op; the owning Store closes the database.
func (v *vectorIndex) Close() error {
	return nil
}
