package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/docqa"
)

// Compile-time interface verification.
var _ docqa.ChunkService = (*ChunkService)(nil)

// maxQueryParams bounds the ids bound into a single IN query.
const maxQueryParams = 500

// ChunkService implements docqa.ChunkService using SQLite.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// CreateChunks inserts all chunks in one transaction. Nothing is stored if
// any chunk is invalid or collides with an existing id.
func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*docqa.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, text, anchor_id, parent_id, source_url, content_length, has_code, chunk_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Text, c.AnchorID, c.ParentID, c.SourceURL,
			c.ContentLength, c.HasCode, c.ChunkIndex); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return docqa.Errorf(docqa.ECONFLICT, "chunk %d already exists", c.ID)
			}
			return fmt.Errorf("failed to insert chunk %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// FindChunkByID retrieves a chunk by ID.
func (s *ChunkService) FindChunkByID(ctx context.Context, id int) (*docqa.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, anchor_id, parent_id, source_url, content_length, has_code, chunk_index
		FROM chunks
		WHERE id = ?
	`, id)

	c, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docqa.Errorf(docqa.ENOTFOUND, "chunk %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindChunksByIDs retrieves the chunks with the given ids, keyed by id.
func (s *ChunkService) FindChunksByIDs(ctx context.Context, ids []int) (map[int]*docqa.Chunk, error) {
	result := make(map[int]*docqa.Chunk, len(ids))

	for start := 0; start < len(ids); start += maxQueryParams {
		end := min(start+maxQueryParams, len(ids))
		batch := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT id, text, anchor_id, parent_id, source_url, content_length, has_code, chunk_index
			FROM chunks
			WHERE id IN (`+placeholders+`)
		`, args...)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			c, err := scanChunk(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			result[c.ID] = c
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return result, nil
}

// CountChunks returns the number of stored chunks.
func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MaxChunkID returns the highest stored chunk id, or -1 if there are none.
func (s *ChunkService) MaxChunkID(ctx context.Context) (int, error) {
	var id sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(id) FROM chunks").Scan(&id); err != nil {
		return 0, err
	}
	if !id.Valid {
		return -1, nil
	}
	return int(id.Int64), nil
}

// ChunkIDs returns all stored ids in ascending order.
func (s *ChunkService) ChunkIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM chunks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(row scanner) (*docqa.Chunk, error) {
	var c docqa.Chunk
	if err := row.Scan(&c.ID, &c.Text, &c.AnchorID, &c.ParentID, &c.SourceURL,
		&c.ContentLength, &c.HasCode, &c.ChunkIndex); err != nil {
		return nil, err
	}
	return &c, nil
}
