package repository

import (
	"context"
	"fmt"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type highlightRepository struct {
	pool *pgxpool.Pool
}

// NewHighlightRepository creates a new HighlightRepository.
func NewHighlightRepository(pool *pgxpool.Pool) domain.HighlightRepository {
	return &highlightRepository{pool: pool}
}

func (r *highlightRepository) getExecutor(ctx context.Context) executor {
	if tx := ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *highlightRepository) Create(ctx context.Context, highlight *domain.Highlight) error {
	query := `
		INSERT INTO highlights (id, signal_id, excerpt, note, start_offset, end_offset, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query,
		highlight.ID, highlight.SignalID, highlight.Excerpt, highlight.Note,
		highlight.StartOffset, highlight.EndOffset, highlight.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert highlight: %w", err)
	}
	return nil
}

func (r *highlightRepository) ListBySignal(ctx context.Context, signalID uuid.UUID) ([]domain.Highlight, error) {
	query := `
		SELECT id, signal_id, excerpt, note, start_offset, end_offset, created_at
		FROM highlights
		WHERE signal_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.getExecutor(ctx).Query(ctx, query, signalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query highlights: %w", err)
	}
	defer rows.Close()

	var highlights []domain.Highlight
	for rows.Next() {
		var h domain.Highlight
		if err := rows.Scan(&h.ID, &h.SignalID, &h.Excerpt, &h.Note, &h.StartOffset, &h.EndOffset, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan highlight: %w", err)
		}
		highlights = append(highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read highlights: %w", err)
	}
	return highlights, nil
}

func (r *highlightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, `DELETE FROM highlights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("highlight", id.String())
	}
	return nil
}
