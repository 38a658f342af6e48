package repository

import (
	"context"
	"errors"
	"fmt"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const thoughtColumns = `id, signal_id, insight_id, content, created_at`

type thoughtRepository struct {
	pool *pgxpool.Pool
}

// NewThoughtRepository creates a new ThoughtRepository.
func NewThoughtRepository(pool *pgxpool.Pool) domain.ThoughtRepository {
	return &thoughtRepository{pool: pool}
}

func (r *thoughtRepository) getExecutor(ctx context.Context) executor {
	if tx := ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *thoughtRepository) Create(ctx context.Context, thought *domain.Thought) error {
	query := `
		INSERT INTO thoughts (` + thoughtColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query,
		thought.ID, thought.SignalID, thought.InsightID, thought.Content, thought.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert thought: %w", err)
	}
	return nil
}

func (r *thoughtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thought, error) {
	query := `SELECT ` + thoughtColumns + ` FROM thoughts WHERE id = $1`
	var th domain.Thought
	err := r.getExecutor(ctx).QueryRow(ctx, query, id).Scan(
		&th.ID, &th.SignalID, &th.InsightID, &th.Content, &th.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan thought: %w", err)
	}
	return &th, nil
}

func (r *thoughtRepository) ListBySignal(ctx context.Context, signalID uuid.UUID) ([]domain.Thought, error) {
	query := `SELECT ` + thoughtColumns + ` FROM thoughts WHERE signal_id = $1 ORDER BY created_at ASC`
	return r.queryThoughts(ctx, query, signalID)
}

func (r *thoughtRepository) ListByInsight(ctx context.Context, insightID uuid.UUID) ([]domain.Thought, error) {
	query := `SELECT ` + thoughtColumns + ` FROM thoughts WHERE insight_id = $1 ORDER BY created_at ASC`
	return r.queryThoughts(ctx, query, insightID)
}

func (r *thoughtRepository) ListUnlinked(ctx context.Context) ([]domain.Thought, error) {
	query := `SELECT ` + thoughtColumns + ` FROM thoughts WHERE signal_id IS NULL AND insight_id IS NULL ORDER BY created_at DESC`
	return r.queryThoughts(ctx, query)
}

func (r *thoughtRepository) queryThoughts(ctx context.Context, query string, args ...any) ([]domain.Thought, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query thoughts: %w", err)
	}
	defer rows.Close()

	var thoughts []domain.Thought
	for rows.Next() {
		var th domain.Thought
		if err := rows.Scan(&th.ID, &th.SignalID, &th.InsightID, &th.Content, &th.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		thoughts = append(thoughts, th)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read thoughts: %w", err)
	}
	return thoughts, nil
}

func (r *thoughtRepository) UnlinkInsight(ctx context.Context, insightID uuid.UUID) (int64, error) {
	query := `UPDATE thoughts SET insight_id = NULL WHERE insight_id = $1`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, insightID)
	if err != nil {
		return 0, fmt.Errorf("failed to unlink thoughts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *thoughtRepository) LinkInsight(ctx context.Context, thoughtID, insightID uuid.UUID) error {
	query := `UPDATE thoughts SET insight_id = $1 WHERE id = $2`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, insightID, thoughtID)
	if err != nil {
		return fmt.Errorf("failed to link thought: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("thought", thoughtID.String())
	}
	return nil
}

func (r *thoughtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, `DELETE FROM thoughts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete thought: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("thought", id.String())
	}
	return nil
}
