package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const signalColumns = `id, title, content, summary, source, source_url, raw_content, tags, status, created_at, updated_at`

type signalRepository struct {
	pool *pgxpool.Pool
}

// NewSignalRepository creates a new SignalRepository.
func NewSignalRepository(pool *pgxpool.Pool) domain.SignalRepository {
	return &signalRepository{pool: pool}
}

func (r *signalRepository) getExecutor(ctx context.Context) executor {
	if tx := ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func scanSignal(row pgx.Row) (*domain.Signal, error) {
	var s domain.Signal
	var tags []byte
	err := row.Scan(&s.ID, &s.Title, &s.Content, &s.Summary, &s.Source, &s.SourceURL,
		&s.RawContent, &tags, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan signal: %w", err)
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &s.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode signal tags: %w", err)
		}
	}
	return &s, nil
}

func (r *signalRepository) Create(ctx context.Context, signal *domain.Signal) error {
	tags, err := json.Marshal(signal.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode signal tags: %w", err)
	}
	query := `
		INSERT INTO signals (` + signalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.getExecutor(ctx).Exec(ctx, query,
		signal.ID, signal.Title, signal.Content, signal.Summary, signal.Source,
		signal.SourceURL, signal.RawContent, tags, signal.Status,
		signal.CreatedAt, signal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert signal: %w", err)
	}
	return nil
}

func (r *signalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE id = $1`
	return scanSignal(r.getExecutor(ctx).QueryRow(ctx, query, id))
}

func (r *signalRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*domain.Signal, error) {
	signal, err := r.GetByID(ctx, id)
	if err != nil || signal == nil {
		return signal, err
	}

	highlightQuery := `
		SELECT id, signal_id, excerpt, note, start_offset, end_offset, created_at
		FROM highlights
		WHERE signal_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.getExecutor(ctx).Query(ctx, highlightQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query highlights: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h domain.Highlight
		if err := rows.Scan(&h.ID, &h.SignalID, &h.Excerpt, &h.Note, &h.StartOffset, &h.EndOffset, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan highlight: %w", err)
		}
		signal.Highlights = append(signal.Highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read highlights: %w", err)
	}

	thoughtQuery := `
		SELECT id, signal_id, insight_id, content, created_at
		FROM thoughts
		WHERE signal_id = $1
		ORDER BY created_at ASC
	`
	trows, err := r.getExecutor(ctx).Query(ctx, thoughtQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query thoughts: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var th domain.Thought
		if err := trows.Scan(&th.ID, &th.SignalID, &th.InsightID, &th.Content, &th.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		signal.Thoughts = append(signal.Thoughts, th)
	}
	if err := trows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read thoughts: %w", err)
	}

	return signal, nil
}

func (r *signalRepository) List(ctx context.Context, filter domain.SignalFilter) ([]domain.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals`
	args := []any{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, len(args)+1)
		args = append(args, filter.Offset)
	}

	return r.querySignals(ctx, query, args...)
}

func (r *signalRepository) ListByStatus(ctx context.Context, status domain.SignalStatus) ([]domain.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE status = $1 ORDER BY created_at DESC`
	return r.querySignals(ctx, query, status)
}

func (r *signalRepository) ListByInsight(ctx context.Context, insightID uuid.UUID) ([]domain.Signal, error) {
	query := `
		SELECT s.id, s.title, s.content, s.summary, s.source, s.source_url,
		       s.raw_content, s.tags, s.status, s.created_at, s.updated_at
		FROM signals s
		JOIN insight_signals link ON link.signal_id = s.id
		WHERE link.insight_id = $1
		ORDER BY s.created_at ASC
	`
	return r.querySignals(ctx, query, insightID)
}

func (r *signalRepository) querySignals(ctx context.Context, query string, args ...any) ([]domain.Signal, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []domain.Signal
	for rows.Next() {
		var s domain.Signal
		var tags []byte
		if err := rows.Scan(&s.ID, &s.Title, &s.Content, &s.Summary, &s.Source, &s.SourceURL,
			&s.RawContent, &tags, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &s.Tags); err != nil {
				return nil, fmt.Errorf("failed to decode signal tags: %w", err)
			}
		}
		signals = append(signals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read signals: %w", err)
	}
	return signals, nil
}

func (r *signalRepository) Update(ctx context.Context, signal *domain.Signal) error {
	tags, err := json.Marshal(signal.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode signal tags: %w", err)
	}
	query := `
		UPDATE signals
		SET title = $1, content = $2, summary = $3, source = $4, source_url = $5,
		    raw_content = $6, tags = $7, status = $8, updated_at = NOW()
		WHERE id = $9
	`
	tag, err := r.getExecutor(ctx).Exec(ctx, query,
		signal.Title, signal.Content, signal.Summary, signal.Source, signal.SourceURL,
		signal.RawContent, tags, signal.Status, signal.ID)
	if err != nil {
		return fmt.Errorf("failed to update signal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("signal", signal.ID.String())
	}
	return nil
}

func (r *signalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SignalStatus) error {
	query := `UPDATE signals SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update signal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("signal", id.String())
	}
	return nil
}

func (r *signalRepository) UpdateStatusBatch(ctx context.Context, ids []uuid.UUID, from, to domain.SignalStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// The status predicate keeps a concurrent batch from transitioning rows
	// another invocation already claimed.
	query := `
		UPDATE signals
		SET status = $1, updated_at = NOW()
		WHERE id = ANY($2) AND status = $3
	`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, to, ids, from)
	if err != nil {
		return 0, fmt.Errorf("failed to batch update signal status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *signalRepository) FindPlaceholder(ctx context.Context, sourceURL string, cutoff time.Time) (*domain.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE status = $1 AND source_url = $2 AND created_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanSignal(r.getExecutor(ctx).QueryRow(ctx, query, domain.SignalProcessing, sourceURL, cutoff))
}

func (r *signalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Highlights cascade via FK; thought references are nulled via FK.
	query := `DELETE FROM signals WHERE id = $1`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete signal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("signal", id.String())
	}
	return nil
}
