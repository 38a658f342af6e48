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

const insightColumns = `id, core_insight, status, preview, preview_platform, published_url, published_at, created_at, updated_at`

type insightRepository struct {
	pool *pgxpool.Pool
}

// NewInsightRepository creates a new InsightRepository.
func NewInsightRepository(pool *pgxpool.Pool) domain.InsightRepository {
	return &insightRepository{pool: pool}
}

func (r *insightRepository) getExecutor(ctx context.Context) executor {
	if tx := ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func scanInsight(row pgx.Row) (*domain.Insight, error) {
	var i domain.Insight
	err := row.Scan(&i.ID, &i.CoreInsight, &i.Status, &i.Preview, &i.PreviewPlatform,
		&i.PublishedURL, &i.PublishedAt, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan insight: %w", err)
	}
	return &i, nil
}

func (r *insightRepository) Create(ctx context.Context, insight *domain.Insight) error {
	query := `
		INSERT INTO insights (` + insightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query,
		insight.ID, insight.CoreInsight, insight.Status, insight.Preview,
		insight.PreviewPlatform, insight.PublishedURL, insight.PublishedAt,
		insight.CreatedAt, insight.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}
	return nil
}

func (r *insightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights WHERE id = $1`
	return scanInsight(r.getExecutor(ctx).QueryRow(ctx, query, id))
}

func (r *insightRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*domain.Insight, error) {
	insight, err := r.GetByID(ctx, id)
	if err != nil || insight == nil {
		return insight, err
	}

	thoughtQuery := `
		SELECT id, signal_id, insight_id, content, created_at
		FROM thoughts
		WHERE insight_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.getExecutor(ctx).Query(ctx, thoughtQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query insight thoughts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var th domain.Thought
		if err := rows.Scan(&th.ID, &th.SignalID, &th.InsightID, &th.Content, &th.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		insight.Thoughts = append(insight.Thoughts, th)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read thoughts: %w", err)
	}

	signalQuery := `
		SELECT s.id, s.title, s.content, s.summary, s.source, s.source_url,
		       s.raw_content, s.tags, s.status, s.created_at, s.updated_at
		FROM signals s
		JOIN insight_signals link ON link.signal_id = s.id
		WHERE link.insight_id = $1
		ORDER BY s.created_at ASC
	`
	srows, err := r.getExecutor(ctx).Query(ctx, signalQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query insight signals: %w", err)
	}
	defer srows.Close()
	for srows.Next() {
		var s domain.Signal
		var tags []byte
		if err := srows.Scan(&s.ID, &s.Title, &s.Content, &s.Summary, &s.Source, &s.SourceURL,
			&s.RawContent, &tags, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &s.Tags); err != nil {
				return nil, fmt.Errorf("failed to decode signal tags: %w", err)
			}
		}
		insight.Signals = append(insight.Signals, s)
	}
	if err := srows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read signals: %w", err)
	}

	return insight, nil
}

func (r *insightRepository) List(ctx context.Context, limit, offset int) ([]domain.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, len(args)+1)
		args = append(args, offset)
	}

	rows, err := r.getExecutor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		var i domain.Insight
		if err := rows.Scan(&i.ID, &i.CoreInsight, &i.Status, &i.Preview, &i.PreviewPlatform,
			&i.PublishedURL, &i.PublishedAt, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read insights: %w", err)
	}
	return insights, nil
}

func (r *insightRepository) Update(ctx context.Context, insight *domain.Insight) error {
	query := `
		UPDATE insights
		SET core_insight = $1, preview = $2, preview_platform = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.getExecutor(ctx).Exec(ctx, query,
		insight.CoreInsight, insight.Preview, insight.PreviewPlatform, insight.ID)
	if err != nil {
		return fmt.Errorf("failed to update insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("insight", insight.ID.String())
	}
	return nil
}

func (r *insightRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InsightStatus) error {
	query := `UPDATE insights SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update insight status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("insight", id.String())
	}
	return nil
}

func (r *insightRepository) SetPreview(ctx context.Context, id uuid.UUID, preview, platform string) error {
	query := `
		UPDATE insights
		SET preview = $1, preview_platform = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, preview, platform, domain.InsightPreviewing, id)
	if err != nil {
		return fmt.Errorf("failed to set insight preview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("insight", id.String())
	}
	return nil
}

func (r *insightRepository) MarkPublished(ctx context.Context, id uuid.UUID, publishedURL string, publishedAt time.Time) error {
	query := `
		UPDATE insights
		SET status = $1, published_url = $2, published_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, domain.InsightPublished, publishedURL, publishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark insight published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("insight", id.String())
	}
	return nil
}

func (r *insightRepository) RevertToDraft(ctx context.Context, id uuid.UUID, clearPreview bool) error {
	query := `UPDATE insights SET status = $1, updated_at = NOW() WHERE id = $2`
	if clearPreview {
		query = `UPDATE insights SET status = $1, preview = '', preview_platform = '', updated_at = NOW() WHERE id = $2`
	}
	tag, err := r.getExecutor(ctx).Exec(ctx, query, domain.InsightDraft, id)
	if err != nil {
		return fmt.Errorf("failed to revert insight to draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("insight", id.String())
	}
	return nil
}

func (r *insightRepository) RevertStale(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE insights
		SET status = $1, updated_at = NOW()
		WHERE status = ANY($2) AND updated_at < $3
		RETURNING id
	`
	inFlight := []domain.InsightStatus{domain.InsightFormatting, domain.InsightPublishing}
	rows, err := r.getExecutor(ctx).Query(ctx, query, domain.InsightDraft, inFlight, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to revert stale insights: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan reverted insight id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reverted insight ids: %w", err)
	}
	return ids, nil
}

func (r *insightRepository) LinkSignals(ctx context.Context, insightID uuid.UUID, signalIDs []uuid.UUID) error {
	if len(signalIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO insight_signals (insight_id, signal_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query, insightID, signalIDs)
	if err != nil {
		return fmt.Errorf("failed to link signals: %w", err)
	}
	return nil
}

func (r *insightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM insights WHERE id = $1`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("insight", id.String())
	}
	return nil
}
