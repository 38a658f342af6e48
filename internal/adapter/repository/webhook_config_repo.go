package repository

import (
	"context"
	"errors"
	"fmt"

	"signal-desk/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type webhookConfigRepository struct {
	pool *pgxpool.Pool
}

// NewWebhookConfigRepository creates a new WebhookConfigRepository.
func NewWebhookConfigRepository(pool *pgxpool.Pool) domain.WebhookConfigRepository {
	return &webhookConfigRepository{pool: pool}
}

func (r *webhookConfigRepository) getExecutor(ctx context.Context) executor {
	if tx := ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *webhookConfigRepository) Upsert(ctx context.Context, config *domain.WebhookConfig) error {
	// Last writer wins; name is the unique key.
	query := `
		INSERT INTO webhook_configs (name, url, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET url = EXCLUDED.url, updated_at = NOW()
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query, config.Name, config.URL)
	if err != nil {
		return fmt.Errorf("failed to upsert webhook config: %w", err)
	}
	return nil
}

func (r *webhookConfigRepository) GetByName(ctx context.Context, name domain.JobName) (*domain.WebhookConfig, error) {
	query := `SELECT name, url, created_at, updated_at FROM webhook_configs WHERE name = $1`
	var c domain.WebhookConfig
	err := r.getExecutor(ctx).QueryRow(ctx, query, name).Scan(&c.Name, &c.URL, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan webhook config: %w", err)
	}
	return &c, nil
}

func (r *webhookConfigRepository) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	query := `SELECT name, url, created_at, updated_at FROM webhook_configs ORDER BY name ASC`
	rows, err := r.getExecutor(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query webhook configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.WebhookConfig
	for rows.Next() {
		var c domain.WebhookConfig
		if err := rows.Scan(&c.Name, &c.URL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan webhook config: %w", err)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read webhook configs: %w", err)
	}
	return configs, nil
}

func (r *webhookConfigRepository) Delete(ctx context.Context, name domain.JobName) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, `DELETE FROM webhook_configs WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete webhook config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("webhook config", string(name))
	}
	return nil
}
