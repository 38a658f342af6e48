package engine

import (
	"context"
	"fmt"
	"time"

	"signal-desk/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry fronts the webhook config store with a short-lived cache so the
// dispatcher does not hit the database on every outbound call. Writes go
// through the registry and invalidate the cached entry immediately;
// last-writer-wins semantics otherwise.
type Registry struct {
	repo  domain.WebhookConfigRepository
	cache *expirable.LRU[domain.JobName, string]
}

// NewRegistry creates a Registry with the given resolve-cache TTL.
func NewRegistry(repo domain.WebhookConfigRepository, cacheTTL time.Duration) *Registry {
	return &Registry{
		repo:  repo,
		cache: expirable.NewLRU[domain.JobName, string](len(domain.KnownJobs), nil, cacheTTL),
	}
}

// Resolve returns the target URL for the job, or "" when not configured.
func (r *Registry) Resolve(ctx context.Context, name domain.JobName) (string, error) {
	if url, ok := r.cache.Get(name); ok {
		return url, nil
	}
	config, err := r.repo.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve webhook %q: %w", name, err)
	}
	if config == nil {
		return "", nil
	}
	r.cache.Add(name, config.URL)
	return config.URL, nil
}

// Upsert validates and persists a config, then drops the cached entry.
func (r *Registry) Upsert(ctx context.Context, config *domain.WebhookConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := r.repo.Upsert(ctx, config); err != nil {
		return err
	}
	r.cache.Remove(config.Name)
	return nil
}

// Remove deletes a config and drops the cached entry.
func (r *Registry) Remove(ctx context.Context, name domain.JobName) error {
	if err := r.repo.Delete(ctx, name); err != nil {
		return err
	}
	r.cache.Remove(name)
	return nil
}

// List returns all configs ordered by name.
func (r *Registry) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	return r.repo.List(ctx)
}
