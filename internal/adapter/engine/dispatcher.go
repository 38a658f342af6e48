package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"signal-desk/internal/domain"
	"signal-desk/internal/infra/logger"

	"golang.org/x/time/rate"
)

// maxDiagnosticBody caps how much of an error response body is kept for
// diagnostics.
const maxDiagnosticBody = 4 << 10

// WebhookDispatcher performs one fire-and-collect HTTP POST per named job
// against the automation engine. Every failure mode is reported in the
// DispatchResult; nothing here mutates store state.
type WebhookDispatcher struct {
	registry *Registry
	client   *http.Client
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   *slog.Logger
}

// NewWebhookDispatcher constructs a dispatcher. If client is nil, a default
// http.Client bounded by timeout is created.
func NewWebhookDispatcher(registry *Registry, timeout time.Duration, ratePerSec float64, burst int, logger *slog.Logger, client ...*http.Client) *WebhookDispatcher {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &WebhookDispatcher{
		registry: registry,
		client:   c,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), burst),
		timeout:  timeout,
		logger:   logger,
	}
}

// Dispatch posts the JSON payload to the job's registered URL and normalizes
// the reply. A 2xx response with an empty or unparseable body is success with
// no data: the engine may process asynchronously and call back later.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, job domain.JobName, payload any) (*domain.DispatchResult, error) {
	ctx = logger.WithJobName(ctx, string(job))
	url, err := d.registry.Resolve(ctx, job)
	if err != nil {
		return nil, err
	}
	if url == "" {
		d.logger.Warn("webhook_not_configured", slog.String("job", string(job)))
		return &domain.DispatchResult{
			Success:      false,
			ErrorKind:    domain.DispatchNotConfigured,
			ErrorMessage: fmt.Sprintf("webhook %q is not configured", job),
		}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %q payload: %w", job, err)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return failure(domain.DispatchNetworkError, err.Error()), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %q request: %w", job, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		kind := domain.DispatchNetworkError
		if isTimeout(err) {
			kind = domain.DispatchTimeout
		}
		d.logger.Warn("dispatch_failed",
			slog.String("job", string(job)),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return failure(kind, err.Error()), nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBody))
		d.logger.Warn("dispatch_failed",
			slog.String("job", string(job)),
			slog.Int("status_code", resp.StatusCode),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return failure(domain.DispatchHTTPError,
			fmt.Sprintf("webhook %q returned %d: %s", job, resp.StatusCode, detail)), nil
	}

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(domain.DispatchNetworkError, err.Error()), nil
	}

	d.logger.Info("dispatch_completed",
		slog.String("job", string(job)),
		slog.Int("status_code", resp.StatusCode),
		slog.Int("reply_bytes", len(reply)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))

	if len(bytes.TrimSpace(reply)) == 0 {
		return &domain.DispatchResult{Success: true}, nil
	}

	data, err := domain.NormalizePayload(reply)
	if err != nil {
		// An unparseable 2xx body never fails the call. The engine answered;
		// only the acknowledgement payload is unusable.
		d.logger.Warn("dispatch_reply_unparseable",
			slog.String("job", string(job)),
			slog.String("error", err.Error()))
		return &domain.DispatchResult{Success: true}, nil
	}
	return &domain.DispatchResult{Success: true, Data: &data}, nil
}

func failure(kind domain.DispatchErrorKind, message string) *domain.DispatchResult {
	return &domain.DispatchResult{Success: false, ErrorKind: kind, ErrorMessage: message}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
