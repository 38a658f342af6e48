package deskhttp

import (
	"net/http"
	"time"

	"signal-desk/internal/domain"

	"github.com/labstack/echo/v4"
)

type webhookResponse struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *Handler) ListWebhooks(c echo.Context) error {
	configs, err := h.registry.List(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}

	resp := make([]webhookResponse, 0, len(configs))
	for _, cfg := range configs {
		resp = append(resp, webhookResponse{
			Name:      string(cfg.Name),
			URL:       cfg.URL,
			UpdatedAt: cfg.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"webhooks": resp})
}

type upsertWebhookRequest struct {
	URL string `json:"url"`
}

func (h *Handler) UpsertWebhook(c echo.Context) error {
	var req upsertWebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	config := &domain.WebhookConfig{
		Name:      domain.JobName(c.Param("name")),
		URL:       req.URL,
		UpdatedAt: time.Now(),
	}
	if err := h.registry.Upsert(c.Request().Context(), config); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, webhookResponse{
		Name:      string(config.Name),
		URL:       config.URL,
		UpdatedAt: config.UpdatedAt,
	})
}

func (h *Handler) DeleteWebhook(c echo.Context) error {
	name := domain.JobName(c.Param("name"))
	if !name.Known() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown job name " + string(name)})
	}
	if err := h.registry.Remove(c.Request().Context(), name); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
