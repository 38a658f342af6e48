package deskhttp

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReceiveSignalCallback accepts the engine's asynchronous ingest/generate
// result in any of its known response shapes and reconciles it into the
// signal store.
func (h *Handler) ReceiveSignalCallback(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable request body"})
	}

	out, err := h.reconcileUsecase.Execute(c.Request().Context(), raw)
	if err != nil {
		return h.respondError(c, err)
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, map[string]any{
		"success":  true,
		"signalId": out.Signal.ID.String(),
	})
}

type previewCallbackRequest struct {
	InsightID string `json:"insightId"`
	Preview   string `json:"preview"`
	Platform  string `json:"platform"`
}

// ReceivePreviewCallback stores the formatted preview delivered by the
// format job and moves the insight to previewing.
func (h *Handler) ReceivePreviewCallback(c echo.Context) error {
	var req previewCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.InsightID == "" || req.Preview == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "insightId and preview are required"})
	}

	id, err := uuid.Parse(req.InsightID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insightId"})
	}

	insight, err := h.insightRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if insight == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "insight not found"})
	}

	if err := h.insightRepo.SetPreview(c.Request().Context(), id, req.Preview, req.Platform); err != nil {
		return h.respondError(c, err)
	}

	h.logger.Info("preview_received",
		slog.String("insight_id", id.String()),
		slog.String("platform", req.Platform))
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"insightId": id.String(),
		"status":    "previewing",
	})
}

type publishCallbackRequest struct {
	InsightID string `json:"insightId"`
	Status    string `json:"status"`
	PostURL   string `json:"postUrl"`
	Error     string `json:"error"`
}

// ReceivePublishCallback finalizes a publish: success records the post URL,
// anything else reverts the insight to draft and discards the preview that
// failed to publish.
func (h *Handler) ReceivePublishCallback(c echo.Context) error {
	var req publishCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.InsightID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "insightId is required"})
	}

	id, err := uuid.Parse(req.InsightID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insightId"})
	}

	insight, err := h.insightRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if insight == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "insight not found"})
	}

	if req.Status == "success" {
		if req.PostURL == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "postUrl is required on success"})
		}
		publishedAt := time.Now()
		if err := h.insightRepo.MarkPublished(c.Request().Context(), id, req.PostURL, publishedAt); err != nil {
			return h.respondError(c, err)
		}
		h.logger.Info("publish_confirmed",
			slog.String("insight_id", id.String()),
			slog.String("published_url", req.PostURL))
		return c.JSON(http.StatusOK, map[string]any{
			"success":      true,
			"insightId":    id.String(),
			"status":       "published",
			"publishedUrl": req.PostURL,
		})
	}

	if err := h.insightRepo.RevertToDraft(c.Request().Context(), id, true); err != nil {
		return h.respondError(c, err)
	}
	h.logger.Warn("publish_failed",
		slog.String("insight_id", id.String()),
		slog.String("engine_error", req.Error))
	return c.JSON(http.StatusOK, map[string]any{
		"success":   false,
		"insightId": id.String(),
		"status":    "draft",
	})
}
