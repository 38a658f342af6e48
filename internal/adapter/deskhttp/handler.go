package deskhttp

import (
	"context"
	"log/slog"
	"net/http"

	"signal-desk/internal/adapter/engine"
	"signal-desk/internal/domain"
	"signal-desk/internal/infra/logger"
	"signal-desk/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Pinger reports database reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sweeper reverts stale in-flight insights on demand.
type Sweeper interface {
	SweepOnce(ctx context.Context) (int, error)
}

type Handler struct {
	captureUsecase   usecase.CaptureSignalUsecase
	reviewUsecase    usecase.ReviewSignalUsecase
	clusterUsecase   usecase.ClusterSignalsUsecase
	formatUsecase    usecase.FormatInsightUsecase
	publishUsecase   usecase.PublishInsightUsecase
	reconcileUsecase usecase.ReconcileSignalUsecase
	insightUsecase   usecase.ManageInsightUsecase

	signalRepo    domain.SignalRepository
	highlightRepo domain.HighlightRepository
	thoughtRepo   domain.ThoughtRepository
	insightRepo   domain.InsightRepository
	registry      *engine.Registry

	sweeper   Sweeper
	pinger    Pinger
	logger    *slog.Logger
	ctxLogger *logger.ContextLogger
}

func NewHandler(
	captureUsecase usecase.CaptureSignalUsecase,
	reviewUsecase usecase.ReviewSignalUsecase,
	clusterUsecase usecase.ClusterSignalsUsecase,
	formatUsecase usecase.FormatInsightUsecase,
	publishUsecase usecase.PublishInsightUsecase,
	reconcileUsecase usecase.ReconcileSignalUsecase,
	insightUsecase usecase.ManageInsightUsecase,
	signalRepo domain.SignalRepository,
	highlightRepo domain.HighlightRepository,
	thoughtRepo domain.ThoughtRepository,
	insightRepo domain.InsightRepository,
	registry *engine.Registry,
	sweeper Sweeper,
	pinger Pinger,
	log *slog.Logger,
) *Handler {
	return &Handler{
		captureUsecase:   captureUsecase,
		reviewUsecase:    reviewUsecase,
		clusterUsecase:   clusterUsecase,
		formatUsecase:    formatUsecase,
		publishUsecase:   publishUsecase,
		reconcileUsecase: reconcileUsecase,
		insightUsecase:   insightUsecase,
		signalRepo:       signalRepo,
		highlightRepo:    highlightRepo,
		thoughtRepo:      thoughtRepo,
		insightRepo:      insightRepo,
		registry:         registry,
		sweeper:          sweeper,
		pinger:           pinger,
		logger:           log,
		ctxLogger:        logger.NewContextLogger("signal-desk"),
	}
}

// RegisterRoutes mounts the full API surface on the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1")

	v1.POST("/signals/capture", h.CaptureSignal)
	v1.POST("/signals/cluster", h.ClusterSignals)
	v1.GET("/signals", h.ListSignals)
	v1.GET("/signals/:id", h.GetSignal)
	v1.PATCH("/signals/:id", h.UpdateSignal)
	v1.DELETE("/signals/:id", h.DeleteSignal)
	v1.POST("/signals/:id/review", h.ReviewSignal)
	v1.POST("/signals/:id/archive", h.ArchiveSignal)
	v1.POST("/signals/:id/highlights", h.CreateHighlight)
	v1.DELETE("/highlights/:id", h.DeleteHighlight)

	v1.POST("/thoughts", h.CreateThought)
	v1.GET("/thoughts/unlinked", h.ListUnlinkedThoughts)
	v1.DELETE("/thoughts/:id", h.DeleteThought)

	v1.POST("/insights", h.CreateInsight)
	v1.GET("/insights", h.ListInsights)
	v1.GET("/insights/:id", h.GetInsight)
	v1.PATCH("/insights/:id", h.UpdateInsight)
	v1.DELETE("/insights/:id", h.DeleteInsight)
	v1.POST("/insights/:id/format", h.FormatInsight)
	v1.POST("/insights/:id/publish", h.PublishInsight)
	v1.POST("/insights/sweep", h.SweepInsights)

	v1.GET("/webhooks", h.ListWebhooks)
	v1.PUT("/webhooks/:name", h.UpsertWebhook)
	v1.DELETE("/webhooks/:name", h.DeleteWebhook)

	v1.POST("/callbacks/signal", h.ReceiveSignalCallback)
	v1.POST("/callbacks/preview", h.ReceivePreviewCallback)
	v1.POST("/callbacks/publish", h.ReceivePublishCallback)

	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(c echo.Context) error {
	if err := h.pinger.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unreachable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// respondError maps domain errors to HTTP statuses: validation 400, missing
// entity 404, upstream dispatch failure 502, everything else 500.
func (h *Handler) respondError(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case domain.IsDispatch(err):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		h.ctxLogger.WithContext(c.Request().Context()).Error("request_failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
