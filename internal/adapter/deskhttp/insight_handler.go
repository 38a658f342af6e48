package deskhttp

import (
	"net/http"
	"time"

	"signal-desk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createInsightRequest struct {
	CoreInsight string   `json:"coreInsight"`
	SignalIDs   []string `json:"signalIds"`
	ThoughtIDs  []string `json:"thoughtIds"`
}

func (h *Handler) CreateInsight(c echo.Context) error {
	var req createInsightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	signalIDs, err := parseUUIDs(req.SignalIDs)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signalIds"})
	}
	thoughtIDs, err := parseUUIDs(req.ThoughtIDs)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid thoughtIds"})
	}

	insight, err := h.insightUsecase.Create(c.Request().Context(), usecase.CreateInsightInput{
		CoreInsight: req.CoreInsight,
		SignalIDs:   signalIDs,
		ThoughtIDs:  thoughtIDs,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toInsightResponse(insight))
}

func (h *Handler) ListInsights(c echo.Context) error {
	limit := 50
	offset := 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).Int("offset", &offset).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid pagination parameters"})
	}

	insights, err := h.insightRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return h.respondError(c, err)
	}

	resp := make([]insightResponse, 0, len(insights))
	for i := range insights {
		resp = append(resp, toInsightResponse(&insights[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"insights": resp})
}

func (h *Handler) GetInsight(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insight id"})
	}

	insight, err := h.insightRepo.GetWithRelations(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if insight == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "insight not found"})
	}
	return c.JSON(http.StatusOK, toInsightResponse(insight))
}

type updateInsightRequest struct {
	CoreInsight *string `json:"coreInsight"`
	Preview     *string `json:"preview"`
}

func (h *Handler) UpdateInsight(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insight id"})
	}

	var req updateInsightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	insight, err := h.insightRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if insight == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "insight not found"})
	}

	if req.CoreInsight != nil {
		insight.CoreInsight = *req.CoreInsight
	}
	if req.Preview != nil {
		insight.Preview = *req.Preview
	}
	insight.UpdatedAt = time.Now()

	if err := h.insightRepo.Update(c.Request().Context(), insight); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toInsightResponse(insight))
}

func (h *Handler) DeleteInsight(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insight id"})
	}
	if err := h.insightUsecase.Delete(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type formatInsightRequest struct {
	Platform string `json:"platform"`
	Tone     string `json:"tone"`
}

func (h *Handler) FormatInsight(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insight id"})
	}

	var req formatInsightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Platform == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "platform is required"})
	}

	if err := h.formatUsecase.Execute(c.Request().Context(), usecase.FormatInsightInput{
		InsightID: id,
		Platform:  req.Platform,
		Tone:      req.Tone,
	}); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "formatting"})
}

func (h *Handler) PublishInsight(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insight id"})
	}

	out, err := h.publishUsecase.Execute(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	resp := map[string]string{"status": string(out.Status)}
	if out.PublishedURL != "" {
		resp["publishedUrl"] = out.PublishedURL
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) SweepInsights(c echo.Context) error {
	reverted, err := h.sweeper.SweepOnce(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"reverted": reverted})
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
