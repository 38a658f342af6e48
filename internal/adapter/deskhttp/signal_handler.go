package deskhttp

import (
	"net/http"
	"time"

	"signal-desk/internal/domain"
	"signal-desk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type captureSignalRequest struct {
	InputType string   `json:"inputType"`
	Content   string   `json:"content"`
	URL       string   `json:"url"`
	Tags      []string `json:"tags"`
}

func (h *Handler) CaptureSignal(c echo.Context) error {
	var req captureSignalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	out, err := h.captureUsecase.Execute(c.Request().Context(), usecase.CaptureSignalInput{
		InputType: req.InputType,
		Content:   req.Content,
		URL:       req.URL,
		Tags:      req.Tags,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	resp := map[string]any{"pending": out.Pending}
	if out.Signal != nil {
		resp["signal"] = toSignalResponse(out.Signal)
	}
	if out.Pending {
		return c.JSON(http.StatusAccepted, resp)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListSignals(c echo.Context) error {
	filter := domain.SignalFilter{Limit: 50}
	if s := c.QueryParam("status"); s != "" {
		status := domain.SignalStatus(s)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown status " + s})
		}
		filter.Status = &status
	}
	if err := echo.QueryParamsBinder(c).Int("limit", &filter.Limit).Int("offset", &filter.Offset).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid pagination parameters"})
	}

	signals, err := h.signalRepo.List(c.Request().Context(), filter)
	if err != nil {
		return h.respondError(c, err)
	}

	resp := make([]signalResponse, 0, len(signals))
	for i := range signals {
		resp = append(resp, toSignalResponse(&signals[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"signals": resp})
}

func (h *Handler) GetSignal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signal id"})
	}

	signal, err := h.signalRepo.GetWithRelations(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if signal == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "signal not found"})
	}
	return c.JSON(http.StatusOK, toSignalResponse(signal))
}

type updateSignalRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Summary *string   `json:"summary"`
	Tags    *[]string `json:"tags"`
}

func (h *Handler) UpdateSignal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signal id"})
	}

	var req updateSignalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	signal, err := h.signalRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if signal == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "signal not found"})
	}

	if req.Title != nil {
		signal.Title = *req.Title
	}
	if req.Content != nil {
		signal.Content = *req.Content
	}
	if req.Summary != nil {
		signal.Summary = *req.Summary
	}
	if req.Tags != nil {
		signal.Tags = *req.Tags
	}
	signal.UpdatedAt = time.Now()

	if err := h.signalRepo.Update(c.Request().Context(), signal); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSignalResponse(signal))
}

func (h *Handler) DeleteSignal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signal id"})
	}
	if err := h.signalRepo.Delete(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type reviewSignalRequest struct {
	Thought string `json:"thought"`
}

func (h *Handler) ReviewSignal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signal id"})
	}

	var req reviewSignalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	signal, err := h.reviewUsecase.MarkReviewed(c.Request().Context(), usecase.ReviewSignalInput{
		SignalID: id,
		Thought:  req.Thought,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSignalResponse(signal))
}

func (h *Handler) ArchiveSignal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signal id"})
	}

	signal, err := h.reviewUsecase.Archive(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSignalResponse(signal))
}

func (h *Handler) ClusterSignals(c echo.Context) error {
	out, err := h.clusterUsecase.Execute(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"processed": out.Processed})
}

type createHighlightRequest struct {
	Excerpt     string `json:"excerpt"`
	Note        string `json:"note"`
	StartOffset *int   `json:"startOffset"`
	EndOffset   *int   `json:"endOffset"`
}

func (h *Handler) CreateHighlight(c echo.Context) error {
	signalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signal id"})
	}

	var req createHighlightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Excerpt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "excerpt is required"})
	}

	signal, err := h.signalRepo.GetByID(c.Request().Context(), signalID)
	if err != nil {
		return h.respondError(c, err)
	}
	if signal == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "signal not found"})
	}

	highlight := &domain.Highlight{
		ID:          uuid.New(),
		SignalID:    signalID,
		Excerpt:     req.Excerpt,
		Note:        req.Note,
		StartOffset: req.StartOffset,
		EndOffset:   req.EndOffset,
		CreatedAt:   time.Now(),
	}
	if err := h.highlightRepo.Create(c.Request().Context(), highlight); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toHighlightResponse(highlight))
}

func (h *Handler) DeleteHighlight(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid highlight id"})
	}
	if err := h.highlightRepo.Delete(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type createThoughtRequest struct {
	SignalID  string `json:"signalId"`
	InsightID string `json:"insightId"`
	Content   string `json:"content"`
}

func (h *Handler) CreateThought(c echo.Context) error {
	var req createThoughtRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	thought := &domain.Thought{
		ID:        uuid.New(),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if req.SignalID != "" {
		signalID, err := uuid.Parse(req.SignalID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signalId"})
		}
		thought.SignalID = &signalID
	}
	if req.InsightID != "" {
		insightID, err := uuid.Parse(req.InsightID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid insightId"})
		}
		thought.InsightID = &insightID
	}
	if err := thought.Validate(); err != nil {
		return h.respondError(c, err)
	}

	if err := h.thoughtRepo.Create(c.Request().Context(), thought); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toThoughtResponse(thought))
}

// ListUnlinkedThoughts returns thoughts attached to neither a signal nor an
// insight, the raw material for manual insight creation.
func (h *Handler) ListUnlinkedThoughts(c echo.Context) error {
	thoughts, err := h.thoughtRepo.ListUnlinked(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	resp := make([]thoughtResponse, 0, len(thoughts))
	for i := range thoughts {
		resp = append(resp, toThoughtResponse(&thoughts[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"thoughts": resp})
}

func (h *Handler) DeleteThought(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid thought id"})
	}
	if err := h.thoughtRepo.Delete(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
