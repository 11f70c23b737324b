package handlers

import (
	"net/http"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/services"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the live test-taking session over HTTP. The
// browser relays every engine event here: answers, navigation, review
// toggles, lockdown escapes, and the explicit submit.
type SessionHandler struct {
	BaseHandler
	service services.ExamService
}

func NewSessionHandler(service services.ExamService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// StartSession POST /sessions/start
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.StudentID == "" {
		req.StudentID = studentID(c)
	}

	view, err := h.service.StartSession(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "session started", view)
}

// GetSession GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.service.GetSession(c.Request.Context(), c.Param("id"), studentID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session", view)
}

// SelectOption POST /sessions/:id/select
func (h *SessionHandler) SelectOption(c *gin.Context) {
	var req services.SelectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	view, err := h.service.SelectOption(c.Request.Context(), c.Param("id"), studentID(c), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "option selected", view)
}

// ToggleOption POST /sessions/:id/toggle
func (h *SessionHandler) ToggleOption(c *gin.Context) {
	var req services.ToggleOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	view, err := h.service.ToggleOption(c.Request.Context(), c.Param("id"), studentID(c), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "option toggled", view)
}

// SetBlankText POST /sessions/:id/blank
func (h *SessionHandler) SetBlankText(c *gin.Context) {
	var req services.BlankTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	view, err := h.service.SetBlankText(c.Request.Context(), c.Param("id"), studentID(c), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "answer saved", view)
}

// ToggleReview POST /sessions/:id/review-flag
func (h *SessionHandler) ToggleReview(c *gin.Context) {
	view, err := h.service.ToggleReview(c.Request.Context(), c.Param("id"), studentID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "review toggled", view)
}

// Navigate POST /sessions/:id/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req services.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	view, err := h.service.Navigate(c.Request.Context(), c.Param("id"), studentID(c), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "navigated", view)
}

// Escape POST /sessions/:id/escape
func (h *SessionHandler) Escape(c *gin.Context) {
	var req services.EscapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}

	outcome, err := h.service.Escape(c.Request.Context(), c.Param("id"), studentID(c), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "escape handled", outcome)
}

// ResolveEscape POST /sessions/:id/escape/resolve
func (h *SessionHandler) ResolveEscape(c *gin.Context) {
	var req services.ResolveEscapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	outcome, err := h.service.ResolveEscape(c.Request.Context(), c.Param("id"), studentID(c), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "escape resolved", outcome)
}

// Submit POST /sessions/:id/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	resp, err := h.service.Submit(c.Request.Context(), c.Param("id"), studentID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session submitted", resp)
}

// TimeRemaining GET /sessions/:id/time-remaining
func (h *SessionHandler) TimeRemaining(c *gin.Context) {
	view, err := h.service.TimeRemaining(c.Request.Context(), c.Param("id"), studentID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "time remaining", view)
}
