package handlers

import (
	"net/http"
	"strconv"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/services"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// ReviewHandler serves graded results: the read-only review projection
// and its spreadsheet export.
type ReviewHandler struct {
	BaseHandler
	exam   services.ExamService
	export services.ExportService
}

func NewReviewHandler(exam services.ExamService, export services.ExportService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler: NewBaseHandler(logger),
		exam:        exam,
		export:      export,
	}
}

// GetReview GET /reviews/:result_id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	resultID, err := parseResultID(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid result id", err)
		return
	}

	view, err := h.exam.GetReview(c.Request.Context(), resultID, studentID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "review", view)
}

// ExportReview GET /reviews/:result_id/export
func (h *ReviewHandler) ExportReview(c *gin.Context) {
	resultID, err := parseResultID(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid result id", err)
		return
	}

	buf, filename, err := h.export.ExportReview(c.Request.Context(), resultID, studentID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

func parseResultID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("result_id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
