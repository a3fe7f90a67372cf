package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-back/internal/analytics"
	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/db"
	"github.com/studypilot/studypilot-back/internal/models"
	"github.com/studypilot/studypilot-back/internal/planner"
)

type examRequest struct {
	Subject  string  `json:"subject" binding:"required"`
	ExamDate string  `json:"examDate" binding:"required"`
	ExamName *string `json:"examName"`
	Notes    *string `json:"notes"`
}

type examPatch struct {
	Subject  *string `json:"subject"`
	ExamDate *string `json:"examDate"`
	ExamName *string `json:"examName"`
	Notes    *string `json:"notes"`
}

// blankToNil drops empty strings so a partial update never clears a column.
func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// ListExams godoc
// @Summary      List scheduled exams
// @Tags         exams
// @Produce      json
// @Success      200  {object} map[string][]models.ExamScheduleEntry
// @Security     BearerAuth
// @Router       /exam-schedule [get]
func (h *Handler) ListExams(c *gin.Context) {
	exams, err := h.store.ListExams(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, "list exams", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exams": nonNil(exams)})
}

// CreateExam godoc
// @Summary      Add an exam
// @Tags         exams
// @Accept       json
// @Produce      json
// @Param        body  body  examRequest  true  "Exam"
// @Success      200   {object} map[string]interface{}
// @Failure      400   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /exam-schedule [post]
func (h *Handler) CreateExam(c *gin.Context) {
	var req examRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errors.New("subject and exam date are required"))
		return
	}
	if _, err := planner.ParseDate(req.ExamDate); err != nil {
		badRequest(c, err)
		return
	}
	exam := models.ExamScheduleEntry{
		UserID:   auth.UserID(c),
		Subject:  strings.TrimSpace(req.Subject),
		ExamDate: req.ExamDate,
		ExamName: blankToNil(req.ExamName),
		Notes:    blankToNil(req.Notes),
	}
	if err := h.store.CreateExam(c.Request.Context(), &exam); err != nil {
		h.fail(c, "create exam", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "exam": exam})
}

// UpdateExam godoc
// @Summary      Update an exam
// @Description  Partial update; omitted or empty fields keep their stored value
// @Tags         exams
// @Accept       json
// @Produce      json
// @Param        id    path  string     true  "Exam ID"
// @Param        body  body  examPatch  true  "Fields to change"
// @Success      200   {object} map[string]bool
// @Failure      404   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /exam-schedule/{id} [patch]
func (h *Handler) UpdateExam(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req examPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	upd := db.ExamUpdate{
		Subject:  blankToNil(req.Subject),
		ExamDate: blankToNil(req.ExamDate),
		ExamName: blankToNil(req.ExamName),
		Notes:    blankToNil(req.Notes),
	}
	if upd.ExamDate != nil {
		if _, err := planner.ParseDate(*upd.ExamDate); err != nil {
			badRequest(c, err)
			return
		}
	}
	if err := h.store.UpdateExam(c.Request.Context(), auth.UserID(c), id, upd); err != nil {
		h.fail(c, "update exam", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteExam godoc
// @Summary      Delete an exam
// @Tags         exams
// @Produce      json
// @Param        id   path  string  true  "Exam ID"
// @Success      200  {object} map[string]bool
// @Failure      404  {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /exam-schedule/{id} [delete]
func (h *Handler) DeleteExam(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteExam(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.fail(c, "delete exam", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type examResultsRequest struct {
	ExamName string      `json:"examName" binding:"required"`
	ExamDate string      `json:"examDate" binding:"required"`
	Notes    string      `json:"notes"`
	Results  []MarkInput `json:"results" binding:"required,min=1,dive"`
}

// LogExamResults godoc
// @Summary      Log exam results
// @Description  Stores one result per subject and makes each the subject's current mark
// @Tags         exams
// @Accept       json
// @Produce      json
// @Param        body  body  examResultsRequest  true  "Results"
// @Success      200   {object} map[string]bool
// @Failure      400   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /exam-results [post]
func (h *Handler) LogExamResults(c *gin.Context) {
	var req examResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errors.New("exam name, date, and results are required"))
		return
	}
	if _, err := planner.ParseDate(req.ExamDate); err != nil {
		badRequest(c, err)
		return
	}
	results := make([]models.ExamResult, 0, len(req.Results))
	for _, r := range req.Results {
		results = append(results, models.ExamResult{
			ExamName: strings.TrimSpace(req.ExamName),
			ExamDate: req.ExamDate,
			Subject:  strings.TrimSpace(r.Subject),
			Marks:    r.Marks,
			MaxMarks: r.MaxMarks,
			Notes:    strings.TrimSpace(req.Notes),
		})
	}
	if err := h.store.LogExamResults(c.Request.Context(), auth.UserID(c), results); err != nil {
		h.fail(c, "log exam results", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListExamResults godoc
// @Summary      Exam result history
// @Description  Newest exam first
// @Tags         exams
// @Produce      json
// @Success      200  {object} map[string][]models.ExamResult
// @Security     BearerAuth
// @Router       /exam-results [get]
func (h *Handler) ListExamResults(c *gin.Context) {
	results, err := h.store.ListExamResults(c.Request.Context(), auth.UserID(c), false)
	if err != nil {
		h.fail(c, "list exam results", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": nonNil(results)})
}

// DeleteExamResult godoc
// @Summary      Delete an exam result
// @Tags         exams
// @Produce      json
// @Param        id   path  string  true  "Result ID"
// @Success      200  {object} map[string]bool
// @Failure      404  {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /exam-results/{id} [delete]
func (h *Handler) DeleteExamResult(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteExamResult(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.fail(c, "delete exam result", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PerformanceTrends godoc
// @Summary      Per-subject score history
// @Tags         exams
// @Produce      json
// @Success      200  {object} map[string][]analytics.SubjectTrend
// @Security     BearerAuth
// @Router       /performance/trends [get]
func (h *Handler) PerformanceTrends(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	marks, err := h.store.ListMarks(ctx, userID)
	if err != nil {
		h.fail(c, "list marks", err)
		return
	}
	results, err := h.store.ListExamResults(ctx, userID, true)
	if err != nil {
		h.fail(c, "list exam results", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": analytics.Trends(marks, results)})
}
