package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/excel"
	"github.com/studypilot/studypilot-back/internal/planner"
)

type generateResponse struct {
	Success bool `json:"success"`
	*planner.GenerateResult
}

// GeneratePlan godoc
// @Summary      Generate a study plan
// @Description  Weighs subjects, drafts a schedule through the AI oracle and replaces every session from startDate on
// @Tags         plan
// @Accept       json
// @Produce      json
// @Param        body  body  planner.GenerateRequest  false  "Plan window"
// @Success      200   {object} generateResponse
// @Failure      400   {object} response.ErrorEnvelope
// @Failure      429   {object} response.ErrorEnvelope
// @Failure      502   {object} response.ErrorEnvelope
// @Failure      504   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /plan/generate [post]
func (h *Handler) GeneratePlan(c *gin.Context) {
	var req planner.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	res, err := h.plans.Generate(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		h.fail(c, "generate plan", err)
		return
	}
	c.JSON(http.StatusOK, generateResponse{Success: true, GenerateResult: res})
}

// ListPlan godoc
// @Summary      List planned sessions
// @Description  Returns sessions dated on or after date (default today), ordered by date and start time
// @Tags         plan
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD"
// @Success      200   {object} map[string][]models.StudySession
// @Failure      400   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /plan [get]
func (h *Handler) ListPlan(c *gin.Context) {
	date := c.DefaultQuery("date", h.today())
	if _, err := planner.ParseDate(date); err != nil {
		badRequest(c, err)
		return
	}
	sessions, err := h.store.ListSessionsFrom(c.Request.Context(), auth.UserID(c), date)
	if err != nil {
		h.fail(c, "list plan", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": nonNil(sessions)})
}

// ListMissed godoc
// @Summary      List missed sessions
// @Description  Incomplete sessions dated before today, most recent first
// @Tags         plan
// @Produce      json
// @Success      200   {object} map[string][]models.StudySession
// @Security     BearerAuth
// @Router       /plan/missed [get]
func (h *Handler) ListMissed(c *gin.Context) {
	sessions, err := h.store.ListMissedSessionsRecent(c.Request.Context(), auth.UserID(c), h.today())
	if err != nil {
		h.fail(c, "list missed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": nonNil(sessions)})
}

type completeRequest struct {
	Completed bool `json:"completed"`
}

// CompleteSession godoc
// @Summary      Mark a session complete or incomplete
// @Tags         plan
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "Session ID"
// @Param        body  body  completeRequest  true  "Completion flag"
// @Success      200   {object} map[string]bool
// @Failure      404   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /plan/{id}/complete [patch]
func (h *Handler) CompleteSession(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.store.SetSessionCompleted(c.Request.Context(), auth.UserID(c), id, req.Completed); err != nil {
		h.fail(c, "complete session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type rescheduleRequest struct {
	NewDate      string  `json:"newDate"`
	NewStartTime *string `json:"newStartTime"`
	NewEndTime   *string `json:"newEndTime"`
}

// RescheduleSession godoc
// @Summary      Move one session
// @Description  Moves a session to newDate; omitted times keep their current value. No capacity check.
// @Tags         plan
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Session ID"
// @Param        body  body  rescheduleRequest  true  "Target date and times"
// @Success      200   {object} map[string]bool
// @Failure      400   {object} response.ErrorEnvelope
// @Failure      404   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /plan/{id}/reschedule [patch]
func (h *Handler) RescheduleSession(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.rescheduler.RescheduleOne(c.Request.Context(), auth.UserID(c), id, planner.SingleReschedule{
		NewDate:      req.NewDate,
		NewStartTime: req.NewStartTime,
		NewEndTime:   req.NewEndTime,
	})
	if err != nil {
		h.fail(c, "reschedule session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RescheduleMissed godoc
// @Summary      Reschedule every missed session
// @Description  Spreads missed sessions over today and the following days without exceeding the per-day cap
// @Tags         plan
// @Produce      json
// @Success      200   {object} map[string]interface{}
// @Failure      422   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /plan/reschedule-missed [post]
func (h *Handler) RescheduleMissed(c *gin.Context) {
	n, err := h.rescheduler.RescheduleMissed(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, "reschedule missed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rescheduled": n})
}

// DeleteSession godoc
// @Summary      Delete a session
// @Tags         plan
// @Produce      json
// @Param        id   path  string  true  "Session ID"
// @Success      200  {object} map[string]bool
// @Failure      404  {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /plan/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteSession(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.fail(c, "delete session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PlanSummary godoc
// @Summary      Last plan summary
// @Description  Returns the AI summary of the most recently generated plan while it is cached
// @Tags         plan
// @Produce      json
// @Success      200  {object} planner.DraftSummary
// @Failure      404  {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /plan/summary [get]
func (h *Handler) PlanSummary(c *gin.Context) {
	raw, ok, err := h.summaries.GetSummary(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, "read summary", err)
		return
	}
	if !ok {
		h.fail(c, "read summary", errNoSummary)
		return
	}
	var summary planner.DraftSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		h.fail(c, "decode summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportPlan godoc
// @Summary      Export upcoming sessions
// @Description  Downloads sessions from date (default today) as an xlsx workbook
// @Tags         plan
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        date  query  string  false  "YYYY-MM-DD"
// @Success      200
// @Security     BearerAuth
// @Router       /plan/export [get]
func (h *Handler) ExportPlan(c *gin.Context) {
	date := c.DefaultQuery("date", h.today())
	if _, err := planner.ParseDate(date); err != nil {
		badRequest(c, err)
		return
	}
	sessions, err := h.store.ListSessionsFrom(c.Request.Context(), auth.UserID(c), date)
	if err != nil {
		h.fail(c, "export plan", err)
		return
	}
	buf, err := excel.ExportPlan(sessions)
	if err != nil {
		h.fail(c, "export plan", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="study-plan-%s.xlsx"`, date))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
