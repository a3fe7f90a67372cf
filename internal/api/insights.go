package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-back/internal/analytics"
	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/models"
)

// Analytics godoc
// @Summary      Study analytics
// @Description  Completion overview, streak, per-subject performance and the last 14 planned days
// @Tags         analytics
// @Produce      json
// @Success      200  {object} analytics.Report
// @Security     BearerAuth
// @Router       /analytics [get]
func (h *Handler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	sessions, err := h.store.ListAllSessions(ctx, userID)
	if err != nil {
		h.fail(c, "list sessions", err)
		return
	}
	marks, err := h.store.ListMarks(ctx, userID)
	if err != nil {
		h.fail(c, "list marks", err)
		return
	}
	c.JSON(http.StatusOK, analytics.Build(sessions, marks, h.now()))
}

// DataSummary godoc
// @Summary      Stored data summary
// @Tags         privacy
// @Produce      json
// @Success      200  {object} db.DataSummary
// @Security     BearerAuth
// @Router       /privacy/data-summary [get]
func (h *Handler) DataSummary(c *gin.Context) {
	summary, err := h.store.DataSummary(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, "data summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type exportUser struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

type exportBundle struct {
	ExportedAt  time.Time                  `json:"exportedAt"`
	User        exportUser                 `json:"user"`
	Profile     *models.UserProfile        `json:"profile"`
	Subjects    []models.SubjectMark       `json:"subjects"`
	Exams       []models.ExamScheduleEntry `json:"examSchedule"`
	StudyPlans  []models.StudySession      `json:"studyPlans"`
	ExamResults []models.ExamResult        `json:"examResults"`
	Syllabus    []models.SyllabusTopic     `json:"syllabusTopics"`
}

// ExportData godoc
// @Summary      Export all stored data
// @Tags         privacy
// @Produce      json
// @Success      200  {object} exportBundle
// @Security     BearerAuth
// @Router       /privacy/export-data [get]
func (h *Handler) ExportData(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	out := exportBundle{ExportedAt: h.now().UTC()}

	if email := c.GetString(auth.ContextEmail); email != "" {
		out.User.Email = &email
		if u, err := h.store.GetUserByEmail(ctx, email); err == nil && u.Name != "" {
			name := u.Name
			out.User.Name = &name
		}
	}

	var err error
	if out.Profile, err = h.store.GetProfile(ctx, userID); err != nil {
		h.fail(c, "export profile", err)
		return
	}
	if out.Subjects, err = h.store.ListMarks(ctx, userID); err != nil {
		h.fail(c, "export marks", err)
		return
	}
	if out.Exams, err = h.store.ListExams(ctx, userID); err != nil {
		h.fail(c, "export exams", err)
		return
	}
	if out.StudyPlans, err = h.store.ListAllSessions(ctx, userID); err != nil {
		h.fail(c, "export sessions", err)
		return
	}
	if out.ExamResults, err = h.store.ListExamResults(ctx, userID, true); err != nil {
		h.fail(c, "export results", err)
		return
	}
	if out.Syllabus, err = h.store.ListSyllabus(ctx, userID); err != nil {
		h.fail(c, "export syllabus", err)
		return
	}
	out.Subjects = nonNil(out.Subjects)
	out.Exams = nonNil(out.Exams)
	out.StudyPlans = nonNil(out.StudyPlans)
	out.ExamResults = nonNil(out.ExamResults)
	out.Syllabus = nonNil(out.Syllabus)
	c.JSON(http.StatusOK, out)
}

// DeleteData godoc
// @Summary      Delete all stored data
// @Description  Removes profile, marks, exams, sessions, results and syllabus topics in one transaction
// @Tags         privacy
// @Produce      json
// @Success      200  {object} map[string]bool
// @Security     BearerAuth
// @Router       /privacy/delete-data [delete]
func (h *Handler) DeleteData(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	if err := h.store.DeleteUserData(ctx, userID); err != nil {
		h.fail(c, "delete data", err)
		return
	}
	if err := h.summaries.Invalidate(ctx, userID); err != nil {
		h.log.Warn("summary cache invalidate failed", "user_id", userID, "error", err)
	}
	h.log.Info("user data deleted", "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
