package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/excel"
	"github.com/studypilot/studypilot-back/internal/models"
)

const maxMarksheetBytes = 5 << 20

type MarkInput struct {
	Subject  string  `json:"subject" binding:"required"`
	Marks    float64 `json:"marks" binding:"gte=0,ltefield=MaxMarks"`
	MaxMarks float64 `json:"maxMarks" binding:"gt=0"`
}

type PreferencesInput struct {
	LearningStyle string `json:"learning_style"`
	StudyTime     string `json:"study_time" binding:"omitempty,oneof=morning midday afternoon evening"`
	SessionLength string `json:"session_length" binding:"omitempty,oneof=short medium long extended"`
	Environment   string `json:"environment"`
	Motivation    string `json:"motivation"`
}

type OnboardingRequest struct {
	Marks       []MarkInput      `json:"marks" binding:"required,min=1,dive"`
	Preferences PreferencesInput `json:"preferences"`
}

func toMarks(in []MarkInput) ([]models.SubjectMark, error) {
	out := make([]models.SubjectMark, 0, len(in))
	seen := map[string]bool{}
	for _, m := range in {
		subject := strings.TrimSpace(m.Subject)
		key := strings.ToLower(subject)
		if subject == "" || seen[key] {
			return nil, errors.New("subjects must be non-empty and unique")
		}
		seen[key] = true
		out = append(out, models.SubjectMark{Subject: subject, Marks: m.Marks, MaxMarks: m.MaxMarks})
	}
	return out, nil
}

// CompleteOnboarding godoc
// @Summary      Complete onboarding
// @Description  Saves the learning-style answers and replaces every subject mark
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  OnboardingRequest  true  "Marks and preferences"
// @Success      200   {object} map[string]bool
// @Failure      400   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /onboarding/complete [post]
func (h *Handler) CompleteOnboarding(c *gin.Context) {
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	marks, err := toMarks(req.Marks)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)
	p := req.Preferences
	profile := models.UserProfile{
		UserID:        userID,
		LearningStyle: p.LearningStyle,
		StudyTime:     p.StudyTime,
		SessionLength: p.SessionLength,
		Environment:   p.Environment,
		Motivation:    p.Motivation,
	}
	if err := h.store.UpsertProfile(ctx, profile); err != nil {
		h.fail(c, "save profile", err)
		return
	}
	if err := h.store.ReplaceMarks(ctx, userID, marks); err != nil {
		h.fail(c, "save marks", err)
		return
	}
	h.log.Info("onboarding completed", "user_id", userID, "subjects", len(marks))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type profileResponse struct {
	Profile *models.UserProfile  `json:"profile"`
	Marks   []models.SubjectMark `json:"marks"`
}

// GetProfile godoc
// @Summary      Get profile and marks
// @Tags         user
// @Produce      json
// @Success      200  {object} profileResponse
// @Security     BearerAuth
// @Router       /user/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	profile, err := h.store.GetProfile(ctx, userID)
	if err != nil {
		h.fail(c, "get profile", err)
		return
	}
	marks, err := h.store.ListMarks(ctx, userID)
	if err != nil {
		h.fail(c, "list marks", err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: profile, Marks: nonNil(marks)})
}

// ImportMarks godoc
// @Summary      Import marks from a spreadsheet
// @Description  Replaces every subject mark with the rows of an uploaded xlsx marksheet (subject, marks, max marks)
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "xlsx marksheet"
// @Success      200   {object} map[string]interface{}
// @Failure      400   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /marks/import [post]
func (h *Handler) ImportMarks(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, errors.New("marksheet file is required"))
		return
	}
	if fh.Size > maxMarksheetBytes {
		badRequest(c, errors.New("marksheet is too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, "open upload", err)
		return
	}
	defer f.Close()

	marks, err := excel.ParseMarksheet(f, h.log)
	if err != nil {
		if errors.Is(err, excel.ErrNoMarks) {
			h.fail(c, "parse marksheet", err)
			return
		}
		badRequest(c, err)
		return
	}

	userID := auth.UserID(c)
	if err := h.store.ReplaceMarks(c.Request.Context(), userID, marks); err != nil {
		h.fail(c, "save marks", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "marks": marks})
}
