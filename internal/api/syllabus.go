package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/models"
)

var errTopicRequired = errors.New("subject and topic are required")

type topicInput struct {
	Subject  string  `json:"subject" binding:"required"`
	Chapter  *string `json:"chapter"`
	Topic    string  `json:"topic" binding:"required"`
	Priority string  `json:"priority" binding:"omitempty,oneof=high medium low"`
}

type syllabusRequest struct {
	Topics []topicInput `json:"topics" binding:"dive"`
}

func (in topicInput) toModel(userID string) (models.SyllabusTopic, error) {
	t := models.SyllabusTopic{
		UserID:   userID,
		Subject:  strings.TrimSpace(in.Subject),
		Chapter:  blankToNil(in.Chapter),
		Topic:    strings.TrimSpace(in.Topic),
		Priority: in.Priority,
	}
	if t.Subject == "" || t.Topic == "" {
		return t, errTopicRequired
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	return t, nil
}

// SaveSyllabus godoc
// @Summary      Replace the syllabus
// @Description  Drops every stored topic and saves the given list; priority defaults to medium
// @Tags         syllabus
// @Accept       json
// @Produce      json
// @Param        body  body  syllabusRequest  true  "Topics"
// @Success      200   {object} map[string]interface{}
// @Failure      400   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /syllabus/save [post]
func (h *Handler) SaveSyllabus(c *gin.Context) {
	var req syllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID := auth.UserID(c)
	topics := make([]models.SyllabusTopic, 0, len(req.Topics))
	for _, in := range req.Topics {
		t, err := in.toModel(userID)
		if err != nil {
			badRequest(c, err)
			return
		}
		topics = append(topics, t)
	}
	if err := h.store.ReplaceSyllabus(c.Request.Context(), userID, topics); err != nil {
		h.fail(c, "save syllabus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(topics)})
}

// ListSyllabus godoc
// @Summary      List syllabus topics
// @Tags         syllabus
// @Produce      json
// @Success      200  {object} map[string][]models.SyllabusTopic
// @Security     BearerAuth
// @Router       /syllabus [get]
func (h *Handler) ListSyllabus(c *gin.Context) {
	topics, err := h.store.ListSyllabus(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, "list syllabus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": nonNil(topics)})
}

// AddSyllabusTopic godoc
// @Summary      Add one syllabus topic
// @Tags         syllabus
// @Accept       json
// @Produce      json
// @Param        body  body  topicInput  true  "Topic"
// @Success      200   {object} map[string]interface{}
// @Failure      400   {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /syllabus/add [post]
func (h *Handler) AddSyllabusTopic(c *gin.Context) {
	var in topicInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, errTopicRequired)
		return
	}
	t, err := in.toModel(auth.UserID(c))
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.store.AddSyllabusTopic(c.Request.Context(), &t); err != nil {
		h.fail(c, "add syllabus topic", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "topic": t})
}

// ToggleSyllabusTopic godoc
// @Summary      Flip a topic's completion flag
// @Tags         syllabus
// @Produce      json
// @Param        id   path  string  true  "Topic ID"
// @Success      200  {object} map[string]interface{}
// @Failure      404  {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /syllabus/{id}/toggle [patch]
func (h *Handler) ToggleSyllabusTopic(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	t, err := h.store.ToggleSyllabusTopic(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		h.fail(c, "toggle syllabus topic", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "topic": t})
}

// DeleteSyllabusTopic godoc
// @Summary      Delete a syllabus topic
// @Tags         syllabus
// @Produce      json
// @Param        id   path  string  true  "Topic ID"
// @Success      200  {object} map[string]bool
// @Failure      404  {object} response.ErrorEnvelope
// @Security     BearerAuth
// @Router       /syllabus/{id} [delete]
func (h *Handler) DeleteSyllabusTopic(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteSyllabusTopic(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.fail(c, "delete syllabus topic", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
