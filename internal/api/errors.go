package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studypilot/studypilot-back/internal/apierr"
	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/db"
	"github.com/studypilot/studypilot-back/internal/excel"
	"github.com/studypilot/studypilot-back/internal/oracle"
	"github.com/studypilot/studypilot-back/internal/planner"
	"github.com/studypilot/studypilot-back/internal/response"
)

var (
	errInternal     = errors.New("internal server error")
	errInvalidDraft = errors.New("AI returned an invalid study plan, please try again")
	errDraftTimeout = errors.New("AI service timed out, please try again")
	errOracleDown   = errors.New("AI service is unavailable, please try again later")
	errBadID        = errors.New("invalid id")

	errNoSummary = apierr.New(http.StatusNotFound, "no_summary", errors.New("no plan summary available, generate a plan first"))
)

// classify maps domain errors onto the HTTP status and code sent to clients.
func classify(err error) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	var perr *planner.ParseError
	switch {
	case errors.Is(err, planner.ErrNoSubjects):
		return apierr.New(http.StatusBadRequest, "no_subjects", planner.ErrNoSubjects)
	case errors.Is(err, planner.ErrInvalidRequest),
		errors.Is(err, planner.ErrInvalidDate),
		errors.Is(err, planner.ErrInvalidTime),
		errors.Is(err, planner.ErrDateRequired):
		return apierr.New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, excel.ErrNoMarks):
		return apierr.New(http.StatusBadRequest, "no_marks", err)
	case errors.Is(err, oracle.ErrRateLimited):
		return apierr.New(http.StatusTooManyRequests, "rate_limited", oracle.ErrRateLimited)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "oracle_timeout", errDraftTimeout)
	case errors.As(err, &perr):
		return apierr.New(http.StatusBadGateway, "invalid_plan_draft", errInvalidDraft)
	case errors.Is(err, oracle.ErrUnavailable), errors.Is(err, oracle.ErrEmptyReply):
		return apierr.New(http.StatusBadGateway, "oracle_unavailable", errOracleDown)
	case errors.Is(err, planner.ErrHorizonExceeded):
		return apierr.New(http.StatusUnprocessableEntity, "horizon_exceeded", err)
	case errors.Is(err, db.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal_error", errInternal)
	}
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	ae := classify(err)
	if ae.Status >= http.StatusInternalServerError {
		h.log.Error(op+" failed", "user_id", auth.UserID(c), "error", err)
	} else {
		h.log.Debug(op+" rejected", "user_id", auth.UserID(c), "error", err)
	}
	response.RespondError(c, ae.Status, ae.Code, ae.Err)
}

func badRequest(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, errBadID)
		return uuid.Nil, false
	}
	return id, true
}
