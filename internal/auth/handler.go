package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-back/internal/response"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// @Summary      Refresh tokens
// @Description  Exchanges a refresh token for a new access/refresh pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body refreshRequest true "Refresh token"
// @Success      200 {object} TokenPair
// @Failure      400 {object} response.ErrorEnvelope
// @Failure      401 {object} response.ErrorEnvelope
// @Router       /auth/refresh [post]
func RefreshHandler(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "missing_refresh_token", err)
			return
		}

		claims, err := tokens.Verify(req.RefreshToken, tokenTypeRefresh)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "invalid_refresh_token", err)
			return
		}

		pair, err := tokens.Issue(claims.Subject, claims.Email)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "token_issue_failed", err)
			return
		}
		response.RespondOK(c, pair)
	}
}
