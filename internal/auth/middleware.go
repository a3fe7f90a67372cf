package auth

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-back/internal/response"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"

	GuestPrefix = "guest_"
	guestHeader = "X-Guest-Id"
)

var guestIDPattern = regexp.MustCompile(`^guest_[A-Za-z0-9_-]{1,64}$`)

// AuthMiddleware accepts a bearer access token or, when no Authorization header
// is present, a guest id from the guest_id query parameter or X-Guest-Id header.
// The resolved user id is stored under ContextUserID.
func AuthMiddleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			guestID := c.Query("guest_id")
			if guestID == "" {
				guestID = c.GetHeader(guestHeader)
			}
			if guestID == "" {
				response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing Authorization header"))
				return
			}
			if !IsGuestID(guestID) {
				response.AbortError(c, http.StatusUnauthorized, "invalid_guest_id", errors.New("invalid guest id"))
				return
			}
			c.Set(ContextUserID, guestID)
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid Authorization header"))
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]), tokenTypeAccess)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid_token", err)
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func IsGuestID(id string) bool {
	return guestIDPattern.MatchString(id)
}

// UserID returns the id set by AuthMiddleware, or "" outside protected routes.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
