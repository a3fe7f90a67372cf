package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/studypilot/studypilot-back/internal/config"
	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
	"github.com/studypilot/studypilot-back/internal/response"
)

const (
	stateCookie        = "oauth_state"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type UserStore interface {
	SaveOrUpdateUser(ctx context.Context, u models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Google runs the OAuth authorization-code flow and exchanges a Google
// identity for StudyPilot tokens.
type Google struct {
	oauth       *oauth2.Config
	users       UserStore
	tokens      *Tokens
	log         *logger.Logger
	userInfoURL string
}

func NewGoogle(cfg *config.Config, users UserStore, tokens *Tokens, baseLog *logger.Logger) *Google {
	return &Google{
		oauth: &oauth2.Config{
			RedirectURL:  cfg.GoogleRedirectURL,
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleSecret,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		users:       users,
		tokens:      tokens,
		log:         baseLog.With("component", "GoogleAuth"),
		userInfoURL: defaultUserInfoURL,
	}
}

// @Summary      Login with Google
// @Description  Redirects to the Google consent screen
// @Tags         auth
// @Success      307
// @Router       /auth/google/login [get]
func (g *Google) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(stateCookie, state, 600, "/auth/google", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, g.oauth.AuthCodeURL(state))
	}
}

type loginResponse struct {
	TokenPair
	Email string `json:"email"`
}

// @Summary      Google Callback
// @Description  Completes Google login and returns StudyPilot tokens
// @Tags         auth
// @Produce      json
// @Param        code  query string true "Authorization code"
// @Param        state query string true "OAuth state"
// @Success      200 {object} loginResponse
// @Failure      400 {object} response.ErrorEnvelope
// @Failure      500 {object} response.ErrorEnvelope
// @Router       /auth/google/callback [get]
func (g *Google) CallbackHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		want, err := c.Cookie(stateCookie)
		if err != nil || want == "" || want != c.Query("state") {
			response.RespondError(c, http.StatusBadRequest, "invalid_oauth_state", errors.New("invalid OAuth state"))
			return
		}

		ctx := c.Request.Context()
		token, err := g.oauth.Exchange(ctx, c.Query("code"))
		if err != nil {
			g.log.Warn("google token exchange failed", "error", err)
			response.RespondError(c, http.StatusBadRequest, "token_exchange_failed", errors.New("failed to exchange token"))
			return
		}

		info, err := g.fetchUserInfo(ctx, token)
		if err != nil {
			g.log.Warn("google userinfo failed", "error", err)
			response.RespondError(c, http.StatusBadRequest, "userinfo_failed", errors.New("failed to get user info"))
			return
		}

		u := models.User{
			Email:        info.Email,
			Name:         info.Name,
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			TokenType:    token.TokenType,
			Expiry:       token.Expiry,
		}
		if err := g.users.SaveOrUpdateUser(ctx, u); err != nil {
			g.log.Error("save user failed", "error", err)
			response.RespondError(c, http.StatusInternalServerError, "save_user_failed", errors.New("failed to save user"))
			return
		}
		saved, err := g.users.GetUserByEmail(ctx, info.Email)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "load_user_failed", errors.New("failed to load user"))
			return
		}

		pair, err := g.tokens.Issue(strconv.FormatUint(uint64(saved.ID), 10), saved.Email)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "token_issue_failed", err)
			return
		}
		c.SetCookie(stateCookie, "", -1, "/auth/google", "", false, true)
		g.log.Info("user logged in", "user_id", saved.ID)
		response.RespondOK(c, loginResponse{TokenPair: pair, Email: saved.Email})
	}
}

type userInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (g *Google) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	resp, err := g.oauth.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %s", resp.Status)
	}
	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, errors.New("userinfo has no email")
	}
	return &info, nil
}
