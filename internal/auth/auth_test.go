package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/studypilot/studypilot-back/internal/config"
	"github.com/studypilot/studypilot-back/internal/db/dbtest"
	"github.com/studypilot/studypilot-back/internal/logger"
)

func init() { gin.SetMode(gin.TestMode) }

func newTokens(t *testing.T) *Tokens {
	t.Helper()
	tk, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return tk
}

func TestTokensRoundTrip(t *testing.T) {
	tk := newTokens(t)
	pair, err := tk.Issue("42", "a@b.c")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := tk.Verify(pair.AccessToken, tokenTypeAccess)
	if err != nil || claims.Subject != "42" || claims.Email != "a@b.c" {
		t.Fatalf("Verify access: %+v %v", claims, err)
	}
	if _, err := tk.Verify(pair.RefreshToken, tokenTypeAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("refresh used as access: %v", err)
	}
	other, _ := NewTokens("other-secret")
	if _, err := other.Verify(pair.AccessToken, tokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature accepted: %v", err)
	}

	tk.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := tk.Verify(pair.AccessToken, tokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}

	if _, err := NewTokens(""); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func protected(tk *Tokens) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(tk), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tk := newTokens(t)
	r := protected(tk)
	pair, _ := tk.Issue("7", "s@x.io")

	cases := []struct {
		name   string
		target string
		header map[string]string
		status int
		userID string
	}{
		{"bearer", "/me", map[string]string{"Authorization": "Bearer " + pair.AccessToken}, 200, "7"},
		{"guest query", "/me?guest_id=guest_abc-123", nil, 200, "guest_abc-123"},
		{"guest header", "/me", map[string]string{"X-Guest-Id": "guest_xyz"}, 200, "guest_xyz"},
		{"missing", "/me", nil, 401, ""},
		{"bad guest", "/me?guest_id=admin", nil, 401, ""},
		{"bad scheme", "/me", map[string]string{"Authorization": "Basic abc"}, 401, ""},
		{"refresh as access", "/me", map[string]string{"Authorization": "Bearer " + pair.RefreshToken}, 401, ""},
		{"bearer wins over guest", "/me?guest_id=guest_abc", map[string]string{"Authorization": "Bearer junk"}, 401, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("status %d body %s", w.Code, w.Body.String())
			}
			var body map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if tc.status == 200 && body["user_id"] != tc.userID {
				t.Fatalf("user_id = %v", body["user_id"])
			}
			if tc.status == 401 {
				if _, ok := body["error"].(map[string]interface{}); !ok {
					t.Fatalf("error envelope missing: %s", w.Body.String())
				}
			}
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	tk := newTokens(t)
	r := gin.New()
	r.POST("/auth/refresh", RefreshHandler(tk))
	pair, _ := tk.Issue("9", "r@x.io")

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"refresh_token":"` + pair.RefreshToken + `"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}
	var got TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims, err := tk.Verify(got.AccessToken, tokenTypeAccess); err != nil || claims.Subject != "9" {
		t.Fatalf("new access token: %+v %v", claims, err)
	}

	if w := post(`{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing token: %d", w.Code)
	}
	if w := post(`{"refresh_token":"` + pair.AccessToken + `"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("access token as refresh: %d", w.Code)
	}
}

func TestGoogleCallback(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"google-at","token_type":"Bearer","refresh_token":"google-rt","expires_in":3600}`))
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer google-at" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"email":"student@example.com","name":"Student"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer provider.Close()

	store := dbtest.Store(t)
	tk := newTokens(t)
	g := NewGoogle(&config.Config{GoogleClientID: "id", GoogleSecret: "secret", GoogleRedirectURL: "http://localhost/cb"}, store, tk, logger.Nop())
	g.oauth.Endpoint = oauth2.Endpoint{AuthURL: provider.URL + "/auth", TokenURL: provider.URL + "/token"}
	g.userInfoURL = provider.URL + "/userinfo"

	r := gin.New()
	r.GET("/auth/google/login", g.LoginHandler())
	r.GET("/auth/google/callback", g.CallbackHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("login: %d", w.Code)
	}
	var state string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == stateCookie {
			state = ck.Value
		}
	}
	if state == "" || !strings.Contains(w.Header().Get("Location"), "state="+state) {
		t.Fatalf("state cookie %q, location %s", state, w.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=wrong", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: state})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("state mismatch accepted: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: state})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("callback: %d %s", w.Code, w.Body.String())
	}
	var got loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	user, err := store.GetUserByEmail(req.Context(), "student@example.com")
	if err != nil {
		t.Fatalf("user not saved: %v", err)
	}
	claims, err := tk.Verify(got.AccessToken, tokenTypeAccess)
	if err != nil || claims.Email != "student@example.com" || claims.Subject == "" || user.RefreshToken != "google-rt" {
		t.Fatalf("claims %+v err %v user %+v", claims, err, user)
	}
}
