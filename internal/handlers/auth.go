package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/middleware"
	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/services"
)

const (
	displayNameCookie = "display_name"
	displayNameMaxAge = 30 * 24 * time.Hour
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	auth       *services.AuthService
	production bool
	log        *zap.SugaredLogger
}

func NewAuthHandler(auth *services.AuthService, production bool, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{auth: auth, production: production, log: log}
}

type loginRequest struct {
	AccessToken string `json:"accessToken"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Provider string `json:"provider"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar, Provider: u.Provider}
}

// Google handles POST /api/auth/google
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.ProviderGoogle)
}

// Naver handles POST /api/auth/naver
func (h *AuthHandler) Naver(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.ProviderNaver)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, provider string) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.AccessToken) == "" {
		respondError(w, http.StatusBadRequest, "Access token is required", "")
		return
	}

	res, err := h.auth.Login(r.Context(), provider, strings.TrimSpace(req.AccessToken))
	if err != nil {
		h.log.Errorw("Login failed", "provider", provider, "error", err)
		respondError(w, http.StatusInternalServerError, "Login failed", "Could not sign in with "+provider+".")
		return
	}

	h.setCookie(w, middleware.TokenCookie, res.Token, true, h.auth.SessionTTL())
	h.setCookie(w, displayNameCookie, url.QueryEscape(res.User.Name), false, displayNameMaxAge)

	h.log.Infow("User logged in", "provider", provider, "userId", res.User.ID)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    newUserResponse(res.User),
		"token":   res.Token,
		"message": "Login successful",
	})
}

// Verify handles GET /api/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFrom(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": userResponse{
			ID:       id.UserID,
			Email:    id.Email,
			Name:     id.Name,
			Provider: id.Provider,
		},
		"message": "Token is valid",
	})
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, h.log, err, "fetch profile")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Logout handles POST /api/auth/logout[?all=true]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"
	if err := h.auth.Logout(r.Context(), middleware.SessionToken(r), all); err != nil {
		h.log.Warnw("Session revoke failed", "error", err)
	}

	h.setCookie(w, middleware.TokenCookie, "", true, -1)
	h.setCookie(w, displayNameCookie, "", false, -1)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out"})
}

// setCookie writes a root-path cookie; maxAge < 0 deletes it.
func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, httpOnly bool, maxAge time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: httpOnly,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	}
	if h.production {
		c.SameSite = http.SameSiteNoneMode
	}
	if maxAge < 0 {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	} else {
		c.MaxAge = int(maxAge.Seconds())
		c.Expires = time.Now().Add(maxAge)
	}
	http.SetCookie(w, c)
}
