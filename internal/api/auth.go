package api

import (
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	TokenTTL  time.Duration
	Limiter   *auth.LoginLimiter // nil disables throttling
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type meResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type loginResponse struct {
	meResponse
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

const msgBadCredentials = "Napačno uporabniško ime ali geslo"

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "Vnesi uporabniško ime in geslo")
		return
	}

	key := auth.LimiterKey(req.Username, clientHost(r))
	if h.Limiter != nil && !h.Limiter.Allowed(key) {
		slog.Warn("login throttled", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusTooManyRequests, "Preveč neuspešnih poskusov prijave, poskusi znova kasneje")
		return
	}

	user, err := store.GetUserByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		jsonError(w, http.StatusInternalServerError, "Napaka pri prijavi")
		return
	}
	if user == nil || !user.Active || !auth.CheckPassword(user.PasswordHash, req.Password) {
		if h.Limiter != nil {
			h.Limiter.Fail(key)
		}
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if h.Limiter != nil {
		h.Limiter.Reset(key)
	}

	token, err := auth.GenerateToken(h.JWTSecret, h.TokenTTL, auth.Subject{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		jsonError(w, http.StatusInternalServerError, "Napaka pri prijavi")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	jsonResponse(w, http.StatusOK, loginResponse{
		meResponse: meResponse{ID: user.ID, Username: user.Username, DisplayName: user.DisplayName, Role: user.Role},
		Token:      token,
	})
}

// Logout handles POST /api/auth/logout. It is public: a presented token that
// is still valid gets revoked, and the cookie is always cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		if claims, err := auth.ValidateToken(h.JWTSecret, token); err == nil {
			if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
				slog.Error("failed to revoke token", "error", err)
				jsonError(w, http.StatusInternalServerError, msgInternal)
				return
			}
			slog.Info("user logged out", "user", claims.Username)
		}
	}

	clearAuthCookie(w)
	jsonOK(w)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	jsonResponse(w, http.StatusOK, meResponse{
		ID:          id.UserID,
		Username:    id.Username,
		DisplayName: id.DisplayName,
		Role:        id.Role,
	})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "Vnesi trenutno in novo geslo")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		jsonError(w, http.StatusBadRequest, msgPasswordTooShort)
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id.UserID)
	if err != nil || user == nil {
		slog.Error("failed to load user", "error", err, "user_id", id.UserID)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		jsonError(w, http.StatusUnauthorized, "Trenutno geslo ni pravilno")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if err := store.UpdateUserPassword(r.Context(), h.DB, id.UserID, hash); err != nil {
		slog.Error("failed to update password", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.Info("user changed own password", "user", id.Username)
	jsonOK(w)
}

// clientHost returns the remote host without the port.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
