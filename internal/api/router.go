package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/model"
)

// NewRouter creates the API router with all endpoints registered, plus the
// health check.
func NewRouter(db *sql.DB, jwtSecret string, tokenTTL time.Duration) http.Handler {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
		Limiter:   auth.NewLoginLimiter(auth.DefaultMaxLoginFailures, auth.DefaultLoginLockout),
	}
	usersHandler := &UsersHandler{DB: db}
	sessionsHandler := &SessionsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }
	user := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			jsonError(w, http.StatusServiceUnavailable, "Baza ni dosegljiva")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// Authenticated.
	mux.Handle("GET /api/auth/me", user(authHandler.Me))
	mux.Handle("PUT /api/auth/password", user(authHandler.ChangePassword))

	mux.Handle("GET /api/sessions", user(sessionsHandler.List))
	mux.Handle("POST /api/sessions", user(sessionsHandler.Create))
	mux.Handle("PUT /api/sessions/{id}/complete", user(sessionsHandler.Complete))
	mux.Handle("DELETE /api/sessions/{id}", user(sessionsHandler.Delete))

	mux.Handle("GET /api/sessions/{id}/items", user(itemsHandler.List))
	mux.Handle("POST /api/sessions/{id}/items", user(itemsHandler.Add))
	mux.Handle("PUT /api/items/{id}", user(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", user(itemsHandler.Delete))

	// Admin only.
	mux.Handle("GET /api/admin/users", admin(usersHandler.List))
	mux.Handle("POST /api/admin/users", admin(usersHandler.Create))
	mux.Handle("GET /api/admin/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/admin/users/{id}", admin(usersHandler.Update))
	mux.Handle("DELETE /api/admin/users/{id}", admin(usersHandler.Delete))

	mux.Handle("GET /api/admin/sessions", admin(adminHandler.Sessions))
	mux.Handle("GET /api/admin/items", admin(adminHandler.Items))
	mux.Handle("GET /api/admin/stats", admin(adminHandler.Stats))
	mux.Handle("GET /api/admin/export", admin(adminHandler.Export))

	return mux
}
