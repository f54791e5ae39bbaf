package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

const testSecret = "web-secret"

func setup(t *testing.T) (http.Handler, map[string]string) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	tokens := map[string]string{}
	for _, role := range []string{model.RoleAdmin, model.RoleUser} {
		u, err := store.CreateUser(ctx, database, role+"-login", "hash", role, role)
		require.NoError(t, err)
		tokens[role], err = auth.GenerateToken(testSecret, time.Hour, auth.Subject{UserID: u.ID, Role: role})
		require.NoError(t, err)
	}

	router, err := NewRouter(database, testSecret)
	require.NoError(t, err)
	return router, tokens
}

func get(router http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	router, tokens := setup(t)

	tests := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{"root redirects", "/", "", http.StatusSeeOther, "/login"},
		{"login page", "/login", "", http.StatusOK, ""},
		{"login with admin cookie", "/login", tokens[model.RoleAdmin], http.StatusSeeOther, "/admin"},
		{"login with user cookie", "/login", tokens[model.RoleUser], http.StatusSeeOther, "/scanner"},
		{"login with stale cookie", "/login", "stale", http.StatusOK, ""},
		{"scanner anonymous", "/scanner", "", http.StatusSeeOther, "/login"},
		{"scanner bad cookie", "/scanner", "garbage", http.StatusSeeOther, "/login"},
		{"scanner user", "/scanner", tokens[model.RoleUser], http.StatusOK, ""},
		{"admin as user", "/admin", tokens[model.RoleUser], http.StatusSeeOther, "/scanner"},
		{"admin as admin", "/admin", tokens[model.RoleAdmin], http.StatusOK, ""},
		{"static asset", "/static/app.js", "", http.StatusOK, ""},
		{"missing asset", "/static/nope.js", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, tt.path, tt.token)
			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestPagesServeHTML(t *testing.T) {
	router, tokens := setup(t)

	rec := get(router, "/admin", tokens[model.RoleAdmin])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/admin/export")
}

func TestBadCookieIsCleared(t *testing.T) {
	router, _ := setup(t)

	rec := get(router, "/scanner", "garbage")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
