package web

import (
	"database/sql"
	"io/fs"
	"net/http"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/model"
	webembed "github.com/erazemk/inventura/web"
)

// Server serves the browser pages. The pages talk to the JSON API themselves.
type Server struct {
	DB        *sql.DB
	JWTSecret string
	Static    fs.FS
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string) (http.Handler, error) {
	static, err := webembed.StaticFS()
	if err != nil {
		return nil, err
	}

	s := &Server{DB: db, JWTSecret: jwtSecret, Static: static}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.Handle("GET /scanner", cookieAuth(http.HandlerFunc(s.ScannerPage)))
	mux.Handle("GET /admin", cookieAuth(http.HandlerFunc(s.AdminPage)))

	return mux, nil
}

// homeFor returns the landing page for a role.
func homeFor(role string) string {
	if model.RoleAtLeast(role, model.RoleAdmin) {
		return "/admin"
	}
	return "/scanner"
}

// LoginPage handles GET /login. Callers with a valid cookie go straight to
// their landing page.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		if id, err := auth.Authenticate(r.Context(), s.DB, s.JWTSecret, cookie.Value); err == nil {
			http.Redirect(w, r, homeFor(id.Role), http.StatusSeeOther)
			return
		}
	}
	s.servePage(w, r, "login.html")
}

// ScannerPage handles GET /scanner.
func (s *Server) ScannerPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "scanner.html")
}

// AdminPage handles GET /admin. Non-admins are sent to the scanner.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if !model.RoleAtLeast(id.Role, model.RoleAdmin) {
		http.Redirect(w, r, "/scanner", http.StatusSeeOther)
		return
	}
	s.servePage(w, r, "admin.html")
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) {
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFileFS(w, r, s.Static, name)
}
