package api

import (
	"bytes"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/export"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// AdminHandler handles the admin overview, search and export endpoints.
type AdminHandler struct {
	DB *sql.DB
}

const dateLayout = "2006-01-02"

// parseSessionFilter reads userId, status, from and to from the query.
func parseSessionFilter(q url.Values) (store.SessionFilter, error) {
	var f store.SessionFilter

	userID, err := parseOptionalID(q.Get("userId"))
	if err != nil {
		return f, fmt.Errorf("userId: %w", err)
	}
	f.UserID = userID

	if status := q.Get("status"); status != "" {
		if !model.ValidSessionStatus(status) {
			return f, fmt.Errorf("status: unknown value %q", status)
		}
		f.Status = status
	}

	if from := q.Get("from"); from != "" {
		if f.From, err = time.Parse(dateLayout, from); err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
	}
	if to := q.Get("to"); to != "" {
		if f.To, err = time.Parse(dateLayout, to); err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
	}

	return f, nil
}

func parseOptionalID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// Sessions handles GET /api/admin/sessions.
func (h *AdminHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	f, err := parseSessionFilter(r.URL.Query())
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Neveljaven filter: "+err.Error())
		return
	}

	sessions, err := store.ListSessions(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	jsonResponse(w, http.StatusOK, sessions)
}

// Items handles GET /api/admin/items.
func (h *AdminHandler) Items(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID, err := parseOptionalID(q.Get("userId"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Neveljaven filter: userId")
		return
	}
	sessionID, err := parseOptionalID(q.Get("sessionId"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Neveljaven filter: sessionId")
		return
	}

	items, err := store.SearchItems(r.Context(), h.DB, store.ItemSearch{
		SKU:       strings.TrimSpace(q.Get("search")),
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		slog.Error("failed to search items", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if items == nil {
		items = []model.AdminItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get stats", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Export handles GET /api/admin/export. The file is rendered in memory so a
// failure can still be reported as JSON.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Neveljaven format izvoza")
		return
	}
	f, err := parseSessionFilter(q)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Neveljaven filter: "+err.Error())
		return
	}

	rows, err := store.ListExportRows(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("failed to load export rows", "error", err)
		jsonError(w, http.StatusInternalServerError, "Napaka pri izvozu")
		return
	}

	var buf bytes.Buffer
	switch format {
	case export.FormatCSV:
		err = export.WriteCSV(&buf, rows)
	default:
		var summaries []model.UserSummary
		summaries, err = store.ListUserSummaries(r.Context(), h.DB, f.UserID)
		if err == nil {
			err = export.WriteXLSX(&buf, rows, summaries)
		}
	}
	if err != nil {
		slog.Error("failed to render export", "error", err, "format", format)
		jsonError(w, http.StatusInternalServerError, "Napaka pri izvozu")
		return
	}

	me := auth.FromContext(r.Context())
	slog.Info("data exported", "user", me.Username, "format", format, "rows", len(rows))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(time.Now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export response", "error", err)
	}
}
