package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// SessionsHandler handles the caller's own scan sessions.
type SessionsHandler struct {
	DB *sql.DB
}

type createSessionRequest struct {
	Name string `json:"name"`
}

const msgSessionNotFound = "Seja ni najdena"

// List handles GET /api/sessions.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	me := auth.FromContext(r.Context())

	sessions, err := store.ListUserSessions(r.Context(), h.DB, me.UserID)
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

// Create handles POST /api/sessions. A missing name is generated from the
// current time.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = model.DefaultSessionName(time.Now())
	}

	me := auth.FromContext(r.Context())
	session, err := store.CreateSession(r.Context(), h.DB, me.UserID, name)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.Info("session created", "user", me.Username, "session_id", session.ID, "name", session.Name)
	jsonResponse(w, http.StatusCreated, session)
}

// Complete handles PUT /api/sessions/{id}/complete.
func (h *SessionsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	me := auth.FromContext(r.Context())
	err := store.CompleteSession(r.Context(), h.DB, id, me.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, msgSessionNotFound)
		return
	case errors.Is(err, store.ErrSessionCompleted):
		jsonError(w, http.StatusConflict, "Seja je že zaključena")
		return
	case err != nil:
		slog.Error("failed to complete session", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.Info("session completed", "user", me.Username, "session_id", id)
	jsonOK(w)
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	me := auth.FromContext(r.Context())
	err := store.DeleteSession(r.Context(), h.DB, id, me.UserID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgSessionNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete session", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.Info("session deleted", "user", me.Username, "session_id", id)
	jsonOK(w)
}
