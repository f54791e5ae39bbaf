package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// UsersHandler handles user management endpoints (admin only).
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=admin user"`
}

type updateUserRequest struct {
	DisplayName *string   `json:"displayName"`
	Password    *string   `json:"password"`
	Active      *flexBool `json:"active"`
	Role        *string   `json:"role" validate:"omitempty,oneof=admin user"`
}

const (
	msgUserNotFound     = "Uporabnik ni najden"
	msgPasswordTooShort = "Geslo mora imeti vsaj 6 znakov"
)

// List handles GET /api/admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if users == nil {
		users = []model.UserOverview{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/admin/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "Vsa polja so obvezna")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, msgPasswordTooShort)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		jsonError(w, http.StatusInternalServerError, "Napaka pri ustvarjanju uporabnika")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, hash, req.DisplayName, req.Role)
	if errors.Is(err, store.ErrUsernameTaken) {
		jsonError(w, http.StatusConflict, "Uporabniško ime že obstaja")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		jsonError(w, http.StatusInternalServerError, "Napaka pri ustvarjanju uporabnika")
		return
	}

	id := auth.FromContext(r.Context())
	slog.Info("user created", "user", id.Username, "new_user", user.Username, "role", user.Role)
	jsonResponse(w, http.StatusCreated, user)
}

// Get handles GET /api/admin/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get user", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/admin/users/{id}. Every field is optional.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "Neveljavna vloga")
		return
	}

	me := auth.FromContext(r.Context())
	if targetID == me.UserID {
		if req.Active != nil && !bool(*req.Active) {
			jsonError(w, http.StatusBadRequest, "Ne moreš deaktivirati sebe")
			return
		}
		if req.Role != nil && *req.Role != model.RoleAdmin {
			jsonError(w, http.StatusBadRequest, "Ne moreš odvzeti administratorskih pravic sebi")
			return
		}
	}

	var upd store.UserUpdate
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			jsonError(w, http.StatusBadRequest, "Ime je obvezno")
			return
		}
		upd.DisplayName = &name
	}
	// An empty password leaves the current one in place.
	if req.Password != nil && *req.Password != "" {
		if err := model.ValidatePassword(*req.Password); err != nil {
			jsonError(w, http.StatusBadRequest, msgPasswordTooShort)
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			jsonError(w, http.StatusInternalServerError, "Napaka pri posodabljanju")
			return
		}
		upd.PasswordHash = &hash
	}
	if req.Active != nil {
		active := bool(*req.Active)
		upd.Active = &active
	}
	upd.Role = req.Role

	err := store.UpdateUser(r.Context(), h.DB, targetID, upd)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to update user", "error", err)
		jsonError(w, http.StatusInternalServerError, "Napaka pri posodabljanju")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, targetID)
	if err != nil || user == nil {
		slog.Error("failed to reload user", "error", err, "user_id", targetID)
		jsonError(w, http.StatusInternalServerError, "Napaka pri posodabljanju")
		return
	}

	slog.Info("user updated", "user", me.Username, "target_user", user.Username,
		"password_changed", upd.PasswordHash != nil, "active", user.Active, "role", user.Role)
	jsonResponse(w, http.StatusOK, user)
}

// Delete handles DELETE /api/admin/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	me := auth.FromContext(r.Context())
	if me.UserID == targetID {
		jsonError(w, http.StatusBadRequest, "Ne moreš izbrisati sebe")
		return
	}

	// Look up target name before deleting.
	target, _ := store.GetUser(r.Context(), h.DB, targetID)
	targetName := fmt.Sprintf("id:%d", targetID)
	if target != nil {
		targetName = target.Username
	}

	err := store.DeleteUser(r.Context(), h.DB, targetID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete user", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.Info("user deleted", "user", me.Username, "deleted_user", targetName)
	jsonOK(w)
}
