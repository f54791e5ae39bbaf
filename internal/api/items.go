package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// ItemsHandler handles scanned items inside sessions.
type ItemsHandler struct {
	DB *sql.DB
}

type addItemRequest struct {
	SKU      string `json:"sku"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=1"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=1"`
}

const (
	msgItemNotFound    = "Artikel ni najden"
	msgInvalidQuantity = "Količina mora biti vsaj 1"
)

// List handles GET /api/sessions/{id}/items. Admins may read any session.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	session, err := store.GetSession(r.Context(), h.DB, sessionID)
	if err != nil {
		slog.Error("failed to get session", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if session == nil {
		jsonError(w, http.StatusNotFound, msgSessionNotFound)
		return
	}

	me := auth.FromContext(r.Context())
	if session.UserID != me.UserID && me.Role != model.RoleAdmin {
		jsonError(w, http.StatusForbidden, "Ni dovoljenja")
		return
	}

	items, err := store.ListSessionItems(r.Context(), h.DB, sessionID)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Add handles POST /api/sessions/{id}/items.
func (h *ItemsHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		jsonError(w, http.StatusBadRequest, "SKU je obvezen")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidQuantity)
		return
	}
	quantity := model.DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	me := auth.FromContext(r.Context())
	item, err := store.AddItem(r.Context(), h.DB, sessionID, me.UserID, sku, quantity)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "Aktivna seja ni najdena")
		return
	}
	if err != nil {
		slog.Error("failed to add item", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}. Only the quantity can change, and only
// while the session is active.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, msgInvalidQuantity)
		return
	}

	me := auth.FromContext(r.Context())
	err := store.UpdateItemQuantity(r.Context(), h.DB, id, me.UserID, *req.Quantity)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	jsonOK(w)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	me := auth.FromContext(r.Context())
	err := store.DeleteItem(r.Context(), h.DB, id, me.UserID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	jsonOK(w)
}
