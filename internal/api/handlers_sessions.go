package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/motoguard/motoguard/internal/api/respond"
	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/services"
)

// SessionsHandler is a thin HTTP transport over the SessionService.
type SessionsHandler struct {
	svc *services.SessionService
}

func NewSessionsHandler(svc *services.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// ListSessions GET /api/sessions returns history, newest first.
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.List(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// ActiveSession GET /api/sessions/active
func (h *SessionsHandler) ActiveSession(w http.ResponseWriter, r *http.Request) {
	active, err := h.svc.Active(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if active == nil {
		respond.WriteNotFound(w, "no active session")
		return
	}
	respond.WriteJSON(w, http.StatusOK, active)
}

// PatchSession PATCH /api/sessions/{sessionId} merges the given fields.
func (h *SessionsHandler) PatchSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	var patch model.SessionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.svc.Update(r.Context(), id, patch); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResolveSession POST /api/sessions/{sessionId}/resolve
func (h *SessionsHandler) ResolveSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Resolve)
}

// CancelSession POST /api/sessions/{sessionId}/cancel
func (h *SessionsHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Cancel)
}

func (h *SessionsHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) error) {
	id := mux.Vars(r)["sessionId"]
	switch err := fn(r.Context(), id); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "unknown session")
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, "session already in a terminal status")
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
