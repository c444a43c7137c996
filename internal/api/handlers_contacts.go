package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/motoguard/motoguard/internal/api/respond"
	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/services"
)

// ContactsHandler is a thin HTTP transport over the ContactService.
type ContactsHandler struct {
	svc *services.ContactService
}

func NewContactsHandler(svc *services.ContactService) *ContactsHandler {
	return &ContactsHandler{svc: svc}
}

// ListContacts GET /api/contacts
func (h *ContactsHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.svc.List(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// SaveContacts POST /api/contacts replaces the whole contact book.
func (h *ContactsHandler) SaveContacts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contacts []model.Contact `json:"contacts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	saved, err := h.svc.Save(r.Context(), req.Contacts)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": saved,
		"count":    len(saved),
	})
}
