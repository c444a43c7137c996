package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/motoguard/motoguard/internal/activation"
	"github.com/motoguard/motoguard/internal/api/respond"
	"github.com/motoguard/motoguard/internal/model"
)

// TriggerHandler exposes the hold-to-confirm gesture for embedded and
// local UI clients: press arms the countdown, release before expiry
// aborts, expiry activates. Remote callers that cannot hold a gesture
// open use POST /api/emergency/activate instead.
type TriggerHandler struct {
	machine *activation.Machine
}

func NewTriggerHandler(machine *activation.Machine) *TriggerHandler {
	return &TriggerHandler{machine: machine}
}

// State GET /api/trigger
func (h *TriggerHandler) State(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state": h.machine.State(),
	})
}

// Press POST /api/trigger/press arms the countdown. Refused while a
// countdown is running or a session is active.
func (h *TriggerHandler) Press(w http.ResponseWriter, r *http.Request) {
	// The countdown outlives this request: the request context is
	// cancelled as soon as the handler returns, while the gesture ends
	// only on release or expiry.
	if err := h.machine.Press(context.Background()); err != nil {
		if errors.Is(err, model.ErrConflict) {
			respond.WriteConflict(w, "trigger is not idle")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"state": h.machine.State(),
	})
}

// Release POST /api/trigger/release ends the gesture. During a countdown
// it aborts with no side effects; otherwise it is a no-op.
func (h *TriggerHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.machine.Release()
	w.WriteHeader(http.StatusNoContent)
}

// Resolve POST /api/trigger/resolve closes the machine's active session
// as resolved and returns the trigger to idle.
func (h *TriggerHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.finish(w, h.machine.Resolve(r.Context()))
}

// Cancel POST /api/trigger/cancel closes the machine's active session
// as cancelled and returns the trigger to idle.
func (h *TriggerHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.finish(w, h.machine.Cancel(r.Context()))
}

func (h *TriggerHandler) finish(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "no session held by the trigger")
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, "session already in a terminal status")
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
