package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/motoguard/motoguard/internal/api/respond"
	"github.com/motoguard/motoguard/internal/location"
	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/services"
)

// EmergencyHandler exposes activation, location, and facility lookups.
type EmergencyHandler struct {
	svc *services.EmergencyService
}

func NewEmergencyHandler(svc *services.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{svc: svc}
}

// Activate POST /api/emergency/activate runs the activation flow
// immediately (the hold-to-confirm countdown lives client side).
func (h *EmergencyHandler) Activate(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Activate(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			respond.WriteConflict(w, "a session is already active")
			return
		}
		if f := location.FailureOf(err); f != location.FailureUnknown {
			respond.WriteLocationFailure(w, string(f), err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, result)
}

// CurrentLocation GET /api/location
func (h *EmergencyHandler) CurrentLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.svc.CurrentLocation(r.Context())
	if err != nil {
		if f := location.FailureOf(err); f != location.FailureUnknown {
			respond.WriteLocationFailure(w, string(f), err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, loc)
}

// NearbyFacilities GET /api/facilities/nearby?lat=&lng=
// Without coordinates it ranks around the current provider reading.
func (h *EmergencyHandler) NearbyFacilities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		facilities []model.Facility
		err        error
	)
	if q.Get("lat") != "" || q.Get("lng") != "" {
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
		if latErr != nil || lngErr != nil {
			respond.WriteBadRequest(w, "lat and lng must both be valid numbers")
			return
		}
		facilities, err = h.svc.NearbyFacilitiesAt(r.Context(), model.LocationData{
			Lat: lat, Lng: lng, Timestamp: time.Now().UTC(),
		})
	} else {
		facilities, err = h.svc.NearbyFacilities(r.Context())
	}
	if err != nil {
		if f := location.FailureOf(err); f != location.FailureUnknown {
			respond.WriteLocationFailure(w, string(f), err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// CallFacility POST /api/facilities/{name}/call records the call on the
// active session.
func (h *EmergencyHandler) CallFacility(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	switch err := h.svc.CallFacility(r.Context(), name); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "no active session")
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
