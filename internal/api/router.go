// Package api is the HTTP transport: thin handlers over the services
// layer plus the route table.
package api

import (
	"github.com/gorilla/mux"

	"github.com/motoguard/motoguard/internal/activation"
	"github.com/motoguard/motoguard/internal/api/recovery"
	"github.com/motoguard/motoguard/internal/health"
	"github.com/motoguard/motoguard/internal/services"
)

// Deps is everything the router needs, built by the service runner.
type Deps struct {
	Contacts  *services.ContactService
	Sessions  *services.SessionService
	Emergency *services.EmergencyService
	Trigger   *activation.Machine
	Health    *health.ServiceHealthChecker
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	contactsHandler := NewContactsHandler(deps.Contacts)
	sessionsHandler := NewSessionsHandler(deps.Sessions)
	emergencyHandler := NewEmergencyHandler(deps.Emergency)
	healthHandler := NewHealthHandler(deps.Health)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Contact book
	router.HandleFunc("/api/contacts", contactsHandler.ListContacts).Methods("GET")
	router.HandleFunc("/api/contacts", contactsHandler.SaveContacts).Methods("POST")

	// Session history and lifecycle
	router.HandleFunc("/api/sessions", sessionsHandler.ListSessions).Methods("GET")
	router.HandleFunc("/api/sessions/active", sessionsHandler.ActiveSession).Methods("GET")
	router.HandleFunc("/api/sessions/{sessionId}", sessionsHandler.PatchSession).Methods("PATCH")
	router.HandleFunc("/api/sessions/{sessionId}/resolve", sessionsHandler.ResolveSession).Methods("POST")
	router.HandleFunc("/api/sessions/{sessionId}/cancel", sessionsHandler.CancelSession).Methods("POST")

	// Hold-to-confirm trigger
	triggerHandler := NewTriggerHandler(deps.Trigger)
	router.HandleFunc("/api/trigger", triggerHandler.State).Methods("GET")
	router.HandleFunc("/api/trigger/press", triggerHandler.Press).Methods("POST")
	router.HandleFunc("/api/trigger/release", triggerHandler.Release).Methods("POST")
	router.HandleFunc("/api/trigger/resolve", triggerHandler.Resolve).Methods("POST")
	router.HandleFunc("/api/trigger/cancel", triggerHandler.Cancel).Methods("POST")

	// Activation and the surfaces it draws on
	router.HandleFunc("/api/emergency/activate", emergencyHandler.Activate).Methods("POST")
	router.HandleFunc("/api/location", emergencyHandler.CurrentLocation).Methods("GET")
	router.HandleFunc("/api/facilities/nearby", emergencyHandler.NearbyFacilities).Methods("GET")
	router.HandleFunc("/api/facilities/{name}/call", emergencyHandler.CallFacility).Methods("POST")

	return router
}
