package model

import "time"

// SessionStatus is the lifecycle state of an emergency session.
// Sessions start active; resolved and cancelled are terminal.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionResolved  SessionStatus = "resolved"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionResolved || s == SessionCancelled
}

// FacilityType classifies a medical facility.
type FacilityType string

const (
	FacilityHospital  FacilityType = "hospital"
	FacilityClinic    FacilityType = "clinic"
	FacilityEmergency FacilityType = "emergency"
)

// Contact is an emergency contact to be alerted on activation.
// At most one contact in the stored collection may be primary.
type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	IsPrimary    bool   `json:"isPrimary"`
}

// Facility is a medical location returned by proximity lookup.
// DistanceKm is derived from the query coordinate on every lookup and is
// never persisted.
type Facility struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Address    string       `json:"address"`
	Phone      string       `json:"phone"`
	Lat        float64      `json:"lat"`
	Lng        float64      `json:"lng"`
	Type       FacilityType `json:"type"`
	DistanceKm float64      `json:"distance"`
}

// GeoPoint is the coordinate recorded with a session.
type GeoPoint struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

// LocationData is a single position reading from the location provider.
// A fresh instance replaces the prior one; readings are never mutated.
type LocationData struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Point returns the coordinate portion of the reading.
func (l LocationData) Point() GeoPoint {
	return GeoPoint{Lat: l.Lat, Lng: l.Lng, Accuracy: l.Accuracy}
}

// EmergencySession is one emergency episode, from activation to
// resolution or cancellation. ContactsNotified and HospitalsContacted are
// append-only while the session is active.
type EmergencySession struct {
	ID                 string        `json:"id"`
	Timestamp          time.Time     `json:"timestamp"`
	Location           GeoPoint      `json:"location"`
	Address            string        `json:"address"`
	Status             SessionStatus `json:"status"`
	ContactsNotified   []string      `json:"contactsNotified"`
	HospitalsContacted []string      `json:"hospitalsContacted"`
}

// SessionPatch is a merge-patch over an EmergencySession. Nil fields are
// left untouched; set fields replace the stored value wholesale.
type SessionPatch struct {
	Status             *SessionStatus `json:"status,omitempty"`
	Address            *string        `json:"address,omitempty"`
	ContactsNotified   *[]string      `json:"contactsNotified,omitempty"`
	HospitalsContacted *[]string      `json:"hospitalsContacted,omitempty"`
}

// Apply merges the patch onto s, field-replace semantics.
func (p SessionPatch) Apply(s *EmergencySession) {
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.ContactsNotified != nil {
		s.ContactsNotified = append([]string(nil), (*p.ContactsNotified)...)
	}
	if p.HospitalsContacted != nil {
		s.HospitalsContacted = append([]string(nil), (*p.HospitalsContacted)...)
	}
}

// DeliveryResult is the outcome of one alert delivery attempt. Deliveries
// are per-contact and aggregated; one failure never aborts the rest.
type DeliveryResult struct {
	ContactID   string    `json:"contactId"`
	ContactName string    `json:"contactName"`
	Delivered   bool      `json:"delivered"`
	Error       string    `json:"error,omitempty"`
	AttemptedAt time.Time `json:"attemptedAt"`
}
