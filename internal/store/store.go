package store

import (
	"context"

	"github.com/motoguard/motoguard/internal/model"
)

// DefaultHistoryLimit caps the persisted session history. The newest
// session is kept at the head; entries beyond the cap are evicted.
const DefaultHistoryLimit = 10

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres, memory).
type Store interface {
	Contacts() Contacts
	Sessions() Sessions
}

// Contacts is whole-collection persistence for emergency contacts.
// There is no partial update: every edit round-trips the full list.
type Contacts interface {
	// List returns the stored collection in insertion order. Unparseable
	// stored data degrades to an empty collection, never an error.
	List(ctx context.Context) ([]model.Contact, error)
	// Save replaces the stored collection. The store normalizes the
	// primary flag so at most one contact remains primary, and returns
	// the collection as persisted.
	Save(ctx context.Context, contacts []model.Contact) ([]model.Contact, error)
}

// Sessions persists emergency sessions, newest first, capped at the
// history limit.
type Sessions interface {
	// Create allocates an active session with empty notification lists
	// and prepends it to the history, evicting beyond the cap.
	Create(ctx context.Context, loc model.GeoPoint, address string) (*model.EmergencySession, error)
	// List returns sessions newest first. Unparseable stored data
	// degrades to an empty collection, never an error.
	List(ctx context.Context) ([]model.EmergencySession, error)
	// Update merge-patches the matching session. An unknown id is a
	// silent no-op, not an error.
	Update(ctx context.Context, id string, patch model.SessionPatch) error
}

// NormalizePrimary clears duplicate primary flags in place. When more
// than one contact is marked primary the last one in the list wins,
// matching "setting a new primary clears the flag on all others".
func NormalizePrimary(contacts []model.Contact) {
	last := -1
	for i := range contacts {
		if contacts[i].IsPrimary {
			last = i
		}
	}
	for i := range contacts {
		contacts[i].IsPrimary = i == last && last >= 0
	}
}
