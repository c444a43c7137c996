package services

import (
	"context"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store"
)

// SessionService manages the emergency session history and guards the
// lifecycle rule: active is the only non-terminal state, and resolved /
// cancelled admit no further transitions.
type SessionService struct {
	store store.Store
}

func NewSessionService(s store.Store) *SessionService {
	return &SessionService{store: s}
}

func (s *SessionService) Create(ctx context.Context, loc model.GeoPoint, address string) (*model.EmergencySession, error) {
	return s.store.Sessions().Create(ctx, loc, address)
}

func (s *SessionService) List(ctx context.Context) ([]model.EmergencySession, error) {
	return s.store.Sessions().List(ctx)
}

func (s *SessionService) Update(ctx context.Context, id string, patch model.SessionPatch) error {
	return s.store.Sessions().Update(ctx, id, patch)
}

// Active returns the currently active session, or nil when none exists.
func (s *SessionService) Active(ctx context.Context) (*model.EmergencySession, error) {
	list, err := s.store.Sessions().List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Status == model.SessionActive {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Resolve transitions an active session to resolved.
func (s *SessionService) Resolve(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.SessionResolved)
}

// Cancel transitions an active session to cancelled.
func (s *SessionService) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.SessionCancelled)
}

func (s *SessionService) transition(ctx context.Context, id string, to model.SessionStatus) error {
	sess, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if sess.Status.Terminal() {
		return model.ErrConflict
	}
	return s.store.Sessions().Update(ctx, id, model.SessionPatch{Status: &to})
}

// AppendHospitalContacted records a facility contact on an active
// session. The list is append-only; existing entries are never removed
// or reordered.
func (s *SessionService) AppendHospitalContacted(ctx context.Context, id, facilityName string) error {
	sess, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if sess.Status.Terminal() {
		return model.ErrConflict
	}
	updated := append(append([]string(nil), sess.HospitalsContacted...), facilityName)
	return s.store.Sessions().Update(ctx, id, model.SessionPatch{HospitalsContacted: &updated})
}

func (s *SessionService) get(ctx context.Context, id string) (*model.EmergencySession, error) {
	list, err := s.store.Sessions().List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, model.ErrNotFound
}
