// Package memory provides a mutex-guarded in-process store used by dev
// mode and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store"
)

type memStore struct {
	mu       sync.RWMutex
	contacts []model.Contact
	sessions []model.EmergencySession
	limit    int
}

// New returns an empty in-memory store. historyLimit <= 0 selects the
// default cap.
func New(historyLimit int) store.Store {
	if historyLimit <= 0 {
		historyLimit = store.DefaultHistoryLimit
	}
	return &memStore{limit: historyLimit}
}

func (m *memStore) Contacts() store.Contacts { return &contacts{m} }
func (m *memStore) Sessions() store.Sessions { return &sessions{m} }

// HealthPing implements health.HealthPinger; the in-process store is
// always reachable.
func (m *memStore) HealthPing(ctx context.Context) error { return ctx.Err() }

type contacts struct{ p *memStore }

func (c *contacts) List(ctx context.Context) ([]model.Contact, error) {
	c.p.mu.RLock()
	defer c.p.mu.RUnlock()
	return append([]model.Contact(nil), c.p.contacts...), nil
}

func (c *contacts) Save(ctx context.Context, list []model.Contact) ([]model.Contact, error) {
	saved := append([]model.Contact(nil), list...)
	store.NormalizePrimary(saved)
	c.p.mu.Lock()
	c.p.contacts = saved
	c.p.mu.Unlock()
	return append([]model.Contact(nil), saved...), nil
}

type sessions struct{ p *memStore }

func (s *sessions) Create(ctx context.Context, loc model.GeoPoint, address string) (*model.EmergencySession, error) {
	session := model.EmergencySession{
		ID:                 uuid.New().String(),
		Timestamp:          time.Now().UTC(),
		Location:           loc,
		Address:            address,
		Status:             model.SessionActive,
		ContactsNotified:   []string{},
		HospitalsContacted: []string{},
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.sessions = append([]model.EmergencySession{session}, s.p.sessions...)
	if len(s.p.sessions) > s.p.limit {
		s.p.sessions = s.p.sessions[:s.p.limit]
	}
	return &session, nil
}

func (s *sessions) List(ctx context.Context) ([]model.EmergencySession, error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()
	out := make([]model.EmergencySession, len(s.p.sessions))
	for i := range s.p.sessions {
		out[i] = cloneSession(s.p.sessions[i])
	}
	return out, nil
}

func (s *sessions) Update(ctx context.Context, id string, patch model.SessionPatch) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for i := range s.p.sessions {
		if s.p.sessions[i].ID == id {
			patch.Apply(&s.p.sessions[i])
		}
	}
	return nil
}

func cloneSession(in model.EmergencySession) model.EmergencySession {
	out := in
	out.ContactsNotified = append([]string(nil), in.ContactsNotified...)
	out.HospitalsContacted = append([]string(nil), in.HospitalsContacted...)
	return out
}
