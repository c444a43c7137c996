package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store"
)

// ContactService manages the emergency contact collection. Edits
// round-trip the full list; the store keeps the at-most-one-primary
// invariant on save.
type ContactService struct {
	store store.Store
}

func NewContactService(s store.Store) *ContactService {
	return &ContactService{store: s}
}

func (s *ContactService) List(ctx context.Context) ([]model.Contact, error) {
	return s.store.Contacts().List(ctx)
}

// Save validates and persists the full collection. Contacts without an
// id are treated as new and assigned one.
func (s *ContactService) Save(ctx context.Context, contacts []model.Contact) ([]model.Contact, error) {
	for i := range contacts {
		if strings.TrimSpace(contacts[i].Name) == "" {
			return nil, model.ErrValidation
		}
		if strings.TrimSpace(contacts[i].Phone) == "" {
			return nil, model.ErrValidation
		}
		if contacts[i].ID == "" {
			contacts[i].ID = uuid.New().String()
		}
	}
	return s.store.Contacts().Save(ctx, contacts)
}
